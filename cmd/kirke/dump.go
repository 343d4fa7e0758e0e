package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/kirke/grp"
	"gitgub.com/cam-per/kirke/utils"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print the header and frame table of a .grp file",
		ArgsUsage: "<path to .grp file>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "frame", Value: -1, Usage: "only print frame `n`"},
			&cli.BoolFlag{Name: "hex", Usage: "hex dump each frame's line-offset table"},
		},
		Action: dumpAction,
	}
}

func dumpAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return cli.ShowSubcommandHelp(cmd)
	}
	out := cmd.Root().Writer
	path := cmd.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	defer f.Close()

	decoder, err := grp.NewDecoder(f)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	data := decoder.Bytes()
	h := decoder.Header()

	fmt.Fprintf(out, "%s: %s, %d frames, group %dx%d, frames cover %v\n",
		path, humanize.Bytes(uint64(len(data))), h.FrameCount, h.GroupWidth, h.GroupHeight, grp.Bounds(decoder.FrameHeaders()))

	only := int(cmd.Int("frame"))
	for i, fh := range decoder.FrameHeaders() {
		if only >= 0 && i != only {
			continue
		}
		compressed := false
		if !fh.Empty() {
			offsets, err := grp.LineOffsets(data, fh)
			if err != nil {
				return errors.Wrapf(err, "frame %d", i)
			}
			compressed = grp.IsCompressed(offsets, fh.Width)
		}
		fmt.Fprintf(out, "frame %d: %dx%d at %v, data at 0x%x, compressed=%v\n",
			i, fh.Width, fh.Height, fh.Rect(), fh.DataOffset, compressed)
		if cmd.Bool("hex") && !fh.Empty() {
			if err := utils.HexDump(out, bytes.NewReader(data), int64(fh.DataOffset), 2*int64(fh.Height)); err != nil {
				return err
			}
		}
	}
	return nil
}
