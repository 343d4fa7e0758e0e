package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/kirke/internal/config"
	"gitgub.com/cam-per/kirke/internal/convert"
)

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "kirke",
		Usage:     "converts .grp and .pal files to .json for debugging / prototyping / interest",
		ArgsUsage: "<path to file or directory>...",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config `file`"},
			&cli.StringFlag{Name: "out-dir", Aliases: []string{"o"}, Usage: "write documents to `dir` instead of next to the input"},
			&cli.StringFlag{Name: "charset", Usage: "legacy charset of input file names: cp437, cp850, cp866 or cp1252"},
			&cli.StringFlag{Name: "compress", Usage: "compress documents: none, gzip or zstd"},
			&cli.IntFlag{Name: "verbosity", Usage: "log verbosity"},
		},
		Action: convertAction,
		Commands: []*cli.Command{
			dumpCommand(),
		},
	}
}

// loadConfig merges the config file with explicitly set flags.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if cmd.IsSet("out-dir") {
		cfg.OutputDir = cmd.String("out-dir")
	}
	if cmd.IsSet("charset") {
		cfg.Charset = cmd.String("charset")
	}
	if cmd.IsSet("compress") {
		cfg.Compress = cmd.String("compress")
	}
	if cmd.IsSet("verbosity") {
		cfg.Verbosity = int(cmd.Int("verbosity"))
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	flag.Set("v", strconv.Itoa(cfg.Verbosity))
	return cfg, nil
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if cmd.NArg() == 0 {
		fmt.Fprintln(out, `Please provide a file path or directory or type "kirke help" for help!`)
		return cli.ShowAppHelp(cmd)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	converter := convert.New(opts)

	var failed int
	for _, path := range cmd.Args().Slice() {
		results, err := converter.Convert(ctx, path)
		for _, res := range results {
			fmt.Fprintf(out, "Converted %s to %s\n", res.Input, res.Output)
		}
		if err != nil {
			failed++
			var unsupported *convert.UnsupportedExtensionError
			if errors.As(err, &unsupported) {
				fmt.Fprintf(out, "kirke can not convert files with an extension of: %s\n", unsupported.Ext)
				continue
			}
			fmt.Fprintf(out, "Failed to convert %s: %v\n", path, err)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d paths failed to convert", failed, cmd.NArg())
	}
	return nil
}

func main() {
	flag.Set("logtostderr", "true")
	err := newCommand(os.Stdout).Run(context.Background(), os.Args)
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
