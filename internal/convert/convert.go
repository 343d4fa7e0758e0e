// Package convert turns GRP and PAL files into JSON documents on disk.
package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"gitgub.com/cam-per/kirke/grp"
	"gitgub.com/cam-per/kirke/pal"
	"gitgub.com/cam-per/kirke/utils"
)

type Kind uint8

const (
	KindGRP Kind = iota + 1
	KindPAL
)

func (k Kind) String() string {
	switch k {
	case KindGRP:
		return "grp"
	case KindPAL:
		return "pal"
	}
	return "unknown"
}

// UnsupportedExtensionError is returned for files that are neither .grp nor .pal.
type UnsupportedExtensionError struct {
	Path string
	Ext  string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("can not convert files with an extension of: %q", e.Ext)
}

// KindOf dispatches on the file extension, ignoring case.
func KindOf(path string) (Kind, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".grp":
		return KindGRP, nil
	case ".pal":
		return KindPAL, nil
	}
	return 0, &UnsupportedExtensionError{Path: path, Ext: ext}
}

type Options struct {
	// OutputDir replaces the input's directory when set.
	OutputDir   string
	Charset     *charmap.Charmap
	Compression Compression
}

type Result struct {
	Input  string
	Output string
	Kind   Kind
	Size   int64
}

type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	if opts.Compression == "" {
		opts.Compression = CompressNone
	}
	return &Converter{opts: opts}
}

type document interface {
	WriteJSON(w io.Writer) error
}

// Name is the document name of path: its base name without extension.
func (c *Converter) Name(path string) string {
	base := filepath.Base(path)
	return utils.DecodeName(strings.TrimSuffix(base, filepath.Ext(base)), c.opts.Charset)
}

func (c *Converter) outputPath(path, sub string) string {
	dir := filepath.Dir(path)
	if c.opts.OutputDir != "" {
		dir = filepath.Join(c.opts.OutputDir, sub)
	}
	base := filepath.Base(path)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".json"+c.opts.Compression.Ext())
}

// OutputPath is where ConvertFile writes the document for path.
func (c *Converter) OutputPath(path string) string { return c.outputPath(path, "") }

// ConvertFile decodes one file completely and only then writes its document.
func (c *Converter) ConvertFile(path string) (Result, error) {
	return c.convertFile(path, "")
}

func (c *Converter) convertFile(path, sub string) (Result, error) {
	kind, err := KindOf(path)
	if err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "reading %s", path)
	}

	var doc document
	switch kind {
	case KindGRP:
		f, err := grp.Decode(data, c.Name(path))
		if err != nil {
			return Result{}, errors.Wrapf(err, "decoding %s", path)
		}
		doc = f
	case KindPAL:
		doc = pal.Parse(data)
	}

	res := Result{Input: path, Output: c.outputPath(path, sub), Kind: kind}
	res.Size, err = c.write(res.Output, doc)
	if err != nil {
		return Result{}, err
	}
	glog.Infof("converted %s (%s, %s) to %s (%s)", path, kind, humanize.Bytes(uint64(len(data))), res.Output, humanize.Bytes(uint64(res.Size)))
	return res, nil
}

// write stores doc at path through a temporary file in the same directory, so
// a failed write never leaves a partial document behind.
func (c *Converter) write(path string, doc document) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".kirke-*")
	if err != nil {
		return 0, errors.Wrapf(err, "creating temporary file in %s", dir)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	w, err := c.opts.Compression.NewWriter(tmp)
	if err != nil {
		return 0, err
	}
	if err := doc.WriteJSON(w); err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	if err := w.Close(); err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, errors.Wrapf(err, "writing %s", path)
	}
	return info.Size(), nil
}

// Convert converts a single file, or every .grp and .pal file below a
// directory.
func (c *Converter) Convert(ctx context.Context, path string) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if info.IsDir() {
		return c.ConvertDir(ctx, path)
	}
	res, err := c.ConvertFile(path)
	if err != nil {
		return nil, err
	}
	return []Result{res}, nil
}

// BatchError reports the files of a directory conversion that failed.
type BatchError struct {
	Failed map[string]error
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d files failed to convert", len(e.Failed), e.Total)
}

// ConvertDir walks root and converts every supported file. A failing file is
// logged and the walk goes on; other extensions are skipped.
func (c *Converter) ConvertDir(ctx context.Context, root string) ([]Result, error) {
	var (
		results []Result
		batch   = &BatchError{Failed: map[string]error{}}
	)

	err := fs.WalkDir(os.DirFS(root), ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, err := KindOf(name); err != nil {
			glog.V(1).Infof("skipping %s", name)
			return nil
		}

		path := filepath.Join(root, filepath.FromSlash(name))
		batch.Total++
		res, err := c.convertFile(path, filepath.Dir(filepath.FromSlash(name)))
		if err != nil {
			glog.Errorf("converting %s: %v", path, err)
			batch.Failed[path] = err
			return nil
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, errors.Wrapf(err, "walking %s", root)
	}
	if len(batch.Failed) > 0 {
		return results, batch
	}
	return results, nil
}
