package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/charmap"

	"gitgub.com/cam-per/kirke/internal/ttesting"
	"gitgub.com/cam-per/kirke/utils"
)

const (
	grpSchema = "../../schemas/grp.schema.json"
	palSchema = "../../schemas/pal.schema.json"
)

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %s", path, err)
	}
	return b
}

func sampleGRP() []byte {
	return ttesting.BuildGRP(4, 4, ttesting.Frame{
		Width: 4, Height: 2,
		Offsets: []uint16{4, 4},
		Data:    []byte{0x84},
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
		ext  string
	}{
		{"units/marine.grp", KindGRP, ""},
		{"MARINE.GRP", KindGRP, ""},
		{"tileset/badlands.pal", KindPAL, ""},
		{"readme.txt", 0, ".txt"},
		{"noext", 0, ""},
		{"archive.grp.bak", 0, ".bak"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := KindOf(tt.path)
			if tt.want != 0 {
				if err != nil || got != tt.want {
					t.Errorf("got %v, %v; want %v", got, err, tt.want)
				}
				return
			}
			var unsupported *UnsupportedExtensionError
			if !errors.As(err, &unsupported) {
				t.Fatalf("got %v; want *UnsupportedExtensionError", err)
			}
			if unsupported.Ext != tt.ext {
				t.Errorf("got extension %q; want %q", unsupported.Ext, tt.ext)
			}
		})
	}
}

func TestConvertFileGRP(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "marine.grp"), sampleGRP())

	res, err := New(Options{}).ConvertFile(in)
	if err != nil {
		t.Fatalf("failed to convert: %s", err)
	}
	if want := filepath.Join(dir, "marine.json"); res.Output != want {
		t.Errorf("got output %s; want %s", res.Output, want)
	}
	if res.Kind != KindGRP {
		t.Errorf("got kind %v", res.Kind)
	}
	out := readFile(t, res.Output)
	ttesting.AssertEqualInt(t, "reported size", int(res.Size), len(out))

	doc := ttesting.ValidateJSON(t, grpSchema, out).(map[string]any)
	if doc["name"] != "marine" {
		t.Errorf("got name %v", doc["name"])
	}
}

func TestConvertFilePAL(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "units.pal"), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	res, err := New(Options{}).ConvertFile(in)
	if err != nil {
		t.Fatalf("failed to convert: %s", err)
	}
	doc := ttesting.ValidateJSON(t, palSchema, readFile(t, res.Output)).(map[string]any)
	ttesting.AssertEqualInt(t, "colours", len(doc["colours"].([]any)), 3)
}

func TestConvertFileIsWorldReadable(t *testing.T) {
	for _, compression := range []Compression{CompressNone, CompressGzip} {
		t.Run(string(compression), func(t *testing.T) {
			in := writeFile(t, filepath.Join(t.TempDir(), "units.pal"), []byte{1, 2, 3})

			res, err := New(Options{Compression: compression}).ConvertFile(in)
			if err != nil {
				t.Fatalf("failed to convert: %s", err)
			}
			info, err := os.Stat(res.Output)
			if err != nil {
				t.Fatal(err)
			}
			if perm := info.Mode().Perm(); perm&0o044 != 0o044 {
				t.Errorf("%s has mode %v; want group and other readable", res.Output, perm)
			}
		})
	}
}

func TestConvertFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "notes.txt"), []byte("hi"))

	_, err := New(Options{}).ConvertFile(in)
	var unsupported *UnsupportedExtensionError
	if !errors.As(err, &unsupported) || unsupported.Ext != ".txt" {
		t.Fatalf("got %v; want unsupported .txt", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.json")); !os.IsNotExist(err) {
		t.Errorf("output written for unsupported file")
	}
}

func TestConvertFileMissing(t *testing.T) {
	_, err := New(Options{}).ConvertFile(filepath.Join(t.TempDir(), "missing.grp"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v; want not exist", err)
	}
}

func TestConvertFileTruncatedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	data := sampleGRP()
	in := writeFile(t, filepath.Join(dir, "broken.grp"), data[:len(data)-1])

	_, err := New(Options{}).ConvertFile(in)
	var te *utils.TruncatedInputError
	if !errors.As(err, &te) {
		t.Fatalf("got %v; want *utils.TruncatedInputError", err)
	}
	ttesting.AssertEqualInt(t, "offset", int(te.Offset), len(data)-1)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d files in %s; want only the input", len(entries), dir)
	}
}

func TestConvertFileOutputDirAndCharset(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in", "caf\x82.grp"), sampleGRP())
	outDir := filepath.Join(dir, "out")

	c := New(Options{OutputDir: outDir, Charset: charmap.CodePage437})
	res, err := c.ConvertFile(in)
	if err != nil {
		t.Fatalf("failed to convert: %s", err)
	}
	if want := filepath.Join(outDir, "caf\x82.json"); res.Output != want {
		t.Errorf("got output %s; want %s", res.Output, want)
	}
	doc := ttesting.ValidateJSON(t, grpSchema, readFile(t, res.Output)).(map[string]any)
	if doc["name"] != "café" {
		t.Errorf("got name %v; want café", doc["name"])
	}
}

func TestConvertFileCompressed(t *testing.T) {
	tests := []struct {
		compression Compression
		ext         string
		open        func(r io.Reader) (io.Reader, error)
	}{
		{CompressGzip, ".json.gz", func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
		{CompressZstd, ".json.zst", func(r io.Reader) (io.Reader, error) { return zstd.NewReader(r) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.compression), func(t *testing.T) {
			dir := t.TempDir()
			in := writeFile(t, filepath.Join(dir, "marine.grp"), sampleGRP())

			res, err := New(Options{Compression: tt.compression}).ConvertFile(in)
			if err != nil {
				t.Fatalf("failed to convert: %s", err)
			}
			if want := filepath.Join(dir, "marine"+tt.ext); res.Output != want {
				t.Fatalf("got output %s; want %s", res.Output, want)
			}

			f, err := os.Open(res.Output)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			r, err := tt.open(f)
			if err != nil {
				t.Fatalf("failed to open %s stream: %s", tt.compression, err)
			}
			doc, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("failed to decompress: %s", err)
			}
			ttesting.ValidateJSON(t, grpSchema, doc)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressNone, "none": CompressNone, "GZIP": CompressGzip, " zstd ": CompressZstd} {
		if got, err := ParseCompression(in); err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseCompression("lzma"); err == nil {
		t.Errorf("unknown compression accepted")
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "unit", "marine.grp"), sampleGRP())
	writeFile(t, filepath.Join(dir, "unit", "broken.grp"), []byte{1, 0})
	writeFile(t, filepath.Join(dir, "tileset", "jungle.PAL"), []byte{1, 2, 3})
	writeFile(t, filepath.Join(dir, "readme.txt"), []byte("skip me"))

	results, err := New(Options{}).Convert(context.Background(), dir)

	var batch *BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("got %v; want *BatchError", err)
	}
	ttesting.AssertEqualInt(t, "total", batch.Total, 3)
	ttesting.AssertEqualInt(t, "failed", len(batch.Failed), 1)
	if ferr := batch.Failed[filepath.Join(dir, "unit", "broken.grp")]; !errors.Is(ferr, utils.ErrTruncatedInput) {
		t.Errorf("got %v for broken.grp; want truncated input", ferr)
	}

	var outputs []string
	for _, res := range results {
		outputs = append(outputs, res.Output)
	}
	sort.Strings(outputs)
	want := []string{
		filepath.Join(dir, "tileset", "jungle.json"),
		filepath.Join(dir, "unit", "marine.json"),
	}
	if len(outputs) != len(want) {
		t.Fatalf("got outputs %v; want %v", outputs, want)
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("got output %s; want %s", outputs[i], want[i])
		}
		if _, err := os.Stat(want[i]); err != nil {
			t.Errorf("output missing: %s", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "readme.json")); !os.IsNotExist(err) {
		t.Errorf("readme.txt was converted")
	}
}

func TestConvertDirOutputDirKeepsLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "unit", "terran", "marine.grp"), sampleGRP())
	outDir := filepath.Join(dir, "out")

	results, err := New(Options{OutputDir: outDir}).ConvertDir(context.Background(), filepath.Join(dir, "in"))
	if err != nil {
		t.Fatalf("failed to convert: %s", err)
	}
	ttesting.AssertEqualInt(t, "results", len(results), 1)
	if want := filepath.Join(outDir, "unit", "terran", "marine.json"); results[0].Output != want {
		t.Errorf("got output %s; want %s", results[0].Output, want)
	}
}

func TestConvertDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "marine.grp"), sampleGRP())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).ConvertDir(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v; want context.Canceled", err)
	}
}
