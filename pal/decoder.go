// Package pal reads headerless palette files: a flat run of R, G, B bytes.
package pal

import (
	"bufio"
	"image/color"
	"io"
)

const entrySize = 3

// Colour is one palette entry. It is always opaque.
type Colour struct {
	R, G, B uint8
}

func (c Colour) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

type File struct {
	Colours []Colour
}

// Palette returns the colours as a color.Palette.
func (f *File) Palette() color.Palette {
	p := make(color.Palette, len(f.Colours))
	for i, c := range f.Colours {
		p[i] = c
	}
	return p
}

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (decoder *Decoder) Decode() (*File, error) {
	data, err := io.ReadAll(bufio.NewReader(decoder.r))
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}

// Parse reads len(data)/3 colours. Trailing bytes that do not form a whole
// entry are ignored.
func Parse(data []byte) *File {
	colours := make([]Colour, len(data)/entrySize)
	for i := range colours {
		buf := data[i*entrySize : (i+1)*entrySize]
		colours[i] = Colour{R: buf[0], G: buf[1], B: buf[2]}
	}
	return &File{Colours: colours}
}
