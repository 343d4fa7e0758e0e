package pal

import (
	"io"

	"gitgub.com/cam-per/kirke/utils"
)

// WriteJSON writes the palette as {"colours": [[r, g, b], ...]}.
func (f *File) WriteJSON(w io.Writer) error {
	jw := utils.NewJSONWriter(w)
	jw.Line(0, "{")
	jw.Line(1, `"colours": [`)
	for i, c := range f.Colours {
		jw.Bytes(2, []uint8{c.R, c.G, c.B}, i == len(f.Colours)-1)
	}
	jw.Line(1, "]")
	jw.Line(0, "}")
	return jw.Flush()
}
