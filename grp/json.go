package grp

import (
	"io"

	"gitgub.com/cam-per/kirke/utils"
)

// WriteJSON writes the file as a JSON document, one pixel row per line.
func (f *File) WriteJSON(w io.Writer) error {
	jw := utils.NewJSONWriter(w)
	jw.Line(0, "{")
	jw.Field(1, "name", f.Name, false)
	jw.Field(1, "frameCount", f.FrameCount, false)
	jw.Field(1, "groupWidth", f.GroupWidth, false)
	jw.Field(1, "groupHeight", f.GroupHeight, false)
	jw.Line(1, `"frames": [`)
	for i := range f.Frames {
		f.Frames[i].writeJSON(jw, 2, i == len(f.Frames)-1)
	}
	jw.Line(1, "]")
	jw.Line(0, "}")
	return jw.Flush()
}

func (frame *Frame) writeJSON(jw *utils.JSONWriter, depth int, last bool) {
	jw.Line(depth, "{")
	jw.Field(depth+1, "offsetX", frame.OffsetX, false)
	jw.Field(depth+1, "offsetY", frame.OffsetY, false)
	jw.Field(depth+1, "frameWidth", frame.Width, false)
	jw.Field(depth+1, "frameHeight", frame.Height, false)
	jw.Line(depth+1, `"frameData": [`)
	for i, row := range frame.Pixels {
		jw.Bytes(depth+2, row, i == len(frame.Pixels)-1)
	}
	jw.Line(depth+1, "]")
	if last {
		jw.Line(depth, "}")
	} else {
		jw.Line(depth, "},")
	}
}
