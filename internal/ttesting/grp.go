package ttesting

import (
	"encoding/binary"
)

// Frame describes one frame for BuildGRP.
//
// When Offsets is nil, Lines are laid out back to back right after the
// line-offset table and the offsets are computed. Otherwise Offsets is written
// as the table verbatim and Data follows it; offsets are relative to the start
// of the table, so Data begins at relative offset 2*Height.
type Frame struct {
	OffsetX, OffsetY uint8
	Width, Height    uint8

	Lines [][]byte

	Offsets []uint16
	Data    []byte
}

// BuildGRP lays out a GRP file: header, frame table, then each frame's
// line-offset table and line data in frame order.
func BuildGRP(groupWidth, groupHeight uint16, frames ...Frame) []byte {
	buf := binary.LittleEndian.AppendUint16(nil, uint16(len(frames)))
	buf = binary.LittleEndian.AppendUint16(buf, groupWidth)
	buf = binary.LittleEndian.AppendUint16(buf, groupHeight)

	tableEnd := len(buf) + 8*len(frames)
	var body []byte
	for _, f := range frames {
		dataOffset := tableEnd + len(body)
		buf = append(buf, f.OffsetX, f.OffsetY, f.Width, f.Height)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(dataOffset))

		offsets := f.Offsets
		data := f.Data
		if offsets == nil {
			offsets = make([]uint16, f.Height)
			off := 2 * len(offsets)
			data = nil
			for i := range offsets {
				offsets[i] = uint16(off)
				if i < len(f.Lines) {
					data = append(data, f.Lines[i]...)
					off += len(f.Lines[i])
				}
			}
		}
		for _, off := range offsets {
			body = binary.LittleEndian.AppendUint16(body, off)
		}
		body = append(body, data...)
	}
	return append(buf, body...)
}
