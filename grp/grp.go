// Package grp decodes GRP sprite containers into palette index grids.
//
// A GRP file starts with a 6 byte header (frame count, group width, group
// height), followed by one 8 byte header per frame. Each frame header points at
// a table of per-line offsets; lines are stored either raw or run-length
// encoded, and nothing in the file says which.
package grp

import (
	"encoding/binary"
	"image"
)

// Header is the fixed file header.
type Header struct {
	FrameCount  uint16
	GroupWidth  uint16
	GroupHeight uint16
}

// FrameHeader is one frame record of the frame table. DataOffset is absolute
// and points at the frame's line-offset table.
type FrameHeader struct {
	OffsetX, OffsetY uint8
	Width, Height    uint8
	DataOffset       uint32
}

// Rect is the frame's placement inside the group's bounding box.
func (h FrameHeader) Rect() image.Rectangle {
	return image.Rect(
		int(h.OffsetX),
		int(h.OffsetY),
		int(h.OffsetX)+int(h.Width),
		int(h.OffsetY)+int(h.Height),
	)
}

// Empty reports whether the frame has no pixels. Empty frames never read their
// line-offset table.
func (h FrameHeader) Empty() bool {
	return h.Width == 0 || h.Height == 0
}

// Frame is a decoded frame. Pixels always has Height rows of Width entries.
type Frame struct {
	FrameHeader
	Compressed bool
	Pixels     [][]uint8
}

// File is a fully decoded GRP file.
type File struct {
	Name string
	Header
	Frames []Frame
}

// Bounds is the union of the frame rectangles.
func Bounds(frames []FrameHeader) image.Rectangle {
	var r image.Rectangle
	for _, h := range frames {
		r = r.Union(h.Rect())
	}
	return r
}

const (
	transparentOp byte = 0x80
	repeatOp      byte = 0x40
)

var (
	headerSize      = int64(binary.Size(Header{}))
	frameHeaderSize = int64(binary.Size(FrameHeader{}))
)
