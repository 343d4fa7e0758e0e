package grp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/glog"

	"gitgub.com/cam-per/kirke/utils"
)

// Decoder holds a whole GRP file in memory together with its parsed header
// and frame table. Frames are decoded on demand.
type Decoder struct {
	cur    utils.Cursor
	header Header
	frames []FrameHeader
}

func NewDecoder(r io.Reader) (*Decoder, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return newDecoder(data)
}

func newDecoder(data []byte) (*Decoder, error) {
	header, frames, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return &Decoder{cur: data, header: header, frames: frames}, nil
}

func (decoder *Decoder) Header() Header              { return decoder.header }
func (decoder *Decoder) FrameHeaders() []FrameHeader { return decoder.frames }
func (decoder *Decoder) Bytes() []byte               { return decoder.cur }

// DecodeFrame decodes the i-th frame of the frame table.
func (decoder *Decoder) DecodeFrame(i int) (Frame, error) {
	if i < 0 || i >= len(decoder.frames) {
		return Frame{}, fmt.Errorf("grp: frame %d out of range [0,%d)", i, len(decoder.frames))
	}
	frame, err := DecodeFrame(decoder.cur, decoder.frames[i])
	if err != nil {
		return Frame{}, fmt.Errorf("grp: frame %d: %w", i, err)
	}
	return frame, nil
}

// Decode decodes every frame. Any failure aborts the whole file.
func (decoder *Decoder) Decode(name string) (*File, error) {
	file := &File{
		Name:   name,
		Header: decoder.header,
		Frames: make([]Frame, len(decoder.frames)),
	}
	for i := range decoder.frames {
		frame, err := decoder.DecodeFrame(i)
		if err != nil {
			return nil, err
		}
		glog.V(2).Infof("grp %s: frame %d: %dx%d at (%d,%d), compressed=%v",
			name, i, frame.Width, frame.Height, frame.OffsetX, frame.OffsetY, frame.Compressed)
		file.Frames[i] = frame
	}
	return file, nil
}

// Decode parses and decodes a whole GRP file.
func Decode(data []byte, name string) (*File, error) {
	decoder, err := newDecoder(data)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(name)
}

// ParseHeader reads the file header and the frame table.
func ParseHeader(data []byte) (Header, []FrameHeader, error) {
	cur := utils.Cursor(data)

	var header Header
	buf, err := cur.Slice(0, headerSize)
	if err != nil {
		return Header{}, nil, err
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &header); err != nil {
		return Header{}, nil, err
	}

	frames := make([]FrameHeader, header.FrameCount)
	buf, err = cur.Slice(headerSize, frameHeaderSize*int64(header.FrameCount))
	if err != nil {
		return Header{}, nil, err
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, frames); err != nil {
		return Header{}, nil, err
	}
	return header, frames, nil
}

// LineOffsets reads the frame's line-offset table. Offsets are relative to
// the frame's DataOffset.
func LineOffsets(data []byte, h FrameHeader) ([]uint16, error) {
	cur := utils.Cursor(data)
	offsets := make([]uint16, h.Height)
	for i := range offsets {
		v, err := cur.Uint16LE(int64(h.DataOffset) + 2*int64(i))
		if err != nil {
			return nil, err
		}
		offsets[i] = v
	}
	return offsets, nil
}

// IsCompressed guesses whether lines are run-length encoded. Raw lines are
// exactly width bytes apart, so the first pair of lines closer than that
// marks the frame as compressed and later pairs are not looked at. Frames with
// fewer than two lines are never considered compressed.
func IsCompressed(offsets []uint16, width uint8) bool {
	for i := 1; i < len(offsets); i++ {
		if int(offsets[i])-int(offsets[i-1]) < int(width) {
			return true
		}
	}
	return false
}

// DecodeFrame produces the pixel grid of one frame.
func DecodeFrame(data []byte, h FrameHeader) (Frame, error) {
	frame := Frame{
		FrameHeader: h,
		Pixels:      make([][]uint8, h.Height),
	}
	if h.Empty() {
		for i := range frame.Pixels {
			frame.Pixels[i] = []uint8{}
		}
		return frame, nil
	}

	offsets, err := LineOffsets(data, h)
	if err != nil {
		return Frame{}, err
	}
	frame.Compressed = IsCompressed(offsets, h.Width)

	cur := utils.Cursor(data)
	for i, off := range offsets {
		base := int64(h.DataOffset) + int64(off)
		row := make([]uint8, h.Width)
		if frame.Compressed {
			_, err = decodeRLELine(cur, base, row)
		} else {
			err = decodeRawLine(cur, base, row)
		}
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", i, err)
		}
		frame.Pixels[i] = row
	}
	return frame, nil
}
