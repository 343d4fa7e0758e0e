package utils

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput = errors.New("input: truncated")
)

// TruncatedInputError reports a read of Length bytes at Offset that does not
// fit into a buffer of Size bytes.
type TruncatedInputError struct {
	Offset int64
	Length int64
	Size   int64
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("input: truncated: need %d bytes at offset %d, have %d", e.Length, e.Offset, e.Size)
}

func (e *TruncatedInputError) Is(target error) bool { return target == ErrTruncatedInput }

// Cursor is a read-only view of a whole file. All reads take absolute offsets.
type Cursor []byte

func (c Cursor) Len() int64 { return int64(len(c)) }

func (c Cursor) check(offset, length int64) error {
	if offset < 0 || length < 0 || offset > c.Len()-length {
		return &TruncatedInputError{Offset: offset, Length: length, Size: c.Len()}
	}
	return nil
}

// Slice returns length bytes at offset. The result aliases the buffer.
func (c Cursor) Slice(offset, length int64) ([]byte, error) {
	if err := c.check(offset, length); err != nil {
		return nil, err
	}
	return c[offset : offset+length], nil
}

func (c Cursor) Uint8(offset int64) (uint8, error) {
	if err := c.check(offset, 1); err != nil {
		return 0, err
	}
	return c[offset], nil
}

func (c Cursor) Uint16LE(offset int64) (uint16, error) {
	if err := c.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c[offset:]), nil
}

func (c Cursor) Uint32LE(offset int64) (uint32, error) {
	if err := c.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c[offset:]), nil
}
