package grp

import (
	"gitgub.com/cam-per/kirke/utils"
)

func decodeRawLine(cur utils.Cursor, base int64, row []uint8) error {
	src, err := cur.Slice(base, int64(len(row)))
	if err != nil {
		return err
	}
	copy(row, src)
	return nil
}

// decodeRLELine fills row from the encoded line at base. Runs are cut at the
// end of the row; a cut literal run consumes only the bytes it copied. It
// returns the number of encoded bytes consumed.
//
//	0x80..0xff  op-0x80 transparent pixels
//	0x40..0x7f  op-0x40 copies of the next byte
//	0x00..0x3f  op literal bytes
func decodeRLELine(cur utils.Cursor, base int64, row []uint8) (int64, error) {
	w := len(row)
	x := 0
	pos := base

	for x < w {
		cmd, err := cur.Uint8(pos)
		if err != nil {
			return pos - base, err
		}
		pos++

		switch {
		case cmd >= transparentOp:
			for n := int(cmd - transparentOp); n > 0 && x < w; n-- {
				row[x] = 0
				x++
			}
		case cmd >= repeatOp:
			idx, err := cur.Uint8(pos)
			if err != nil {
				return pos - base, err
			}
			pos++
			for n := int(cmd - repeatOp); n > 0 && x < w; n-- {
				row[x] = idx
				x++
			}
		default:
			for n := int(cmd); n > 0 && x < w; n-- {
				b, err := cur.Uint8(pos)
				if err != nil {
					return pos - base, err
				}
				pos++
				row[x] = b
				x++
			}
		}
	}
	return pos - base, nil
}
