package utils

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
)

// HexDump writes length bytes of r starting at offset to w, sixteen bytes per
// line, prefixed with the absolute offset of the line.
func HexDump(w io.Writer, r io.ReaderAt, offset, length int64) error {
	buf := make([]byte, length)
	if n, err := r.ReadAt(buf, offset); err != nil {
		if err != io.EOF || n == 0 {
			return err
		}
		buf = buf[:n]
	}

	out := bufio.NewWriter(w)
	for i := 0; i < len(buf); i += 16 {
		end := min(i+16, len(buf))
		chunk := buf[i:end]

		fmt.Fprintf(out, "%08x  ", offset+int64(i))

		hexStr := hex.EncodeToString(chunk)
		for j := 0; j < len(hexStr); j += 2 {
			fmt.Fprintf(out, "%s ", hexStr[j:j+2])
		}
		// pad a short last line
		for j := len(chunk); j < 16; j++ {
			out.WriteString("   ")
		}

		out.WriteString(" |")
		for _, b := range chunk {
			if b < 0x80 && unicode.IsPrint(rune(b)) {
				out.WriteByte(b)
			} else {
				out.WriteByte('.')
			}
		}
		out.WriteString("|\n")
	}
	return out.Flush()
}
