package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// JSONWriter lays out hand-indented JSON documents whose pixel rows stay on a
// single line. The first write error sticks and is returned by Flush.
type JSONWriter struct {
	w   *bufio.Writer
	err error
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

func (jw *JSONWriter) write(s string) {
	if jw.err != nil {
		return
	}
	_, jw.err = jw.w.WriteString(s)
}

// Line writes one indented line.
func (jw *JSONWriter) Line(depth int, format string, args ...any) {
	jw.write(strings.Repeat("\t", depth))
	jw.write(fmt.Sprintf(format, args...))
	jw.write("\n")
}

// Field writes `"key": value` with value marshalled as JSON.
func (jw *JSONWriter) Field(depth int, key string, value any, last bool) {
	b, err := json.Marshal(value)
	if err != nil {
		if jw.err == nil {
			jw.err = err
		}
		return
	}
	jw.Line(depth, "%q: %s%s", key, b, comma(last))
}

// Bytes writes an array of numbers on one line, each right aligned to four
// columns.
func (jw *JSONWriter) Bytes(depth int, row []uint8, last bool) {
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range row {
		if i > 0 {
			sb.WriteString(",")
		}
		s := strconv.Itoa(int(v))
		sb.WriteString(strings.Repeat(" ", 4-len(s)))
		sb.WriteString(s)
	}
	sb.WriteString("]")
	jw.Line(depth, "%s%s", sb.String(), comma(last))
}

func (jw *JSONWriter) Flush() error {
	if jw.err != nil {
		return jw.err
	}
	return jw.w.Flush()
}

func comma(last bool) string {
	if last {
		return ""
	}
	return ","
}
