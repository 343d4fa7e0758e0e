package utils

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var charsets = map[string]*charmap.Charmap{
	"cp437":  charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"cp866":  charmap.CodePage866,
	"cp1252": charmap.Windows1252,
}

// Charset resolves a charset name. An empty name selects no charset, so names
// are used as they are.
func Charset(name string) (*charmap.Charmap, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	if cm, ok := charsets[name]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("unknown charset: %s", name)
}

// CString is a possibly null terminated byte string.
type CString []byte

func (c CString) NullTerminateBytes() []byte {
	i := bytes.IndexByte(c, 0)
	if i == -1 {
		return c
	} else if i == 0 {
		return nil
	} else {
		return c[:i]
	}
}

func (c CString) String() string { return string(c.NullTerminateBytes()) }

func (c CString) Decode(encoding *charmap.Charmap) string {
	if encoding == nil {
		return c.String()
	}
	buf, err := encoding.NewDecoder().Bytes(c.NullTerminateBytes())
	if err != nil {
		return c.String()
	}
	return string(buf)
}

// DecodeName converts a file name taken from a legacy file system into UTF-8.
func DecodeName(name string, encoding *charmap.Charmap) string {
	return CString(name).Decode(encoding)
}
