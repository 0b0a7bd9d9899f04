// Package encoding decodes the 8-bit code-page strings stored in 3DS files.
package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// DefaultCodePage is used when no code page is configured. Most 3DS files
// were authored on Windows with the ANSI code page.
const DefaultCodePage = "windows-1252"

var codePages = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"koi8-r":       charmap.KOI8R,
	"euc-kr":       korean.EUCKR,
}

// Decoder converts raw name bytes to UTF-8.
type Decoder struct {
	name string
	enc  encoding.Encoding // nil means UTF-8 passthrough
}

// NewDecoder returns a decoder for the named code page. An empty name selects
// DefaultCodePage; "utf-8" passes bytes through unchanged.
func NewDecoder(name string) (*Decoder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultCodePage
	}
	if key == "utf-8" || key == "utf8" {
		return &Decoder{name: "utf-8"}, nil
	}
	enc, ok := codePages[key]
	if !ok {
		return nil, fmt.Errorf("unknown code page %q", name)
	}
	return &Decoder{name: key, enc: enc}, nil
}

// Name returns the code page name.
func (d *Decoder) Name() string {
	return d.name
}

// Decode converts data to UTF-8. Plain ASCII is returned without conversion.
// Returns the input as-is if conversion fails.
func (d *Decoder) Decode(data []byte) string {
	if d == nil || d.enc == nil || isASCII(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(d.enc.NewDecoder(), data)
	if err != nil || !utf8.Valid(result) {
		return string(data)
	}
	return string(result)
}

// CodePages returns the supported code page names.
func CodePages() []string {
	names := make([]string, 0, len(codePages)+1)
	for name := range codePages {
		names = append(names, name)
	}
	return append(names, "utf-8")
}

// TrimNull returns data up to the first null byte.
func TrimNull(data []byte) []byte {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return data[:i]
	}
	return data
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
