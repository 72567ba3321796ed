// Package encoding provides text decoding for OBJ and MTL documents.
package encoding

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = "utf-8"

// Lookup returns the decoder for a charset name.
// UTF-8 honours a byte order mark, so UTF-16 files with a BOM are also accepted.
func Lookup(charset string) (encoding.Encoding, error) {
	switch normalizeCharset(charset) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "euc-kr", "cp949":
		return korean.EUCKR, nil
	case "shift-jis", "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}

// NewReader wraps r so that it yields UTF-8 text decoded from charset.
// A leading BOM is stripped and switches the decoder when it names another
// Unicode encoding.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

func normalizeCharset(charset string) string {
	return strings.ToLower(strings.TrimSpace(charset))
}
