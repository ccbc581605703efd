package lineio

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// lookupEncoding resolves an encoding name to an x/text encoding. A nil
// result with a nil error means the source is UTF-8 and needs no transform.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch normalizeEncodingName(name) {
	case "", "utf8":
		return nil, nil
	case "shiftjis", "sjis", "windows31j", "cp932", "mskanji":
		// x/text's ShiftJIS tables carry the Windows-31J extensions.
		return japanese.ShiftJIS, nil
	case "eucjp":
		return japanese.EUCJP, nil
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

func normalizeEncodingName(name string) string {
	name = strings.ToLower(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, name)
	return name
}
