package buffer

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var bomStrip = unicode.BOMOverride(transform.Nop)

// StripLeadingBOM removes a leading UTF-8 byte-order mark from data, if
// present. The transform is a no-op for input that doesn't start with
// one.
func StripLeadingBOM(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(bomStrip, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// foreignBOM is a signature for a byte-order mark that declares an
// encoding this parser does not support.
type foreignBOM struct {
	sig  []byte
	name string
}

// These are checked longest-prefix-first below so that, for example,
// the 4-byte UTF-32LE mark isn't misread as the 2-byte UTF-16LE one.
var foreignBOMs = []foreignBOM{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "UTF-32BE"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "UTF-32LE"},
	{[]byte{0xFE, 0xFF}, "UTF-16BE"},
	{[]byte{0xFF, 0xFE}, "UTF-16LE"},
	{[]byte{0x84, 0x31, 0x95, 0x33}, "GB-18030"},
	{[]byte{0xDD, 0x73, 0x66, 0x73}, "UTF-EBCDIC"},
}

// DetectForeignEncoding reports the name of a non-UTF-8 encoding
// declared by a recognized byte-order mark at the front of data, or ""
// if none is found. It exists purely so the parser can report a
// precise unsupported_encoding error instead of a generic bad_character
// error when handed, say, a UTF-16 document.
func DetectForeignEncoding(data []byte) string {
	for _, f := range foreignBOMs {
		if len(data) >= len(f.sig) && string(data[:len(f.sig)]) == string(f.sig) {
			return f.name
		}
	}
	return ""
}
