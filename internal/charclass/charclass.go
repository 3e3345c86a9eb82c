// Package charclass implements the character-class predicates from the
// XML 1.0 (Fifth Edition) grammar: whitespace, NameStartChar, NameChar,
// and Char. All predicates operate on decoded Unicode scalars.
package charclass

import "unicode/utf8"

// IsWhitespace reports whether r is XML S: space, tab, CR, or LF.
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// IsChar reports whether r is in the XML Char production:
// #x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
func IsChar(r rune) bool {
	switch {
	case r == 0x9, r == 0xA, r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// IsNameStartChar reports whether r can begin an XML Name: the
// NameStartChar production.
func IsNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6:
		return true
	case r >= 0xD8 && r <= 0xF6:
		return true
	case r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D:
		return true
	case r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D:
		return true
	case r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF:
		return true
	case r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF:
		return true
	case r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

// IsNameChar reports whether r can continue an XML Name (after the
// first character): NameChar = NameStartChar | "-" | "." | [0-9] |
// #xB7 | [#x0300-#x036F] | [#x203F-#x2040].
func IsNameChar(r rune) bool {
	if IsNameStartChar(r) {
		return true
	}
	switch {
	case r == '-' || r == '.':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == 0xB7:
		return true
	case r >= 0x0300 && r <= 0x036F:
		return true
	case r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

// DecodeRune decodes the leading UTF-8 rune from b, validating it
// against the XML Char production in the same step. atEOF tells
// DecodeRune whether b could still be extended with more bytes from a
// later chunk: when false and b holds a prefix of what might become a
// valid encoding, it reports needMore instead of failing outright.
//
// ok=false (with needMore=false) covers both a malformed byte sequence
// and a well-formed one that decodes to a code point outside the XML
// Char set; callers use this single check to produce a bad_character
// error either way.
func DecodeRune(b []byte, atEOF bool) (r rune, size int, needMore bool, ok bool) {
	if len(b) == 0 {
		return 0, 0, !atEOF, false
	}
	if !atEOF && !utf8.FullRune(b) {
		return 0, 0, true, false
	}
	r, size = utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0, size, false, false
	}
	if !IsChar(r) {
		return r, size, false, false
	}
	return r, size, false, true
}
