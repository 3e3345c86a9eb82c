package lucidxml

import (
	"strings"

	"github.com/lucidxml/lucidxml/internal/charclass"
	"github.com/lucidxml/lucidxml/internal/refexpand"
)

// expandAttributeValue implements the attribute-value grammar: '<' is
// forbidden, references are expanded, and any literal (not
// reference-encoded) tab/CR/LF is normalized to a single space. A
// character reference that happens to denote whitespace is left as its
// literal code point, since normalization only applies to raw
// characters in the source text.
func expandAttributeValue(basePos int, raw []byte, policy refexpand.Policy) (string, *ParseError) {
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		switch raw[i] {
		case '<':
			return "", newErr(basePos+i, BadAttribute, "'<' is not allowed in an attribute value")
		case '\t', '\n', '\r':
			sb.WriteByte(' ')
			i++
		case '&':
			end := findTerminator(raw, i, ";")
			if end < 0 {
				return "", newErr(basePos+i, BadReference, "unterminated reference")
			}
			repl, rerr := refexpand.Expand(raw[i:end+1], policy)
			if rerr != nil {
				return "", newErr(basePos+i, BadReference, rerr.Error())
			}
			sb.WriteString(repl)
			i = end + 1
		default:
			// raw is the complete, already-buffered value text (the
			// caller found the closing quote before calling us), so
			// there's no chunk boundary to worry about here: atEOF is
			// unconditionally true.
			_, size, _, ok := charclass.DecodeRune(raw[i:], true)
			if !ok {
				return "", newErr(basePos+i, BadCharacter, "invalid character in attribute value")
			}
			sb.Write(raw[i : i+size])
			i += size
		}
	}
	return sb.String(), nil
}
