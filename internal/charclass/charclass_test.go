package charclass_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidxml/lucidxml/internal/charclass"
)

func TestDecodeRuneValid(t *testing.T) {
	r, size, needMore, ok := charclass.DecodeRune([]byte("A"), true)
	require.True(t, ok)
	require.False(t, needMore)
	require.Equal(t, 'A', r)
	require.Equal(t, 1, size)

	// U+20AC EURO SIGN, a three-byte sequence well inside the Char set.
	r, size, needMore, ok = charclass.DecodeRune([]byte("€"), true)
	require.True(t, ok)
	require.False(t, needMore)
	require.Equal(t, rune(0x20AC), r)
	require.Equal(t, 3, size)
}

func TestDecodeRuneMalformedByteSequence(t *testing.T) {
	_, _, needMore, ok := charclass.DecodeRune([]byte{0xFF, 0x41}, true)
	require.False(t, ok)
	require.False(t, needMore)
}

func TestDecodeRuneRejectsNonCharCodePoint(t *testing.T) {
	// U+FFFE is well-formed UTF-8 but outside the XML Char production.
	_, _, needMore, ok := charclass.DecodeRune([]byte("￾"), true)
	require.False(t, ok)
	require.False(t, needMore)

	// A bare control character (U+0001) is likewise not a Char.
	_, _, needMore, ok = charclass.DecodeRune([]byte{0x01}, true)
	require.False(t, ok)
	require.False(t, needMore)
}

func TestDecodeRuneNeedsMoreAtChunkBoundary(t *testing.T) {
	full := "€"
	// Only the first two of three bytes are available, and the caller
	// says atEOF=false: this could still complete once more bytes
	// arrive from the next chunk.
	_, _, needMore, ok := charclass.DecodeRune([]byte(full)[:2], false)
	require.False(t, ok)
	require.True(t, needMore)

	// Same truncated prefix, but atEOF=true: no more bytes are coming,
	// so it must be reported as invalid rather than needMore.
	_, _, needMore, ok = charclass.DecodeRune([]byte(full)[:2], true)
	require.False(t, ok)
	require.False(t, needMore)
}

func TestIsCharBoundaries(t *testing.T) {
	require.True(t, charclass.IsChar('\t'))
	require.True(t, charclass.IsChar('\n'))
	require.False(t, charclass.IsChar(0x0B))
	require.True(t, charclass.IsChar(0x20))
	require.False(t, charclass.IsChar(0xFFFE))
	require.True(t, charclass.IsChar(0x10000))
	require.True(t, charclass.IsChar(0x10FFFF))
}
