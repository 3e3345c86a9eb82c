// Package buffer implements the parser's append-only byte region: an
// accumulating slice with a cursor, grown by Append and trimmed from
// the front by DiscardBefore once bytes are no longer reachable by any
// live slice. It is what lets the engine resume a chunked parse from
// exactly where it left off without ever losing or duplicating bytes.
package buffer

// Buffer is a contiguous byte region with a read cursor. Callers only
// ever see bytes at or after the cursor; everything before it is dead
// weight kept around until DiscardBefore reclaims it.
type Buffer struct {
	data   []byte
	cursor int
	base   int // absolute offset of data[0], for error positions
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Append grows the buffer with more input bytes. chunk is copied; the
// caller's slice may be reused afterward.
func (b *Buffer) Append(chunk []byte) {
	b.data = append(b.data, chunk...)
}

// Pos returns the cursor's absolute offset from the start of the whole
// logical stream (not just the live region), for use in error
// positions.
func (b *Buffer) Pos() int {
	return b.base + b.cursor
}

// Len returns the number of unconsumed bytes from the cursor to the
// end of the live region.
func (b *Buffer) Len() int {
	return len(b.data) - b.cursor
}

// Peek returns the byte at offset past the cursor and whether it
// exists in the live region.
func (b *Buffer) Peek(offset int) (byte, bool) {
	i := b.cursor + offset
	if i < 0 || i >= len(b.data) {
		return 0, false
	}
	return b.data[i], true
}

// Bytes returns the unconsumed region as a slice. The slice is only
// valid until the next Append or DiscardBefore.
func (b *Buffer) Bytes() []byte {
	return b.data[b.cursor:]
}

// Slice returns a copy of the bytes in [start, end), both relative to
// the cursor, as a freshly allocated string. Copying here is what
// makes the returned value safe to hand to the handler across a chunk
// boundary: the engine is free to discard the source bytes right
// after.
func (b *Buffer) Slice(start, end int) string {
	return string(b.data[b.cursor+start : b.cursor+end])
}

// SliceBytes is Slice without the string conversion, for callers that
// need to keep processing the bytes (e.g. reference expansion) before
// committing to a final string.
func (b *Buffer) SliceBytes(start, end int) []byte {
	return b.data[b.cursor+start : b.cursor+end]
}

// Advance moves the cursor forward n bytes. It must never move past a
// point the caller hasn't verified is backed by live data.
func (b *Buffer) Advance(n int) {
	b.cursor += n
}

// Mark returns the current cursor offset relative to the live region,
// for later use with Reset to roll back an aborted parse attempt.
func (b *Buffer) Mark() int {
	return b.cursor
}

// Reset rolls the cursor back to a value previously returned by Mark.
// This is how the engine undoes a token it started consuming but
// couldn't finish because the buffer ran out of bytes: the driver
// retries the whole token once more data has been appended.
func (b *Buffer) Reset(mark int) {
	b.cursor = mark
}

// DiscardBefore drops all bytes before the cursor, reclaiming memory.
// It must only be called once the caller is certain no live slice
// (returned by Slice/SliceBytes) still points at the discarded region;
// since Slice always copies, this is safe to call after every
// successfully completed token.
func (b *Buffer) DiscardBefore() {
	if b.cursor == 0 {
		return
	}
	b.base += b.cursor
	n := copy(b.data, b.data[b.cursor:])
	b.data = b.data[:n]
	b.cursor = 0
}
