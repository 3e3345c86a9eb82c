// Package pool provides a sync.Pool-backed byte-slice pool used by the
// scanner to cut allocations while it accumulates a token before the
// final copy into an event payload string.
package pool

import "sync"

const defaultCapacity = 64

// ByteSlicePool hands out zero-length byte slices with a minimum
// capacity and takes them back for reuse.
type ByteSlicePool struct {
	pool sync.Pool
}

var shared = &ByteSlicePool{
	pool: sync.Pool{
		New: func() interface{} {
			b := make([]byte, 0, defaultCapacity)
			return &b
		},
	},
}

// ByteSlice returns the package's shared byte-slice pool.
func ByteSlice() *ByteSlicePool {
	return shared
}

// Get returns a zero-length slice with at least defaultCapacity
// capacity.
func (p *ByteSlicePool) Get() []byte {
	return p.GetCapacity(defaultCapacity)
}

// GetCapacity returns a zero-length slice with at least n capacity.
func (p *ByteSlicePool) GetCapacity(n int) []byte {
	bp := p.pool.Get().(*[]byte)
	b := *bp
	if cap(b) < n {
		b = make([]byte, 0, n)
	}
	return b[:0]
}

// Put resets b's length to zero and returns it to the pool.
func (p *ByteSlicePool) Put(b []byte) {
	b = b[:0]
	p.pool.Put(&b)
}
