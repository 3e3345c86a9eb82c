//go:build lucidxml_debug

// Package debug wraps github.com/lestrrat-go/pdebug so the parser's
// trace calls compile down to nothing unless built with the
// lucidxml_debug tag.
package debug

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/lestrrat-go/pdebug"
)

// Enabled reports whether trace output is compiled in.
const Enabled = true

// Guard closes an indented trace region opened by IPrintf.
type Guard struct {
	g *pdebug.Guard
}

// Printf emits a trace line.
func Printf(f string, args ...interface{}) {
	pdebug.Printf(f, args...)
}

// IPrintf emits a trace line and indents every subsequent line until
// the returned Guard is released.
func IPrintf(f string, args ...interface{}) *Guard {
	return &Guard{g: pdebug.IPrintf(f, args...)}
}

// IRelease closes the indented region, printing a matching trace line.
func (g *Guard) IRelease(f string, args ...interface{}) {
	g.g.IRelease(f, args...)
}

// Dump pretty-prints values for ad-hoc inspection.
func Dump(v ...interface{}) {
	spew.Dump(v...)
}
