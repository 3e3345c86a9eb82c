//go:build !lucidxml_debug

package debug

// Enabled reports whether trace output is compiled in.
const Enabled = false

// Guard closes an indented trace region opened by IPrintf.
type Guard struct{}

// Printf is a no-op unless built with the lucidxml_debug tag.
func Printf(f string, args ...interface{}) {}

// IPrintf is a no-op unless built with the lucidxml_debug tag.
func IPrintf(f string, args ...interface{}) *Guard { return nil }

// IRelease is a no-op unless built with the lucidxml_debug tag.
func (g *Guard) IRelease(f string, args ...interface{}) {}

// Dump is a no-op unless built with the lucidxml_debug tag.
func Dump(v ...interface{}) {}
