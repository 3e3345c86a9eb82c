package lucidxml

import (
	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/internal/stack"
)

// openElementStack tracks currently-open element names for
// well-formedness checking: a start tag pushes, an end tag must match
// the top before it pops. Built on the teacher's generic SimpleStack
// rather than a bespoke []string, so growth/shrink behavior (including
// the capacity-reclaiming Realloc on a big pop) is shared with the rest
// of the module's stack-shaped state.
type openElementStack struct {
	s stack.SimpleStack
}

func (o *openElementStack) push(name string) {
	if debug.Enabled {
		debug.Printf(" --> push element " + name)
	}
	o.s.Push(name)
}

// top returns the innermost open element name, or "" if the stack is
// empty.
func (o *openElementStack) top() string {
	if o.s.Len() == 0 {
		return ""
	}
	items := o.s.Peek(1)
	return items[0].(string)
}

// pop removes the innermost open element. Callers must check top()
// against the end-tag name before calling this.
func (o *openElementStack) pop() {
	if debug.Enabled {
		debug.Printf(" <-- pop element " + o.top())
	}
	o.s.Pop()
}

func (o *openElementStack) empty() bool {
	return o.s.Len() == 0
}

func (o *openElementStack) depth() int {
	return o.s.Len()
}
