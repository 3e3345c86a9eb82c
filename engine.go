package lucidxml

import (
	"bytes"

	"github.com/lucidxml/lucidxml/internal/buffer"
	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/internal/refexpand"
	"github.com/lucidxml/lucidxml/sax"
)

// enginePos is the explicit parse-position enum the design notes ask
// for in place of a closure-captured continuation: together with the
// buffer (which never discards a byte that might still be needed) it
// is the entire resumable state. A Step call that runs out of bytes
// rolls the buffer's cursor back to where the call started, so the
// next Step simply redoes the in-flight token from its beginning.
type enginePos int

const (
	posBOM enginePos = iota
	posProlog
	posMisc
	posContent
	posEpilog
	posDone
)

// engine is the grammar-directed recognizer: the heart of the module.
// It holds no goroutines and does no I/O; it only ever consumes bytes
// already sitting in buf.
type engine struct {
	buf    *buffer.Buffer
	pos    enginePos
	eof    bool
	prolog Prolog
	policy refexpand.Policy
	stack  openElementStack

	// pending holds events already decided but not yet reported, for
	// the one case where a single token yields two events: a
	// self-closing element's start_element immediately followed by
	// end_element.
	pending []sax.Event
}

func newEngine(policy refexpand.Policy) *engine {
	return &engine{buf: buffer.New(), pos: posBOM, policy: policy}
}

func (e *engine) feed(chunk []byte) {
	e.buf.Append(chunk)
}

// stepOutcome is what Step reports back to the driver loop.
type stepOutcome struct {
	event     sax.Event
	haveEvent bool
	needMore  bool
	done      bool
	err       *ParseError
}

// Step advances the engine by at most one event. eof tells it whether
// the driver could still supply more bytes; once eof is true, running
// out of bytes mid-construct is an error rather than a request to
// wait.
func (e *engine) Step(eof bool) stepOutcome {
	if len(e.pending) > 0 {
		ev := e.pending[0]
		e.pending = e.pending[1:]
		return stepOutcome{event: ev, haveEvent: true, done: e.pos == posDone}
	}

	e.eof = eof
	mark := e.buf.Mark()

	ev, haveEvent, needMore, err := e.step()
	if err != nil {
		return stepOutcome{err: err}
	}
	if needMore {
		e.buf.Reset(mark)
		if eof {
			return stepOutcome{err: newErr(e.buf.Pos(), UnexpectedEOI, "input ended mid-token")}
		}
		return stepOutcome{needMore: true}
	}
	e.buf.DiscardBefore()
	return stepOutcome{event: ev, haveEvent: haveEvent, done: e.pos == posDone}
}

func (e *engine) step() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START step (pos=%d)", e.pos)
		defer debug.Printf("END   step (pos=%d)", e.pos)
	}
	switch e.pos {
	case posBOM:
		return e.stepBOM()
	case posProlog:
		return e.stepProlog()
	case posMisc:
		return e.stepMisc()
	case posContent:
		return e.stepContent()
	case posEpilog:
		return e.stepEpilog()
	default:
		return sax.Event{}, false, false, nil
	}
}

// queueEvent schedules ev to be returned by the very next Step call,
// without consuming any further bytes first.
func (e *engine) queueEvent(ev sax.Event) {
	e.pending = append(e.pending, ev)
}

func findTerminator(data []byte, from int, term string) int {
	idx := bytes.Index(data[from:], []byte(term))
	if idx < 0 {
		return -1
	}
	return from + idx
}
