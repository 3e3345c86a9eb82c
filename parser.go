package lucidxml

import (
	"context"

	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/internal/refexpand"
	"github.com/lucidxml/lucidxml/sax"
)

// EntityPolicyKind selects how an unrecognized &name; entity reference
// in character data or an attribute value is resolved.
type EntityPolicyKind = refexpand.Kind

const (
	KeepEntities     EntityPolicyKind = refexpand.Keep
	SkipEntities     EntityPolicyKind = refexpand.Skip
	CallbackEntities EntityPolicyKind = refexpand.Callback
)

// Options configures a parse. The zero value is KeepEntities, matching
// the default described for parse_string/parse_stream.
type Options struct {
	EntityPolicy EntityPolicyKind
	// ResolveEntity is used only when EntityPolicy == CallbackEntities.
	ResolveEntity func(name string) (string, error)

	// Context carries a trace logger (see WithTraceLogger) through the
	// parse's lifecycle events. A nil Context is treated as
	// context.Background().
	Context context.Context
}

func (o Options) policy() refexpand.Policy {
	return refexpand.Policy{Kind: o.EntityPolicy, Resolve: o.ResolveEntity}
}

func (o Options) ctx() context.Context {
	if o.Context == nil {
		return context.Background()
	}
	return o.Context
}

// ChunkSource is a finite lazy sequence of byte slices, for
// ParseStream. Next returns ok=false once the sequence is exhausted.
type ChunkSource interface {
	Next() (chunk []byte, ok bool)
}

// SliceChunks adapts a pre-built slice of chunks into a ChunkSource,
// for tests and for callers who already have the whole document split
// into pieces.
func SliceChunks(chunks [][]byte) ChunkSource {
	return &sliceChunkSource{chunks: chunks}
}

type sliceChunkSource struct {
	chunks [][]byte
	i      int
}

func (s *sliceChunkSource) Next() ([]byte, bool) {
	if s.i >= len(s.chunks) {
		return nil, false
	}
	c := s.chunks[s.i]
	s.i++
	return c, true
}

// ParseString parses a complete, in-memory document.
func ParseString[S any](data []byte, h sax.Handler[S], initial S, opts Options) (S, error) {
	return ParseStream(SliceChunks([][]byte{data}), h, initial, opts)
}

// ParseStream parses a document delivered as a lazy sequence of byte
// chunks. If the handler votes sax.Stop before the sequence is
// drained, the driver stops pulling further chunks.
func ParseStream[S any](chunks ChunkSource, h sax.Handler[S], initial S, opts Options) (S, error) {
	if debug.Enabled {
		debug.Printf("START ParseStream")
		defer debug.Printf("END   ParseStream")
	}
	ctx, span := StartSpan(opts.ctx(), "ParseStream")
	defer span.End()

	eng := newEngine(opts.policy())
	state := initial
	eof := false

	for {
		outcome := eng.Step(eof)

		if outcome.err != nil {
			TraceError(ctx, outcome.err, "parse failed")
			return state, outcome.err
		}

		if outcome.needMore {
			chunk, ok := chunks.Next()
			if !ok {
				eof = true
				continue
			}
			eng.feed(chunk)
			continue
		}

		if outcome.haveEvent {
			vote, newState, herr := h.Handle(outcome.event, state)
			state = newState
			switch vote {
			case sax.Stop:
				TraceEvent(ctx, "handler requested stop")
				return state, nil
			case sax.Error:
				perr := wrapErr(eng.buf.Pos(), HandlerError, "handler returned an error", herr)
				TraceError(ctx, perr, "handler error")
				return state, perr
			}
		}

		if outcome.done {
			return state, nil
		}
	}
}
