package lucidxml

import (
	"bytes"

	"github.com/lucidxml/lucidxml/internal/charclass"
	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/internal/pool"
	"github.com/lucidxml/lucidxml/internal/refexpand"
	"github.com/lucidxml/lucidxml/sax"
)

// validateCharSpan walks chunk rune by rune, checking each one against
// the XML Char production. atEOF tells it whether chunk's end could
// still be the truncated prefix of a multi-byte sequence completed by a
// later chunk (needMore) rather than a real violation.
func validateCharSpan(chunk []byte, atEOF bool) (offset int, needMore bool, ok bool) {
	i := 0
	for i < len(chunk) {
		_, size, nm, good := charclass.DecodeRune(chunk[i:], atEOF)
		if nm {
			return i, true, false
		}
		if !good {
			return i, false, false
		}
		i += size
	}
	return i, false, true
}

// stepContent is the main element-content loop: it alternates child
// elements, CDATA sections, comments, processing instructions, and
// CharData runs (which may themselves contain references) until it has
// something worth reporting as an event.
func (e *engine) stepContent() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START stepContent")
		defer debug.Printf("END   stepContent")
	}
	for {
		data := e.buf.Bytes()
		if len(data) == 0 {
			return sax.Event{}, false, true, nil
		}

		if data[0] != '<' && data[0] != '&' {
			return e.parseCharacterRun(data)
		}

		if data[0] == '&' {
			return e.parseCharacterRun(data)
		}

		// data[0] == '<'
		next, ok := e.buf.Peek(1)
		if !ok {
			return sax.Event{}, false, true, nil
		}

		switch next {
		case '/':
			return e.parseEndTag()
		case '!':
			if bytes.HasPrefix(data, []byte("<![CDATA[")) {
				return e.parseCDATA(data)
			}
			if bytes.HasPrefix(data, []byte("<!--")) {
				consumed, skipErr := e.trySkipCommentOrDoctype(data)
				if skipErr != nil {
					return sax.Event{}, false, false, skipErr
				}
				if consumed < 0 {
					return sax.Event{}, false, true, nil
				}
				continue
			}
			if len(data) < len("<![CDATA[") {
				return sax.Event{}, false, true, nil
			}
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "unrecognized markup in content")
		case '?':
			consumed, piErr := e.trySkipPI(data)
			if piErr != nil {
				return sax.Event{}, false, false, piErr
			}
			if consumed < 0 {
				return sax.Event{}, false, true, nil
			}
			continue
		default:
			return e.parseStartTag()
		}
	}
}

// parseCharacterRun scans literal CharData and any embedded references
// up to (but not including) the next '<', combining them into exactly
// one characters event per spec.md's CharData-run rule.
func (e *engine) parseCharacterRun(data []byte) (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START parseCharacterRun (remaining = %d bytes)", len(data))
		defer debug.Printf("END   parseCharacterRun")
	}
	bp := pool.ByteSlice()
	buf := bp.Get()
	defer func() { bp.Put(buf) }()
	i := 0
	for {
		lt := bytes.IndexByte(data[i:], '<')
		amp := bytes.IndexByte(data[i:], '&')

		var lit int
		var bounded bool
		switch {
		case lt < 0 && amp < 0:
			lit = len(data) - i
			bounded = false
		case lt < 0:
			lit = amp
			bounded = true
		case amp < 0:
			lit = lt
			bounded = true
		default:
			lit = min(lt, amp)
			bounded = true
		}

		if lit > 0 {
			chunk := data[i : i+lit]
			if bytes.Contains(chunk, []byte("]]>")) {
				return sax.Event{}, false, false, newErr(e.buf.Pos()+i, ForbiddenCDataEnd, "']]>' is not allowed in character data")
			}
			// A bounded chunk ends right at a literal '<' or '&',
			// neither of which can be a UTF-8 continuation byte, so a
			// truncated rune there is a real error even mid-stream.
			// An unbounded chunk (no delimiter seen yet) might still
			// have its last rune completed by the next chunk.
			badOffset, spanNeedMore, ok := validateCharSpan(chunk, bounded || e.eof)
			if spanNeedMore {
				return sax.Event{}, false, true, nil
			}
			if !ok {
				return sax.Event{}, false, false, newErr(e.buf.Pos()+i+badOffset, BadCharacter, "invalid character in character data")
			}
			buf = append(buf, chunk...)
			i += lit
		}

		if i >= len(data) {
			if !e.eof {
				return sax.Event{}, false, true, nil
			}
			break
		}

		if data[i] == '<' {
			break
		}

		// data[i] == '&'
		end := findTerminator(data, i, ";")
		if end < 0 {
			if !e.eof {
				return sax.Event{}, false, true, nil
			}
			return sax.Event{}, false, false, newErr(e.buf.Pos()+i, BadReference, "unterminated reference")
		}
		repl, rerr := refexpand.Expand(data[i:end+1], e.policy)
		if rerr != nil {
			return sax.Event{}, false, false, newErr(e.buf.Pos()+i, BadReference, rerr.Error())
		}
		buf = append(buf, repl...)
		i = end + 1
	}

	if i == 0 {
		// Nothing accumulated: the loop only exits here because the
		// buffer starts right at '<'. Let the caller's outer loop
		// handle that token; no event for an empty run.
		return sax.Event{}, false, false, nil
	}

	e.buf.Advance(i)
	return sax.Event{Kind: sax.Characters, Text: string(buf)}, true, false, nil
}

// parseCDATA is entered at "<![CDATA[": its body is emitted verbatim,
// with no reference expansion and no normalization.
func (e *engine) parseCDATA(data []byte) (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START parseCDATA")
		defer debug.Printf("END   parseCDATA")
	}
	const open = "<![CDATA["
	end := findTerminator(data, len(open), "]]>")
	if end < 0 {
		return sax.Event{}, false, true, nil
	}
	body := data[len(open):end]
	// The terminator is already known, so the body is complete: any
	// truncated rune in it is a real error, not a chunk-boundary
	// artifact.
	if badOffset, _, ok := validateCharSpan(body, true); !ok {
		return sax.Event{}, false, false, newErr(e.buf.Pos()+len(open)+badOffset, BadCharacter, "invalid character in CDATA section")
	}
	e.buf.Advance(end + len("]]>"))
	return sax.Event{Kind: sax.Characters, Text: string(body)}, true, false, nil
}
