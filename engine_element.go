package lucidxml

import (
	"unicode/utf8"

	"github.com/lucidxml/lucidxml/internal/charclass"
	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/internal/orderedmap"
	"github.com/lucidxml/lucidxml/sax"
)

// pseudoAttributes holds the name="value" pairs scanned out of a
// "<?xml ... ?>" declaration, in document order. It's kept separate
// from sax.Attribute because XMLDecl attributes aren't reference-
// expanded and aren't part of any element.
type pseudoAttributes struct {
	order  []string
	values *orderedmap.Map[string, string]
}

func (p pseudoAttributes) get(name string) (string, bool) {
	return p.values.Get(name)
}

// parsePseudoAttributes scans "Name S? = S? ('"'|"'") ... ('"'|"'")"
// pairs separated by whitespace, exactly as they appear inside an
// XMLDecl. basePos is the absolute offset of
// body[0], used only for error reporting.
func parsePseudoAttributes(basePos int, body []byte) (pseudoAttributes, *ParseError) {
	out := pseudoAttributes{values: orderedmap.New[string, string]()}
	i := 0
	for {
		for i < len(body) && isS(body[i]) {
			i++
		}
		if i >= len(body) {
			return out, nil
		}

		nameStart := i
		for i < len(body) && body[i] != '=' && !isS(body[i]) {
			i++
		}
		name := string(body[nameStart:i])
		if name == "" {
			return out, newErr(basePos+i, BadDeclaration, "expected attribute name")
		}

		for i < len(body) && isS(body[i]) {
			i++
		}
		if i >= len(body) || body[i] != '=' {
			return out, newErr(basePos+i, BadDeclaration, "expected '=' after "+name)
		}
		i++
		for i < len(body) && isS(body[i]) {
			i++
		}
		if i >= len(body) || (body[i] != '"' && body[i] != '\'') {
			return out, newErr(basePos+i, BadDeclaration, "expected quoted value for "+name)
		}
		quote := body[i]
		i++
		valueStart := i
		for i < len(body) && body[i] != quote {
			i++
		}
		if i >= len(body) {
			return out, newErr(basePos+i, BadDeclaration, "unterminated value for "+name)
		}
		value := string(body[valueStart:i])
		i++

		if err := out.values.Set(name, value); err != nil {
			return out, newErr(basePos+nameStart, BadDeclaration, "duplicate attribute "+name)
		}
		out.order = append(out.order, name)
	}
}

// parseStartTag is entered with the buffer positioned at '<' of what
// is known to be an element open tag (Misc/Content have already ruled
// out comment, PI, and doctype). It parses the name, zero or more
// attributes, and the closing "/>" or ">".
func (e *engine) parseStartTag() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	var guard *debug.Guard
	if debug.Enabled {
		guard = debug.IPrintf("START parseStartTag")
		defer guard.IRelease("END   parseStartTag")
	}
	data := e.buf.Bytes()
	nameEnd, nmNeedMore := e.scanName(data, 1)
	if nmNeedMore {
		return sax.Event{}, false, true, nil
	}
	if nameEnd == 1 {
		return sax.Event{}, false, false, newErr(e.buf.Pos()+1, BadName, "expected element name")
	}
	name := string(data[1:nameEnd])

	attrs, end, selfClosing, attrNeedMore, attrErr := e.scanAttributes(data, nameEnd)
	if attrErr != nil {
		return sax.Event{}, false, false, attrErr
	}
	if attrNeedMore {
		return sax.Event{}, false, true, nil
	}

	e.buf.Advance(end)

	if debug.Enabled {
		debug.Dump(attrs)
	}

	startEv := sax.Event{Kind: sax.StartElement, Name: name, Attributes: attrs}
	if selfClosing {
		e.queueEvent(sax.Event{Kind: sax.EndElement, Name: name})
		if e.stack.empty() && e.pos == posMisc {
			e.pos = posEpilog
		}
		return startEv, true, false, nil
	}

	e.stack.push(name)
	if e.pos == posMisc {
		e.pos = posContent
	}
	return startEv, true, false, nil
}

// scanAttributes scans the attribute list and closing "/>" or ">" of a
// start tag, given that the name ends at nameEnd. It returns the byte
// offset just past the tag's terminator as end.
func (e *engine) scanAttributes(data []byte, nameEnd int) (attrs []sax.Attribute, end int, selfClosing, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START scanAttributes")
		defer debug.Printf("END   scanAttributes")
	}
	i := nameEnd
	seen := orderedmap.New[string, struct{}]()
	for {
		wsStart := i
		for i < len(data) && isS(data[i]) {
			i++
		}
		if i >= len(data) {
			return nil, 0, false, true, nil
		}

		switch data[i] {
		case '/':
			if i+1 >= len(data) {
				return nil, 0, false, true, nil
			}
			if data[i+1] != '>' {
				return nil, 0, false, false, newErr(e.buf.Pos()+i, BadToken, "expected '>' after '/'")
			}
			return attrs, i + 2, true, false, nil
		case '>':
			return attrs, i + 1, false, false, nil
		}

		if i == wsStart {
			return nil, 0, false, false, newErr(e.buf.Pos()+i, BadAttribute, "expected whitespace before attribute")
		}

		nameEnd2, nmNeedMore := e.scanName(data, i)
		if nmNeedMore {
			return nil, 0, false, true, nil
		}
		if nameEnd2 == i {
			return nil, 0, false, false, newErr(e.buf.Pos()+i, BadName, "expected attribute name")
		}
		attrName := string(data[i:nameEnd2])
		i = nameEnd2

		for i < len(data) && isS(data[i]) {
			i++
		}
		if i >= len(data) {
			return nil, 0, false, true, nil
		}
		if data[i] != '=' {
			return nil, 0, false, false, newErr(e.buf.Pos()+i, BadAttribute, "expected '=' after "+attrName)
		}
		i++
		for i < len(data) && isS(data[i]) {
			i++
		}
		if i >= len(data) {
			return nil, 0, false, true, nil
		}
		if data[i] != '"' && data[i] != '\'' {
			return nil, 0, false, false, newErr(e.buf.Pos()+i, BadAttribute, "attribute value must be quoted")
		}
		quote := data[i]
		valStart := i + 1
		valEnd := findTerminator(data, valStart, string(quote))
		if valEnd < 0 {
			return nil, 0, false, true, nil
		}
		value, valErr := expandAttributeValue(e.buf.Pos()+valStart, data[valStart:valEnd], e.policy)
		if valErr != nil {
			return nil, 0, false, false, valErr
		}
		i = valEnd + 1

		if err := seen.Set(attrName, struct{}{}); err != nil {
			return nil, 0, false, false, newErr(e.buf.Pos()+nameEnd2, BadAttribute, "duplicate attribute "+attrName)
		}
		attrs = append(attrs, sax.Attribute{Name: attrName, Value: value})
	}
}

// parseEndTag is entered with the buffer positioned at "</". It
// validates the name against the open-element stack.
func (e *engine) parseEndTag() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START parseEndTag")
		defer debug.Printf("END   parseEndTag")
	}
	data := e.buf.Bytes()
	nameEnd, nmNeedMore := e.scanName(data, 2)
	if nmNeedMore {
		return sax.Event{}, false, true, nil
	}
	if nameEnd == 2 {
		return sax.Event{}, false, false, newErr(e.buf.Pos()+2, BadName, "expected element name")
	}
	name := string(data[2:nameEnd])
	if debug.Enabled {
		debug.Printf("  --> end tag %s", name)
	}

	i := nameEnd
	for i < len(data) && isS(data[i]) {
		i++
	}
	if i >= len(data) {
		return sax.Event{}, false, true, nil
	}
	if data[i] != '>' {
		return sax.Event{}, false, false, newErr(e.buf.Pos()+i, BadToken, "expected '>' to close end tag")
	}

	if e.stack.top() != name {
		return sax.Event{}, false, false, newErr(e.buf.Pos(), MismatchedEndTag, "end tag </"+name+"> does not match open element <"+e.stack.top()+">")
	}
	e.stack.pop()
	e.buf.Advance(i + 1)

	if e.stack.empty() {
		e.pos = posEpilog
	}
	return sax.Event{Kind: sax.EndElement, Name: name}, true, false, nil
}

// scanName consumes a Name starting at data[from], per NameStartChar
// NameChar*. It returns needMore=true if the buffer ran out while
// every byte seen so far was still a valid NameChar and eof hasn't
// been reached yet, since a real document could continue the name in
// the next chunk.
func (e *engine) scanName(data []byte, from int) (end int, needMore bool) {
	i := from
	for first := true; ; first = false {
		if i >= len(data) {
			if e.eof {
				return i, false
			}
			return i, true
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			if !e.eof && i+utf8.UTFMax > len(data) {
				return i, true
			}
			return i, false
		}
		if first {
			if !charclass.IsNameStartChar(r) {
				return i, false
			}
		} else if !charclass.IsNameChar(r) {
			return i, false
		}
		i += size
	}
}
