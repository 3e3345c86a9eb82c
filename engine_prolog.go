package lucidxml

import (
	"bytes"
	"strings"

	"github.com/lucidxml/lucidxml/internal/buffer"
	"github.com/lucidxml/lucidxml/internal/debug"
	"github.com/lucidxml/lucidxml/sax"
)

// stepBOM runs exactly once, before any grammar production: it checks
// for a byte-order mark that declares a non-UTF-8 encoding (reported
// precisely) and strips a UTF-8 BOM if present.
func (e *engine) stepBOM() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START stepBOM")
		defer debug.Printf("END   stepBOM")
	}
	const longestForeignBOM = 4
	n := e.buf.Len()
	if n < longestForeignBOM && !e.eof {
		return sax.Event{}, false, true, nil
	}

	sample := e.buf.Bytes()
	if name := buffer.DetectForeignEncoding(sample); name != "" {
		return sax.Event{}, false, false, newErr(e.buf.Pos(), UnsupportedEncoding, "document declares encoding "+name)
	}

	probe := n
	if probe > 3 {
		probe = 3
	}
	if probe > 0 {
		stripped, serr := buffer.StripLeadingBOM(sample[:probe])
		if serr == nil && len(stripped) < probe {
			e.buf.Advance(probe)
		}
	}

	e.pos = posProlog
	return sax.Event{}, false, false, nil
}

// stepProlog recognizes an optional "<?xml ... ?>" declaration and, in
// all cases, emits the single start_document event before handing off
// to Misc.
func (e *engine) stepProlog() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START stepProlog")
		defer debug.Printf("END   stepProlog")
	}
	data := e.buf.Bytes()

	const declOpen = "<?xml"
	if len(data) < len(declOpen) {
		// data could still turn into "<?xml" with more bytes; only
		// proceed to "no declaration" once it's eof or data already
		// diverges from that prefix.
		if !e.eof && !hasConflictingPrefix(data, declOpen) {
			return sax.Event{}, false, true, nil
		}
	} else if string(data[:len(declOpen)]) == declOpen {
		next, ok := e.buf.Peek(len(declOpen))
		if !ok {
			if !e.eof {
				return sax.Event{}, false, true, nil
			}
		} else if isS(next) || next == '?' {
			return e.parseXMLDecl(data)
		}
	}

	e.prolog = Prolog{Version: "1.0"}
	e.pos = posMisc
	return e.startDocumentEvent(), true, false, nil
}

// hasConflictingPrefix reports whether data, however short, could
// never be extended into a match for prefix.
func hasConflictingPrefix(data []byte, prefix string) bool {
	n := len(data)
	if n > len(prefix) {
		n = len(prefix)
	}
	return string(data[:n]) != prefix[:n]
}

func (e *engine) startDocumentEvent() sax.Event {
	return sax.Event{
		Kind:       sax.StartDocument,
		Version:    e.prolog.Version,
		Encoding:   e.prolog.Encoding,
		Standalone: e.prolog.Standalone,
	}
}

func (e *engine) parseXMLDecl(data []byte) (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	end := findTerminator(data, 0, "?>")
	if end < 0 {
		return sax.Event{}, false, true, nil
	}
	body := data[len("<?xml"):end]

	attrs, perr := parsePseudoAttributes(e.buf.Pos()+len("<?xml"), body)
	if perr != nil {
		return sax.Event{}, false, false, perr
	}

	order := []string{"version", "encoding", "standalone"}
	for _, name := range attrs.order {
		found := false
		for _, want := range order {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadDeclaration, "unexpected attribute "+name+" in XML declaration")
		}
	}

	version, hasVersion := attrs.get("version")
	if !hasVersion {
		return sax.Event{}, false, false, newErr(e.buf.Pos(), BadDeclaration, "missing version in XML declaration")
	}
	if version != "1.0" {
		return sax.Event{}, false, false, newErr(e.buf.Pos(), BadDeclaration, "unsupported XML version "+version)
	}

	var encoding string
	if enc, ok := attrs.get("encoding"); ok {
		if !strings.EqualFold(enc, "UTF-8") {
			return sax.Event{}, false, false, newErr(e.buf.Pos(), UnsupportedEncoding, "declared encoding "+enc)
		}
		encoding = enc
	}

	var standalone *bool
	if sa, ok := attrs.get("standalone"); ok {
		switch sa {
		case "yes":
			v := true
			standalone = &v
		case "no":
			v := false
			standalone = &v
		default:
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadDeclaration, "standalone must be yes or no")
		}
	}

	e.buf.Advance(end + len("?>"))
	e.prolog = Prolog{Version: version, Encoding: encoding, Standalone: standalone}
	e.pos = posMisc
	return e.startDocumentEvent(), true, false, nil
}

// stepMisc consumes whitespace, comments, PIs, and at most one DOCTYPE
// until it finds the '<' that opens the root element, which it parses
// and reports as the document's single start_element event.
func (e *engine) stepMisc() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START stepMisc")
		defer debug.Printf("END   stepMisc")
	}
	// Every stepMisc call rescans Misc from its start (a needMore rolls
	// the cursor back), so a local flag is enough to count DOCTYPEs.
	sawDoctype := false
	for {
		data := e.buf.Bytes()
		if len(data) == 0 {
			return sax.Event{}, false, true, nil
		}

		b := data[0]
		if isS(b) {
			i := 0
			for i < len(data) && isS(data[i]) {
				i++
			}
			e.buf.Advance(i)
			continue
		}

		if b != '<' {
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "unexpected byte before root element")
		}

		next, ok := e.buf.Peek(1)
		if !ok {
			if !e.eof {
				return sax.Event{}, false, true, nil
			}
			return sax.Event{}, false, false, newErr(e.buf.Pos(), UnexpectedEOI, "input ended before root element")
		}

		switch {
		case next == '!':
			if bytes.HasPrefix(data, []byte("<!DOCTYPE")) {
				if sawDoctype {
					return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "only one DOCTYPE declaration is permitted")
				}
				sawDoctype = true
			}
			consumed, skipErr := e.trySkipCommentOrDoctype(data)
			if skipErr != nil {
				return sax.Event{}, false, false, skipErr
			}
			if consumed < 0 {
				return sax.Event{}, false, true, nil
			}
			continue
		case next == '?':
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

// stepEpilog consumes whitespace, comments, and PIs after the root
// element has closed, and emits end_document once input is exhausted.
func (e *engine) stepEpilog() (ev sax.Event, haveEvent, needMore bool, err *ParseError) {
	if debug.Enabled {
		debug.Printf("START stepEpilog")
		defer debug.Printf("END   stepEpilog")
	}
	for {
		data := e.buf.Bytes()
		if len(data) == 0 {
			if e.eof {
				e.pos = posDone
				return sax.Event{Kind: sax.EndDocument}, true, false, nil
			}
			return sax.Event{}, false, true, nil
		}

		b := data[0]
		if isS(b) {
			i := 0
			for i < len(data) && isS(data[i]) {
				i++
			}
			e.buf.Advance(i)
			continue
		}

		if b != '<' {
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "unexpected trailing content after root element")
		}

		next, ok := e.buf.Peek(1)
		if !ok {
			if !e.eof {
				return sax.Event{}, false, true, nil
			}
			return sax.Event{}, false, false, newErr(e.buf.Pos(), UnexpectedEOI, "input ended mid-token")
		}

		switch next {
		case '!':
			if bytes.HasPrefix(data, []byte("<!DOCTYPE")) {
				return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "DOCTYPE is not permitted after the root element")
			}
			consumed, skipErr := e.trySkipCommentOrDoctype(data)
			if skipErr != nil {
				return sax.Event{}, false, false, skipErr
			}
			if consumed < 0 {
				return sax.Event{}, false, true, nil
			}
		case '?':
			consumed, piErr := e.trySkipPI(data)
			if piErr != nil {
				return sax.Event{}, false, false, piErr
			}
			if consumed < 0 {
				return sax.Event{}, false, true, nil
			}
		default:
			return sax.Event{}, false, false, newErr(e.buf.Pos(), BadToken, "only one root element is permitted")
		}
	}
}

// trySkipCommentOrDoctype is called with data[0]=='<' and data[1]=='!'.
// It returns the number of bytes consumed, or -1 if more data is
// needed; a genuine grammar error is returned as err.
func (e *engine) trySkipCommentOrDoctype(data []byte) (consumed int, err *ParseError) {
	switch {
	case bytes.HasPrefix(data, []byte("<!--")):
		end := findTerminator(data, len("<!--"), "-->")
		if end < 0 {
			return -1, nil
		}
		body := data[len("<!--"):end]
		if bytes.Contains(body, []byte("--")) {
			return 0, newErr(e.buf.Pos(), BadToken, "comment body must not contain --")
		}
		if badOffset, _, ok := validateCharSpan(body, true); !ok {
			return 0, newErr(e.buf.Pos()+len("<!--")+badOffset, BadCharacter, "invalid character in comment")
		}
		n := end + len("-->")
		e.buf.Advance(n)
		return n, nil
	case bytes.HasPrefix(data, []byte("<!DOCTYPE")):
		n, ok := scanBalancedDoctype(data)
		if !ok {
			return -1, nil
		}
		e.buf.Advance(n)
		return n, nil
	case len(data) < len("<!DOCTYPE"):
		return -1, nil
	default:
		return 0, newErr(e.buf.Pos(), BadToken, "unrecognized markup declaration")
	}
}

// scanBalancedDoctype scans a "<!DOCTYPE ... >" construct, treating a
// "[...]" internal subset as opaque to any literal '>' inside it. It
// returns ok=false if the construct isn't fully present yet.
func scanBalancedDoctype(data []byte) (n int, ok bool) {
	depth := 0
	for i := len("<!DOCTYPE"); i < len(data); i++ {
		switch data[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// trySkipPI is called with data[0]=='<' and data[1]=='?'. It validates
// the target per the Misc/tie-break rules (no colon, not "xml"
// case-insensitively) and returns bytes consumed, or -1 if more data
// is needed.
func (e *engine) trySkipPI(data []byte) (consumed int, err *ParseError) {
	end := findTerminator(data, len("<?"), "?>")
	if end < 0 {
		return -1, nil
	}
	body := data[len("<?"):end]

	i := 0
	for i < len(body) && !isS(body[i]) {
		i++
	}
	target := string(body[:i])
	if target == "" {
		return 0, newErr(e.buf.Pos(), BadToken, "processing instruction missing target")
	}
	if strings.ContainsRune(target, ':') {
		return 0, newErr(e.buf.Pos(), BadName, "processing instruction target must not contain ':'")
	}
	if strings.EqualFold(target, "xml") {
		return 0, newErr(e.buf.Pos(), BadToken, "\"xml\" is a reserved processing instruction target")
	}

	dataStart := i
	if dataStart < len(body) && isS(body[dataStart]) {
		dataStart++
	}
	if badOffset, _, ok := validateCharSpan(body[dataStart:], true); !ok {
		return 0, newErr(e.buf.Pos()+len("<?")+dataStart+badOffset, BadCharacter, "invalid character in processing instruction")
	}

	n := end + len("?>")
	e.buf.Advance(n)
	return n, nil
}

func isS(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
