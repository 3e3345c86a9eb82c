package lucidxml

import "strings"

// Node is one node of the "simple form" tree the encoder walks. It has
// no methods of its own; Encode and EncodeToIODATA use a type switch,
// the same way the parser's event dispatch uses a Kind field, rather
// than forcing every node type to carry rendering logic.
type Node interface {
	isNode()
}

// Element is a tagged node with ordered attributes and children.
type Element struct {
	Name       string
	Attributes []Attribute
	Children   []Node
}

// Characters is raw text; Encode escapes it.
type Characters string

// CData is wrapped in "<![CDATA[...]]>" verbatim; if its content
// contains the "]]>" terminator, Encode splits it across two CDATA
// sections at the boundary so the output stays well-formed.
type CData string

// Reference renders as "&name;".
type Reference string

// Comment renders as "<!--...-->"; its content must not contain "--".
type Comment string

// ProcessingInstruction renders as "<?target data?>".
type ProcessingInstruction struct {
	Target string
	Data   string
}

func (Element) isNode()              {}
func (Characters) isNode()            {}
func (CData) isNode()                 {}
func (Reference) isNode()             {}
func (Comment) isNode()               {}
func (ProcessingInstruction) isNode() {}

// Encode renders tree as a complete XML document, with prolog as its
// declaration. Encode is Bytes() of EncodeToIODATA.
func Encode(tree Node, prolog Prolog) []byte {
	return EncodeToIODATA(tree, prolog).Bytes()
}

// EncodeToIODATA is Encode without the final concatenation, for
// callers who want to stream the output.
func EncodeToIODATA(tree Node, prolog Prolog) IOData {
	var b iodataBuilder
	encodeProlog(&b, prolog)
	encodeNode(&b, tree)
	return b.data
}

func encodeProlog(b *iodataBuilder, p Prolog) {
	if p.Version == "" && p.Encoding == "" && p.Standalone == nil {
		return
	}
	version := p.Version
	if version == "" {
		version = "1.0"
	}
	b.writeString(`<?xml version="`)
	b.writeString(version)
	b.writeString(`"`)
	if p.Encoding != "" {
		b.writeString(` encoding="`)
		b.writeString(p.Encoding)
		b.writeString(`"`)
	}
	if p.Standalone != nil {
		b.writeString(` standalone="`)
		if *p.Standalone {
			b.writeString("yes")
		} else {
			b.writeString("no")
		}
		b.writeString(`"`)
	}
	b.writeString("?>")
}

func encodeNode(b *iodataBuilder, n Node) {
	switch v := n.(type) {
	case Element:
		encodeElement(b, v)
	case Characters:
		b.writeString(escapeCharacters(string(v)))
	case CData:
		encodeCData(b, string(v))
	case Reference:
		b.writeString("&")
		b.writeString(string(v))
		b.writeString(";")
	case Comment:
		b.writeString("<!--")
		b.writeString(string(v))
		b.writeString("-->")
	case ProcessingInstruction:
		b.writeString("<?")
		b.writeString(v.Target)
		if v.Data != "" {
			b.writeString(" ")
			b.writeString(v.Data)
		}
		b.writeString("?>")
	}
}

func encodeElement(b *iodataBuilder, e Element) {
	b.writeString("<")
	b.writeString(e.Name)
	for _, a := range e.Attributes {
		b.writeString(" ")
		b.writeString(a.Name)
		b.writeString(`="`)
		b.writeString(escapeAttributeValue(a.Value))
		b.writeString(`"`)
	}
	if len(e.Children) == 0 {
		b.writeString("/>")
		return
	}
	b.writeString(">")
	for _, c := range e.Children {
		encodeNode(b, c)
	}
	b.writeString("</")
	b.writeString(e.Name)
	b.writeString(">")
}

// encodeCData splits body at every "]]>" boundary so no single CDATA
// section ever contains the terminator literally.
func encodeCData(b *iodataBuilder, body string) {
	const term = "]]>"
	for {
		i := strings.Index(body, term)
		if i < 0 {
			b.writeString("<![CDATA[")
			b.writeString(body)
			b.writeString("]]>")
			return
		}
		b.writeString("<![CDATA[")
		b.writeString(body[:i+2]) // include "]]" with this section
		b.writeString("]]>")
		body = body[i+2:] // next section starts with the ">"
	}
}

func escapeCharacters(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttributeValue(s string) string {
	s = escapeCharacters(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "\t", "&#9;")
	s = strings.ReplaceAll(s, "\n", "&#10;")
	s = strings.ReplaceAll(s, "\r", "&#13;")
	return s
}
