package lucidxml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidxml/lucidxml"
	"github.com/lucidxml/lucidxml/sax"
)

func TestEncodeElementWithAttributesAndText(t *testing.T) {
	tree := lucidxml.Element{
		Name:       "foo",
		Attributes: []lucidxml.Attribute{{Name: "g", Value: "f"}},
		Children:   []lucidxml.Node{lucidxml.Characters("Alice")},
	}

	got := lucidxml.Encode(tree, lucidxml.Prolog{Version: "1.0"})
	require.Equal(t, `<?xml version="1.0"?><foo g="f">Alice</foo>`, string(got))
}

func TestEncodeEscapesCharacterData(t *testing.T) {
	tree := lucidxml.Element{
		Name:     "p",
		Children: []lucidxml.Node{lucidxml.Characters("a<b&c")},
	}

	got := lucidxml.Encode(tree, lucidxml.Prolog{})
	require.Equal(t, `<p>a&lt;b&amp;c</p>`, string(got))
}

// TestEncodeCDataSplitsAtTerminator checks that a CDATA body containing
// the "]]>" terminator comes back out, byte for byte, once the parser
// re-reads whatever sections the encoder split it into.
func TestEncodeCDataSplitsAtTerminator(t *testing.T) {
	tree := lucidxml.Element{
		Name:     "a",
		Children: []lucidxml.Node{lucidxml.CData("x]]>y")},
	}

	got := string(lucidxml.Encode(tree, lucidxml.Prolog{}))
	require.NotContains(t, got[len("<a>"):len(got)-len("</a>")], "]]>x")

	h, events := collectHandler()
	_, err := lucidxml.ParseString([]byte(got), h, nil, lucidxml.Options{})
	require.NoError(t, err)

	var text strings.Builder
	for _, ev := range *events {
		if ev.Kind == sax.Characters {
			text.WriteString(ev.Text)
		}
	}
	require.Equal(t, "x]]>y", text.String())
}

// TestEncodeRoundTrip checks the round-trip property from spec §8: for
// a tree built from elements, attributes, and characters, parsing
// encode(T) with a tree-reconstructing handler yields T back (modulo
// adjacent character-run coalescing, which doesn't arise here since
// each element has at most one characters child).
func TestEncodeRoundTrip(t *testing.T) {
	tree := lucidxml.Element{
		Name:       "root",
		Attributes: []lucidxml.Attribute{{Name: "a", Value: "1"}},
		Children: []lucidxml.Node{
			lucidxml.Element{Name: "child", Children: []lucidxml.Node{lucidxml.Characters("world")}},
		},
	}

	encoded := lucidxml.Encode(tree, lucidxml.Prolog{Version: "1.0"})
	rebuilt := reconstructTree(t, encoded)

	require.Equal(t, tree, rebuilt)
}

type treeBuilderState struct {
	stack []*lucidxml.Element
	root  *lucidxml.Element
}

func reconstructTree(t *testing.T, data []byte) lucidxml.Element {
	h := sax.HandlerFunc[*treeBuilderState](func(ev sax.Event, st *treeBuilderState) (sax.Vote, *treeBuilderState, error) {
		switch ev.Kind {
		case sax.StartElement:
			el := &lucidxml.Element{Name: ev.Name, Attributes: ev.Attributes}
			if len(st.stack) > 0 {
				parent := st.stack[len(st.stack)-1]
				parent.Children = append(parent.Children, el)
			}
			st.stack = append(st.stack, el)
		case sax.EndElement:
			closed := st.stack[len(st.stack)-1]
			st.stack = st.stack[:len(st.stack)-1]
			if len(st.stack) == 0 {
				st.root = closed
			}
		case sax.Characters:
			parent := st.stack[len(st.stack)-1]
			parent.Children = append(parent.Children, lucidxml.Characters(ev.Text))
		}
		return sax.Ok, st, nil
	})

	st := &treeBuilderState{}
	_, err := lucidxml.ParseString(data, h, st, lucidxml.Options{})
	require.NoError(t, err)

	return flattenPointers(*st.root)
}

// flattenPointers converts the *Element children the builder used for
// in-place mutation back into the plain Element value shape Encode
// expects, so the result compares equal to a literal tree.
func flattenPointers(e lucidxml.Element) lucidxml.Element {
	out := e
	out.Children = make([]lucidxml.Node, len(e.Children))
	for i, c := range e.Children {
		if el, ok := c.(*lucidxml.Element); ok {
			out.Children[i] = flattenPointers(*el)
		} else {
			out.Children[i] = c
		}
	}
	return out
}
