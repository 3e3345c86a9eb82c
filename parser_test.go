package lucidxml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidxml/lucidxml"
	"github.com/lucidxml/lucidxml/sax"
)

func collectHandler() (sax.HandlerFunc[[]sax.Event], *[]sax.Event) {
	events := &[]sax.Event{}
	return sax.HandlerFunc[[]sax.Event](func(ev sax.Event, state []sax.Event) (sax.Vote, []sax.Event, error) {
		*events = append(*events, ev)
		return sax.Ok, *events, nil
	}), events
}

func TestParseStringBasicDocument(t *testing.T) {
	h, events := collectHandler()
	_, err := lucidxml.ParseString([]byte(`<?xml version="1.0" ?><foo bar="value"></foo>`), h, nil, lucidxml.Options{})
	require.NoError(t, err)

	require.Len(t, *events, 4)
	require.Equal(t, sax.StartDocument, (*events)[0].Kind)
	require.Equal(t, "1.0", (*events)[0].Version)
	require.Equal(t, sax.StartElement, (*events)[1].Kind)
	require.Equal(t, "foo", (*events)[1].Name)
	require.Equal(t, []sax.Attribute{{Name: "bar", Value: "value"}}, (*events)[1].Attributes)
	require.Equal(t, sax.EndElement, (*events)[2].Kind)
	require.Equal(t, "foo", (*events)[2].Name)
	require.Equal(t, sax.EndDocument, (*events)[3].Kind)
}

func TestParseStringCharacterReferences(t *testing.T) {
	h, events := collectHandler()
	_, err := lucidxml.ParseString([]byte(`<a>&#65;&amp;B</a>`), h, nil, lucidxml.Options{})
	require.NoError(t, err)

	require.Equal(t, sax.Characters, (*events)[2].Kind)
	require.Equal(t, "A&B", (*events)[2].Text)
}

func TestParseStringEntityPolicies(t *testing.T) {
	cases := []struct {
		name   string
		policy lucidxml.Options
		want   string
	}{
		{"keep", lucidxml.Options{EntityPolicy: lucidxml.KeepEntities}, "&reg;"},
		{"skip", lucidxml.Options{EntityPolicy: lucidxml.SkipEntities}, ""},
		{"callback", lucidxml.Options{
			EntityPolicy: lucidxml.CallbackEntities,
			ResolveEntity: func(name string) (string, error) {
				return "®", nil
			},
		}, "®"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, events := collectHandler()
			_, err := lucidxml.ParseString([]byte(`<a>&reg;</a>`), h, nil, tc.policy)
			require.NoError(t, err)
			require.Equal(t, tc.want, (*events)[2].Text)
		})
	}
}

func TestParseStringCDataVerbatim(t *testing.T) {
	h, events := collectHandler()
	_, err := lucidxml.ParseString([]byte(`<a><![CDATA[<b>&amp;</b>]]></a>`), h, nil, lucidxml.Options{})
	require.NoError(t, err)
	require.Equal(t, "<b>&amp;</b>", (*events)[2].Text)
}

func TestParseStringMismatchedEndTag(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte(`<a></b>`), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.MismatchedEndTag, perr.Kind)
}

func TestParseStreamChunkInvariance(t *testing.T) {
	doc := `<?xml version="1.0"?><r><c/></r>`
	chunks := [][]byte{
		[]byte("<?xm"),
		[]byte("l ver"),
		[]byte(`sion="1.0"?><r`),
		[]byte("><c"),
		[]byte("/></"),
		[]byte("r>"),
	}

	hSingle, eventsSingle := collectHandler()
	_, err := lucidxml.ParseString([]byte(doc), hSingle, nil, lucidxml.Options{})
	require.NoError(t, err)

	hChunked, eventsChunked := collectHandler()
	_, err = lucidxml.ParseStream(lucidxml.SliceChunks(chunks), hChunked, nil, lucidxml.Options{})
	require.NoError(t, err)

	require.Equal(t, *eventsSingle, *eventsChunked)
}

func TestParseStringHandlerStop(t *testing.T) {
	var seen []sax.Kind
	h := sax.HandlerFunc[struct{}](func(ev sax.Event, state struct{}) (sax.Vote, struct{}, error) {
		seen = append(seen, ev.Kind)
		if ev.Kind == sax.StartElement {
			return sax.Stop, state, nil
		}
		return sax.Ok, state, nil
	})

	_, err := lucidxml.ParseString([]byte(`<a><b/></a>`), h, struct{}{}, lucidxml.Options{})
	require.NoError(t, err)
	require.Equal(t, []sax.Kind{sax.StartDocument, sax.StartElement}, seen)
}

func TestParseStringRejectsNonUTF8Encoding(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte("\xFE\xFF<a></a>"), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.UnsupportedEncoding, perr.Kind)
}

func TestParseStringRejectsInvalidUTF8InCharacterData(t *testing.T) {
	h, _ := collectHandler()
	// 0xFF is never a valid UTF-8 lead byte.
	_, err := lucidxml.ParseString([]byte("<a>x\xffy</a>"), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.BadCharacter, perr.Kind)
}

func TestParseStringRejectsInvalidUTF8InAttributeValue(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte("<a x=\"\xff\"/>"), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.BadCharacter, perr.Kind)
}

func TestParseStringRejectsInvalidUTF8InComment(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte("<a><!-- \xff --></a>"), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.BadCharacter, perr.Kind)
}

func TestParseStringRejectsInvalidUTF8InCDATA(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte("<a><![CDATA[\xff]]></a>"), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.BadCharacter, perr.Kind)
}

func TestParseStringDuplicateAttributeIsError(t *testing.T) {
	h, _ := collectHandler()
	_, err := lucidxml.ParseString([]byte(`<a x="1" x="2"/>`), h, nil, lucidxml.Options{})
	require.Error(t, err)

	var perr *lucidxml.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, lucidxml.BadAttribute, perr.Kind)
}
