package lucidxml

import "github.com/lucidxml/lucidxml/sax"

// Attribute is an ordered name/value pair, value already fully
// reference-expanded. It's an alias for sax.Attribute so callers that
// only import this package don't need to know events live in sax too.
type Attribute = sax.Attribute
