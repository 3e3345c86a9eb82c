package lucidxml

// Prolog is the parsed (or defaulted) <?xml ... ?> declaration. Version
// is "1.0" even when no declaration was present in the input; Encoding
// is empty unless the document declared one (and declaring anything
// but UTF-8, case-insensitively, is a parse error).
type Prolog struct {
	Version    string
	Encoding   string
	Standalone *bool
}

// DocumentStandalone returns the prolog's standalone value, defaulting
// to false when the document didn't declare one.
func (p Prolog) DocumentStandalone() bool {
	if p.Standalone == nil {
		return false
	}
	return *p.Standalone
}
