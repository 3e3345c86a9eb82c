package lucidxml

import "github.com/lucidxml/lucidxml/sax"

// Event and Vote are aliases for their sax package counterparts, so
// straightforward callers can write lucidxml.Event without an extra
// import. Handler itself stays a sax.Handler[S]: it's generic, and
// generic type aliases would only add a layer of indirection here.
type (
	Event = sax.Event
	Vote  = sax.Vote
)

const (
	Ok    = sax.Ok
	Stop  = sax.Stop
	Error = sax.Error
)
