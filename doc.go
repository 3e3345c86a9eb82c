// Package lucidxml is a streaming XML 1.0 (Fifth Edition) parser and a
// companion encoder. The parser reads a document incrementally, either
// as one contiguous byte slice or as a lazy sequence of chunks, and
// emits SAX events to a caller-supplied handler while threading an
// arbitrary user state value through every callback. The encoder walks
// a small tree-shaped "simple form" and produces well-formed XML.
//
// The parser does not validate against a DTD or schema, does not
// resolve XML namespaces beyond preserving attribute names verbatim,
// and only accepts UTF-8 input; declaring any other encoding in the
// prolog is a parse error.
package lucidxml
