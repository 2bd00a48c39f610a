// CLAUDE:SUMMARY Handler interface and Name/Attr types for the SAX-style XML event stream.
package xmlevents

// Name is a namespace-resolved XML name.
type Name struct {
	Space string
	Local string
}

// Attr is a namespace-resolved attribute. Space is empty for unprefixed
// attributes.
type Attr struct {
	Space string
	Local string
	Value string
}

// Handler receives the events of one document in document order.
// Text passed to Characters is only valid for the duration of the call.
// Returning an error aborts the parse.
type Handler interface {
	StartDocument() error
	StartPrefixMapping(prefix, uri string) error
	EndPrefixMapping(prefix string) error
	StartElement(name Name, qname string, attrs []Attr) error
	EndElement(name Name, qname string) error
	Characters(text []byte) error
	EndDocument() error
}

// Value returns the value of the attribute (space, local), if present.
func Value(attrs []Attr, space, local string) (string, bool) {
	for _, a := range attrs {
		if a.Space == space && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
