// CLAUDE:SUMMARY Sink interface for the XHTML event stream and the thin adapter the engine forwards through.
package odfcontent

import "github.com/hazyhaar/odfhtml/xmlevents"

// Sink receives the XHTML document-construction events. Attributes passed
// to StartElement and text passed to Characters are only valid during the
// call.
type Sink interface {
	StartDocument() error
	StartElement(space, local string, attrs []xmlevents.Attr) error
	EndElement(space, local string) error
	Characters(text []byte) error
	EndDocument() error
}

// adapter forwards engine decisions to the sink and counts what it emits.
type adapter struct {
	sink  Sink
	stats *Stats
	attrs []xmlevents.Attr
}

func (a *adapter) startDocument() error { return a.sink.StartDocument() }

func (a *adapter) endDocument() error { return a.sink.EndDocument() }

func (a *adapter) startMapped(t TargetElement, src []xmlevents.Attr) error {
	a.attrs = t.rename(a.attrs[:0], src)
	a.stats.Emitted++
	return a.sink.StartElement(t.Space, t.Local, a.attrs)
}

func (a *adapter) startHeading(tag string) error {
	a.stats.Emitted++
	return a.sink.StartElement(XHTMLNS, tag, nil)
}

func (a *adapter) end(space, local string) error {
	return a.sink.EndElement(space, local)
}

func (a *adapter) characters(text []byte) error {
	a.stats.TextBytes += len(text)
	return a.sink.Characters(text)
}
