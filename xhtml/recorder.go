// CLAUDE:SUMMARY Recorder sink capturing events for inspection, and Tee fanning one stream out to several sinks.
package xhtml

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/odfhtml/odfcontent"
	"github.com/hazyhaar/odfhtml/xmlevents"
)

// EventKind identifies a recorded event.
type EventKind int

const (
	StartDocument EventKind = iota
	StartElement
	Characters
	EndElement
	EndDocument
)

// Event is one recorded sink call. Attrs and Text are copies.
type Event struct {
	Kind  EventKind
	Space string
	Local string
	Attrs []xmlevents.Attr
	Text  string
}

// Recorder is a Sink that keeps every call.
type Recorder struct {
	Events []Event
}

func (r *Recorder) StartDocument() error {
	r.Events = append(r.Events, Event{Kind: StartDocument})
	return nil
}

func (r *Recorder) StartElement(space, local string, attrs []xmlevents.Attr) error {
	ev := Event{Kind: StartElement, Space: space, Local: local}
	if len(attrs) > 0 {
		ev.Attrs = append([]xmlevents.Attr(nil), attrs...)
	}
	r.Events = append(r.Events, ev)
	return nil
}

func (r *Recorder) EndElement(space, local string) error {
	r.Events = append(r.Events, Event{Kind: EndElement, Space: space, Local: local})
	return nil
}

func (r *Recorder) Characters(text []byte) error {
	r.Events = append(r.Events, Event{Kind: Characters, Text: string(text)})
	return nil
}

func (r *Recorder) EndDocument() error {
	r.Events = append(r.Events, Event{Kind: EndDocument})
	return nil
}

// Texts returns the Characters payloads in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, ev := range r.Events {
		if ev.Kind == Characters {
			out = append(out, ev.Text)
		}
	}
	return out
}

// String renders the recorded elements and text as compact markup,
// e.g. `<td colspan="2">X</td>`. Document boundaries are omitted.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, ev := range r.Events {
		switch ev.Kind {
		case StartElement:
			sb.WriteString("<" + ev.Local)
			for _, a := range ev.Attrs {
				sb.WriteString(" " + a.Local + `="` + html.EscapeString(a.Value) + `"`)
			}
			sb.WriteString(">")
		case EndElement:
			sb.WriteString("</" + ev.Local + ">")
		case Characters:
			sb.WriteString(html.EscapeString(ev.Text))
		}
	}
	return sb.String()
}

type tee []odfcontent.Sink

// Tee returns a sink that forwards every call to each of sinks in order,
// stopping at the first error.
func Tee(sinks ...odfcontent.Sink) odfcontent.Sink { return tee(sinks) }

func (t tee) StartDocument() error {
	for _, s := range t {
		if err := s.StartDocument(); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) StartElement(space, local string, attrs []xmlevents.Attr) error {
	for _, s := range t {
		if err := s.StartElement(space, local, attrs); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) EndElement(space, local string) error {
	for _, s := range t {
		if err := s.EndElement(space, local); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) Characters(text []byte) error {
	for _, s := range t {
		if err := s.Characters(text); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) EndDocument() error {
	for _, s := range t {
		if err := s.EndDocument(); err != nil {
			return err
		}
	}
	return nil
}
