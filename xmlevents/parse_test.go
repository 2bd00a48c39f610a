package xmlevents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type logHandler struct {
	events []string
	failOn string
}

func (l *logHandler) add(s string) error {
	l.events = append(l.events, s)
	if l.failOn != "" && s == l.failOn {
		return errors.New("stop")
	}
	return nil
}

func (l *logHandler) StartDocument() error { return l.add("startdoc") }
func (l *logHandler) EndDocument() error   { return l.add("enddoc") }
func (l *logHandler) StartPrefixMapping(prefix, uri string) error {
	return l.add(fmt.Sprintf("ns+%s=%s", prefix, uri))
}
func (l *logHandler) EndPrefixMapping(prefix string) error { return l.add("ns-" + prefix) }
func (l *logHandler) StartElement(name Name, qname string, attrs []Attr) error {
	var sb strings.Builder
	sb.WriteString("<" + qname)
	for _, a := range attrs {
		fmt.Fprintf(&sb, " {%s}%s=%s", a.Space, a.Local, a.Value)
	}
	sb.WriteString(">")
	return l.add(sb.String())
}
func (l *logHandler) EndElement(name Name, qname string) error { return l.add("</" + qname + ">") }
func (l *logHandler) Characters(text []byte) error             { return l.add(string(text)) }

func TestParse_EventOrder(t *testing.T) {
	in := `<office:document-content xmlns:office="urn:o" xmlns:text="urn:t"><text:p text:style-name="P1">Hi</text:p></office:document-content>`
	h := &logHandler{}
	if err := Parse(context.Background(), strings.NewReader(in), h); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{
		"startdoc",
		"ns+office=urn:o",
		"ns+text=urn:t",
		"<office:document-content>",
		"<text:p {urn:t}style-name=P1>",
		"Hi",
		"</text:p>",
		"</office:document-content>",
		"ns-text",
		"ns-office",
		"enddoc",
	}
	if got := strings.Join(h.events, "|"); got != strings.Join(want, "|") {
		t.Errorf("events:\n got %s\nwant %s", got, strings.Join(want, "|"))
	}
}

func TestParse_DefaultNamespace(t *testing.T) {
	in := `<root xmlns="urn:r"><child/></root>`
	h := &logHandler{}
	if err := Parse(context.Background(), strings.NewReader(in), h); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.events[1] != "ns+=urn:r" {
		t.Errorf("prefix mapping: got %q", h.events[1])
	}
	if h.events[3] != "<child>" || h.events[4] != "</child>" {
		t.Errorf("self-closing child: got %v", h.events)
	}
}

func TestParse_ShadowedPrefix(t *testing.T) {
	in := `<a:root xmlns:a="urn:1"><b xmlns:a="urn:2"><x:c xmlns:x="urn:1"/></b></a:root>`
	h := &logHandler{}
	if err := Parse(context.Background(), strings.NewReader(in), h); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	found := false
	for _, e := range h.events {
		if e == "<x:c>" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected <x:c> qname, got %v", h.events)
	}
}

func TestParse_Malformed(t *testing.T) {
	h := &logHandler{}
	err := Parse(context.Background(), strings.NewReader(`<a><b></a>`), h)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
}

func TestParse_HandlerError(t *testing.T) {
	h := &logHandler{failOn: "<p>"}
	err := Parse(context.Background(), strings.NewReader(`<r><p>x</p></r>`), h)
	if err == nil || err.Error() != "stop" {
		t.Fatalf("expected handler error, got %v", err)
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		t.Error("handler error must not be reported as syntax error")
	}
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parse(ctx, strings.NewReader(`<r/>`), &logHandler{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParse_NilHandler(t *testing.T) {
	err := Parse(context.Background(), strings.NewReader(`<r/>`), nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestParse_NilReader(t *testing.T) {
	err := Parse(context.Background(), nil, &logHandler{})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValue(t *testing.T) {
	attrs := []Attr{{Space: "urn:t", Local: "outline-level", Value: "2"}}
	if v, ok := Value(attrs, "urn:t", "outline-level"); !ok || v != "2" {
		t.Errorf("Value = %q, %v", v, ok)
	}
	if _, ok := Value(attrs, "", "outline-level"); ok {
		t.Error("unqualified lookup must not match")
	}
}
