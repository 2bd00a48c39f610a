package xhtml

import (
	"errors"
	"testing"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.StartDocument()
	attrs := []xmlevents.Attr{{Local: "href", Value: `a"b`}}
	r.StartElement("", "a", attrs)
	attrs[0].Value = "mutated"
	text := []byte("x<y")
	r.Characters(text)
	text[0] = 'z'
	r.EndElement("", "a")
	r.EndDocument()

	if len(r.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(r.Events))
	}
	if r.Events[0].Kind != StartDocument || r.Events[4].Kind != EndDocument {
		t.Errorf("document boundaries not recorded: %+v", r.Events)
	}
	if want := `<a href="a&#34;b">x&lt;y</a>`; r.String() != want {
		t.Errorf("String() = %q, want %q", r.String(), want)
	}
	if got := r.Texts(); len(got) != 1 || got[0] != "x<y" {
		t.Errorf("Texts() = %q", got)
	}
}

type failSink struct {
	Recorder
	err error
}

func (f *failSink) Characters([]byte) error { return f.err }

func TestTee(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	if err := drive(t, Tee(a, b), "p", "=x", "/p"); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if a.String() != "<p>x</p>" || b.String() != "<p>x</p>" {
		t.Errorf("a = %q, b = %q", a.String(), b.String())
	}
}

func TestTee_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	bad := &failSink{err: boom}
	after := &Recorder{}

	err := drive(t, Tee(bad, after), "p", "=x", "/p")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(after.Texts()) != 0 {
		t.Error("sink after the failing one received text")
	}
}
