// CLAUDE:SUMMARY Plain-text sink: block elements end lines, table cells end with tabs, optional NFC normalization.
package xhtml

import (
	"bytes"

	"golang.org/x/text/unicode/norm"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "table": true, "ul": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// TextSink collects the visible text of the stream.
type TextSink struct {
	// NFC normalizes the collected text to Unicode NFC in String.
	NFC bool

	buf []byte
}

func (s *TextSink) StartDocument() error { return nil }
func (s *TextSink) EndDocument() error   { return nil }

func (s *TextSink) StartElement(_, local string, _ []xmlevents.Attr) error {
	if local == "br" {
		s.buf = append(s.buf, '\n')
	}
	return nil
}

func (s *TextSink) EndElement(_, local string) error {
	switch {
	case local == "td":
		s.buf = append(s.buf, '\t')
	case local == "tr":
		s.buf = bytes.TrimRight(s.buf, "\t")
		s.newline()
	case blockElements[local]:
		s.newline()
	}
	return nil
}

func (s *TextSink) Characters(text []byte) error {
	s.buf = append(s.buf, text...)
	return nil
}

// newline ends the current line unless it is already ended.
func (s *TextSink) newline() {
	if len(s.buf) == 0 || s.buf[len(s.buf)-1] == '\n' {
		return
	}
	s.buf = append(s.buf, '\n')
}

// String returns the text collected so far.
func (s *TextSink) String() string {
	if s.NFC {
		return string(norm.NFC.Bytes(s.buf))
	}
	return string(s.buf)
}
