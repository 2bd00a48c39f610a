package odfcontent

import (
	"errors"
	"fmt"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

// ErrConfiguration is returned when the XML reader cannot be set up. It is
// the same value as xmlevents.ErrConfiguration.
var ErrConfiguration = xmlevents.ErrConfiguration

// ErrMalformedInput marks a conversion aborted by bad source markup.
var ErrMalformedInput = errors.New("odfcontent: malformed input")

// MalformedError describes why a conversion was aborted. It matches
// ErrMalformedInput with errors.Is.
type MalformedError struct {
	Line    int
	Column  int
	Element string
	Reason  string
	Err     error
}

func (e *MalformedError) Error() string {
	msg := "odfcontent: malformed input"
	if e.Line > 0 {
		msg += fmt.Sprintf(" at %d:%d", e.Line, e.Column)
	}
	if e.Element != "" {
		msg += " in <" + e.Element + ">"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}
