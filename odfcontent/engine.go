// CLAUDE:SUMMARY Streaming filter/mapping state machine turning OpenDocument content events into XHTML sink calls.
// Package odfcontent converts the body of an OpenDocument content.xml into
// an XHTML event stream.
//
// The Engine sits between an xmlevents tokenizer and a Sink. For every
// element it decides once, at the start tag, whether the element is mapped
// to an XHTML element, resolved as a heading, dropped while its children
// are still walked, or suppressed with its whole subtree. The end tag
// replays that decision.
//
//	err := odfcontent.Convert(ctx, r, sink, odfcontent.Config{})
package odfcontent

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

var tab = []byte{'\t'}

// Config configures an Engine.
type Config struct {
	// Table maps source elements. Default: DefaultTable().
	Table *Table `json:"-" yaml:"-"`

	// LenientHeadings resolves an unparseable text:outline-level to h1
	// instead of failing the conversion.
	LenientHeadings bool `json:"lenient_headings" yaml:"lenient_headings"`

	// MaxDepth caps element nesting in the tokenizer (default: 256).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Table == nil {
		c.Table = DefaultTable()
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 256
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Stats summarises one conversion.
type Stats struct {
	Elements  int `json:"elements"`   // source start tags seen
	Emitted   int `json:"emitted"`    // target start tags emitted
	Filtered  int `json:"filtered"`   // source elements inside filtered subtrees
	TextBytes int `json:"text_bytes"` // bytes of character data forwarded
	Tabs      int `json:"tabs"`       // synthesized tab characters
}

// Engine is the per-conversion filtering and mapping state machine. It
// implements xmlevents.Handler. An Engine must not be shared between
// conversions.
type Engine struct {
	cfg   Config
	st    state
	out   adapter
	stats Stats
}

// NewEngine returns an engine forwarding to sink.
func NewEngine(sink Sink, cfg Config) *Engine {
	cfg.defaults()
	e := &Engine{cfg: cfg}
	e.out = adapter{sink: sink, stats: &e.stats}
	return e
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) StartDocument() error { return e.out.startDocument() }

func (e *Engine) EndDocument() error {
	if !e.st.balanced() {
		return &MalformedError{Reason: fmt.Sprintf("unbalanced document (depth %d, filter depth %d, open headings %d)",
			e.st.depth(), e.st.filterDepth, len(e.st.headingStack))}
	}
	return e.out.endDocument()
}

// Prefix mappings are dropped: XHTML output carries no prefixes.
func (e *Engine) StartPrefixMapping(string, string) error { return nil }
func (e *Engine) EndPrefixMapping(string) error           { return nil }

func (e *Engine) StartElement(name xmlevents.Name, qname string, attrs []xmlevents.Attr) error {
	e.stats.Elements++
	e.st.push(frame{text: name.Space == TextNS})
	f := e.st.top()

	if needsCompleteFiltering(name) {
		e.st.filterDepth++
		f.decision = decisionFilterRoot
	}
	if e.st.filterDepth > 0 {
		if f.decision != decisionFilterRoot {
			f.decision = decisionSuppressed
		}
		e.stats.Filtered++
		return nil
	}

	if name.Space == TextNS && name.Local == "h" {
		tag, err := e.headingTag(qname, attrs)
		if err != nil {
			return err
		}
		e.st.pushHeading(tag)
		f.decision = decisionHeading
		return e.out.startHeading(tag)
	}

	target, ok := e.cfg.Table.Lookup(name.Space, name.Local)
	if !ok {
		f.decision = decisionTransparent
		return nil
	}
	f.decision = decisionMapped
	f.target = target
	return e.out.startMapped(target, attrs)
}

func (e *Engine) EndElement(name xmlevents.Name, qname string) error {
	if e.st.depth() == 0 {
		return &MalformedError{Element: qname, Reason: "end tag without start tag"}
	}
	f := *e.st.top()

	if e.st.filterDepth == 0 {
		switch f.decision {
		case decisionHeading:
			tag, ok := e.st.popHeading()
			if !ok {
				return &MalformedError{Element: qname, Reason: "heading stack underflow"}
			}
			if err := e.out.end(XHTMLNS, tag); err != nil {
				return err
			}
		case decisionMapped:
			if err := e.out.end(f.target.Space, f.target.Local); err != nil {
				return err
			}
		}

		if name.Space == TextNS && (name.Local == "tab-stop" || name.Local == "tab") {
			e.stats.Tabs++
			if err := e.Characters(tab); err != nil {
				return err
			}
		}
	}

	// Filter and depth are released only after the element's own output
	// and tab, so the gate above still sees this element's frame.
	if f.decision == decisionFilterRoot {
		e.st.filterDepth--
	}
	e.st.pop()
	return nil
}

func (e *Engine) Characters(text []byte) error {
	if !e.st.textAllowed() {
		return nil
	}
	return e.out.characters(text)
}

func needsCompleteFiltering(name xmlevents.Name) bool {
	switch name.Space {
	case TextNS:
		return strings.HasSuffix(name.Local, "-template") || strings.HasSuffix(name.Local, "-style")
	case TableNS:
		return name.Local == "covered-table-cell"
	}
	return false
}

func (e *Engine) headingTag(qname string, attrs []xmlevents.Attr) (string, error) {
	tag, err := HeadingTag(attrs)
	if err == nil {
		return tag, nil
	}
	if e.cfg.LenientHeadings {
		e.cfg.Logger.Warn("odfcontent: bad outline level, using h1", "element", qname, "error", err)
		return "h1", nil
	}
	return "", &MalformedError{Element: qname, Reason: "text:outline-level", Err: err}
}

// HeadingTag resolves the XHTML heading tag for a text:h element from its
// text:outline-level attribute: absent → h1, ≤1 → h1, ≥6 → h6.
func HeadingTag(attrs []xmlevents.Attr) (string, error) {
	v, ok := xmlevents.Value(attrs, TextNS, "outline-level")
	if !ok {
		return "h1", nil
	}
	level, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return "", fmt.Errorf("parse outline level %q: %w", v, err)
	}
	switch {
	case level <= 1:
		return "h1", nil
	case level >= 6:
		return "h6", nil
	}
	return "h" + strconv.FormatInt(level, 10), nil
}
