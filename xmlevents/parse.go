// CLAUDE:SUMMARY Drives a Handler from a namespace-aware xmlstream reader, synthesising prefix-mapping events.
// Package xmlevents turns an XML byte stream into SAX-style events.
//
// The tokenizer is github.com/jacoelho/xsd/pkg/xmlstream. Namespace
// declarations are reported as StartPrefixMapping / EndPrefixMapping events
// around the element that carries them and are never passed as attributes.
//
//	err := xmlevents.Parse(ctx, r, handler, xmlevents.WithMaxDepth(512))
package xmlevents

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/xsd/pkg/xmlstream"
	"github.com/jacoelho/xsd/pkg/xmltext"
)

// ErrConfiguration is returned when the XML reader cannot be constructed.
// No event has been delivered when it is returned.
var ErrConfiguration = errors.New("xmlevents: reader configuration")

// SyntaxError reports input that is not well-formed XML.
type SyntaxError struct {
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xmlevents: syntax error at %d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

const (
	defaultMaxDepth     = 256
	defaultMaxTokenSize = 4 << 20
)

type options struct {
	maxDepth     int
	maxTokenSize int
}

// Option customises Parse.
type Option func(*options)

// WithMaxDepth caps element nesting. Default: 256.
func WithMaxDepth(n int) Option { return func(o *options) { o.maxDepth = n } }

// WithMaxTokenSize caps the size of a single token in bytes. Default: 4 MiB.
func WithMaxTokenSize(n int) Option { return func(o *options) { o.maxTokenSize = n } }

// Parse reads r to the end and delivers its events to h.
// ctx is checked between tokens.
func Parse(ctx context.Context, r io.Reader, h Handler, opts ...Option) error {
	o := options{maxDepth: defaultMaxDepth, maxTokenSize: defaultMaxTokenSize}
	for _, fn := range opts {
		fn(&o)
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrConfiguration)
	}

	reader, err := xmlstream.NewStringReader(r,
		xmltext.MaxDepth(o.maxDepth),
		xmltext.MaxTokenSize(o.maxTokenSize),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	p := &parser{h: h}
	if err := h.StartDocument(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := reader.CurrentPos()
			return &SyntaxError{Line: line, Column: col, Err: err}
		}
		if err := p.dispatch(ev); err != nil {
			return err
		}
	}
	if len(p.scopes) != 0 {
		line, col := reader.CurrentPos()
		return &SyntaxError{Line: line, Column: col, Err: io.ErrUnexpectedEOF}
	}
	return h.EndDocument()
}

// scope holds the prefixes declared on one open element.
type scope struct {
	decls []xmlstream.NamespaceDecl
}

type parser struct {
	h      Handler
	scopes []scope
	attrs  []Attr
}

func (p *parser) dispatch(ev xmlstream.StringEvent) error {
	switch ev.Kind {
	case xmlstream.EventStartElement:
		return p.start(ev)
	case xmlstream.EventEndElement:
		return p.end(ev)
	case xmlstream.EventCharData:
		if len(ev.Text) == 0 {
			return nil
		}
		return p.h.Characters(ev.Text)
	}
	return nil
}

func (p *parser) start(ev xmlstream.StringEvent) error {
	var sc scope
	p.attrs = p.attrs[:0]
	for _, a := range ev.Attrs {
		if a.NamespaceURI() == xmlstream.XMLNSNamespace {
			prefix := a.LocalName()
			if prefix == "xmlns" {
				prefix = ""
			}
			sc.decls = append(sc.decls, xmlstream.NamespaceDecl{Prefix: prefix, URI: a.Value()})
			continue
		}
		p.attrs = append(p.attrs, Attr{Space: a.NamespaceURI(), Local: a.LocalName(), Value: a.Value()})
	}
	p.scopes = append(p.scopes, sc)

	for _, d := range sc.decls {
		if err := p.h.StartPrefixMapping(d.Prefix, d.URI); err != nil {
			return err
		}
	}
	name := Name{Space: ev.Name.Namespace, Local: ev.Name.Local}
	return p.h.StartElement(name, p.qualify(name), p.attrs)
}

func (p *parser) end(ev xmlstream.StringEvent) error {
	name := Name{Space: ev.Name.Namespace, Local: ev.Name.Local}
	if err := p.h.EndElement(name, p.qualify(name)); err != nil {
		return err
	}
	if len(p.scopes) == 0 {
		return nil
	}
	sc := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	for i := len(sc.decls) - 1; i >= 0; i-- {
		if err := p.h.EndPrefixMapping(sc.decls[i].Prefix); err != nil {
			return err
		}
	}
	return nil
}

// qualify rebuilds "prefix:local" from the innermost in-scope declaration
// of name.Space. Shadowed prefixes are skipped.
func (p *parser) qualify(name Name) string {
	if name.Space == "" {
		return name.Local
	}
	seen := map[string]bool{}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		decls := p.scopes[i].decls
		for j := len(decls) - 1; j >= 0; j-- {
			d := decls[j]
			if seen[d.Prefix] {
				continue
			}
			seen[d.Prefix] = true
			if d.URI != name.Space {
				continue
			}
			if d.Prefix == "" {
				return name.Local
			}
			return d.Prefix + ":" + name.Local
		}
	}
	return name.Local
}
