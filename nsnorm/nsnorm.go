// CLAUDE:SUMMARY Handler wrapper that rewrites legacy OpenOffice.org 1.x namespace URIs to OASIS OpenDocument URIs.
// Package nsnorm canonicalises namespace URIs before they reach the
// content engine, so StarOffice/OpenOffice.org 1.x documents
// (http://openoffice.org/2000/text) are handled like OASIS ODF
// (urn:oasis:names:tc:opendocument:xmlns:text:1.0).
package nsnorm

import (
	"strings"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

const oasisPrefix = "urn:oasis:names:tc:opendocument:xmlns:"

var legacyPrefixes = []string{
	"http://openoffice.org/2000/",
	"http://openoffice.org/2001/",
}

// URI returns the canonical form of uri.
func URI(uri string) string {
	for _, p := range legacyPrefixes {
		if suffix, ok := strings.CutPrefix(uri, p); ok && suffix != "" {
			return oasisPrefix + suffix + ":1.0"
		}
	}
	return uri
}

// Handler forwards every event to the wrapped handler with namespace URIs
// rewritten by URI.
type Handler struct {
	next  xmlevents.Handler
	attrs []xmlevents.Attr
}

// Wrap returns a normalizing handler in front of next.
func Wrap(next xmlevents.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) StartDocument() error { return h.next.StartDocument() }
func (h *Handler) EndDocument() error   { return h.next.EndDocument() }

func (h *Handler) StartPrefixMapping(prefix, uri string) error {
	return h.next.StartPrefixMapping(prefix, URI(uri))
}

func (h *Handler) EndPrefixMapping(prefix string) error {
	return h.next.EndPrefixMapping(prefix)
}

func (h *Handler) StartElement(name xmlevents.Name, qname string, attrs []xmlevents.Attr) error {
	h.attrs = h.attrs[:0]
	for _, a := range attrs {
		a.Space = URI(a.Space)
		h.attrs = append(h.attrs, a)
	}
	name.Space = URI(name.Space)
	return h.next.StartElement(name, qname, h.attrs)
}

func (h *Handler) EndElement(name xmlevents.Name, qname string) error {
	name.Space = URI(name.Space)
	return h.next.EndElement(name, qname)
}

func (h *Handler) Characters(text []byte) error { return h.next.Characters(text) }
