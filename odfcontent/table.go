// CLAUDE:SUMMARY Immutable tag mapping table from OpenDocument (namespace, local) names to XHTML target elements.
package odfcontent

import "github.com/hazyhaar/odfhtml/xmlevents"

// Namespace URIs understood by the engine. Source URIs are the canonical
// OASIS forms produced by nsnorm.
const (
	OfficeNS = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	TextNS   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	TableNS  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	XLinkNS  = "http://www.w3.org/1999/xlink"
	XHTMLNS  = "http://www.w3.org/1999/xhtml"
)

// TargetElement describes the XHTML element a source element maps to.
// Only source attributes listed in its rename table survive, under their
// target name. A TargetElement is never modified after construction.
type TargetElement struct {
	Space string
	Local string
	attrs map[xmlevents.Name]string
}

// NewTargetElement returns a target with the given attribute renames
// (source qualified name → target local name). The map is copied.
func NewTargetElement(space, local string, renames map[xmlevents.Name]string) TargetElement {
	t := TargetElement{Space: space, Local: local}
	if len(renames) > 0 {
		t.attrs = make(map[xmlevents.Name]string, len(renames))
		for k, v := range renames {
			t.attrs[k] = v
		}
	}
	return t
}

// TargetAttr returns the target name of source attribute (space, local).
func (t TargetElement) TargetAttr(space, local string) (string, bool) {
	name, ok := t.attrs[xmlevents.Name{Space: space, Local: local}]
	return name, ok
}

// rename appends to dst the whitelisted attributes of src, renamed, in
// source order. Renamed attributes carry no namespace.
func (t TargetElement) rename(dst, src []xmlevents.Attr) []xmlevents.Attr {
	if len(t.attrs) == 0 {
		return dst
	}
	for _, a := range src {
		if name, ok := t.TargetAttr(a.Space, a.Local); ok {
			dst = append(dst, xmlevents.Attr{Local: name, Value: a.Value})
		}
	}
	return dst
}

// Table maps source element names to target elements. Safe for
// concurrent use: it is read-only after construction.
type Table struct {
	m map[xmlevents.Name]TargetElement
}

// NewTable builds a table from entries. The map is copied.
func NewTable(entries map[xmlevents.Name]TargetElement) *Table {
	m := make(map[xmlevents.Name]TargetElement, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Table{m: m}
}

// Lookup returns the target for (space, local).
func (t *Table) Lookup(space, local string) (TargetElement, bool) {
	te, ok := t.m[xmlevents.Name{Space: space, Local: local}]
	return te, ok
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.m) }

var defaultTable = newDefaultTable()

// DefaultTable returns the process-wide OpenDocument → XHTML table.
func DefaultTable() *Table { return defaultTable }

func newDefaultTable() *Table {
	text := func(local string) xmlevents.Name { return xmlevents.Name{Space: TextNS, Local: local} }
	table := func(local string) xmlevents.Name { return xmlevents.Name{Space: TableNS, Local: local} }

	// text:h is not listed: headings are resolved from text:outline-level.
	return NewTable(map[xmlevents.Name]TargetElement{
		text("p"):          NewTargetElement(XHTMLNS, "p", nil),
		text("line-break"): NewTargetElement(XHTMLNS, "br", nil),
		text("list"):       NewTargetElement(XHTMLNS, "ul", nil),
		text("list-item"):  NewTargetElement(XHTMLNS, "li", nil),
		text("note"):       NewTargetElement(XHTMLNS, "div", nil),
		text("span"):       NewTargetElement(XHTMLNS, "span", nil),
		text("a"): NewTargetElement(XHTMLNS, "a", map[xmlevents.Name]string{
			{Space: XLinkNS, Local: "href"}: "href",
		}),

		// Row repetition is ignored.
		table("table"):     NewTargetElement(XHTMLNS, "table", nil),
		table("table-row"): NewTargetElement(XHTMLNS, "tr", nil),
		// Repeated columns are rendered as one spanning cell. Wrong when a
		// cell is both spanned and repeated, which ODF does not allow.
		table("table-cell"): NewTargetElement(XHTMLNS, "td", map[xmlevents.Name]string{
			table("number-columns-spanned"):  "colspan",
			table("number-rows-spanned"):     "rowspan",
			table("number-columns-repeated"): "colspan",
		}),
	})
}
