// CLAUDE:SUMMARY Sink that groups the XHTML event stream into top-level sections (headings, paragraphs, lists, tables, notes).
package docpipe

import (
	"strings"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

var blockTypes = map[string]string{
	"p":     "paragraph",
	"ul":    "list",
	"table": "table",
	"div":   "note",
}

// sectionCollector turns every top-level element into one Section. Loose
// top-level text becomes a paragraph.
type sectionCollector struct {
	sections []Section
	title    string

	depth int
	cur   *Section
	text  []byte
}

func (c *sectionCollector) StartDocument() error { return nil }

func (c *sectionCollector) EndDocument() error {
	c.flush()
	return nil
}

func (c *sectionCollector) StartElement(_, local string, _ []xmlevents.Attr) error {
	if c.depth == 0 {
		c.flush()
		c.cur = &Section{Type: "paragraph"}
		if level := headingLevel(local); level > 0 {
			c.cur.Type = "heading"
			c.cur.Level = level
		} else if t, ok := blockTypes[local]; ok {
			c.cur.Type = t
		}
	}
	c.depth++
	if local == "br" {
		c.text = append(c.text, '\n')
	}
	return nil
}

func (c *sectionCollector) EndElement(_, local string) error {
	if c.depth == 0 {
		return nil
	}
	c.depth--
	switch local {
	case "p", "li", "tr":
		c.text = append(c.text, '\n')
	case "td":
		c.text = append(c.text, '\t')
	}
	if c.depth == 0 {
		c.flush()
	}
	return nil
}

func (c *sectionCollector) Characters(text []byte) error {
	if c.cur == nil {
		c.cur = &Section{Type: "paragraph"}
	}
	c.text = append(c.text, text...)
	return nil
}

func (c *sectionCollector) flush() {
	if c.cur == nil {
		return
	}
	s := *c.cur
	c.cur = nil
	s.Text = tidyText(string(c.text))
	c.text = c.text[:0]
	if s.Text == "" {
		return
	}
	if s.Type == "heading" {
		s.Title = s.Text
		if c.title == "" {
			c.title = s.Text
		}
	}
	c.sections = append(c.sections, s)
}

// tidyText trims every line and drops blank lines.
func tidyText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
