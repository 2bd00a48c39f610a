// CLAUDE:SUMMARY Sink that builds an x/net/html node tree from the XHTML event stream, plus render helpers.
// Package xhtml provides the downstream sinks of the content engine: a DOM
// builder, a plain-text extractor, an event recorder and a fan-out tee,
// together with HTML sanitising and Markdown rendering of the result.
package xhtml

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/odfhtml/xmlevents"
)

// Builder is a Sink that assembles an <html><head/><body>…</body></html>
// tree. Mapped content lands under <body>.
type Builder struct {
	Title string

	doc  *html.Node
	body *html.Node
	cur  *html.Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) StartDocument() error {
	b.doc = &html.Node{Type: html.DocumentNode}
	root := element("html")
	head := element("head")
	b.body = element("body")
	b.doc.AppendChild(root)
	root.AppendChild(head)
	root.AppendChild(b.body)
	if b.Title != "" {
		title := element("title")
		title.AppendChild(&html.Node{Type: html.TextNode, Data: b.Title})
		head.AppendChild(title)
	}
	b.cur = b.body
	return nil
}

func (b *Builder) StartElement(_, local string, attrs []xmlevents.Attr) error {
	if b.cur == nil {
		return fmt.Errorf("xhtml: start <%s> before document start", local)
	}
	n := element(local)
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Local, Val: a.Value})
	}
	b.cur.AppendChild(n)
	b.cur = n
	return nil
}

func (b *Builder) EndElement(_, local string) error {
	if b.cur == nil || b.cur == b.body || b.cur.Data != local {
		return fmt.Errorf("xhtml: unexpected end </%s>", local)
	}
	b.cur = b.cur.Parent
	return nil
}

func (b *Builder) Characters(text []byte) error {
	if b.cur == nil {
		return fmt.Errorf("xhtml: text before document start")
	}
	if last := b.cur.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += string(text)
		return nil
	}
	b.cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(text)})
	return nil
}

func (b *Builder) EndDocument() error {
	if b.cur != b.body {
		return fmt.Errorf("xhtml: document ended with <%s> open", b.cur.Data)
	}
	return nil
}

// Document returns the root node, nil before StartDocument.
func (b *Builder) Document() *html.Node { return b.doc }

// Body returns the <body> element, nil before StartDocument.
func (b *Builder) Body() *html.Node { return b.body }

func element(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// Render writes the full document.
func (b *Builder) Render(w io.Writer) error {
	if b.doc == nil {
		return fmt.Errorf("xhtml: nothing to render")
	}
	return html.Render(w, b.doc)
}

// BodyHTML returns the serialized children of <body>.
func (b *Builder) BodyHTML() (string, error) {
	if b.body == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := b.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render body: %w", err)
		}
	}
	return buf.String(), nil
}
