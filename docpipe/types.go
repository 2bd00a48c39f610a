// CLAUDE:SUMMARY Defines Format, Output, Section, and Document types for the OpenDocument conversion pipeline.
package docpipe

import "github.com/hazyhaar/odfhtml/odfcontent"

// Format identifies a source document type.
type Format string

const (
	FormatODT  Format = "odt"  // text document
	FormatOTT  Format = "ott"  // text template
	FormatODS  Format = "ods"  // spreadsheet
	FormatOTS  Format = "ots"  // spreadsheet template
	FormatODP  Format = "odp"  // presentation
	FormatFODT Format = "fodt" // flat XML text
	FormatFODS Format = "fods" // flat XML spreadsheet
	FormatXML  Format = "xml"  // bare content.xml
)

// flat reports whether the format is a single XML stream rather than a zip
// package.
func (f Format) flat() bool {
	return f == FormatFODT || f == FormatFODS || f == FormatXML
}

// Output selects the rendering returned by Convert.
type Output string

const (
	OutputHTML     Output = "html"
	OutputText     Output = "text"
	OutputMarkdown Output = "markdown"
)

// Section is a structural unit of a document.
type Section struct {
	Title string `json:"title,omitempty"`
	Level int    `json:"level"` // heading level 1-6, 0 for body
	Text  string `json:"text"`
	Type  string `json:"type"` // heading, paragraph, table, list, note
}

// Document is the result of converting an OpenDocument file.
type Document struct {
	Path     string           `json:"path"`
	Format   Format           `json:"format"`
	Title    string           `json:"title"`
	Sections []Section        `json:"sections"`
	RawText  string           `json:"raw_text"` // plain text of the body
	HTML     string           `json:"html"`     // body-level XHTML
	Markdown string           `json:"markdown,omitempty"`
	Stats    odfcontent.Stats `json:"stats"`
	Digest   string           `json:"digest"` // sha256 of the content stream
}
