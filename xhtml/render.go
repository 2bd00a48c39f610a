// CLAUDE:SUMMARY HTML sanitising (bluemonday) and Markdown rendering (html-to-markdown) of converted documents.
package xhtml

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// Links in documents are user content; javascript: and friends are
// stripped, spans on cells survive.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td")
	return p
}()

// Sanitize returns body-level HTML with unsafe markup removed.
func Sanitize(fragment string) string {
	return policy.Sanitize(fragment)
}

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown converts an HTML fragment to CommonMark with GFM tables.
func Markdown(fragment string) (string, error) {
	md, err := mdConverter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return md, nil
}
