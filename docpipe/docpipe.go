// CLAUDE:SUMMARY Core pipeline: detects OpenDocument formats, reads content.xml, runs the XHTML engine into HTML/text/section sinks.
// Package docpipe converts OpenDocument files to XHTML, plain text,
// Markdown and structured sections.
//
// Supported formats:
//   - .odt .ott - text documents and templates (zip → content.xml)
//   - .ods .ots - spreadsheets and templates
//   - .odp      - presentations
//   - .fodt .fods - flat XML documents
//   - .xml      - a bare content.xml
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	doc, err := pipe.Extract(ctx, "/path/to/file.odt")
//	fmt.Println(doc.Title, len(doc.Sections), "sections")
package docpipe

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/pkg/horosafe"

	"github.com/hazyhaar/odfhtml/odfcontent"
	"github.com/hazyhaar/odfhtml/xhtml"
)

// Pipeline is the document conversion engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
	cache  *Cache
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// SetCache attaches a result cache. A nil cache disables caching.
func (p *Pipeline) SetCache(c *Cache) { p.cache = c }

// Detect returns the document format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".odt":
		return FormatODT, nil
	case ".ott":
		return FormatOTT, nil
	case ".ods":
		return FormatODS, nil
	case ".ots":
		return FormatOTS, nil
	case ".odp":
		return FormatODP, nil
	case ".fodt":
		return FormatFODT, nil
	case ".fods":
		return FormatFODS, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", ext)
	}
}

// Extract converts a document file.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)
	}

	format, err := p.Detect(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracting document", "path", path, "format", format)

	content, err := readContent(path, format, p.cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}
	doc, err := p.convert(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}
	doc.Path = path
	doc.Format = format
	return doc, nil
}

// ExtractBytes converts an in-memory OpenDocument package or content.xml.
func (p *Pipeline) ExtractBytes(ctx context.Context, data []byte) (*Document, error) {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("input too large: %d bytes (max %d)", len(data), p.cfg.MaxFileSize)
	}
	content, format, err := readContentBytes(data, p.cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}
	doc, err := p.convert(ctx, content)
	if err != nil {
		return nil, err
	}
	doc.Format = format
	return doc, nil
}

// ConvertReader reads a package or content.xml from r and returns the
// requested rendering.
func (p *Pipeline) ConvertReader(ctx context.Context, r io.Reader, out Output) (string, error) {
	data, err := horosafe.LimitedReadAll(r, p.cfg.MaxFileSize)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	doc, err := p.ExtractBytes(ctx, data)
	if err != nil {
		return "", err
	}
	return doc.Render(out)
}

func (p *Pipeline) convert(ctx context.Context, content []byte) (*Document, error) {
	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	options := p.cacheOptions()
	if p.cache != nil {
		doc, ok, err := p.cache.Get(ctx, digest, options)
		if err != nil {
			p.logger.Warn("docpipe: cache lookup", "digest", digest, "error", err)
		} else if ok {
			p.logger.Debug("docpipe: cache hit", "digest", digest)
			return doc, nil
		}
	}

	builder := xhtml.NewBuilder()
	text := &xhtml.TextSink{NFC: p.cfg.NFC}
	sections := &sectionCollector{}

	stats, err := odfcontent.Convert(ctx, bytes.NewReader(content), xhtml.Tee(builder, text, sections), odfcontent.Config{
		LenientHeadings: p.cfg.LenientHeadings,
		MaxDepth:        p.cfg.MaxXMLDepth,
		Logger:          p.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("convert content: %w", err)
	}

	body, err := builder.BodyHTML()
	if err != nil {
		return nil, err
	}
	if p.cfg.Sanitize {
		body = xhtml.Sanitize(body)
	}

	doc := &Document{
		Title:    sections.title,
		Sections: sections.sections,
		RawText:  strings.TrimSpace(text.String()),
		HTML:     body,
		Stats:    stats,
		Digest:   digest,
	}
	if p.cfg.Markdown {
		if doc.Markdown, err = xhtml.Markdown(body); err != nil {
			return nil, err
		}
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, options, doc); err != nil {
			p.logger.Warn("docpipe: cache store", "digest", digest, "error", err)
		}
	}
	return doc, nil
}

// cacheOptions encodes every setting that changes the converted document or
// whether conversion succeeds.
func (p *Pipeline) cacheOptions() string {
	return fmt.Sprintf("lenient=%t;sanitize=%t;nfc=%t;markdown=%t;depth=%d",
		p.cfg.LenientHeadings, p.cfg.Sanitize, p.cfg.NFC, p.cfg.Markdown, p.cfg.MaxXMLDepth)
}

// Render returns the document in the requested output form.
func (d *Document) Render(out Output) (string, error) {
	switch out {
	case OutputHTML, "":
		return d.HTML, nil
	case OutputText:
		return d.RawText, nil
	case OutputMarkdown:
		if d.Markdown != "" {
			return d.Markdown, nil
		}
		return xhtml.Markdown(d.HTML)
	default:
		return "", fmt.Errorf("unsupported output: %q", out)
	}
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{"odt", "ott", "ods", "ots", "odp", "fodt", "fods", "xml"}
}
