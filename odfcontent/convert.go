package odfcontent

import (
	"context"
	"errors"
	"io"

	"github.com/hazyhaar/odfhtml/nsnorm"
	"github.com/hazyhaar/odfhtml/xmlevents"
)

// Convert reads an OpenDocument content.xml stream from r and delivers the
// mapped XHTML events to sink. Namespace URIs are normalized first.
// Tokenizer syntax errors are returned as *MalformedError.
func Convert(ctx context.Context, r io.Reader, sink Sink, cfg Config) (Stats, error) {
	cfg.defaults()
	e := NewEngine(sink, cfg)

	err := xmlevents.Parse(ctx, r, nsnorm.Wrap(e), xmlevents.WithMaxDepth(cfg.MaxDepth))
	stats := e.Stats()
	if err != nil {
		var se *xmlevents.SyntaxError
		if errors.As(err, &se) {
			err = &MalformedError{Line: se.Line, Column: se.Column, Err: se.Err}
		}
		return stats, err
	}

	cfg.Logger.Debug("odfcontent: converted",
		"elements", stats.Elements,
		"emitted", stats.Emitted,
		"filtered", stats.Filtered,
		"text_bytes", stats.TextBytes,
	)
	return stats, nil
}
