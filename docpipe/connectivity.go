// CLAUDE:SUMMARY Registers odfhtml convert and detect handlers on a connectivity Router for inter-service RPC.
package docpipe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/pkg/connectivity"
)

// RegisterConnectivity registers conversion service handlers on a
// connectivity Router.
//
// Registered services:
//
//	odfhtml_convert - convert a file, or inline content, to a Document
//	odfhtml_detect  - detect document format
func (p *Pipeline) RegisterConnectivity(router *connectivity.Router) {
	router.RegisterLocal("odfhtml_convert", p.handleConvert)
	router.RegisterLocal("odfhtml_detect", p.handleDetect)
}

func (p *Pipeline) handleConvert(ctx context.Context, payload []byte) ([]byte, error) {
	var req struct {
		Path    string `json:"path"`
		Content []byte `json:"content"` // base64 package or content.xml
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var (
		doc *Document
		err error
	)
	switch {
	case len(req.Content) > 0:
		doc, err = p.ExtractBytes(ctx, req.Content)
	case req.Path != "":
		doc, err = p.Extract(ctx, req.Path)
	default:
		return nil, fmt.Errorf("decode: path or content required")
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (p *Pipeline) handleDetect(_ context.Context, payload []byte) ([]byte, error) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	format, err := p.Detect(req.Path)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{"format": string(format)})
}
