// CLAUDE:SUMMARY HTTP routes (chi) for converting uploaded OpenDocument content and listing formats.
package docpipe

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/odfhtml/odfcontent"
)

var contentTypes = map[Output]string{
	OutputHTML:     "text/html; charset=utf-8",
	OutputText:     "text/plain; charset=utf-8",
	OutputMarkdown: "text/markdown; charset=utf-8",
}

// RegisterHTTP mounts the conversion API on r.
//
//	POST /v1/convert?output=html|text|markdown  body: package or content.xml
//	GET  /v1/formats
//	GET  /v1/cache/stats                        only when a cache is attached
func (p *Pipeline) RegisterHTTP(r chi.Router) {
	r.Post("/v1/convert", p.handleHTTPConvert)
	r.Get("/v1/formats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"formats": SupportedFormats()})
	})
	r.Get("/v1/cache/stats", func(w http.ResponseWriter, r *http.Request) {
		if p.cache == nil {
			writeError(w, http.StatusNotFound, errors.New("cache disabled"))
			return
		}
		stats, err := p.cache.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})
}

func (p *Pipeline) handleHTTPConvert(w http.ResponseWriter, r *http.Request) {
	out := Output(r.URL.Query().Get("output"))
	if out == "" {
		out = OutputHTML
	}
	ct, ok := contentTypes[out]
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("output must be html, text or markdown"))
		return
	}

	body := http.MaxBytesReader(w, r.Body, p.cfg.MaxFileSize)
	result, err := p.ConvertReader(r.Context(), body, out)
	if err != nil {
		code := statusFor(err)
		if code >= 500 {
			p.logger.Error("docpipe: http convert", "error", err)
		}
		writeError(w, code, err)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result))
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, odfcontent.ErrMalformedInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotODF), errors.Is(err, errNoContent):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
