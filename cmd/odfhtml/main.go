// CLAUDE:SUMMARY CLI entry point for odfhtml: one-shot conversion, HTTP daemon or MCP stdio server.
// Command odfhtml converts OpenDocument files to XHTML, text or Markdown.
//
// Usage:
//
//	odfhtml report.odt                      # body XHTML to stdout
//	odfhtml -o markdown report.odt          # Markdown
//	odfhtml -o json budget.ods              # full structured document
//	odfhtml < content.xml                   # bare content.xml on stdin
//	odfhtml -serve :8087                    # HTTP daemon
//	odfhtml -mcp                            # MCP server on stdio
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pkg/connectivity"
	"github.com/hazyhaar/pkg/horosafe"
	"github.com/hazyhaar/pkg/shield"

	"github.com/hazyhaar/odfhtml/docpipe"
)

func main() {
	configPath := flag.String("config", "", "path to odfhtml.yaml config file")
	output := flag.String("o", "html", "output: html, text, markdown, sections, json")
	serve := flag.String("serve", "", "run the HTTP API on this address (\"-\" uses the config listen address)")
	serveMCP := flag.Bool("mcp", false, "serve MCP tools on stdio")
	lenient := flag.Bool("lenient", false, "map bad outline levels to h1 instead of failing")
	sanitize := flag.Bool("sanitize", false, "sanitize HTML output")
	cachePath := flag.String("cache", "", "SQLite result cache path")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(*configPath, *lenient, *sanitize, *cachePath)
	if err != nil {
		logger.Error("odfhtml: config", "error", err)
		os.Exit(1)
	}
	cfg.Logger = logger

	if err := run(ctx, logger, cfg, *output, *serve, *serveMCP, flag.Args()); err != nil {
		logger.Error("odfhtml: fatal", "error", err)
		os.Exit(1)
	}
}

func resolveConfig(configPath string, lenient, sanitize bool, cachePath string) (*docpipe.Config, error) {
	cfg := &docpipe.Config{}
	if configPath != "" {
		loaded, err := docpipe.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	// Flags only switch features on; they never override a config file to off.
	cfg.LenientHeadings = cfg.LenientHeadings || lenient
	cfg.Sanitize = cfg.Sanitize || sanitize
	if cachePath != "" {
		cfg.CachePath = cachePath
	}
	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger, cfg *docpipe.Config, output, serve string, serveMCP bool, args []string) error {
	pipe := docpipe.New(*cfg)

	if cfg.CachePath != "" {
		cache, err := docpipe.OpenCache(cfg.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		pipe.SetCache(cache)
	}

	switch {
	case serveMCP:
		srv := mcp.NewServer(&mcp.Implementation{Name: "odfhtml", Version: "1.0.0"}, nil)
		pipe.RegisterMCP(srv)
		logger.Info("odfhtml: mcp on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})

	case serve != "":
		addr := serve
		if addr == "-" {
			addr = cfg.Listen
		}
		return serveHTTP(ctx, logger, pipe, addr)
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return convertStdin(ctx, pipe, cfg.MaxFileSize, output)
	}
	for _, path := range args {
		doc, err := pipe.Extract(ctx, path)
		if err != nil {
			return err
		}
		if err := write(os.Stdout, doc, output); err != nil {
			return err
		}
	}
	return nil
}

func convertStdin(ctx context.Context, pipe *docpipe.Pipeline, maxBytes int64, output string) error {
	data, err := horosafe.LimitedReadAll(os.Stdin, maxBytes)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	doc, err := pipe.ExtractBytes(ctx, data)
	if err != nil {
		return err
	}
	return write(os.Stdout, doc, output)
}

func write(w io.Writer, doc *docpipe.Document, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "sections":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc.Sections)
	}
	out, err := doc.Render(docpipe.Output(output))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func serveHTTP(ctx context.Context, logger *slog.Logger, pipe *docpipe.Pipeline, addr string) error {
	router := connectivity.New()
	pipe.RegisterConnectivity(router)

	r := chi.NewRouter()
	for _, mw := range shield.DefaultBOStack() {
		r.Use(mw)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	pipe.RegisterHTTP(r)

	// Inter-service calls: the body is the service payload, the response
	// the service result.
	r.Post("/v1/rpc/{service}", func(w http.ResponseWriter, req *http.Request) {
		payload, err := horosafe.LimitedReadAll(req.Body, 1<<20)
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		resp, err := router.Call(req.Context(), chi.URLParam(req, "service"), payload)
		if err != nil {
			var nf *connectivity.ErrServiceNotFound
			if errors.As(err, &nf) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("odfhtml: listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("odfhtml: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
