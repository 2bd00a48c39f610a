// CLAUDE:SUMMARY Configuration struct, defaults, and YAML loader for the docpipe conversion pipeline.
package docpipe

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the document pipeline.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// MaxXMLDepth caps element nesting in content.xml (default: 256).
	MaxXMLDepth int `json:"max_xml_depth" yaml:"max_xml_depth"`

	// LenientHeadings maps unparseable outline levels to h1 instead of
	// failing the document.
	LenientHeadings bool `json:"lenient_headings" yaml:"lenient_headings"`

	// Sanitize passes the HTML output through the bluemonday UGC policy.
	Sanitize bool `json:"sanitize" yaml:"sanitize"`

	// Markdown also renders Document.Markdown on Extract.
	Markdown bool `json:"markdown" yaml:"markdown"`

	// NFC normalizes extracted text to Unicode NFC.
	NFC bool `json:"nfc" yaml:"nfc"`

	// CachePath enables the SQLite result cache when set.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// Listen is the HTTP listen address for daemon mode.
	Listen string `json:"listen" yaml:"listen"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.MaxXMLDepth <= 0 {
		c.MaxXMLDepth = 256
	}
	if c.Listen == "" {
		c.Listen = ":8087"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
