package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/gedgraph/internal/gedcom"
)

// ProjectConfig holds project-level settings loaded from gedgraph.yml.
type ProjectConfig struct {
	FrontEnd         string `yaml:"frontEnd,omitempty"`         // lines | grammar
	ReportUnresolved bool   `yaml:"reportUnresolved,omitempty"` // log dropped cross-references
	LogLevel         string `yaml:"logLevel,omitempty"`         // debug | info | warn | error
	LogFormat        string `yaml:"logFormat,omitempty"`        // text | json
	GraphPath        string `yaml:"graphPath,omitempty"`        // KuzuDB directory for export --format kuzu
	MCPAddr          string `yaml:"mcpAddr,omitempty"`          // listen address for serve-mcp over HTTP
	MaxDepth         int    `yaml:"maxDepth,omitempty"`         // default lineage depth
	LoadConcurrency  int    `yaml:"loadConcurrency,omitempty"`  // parallel document loads
}

// Load attempts to read gedgraph.yml or gedgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"gedgraph.yml", "gedgraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Validate rejects unknown enum values.
func (c *ProjectConfig) Validate() error {
	switch gedcom.FrontEnd(c.FrontEnd) {
	case "", gedcom.FrontEndLines, gedcom.FrontEndGrammar:
	default:
		return fmt.Errorf("frontEnd %q: want lines or grammar", c.FrontEnd)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q: want text or json", c.LogFormat)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.MaxDepth < 0 || c.LoadConcurrency < 0 {
		return fmt.Errorf("maxDepth and loadConcurrency must not be negative")
	}
	return nil
}

func (c *ProjectConfig) level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds a slog.Logger writing to w in the configured format and
// level. The default is warn-level text.
func (c *ProjectConfig) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseOptions returns the gedcom options implied by the config.
func (c *ProjectConfig) ParseOptions(logger *slog.Logger) []gedcom.Option {
	return []gedcom.Option{
		gedcom.WithFrontEnd(gedcom.FrontEnd(c.FrontEnd)),
		gedcom.WithUnresolvedReporting(c.ReportUnresolved),
		gedcom.WithLogger(logger),
	}
}

// Depth returns MaxDepth, or fallback when unset.
func (c *ProjectConfig) Depth(fallback int) int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return fallback
}
