package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/iwgo/internal/world"
)

// Output formats understood by Inspect.
const (
	FormatYAML = "yaml"
	FormatHCL  = "hcl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TemplatesPath string // .hcl, .yaml and .yml files
	PalettePath   string // optional YAML palette, default palette when empty

	LogFormat string
	LogLevel  string
	Workers   int

	DisableFolding bool

	// Object selection for inspect and place.
	Object string
	Seed   int64
	Origin world.Pos
	Format string
	Output string // file path, stdout when empty

	// Optional socket.io mirror for place.
	EmitURL   string
	Namespace string
	EmitBatch int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatesPath == "" {
		return nil, errors.New("TemplatesPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	switch cfg.Format {
	case "":
		cfg.Format = FormatYAML
	case FormatYAML, FormatHCL:
	default:
		return nil, fmt.Errorf("invalid format %q: must be %q or %q", cfg.Format, FormatYAML, FormatHCL)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.EmitBatch < 0 {
		return nil, fmt.Errorf("emit batch size must not be negative, got %d", cfg.EmitBatch)
	}
	if cfg.Namespace != "" && cfg.EmitURL == "" {
		return nil, errors.New("namespace requires an emit URL")
	}

	return &cfg, nil
}
