package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/mohitxskull/daa-notes/internal/theme"
)

// FileName is the default configuration file.
const FileName = ".daanotes.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DAANOTES_*). Nested keys use a double
// underscore: DAANOTES_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("DAANOTES_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DAANOTES_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Content.Dir == "" && c.Content.BaseURL == "" {
		return fmt.Errorf("content.dir or content.base_url is required")
	}

	if c.Content.BaseURL != "" {
		u, err := url.Parse(c.Content.BaseURL)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("invalid content.base_url %q: must be an absolute URL", c.Content.BaseURL)
		}
	}

	if c.Content.CacheTTL < minCacheTTL {
		return fmt.Errorf("content.cache_ttl must be at least %s", minCacheTTL)
	}

	if _, ok := theme.ParseScheme(c.Theme); !ok {
		return fmt.Errorf("invalid theme %q: must be one of light, dark", c.Theme)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.TOCThreshold < 0 {
		return fmt.Errorf("toc_threshold must be non-negative")
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// SourceBaseURL returns the URL sources are fetched from: content.base_url
// when set, otherwise the content directory as a file:// URL.
func (c *Config) SourceBaseURL() (string, error) {
	if c.Content.BaseURL != "" {
		return c.Content.BaseURL, nil
	}
	abs, err := filepath.Abs(c.Content.Dir)
	if err != nil {
		return "", fmt.Errorf("resolving content dir: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Scheme returns the configured default scheme.
func (c *Config) Scheme() theme.Scheme {
	s, ok := theme.ParseScheme(c.Theme)
	if !ok {
		return theme.Light
	}
	return s
}

// SlogLevel maps log_level to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
