package config

import (
	"time"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

// DefaultExcludes are glob patterns never treated as note sources.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/README.md",
	"**/_*.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle: "Design and Analysis of Algorithms",
		Content: ContentConfig{
			Dir:      "content",
			CacheTTL: content.DefaultTTL,
			Include:  []string{"**/*.md"},
			Exclude:  DefaultExcludes,
		},
		Repo: RepoConfig{
			URL:    "https://github.com/mohitxskull/Design-and-Analysis-of-Algorithm",
			Branch: "main",
			Dir:    "content",
		},
		Server: ServerConfig{
			Port:  8080,
			Watch: true,
		},
		OutputDir:    "public",
		Theme:        "light",
		TOCThreshold: toc.DefaultThreshold,
		LogLevel:     "info",
	}
}

// minCacheTTL keeps a misconfigured cache from refetching on every request.
const minCacheTTL = time.Second
