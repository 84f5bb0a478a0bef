package config

import "time"

// Config is the top-level daanotes configuration, corresponding to .daanotes.yml.
type Config struct {
	SiteTitle string        `yaml:"site_title" koanf:"site_title"`
	Content   ContentConfig `yaml:"content" koanf:"content"`
	Repo      RepoConfig    `yaml:"repo" koanf:"repo"`
	Server    ServerConfig  `yaml:"server" koanf:"server"`
	OutputDir string        `yaml:"output_dir" koanf:"output_dir"`
	// Theme is the scheme for readers without a cookie, and the scheme of
	// the static build.
	Theme        string  `yaml:"theme" koanf:"theme"`
	TOCThreshold float64 `yaml:"toc_threshold" koanf:"toc_threshold"`
	LogLevel     string  `yaml:"log_level" koanf:"log_level"`
}

// ContentConfig says where the markdown sources live.
type ContentConfig struct {
	// Dir is the local source directory. The server publishes it under
	// /content/ and watches it for changes.
	Dir string `yaml:"dir" koanf:"dir"`
	// BaseURL is where sources are fetched from. Empty means the local
	// directory via file://.
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	NavFile  string        `yaml:"nav_file" koanf:"nav_file"`
	CacheTTL time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
	Include  []string      `yaml:"include" koanf:"include"`
	Exclude  []string      `yaml:"exclude" koanf:"exclude"`
}

// RepoConfig locates the sources in their repository for edit links.
type RepoConfig struct {
	URL    string `yaml:"url" koanf:"url"`
	Branch string `yaml:"branch" koanf:"branch"`
	Dir    string `yaml:"dir" koanf:"dir"`
}

// ServerConfig holds settings for daanotes serve.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
	Watch    bool `yaml:"watch" koanf:"watch"`
}
