package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/mohitxskull/daa-notes/internal/config"
	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly
// error, and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `daanotes init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// app is everything a command needs to render pages.
type app struct {
	cfg      *config.Config
	nav      *content.Nav
	metrics  *metrics.Metrics
	fetcher  *content.Fetcher
	renderer *render.Renderer
	shell    *site.Shell
	log      *slog.Logger
}

func newApp(cfg *config.Config) (*app, error) {
	log := slog.Default()

	nav := content.DefaultNav()
	if cfg.Content.NavFile != "" {
		var err error
		if nav, err = content.LoadNav(cfg.Content.NavFile); err != nil {
			return nil, err
		}
	}

	baseURL, err := cfg.SourceBaseURL()
	if err != nil {
		return nil, err
	}

	m := metrics.New(Version, runtime.Version())
	fetcher, err := content.NewFetcher(nav, content.FetcherOptions{
		BaseURL: baseURL,
		TTL:     cfg.Content.CacheTTL,
		Logger:  log,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}

	shell, err := site.NewShell(nav, site.ShellOptions{
		SiteTitle:    cfg.SiteTitle,
		RepoURL:      cfg.Repo.URL,
		RepoBranch:   cfg.Repo.Branch,
		RepoDir:      cfg.Repo.Dir,
		TOCThreshold: cfg.TOCThreshold,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		nav:      nav,
		metrics:  m,
		fetcher:  fetcher,
		renderer: render.New(render.Options{Logger: log, Metrics: m}),
		shell:    shell,
		log:      log,
	}, nil
}
