package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohitxskull/daa-notes/internal/live"
	"github.com/mohitxskull/daa-notes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes with live table of contents and reload",
	Long: `Starts the daanotes HTTP server. Pages are fetched from the content source,
cached for content.cache_ttl and rendered per request. When the notes come
from a local directory, edits invalidate the cache and reload open pages.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("no-watch", false, "do not watch the content directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	contentDir := ""
	if _, err := os.Stat(cfg.Content.Dir); err == nil {
		contentDir = cfg.Content.Dir
	}

	srv := server.New(server.Config{
		Port:          cfg.Server.Port,
		ContentDir:    contentDir,
		DefaultScheme: cfg.Scheme(),
		TOCThreshold:  cfg.TOCThreshold,
		AllowAll:      cfg.Server.AllowAll,
	}, server.Deps{
		Fetcher:  a.fetcher,
		Renderer: a.renderer,
		Shell:    a.shell,
		Metrics:  a.metrics,
		Logger:   a.log,
	})

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if cfg.Server.Watch && !noWatch && contentDir != "" && cfg.Content.BaseURL == "" {
		w, err := live.NewWatcher(contentDir, srv.ContentChanged, a.log)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("content watcher stopped", "error", err)
			}
		}()
		a.log.Info("watching content", "dir", contentDir)
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "daanotes %s serving %d pages on http://localhost:%d\n", Version, len(a.nav.Entries()), cfg.Server.Port)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
