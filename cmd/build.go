package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mohitxskull/daa-notes/internal/progress"
	"github.com/mohitxskull/daa-notes/internal/site"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the notes into a static site",
	Long:  `Fetches and renders every page in the navigation and writes a self-contained static site with search.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().String("theme", "", "scheme to build with: light or dark (overrides theme)")
	buildCmd.Flags().Bool("strict", false, "fail when a page cannot be loaded or a shortcode fails")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}
	scheme := cfg.Scheme()
	if s, _ := cmd.Flags().GetString("theme"); s != "" {
		var ok bool
		if scheme, ok = theme.ParseScheme(s); !ok {
			return fmt.Errorf("invalid --theme %q: must be light or dark", s)
		}
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	gen := &site.Generator{
		Fetcher:   a.fetcher,
		Renderer:  a.renderer,
		Shell:     a.shell,
		OutputDir: cfg.OutputDir,
		Theme:     theme.New(scheme),
		Reporter:  progress.NewReporter(),
		Logger:    a.log,
	}
	res, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	var size int
	for _, p := range res.Pages {
		size += p.Bytes
	}
	fmt.Printf("Static site generated: %s (%d pages, %s) in %s\n",
		cfg.OutputDir, len(res.Pages), humanize.Bytes(uint64(size)), time.Since(start).Round(time.Millisecond))

	for _, p := range res.Pages {
		if p.Err != nil {
			color.Red("  %s: %v", p.Route, p.Err)
		}
		for _, f := range p.Failures {
			color.Yellow("  %s: %s shortcode on line %d: %s", p.Route, f.Shortcode, f.Line, f.Reason)
		}
	}

	if res.Errors() == 0 && res.Failures() == 0 {
		color.Green("Build passed")
		return nil
	}
	summary := fmt.Sprintf("%d page(s) failed to load, %d shortcode failure(s)", res.Errors(), res.Failures())
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		return fmt.Errorf("%s", summary)
	}
	color.Yellow("%s", summary)
	return nil
}
