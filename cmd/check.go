package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Render every page and report shortcode failures",
	Long: `Fetches and renders every navigation entry without writing anything, then
reports content errors, shortcode failures and, for a local content
directory, sources that no navigation entry points at.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	th := theme.New(cfg.Scheme())

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetTitle("Shortcode check")
	w.AppendHeader(table.Row{"route", "line", "shortcode", "code", "reason"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	problems := 0
	for _, e := range a.nav.Entries() {
		doc, err := a.fetcher.Fetch(ctx, e.Route)
		if err != nil {
			w.AppendRow(table.Row{e.Route, "", "", "content", err.Error()})
			problems++
			continue
		}
		page, err := a.renderer.Render(th, doc.Body)
		if err != nil {
			w.AppendRow(table.Row{e.Route, "", "", "render", err.Error()})
			problems++
			continue
		}
		for _, f := range page.Failures {
			w.AppendRow(table.Row{e.Route, f.Line, f.Shortcode, string(f.Code), f.Reason})
			problems++
		}
	}
	if problems > 0 {
		w.Render()
	}

	if cfg.Content.BaseURL == "" {
		files, err := content.ScanSources(cfg.Content.Dir, cfg.Content.Include, cfg.Content.Exclude)
		if err != nil {
			return err
		}
		audit := content.AuditSources(a.nav, files)
		for _, f := range audit.Orphans {
			color.Yellow("orphan: %s (%s, modified %s) is not in the navigation",
				f.Source, humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime))
		}
		for _, e := range audit.Missing {
			color.Red("missing: %s has no source at %s", e.Route, e.Source)
		}
	}

	if problems > 0 {
		return fmt.Errorf("check found %d problem(s) in %d page(s)", problems, len(a.nav.Entries()))
	}
	color.Green("Checked %d pages: no problems", len(a.nav.Entries()))
	return nil
}
