package cmd

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the navigation entries",
	RunE:  runRoutes,
}

func init() {
	routesCmd.Flags().String("style", "default", "table style: default, dark or bright")
	rootCmd.AddCommand(routesCmd)
}

var tableStyles = map[string]table.Style{
	"default": table.StyleDefault,
	"dark":    table.StyleColoredDark,
	"bright":  table.StyleColoredBright,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	if name, _ := cmd.Flags().GetString("style"); name != "" {
		if style, ok := tableStyles[name]; ok {
			w.SetStyle(style)
		}
	}
	w.SetTitle(cfg.SiteTitle)
	w.AppendHeader(table.Row{"group", "route", "title", "source", "size", "modified"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	local := cfg.Content.BaseURL == ""
	for _, g := range a.nav.Groups() {
		for _, e := range g.Entries {
			size, modified := "-", "-"
			if local {
				if info, err := os.Stat(filepath.Join(cfg.Content.Dir, filepath.FromSlash(e.Source))); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
					modified = humanize.Time(info.ModTime())
				} else {
					size = "missing"
				}
			}
			w.AppendRow(table.Row{g.Name, e.Route, e.Title, e.Source, size, modified})
		}
		w.AppendSeparator()
	}
	w.AppendFooter(table.Row{"", "", "", "pages", len(a.nav.Entries())})
	w.Render()
	return nil
}
