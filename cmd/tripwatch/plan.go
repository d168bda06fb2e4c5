package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shanehull/tripwatch/internal/sar"
	"github.com/shanehull/tripwatch/internal/scan"
)

func planCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Lists every route and date the next scan would check, without fetching",
		RunE: func(_ *cobra.Command, _ []string) error {
			windows, err := a.cfg.ScanWindows()
			if err != nil {
				return fmt.Errorf("invalid scan windows: %w", err)
			}

			o := scan.New(nil, scan.Options{
				Queries: sar.NewQueryBuilder(a.cfg.Site.BaseURL, a.cfg.Site.Locale),
			})
			reqs := o.Plan(windows)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"#", "Date", "Weekday", "Route", "URL"})
			for i, r := range reqs {
				t.AppendRow(table.Row{i + 1, r.Date.String(), r.Date.Weekday, r.Route.DisplayName(), r.URL})
			}
			t.AppendFooter(table.Row{"", "", "", "Total", len(reqs)})
			t.Render()

			return nil
		},
	}
}
