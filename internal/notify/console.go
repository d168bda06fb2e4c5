package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/shanehull/tripwatch/internal/types"
)

const (
	// NoTicketsMessage is printed when a run finds nothing.
	NoTicketsMessage = "No tickets available at this time."

	evidenceLimit = 200
	banner        = "============================================================"
)

// ConsoleReporter renders scan results as human-readable text.
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report prints the summary and, if anything was found, a table of dates
// followed by the evidence for each.
func (c *ConsoleReporter) Report(result types.ScanResult) {
	c.header()

	if len(result.Records) == 0 {
		fmt.Fprintf(c.out, "\n%s\n", NoTicketsMessage)
		c.footer(result)
		return
	}

	fmt.Fprintf(c.out, "\n✅ Found %d available trip(s)!\n\n", len(result.Records))

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Date", "Weekday", "Route", "Reason", "URL"})
	for i, rec := range result.Records {
		t.AppendRow(table.Row{i + 1, rec.Date.Format(types.DateLayout), rec.Weekday, rec.Route, rec.Reason, rec.URL})
	}
	t.Render()

	for i, rec := range result.Records {
		if rec.Evidence == "" && len(rec.Digest) == 0 {
			continue
		}
		fmt.Fprintf(c.out, "\n--- TRIP #%d (%s, %s) ---\n", i+1, rec.Route, rec.Date.Format(types.DateLayout))
		if rec.Evidence != "" {
			fmt.Fprintf(c.out, "Details: %s\n", truncate(rec.Evidence, evidenceLimit))
		}
		for _, d := range rec.Digest {
			fmt.Fprintf(c.out, "\t- %s\n", d)
		}
	}

	c.footer(result)
}

// Delivered prints the summary after the result was emailed.
func (c *ConsoleReporter) Delivered(result types.ScanResult, to string) {
	c.header()
	fmt.Fprintf(c.out, "\n✅ Found %d available trip(s)! Email sent to %s.\n", len(result.Records), to)
	c.footer(result)
}

func (c *ConsoleReporter) header() {
	fmt.Fprintln(c.out, "\n"+banner)
	fmt.Fprintln(c.out, "SUMMARY")
	fmt.Fprintln(c.out, banner)
}

func (c *ConsoleReporter) footer(result types.ScanResult) {
	if !result.FinishedAt.IsZero() {
		fmt.Fprintf(c.out, "\nFinished at: %s\n", result.FinishedAt.Format("2006-01-02T15:04:05"))
	}
	fmt.Fprintln(c.out, banner)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
