package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/siudek-family/media-project/pkg/inventory/report"
)

const tableWidth = 100

// TableFormatter writes an aligned table with a styled header.
type TableFormatter struct{}

// Format writes one row per run.
func (f *TableFormatter) Format(w io.Writer, h *History) error {
	header := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(report.ColorPrimary)

	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-36s  %-6s  %-19s  %8s  %10s  %s",
		"ID", "TYPE", "WHEN", "FOLDERS", "FILES", "SOURCE")))
	fmt.Fprintln(w, strings.Repeat("-", tableWidth))

	for _, run := range h.Runs {
		fmt.Fprintf(w, "%-36s  %-6s  %-19s  %8s  %10s  %s\n",
			run.ID,
			run.Operation,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.Comma(run.Totals.Folders),
			humanize.Comma(run.Totals.Files),
			run.Source,
		)
	}

	fmt.Fprintln(w, strings.Repeat("-", tableWidth))
	return nil
}

// TSVFormatter writes tab-separated values with a header row.
type TSVFormatter struct{}

// Format writes one line per run.
func (f *TSVFormatter) Format(w io.Writer, h *History) error {
	fmt.Fprintln(w, "ID\tTYPE\tTIMESTAMP\tFOLDERS\tFILES\tFAILURES\tSOURCE\tTARGET")
	for _, run := range h.Runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			run.ID, run.Operation, run.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			run.Totals.Folders, run.Totals.Files, run.Totals.Failures,
			run.Source, run.Target)
	}
	return nil
}

func init() {
	Register("table", func() Formatter { return &TableFormatter{} })
	Register("tsv", func() Formatter { return &TSVFormatter{} })
}

var (
	_ Formatter = (*TableFormatter)(nil)
	_ Formatter = (*TSVFormatter)(nil)
)
