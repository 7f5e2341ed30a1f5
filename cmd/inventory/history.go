package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/output"
	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past runs",
	Long: `View the history of scan and mirror runs.

Every run that wrote manifests is recorded with its roots, algorithm and
totals. Dry runs are not recorded.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific run",
	Long:  `Display detailed information about a run by its ID or a unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old history records",
	Long:  `Remove history records older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit    int
	historyFormat   string
	historyTemplate string
	showFormat      string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show")
	historyCmd.Flags().StringVarP(&historyFormat, "output", "o", "table",
		"output format ("+strings.Join(output.Available(), ", ")+")")
	historyCmd.Flags().StringVar(&historyTemplate, "template", "", "Go template for --output template")
	historyShowCmd.Flags().StringVarP(&showFormat, "output", "o", "text", "output format (text, json, yaml)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getJournal returns the journal at the configured directory.
func getJournal() (*journal.Journal, int, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load configuration: %w", err)
	}
	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		return nil, 0, err
	}
	return j, cfg.Journal.RetentionDays, nil
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, _ []string) error {
	j, _, err := getJournal()
	if err != nil {
		return err
	}

	records, err := j.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 && historyFormat == "table" {
		printInfo("No runs recorded yet.")
		printInfo("Run 'inventory scan <directory>' to create inventories.")
		return nil
	}

	out := cmd.OutOrStdout()
	if err := formatHistory(out, historyFormat, historyTemplate, records); err != nil {
		return err
	}
	if historyFormat != "table" {
		return nil
	}

	fmt.Fprintf(out, "\nShowing %d runs. Use --limit to see more.\n", len(records))
	fmt.Fprintln(out, "Use 'inventory history show <id>' for details on a specific run.")
	return nil
}

// runHistoryShow displays details of a specific run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	j, _, err := getJournal()
	if err != nil {
		return err
	}

	rec, err := j.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	out := cmd.OutOrStdout()
	if showFormat != "text" {
		return formatHistory(out, showFormat, "", []journal.Record{*rec})
	}

	fmt.Fprintln(out, "\nRun Details")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "ID:          %s\n", rec.ID)
	fmt.Fprintf(out, "Timestamp:   %s (%s)\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(rec.Timestamp))
	fmt.Fprintf(out, "Operation:   %s\n", rec.Operation)
	fmt.Fprintf(out, "Source:      %s\n", rec.Source)
	if rec.Target != "" {
		fmt.Fprintf(out, "Target:      %s\n", rec.Target)
	}
	fmt.Fprintf(out, "Algorithm:   %s\n", rec.Algorithm)
	if len(rec.Excludes) > 0 {
		fmt.Fprintf(out, "Excluded:    %s\n", strings.Join(rec.Excludes, ", "))
	}
	fmt.Fprintf(out, "Duration:    %s\n", rec.Elapsed())

	s := rec.Summary
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "Folders:     %s processed, %s skipped\n", humanize.Comma(s.Folders), humanize.Comma(s.Skipped))
	fmt.Fprintf(out, "Files:       %s (%s)\n", humanize.Comma(s.Files), types.FormatSize(s.Bytes))
	fmt.Fprintf(out, "Failures:    %s\n", humanize.Comma(s.Failures))
	fmt.Fprintf(out, "Manifests:   %s written, %s already present\n", humanize.Comma(s.Created), humanize.Comma(s.Existing))
	return nil
}

// runHistoryClean removes records older than the retention period.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	j, retentionDays, err := getJournal()
	if err != nil {
		return err
	}
	if retentionDays <= 0 {
		printInfo("History retention is disabled; nothing removed.")
		return nil
	}

	printInfo("Removing history records older than %d days...", retentionDays)

	removed, err := j.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d records.", removed)
	return nil
}

// formatHistory renders records with the named formatter.
func formatHistory(w io.Writer, format, tmpl string, records []journal.Record) error {
	f, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(output.Available(), ", "))
	}
	if tf, ok := f.(*output.TemplateFormatter); ok && tmpl != "" {
		tf.SetTemplate(tmpl)
	}
	return f.Format(w, output.FromRecords(records))
}
