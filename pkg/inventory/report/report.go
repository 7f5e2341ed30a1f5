// Package report writes the human-readable progress lines of an inventory
// run. Lines are plain text; when the destination is a terminal the dry-run
// and warning prefixes are colored.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// Color constants using the ANSI 256-color palette.
const (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorMuted   = lipgloss.Color("245")
)

// DryPrefix starts every line describing an action that dry mode did not take.
const DryPrefix = "[DRY MODE]"

// Printer writes progress lines to an io.Writer.
type Printer struct {
	w io.Writer

	dry     lipgloss.Style
	warn    lipgloss.Style
	heading lipgloss.Style
	done    lipgloss.Style
}

// New returns a Printer writing to w. A nil w discards everything.
func New(w io.Writer) *Printer {
	if w == nil {
		w = io.Discard
	}
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		dry:     r.NewStyle().Foreground(ColorWarning).Bold(true),
		warn:    r.NewStyle().Foreground(ColorWarning),
		heading: r.NewStyle().Foreground(ColorPrimary),
		done:    r.NewStyle().Foreground(ColorSuccess),
	}
}

// Discard returns a Printer that writes nothing.
func Discard() *Printer {
	return New(io.Discard)
}

// Line writes one formatted line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Raw writes s followed by a newline, unformatted.
func (p *Printer) Raw(s string) {
	fmt.Fprintln(p.w, s)
}

// Dry writes a line prefixed with DryPrefix.
func (p *Printer) Dry(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.dry.Render(DryPrefix), fmt.Sprintf(format, args...))
}

// Warn writes an indented warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "    %s %s\n", p.warn.Render("WARNING:"), fmt.Sprintf(format, args...))
}

// Heading writes a folder heading such as "[3] Media folder: /photos/2019".
func (p *Printer) Heading(n int64, label, dir string) {
	fmt.Fprintf(p.w, "\n%s %s: %s\n", p.heading.Render(fmt.Sprintf("[%d]", n)), label, dir)
}

// Done writes a success line.
func (p *Printer) Done(format string, args ...any) {
	fmt.Fprintln(p.w, p.done.Render(fmt.Sprintf(format, args...)))
}

// Summary writes the totals line that follows the per-folder footer.
func (p *Printer) Summary(s types.Summary) {
	p.Line("Hashed %s files (%s), %s checksum failures, %s manifests written, %s already present.",
		humanize.Comma(s.Files),
		types.FormatSize(s.Bytes),
		humanize.Comma(s.Failures),
		humanize.Comma(s.Created),
		humanize.Comma(s.Existing),
	)
}
