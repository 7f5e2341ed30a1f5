package output

import (
	"fmt"
	"io"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultTemplate prints one line per run.
const DefaultTemplate = `{{range .Runs}}{{.ID}}	{{.Operation}}	{{.Totals.Files}} files	{{.Source}}
{{end}}`

// TemplateFormatter renders a text/template against the History.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter returns a formatter for templateStr.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{templateStr: templateStr}
}

// SetTemplate replaces the template.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Usage: {{date .Timestamp "2006-01-02"}}
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		// Usage: {{bytes .Totals.Bytes}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},
		"comma": humanize.Comma,
		"ago":   humanize.Time,
	}
}

// Format executes the template.
func (f *TemplateFormatter) Format(w io.Writer, h *History) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("history").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return fmt.Errorf("parsing template: %w", err)
		}
		f.template = tmpl
	}
	return f.template.Execute(w, h)
}

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(DefaultTemplate)
	})
}

var _ Formatter = (*TemplateFormatter)(nil)
