package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the history as one indented JSON document.
type JSONFormatter struct{}

// Format writes h as JSON.
func (f *JSONFormatter) Format(w io.Writer, h *History) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(h)
}

func init() {
	Register("json", func() Formatter { return &JSONFormatter{} })
}

var _ Formatter = (*JSONFormatter)(nil)
