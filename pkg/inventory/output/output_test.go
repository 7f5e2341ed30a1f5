package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testTime = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func testRecords() []journal.Record {
	return []journal.Record{
		{
			ID:        "0b9c3e4a-1111-4222-8333-444455556666",
			Timestamp: testTime,
			Operation: journal.OpMirror,
			Source:    "/media/photos",
			Target:    "/backup/inventory",
			Algorithm: "sha256",
			Excludes:  []string{".git"},
			Summary: types.Summary{
				Folders:  12,
				Skipped:  1,
				Files:    3400,
				Bytes:    5 << 30,
				Failures: 2,
				Created:  3398,
				Existing: 2,
			},
			ElapsedMS: 1500,
		},
		{
			ID:        "7f000000-aaaa-4bbb-8ccc-dddddddddddd",
			Timestamp: testTime.Add(-time.Hour),
			Operation: journal.OpScan,
			Source:    "/media/music",
			Algorithm: "blake3",
			Summary:   types.Summary{Folders: 3, Files: 40, Created: 3},
		},
	}
}

func TestFromRecords(t *testing.T) {
	h := FromRecords(testRecords())
	require.Len(t, h.Runs, 2)

	run := h.Runs[0]
	assert.Equal(t, "mirror", run.Operation)
	assert.Equal(t, "/backup/inventory", run.Target)
	assert.Equal(t, "1.5s", run.Duration)
	assert.Equal(t, int64(3400), run.Totals.Files)
	assert.Equal(t, "5.0 GiB", run.Totals.BytesHuman)

	assert.Equal(t, "scan", h.Runs[1].Operation)
	assert.Empty(t, h.Runs[1].Target)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Available())

	r.Register("b", func() Formatter { return &JSONFormatter{} })
	r.Register("a", func() Formatter { return &YAMLFormatter{} })
	assert.Equal(t, []string{"a", "b"}, r.Available())

	f, err := r.Get("a")
	require.NoError(t, err)
	assert.IsType(t, &YAMLFormatter{}, f)

	_, err = r.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestDefaultRegistry_BuiltIns(t *testing.T) {
	for _, name := range []string{"json", "table", "template", "tsv", "yaml"} {
		_, err := Get(name)
		assert.NoError(t, err, name)
	}
	assert.Equal(t, []string{"json", "table", "template", "tsv", "yaml"}, Available())
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, FromRecords(testRecords())))

	var parsed History
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Runs, 2)
	assert.Equal(t, "0b9c3e4a-1111-4222-8333-444455556666", parsed.Runs[0].ID)
	assert.True(t, parsed.Runs[0].Timestamp.Equal(testTime))
	assert.Equal(t, int64(2), parsed.Runs[0].Totals.Failures)

	// Scan runs have no target.
	assert.NotContains(t, strings.Split(buf.String(), "7f000000")[1], `"target"`)
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, FromRecords(testRecords())))

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	runs := parsed["runs"].([]interface{})
	require.Len(t, runs, 2)

	first := runs[0].(map[string]interface{})
	assert.Equal(t, "mirror", first["operation"])
	assert.Equal(t, "/media/photos", first["source"])

	totals := first["totals"].(map[string]interface{})
	assert.Equal(t, 12, totals["folders"])
	assert.Equal(t, "5.0 GiB", totals["bytes_human"])

	// Two-space indentation.
	assert.Contains(t, buf.String(), "\n  - id:")
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, FromRecords(testRecords())))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "FOLDERS")
	assert.Contains(t, out, "0b9c3e4a-1111-4222-8333-444455556666")
	assert.Contains(t, out, "3,400")
	assert.Contains(t, out, "/media/music")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
}

func TestTSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, FromRecords(testRecords())))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID\tTYPE\tTIMESTAMP\tFOLDERS\tFILES\tFAILURES\tSOURCE\tTARGET", lines[0])

	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 8)
	assert.Equal(t, "mirror", fields[1])
	assert.Equal(t, "2024-03-09T14:30:00Z", fields[2])
	assert.Equal(t, "3400", fields[4])
	assert.Equal(t, "/backup/inventory", fields[7])

	// Empty target keeps the column.
	assert.True(t, strings.HasSuffix(lines[2], "\t/media/music\t"))
}

func TestTemplateFormatter_Format(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "default",
			template: DefaultTemplate,
			want: "0b9c3e4a-1111-4222-8333-444455556666\tmirror\t3400 files\t/media/photos\n" +
				"7f000000-aaaa-4bbb-8ccc-dddddddddddd\tscan\t40 files\t/media/music\n",
		},
		{
			name:     "date and bytes",
			template: `{{range .Runs}}{{date .Timestamp "2006-01-02"}} {{bytes .Totals.Bytes}}|{{end}}`,
			want:     "2024-03-09 5.0 GiB|2024-03-09 0 B|",
		},
		{
			name:     "comma",
			template: `{{with index .Runs 0}}{{comma .Totals.Files}}{{end}}`,
			want:     "3,400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewTemplateFormatter(tt.template)
			require.NoError(t, f.Format(&buf, FromRecords(testRecords())))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTemplateFormatter_SetTemplate(t *testing.T) {
	f := NewTemplateFormatter("first")
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, &History{}))
	assert.Equal(t, "first", buf.String())

	f.SetTemplate("{{len .Runs}}")
	buf.Reset()
	require.NoError(t, f.Format(&buf, FromRecords(testRecords())))
	assert.Equal(t, "2", buf.String())
}

func TestTemplateFormatter_InvalidTemplate(t *testing.T) {
	f := NewTemplateFormatter("{{.Runs")
	err := f.Format(&bytes.Buffer{}, &History{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}
