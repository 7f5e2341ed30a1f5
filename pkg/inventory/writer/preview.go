package writer

import (
	"strings"

	"github.com/siudek-family/media-project/pkg/inventory/report"
)

// Preview prints plans instead of applying them. It never touches the filesystem.
type Preview struct {
	out *report.Printer
}

// NewPreview returns a dry-run sink reporting to out.
func NewPreview(out *report.Printer) *Preview {
	if out == nil {
		out = report.Discard()
	}
	return &Preview{out: out}
}

// Apply prints what a Disk sink would do with plan. The returned Result
// counts would-be creations and skips.
func (p *Preview) Apply(plan *Plan) (Result, error) {
	if plan.Layout == LayoutSingle {
		return p.applySingle(plan), nil
	}
	return p.applyMirror(plan), nil
}

func (p *Preview) applySingle(plan *Plan) Result {
	var res Result
	for _, f := range plan.Files {
		p.out.Dry("Would write inventory to: %s", f.Path)
		p.out.Raw(payloadText(f.Payload))
		res.Created++
	}
	return res
}

func (p *Preview) applyMirror(plan *Plan) Result {
	var res Result
	p.out.Dry("Would create directory: %s", plan.Dir)
	for _, f := range plan.Files {
		if f.Exists {
			p.out.Dry("Would skip existing: %s", f.Path)
			res.Skipped++
			continue
		}
		p.out.Dry("Would write: %s", f.Path)
		p.out.Raw(payloadText(f.Payload))
		res.Created++
	}

	if res.Created > 0 {
		p.out.Dry("Would create %d JSON files", res.Created)
	}
	if res.Skipped > 0 {
		p.out.Dry("Would skip %d existing JSON files", res.Skipped)
	}
	return res
}

func payloadText(b []byte) string {
	return strings.TrimRight(string(b), "\n")
}
