package diagfmt

import (
	"encoding/json"
	"io"

	"extlint/internal/diag"
	"extlint/internal/source"
)

// Record is the stable machine-readable shape of one finding. Field names
// are part of the tool's contract with downstream consumers.
type Record struct {
	File         string `json:"file"`
	RuleID       string `json:"ruleId"`
	Category     string `json:"category,omitempty"`
	Severity     string `json:"severity"`
	StartLine    uint32 `json:"startLine"`
	StartCol     uint32 `json:"startCol"`
	EndLine      uint32 `json:"endLine"`
	EndCol       uint32 `json:"endCol"`
	Message      string `json:"message"`
	FixAvailable bool   `json:"fixAvailable"`
}

// Output is the JSON document root.
type Output struct {
	Records []Record `json:"diagnostics"`
	Count   int      `json:"count"`
}

// CategoryIndex maps rule codes to their category names. Non-rule codes
// (lexer, parser, IO) have no category and render without one.
type CategoryIndex map[diag.Code]string

// BuildOutput assembles the document without serializing it.
func BuildOutput(bag *diag.Bag, fs *source.FileSet, cats CategoryIndex, opts JSONOpts) Output {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	records := make([]Record, 0, len(items))
	for _, d := range items {
		start, end := fs.Resolve(d.Primary)
		path := ""
		if file := fs.Get(d.Primary.File); file != nil {
			path = file.FormatPath(opts.PathMode.formatArg(), fs.BaseDir())
		}
		records = append(records, Record{
			File:         path,
			RuleID:       d.Code.ID(),
			Category:     cats[d.Code],
			Severity:     d.Severity.String(),
			StartLine:    start.Line,
			StartCol:     start.Col,
			EndLine:      end.Line,
			EndCol:       end.Col,
			Message:      d.Message,
			FixAvailable: d.HasFix(),
		})
	}
	return Output{Records: records, Count: len(records)}
}

// JSON writes the document to w, indented.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, cats CategoryIndex, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(bag, fs, cats, opts))
}
