package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"extlint/internal/diag"
	"extlint/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

// Pretty writes the human report: diagnostics grouped by file, each with the
// offending source line and a caret underline. The bag is expected to be
// sorted, which already groups entries by file and position.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	var lastFile source.FileID = ^source.FileID(0)
	for _, d := range items {
		if d.Primary.File != lastFile {
			if lastFile != ^source.FileID(0) {
				fmt.Fprintln(w)
			}
			lastFile = d.Primary.File
		}
		writeDiagnostic(w, d, fs, opts)
	}

	if truncated := bag.Len() - len(items); truncated > 0 {
		fmt.Fprintf(w, "\n... and %d more\n", truncated)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	path := "<unknown>"
	if file != nil {
		path = file.FormatPath(opts.PathMode.formatArg(), fs.BaseDir())
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		severityLabel(d.Severity, opts.Color), d.Code.ID(), d.Message)

	if file != nil {
		writeSourceLine(w, file, d.Primary, start, end, opts)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteStart, _ := fs.Resolve(note.Span)
			notePath := path
			if nf := fs.Get(note.Span.File); nf != nil {
				notePath = nf.FormatPath(opts.PathMode.formatArg(), fs.BaseDir())
			}
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", notePath, noteStart.Line, noteStart.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			fmt.Fprintf(w, "  fix (%s): %s\n", f.Applicability, f.Title)
		}
	}
}

// writeSourceLine prints the first line the span touches with a caret
// underline. Width is measured in display cells so tabs and wide runes keep
// the carets aligned.
func writeSourceLine(w io.Writer, file *source.File, sp source.Span, start, end source.LineCol, opts PrettyOpts) {
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, strings.ReplaceAll(line, "\t", "    "))

	prefix := line[:min(int(start.Col)-1, len(line))]
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))

	underLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		covered := line[min(int(start.Col)-1, len(line)):min(int(end.Col)-1, len(line))]
		underLen = max(1, runewidth.StringWidth(covered))
	}
	marks := "^" + strings.Repeat("~", underLen-1)
	if opts.Color {
		marks = errColor.Sprint(marks)
	}
	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", len(gutter)-2)+"| ", strings.Repeat(" ", pad), marks)
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := strings.ToUpper(sev.String())
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return errColor.Sprint(label)
	case diag.SevWarning:
		return warnColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}

// Summary writes the one-line closing tally.
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	if bag.Len() == 0 {
		msg := "no findings"
		if colored {
			msg = dimColor.Sprint(msg)
		}
		fmt.Fprintln(w, msg)
		return
	}
	errs := bag.CountAtLeast(diag.SevError)
	warns := bag.CountAtLeast(diag.SevWarning) - errs
	infos := bag.Len() - errs - warns
	fmt.Fprintf(w, "%d findings (%d errors, %d warnings, %d info)\n",
		bag.Len(), errs, warns, infos)
}
