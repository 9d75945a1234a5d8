package diag

import (
	"extlint/internal/source"
)

// Note is a secondary span with context for a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixApplicability is the confidence level of an automated fix.
type FixApplicability uint8

const (
	// FixAlwaysSafe edits are mechanical rewrites that preserve behaviour.
	FixAlwaysSafe FixApplicability = iota
	// FixNeedsReview edits are plausible but require a human decision.
	FixNeedsReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixAlwaysSafe:
		return "always-safe"
	case FixNeedsReview:
		return "needs-review"
	}
	return "unknown"
}

// TextEdit replaces the text of Span with NewText. OldText, when non-empty,
// is a guard: the fix engine refuses the edit if the current text differs.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a proposed automated correction: an ordered list of non-overlapping
// edits scoped to one file.
type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	Edits         []TextEdit
}

// Diagnostic is one finding. Immutable once emitted.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// HasFix reports whether the diagnostic carries at least one non-empty fix.
func (d Diagnostic) HasFix() bool {
	for _, f := range d.Fixes {
		if len(f.Edits) > 0 {
			return true
		}
	}
	return false
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
