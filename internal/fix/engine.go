// Package fix applies the edits proposed by analysis rules.
//
// Edits are staged per file, validated against the original text, and
// applied in descending span order so earlier offsets stay stable without
// delta bookkeeping. Proposals whose spans overlap an already accepted one
// are skipped and reported, never silently dropped. The patched buffer must
// still parse; a file that stops parsing rolls back every edit staged for
// it and surfaces a FixConflictError for that file.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"extlint/internal/diag"
	"extlint/internal/parser"
	"extlint/internal/source"
)

// ErrNoFixes is returned when nothing was applicable.
var ErrNoFixes = errors.New("no applicable fixes found")

// FixConflictError reports a file whose staged edits were rolled back.
type FixConflictError struct {
	Path   string
	Reason string
}

func (e *FixConflictError) Error() string {
	return fmt.Sprintf("fixes for %s rolled back: %s", e.Path, e.Reason)
}

// Options selects and scopes a fix pass.
type Options struct {
	// DryRun stages and validates everything but writes nothing.
	DryRun bool
	// MaxApplicability admits fixes at or below this confidence level.
	// The zero value admits only always-safe fixes.
	MaxApplicability diag.FixApplicability
	// RuleID, when non-empty, restricts the pass to one rule's fixes.
	RuleID string
}

// Applied records one successfully staged fix.
type Applied struct {
	RuleID        string
	Title         string
	Code          diag.Code
	Path          string
	Applicability diag.FixApplicability
	EditCount     int
}

// Skipped records one fix that was not applied and why.
type Skipped struct {
	RuleID string
	Title  string
	Path   string
	Reason string
}

// FileChange holds the before and after content of one patched file.
type FileChange struct {
	File      source.FileID
	Path      string
	Before    []byte
	After     []byte
	EditCount int
}

// Result aggregates one fix pass.
type Result struct {
	Applied   []Applied
	Skipped   []Skipped
	Files     []FileChange
	Conflicts []*FixConflictError
}

type candidate struct {
	diag diag.Diagnostic
	fix  diag.Fix
}

// Apply stages every admissible fix from diagnostics, validates the patched
// files by reparsing them, and writes the survivors to disk unless DryRun
// is set. The error return is reserved for I/O failure; per-file rollbacks
// land in Result.Conflicts.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	if fs == nil {
		return nil, fmt.Errorf("fix: nil file set")
	}
	result := &Result{}

	perFile := make(map[source.FileID][]candidate)
	admitted := 0
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			if opts.RuleID != "" && f.ID != opts.RuleID {
				continue
			}
			if f.Applicability > opts.MaxApplicability {
				result.Skipped = append(result.Skipped, Skipped{
					RuleID: f.ID,
					Title:  f.Title,
					Path:   pathOf(fs, d.Primary.File),
					Reason: "applicability " + f.Applicability.String() + " exceeds the admitted level",
				})
				continue
			}
			id := d.Primary.File
			perFile[id] = append(perFile[id], candidate{diag: d, fix: f})
			admitted++
		}
	}
	if admitted == 0 {
		return result, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(perFile))
	for id := range perFile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		result.patchFile(fs, id, perFile[id])
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	if opts.DryRun {
		return result, nil
	}
	if err := writeChanges(fs, result.Files); err != nil {
		return result, err
	}
	return result, nil
}

// patchFile stages one file's candidates and validates the result.
func (result *Result) patchFile(fs *source.FileSet, id source.FileID, cands []candidate) {
	file := fs.Get(id)
	if file == nil {
		return
	}
	path := file.FormatPath("auto", fs.BaseDir())

	// deterministic staging order: position, then rule id
	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := cands[i].diag.Primary, cands[j].diag.Primary
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		return cands[i].fix.ID < cands[j].fix.ID
	})

	var accepted []candidate
	var acceptedEdits []diag.TextEdit
	for _, cand := range cands {
		if reason := vetCandidate(file, acceptedEdits, cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, Skipped{
				RuleID: cand.fix.ID,
				Title:  cand.fix.Title,
				Path:   path,
				Reason: reason,
			})
			continue
		}
		accepted = append(accepted, cand)
		acceptedEdits = append(acceptedEdits, cand.fix.Edits...)
	}
	if len(accepted) == 0 {
		return
	}

	patched := splice(file.Content, acceptedEdits)

	// the patched file must still be structurally valid
	checkSet := source.NewFileSet()
	check := checkSet.Get(checkSet.AddVirtual(file.Path, patched))
	if _, err := parser.Parse(check, diag.NopReporter{}); err != nil {
		result.Conflicts = append(result.Conflicts, &FixConflictError{
			Path:   path,
			Reason: fmt.Sprintf("patched file no longer parses: %v", err),
		})
		for _, cand := range accepted {
			result.Skipped = append(result.Skipped, Skipped{
				RuleID: cand.fix.ID,
				Title:  cand.fix.Title,
				Path:   path,
				Reason: "rolled back with the file's batch",
			})
		}
		return
	}

	for _, cand := range accepted {
		result.Applied = append(result.Applied, Applied{
			RuleID:        cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Path:          path,
			Applicability: cand.fix.Applicability,
			EditCount:     len(cand.fix.Edits),
		})
	}
	result.Files = append(result.Files, FileChange{
		File:      id,
		Path:      path,
		Before:    append([]byte(nil), file.Content...),
		After:     patched,
		EditCount: len(acceptedEdits),
	})
}

// vetCandidate checks bounds, overlap against already accepted edits, and
// the OldText guards. Returns "" when the candidate is safe to stage.
func vetCandidate(file *source.File, accepted []diag.TextEdit, edits []diag.TextEdit) string {
	limit := uint32(len(file.Content)) // #nosec G115
	for _, edit := range edits {
		if edit.Span.File != file.ID {
			return "edit targets a different file"
		}
		if edit.Span.Start > edit.Span.End || edit.Span.End > limit {
			return "edit span out of range"
		}
		if edit.OldText != "" &&
			string(file.Content[edit.Span.Start:edit.Span.End]) != edit.OldText {
			return "text under the edit changed since analysis"
		}
		for _, prev := range accepted {
			if prev.Span.Overlaps(edit.Span) {
				return "overlaps an already accepted edit"
			}
		}
	}
	// edits within one fix must not overlap each other either
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if edits[i].Span.Overlaps(edits[j].Span) {
				return "fix proposes overlapping edits"
			}
		}
	}
	return ""
}

// splice applies non-overlapping edits in descending start order.
func splice(content []byte, edits []diag.TextEdit) []byte {
	ordered := append([]diag.TextEdit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Span.Start > ordered[j].Span.Start
	})
	out := append([]byte(nil), content...)
	for _, edit := range ordered {
		tail := append([]byte(nil), out[edit.Span.End:]...)
		out = append(append(out[:edit.Span.Start], edit.NewText...), tail...)
	}
	return out
}

// writeChanges flushes patched buffers to disk, one file at a time.
// Virtual files (tests, stdin) are kept in memory only.
func writeChanges(fs *source.FileSet, changes []FileChange) error {
	for _, change := range changes {
		file := fs.Get(change.File)
		if file == nil || file.Flags&source.FileVirtual != 0 {
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, change.After, mode); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
	}
	return nil
}

func pathOf(fs *source.FileSet, id source.FileID) string {
	if file := fs.Get(id); file != nil {
		return file.FormatPath("auto", fs.BaseDir())
	}
	return ""
}
