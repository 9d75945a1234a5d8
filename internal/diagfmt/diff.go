package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"extlint/internal/fix"
)

// Diff writes a unified-diff style summary for every file a fix pass
// changed. Hunks are computed by trimming the common prefix and suffix of
// the two line lists, which is exact for the localized edits rules propose.
func Diff(w io.Writer, changes []fix.FileChange) {
	for _, change := range changes {
		writeFileDiff(w, change)
	}
}

func writeFileDiff(w io.Writer, change fix.FileChange) {
	before := splitLines(string(change.Before))
	after := splitLines(string(change.After))

	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	removed := before[prefix : len(before)-suffix]
	added := after[prefix : len(after)-suffix]
	if len(removed) == 0 && len(added) == 0 {
		return
	}

	fmt.Fprintf(w, "--- %s\n+++ %s\n", change.Path, change.Path)
	fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", prefix+1, len(removed), prefix+1, len(added))
	for _, line := range removed {
		fmt.Fprintf(w, "-%s\n", line)
	}
	for _, line := range added {
		fmt.Fprintf(w, "+%s\n", line)
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
