package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"extlint/internal/diag"
	"extlint/internal/fix"
	"extlint/internal/source"
)

const sample = "class C\n{\n    void M()\n    {\n        task.Wait();\n    }\n}\n"

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("pkg.cs", []byte(sample)))

	at := strings.Index(sample, "task.Wait()")
	sp := source.Span{File: file.ID, Start: uint32(at), End: uint32(at + len("task.Wait()"))} // #nosec G115

	bag := &diag.Bag{}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.RuleBlockingWaitOnUIThread,
		Message:  "blocking wait inside async entry point",
		Primary:  sp,
		Fixes: []diag.Fix{{
			ID:            "blocking-call-on-affinity-thread",
			Title:         "await the operation",
			Applicability: diag.FixNeedsReview,
			Edits:         []diag.TextEdit{{Span: sp, NewText: "await task", OldText: "task.Wait()"}},
		}},
	})
	bag.Sort()
	return bag, fs
}

func TestJSONRecordShape(t *testing.T) {
	bag, fs := sampleBag(t)
	cats := CategoryIndex{diag.RuleBlockingWaitOnUIThread: "threading"}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, cats, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}

	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Records) != 1 {
		t.Fatalf("output = %+v", out)
	}
	rec := out.Records[0]
	if rec.File != "pkg.cs" || rec.RuleID != "blocking-call-on-affinity-thread" ||
		rec.Category != "threading" || rec.Severity != "error" {
		t.Errorf("record = %+v", rec)
	}
	if rec.StartLine != 5 || rec.StartCol != 9 || !rec.FixAvailable {
		t.Errorf("position = %+v", rec)
	}
}

func TestPrettyReport(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true})
	got := buf.String()

	if !strings.Contains(got, "pkg.cs:5:9: ERROR blocking-call-on-affinity-thread:") {
		t.Errorf("header missing:\n%s", got)
	}
	if !strings.Contains(got, "task.Wait();") {
		t.Errorf("source line missing:\n%s", got)
	}
	if !strings.Contains(got, "^~~~~~~~~~") {
		t.Errorf("caret underline missing:\n%s", got)
	}
	if !strings.Contains(got, "fix (needs-review): await the operation") {
		t.Errorf("fix line missing:\n%s", got)
	}
}

func TestPrettyTruncation(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.RuleHardcodedVisualResource,
		Message:  "second",
		Primary:  source.Span{File: 0, Start: 0, End: 5},
	})
	bag.Sort()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Max: 1})
	if !strings.Contains(buf.String(), "... and 1 more") {
		t.Errorf("truncation marker missing:\n%s", buf.String())
	}
}

func TestSarifMinimal(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifMeta{ToolName: "extlint", ToolVersion: "0.1.0"}); err != nil {
		t.Fatal(err)
	}

	var log map[string]any
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("sarif is not valid JSON: %v", err)
	}
	if log["version"] != "2.1.0" {
		t.Errorf("version = %v", log["version"])
	}
	runs := log["runs"].([]any)
	results := runs[0].(map[string]any)["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %v", results)
	}
	if results[0].(map[string]any)["ruleId"] != "blocking-call-on-affinity-thread" {
		t.Errorf("result = %v", results[0])
	}
}

func TestDiffSummary(t *testing.T) {
	var buf bytes.Buffer
	Diff(&buf, []fix.FileChange{{
		Path:   "pkg.cs",
		Before: []byte("a\nb\nc\n"),
		After:  []byte("a\nB\nc\n"),
	}})
	got := buf.String()
	want := "--- pkg.cs\n+++ pkg.cs\n@@ -2,1 +2,1 @@\n-b\n+B\n"
	if got != want {
		t.Errorf("diff = %q, want %q", got, want)
	}
}

func TestSummaryLine(t *testing.T) {
	bag, _ := sampleBag(t)
	var buf bytes.Buffer
	Summary(&buf, bag, false)
	if !strings.Contains(buf.String(), "1 findings (1 errors, 0 warnings, 0 info)") {
		t.Errorf("summary = %q", buf.String())
	}

	buf.Reset()
	Summary(&buf, &diag.Bag{}, false)
	if !strings.Contains(buf.String(), "no findings") {
		t.Errorf("summary = %q", buf.String())
	}
}
