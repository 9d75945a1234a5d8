package fix_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"extlint/internal/diag"
	"extlint/internal/engine"
	"extlint/internal/fix"
	"extlint/internal/parser"
	"extlint/internal/rules"
	"extlint/internal/source"
	"extlint/internal/symbols"
)

const sleepFixture = `
using System.Threading;
using System.Threading.Tasks;

class Poller
{
    async Task PollAsync()
    {
        Thread.Sleep(500);
    }
}
`

// runAnalysis parses, annotates and evaluates src on a fresh file set.
func runAnalysis(t *testing.T, src []byte) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("poller.cs", src))

	root, err := parser.Parse(file, diag.NopReporter{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	symbols.Annotate(root, symbols.Build(root, nil))

	reg, err := rules.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	var bag diag.Bag
	if err := engine.Evaluate(&rules.Context{File: file}, root, reg.All(), &bag); err != nil {
		t.Fatal(err)
	}
	return fs, bag.Items()
}

func TestApplySleepFixConverges(t *testing.T) {
	fs, items := runAnalysis(t, []byte(sleepFixture))

	result, err := fix.Apply(fs, items, fix.Options{DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 || len(result.Conflicts) != 0 {
		t.Fatalf("result = %+v", result)
	}
	after := result.Files[0].After
	if !bytes.Contains(after, []byte("await Task.Delay(500)")) {
		t.Fatalf("patched text:\n%s", after)
	}

	// the fix removes its own finding, so a second pass has nothing to do
	fs2, items2 := runAnalysis(t, after)
	for _, d := range items2 {
		if d.Code == diag.RuleSyncSleepInAsync {
			t.Fatalf("fix did not remove the finding: %v", d)
		}
	}
	if _, err := fix.Apply(fs2, items2, fix.Options{DryRun: true}); !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("second pass err = %v, want ErrNoFixes", err)
	}
}

func TestAsyncVoidFixRemovesFinding(t *testing.T) {
	src := []byte(`
using System.Threading.Tasks;

class Handlers
{
    private async void OnSaved(object sender, FileSavedEventArgs e)
    {
        await FlushAsync();
    }
}
`)
	fs, items := runAnalysis(t, src)
	result, err := fix.Apply(fs, items, fix.Options{DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	after := result.Files[0].After
	if !bytes.Contains(after, []byte("async Task OnSaved")) {
		t.Fatalf("patched text:\n%s", after)
	}

	_, items2 := runAnalysis(t, after)
	for _, d := range items2 {
		if d.Code == diag.RuleAsyncVoidEntry {
			t.Fatalf("signature fix did not remove the finding: %v", d)
		}
	}
}

// edit builds a single-edit always-safe fix proposal for tests.
func editFix(id string, sp source.Span, oldText, newText string) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.RuleSyncSleepInAsync,
		Message:  "test finding",
		Primary:  sp,
		Fixes: []diag.Fix{{
			ID:            id,
			Title:         id,
			Applicability: diag.FixAlwaysSafe,
			Edits:         []diag.TextEdit{{Span: sp, OldText: oldText, NewText: newText}},
		}},
	}
}

const twoFieldFixture = "class C { int alpha; int omega; }"

func fieldSpan(t *testing.T, file *source.File, name string) source.Span {
	t.Helper()
	at := strings.Index(twoFieldFixture, name)
	if at < 0 {
		t.Fatalf("%q not in fixture", name)
	}
	return source.Span{File: file.ID, Start: uint32(at), End: uint32(at + len(name))} // #nosec G115
}

func TestApplyOrderIndependent(t *testing.T) {
	makeEdits := func() (*source.FileSet, []diag.Diagnostic) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("c.cs", []byte(twoFieldFixture)))
		return fs, []diag.Diagnostic{
			editFix("rename-alpha", fieldSpan(t, file, "alpha"), "alpha", "first"),
			editFix("rename-omega", fieldSpan(t, file, "omega"), "omega", "second"),
		}
	}

	fs1, fwd := makeEdits()
	r1, err := fix.Apply(fs1, fwd, fix.Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	fs2, rev := makeEdits()
	rev[0], rev[1] = rev[1], rev[0]
	r2, err := fix.Apply(fs2, rev, fix.Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r1.Files[0].After, r2.Files[0].After) {
		t.Errorf("order changed the outcome:\n%s\n%s", r1.Files[0].After, r2.Files[0].After)
	}
	if want := "class C { int first; int second; }"; string(r1.Files[0].After) != want {
		t.Errorf("patched = %q, want %q", r1.Files[0].After, want)
	}
}

func TestOverlappingProposalSkipped(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.cs", []byte(twoFieldFixture)))
	alpha := fieldSpan(t, file, "alpha")
	wider := source.Span{File: file.ID, Start: alpha.Start, End: alpha.End + 1}

	result, err := fix.Apply(fs, []diag.Diagnostic{
		editFix("narrow", alpha, "alpha", "first"),
		editFix("wide", wider, "alpha;", "second;"),
	}, fix.Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 || result.Applied[0].RuleID != "narrow" {
		t.Fatalf("applied = %+v", result.Applied)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0].Reason, "overlaps") {
		t.Fatalf("skipped = %+v", result.Skipped)
	}
}

func TestStaleOldTextGuard(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.cs", []byte(twoFieldFixture)))

	result, err := fix.Apply(fs, []diag.Diagnostic{
		editFix("stale", fieldSpan(t, file, "alpha"), "beta", "first"),
	}, fix.Options{DryRun: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0].Reason, "changed since analysis") {
		t.Fatalf("skipped = %+v", result.Skipped)
	}
}

func TestBrokenPatchRollsBackFile(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.cs", []byte(twoFieldFixture)))

	result, err := fix.Apply(fs, []diag.Diagnostic{
		// an unterminated string makes the patched file fail to parse
		editFix("breaker", fieldSpan(t, file, "alpha"), "alpha", "\"broken"),
	}, fix.Options{DryRun: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes after rollback", err)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
	if len(result.Applied) != 0 || len(result.Files) != 0 {
		t.Fatalf("rolled-back file still produced changes: %+v", result)
	}
}

func TestApplicabilityThreshold(t *testing.T) {
	fs, items := runAnalysis(t, []byte(`
using System.Threading;
using System.Threading.Tasks;

class Pkg
{
    async Task InitializeAsync(CancellationToken token)
    {
        task.Wait();
    }
}
`))
	// the wait rewrite needs review, so the default level leaves it alone
	_, err := fix.Apply(fs, items, fix.Options{DryRun: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("default level applied a needs-review fix: %v", err)
	}

	result, err := fix.Apply(fs, items, fix.Options{
		DryRun:           true,
		MaxApplicability: diag.FixNeedsReview,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("applied = %+v", result.Applied)
	}
	if !bytes.Contains(result.Files[0].After, []byte("await task;")) {
		t.Fatalf("patched:\n%s", result.Files[0].After)
	}
}
