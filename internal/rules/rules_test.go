package rules_test

import (
	"errors"
	"strings"
	"testing"

	"extlint/internal/diag"
	"extlint/internal/engine"
	"extlint/internal/parser"
	"extlint/internal/rules"
	"extlint/internal/source"
	"extlint/internal/symbols"
)

// analyze parses, annotates and evaluates one snippet with every builtin
// rule enabled.
func analyze(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	file := fs.Get(id)

	var bag diag.Bag
	root, err := parser.Parse(file, diag.BagReporter{Bag: &bag})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("fixture does not parse cleanly: %v", bag.Items())
	}
	symbols.Annotate(root, symbols.Build(root, nil))

	reg, err := rules.Builtin()
	if err != nil {
		t.Fatalf("builtin registry: %v", err)
	}
	ctx := &rules.Context{File: file}
	if err := engine.Evaluate(ctx, root, reg.All(), &bag); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return bag.Items()
}

func codesOf(items []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

func onlyCode(t *testing.T, items []diag.Diagnostic, code diag.Code) diag.Diagnostic {
	t.Helper()
	var found []diag.Diagnostic
	for _, d := range items {
		if d.Code == code {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		t.Fatalf("want exactly one %s, got %v", code, codesOf(items))
	}
	return found[0]
}

const header = `
using System.Threading;
using System.Threading.Tasks;
using Microsoft.VisualStudio.Shell;
`

func TestBlockingWaitInAsyncEntry(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    async Task InitializeAsync(CancellationToken token)
    {
        task.Wait();
    }
}
`)
	d := onlyCode(t, items, diag.RuleBlockingWaitOnUIThread)
	if d.Severity != diag.SevError {
		t.Errorf("severity = %v", d.Severity)
	}
	if !d.HasFix() {
		t.Error("wait rewrite fix missing")
	}
	if got := d.Fixes[0].Edits[0].NewText; got != "await task" {
		t.Errorf("fix text = %q", got)
	}
}

func TestBlockingWaitSuppressedByThreadSwitch(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    async Task InitializeAsync(CancellationToken token)
    {
        await ThreadHelper.JoinableTaskFactory.SwitchToMainThreadAsync();
        task.Wait();
    }
}
`)
	for _, d := range items {
		if d.Code == diag.RuleBlockingWaitOnUIThread {
			t.Fatalf("dominated wait still reported: %v", d)
		}
	}
}

func TestBlockingResultProperty(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    async Task RunAsync()
    {
        var value = task.Result;
    }
}
`)
	d := onlyCode(t, items, diag.RuleBlockingWaitOnUIThread)
	if got := d.Fixes[0].Edits[0].NewText; got != "(await task)" {
		t.Errorf("fix text = %q", got)
	}
}

func TestBlockingWaitOutsideAsyncNotReported(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    void Shutdown()
    {
        task.Wait();
    }
}
`)
	for _, d := range items {
		if d.Code == diag.RuleBlockingWaitOnUIThread {
			t.Fatalf("sync method wait reported: %v", d)
		}
	}
}

func TestUnobservedAsyncResult(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    async Task RunAsync()
    {
        LoadStateAsync();
        await SaveStateAsync();
    }
}
`)
	d := onlyCode(t, items, diag.RuleUnobservedAsyncResult)
	if !strings.Contains(d.Message, "LoadStateAsync") {
		t.Errorf("message = %q", d.Message)
	}
	if !d.HasFix() || d.Fixes[0].Edits[0].NewText != "await LoadStateAsync()" {
		t.Errorf("fix = %+v", d.Fixes)
	}
}

func TestAsyncVoidEntry(t *testing.T) {
	items := analyze(t, header+`
class Handlers
{
    [Export]
    private async void OnSaved(object sender, FileSavedEventArgs e)
    {
        await FlushAsync();
    }
}
`)
	d := onlyCode(t, items, diag.RuleAsyncVoidEntry)
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "Task" || edit.OldText != "void" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestAsyncVoidWithoutEventShapeNotReported(t *testing.T) {
	items := analyze(t, header+`
class Handlers
{
    private async void Fire()
    {
        await FlushAsync();
    }
}
`)
	for _, d := range items {
		if d.Code == diag.RuleAsyncVoidEntry {
			t.Fatalf("plain async void reported as handler: %v", d)
		}
	}
}

func TestUncheckedServiceLookup(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    void Use()
    {
        var shell = this.GetService(typeof(SVsShell));
        shell.Activate();
    }
}
`)
	d := onlyCode(t, items, diag.RuleUncheckedServiceLookup)
	if len(d.Notes) == 0 {
		t.Error("lookup site note missing")
	}
}

func TestServiceLookupGuardSuppresses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"if guard", `
        var shell = this.GetService(typeof(SVsShell));
        if (shell == null)
        {
            return;
        }
        shell.Activate();`},
		{"null conditional", `
        var shell = this.GetService(typeof(SVsShell));
        shell?.Activate();`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := analyze(t, header+"class Pkg { void Use() {"+tc.body+"} }")
			for _, d := range items {
				if d.Code == diag.RuleUncheckedServiceLookup {
					t.Fatalf("guarded lookup reported: %v", d)
				}
			}
		})
	}
}

func TestHardcodedVisualResource(t *testing.T) {
	items := analyze(t, `
using System.Windows.Forms;

class ToolWindowPane
{
    void Style()
    {
        panel.BackColor = Color.FromArgb(37, 37, 38);
    }
}
`)
	d := onlyCode(t, items, diag.RuleHardcodedVisualResource)
	if d.Severity != diag.SevInfo {
		t.Errorf("severity = %v", d.Severity)
	}
	if !d.HasFix() {
		t.Error("theme suggestion fix missing")
	}
}

func TestThemedAssignmentNotReported(t *testing.T) {
	items := analyze(t, `
using System.Windows.Forms;

class ToolWindowPane
{
    void Style()
    {
        panel.BackColor = VSColorTheme.GetThemedColor(key);
    }
}
`)
	for _, d := range items {
		if d.Code == diag.RuleHardcodedVisualResource {
			t.Fatalf("themed lookup reported: %v", d)
		}
	}
}

func TestSyncSleepInAsync(t *testing.T) {
	items := analyze(t, header+`
class Pkg
{
    async Task PollAsync()
    {
        Thread.Sleep(500);
    }
}
`)
	d := onlyCode(t, items, diag.RuleSyncSleepInAsync)
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "await Task.Delay" || edit.OldText != "Thread.Sleep" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestUnexportedCommandHandler(t *testing.T) {
	items := analyze(t, header+`
class SaveAllCommand
{
    private void Execute(object sender, EventArgs e)
    {
    }
}
`)
	onlyCode(t, items, diag.RuleUnexportedCommandHandler)

	exported := analyze(t, `
using System.ComponentModel.Composition;
using Microsoft.VisualStudio.Shell;

[Export]
class SaveAllCommand
{
    private void Execute(object sender, EventArgs e)
    {
    }
}
`)
	for _, d := range exported {
		if d.Code == diag.RuleUnexportedCommandHandler {
			t.Fatalf("exported handler reported: %v", d)
		}
	}
}

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	reg, err := rules.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	dup := append([]rules.Rule{}, reg.All()...)
	dup = append(dup, reg.All()[0])

	_, err = rules.NewRegistry(dup...)
	var loadErr *rules.RuleLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *RuleLoadError", err)
	}
	if loadErr.ID != reg.All()[0].ID() {
		t.Errorf("duplicate id = %q", loadErr.ID)
	}
}

func TestCategorySetFiltering(t *testing.T) {
	reg, err := rules.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	set, err := rules.ParseCategorySet([]string{"threading", "Theming"})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range reg.Enabled(set) {
		if r.Category != rules.CatThreading && r.Category != rules.CatTheming {
			t.Errorf("rule %s leaked through filter", r.ID())
		}
	}
	if len(reg.Enabled(set)) != 2 {
		t.Errorf("enabled = %d, want 2", len(reg.Enabled(set)))
	}

	if _, err := rules.ParseCategorySet([]string{"styling"}); err == nil {
		t.Error("unknown category accepted")
	}
}

func TestFingerprintStable(t *testing.T) {
	a, _ := rules.Builtin()
	b, _ := rules.Builtin()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint not deterministic")
	}
	subset, err := rules.NewRegistry(a.All()[:3]...)
	if err != nil {
		t.Fatal(err)
	}
	if subset.Fingerprint() == a.Fingerprint() {
		t.Error("fingerprint ignores set membership")
	}
}
