package symbols

import (
	"testing"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/parser"
	"extlint/internal/source"
)

func TestResolvePrecedence(t *testing.T) {
	table := newTable()
	table.Register("Custom.Waiter.Hold", BlockingWait)
	table.Register("Waiter.Hold", ServiceLocator)
	table.Register("Hold", ThemeToken)

	cases := []struct {
		name string
		want Tag
	}{
		{"Custom.Waiter.Hold", BlockingWait},
		{"Other.Waiter.Hold", ServiceLocator},
		{"x.Hold", ThemeToken},
		{"Hold", ThemeToken},
		{"Unknown.Name", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := table.Resolve(tc.name); got != tc.want {
			t.Errorf("Resolve(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveAsyncSuffixFallback(t *testing.T) {
	table := newTable()
	if got := table.Resolve("LoadSymbolsAsync"); got != AsyncEntryPoint {
		t.Fatalf("Resolve(LoadSymbolsAsync) = %v, want AsyncEntryPoint", got)
	}
	// the bare word "Async" is not an async-suffixed name
	if got := table.Resolve("Async"); got != 0 {
		t.Fatalf("Resolve(Async) = %v, want none", got)
	}
}

func TestBuildGatesOnUsings(t *testing.T) {
	withShell := parseSource(t, `
using System.Threading.Tasks;
using Microsoft.VisualStudio.Shell;

class C {}
`)
	withoutShell := parseSource(t, `
using System.Threading.Tasks;

class C {}
`)

	shellTable := Build(withShell, nil)
	bareTable := Build(withoutShell, nil)

	if got := shellTable.Resolve("jtf.SwitchToMainThreadAsync"); !got.Has(UiThreadSwitch) {
		t.Errorf("shell table: SwitchToMainThreadAsync = %v, want UiThreadSwitch set", got)
	}
	if got := bareTable.Resolve("pkg.GetService"); got != 0 {
		t.Errorf("bare table: GetService = %v, want none without the shell using", got)
	}
	// core entries stay active either way
	if got := bareTable.Resolve("task.Wait"); got != BlockingWait {
		t.Errorf("bare table: task.Wait = %v, want BlockingWait", got)
	}
}

func TestBuildMergesExtraRegistrations(t *testing.T) {
	root := parseSource(t, "class C {}")
	table := Build(root, map[string]Tag{
		"Legacy.Bridge.Pump": BlockingWait,
		"PumpMessages":       BlockingWait,
	})
	if got := table.Resolve("Legacy.Bridge.Pump"); got != BlockingWait {
		t.Errorf("extra path entry = %v, want BlockingWait", got)
	}
	if got := table.Resolve("host.PumpMessages"); got != BlockingWait {
		t.Errorf("extra member entry = %v, want BlockingWait", got)
	}
}

func TestAnnotateTagsCallsAndAwaits(t *testing.T) {
	root := parseSource(t, `
using System.Threading.Tasks;
using Microsoft.VisualStudio.Shell;

class Pkg
{
    async Task RunAsync()
    {
        await ThreadHelper.JoinableTaskFactory.SwitchToMainThreadAsync();
        var svc = this.GetService(typeof(SVsShell));
        task.Wait();
    }
}
`)
	Annotate(root, Build(root, nil))

	var waitCall, svcCall, awaited *ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		switch {
		case n.Kind == ast.CallExpr && ast.MemberName(n) == "Wait":
			waitCall = n
		case n.Kind == ast.CallExpr && ast.MemberName(n) == "GetService":
			svcCall = n
		case n.Kind == ast.AwaitExpr:
			awaited = n
		}
		return true
	})

	if waitCall == nil || !TagsOf(waitCall).Has(BlockingWait) {
		t.Errorf("Wait call tags = %v, want BlockingWait", TagsOf(waitCall))
	}
	if svcCall == nil || !TagsOf(svcCall).Has(ServiceLocator) {
		t.Errorf("GetService call tags = %v, want ServiceLocator", TagsOf(svcCall))
	}
	if awaited == nil || !TagsOf(awaited).Has(UiThreadSwitch) {
		t.Errorf("await tags = %v, want UiThreadSwitch", TagsOf(awaited))
	}
}

func TestTagString(t *testing.T) {
	if got := (BlockingWait | ServiceLocator).String(); got != "BlockingWait|ServiceLocator" {
		t.Errorf("String() = %q", got)
	}
	if got := Tag(0).String(); got != "none" {
		t.Errorf("zero String() = %q", got)
	}
}

func parseSource(t *testing.T, src string) *ast.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	var bag diag.Bag
	root, err := parser.Parse(fs.Get(id), diag.BagReporter{Bag: &bag})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}
