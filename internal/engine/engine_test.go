package engine_test

import (
	"errors"
	"reflect"
	"testing"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/engine"
	"extlint/internal/parser"
	"extlint/internal/rules"
	"extlint/internal/source"
	"extlint/internal/symbols"
)

const fixture = `
using System.Threading;
using System.Threading.Tasks;
using Microsoft.VisualStudio.Shell;

class Pkg
{
    async Task InitializeAsync(CancellationToken token)
    {
        task.Wait();
        LoadStateAsync();
    }
}
`

func setup(t *testing.T, src string) (*rules.Context, *ast.Node, *rules.Registry) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	file := fs.Get(id)

	root, err := parser.Parse(file, diag.NopReporter{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	symbols.Annotate(root, symbols.Build(root, nil))

	reg, err := rules.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	return &rules.Context{File: file}, root, reg
}

func TestEvaluateDeterministic(t *testing.T) {
	ctx, root, reg := setup(t, fixture)

	var first, second diag.Bag
	if err := engine.Evaluate(ctx, root, reg.All(), &first); err != nil {
		t.Fatal(err)
	}
	if err := engine.Evaluate(ctx, root, reg.All(), &second); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Items(), second.Items()) {
		t.Errorf("two runs differ:\n%v\n%v", first.Items(), second.Items())
	}
	if first.Len() != 2 {
		t.Fatalf("got %d findings, want 2: %v", first.Len(), first.Items())
	}
	// sorted by position: the wait precedes the unobserved call
	if first.Items()[0].Code != diag.RuleBlockingWaitOnUIThread {
		t.Errorf("order = %v", first.Items())
	}
}

func TestEvaluateCleanFile(t *testing.T) {
	ctx, root, reg := setup(t, `
using System.Threading.Tasks;

class Quiet
{
    async Task RunAsync()
    {
        await WorkAsync();
    }
}
`)
	var bag diag.Bag
	if err := engine.Evaluate(ctx, root, reg.All(), &bag); err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 0 {
		t.Errorf("clean file produced %v", bag.Items())
	}
}

func TestEvaluateCategoryFilterExact(t *testing.T) {
	ctx, root, reg := setup(t, fixture)
	set, err := rules.ParseCategorySet([]string{"threading"})
	if err != nil {
		t.Fatal(err)
	}

	var bag diag.Bag
	if err := engine.Evaluate(ctx, root, reg.Enabled(set), &bag); err != nil {
		t.Fatal(err)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.RuleBlockingWaitOnUIThread {
			t.Errorf("disabled category leaked: %v", d)
		}
	}
	if bag.Len() != 1 {
		t.Errorf("got %d findings, want 1", bag.Len())
	}
}

func TestEvaluateExactSpan(t *testing.T) {
	ctx, root, reg := setup(t, fixture)

	var bag diag.Bag
	if err := engine.Evaluate(ctx, root, reg.All(), &bag); err != nil {
		t.Fatal(err)
	}
	d := bag.Items()[0]
	if got := ctx.Text(d.Primary); got != "task.Wait()" {
		t.Errorf("blocking-call span covers %q, want the call expression", got)
	}
}

func TestEvaluateOutOfBoundsSpanIsFatal(t *testing.T) {
	ctx, root, _ := setup(t, fixture)

	rogue := rules.Rule{
		Code:     diag.RuleSyncSleepInAsync,
		Category: rules.CatPerformance,
		Severity: diag.SevWarning,
		Match: func(_ *rules.Context, n *ast.Node) []rules.Finding {
			if n.Kind != ast.File {
				return nil
			}
			return []rules.Finding{{
				Span:    source.Span{File: n.Span.File, Start: 0, End: 1 << 30},
				Message: "bogus",
			}}
		},
	}

	var bag diag.Bag
	err := engine.Evaluate(ctx, root, []rules.Rule{rogue}, &bag)
	var inv *engine.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want *InvariantError", err)
	}
	if bag.Len() != 0 {
		t.Errorf("invariant violation still emitted diagnostics: %v", bag.Items())
	}
}
