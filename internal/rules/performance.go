package rules

import (
	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/symbols"
)

// syncSleep flags thread sleeps inside async methods. The fix swaps the
// call for an awaited delay with the same arguments.
func syncSleep() Rule {
	return Rule{
		Code:     diag.RuleSyncSleepInAsync,
		Category: CatPerformance,
		Severity: diag.SevWarning,
		Doc:      "thread sleep inside an async method stalls the worker",
		Match:    matchSyncSleep,
	}
}

func matchSyncSleep(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.CallExpr || !symbols.TagsOf(n).Has(symbols.BlockingWait) {
		return nil
	}
	if ast.MemberName(n) != "Sleep" {
		return nil
	}
	method := n.Enclosing(ast.MethodDecl)
	if method == nil || !method.Has(ast.ModAsync) {
		return nil
	}

	f := Finding{
		Span: n.Span,
		Message: "Thread.Sleep stalls a pool thread inside async '" +
			method.Text + "'; use an awaited delay",
	}
	if callee := ast.Callee(n); callee != nil {
		f.Fixes = append(f.Fixes, diag.Fix{
			ID:            diag.RuleSyncSleepInAsync.ID(),
			Title:         "replace with await Task.Delay",
			Applicability: diag.FixAlwaysSafe,
			Edits: []diag.TextEdit{{
				Span:    callee.Span,
				NewText: "await Task.Delay",
				OldText: ctx.Text(callee.Span),
			}},
		})
	}
	return []Finding{f}
}
