package rules

import (
	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/symbols"
)

// blockingAffinity flags synchronous joins on asynchronous work inside an
// async entry point that has not switched to the main thread first. A
// dominating switch call in a preceding statement of any enclosing block
// suppresses the finding.
func blockingAffinity() Rule {
	return Rule{
		Code:     diag.RuleBlockingWaitOnUIThread,
		Category: CatThreading,
		Severity: diag.SevError,
		Doc:      "synchronous wait on async work inside an async entry point",
		Match:    matchBlockingAffinity,
	}
}

func matchBlockingAffinity(ctx *Context, n *ast.Node) []Finding {
	if !isBlockingUse(n) {
		return nil
	}
	// sleeps have their own rule
	if ast.MemberName(n) == "Sleep" {
		return nil
	}
	method := n.Enclosing(ast.MethodDecl)
	if method == nil || !isAsyncEntry(method) {
		return nil
	}
	if dominatedByThreadSwitch(n) {
		return nil
	}

	f := Finding{
		Span: n.Span,
		Message: "blocking wait '" + ast.MemberName(n) +
			"' inside async entry point '" + method.Text + "'",
		Notes: []diag.Note{{
			Span: method.Span,
			Msg:  "entry point declared here; await the operation instead of blocking",
		}},
	}
	if fix, ok := awaitingRewrite(ctx, n); ok {
		f.Fixes = append(f.Fixes, fix)
	}
	return []Finding{f}
}

// isBlockingUse accepts a blocking call, or a blocking property access that
// is not itself the callee of a call (the call node owns that finding).
func isBlockingUse(n *ast.Node) bool {
	if !symbols.TagsOf(n).Has(symbols.BlockingWait) {
		return false
	}
	switch n.Kind {
	case ast.CallExpr:
		return true
	case ast.MemberAccess:
		parent := n.Parent
		return parent == nil || parent.Kind != ast.CallExpr || ast.Callee(parent) != n
	}
	return false
}

// isAsyncEntry reports whether the method is asynchronous context: declared
// async, or carrying a known async entry name.
func isAsyncEntry(method *ast.Node) bool {
	return method.Has(ast.ModAsync) || symbols.Tag(method.Tags).Has(symbols.AsyncEntryPoint)
}

// dominatedByThreadSwitch scans preceding statements of every enclosing
// block for a main-thread switch. Flow-insensitive: a switch anywhere
// earlier in the block counts.
func dominatedByThreadSwitch(n *ast.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == nil || cur.Parent.Kind != ast.Block {
			continue
		}
		for _, stmt := range cur.PrecedingSiblings() {
			if containsThreadSwitch(stmt) {
				return true
			}
		}
	}
	return false
}

func containsThreadSwitch(n *ast.Node) bool {
	found := false
	ast.Walk(n, func(c *ast.Node) bool {
		if symbols.TagsOf(c).Has(symbols.UiThreadSwitch) {
			found = true
		}
		return !found
	})
	return found
}

// awaitingRewrite maps the known blocking forms to their awaiting
// equivalents: `x.Wait()` and `x.GetResult()` become `await x`, `x.Result`
// becomes `(await x)`.
func awaitingRewrite(ctx *Context, n *ast.Node) (diag.Fix, bool) {
	member := ast.MemberName(n)
	var receiver *ast.Node
	switch n.Kind {
	case ast.CallExpr:
		receiver = ast.Receiver(ast.Callee(n))
	case ast.MemberAccess:
		receiver = ast.Receiver(n)
	}
	if receiver == nil {
		return diag.Fix{}, false
	}
	recvText := ctx.Text(receiver.Span)
	if recvText == "" {
		return diag.Fix{}, false
	}

	var newText string
	switch member {
	case "Wait", "GetResult":
		newText = "await " + recvText
	case "Result":
		newText = "(await " + recvText + ")"
	default:
		return diag.Fix{}, false
	}
	return diag.Fix{
		ID:            diag.RuleBlockingWaitOnUIThread.ID(),
		Title:         "await the operation instead of blocking",
		Applicability: diag.FixNeedsReview,
		Edits: []diag.TextEdit{{
			Span:    n.Span,
			NewText: newText,
			OldText: ctx.Text(n.Span),
		}},
	}, true
}
