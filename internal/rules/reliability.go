package rules

import (
	"strings"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/symbols"
)

// unobservedAsync flags statements that start asynchronous work and drop
// the result on the floor.
func unobservedAsync() Rule {
	return Rule{
		Code:     diag.RuleUnobservedAsyncResult,
		Category: CatReliability,
		Severity: diag.SevWarning,
		Doc:      "async operation started and its result discarded",
		Match:    matchUnobservedAsync,
	}
}

func matchUnobservedAsync(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.ExprStmt {
		return nil
	}
	call := n.Child(0)
	if call == nil || call.Kind != ast.CallExpr {
		return nil
	}
	if !symbols.TagsOf(call).Has(symbols.AsyncEntryPoint) {
		return nil
	}

	f := Finding{
		Span: call.Span,
		Message: "result of async call '" + ast.MemberName(call) +
			"' is discarded; await it or forward it to a tracking sink",
	}
	// inserting `await ` is only well-formed inside an async method
	if method := n.Enclosing(ast.MethodDecl); method != nil && method.Has(ast.ModAsync) {
		f.Fixes = append(f.Fixes, diag.Fix{
			ID:            diag.RuleUnobservedAsyncResult.ID(),
			Title:         "await the call",
			Applicability: diag.FixNeedsReview,
			Edits: []diag.TextEdit{{
				Span:    call.Span,
				NewText: "await " + ctx.Text(call.Span),
				OldText: ctx.Text(call.Span),
			}},
		})
	}
	return []Finding{f}
}

// asyncVoidEntry flags `async void` methods wired to external events. An
// exception thrown from one of these tears the host process down; the fix
// turns the signature into the awaitable form.
func asyncVoidEntry() Rule {
	return Rule{
		Code:     diag.RuleAsyncVoidEntry,
		Category: CatReliability,
		Severity: diag.SevError,
		Doc:      "async void event handler cannot surface failures",
		Match:    matchAsyncVoidEntry,
	}
}

func matchAsyncVoidEntry(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.MethodDecl || !n.Has(ast.ModAsync) {
		return nil
	}
	retType := n.FirstChildOfKind(ast.TypeRef)
	if retType == nil || retType.Text != "void" {
		return nil
	}
	if !handlesExternalEvent(n) {
		return nil
	}

	return []Finding{{
		Span: retType.Span,
		Message: "async void handler '" + n.Text +
			"' swallows failures; return Task instead",
		Fixes: []diag.Fix{{
			ID:            diag.RuleAsyncVoidEntry.ID(),
			Title:         "return Task instead of void",
			Applicability: diag.FixAlwaysSafe,
			Edits: []diag.TextEdit{{
				Span:    retType.Span,
				NewText: "Task",
				OldText: ctx.Text(retType.Span),
			}},
		}},
	}}
}

// handlesExternalEvent recognizes the handler shape: an *EventArgs
// parameter, or a method name the registry knows as a command callback.
func handlesExternalEvent(method *ast.Node) bool {
	for _, param := range method.ChildrenOfKind(ast.ParamDecl) {
		if pt := param.FirstChildOfKind(ast.TypeRef); pt != nil &&
			strings.HasSuffix(pt.Text, "EventArgs") {
			return true
		}
	}
	return symbols.Tag(method.Tags).Has(symbols.CommandHandler)
}

// uncheckedService flags dereferences of a service-lookup result with no
// null check between the lookup and the use.
func uncheckedService() Rule {
	return Rule{
		Code:     diag.RuleUncheckedServiceLookup,
		Category: CatReliability,
		Severity: diag.SevWarning,
		Doc:      "service lookup result dereferenced without a null check",
		Match:    matchUncheckedService,
	}
}

func matchUncheckedService(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.MemberAccess || n.Has(ast.NullConditional) {
		return nil
	}
	receiver := ast.Receiver(n)
	if receiver == nil {
		return nil
	}

	// direct chain: GetService(...).Member
	if receiver.Kind == ast.CallExpr && symbols.TagsOf(receiver).Has(symbols.ServiceLocator) {
		return []Finding{{
			Span: n.Span,
			Message: "result of '" + ast.MemberName(receiver) +
				"' dereferenced immediately; it may be null",
		}}
	}

	// variable chain: var svc = GetService(...); ... svc.Member
	if receiver.Kind != ast.Ident {
		return nil
	}
	decl := serviceLookupDecl(receiver.Text, n)
	if decl == nil || nullCheckBetween(receiver.Text, decl, n) {
		return nil
	}
	return []Finding{{
		Span: n.Span,
		Message: "'" + receiver.Text +
			"' comes from a service lookup and may be null here",
		Notes: []diag.Note{{Span: decl.Span, Msg: "looked up here"}},
	}}
}

// serviceLookupDecl finds a preceding declaration of name initialized from
// a service-locator call, searching preceding siblings of every enclosing
// block level.
func serviceLookupDecl(name string, from *ast.Node) *ast.Node {
	for cur := from; cur != nil; cur = cur.Parent {
		if cur.Parent == nil || cur.Parent.Kind != ast.Block {
			continue
		}
		siblings := cur.PrecedingSiblings()
		for i := len(siblings) - 1; i >= 0; i-- {
			stmt := siblings[i]
			if stmt.Kind != ast.LocalDecl || stmt.Text != name {
				continue
			}
			init := stmt.FirstChildOfKind(ast.CallExpr)
			if init == nil {
				if aw := stmt.FirstChildOfKind(ast.AwaitExpr); aw != nil {
					init = aw.FirstChildOfKind(ast.CallExpr)
				}
			}
			if init != nil && symbols.TagsOf(init).Has(symbols.ServiceLocator) {
				return stmt
			}
			return nil // freshest declaration wins, and it is not a lookup
		}
	}
	return nil
}

// nullCheckBetween reports whether a null comparison of name appears in a
// statement after decl and before use, or in the condition of an if the
// use is nested under.
func nullCheckBetween(name string, decl, use *ast.Node) bool {
	for cur := use; cur != nil; cur = cur.Parent {
		if cur.Parent == nil {
			break
		}
		if cur.Parent.Kind == ast.IfStmt && cur.Parent.Child(0) != cur {
			if comparesToNull(cur.Parent.Child(0), name) {
				return true
			}
		}
		if cur.Parent.Kind != ast.Block {
			continue
		}
		for _, stmt := range cur.PrecedingSiblings() {
			if stmt.Span.Start < decl.Span.Start {
				continue
			}
			if comparesToNull(stmt, name) {
				return true
			}
		}
	}
	return false
}

// comparesToNull looks for `name == null` or `name != null` anywhere in
// the subtree.
func comparesToNull(n *ast.Node, name string) bool {
	found := false
	ast.Walk(n, func(c *ast.Node) bool {
		if found {
			return false
		}
		if c.Kind == ast.BinaryExpr && (c.Text == "==" || c.Text == "!=") {
			lhs, rhs := c.Child(0), c.Child(1)
			if isNamed(lhs, name) && isNullLit(rhs) || isNamed(rhs, name) && isNullLit(lhs) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func isNamed(n *ast.Node, name string) bool {
	return n != nil && n.Kind == ast.Ident && n.Text == name
}

func isNullLit(n *ast.Node) bool {
	return n != nil && n.Kind == ast.Literal && n.Has(ast.LitNull)
}
