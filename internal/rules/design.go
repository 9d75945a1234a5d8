package rules

import (
	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/symbols"
)

// unexportedHandler flags classes that declare command callbacks without a
// composition export, so the host never discovers them.
func unexportedHandler() Rule {
	return Rule{
		Code:     diag.RuleUnexportedCommandHandler,
		Category: CatDesign,
		Severity: diag.SevWarning,
		Doc:      "command handler type missing a composition export",
		Match:    matchUnexportedHandler,
	}
}

func matchUnexportedHandler(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.ClassDecl {
		return nil
	}
	for _, attr := range n.ChildrenOfKind(ast.Attribute) {
		if symbols.TagsOf(attr).Has(symbols.MefExport) {
			return nil
		}
	}

	var handler *ast.Node
	for _, method := range n.ChildrenOfKind(ast.MethodDecl) {
		if symbols.Tag(method.Tags).Has(symbols.CommandHandler) {
			handler = method
			break
		}
	}
	if handler == nil {
		return nil
	}

	return []Finding{{
		Span: handler.Span,
		Message: "'" + n.Text + "' declares command handler '" + handler.Text +
			"' but carries no export attribute; the host will not compose it",
	}}
}
