package rules

import (
	"strings"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/symbols"
)

// hardcodedVisual flags literal colors assigned to theme-backed visual
// properties. Hardcoded values ignore the active host theme and turn
// unreadable the moment the user switches palettes.
func hardcodedVisual() Rule {
	return Rule{
		Code:     diag.RuleHardcodedVisualResource,
		Category: CatTheming,
		Severity: diag.SevInfo,
		Doc:      "literal visual resource assigned to a themed property",
		Match:    matchHardcodedVisual,
	}
}

func matchHardcodedVisual(ctx *Context, n *ast.Node) []Finding {
	if n.Kind != ast.AssignExpr || n.Text != "=" {
		return nil
	}
	target := n.Child(0)
	value := n.Child(1)
	if target == nil || value == nil {
		return nil
	}
	if !symbols.TagsOf(target).Has(symbols.ThemeToken) {
		return nil
	}
	if !isRawVisualValue(value) {
		return nil
	}

	return []Finding{{
		Span: n.Span,
		Message: "hardcoded value for themed property '" + ast.MemberName(target) +
			"'; resolve it from the theme service instead",
		Fixes: []diag.Fix{{
			ID:            diag.RuleHardcodedVisualResource.ID(),
			Title:         "resolve the color from the environment theme",
			Applicability: diag.FixNeedsReview,
			Edits: []diag.TextEdit{{
				Span:    value.Span,
				NewText: "VSColorTheme.GetThemedColor(EnvironmentColors.ToolWindowBackgroundColorKey)",
				OldText: ctx.Text(value.Span),
			}},
		}},
	}}
}

// isRawVisualValue recognizes the hardcoded forms: numeric or string
// literals, named colors ("Color.Red"), and factory calls on the color
// type ("Color.FromArgb(...)").
func isRawVisualValue(n *ast.Node) bool {
	switch n.Kind {
	case ast.Literal:
		return n.Has(ast.LitNumber) || n.Has(ast.LitString)
	case ast.MemberAccess, ast.Ident:
		return hasColorRoot(ast.QualifiedName(n))
	case ast.CallExpr:
		return hasColorRoot(ast.QualifiedName(ast.Callee(n)))
	}
	return false
}

func hasColorRoot(qualified string) bool {
	return strings.HasPrefix(qualified, "Color.") ||
		strings.HasPrefix(qualified, "Colors.") ||
		strings.Contains(qualified, ".Color.") ||
		strings.Contains(qualified, ".Colors.")
}
