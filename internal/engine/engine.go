// Package engine runs the rule set over one annotated tree.
package engine

import (
	"fmt"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/rules"
	"extlint/internal/source"
)

// InvariantError reports a broken internal invariant: a finding outside its
// file's bounds. It is never downgraded to a diagnostic.
type InvariantError struct {
	Rule string
	Span source.Span
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rule %s produced out-of-bounds span %s", e.Rule, e.Span)
}

// Evaluate walks the tree once in depth-first pre-order and tests every
// rule at every node. Findings land in the bag; the bag is sorted before
// return, so output is deterministic regardless of matcher internals.
func Evaluate(ctx *rules.Context, root *ast.Node, active []rules.Rule, bag *diag.Bag) error {
	var invErr *InvariantError
	limit := uint32(len(ctx.File.Content)) // #nosec G115

	ast.Walk(root, func(n *ast.Node) bool {
		if invErr != nil {
			return false
		}
		for _, rule := range active {
			for _, f := range rule.Match(ctx, n) {
				if f.Span.End > limit || f.Span.Start > f.Span.End {
					invErr = &InvariantError{Rule: rule.ID(), Span: f.Span}
					return false
				}
				bag.Add(diag.Diagnostic{
					Severity: rule.Severity,
					Code:     rule.Code,
					Message:  f.Message,
					Primary:  f.Span,
					Notes:    f.Notes,
					Fixes:    f.Fixes,
				})
			}
		}
		return true
	})

	if invErr != nil {
		return invErr
	}
	bag.Sort()
	return nil
}
