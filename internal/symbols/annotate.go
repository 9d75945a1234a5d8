package symbols

import "extlint/internal/ast"

// Annotate resolves every name-bearing node in the tree against the table
// and writes the resulting tag set into Node.Tags. Call and await
// expressions inherit their children's tags so rules can match on the
// outer node directly; the walk is post-order so a child's tags are
// always written before its parent copies them.
func Annotate(root *ast.Node, table *Table) {
	if root == nil {
		return
	}
	for _, child := range root.Children {
		Annotate(child, table)
	}
	switch root.Kind {
	case ast.Ident, ast.MemberAccess, ast.TypeRef, ast.BaseRef:
		root.Tags = uint16(table.Resolve(ast.QualifiedName(root)))
	case ast.Attribute, ast.MethodDecl:
		root.Tags = uint16(table.Resolve(root.Text))
	case ast.CallExpr:
		if callee := ast.Callee(root); callee != nil {
			root.Tags = callee.Tags
		}
	case ast.AwaitExpr:
		if inner := root.Child(0); inner != nil {
			root.Tags = inner.Tags
		}
	}
}

// TagsOf reads a node's annotation back as a typed set.
func TagsOf(n *ast.Node) Tag {
	if n == nil {
		return 0
	}
	return Tag(n.Tags)
}
