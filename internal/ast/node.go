// Package ast models the analyzed extension source as a strict tree of
// generic nodes. Every node carries a kind, a byte span, ordered children,
// and a non-owning parent back-reference used only for upward traversal.
package ast

import (
	"extlint/internal/source"
)

// Kind enumerates node shapes.
type Kind uint8

const (
	Bad Kind = iota
	File
	UsingDecl
	NamespaceDecl
	Attribute
	ClassDecl
	BaseRef
	MethodDecl
	FieldDecl
	ParamDecl
	TypeRef
	Block
	LocalDecl
	ExprStmt
	IfStmt
	ReturnStmt
	ThrowStmt
	AssignExpr
	BinaryExpr
	UnaryExpr
	CallExpr
	MemberAccess
	AwaitExpr
	NewExpr
	TypeofExpr
	Ident
	Literal
)

var kindNames = [...]string{
	Bad:           "Bad",
	File:          "File",
	UsingDecl:     "UsingDecl",
	NamespaceDecl: "NamespaceDecl",
	Attribute:     "Attribute",
	ClassDecl:     "ClassDecl",
	BaseRef:       "BaseRef",
	MethodDecl:    "MethodDecl",
	FieldDecl:     "FieldDecl",
	ParamDecl:     "ParamDecl",
	TypeRef:       "TypeRef",
	Block:         "Block",
	LocalDecl:     "LocalDecl",
	ExprStmt:      "ExprStmt",
	IfStmt:        "IfStmt",
	ReturnStmt:    "ReturnStmt",
	ThrowStmt:     "ThrowStmt",
	AssignExpr:    "AssignExpr",
	BinaryExpr:    "BinaryExpr",
	UnaryExpr:     "UnaryExpr",
	CallExpr:      "CallExpr",
	MemberAccess:  "MemberAccess",
	AwaitExpr:     "AwaitExpr",
	NewExpr:       "NewExpr",
	TypeofExpr:    "TypeofExpr",
	Ident:         "Ident",
	Literal:       "Literal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// Flags carry modifiers and literal classes on a node.
type Flags uint16

const (
	ModPublic Flags = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModStatic
	ModSealed
	ModOverride
	ModAsync
	// NullConditional marks a "?." member access, which also counts as a
	// presence guard for service-lookup analysis.
	NullConditional
	LitString
	LitNumber
	LitBool
	LitNull
	LitChar
)

// Node is one tree node. Children are owned; Parent is a back-reference and
// never participates in ownership.
type Node struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Flags    Flags
	Children []*Node
	Parent   *Node

	// Tags is an opaque bitset written by the symbols annotator.
	Tags uint16
}

// New allocates a node.
func New(kind Kind, span source.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// AddChild appends a child and wires its parent link.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Has reports whether all given flags are set.
func (n *Node) Has(flags Flags) bool {
	return n.Flags&flags == flags
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// FirstChildOfKind returns the first direct child of the given kind.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns all direct children of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Enclosing walks up the parent chain and returns the nearest ancestor of
// the given kind, or nil.
func (n *Node) Enclosing(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// PrecedingSiblings returns the children of n's parent that appear before n,
// in source order.
func (n *Node) PrecedingSiblings() []*Node {
	if n.Parent == nil {
		return nil
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return n.Parent.Children[:i]
		}
	}
	return nil
}

// Walk visits the tree in depth-first pre-order. Returning false from visit
// skips the node's subtree.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}
