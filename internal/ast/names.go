package ast

// QualifiedName renders a dotted path for Ident, TypeRef, BaseRef and
// MemberAccess chains ("jtf.Run", "ThreadHelper.JoinableTaskFactory.Run").
// Chains rooted in anything other than an identifier ("Foo().Bar") keep only
// the member segments that follow the non-name part.
func QualifiedName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Ident, TypeRef, BaseRef:
		return n.Text
	case MemberAccess:
		recv := QualifiedName(n.Child(0))
		if recv == "" {
			return n.Text
		}
		return recv + "." + n.Text
	default:
		return ""
	}
}

// MemberName returns the rightmost name segment of an expression: the member
// for MemberAccess, the spelling for Ident, the callee member for CallExpr.
func MemberName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Ident, TypeRef, BaseRef:
		return n.Text
	case MemberAccess:
		return n.Text
	case CallExpr:
		return MemberName(n.Child(0))
	case AwaitExpr:
		return MemberName(n.Child(0))
	default:
		return ""
	}
}

// Callee returns the callee expression of a call, unwrapping nothing else.
func Callee(call *Node) *Node {
	if call == nil || call.Kind != CallExpr {
		return nil
	}
	return call.Child(0)
}

// Receiver returns the expression a member access is applied to, or nil.
func Receiver(n *Node) *Node {
	if n == nil || n.Kind != MemberAccess {
		return nil
	}
	return n.Child(0)
}
