package token

import (
	"extlint/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, string, or null
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsModifier reports whether the token is a declaration modifier.
func (t Token) IsModifier() bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwStatic, KwSealed,
		KwReadonly, KwOverride, KwPartial, KwAsync:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwUsing && t.Kind <= KwBase
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
