package token

import "extlint/internal/source"

// TriviaKind classifies non-semantic source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocComment:
		return "DocComment"
	}
	return "Invalid"
}

// Trivia is whitespace or a comment attached to the nearest following token.
// Retaining it keeps fix output faithful to the original formatting.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
