package lexer

import (
	"extlint/internal/diag"
	"extlint/internal/token"
)

// collectLeadingTrivia consumes whitespace and comments into lx.hold.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			start := lx.cursor.Off
			lx.cursor.Bump()
			lx.pushTrivia(token.TriviaNewline, start)

		case ch == ' ' || ch == '\t' || ch == '\r':
			start := lx.cursor.Off
			for !lx.cursor.EOF() {
				b := lx.cursor.Peek()
				if b != ' ' && b != '\t' && b != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)

		case ch == '/':
			_, b1, ok := lx.cursor.Peek2()
			if !ok {
				return
			}
			switch b1 {
			case '/':
				lx.scanLineComment()
			case '*':
				lx.scanBlockComment()
			default:
				return
			}

		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment() {
	start := lx.cursor.Off
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '/'

	kind := token.TriviaLineComment
	if lx.cursor.Peek() == '/' {
		// "///" doc comment
		kind = token.TriviaDocComment
	}
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.pushTrivia(kind, start)
}

func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Off
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'

	for {
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start),
				"unterminated block comment")
			break
		}
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			break
		}
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start uint32) {
	span := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: span,
		Text: string(lx.file.Content[span.Start:span.End]),
	})
}
