package lexer

import (
	"golang.org/x/text/unicode/norm"

	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/token"
)

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(start)
	// NFC so that visually identical identifiers resolve to one symbol
	text := norm.NFC.String(string(lx.file.Content[span.Start:span.End]))
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: span,
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	kind := token.IntLit

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for !lx.cursor.EOF() && isHexDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		span := lx.cursor.SpanFrom(start)
		if digits == 0 {
			lx.report(diag.LexBadNumber, span, "hex literal has no digits")
		}
		return token.Token{Kind: token.IntLit, Span: span, Text: lx.text(span)}
	}

	for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDigit(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// numeric suffix (1.5f, 100L, 0.5d)
	if !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case 'f', 'F', 'd', 'D', 'm', 'M':
			kind = token.FloatLit
			lx.cursor.Bump()
		case 'l', 'L', 'u', 'U':
			lx.cursor.Bump()
		}
	}

	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: span, Text: lx.text(span)}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening '"'

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			span := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: span, Text: lx.text(span)}
		}
		b := lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			break
		}
	}

	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: span, Text: lx.text(span)}
}

// scanPrefixedString handles @"..." verbatim and $"..." interpolated strings.
// Verbatim strings may span lines and escape '"' by doubling it.
func (lx *Lexer) scanPrefixedString() token.Token {
	start := lx.cursor.Off
	prefix := lx.cursor.Bump() // '@' or '$'
	lx.cursor.Bump()           // opening quote

	if prefix == '$' {
		// interpolated strings follow regular escaping
		for {
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				span := lx.cursor.SpanFrom(start)
				lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
				return token.Token{Kind: token.StringLit, Span: span, Text: lx.text(span)}
			}
			b := lx.cursor.Bump()
			if b == '\\' && !lx.cursor.EOF() {
				lx.cursor.Bump()
				continue
			}
			if b == '"' {
				break
			}
		}
	} else {
		for {
			if lx.cursor.EOF() {
				span := lx.cursor.SpanFrom(start)
				lx.report(diag.LexUnterminatedString, span, "unterminated verbatim string literal")
				return token.Token{Kind: token.StringLit, Span: span, Text: lx.text(span)}
			}
			b := lx.cursor.Bump()
			if b == '"' {
				if lx.cursor.Peek() == '"' {
					lx.cursor.Bump() // doubled quote
					continue
				}
				break
			}
		}
	}

	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: span, Text: lx.text(span)}
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening '\''

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			span := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedChar, span, "unterminated character literal")
			return token.Token{Kind: token.CharLit, Span: span, Text: lx.text(span)}
		}
		b := lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == '\'' {
			break
		}
	}

	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.CharLit, Span: span, Text: lx.text(span)}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Off
	b := lx.cursor.Bump()

	kind := token.Unknown
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case ':':
		kind = token.Colon
	case '+':
		kind = token.Plus
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.PlusAssign
		}
	case '-':
		kind = token.Minus
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.MinusAssign
		}
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '?':
		kind = token.Question
		switch lx.cursor.Peek() {
		case '.':
			lx.cursor.Bump()
			kind = token.QuestionDot
		case '?':
			lx.cursor.Bump()
			kind = token.QuestionQuestion
		}
	case '=':
		kind = token.Assign
		switch lx.cursor.Peek() {
		case '=':
			lx.cursor.Bump()
			kind = token.EqEq
		case '>':
			lx.cursor.Bump()
			kind = token.Arrow
		}
	case '!':
		kind = token.Bang
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.GtEq
		}
	case '&':
		kind = token.Amp
		if lx.cursor.Peek() == '&' {
			lx.cursor.Bump()
			kind = token.AmpAmp
		}
	case '|':
		kind = token.Pipe
		if lx.cursor.Peek() == '|' {
			lx.cursor.Bump()
			kind = token.PipePipe
		}
	}

	span := lx.cursor.SpanFrom(start)
	if kind == token.Unknown {
		lx.report(diag.LexUnknownChar, span, "unexpected character "+lx.text(span))
	}
	return token.Token{Kind: kind, Span: span, Text: lx.text(span)}
}

func (lx *Lexer) text(span source.Span) string {
	return string(lx.file.Content[span.Start:span.End])
}
