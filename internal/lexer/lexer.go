// Package lexer turns source bytes into tokens with attached trivia.
// It never aborts: malformed input produces recoverable diagnostics and the
// scan continues, so partial files still reach the parser.
package lexer

import (
	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/token"
)

// Options configures a Lexer. A nil Reporter silences diagnostics but the
// scan still recovers.
type Options struct {
	Reporter diag.Reporter
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its leading trivia attached.
// After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.cursor.SpanFrom(lx.cursor.Off),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()

	case isDigit(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '\'':
		tok = lx.scanChar()

	case ch == '@' || ch == '$':
		// verbatim @"..." and interpolated $"..." string prefixes
		if _, b1, ok := lx.cursor.Peek2(); ok && b1 == '"' {
			tok = lx.scanPrefixedString()
		} else {
			tok = lx.scanOperatorOrPunct()
		}

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokens scans the whole file into a slice terminated by EOF.
func Tokens(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
