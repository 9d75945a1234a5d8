// Package parser builds the AST for one extension source file.
//
// The parser is tolerant: unexpected tokens produce diagnostics and a resync,
// truncated files close their open blocks implicitly, and the best-effort
// tree is always returned so later phases can still analyze the parsed
// prefix. Only malformed input in the ParseError class (unterminated string
// or comment, mismatched closing delimiter) marks the file as failed, and
// even then the partial tree and its diagnostics survive.
package parser

import (
	"fmt"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/lexer"
	"extlint/internal/source"
	"extlint/internal/token"
)

// ParseError reports input malformed beyond recovery.
type ParseError struct {
	Span   source.Span
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Reason)
}

// fatalLexCodes are lexical conditions that classify the whole file as
// malformed rather than merely truncated.
var fatalLexCodes = map[diag.Code]bool{
	diag.LexUnterminatedString:       true,
	diag.LexUnterminatedBlockComment: true,
	diag.LexUnterminatedChar:         true,
}

// fatalSniffer watches the diagnostic stream for ParseError-class lexical
// conditions while forwarding everything to the real reporter.
type fatalSniffer struct {
	next  diag.Reporter
	fatal *ParseError
}

func (s *fatalSniffer) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if s.fatal == nil && fatalLexCodes[code] {
		s.fatal = &ParseError{Span: primary, Reason: msg}
	}
	if s.next != nil {
		s.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	reporter diag.Reporter
	sniffer  *fatalSniffer

	tok     token.Token // current token
	lastEnd uint32      // end offset of the last consumed token

	// braceDepth tracks open '{' so EOF can close them implicitly.
	braceDepth int
}

// Parse builds the AST for file. The returned root is never nil; err is a
// *ParseError when the input was malformed beyond recovery, in which case
// the root still holds the successfully parsed prefix.
func Parse(file *source.File, reporter diag.Reporter) (*ast.Node, error) {
	sniffer := &fatalSniffer{next: reporter}
	p := &Parser{
		file:     file,
		lx:       lexer.New(file, lexer.Options{Reporter: sniffer}),
		reporter: sniffer,
		sniffer:  sniffer,
	}
	p.advance()

	root := p.parseFile()

	if sniffer.fatal != nil {
		return root, sniffer.fatal
	}
	return root, nil
}

func (p *Parser) advance() {
	p.lastEnd = p.tok.Span.End
	p.tok = p.lx.Next()
}

func (p *Parser) at(kind token.Kind) bool {
	return p.tok.Kind == kind
}

func (p *Parser) atEOF() bool {
	return p.tok.Kind == token.EOF
}

// eat consumes the current token when it matches.
func (p *Parser) eat(kind token.Kind) (token.Token, bool) {
	if !p.at(kind) {
		return token.Token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

// expect consumes the current token when it matches, otherwise reports and
// leaves the stream untouched so the caller can resync.
func (p *Parser) expect(kind token.Kind, code diag.Code, what string) (token.Token, bool) {
	if tok, ok := p.eat(kind); ok {
		return tok, true
	}
	p.report(code, p.tok.Span, fmt.Sprintf("expected %s, found %q", what, p.describe()))
	return token.Token{}, false
}

func (p *Parser) describe() string {
	if p.atEOF() {
		return "end of file"
	}
	if p.tok.Text != "" {
		return p.tok.Text
	}
	return p.tok.Kind.String()
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (p *Parser) reportWarning(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevWarning, sp, msg, nil, nil)
	}
}

// syncTo skips tokens until one of the kinds (or EOF) is current.
func (p *Parser) syncTo(kinds ...token.Kind) {
	for !p.atEOF() {
		for _, k := range kinds {
			if p.tok.Kind == k {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) here() source.Span {
	return p.tok.Span
}
