package parser

import (
	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/token"
)

func (p *Parser) parseBlock() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.Block, source.Span{File: p.file.ID, Start: start, End: start})

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'"); !ok {
		return node
	}
	p.braceDepth++

	for !p.atEOF() && !p.at(token.RBrace) {
		node.AddChild(p.parseStmt())
	}
	p.closeBrace("block")
	node.Span.End = p.prevEnd()
	return node
}

func (p *Parser) parseStmt() *ast.Node {
	switch p.tok.Kind {
	case token.LBrace:
		return p.parseBlock()

	case token.KwIf:
		return p.parseIf()

	case token.KwReturn:
		return p.parseReturn()

	case token.KwThrow:
		return p.parseThrow()

	case token.KwVar:
		return p.parseLocalDecl()

	case token.Ident:
		// `Type name = ...` is a local declaration; anything else is an
		// expression statement
		if p.looksLikeLocalDecl() {
			return p.parseLocalDecl()
		}
		return p.parseExprStmt()

	case token.Semicolon:
		// empty statement
		node := ast.New(ast.ExprStmt, p.here())
		p.advance()
		return node

	default:
		return p.parseExprStmt()
	}
}

// looksLikeLocalDecl peeks one token past the current identifier: an
// identifier followed by another identifier starts a typed declaration.
func (p *Parser) looksLikeLocalDecl() bool {
	next := p.lx.Peek()
	return next.Kind == token.Ident
}

func (p *Parser) parseLocalDecl() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.LocalDecl, source.Span{File: p.file.ID, Start: start, End: start})

	declType := p.parseTypeRef()
	if declType != nil {
		node.AddChild(declType)
	}

	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "variable name"); ok {
		node.Text = name.Text
	}

	if _, ok := p.eat(token.Assign); ok {
		node.AddChild(p.parseExpr())
	}

	p.finishStmt(node)
	return node
}

func (p *Parser) parseIf() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.IfStmt, source.Span{File: p.file.ID, Start: start, End: start})
	p.advance() // if

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); ok {
		node.AddChild(p.parseExpr())
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
	}

	node.AddChild(p.parseStmt()) // then

	if _, ok := p.eat(token.KwElse); ok {
		node.AddChild(p.parseStmt())
	}
	node.Span.End = p.prevEnd()
	return node
}

func (p *Parser) parseReturn() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.ReturnStmt, source.Span{File: p.file.ID, Start: start, End: start})
	p.advance() // return

	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.atEOF() {
		node.AddChild(p.parseExpr())
	}
	p.finishStmt(node)
	return node
}

func (p *Parser) parseThrow() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.ThrowStmt, source.Span{File: p.file.ID, Start: start, End: start})
	p.advance() // throw

	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.atEOF() {
		node.AddChild(p.parseExpr())
	}
	p.finishStmt(node)
	return node
}

func (p *Parser) parseExprStmt() *ast.Node {
	start := p.here().Start
	node := ast.New(ast.ExprStmt, source.Span{File: p.file.ID, Start: start, End: start})
	node.AddChild(p.parseExpr())
	p.finishStmt(node)
	return node
}

// finishStmt consumes the statement terminator, resyncing on errors.
func (p *Parser) finishStmt(node *ast.Node) {
	if _, ok := p.eat(token.Semicolon); !ok {
		if !p.at(token.RBrace) && !p.atEOF() {
			p.report(diag.SynExpectSemicolon, p.here(), "expected ';' after statement")
			p.syncTo(token.Semicolon, token.RBrace)
			p.eat(token.Semicolon)
		}
	}
	node.Span.End = p.prevEnd()
}
