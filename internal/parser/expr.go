package parser

import (
	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/token"
)

func (p *Parser) parseExpr() *ast.Node {
	return p.parseAssign()
}

// parseAssign handles `=`, `+=` and `-=`; assignment is right-associative.
func (p *Parser) parseAssign() *ast.Node {
	lhs := p.parseCoalesce()

	var op string
	switch p.tok.Kind {
	case token.Assign:
		op = "="
	case token.PlusAssign:
		op = "+="
	case token.MinusAssign:
		op = "-="
	default:
		return lhs
	}
	p.advance()

	rhs := p.parseAssign()
	node := ast.New(ast.AssignExpr, lhs.Span.Cover(rhs.Span))
	node.Text = op
	node.AddChild(lhs)
	node.AddChild(rhs)
	return node
}

func (p *Parser) parseCoalesce() *ast.Node {
	lhs := p.parseOr()
	for p.at(token.QuestionQuestion) {
		p.advance()
		rhs := p.parseOr()
		lhs = p.binary("??", lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseOr() *ast.Node {
	lhs := p.parseAnd()
	for p.at(token.PipePipe) {
		p.advance()
		lhs = p.binary("||", lhs, p.parseAnd())
	}
	return lhs
}

func (p *Parser) parseAnd() *ast.Node {
	lhs := p.parseEquality()
	for p.at(token.AmpAmp) {
		p.advance()
		lhs = p.binary("&&", lhs, p.parseEquality())
	}
	return lhs
}

func (p *Parser) parseEquality() *ast.Node {
	lhs := p.parseRelational()
	for {
		var op string
		switch p.tok.Kind {
		case token.EqEq:
			op = "=="
		case token.BangEq:
			op = "!="
		default:
			return lhs
		}
		p.advance()
		lhs = p.binary(op, lhs, p.parseRelational())
	}
}

func (p *Parser) parseRelational() *ast.Node {
	lhs := p.parseAdditive()
	for {
		var op string
		switch p.tok.Kind {
		case token.Lt:
			op = "<"
		case token.LtEq:
			op = "<="
		case token.Gt:
			op = ">"
		case token.GtEq:
			op = ">="
		default:
			return lhs
		}
		p.advance()
		lhs = p.binary(op, lhs, p.parseAdditive())
	}
}

func (p *Parser) parseAdditive() *ast.Node {
	lhs := p.parseMultiplicative()
	for {
		var op string
		switch p.tok.Kind {
		case token.Plus:
			op = "+"
		case token.Minus:
			op = "-"
		default:
			return lhs
		}
		p.advance()
		lhs = p.binary(op, lhs, p.parseMultiplicative())
	}
}

func (p *Parser) parseMultiplicative() *ast.Node {
	lhs := p.parseUnary()
	for {
		var op string
		switch p.tok.Kind {
		case token.Star:
			op = "*"
		case token.Slash:
			op = "/"
		case token.Percent:
			op = "%"
		default:
			return lhs
		}
		p.advance()
		lhs = p.binary(op, lhs, p.parseUnary())
	}
}

func (p *Parser) binary(op string, lhs, rhs *ast.Node) *ast.Node {
	node := ast.New(ast.BinaryExpr, lhs.Span.Cover(rhs.Span))
	node.Text = op
	node.AddChild(lhs)
	node.AddChild(rhs)
	return node
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.tok.Kind {
	case token.Bang, token.Minus:
		op := p.tok.Text
		start := p.here().Start
		p.advance()
		operand := p.parseUnary()
		node := ast.New(ast.UnaryExpr, source.Span{File: p.file.ID, Start: start, End: operand.Span.End})
		node.Text = op
		node.AddChild(operand)
		return node

	case token.KwAwait:
		start := p.here().Start
		p.advance()
		operand := p.parseUnary()
		node := ast.New(ast.AwaitExpr, source.Span{File: p.file.ID, Start: start, End: operand.Span.End})
		node.AddChild(operand)
		return node

	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses member access chains, null-conditional access, calls,
// and indexers.
func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parsePrimary()

	for {
		switch p.tok.Kind {
		case token.Dot, token.QuestionDot:
			conditional := p.at(token.QuestionDot)
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "member name")
			if !ok {
				return expr
			}
			node := ast.New(ast.MemberAccess, expr.Span.Cover(name.Span))
			node.Text = name.Text
			if conditional {
				node.Flags |= ast.NullConditional
			}
			node.AddChild(expr)
			expr = node

		case token.LParen:
			p.advance()
			node := ast.New(ast.CallExpr, expr.Span)
			node.AddChild(expr)
			for !p.atEOF() && !p.at(token.RParen) {
				node.AddChild(p.parseExpr())
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
			if tok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); ok {
				node.Span = node.Span.Cover(tok.Span)
			} else {
				p.syncTo(token.RParen, token.Semicolon, token.RBrace)
				p.eat(token.RParen)
				node.Span.End = p.prevEnd()
			}
			expr = node

		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			node := p.binary("[]", expr, idx)
			if _, ok := p.eat(token.RBracket); !ok {
				p.report(diag.SynUnclosedDelimiter, p.here(), "expected ']'")
			}
			node.Span.End = p.prevEnd()
			expr = node

		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.tok

	switch tok.Kind {
	case token.Ident, token.KwThis, token.KwBase:
		p.advance()
		node := ast.New(ast.Ident, tok.Span)
		node.Text = tok.Text
		return node

	case token.IntLit, token.FloatLit:
		p.advance()
		node := ast.New(ast.Literal, tok.Span)
		node.Text = tok.Text
		node.Flags |= ast.LitNumber
		return node

	case token.StringLit:
		p.advance()
		node := ast.New(ast.Literal, tok.Span)
		node.Text = tok.Text
		node.Flags |= ast.LitString
		return node

	case token.CharLit:
		p.advance()
		node := ast.New(ast.Literal, tok.Span)
		node.Text = tok.Text
		node.Flags |= ast.LitChar
		return node

	case token.KwTrue, token.KwFalse:
		p.advance()
		node := ast.New(ast.Literal, tok.Span)
		node.Text = tok.Text
		node.Flags |= ast.LitBool
		return node

	case token.KwNull:
		p.advance()
		node := ast.New(ast.Literal, tok.Span)
		node.Text = "null"
		node.Flags |= ast.LitNull
		return node

	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
		return inner

	case token.KwNew:
		return p.parseNew()

	case token.KwTypeof:
		return p.parseTypeof()

	default:
		p.report(diag.SynExpectExpression, tok.Span, "expected expression, found "+p.describe())
		node := ast.New(ast.Bad, tok.Span)
		if !p.atEOF() {
			p.advance()
		}
		return node
	}
}

func (p *Parser) parseNew() *ast.Node {
	start := p.here().Start
	p.advance() // new

	node := ast.New(ast.NewExpr, source.Span{File: p.file.ID, Start: start, End: start})
	newType := p.parseTypeRef()
	if newType == nil {
		p.report(diag.SynExpectTypeName, p.here(), "expected type after 'new'")
		node.Span.End = p.prevEnd()
		return node
	}
	node.AddChild(newType)

	if _, ok := p.eat(token.LParen); ok {
		for !p.atEOF() && !p.at(token.RParen) {
			node.AddChild(p.parseExpr())
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
	}

	// object initializer is skimmed, not modeled
	if p.at(token.LBrace) {
		p.skipBalancedBraces()
	}

	node.Span.End = p.prevEnd()
	return node
}

func (p *Parser) parseTypeof() *ast.Node {
	start := p.here().Start
	p.advance() // typeof

	node := ast.New(ast.TypeofExpr, source.Span{File: p.file.ID, Start: start, End: start})
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); ok {
		if t := p.parseTypeRef(); t != nil {
			node.AddChild(t)
		} else {
			p.report(diag.SynExpectTypeName, p.here(), "expected type in typeof")
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
	}
	node.Span.End = p.prevEnd()
	return node
}
