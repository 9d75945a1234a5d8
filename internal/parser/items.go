package parser

import (
	"strings"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/token"
)

func (p *Parser) parseFile() *ast.Node {
	root := ast.New(ast.File, source.Span{File: p.file.ID, Start: 0, End: uint32(len(p.file.Content))}) // #nosec G115

	for !p.atEOF() {
		switch {
		case p.at(token.KwUsing):
			root.AddChild(p.parseUsing())

		case p.at(token.KwNamespace):
			root.AddChild(p.parseNamespace())

		case p.at(token.LBracket) || p.tok.IsModifier() || p.at(token.KwClass):
			root.AddChild(p.parseClass())

		case p.at(token.RBrace):
			// a closing brace with no open block is a mismatched delimiter
			p.report(diag.SynUnclosedDelimiter, p.here(), "unmatched closing brace")
			if p.sniffer.fatal == nil {
				p.sniffer.fatal = &ParseError{Span: p.here(), Reason: "unmatched closing brace"}
			}
			p.advance()

		default:
			p.report(diag.SynUnexpectedToken, p.here(), "unexpected token at top level: "+p.describe())
			p.advance()
		}
	}
	return root
}

// parseUsing parses `using A.B.C;` (including `using static A.B;`).
func (p *Parser) parseUsing() *ast.Node {
	start := p.here().Start
	p.advance() // using
	p.eat(token.KwStatic)

	path := p.parseDottedName()
	node := ast.New(ast.UsingDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Text = path

	if _, ok := p.eat(token.Semicolon); !ok {
		p.report(diag.SynExpectSemicolon, p.here(), "expected ';' after using directive")
		p.syncTo(token.Semicolon, token.KwUsing, token.KwNamespace, token.KwClass)
		p.eat(token.Semicolon)
	}
	node.Span.End = p.prevEnd()
	return node
}

func (p *Parser) parseNamespace() *ast.Node {
	start := p.here().Start
	p.advance() // namespace

	node := ast.New(ast.NamespaceDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Text = p.parseDottedName()

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'"); !ok {
		p.syncTo(token.LBrace, token.KwClass)
		p.eat(token.LBrace)
	}
	p.braceDepth++

	for !p.atEOF() && !p.at(token.RBrace) {
		switch {
		case p.at(token.KwUsing):
			node.AddChild(p.parseUsing())
		case p.at(token.LBracket) || p.tok.IsModifier() || p.at(token.KwClass):
			node.AddChild(p.parseClass())
		default:
			p.report(diag.SynUnexpectedToken, p.here(), "unexpected token in namespace: "+p.describe())
			p.advance()
		}
	}
	p.closeBrace("namespace")
	node.Span.End = p.prevEnd()
	return node
}

// parseClass parses attributes, modifiers, the class header with its base
// list, and the member block.
func (p *Parser) parseClass() *ast.Node {
	start := p.here().Start
	attrs := p.parseAttributeList()
	flags := p.parseModifiers()

	node := ast.New(ast.ClassDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Flags = flags
	for _, a := range attrs {
		node.AddChild(a)
	}

	if _, ok := p.expect(token.KwClass, diag.SynUnexpectedToken, "'class'"); !ok {
		p.syncTo(token.KwClass, token.LBrace, token.KwNamespace)
		if !p.at(token.KwClass) {
			return node
		}
		p.advance()
	}

	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "class name"); ok {
		node.Text = name.Text
	}

	if _, ok := p.eat(token.Colon); ok {
		for {
			baseStart := p.here().Start
			baseName := p.parseDottedName()
			if baseName == "" {
				p.report(diag.SynExpectTypeName, p.here(), "expected base type name")
				break
			}
			base := ast.New(ast.BaseRef, source.Span{File: p.file.ID, Start: baseStart, End: p.prevEnd()})
			base.Text = baseName
			node.AddChild(base)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'"); !ok {
		p.syncTo(token.LBrace, token.KwClass, token.KwNamespace)
		if _, ok := p.eat(token.LBrace); !ok {
			return node
		}
	}
	p.braceDepth++

	for !p.atEOF() && !p.at(token.RBrace) {
		node.AddChild(p.parseMember())
	}
	p.closeBrace("class body")
	node.Span.End = p.prevEnd()
	return node
}

// parseMember parses a method, field, or nested class declaration.
func (p *Parser) parseMember() *ast.Node {
	start := p.here().Start
	attrs := p.parseAttributeList()
	flags := p.parseModifiers()

	if p.at(token.KwClass) {
		nested := p.parseClass()
		// attributes and modifiers were consumed here, re-home them
		for _, a := range attrs {
			nested.AddChild(a)
		}
		nested.Flags |= flags
		nested.Span.Start = start
		return nested
	}

	retType := p.parseTypeRef()
	if retType == nil {
		p.report(diag.SynExpectTypeName, p.here(), "expected member type, found "+p.describe())
		bad := ast.New(ast.Bad, p.here())
		p.syncToMember()
		return bad
	}

	name, ok := p.eat(token.Ident)
	if !ok {
		// constructor: the "type" was actually the member name
		name = token.Token{Kind: token.Ident, Span: retType.Span, Text: retType.Text}
	}

	if p.at(token.LParen) {
		return p.parseMethodRest(start, attrs, flags, retType, name)
	}
	return p.parseFieldRest(start, attrs, flags, retType, name)
}

func (p *Parser) parseMethodRest(start uint32, attrs []*ast.Node, flags ast.Flags, retType *ast.Node, name token.Token) *ast.Node {
	node := ast.New(ast.MethodDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Text = name.Text
	node.Flags = flags
	for _, a := range attrs {
		node.AddChild(a)
	}
	node.AddChild(retType)

	p.advance() // '('
	for !p.atEOF() && !p.at(token.RParen) {
		param := p.parseParam()
		if param == nil {
			p.syncTo(token.Comma, token.RParen, token.LBrace)
		} else {
			node.AddChild(param)
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")

	switch {
	case p.at(token.LBrace):
		node.AddChild(p.parseBlock())

	case p.at(token.Arrow):
		// expression-bodied member: model as a block with a single return
		arrowStart := p.here().Start
		p.advance()
		expr := p.parseExpr()
		block := ast.New(ast.Block, source.Span{File: p.file.ID, Start: arrowStart, End: p.prevEnd()})
		ret := ast.New(ast.ReturnStmt, expr.Span)
		ret.AddChild(expr)
		block.AddChild(ret)
		node.AddChild(block)
		if _, ok := p.eat(token.Semicolon); !ok {
			p.report(diag.SynExpectSemicolon, p.here(), "expected ';' after expression body")
		}

	case p.at(token.Semicolon):
		p.advance() // bodyless declaration

	default:
		p.report(diag.SynUnexpectedToken, p.here(), "expected method body, found "+p.describe())
		p.syncTo(token.LBrace, token.Semicolon, token.RBrace)
		if p.at(token.LBrace) {
			node.AddChild(p.parseBlock())
		} else {
			p.eat(token.Semicolon)
		}
	}

	node.Span.End = p.prevEnd()
	return node
}

func (p *Parser) parseFieldRest(start uint32, attrs []*ast.Node, flags ast.Flags, fieldType *ast.Node, name token.Token) *ast.Node {
	node := ast.New(ast.FieldDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Text = name.Text
	node.Flags = flags
	for _, a := range attrs {
		node.AddChild(a)
	}
	node.AddChild(fieldType)

	// property accessor list; accessor bodies are skimmed, not analyzed
	hadAccessors := false
	if p.at(token.LBrace) {
		p.skipBalancedBraces()
		hadAccessors = true
	}

	if _, ok := p.eat(token.Assign); ok {
		node.AddChild(p.parseExpr())
		hadAccessors = false
	}
	if _, ok := p.eat(token.Semicolon); !ok && !hadAccessors {
		p.report(diag.SynExpectSemicolon, p.here(), "expected ';' after field declaration")
		p.syncTo(token.Semicolon, token.RBrace)
		p.eat(token.Semicolon)
	}
	node.Span.End = p.prevEnd()
	return node
}

// syncToMember skips tokens until something that can start or end a class
// member is current, eating one trailing semicolon on the way out.
func (p *Parser) syncToMember() {
	for !p.atEOF() {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.at(token.RBrace), p.at(token.LBracket),
			p.at(token.KwClass), p.at(token.KwVoid), p.at(token.KwVar),
			p.at(token.Ident), p.tok.IsModifier():
			return
		}
		p.advance()
	}
}

// skipBalancedBraces consumes a `{ ... }` region without building nodes.
func (p *Parser) skipBalancedBraces() {
	if _, ok := p.eat(token.LBrace); !ok {
		return
	}
	depth := 1
	for depth > 0 {
		if p.atEOF() {
			p.reportWarning(diag.SynImplicitClose, p.here(),
				"block closed implicitly at end of file")
			return
		}
		switch p.tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseParam() *ast.Node {
	start := p.here().Start
	paramType := p.parseTypeRef()
	if paramType == nil {
		p.report(diag.SynExpectTypeName, p.here(), "expected parameter type")
		return nil
	}
	node := ast.New(ast.ParamDecl, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.AddChild(paramType)
	if name, ok := p.eat(token.Ident); ok {
		node.Text = name.Text
	} else {
		// a lone type is accepted; delegate-style parameter lists omit names
		node.Text = ""
	}
	node.Span.End = p.prevEnd()
	return node
}

// parseAttributeList parses zero or more bracketed attribute groups:
// [Export], [PackageRegistration(UseManagedResourcesOnly = true)].
func (p *Parser) parseAttributeList() []*ast.Node {
	var out []*ast.Node
	for p.at(token.LBracket) {
		start := p.here().Start
		p.advance()

		for !p.atEOF() {
			attrName := p.parseDottedName()
			if attrName == "" {
				p.report(diag.SynExpectIdentifier, p.here(), "expected attribute name")
				break
			}
			attr := ast.New(ast.Attribute, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
			attr.Text = attrName

			if _, ok := p.eat(token.LParen); ok {
				for !p.atEOF() && !p.at(token.RParen) {
					attr.AddChild(p.parseExpr())
					if _, ok := p.eat(token.Comma); !ok {
						break
					}
				}
				p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
			}
			attr.Span.End = p.prevEnd()
			out = append(out, attr)

			if _, ok := p.eat(token.Comma); !ok {
				break
			}
			start = p.here().Start
		}

		if _, ok := p.eat(token.RBracket); !ok {
			p.report(diag.SynUnclosedAttribute, p.here(), "unterminated attribute list")
			p.syncTo(token.RBracket, token.KwClass, token.LBrace)
			p.eat(token.RBracket)
		}
	}
	return out
}

func (p *Parser) parseModifiers() ast.Flags {
	var flags ast.Flags
	for p.tok.IsModifier() {
		switch p.tok.Kind {
		case token.KwPublic:
			flags |= ast.ModPublic
		case token.KwPrivate:
			flags |= ast.ModPrivate
		case token.KwProtected:
			flags |= ast.ModProtected
		case token.KwInternal:
			flags |= ast.ModInternal
		case token.KwStatic:
			flags |= ast.ModStatic
		case token.KwSealed:
			flags |= ast.ModSealed
		case token.KwOverride:
			flags |= ast.ModOverride
		case token.KwAsync:
			flags |= ast.ModAsync
		}
		p.advance()
	}
	return flags
}

// parseTypeRef parses `A.B.C`, `void`, `var`, generic arguments, and array
// suffixes. Returns nil when the current token cannot start a type.
func (p *Parser) parseTypeRef() *ast.Node {
	start := p.here().Start

	if tok, ok := p.eat(token.KwVoid); ok {
		node := ast.New(ast.TypeRef, tok.Span)
		node.Text = "void"
		return node
	}
	if tok, ok := p.eat(token.KwVar); ok {
		node := ast.New(ast.TypeRef, tok.Span)
		node.Text = "var"
		return node
	}
	if !p.at(token.Ident) {
		return nil
	}

	name := p.parseDottedName()
	node := ast.New(ast.TypeRef, source.Span{File: p.file.ID, Start: start, End: p.prevEnd()})
	node.Text = name

	// generic argument list; only consumed when it closes like one
	if p.at(token.Lt) && p.looksLikeGenericArgs() {
		p.advance()
		for !p.atEOF() && !p.at(token.Gt) {
			arg := p.parseTypeRef()
			if arg == nil {
				break
			}
			node.AddChild(arg)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		p.eat(token.Gt)
	}

	// array suffix
	for p.at(token.LBracket) {
		p.advance()
		if _, ok := p.eat(token.RBracket); !ok {
			p.report(diag.SynUnclosedDelimiter, p.here(), "expected ']' in array type")
			break
		}
	}

	// nullable suffix (Task? etc.)
	p.eat(token.Question)

	node.Span.End = p.prevEnd()
	return node
}

// looksLikeGenericArgs distinguishes `Foo<Bar>` from a comparison by scanning
// the token after '<'; identifiers and nested type names start generic args.
func (p *Parser) looksLikeGenericArgs() bool {
	next := p.lx.Peek()
	return next.Kind == token.Ident || next.Kind == token.KwVoid || next.Kind == token.Gt
}

// parseDottedName consumes Ident (. Ident)* and returns the joined path, or
// "" when the current token is not an identifier.
func (p *Parser) parseDottedName() string {
	if !p.at(token.Ident) {
		return ""
	}
	parts := []string{p.tok.Text}
	p.advance()
	for {
		if !p.at(token.Dot) {
			break
		}
		next := p.lx.Peek()
		if next.Kind != token.Ident {
			break
		}
		p.advance() // '.'
		parts = append(parts, p.tok.Text)
		p.advance()
	}
	return strings.Join(parts, ".")
}

// closeBrace consumes '}' or reports the implicit close at EOF.
func (p *Parser) closeBrace(what string) {
	if _, ok := p.eat(token.RBrace); ok {
		p.braceDepth--
		return
	}
	if p.atEOF() {
		p.reportWarning(diag.SynImplicitClose, p.here(),
			what+" closed implicitly at end of file")
		p.braceDepth--
		return
	}
	p.report(diag.SynUnclosedDelimiter, p.here(), "expected '}' to close "+what)
}

// prevEnd returns the end offset of the last consumed token.
func (p *Parser) prevEnd() uint32 {
	return p.lastEnd
}
