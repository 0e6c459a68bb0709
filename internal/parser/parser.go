// Package parser implements a hand-written recursive-descent parser for the
// JavaScript subset the linter analyzes: declarations with nested binding
// patterns, the full statement repertoire of the rule corpus, and an
// expression grammar with assignment, destructuring and arrow functions.
// Semicolons are optional before a line break, a closing brace, or EOF.
package parser

import (
	"fmt"

	"github.com/jslinters/jlin/internal/ast"
)

// ParseSource parses src and returns the program together with all comments.
func ParseSource(src []byte) (*ast.Program, error) {
	lx := newLexer(string(src))
	toks, err := lx.tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	prog.Comments = lx.comments
	return prog, nil
}

type parser struct {
	toks []token
	pos  int
	// noIn disables the `in` binary operator while parsing a classic-for
	// init clause, so `for (x in y)` is not misread.
	noIn bool
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) prev() token { return p.toks[p.pos-1] }

func (p *parser) peek(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) at(lit string) bool { return p.cur().is(lit) }

func (p *parser) eat(lit string) bool {
	if p.at(lit) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(lit string) (token, error) {
	if !p.at(lit) {
		return token{}, p.errorf("expected %q, found %q", lit, p.cur().lit)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.cur()
	return fmt.Errorf("%d:%d: %s", t.pos.Line, t.pos.Column, fmt.Sprintf(format, args...))
}

func (p *parser) spanFrom(start ast.Position) ast.Span {
	return ast.Span{Start: start, End: p.prev().end}
}

// consumeSemicolon implements the simplified ASI rule.
func (p *parser) consumeSemicolon() error {
	if p.eat(";") {
		return nil
	}
	if p.cur().typ == tokEOF || p.at("}") || p.cur().newlineBefore {
		return nil
	}
	return p.errorf("expected ';', found %q", p.cur().lit)
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.cur().pos
	var body []ast.Statement
	for p.cur().typ != tokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return &ast.Program{Span: p.spanFrom(start), Body: body}, nil
}

// ---------------------------------------------------------------------------
// Statements

func (p *parser) parseStatement() (ast.Statement, error) {
	t := p.cur()
	if t.typ == tokIdent {
		switch t.lit {
		case "var", "let", "const":
			// `let` is only a declaration when a binding follows.
			if t.lit != "let" || startsBinding(p.peek(1)) {
				decl, err := p.parseVariableDeclaration()
				if err != nil {
					return nil, err
				}
				if err := p.consumeSemicolon(); err != nil {
					return nil, err
				}
				return decl, nil
			}
		case "function":
			return p.parseFunctionDeclaration()
		case "class":
			return p.parseClassDeclaration()
		case "if":
			return p.parseIf()
		case "switch":
			return p.parseSwitch()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "try":
			return p.parseTry()
		case "return":
			return p.parseReturn()
		case "throw":
			return p.parseThrow()
		case "break":
			p.advance()
			if err := p.consumeSemicolon(); err != nil {
				return nil, err
			}
			return &ast.BreakStatement{Span: p.spanFrom(t.pos)}, nil
		case "continue":
			p.advance()
			if err := p.consumeSemicolon(); err != nil {
				return nil, err
			}
			return &ast.ContinueStatement{Span: p.spanFrom(t.pos)}, nil
		}
	}
	if p.at("{") {
		return p.parseBlock()
	}
	if p.at(";") {
		p.advance()
		return &ast.EmptyStatement{Span: p.spanFrom(t.pos)}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Span: p.spanFrom(t.pos), Expr: expr}, nil
}

// startsBinding reports whether tok can begin a binding pattern.
func startsBinding(tok token) bool {
	if tok.typ == tokIdent && !reservedWords[tok.lit] {
		return true
	}
	return tok.is("[") || tok.is("{")
}

func (p *parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	kw := p.advance()
	decl := &ast.VariableDeclaration{
		Kind:     ast.DeclarationKind(kw.lit),
		KindSpan: ast.Span{Start: kw.pos, End: kw.end},
	}
	for {
		d, err := p.parseVariableDeclarator()
		if err != nil {
			return nil, err
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.eat(",") {
			break
		}
	}
	decl.Span = p.spanFrom(kw.pos)
	return decl, nil
}

func (p *parser) parseVariableDeclarator() (*ast.VariableDeclarator, error) {
	start := p.cur().pos
	id, err := p.parseBindingPattern()
	if err != nil {
		return nil, err
	}
	d := &ast.VariableDeclarator{ID: id}
	if p.eat("=") {
		d.Init, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
	}
	d.Span = p.spanFrom(start)
	return d, nil
}

func (p *parser) parseBlock() (*ast.BlockStatement, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.at("}") && p.cur().typ != tokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Span: p.spanFrom(open.pos), Body: body}, nil
}

func (p *parser) parseIf() (ast.Statement, error) {
	start := p.advance().pos
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Test: test, Consequent: cons}
	if p.eat("else") {
		stmt.Alternate, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseSwitch() (ast.Statement, error) {
	start := p.advance().pos
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	stmt := &ast.SwitchStatement{Discriminant: disc}
	for !p.at("}") && p.cur().typ != tokEOF {
		caseStart := p.cur().pos
		c := &ast.SwitchCase{}
		if p.eat("case") {
			c.Test, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		} else if !p.eat("default") {
			return nil, p.errorf("expected 'case' or 'default', found %q", p.cur().lit)
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		for !p.at("case") && !p.at("default") && !p.at("}") && p.cur().typ != tokEOF {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			c.Body = append(c.Body, s)
		}
		c.Span = p.spanFrom(caseStart)
		stmt.Cases = append(stmt.Cases, c)
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseFor() (ast.Statement, error) {
	start := p.advance().pos
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	var init ast.Node
	if t := p.cur(); t.typ == tokIdent && (t.lit == "var" || t.lit == "const" || (t.lit == "let" && startsBinding(p.peek(1)))) {
		kw := p.advance()
		decl := &ast.VariableDeclaration{
			Kind:     ast.DeclarationKind(kw.lit),
			KindSpan: ast.Span{Start: kw.pos, End: kw.end},
		}
		first, err := p.parseBindingPattern()
		if err != nil {
			return nil, err
		}
		if p.at("in") || p.at("of") {
			of := p.advance().lit == "of"
			d := &ast.VariableDeclarator{Span: ast.Span{Start: first.Pos(), End: first.EndPos()}, ID: first}
			decl.Declarations = []*ast.VariableDeclarator{d}
			decl.Span = p.spanFrom(kw.pos)
			return p.parseForInTail(start, decl, of)
		}
		d := &ast.VariableDeclarator{ID: first}
		if p.eat("=") {
			d.Init, err = p.parseAssignNoIn()
			if err != nil {
				return nil, err
			}
		}
		d.Span = ast.Span{Start: first.Pos(), End: p.prev().end}
		decl.Declarations = []*ast.VariableDeclarator{d}
		for p.eat(",") {
			d, err := p.parseVariableDeclarator()
			if err != nil {
				return nil, err
			}
			decl.Declarations = append(decl.Declarations, d)
		}
		decl.Span = p.spanFrom(kw.pos)
		init = decl
	} else if !p.at(";") {
		expr, err := p.parseExpressionNoIn()
		if err != nil {
			return nil, err
		}
		if p.at("in") || p.at("of") {
			of := p.advance().lit == "of"
			left, err := exprToPattern(expr)
			if err != nil {
				return nil, err
			}
			return p.parseForInTail(start, left, of)
		}
		init = expr
	}

	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	stmt := &ast.ForStatement{Init: init}
	var err error
	if !p.at(";") {
		stmt.Test, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if !p.at(")") {
		stmt.Update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	stmt.Body, err = p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseForInTail(start ast.Position, left ast.Node, of bool) (ast.Statement, error) {
	right, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStatement{
		Span:  p.spanFrom(start),
		Left:  left,
		Right: right,
		Body:  body,
		Of:    of,
	}, nil
}

func (p *parser) parseWhile() (ast.Statement, error) {
	start := p.advance().pos
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Span: p.spanFrom(start), Test: test, Body: body}, nil
}

func (p *parser) parseDoWhile() (ast.Statement, error) {
	start := p.advance().pos
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("while"); err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Span: p.spanFrom(start), Body: body, Test: test}, nil
}

func (p *parser) parseTry() (ast.Statement, error) {
	start := p.advance().pos
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.TryStatement{Block: block}
	if p.eat("catch") {
		clause := &ast.CatchClause{}
		clauseStart := p.prev().pos
		if p.eat("(") {
			clause.Param, err = p.parseBindingPattern()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
		}
		clause.Body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		clause.Span = p.spanFrom(clauseStart)
		stmt.Handler = clause
	}
	if p.eat("finally") {
		stmt.Finalizer, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		return nil, p.errorf("missing catch or finally after try")
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	start := p.advance().pos
	stmt := &ast.ReturnStatement{}
	if !p.at(";") && !p.at("}") && p.cur().typ != tokEOF && !p.cur().newlineBefore {
		var err error
		stmt.Argument, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseThrow() (ast.Statement, error) {
	start := p.advance().pos
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Span: p.spanFrom(start), Argument: arg}, nil
}

func (p *parser) parseFunctionDeclaration() (ast.Statement, error) {
	start := p.cur().pos
	fn, err := p.parseFunctionLiteral()
	if err != nil {
		return nil, err
	}
	if fn.Name == nil {
		return nil, p.errorf("function declaration requires a name")
	}
	return &ast.FunctionDeclaration{Span: p.spanFrom(start), Function: fn}, nil
}

// parseFunctionLiteral parses `function name? (params) { body }` with the
// cursor on the `function` keyword.
func (p *parser) parseFunctionLiteral() (*ast.FunctionLiteral, error) {
	start := p.advance().pos
	fn := &ast.FunctionLiteral{}
	if p.eat("*") {
		fn.Generator = true
	}
	if t := p.cur(); t.typ == tokIdent && !t.is("(") && !reservedWords[t.lit] {
		p.advance()
		fn.Name = &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	fn.Params = params
	fn.Body, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Span = p.spanFrom(start)
	return fn, nil
}

func (p *parser) parseParams() ([]ast.Pattern, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []ast.Pattern
	for !p.at(")") {
		if p.eat("...") {
			restStart := p.prev().pos
			target, err := p.parseBindingPattern()
			if err != nil {
				return nil, err
			}
			params = append(params, &ast.RestElement{Span: p.spanFrom(restStart), Argument: target})
		} else {
			param, err := p.parseBindingElement()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseClassDeclaration() (ast.Statement, error) {
	start := p.advance().pos
	stmt := &ast.ClassDeclaration{}
	if t := p.cur(); t.typ == tokIdent && !reservedWords[t.lit] && !t.is("{") {
		p.advance()
		stmt.Name = &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
	}
	if p.eat("extends") {
		super, err := p.parseCallMember()
		if err != nil {
			return nil, err
		}
		stmt.Super = super
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") && p.cur().typ != tokEOF {
		if p.eat(";") {
			continue
		}
		el, err := p.parseClassElement()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, el)
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *parser) parseClassElement() (ast.ClassElement, error) {
	start := p.cur().pos
	static := false
	if p.at("static") && !p.peek(1).is("(") && !p.peek(1).is("=") {
		p.advance()
		static = true
		if p.at("{") {
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return &ast.StaticBlock{Span: p.spanFrom(start), Body: block.Body}, nil
		}
	}

	computed := false
	var key ast.Expression
	switch t := p.cur(); {
	case t.is("["):
		p.advance()
		computed = true
		var err error
		key, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
	case t.typ == tokIdent || t.typ == tokString || t.typ == tokNumber:
		p.advance()
		key = &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
	default:
		return nil, p.errorf("unexpected token %q in class body", t.lit)
	}

	if p.at("(") {
		method := &ast.MethodDefinition{Key: key, Static: static, Computed: computed}
		fn := &ast.FunctionLiteral{}
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		fn.Params = params
		fn.Body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Span = ast.Span{Start: key.Pos(), End: p.prev().end}
		method.Value = fn
		method.Span = p.spanFrom(start)
		return method, nil
	}

	prop := &ast.PropertyDefinition{Key: key, Static: static, Computed: computed}
	if p.eat("=") {
		var err error
		prop.Value, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	prop.Span = p.spanFrom(start)
	return prop, nil
}

// ---------------------------------------------------------------------------
// Binding patterns

func (p *parser) parseBindingPattern() (ast.Pattern, error) {
	switch {
	case p.at("{"):
		return p.parseObjectPattern()
	case p.at("["):
		return p.parseArrayPattern()
	}
	t := p.cur()
	if t.typ != tokIdent || reservedWords[t.lit] {
		return nil, p.errorf("expected binding identifier, found %q", t.lit)
	}
	p.advance()
	return &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}, nil
}

// parseBindingElement parses a pattern with an optional default value.
func (p *parser) parseBindingElement() (ast.Pattern, error) {
	start := p.cur().pos
	pat, err := p.parseBindingPattern()
	if err != nil {
		return nil, err
	}
	if p.eat("=") {
		right, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentPattern{Span: p.spanFrom(start), Left: pat, Right: right}, nil
	}
	return pat, nil
}

func (p *parser) parseObjectPattern() (*ast.ObjectPattern, error) {
	open := p.advance()
	pat := &ast.ObjectPattern{}
	for !p.at("}") && p.cur().typ != tokEOF {
		if p.eat("...") {
			target, err := p.parseBindingPattern()
			if err != nil {
				return nil, err
			}
			pat.Rest = target
			break
		}
		prop, err := p.parsePropertyPattern()
		if err != nil {
			return nil, err
		}
		pat.Properties = append(pat.Properties, prop)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	pat.Span = p.spanFrom(open.pos)
	return pat, nil
}

func (p *parser) parsePropertyPattern() (*ast.PropertyPattern, error) {
	start := p.cur().pos
	prop := &ast.PropertyPattern{}

	if p.eat("[") {
		prop.Computed = true
		key, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		prop.Key = key
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
	} else {
		t := p.cur()
		if t.typ != tokIdent && t.typ != tokString && t.typ != tokNumber {
			return nil, p.errorf("expected property key, found %q", t.lit)
		}
		p.advance()
		prop.Key = &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
	}

	if p.eat(":") {
		value, err := p.parseBindingElement()
		if err != nil {
			return nil, err
		}
		prop.Value = value
	} else {
		// shorthand: the key identifier is the binding itself
		key, ok := prop.Key.(*ast.Identifier)
		if !ok || prop.Computed {
			return nil, p.errorf("invalid shorthand property pattern")
		}
		prop.Shorthand = true
		if p.eat("=") {
			right, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			prop.Value = &ast.AssignmentPattern{Span: p.spanFrom(start), Left: key, Right: right}
		} else {
			prop.Value = key
		}
	}
	prop.Span = p.spanFrom(start)
	return prop, nil
}

func (p *parser) parseArrayPattern() (*ast.ArrayPattern, error) {
	open := p.advance()
	pat := &ast.ArrayPattern{}
	for !p.at("]") && p.cur().typ != tokEOF {
		if p.at(",") {
			p.advance()
			pat.Elements = append(pat.Elements, nil) // elision
			continue
		}
		if p.eat("...") {
			restStart := p.prev().pos
			target, err := p.parseBindingPattern()
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, &ast.RestElement{Span: p.spanFrom(restStart), Argument: target})
		} else {
			el, err := p.parseBindingElement()
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, el)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	pat.Span = p.spanFrom(open.pos)
	return pat, nil
}

// ---------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpression() (ast.Expression, error) {
	start := p.cur().pos
	expr, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.at(",") {
		return expr, nil
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{expr}}
	for p.eat(",") {
		next, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		seq.Expressions = append(seq.Expressions, next)
	}
	seq.Span = p.spanFrom(start)
	return seq, nil
}

func (p *parser) parseExpressionNoIn() (ast.Expression, error) {
	p.noIn = true
	defer func() { p.noIn = false }()
	return p.parseExpression()
}

func (p *parser) parseAssignNoIn() (ast.Expression, error) {
	p.noIn = true
	defer func() { p.noIn = false }()
	return p.parseAssign()
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true,
	"&=": true, "|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *parser) parseAssign() (ast.Expression, error) {
	start := p.cur().pos

	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}

	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	op := p.cur()
	if op.typ != tokPunct || !assignOps[op.lit] {
		return left, nil
	}
	p.advance()

	if op.lit == "=" {
		// reinterpret literal LHS as a destructuring pattern (cover grammar)
		switch left.(type) {
		case *ast.ArrayLiteral, *ast.ObjectLiteral:
			pat, err := exprToPattern(left)
			if err != nil {
				return nil, err
			}
			left = pat.(ast.Expression)
		}
	}
	right, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentExpression{
		Span:     p.spanFrom(start),
		Operator: op.lit,
		Left:     left,
		Right:    right,
	}, nil
}

// tryParseArrow recognizes `ident => ...` and `(params) => ...` by token
// lookahead; it consumes nothing unless an arrow function is present.
func (p *parser) tryParseArrow() (ast.Expression, bool, error) {
	t := p.cur()
	start := t.pos

	if t.typ == tokIdent && t.lit == "async" && !p.peek(1).newlineBefore &&
		(p.peek(1).typ == tokIdent && p.peek(2).is("=>") || p.peek(1).is("(") && p.arrowAfterParen(1)) {
		p.advance() // async modifier
		arrow, ok, err := p.tryParseArrow()
		if err != nil || !ok {
			return nil, false, p.errorf("malformed async arrow function")
		}
		fn := arrow.(*ast.FunctionLiteral)
		fn.Async = true
		fn.Span = p.spanFrom(start)
		return fn, true, nil
	}

	if t.typ == tokIdent && !reservedWords[t.lit] && p.peek(1).is("=>") {
		p.advance()
		param := &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
		return p.parseArrowTail(start, []ast.Pattern{param})
	}

	if t.is("(") && p.arrowAfterParen(0) {
		params, err := p.parseParams()
		if err != nil {
			return nil, false, err
		}
		return p.parseArrowTail(start, params)
	}
	return nil, false, nil
}

// arrowAfterParen reports whether the parenthesized group starting at the
// given lookahead distance is followed by `=>`.
func (p *parser) arrowAfterParen(from int) bool {
	depth := 0
	for i := from; p.pos+i < len(p.toks); i++ {
		tok := p.peek(i)
		switch {
		case tok.is("(") || tok.is("[") || tok.is("{"):
			depth++
		case tok.is(")") || tok.is("]") || tok.is("}"):
			depth--
			if depth == 0 {
				return p.peek(i + 1).is("=>")
			}
		case tok.typ == tokEOF:
			return false
		}
	}
	return false
}

func (p *parser) parseArrowTail(start ast.Position, params []ast.Pattern) (ast.Expression, bool, error) {
	if _, err := p.expect("=>"); err != nil {
		return nil, false, err
	}
	fn := &ast.FunctionLiteral{Arrow: true, Params: params}
	if p.at("{") {
		body, err := p.parseBlock()
		if err != nil {
			return nil, false, err
		}
		fn.Body = body
	} else {
		expr, err := p.parseAssign()
		if err != nil {
			return nil, false, err
		}
		fn.Expr = expr
	}
	fn.Span = p.spanFrom(start)
	return fn, true, nil
}

func (p *parser) parseConditional() (ast.Expression, error) {
	start := p.cur().pos
	test, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.eat("?") {
		return test, nil
	}
	cons, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	alt, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{
		Span:       p.spanFrom(start),
		Test:       test,
		Consequent: cons,
		Alternate:  alt,
	}, nil
}

// binaryPrec maps operators to precedence levels; higher binds tighter.
var binaryPrec = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

func (p *parser) parseBinary(minPrec int) (ast.Expression, error) {
	start := p.cur().pos
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		prec, ok := binaryPrec[t.lit]
		if !ok || prec < minPrec || (t.typ != tokPunct && t.lit != "in" && t.lit != "instanceof") {
			return left, nil
		}
		if t.lit == "in" && p.noIn {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{
			Span:     p.spanFrom(start),
			Operator: t.lit,
			Left:     left,
			Right:    right,
		}
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	t := p.cur()
	switch {
	case t.is("++") || t.is("--"):
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpression{Span: p.spanFrom(t.pos), Operator: t.lit, Argument: arg, Prefix: true}, nil
	case t.is("!") || t.is("~") || t.is("+") || t.is("-") ||
		t.is("typeof") || t.is("void") || t.is("delete"):
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Span: p.spanFrom(t.pos), Operator: t.lit, Argument: arg}, nil
	}

	expr, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); (t.is("++") || t.is("--")) && !t.newlineBefore {
		p.advance()
		return &ast.UpdateExpression{
			Span:     ast.Span{Start: expr.Pos(), End: t.end},
			Operator: t.lit,
			Argument: expr,
		}, nil
	}
	return expr, nil
}

func (p *parser) parseCallMember() (ast.Expression, error) {
	start := p.cur().pos

	var expr ast.Expression
	if p.eat("new") {
		callee, err := p.parseCallMemberNoCall()
		if err != nil {
			return nil, err
		}
		n := &ast.NewExpression{Callee: callee}
		if p.at("(") {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			n.Arguments = args
		}
		n.Span = p.spanFrom(start)
		expr = n
	} else {
		var err error
		expr, err = p.parsePrimary()
		if err != nil {
			return nil, err
		}
	}
	return p.parseCallMemberSuffix(expr, start, true)
}

// parseCallMemberNoCall parses member access without call suffixes, for the
// callee of `new`.
func (p *parser) parseCallMemberNoCall() (ast.Expression, error) {
	start := p.cur().pos
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseCallMemberSuffix(expr, start, false)
}

func (p *parser) parseCallMemberSuffix(expr ast.Expression, start ast.Position, allowCall bool) (ast.Expression, error) {
	for {
		switch {
		case p.eat(".") || p.eat("?."):
			t := p.cur()
			if t.typ != tokIdent {
				return nil, p.errorf("expected property name, found %q", t.lit)
			}
			p.advance()
			expr = &ast.MemberExpression{
				Span:     p.spanFrom(start),
				Object:   expr,
				Property: &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit},
			}
		case p.at("["):
			p.advance()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{
				Span:     p.spanFrom(start),
				Object:   expr,
				Property: prop,
				Computed: true,
			}
		case allowCall && p.at("("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Span: p.spanFrom(start), Callee: expr, Arguments: args}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.at(")") {
		if p.eat("...") {
			spreadStart := p.prev().pos
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, &ast.SpreadElement{Span: p.spanFrom(spreadStart), Argument: arg})
		} else {
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.typ {
	case tokNumber:
		p.advance()
		return &ast.NumberLiteral{Span: ast.Span{Start: t.pos, End: t.end}, Raw: t.lit}, nil
	case tokString:
		p.advance()
		return &ast.StringLiteral{Span: ast.Span{Start: t.pos, End: t.end}, Raw: t.lit, Value: unquote(t.lit)}, nil
	case tokIdent:
		switch t.lit {
		case "true", "false":
			p.advance()
			return &ast.BooleanLiteral{Span: ast.Span{Start: t.pos, End: t.end}, Value: t.lit == "true"}, nil
		case "null":
			p.advance()
			return &ast.NullLiteral{Span: ast.Span{Start: t.pos, End: t.end}}, nil
		case "this":
			p.advance()
			return &ast.ThisExpression{Span: ast.Span{Start: t.pos, End: t.end}}, nil
		case "function":
			return p.parseFunctionLiteral()
		}
		if reservedWords[t.lit] {
			return nil, p.errorf("unexpected keyword %q", t.lit)
		}
		p.advance()
		return &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}, nil
	}

	switch {
	case p.at("("):
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case p.at("["):
		return p.parseArrayLiteral()
	case p.at("{"):
		return p.parseObjectLiteral()
	}
	return nil, p.errorf("unexpected token %q", t.lit)
}

func (p *parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.advance()
	lit := &ast.ArrayLiteral{}
	for !p.at("]") && p.cur().typ != tokEOF {
		if p.at(",") {
			p.advance()
			lit.Elements = append(lit.Elements, nil) // elision
			continue
		}
		if p.eat("...") {
			spreadStart := p.prev().pos
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, &ast.SpreadElement{Span: p.spanFrom(spreadStart), Argument: arg})
		} else {
			el, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, el)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	lit.Span = p.spanFrom(open.pos)
	return lit, nil
}

func (p *parser) parseObjectLiteral() (ast.Expression, error) {
	open := p.advance()
	lit := &ast.ObjectLiteral{}
	for !p.at("}") && p.cur().typ != tokEOF {
		propStart := p.cur().pos
		if p.eat("...") {
			arg, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			lit.Properties = append(lit.Properties, &ast.Property{
				Span:   p.spanFrom(propStart),
				Value:  arg,
				Spread: true,
			})
		} else {
			prop, err := p.parseObjectProperty(propStart)
			if err != nil {
				return nil, err
			}
			lit.Properties = append(lit.Properties, prop)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	lit.Span = p.spanFrom(open.pos)
	return lit, nil
}

func (p *parser) parseObjectProperty(start ast.Position) (*ast.Property, error) {
	prop := &ast.Property{}

	if p.eat("[") {
		prop.Computed = true
		key, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		prop.Key = key
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
	} else {
		t := p.cur()
		if t.typ != tokIdent && t.typ != tokString && t.typ != tokNumber {
			return nil, p.errorf("expected property key, found %q", t.lit)
		}
		p.advance()
		prop.Key = &ast.Identifier{Span: ast.Span{Start: t.pos, End: t.end}, Name: t.lit}
	}

	switch {
	case p.eat(":"):
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		prop.Value = value
	case p.at("("):
		// method shorthand
		fn := &ast.FunctionLiteral{}
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		fn.Params = params
		fn.Body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Span = ast.Span{Start: prop.Key.Pos(), End: p.prev().end}
		prop.Value = fn
	default:
		key, ok := prop.Key.(*ast.Identifier)
		if !ok || prop.Computed {
			return nil, p.errorf("invalid shorthand property")
		}
		prop.Shorthand = true
		if p.eat("=") {
			// only valid when the literal is reinterpreted as a pattern
			right, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			prop.Value = &ast.AssignmentExpression{
				Span:     p.spanFrom(start),
				Operator: "=",
				Left:     key,
				Right:    right,
			}
		} else {
			prop.Value = key
		}
	}
	prop.Span = p.spanFrom(start)
	return prop, nil
}

// ---------------------------------------------------------------------------
// Cover grammar conversion

// exprToPattern reinterprets an expression parsed from the left side of `=`
// (or a for-in/for-of head) as an assignment pattern.
func exprToPattern(expr ast.Expression) (ast.Pattern, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e, nil
	case *ast.MemberExpression:
		return e, nil
	case *ast.ObjectPattern, *ast.ArrayPattern:
		return e.(ast.Pattern), nil
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{Span: e.Span}
		for i, el := range e.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				if i != len(e.Elements)-1 {
					return nil, fmt.Errorf("%d:%d: rest element must be last", spread.Pos().Line, spread.Pos().Column)
				}
				target, err := exprToPattern(spread.Argument)
				if err != nil {
					return nil, err
				}
				pat.Elements = append(pat.Elements, &ast.RestElement{Span: spread.Span, Argument: target})
				continue
			}
			sub, err := exprToPattern(el)
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, sub)
		}
		return pat, nil
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{Span: e.Span}
		for i, prop := range e.Properties {
			if prop.Spread {
				if i != len(e.Properties)-1 {
					return nil, fmt.Errorf("%d:%d: rest property must be last", prop.Pos().Line, prop.Pos().Column)
				}
				target, err := exprToPattern(prop.Value)
				if err != nil {
					return nil, err
				}
				pat.Rest = target
				continue
			}
			value, err := exprToPattern(prop.Value)
			if err != nil {
				return nil, err
			}
			pat.Properties = append(pat.Properties, &ast.PropertyPattern{
				Span:      prop.Span,
				Key:       prop.Key,
				Value:     value,
				Computed:  prop.Computed,
				Shorthand: prop.Shorthand,
			})
		}
		return pat, nil
	case *ast.AssignmentExpression:
		if e.Operator != "=" {
			return nil, fmt.Errorf("%d:%d: invalid assignment target", e.Pos().Line, e.Pos().Column)
		}
		left, err := exprToPattern(e.Left)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentPattern{Span: e.Span, Left: left, Right: e.Right}, nil
	}
	return nil, fmt.Errorf("%d:%d: invalid assignment target", expr.Pos().Line, expr.Pos().Column)
}

func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	return raw[1 : len(raw)-1]
}
