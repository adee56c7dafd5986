// Package parser implements a hand-rolled recursive-descent parser over
// the token stream produced by internal/lexer, grounded on the shape of
// xiaobogaga-hack/compiler/parser.go: a Parser walking a flat token
// slice with expectToken/stepForward/makeError helpers and one method
// per grammar production. Expressions are parsed with the classic
// precedence-climbing scheme, the same idea as
// xiaobogaga-hack/compiler/internal/expression.go's buildExpressionsTree0
// but expressed as one function per precedence level rather than a
// priority-merging loop. Every constructed node is stamped with a fresh
// ast.NodeID so later passes can decorate it without mutating the tree.
package parser

import (
	"fmt"
	"strconv"

	"tacgen/internal/ast"
	"tacgen/internal/token"
)

// Parser consumes a token slice and builds a parse tree.
type Parser struct {
	tokens []token.Token
	pos    int
	nextID ast.NodeID
}

// New creates a Parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Error is a syntax error, carrying the offending token's position.
type Error struct {
	Line, Col int
	Msg       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses a complete program from a token stream.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) base(tok token.Token) ast.Base {
	p.nextID++
	return ast.NewBase(p.nextID, ast.Position{Line: tok.Line, Col: tok.Col})
}

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) stepForward() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) at(kind token.Kind) bool {
	return p.current().Kind == kind
}

// peek returns the token after the current one, or EOF past the end.
func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+1]
}

// expectToken consumes and returns the current token if it matches kind.
func (p *Parser) expectToken(kind token.Kind) (token.Token, bool) {
	if !p.at(kind) {
		return token.Token{}, false
	}
	tok := p.current()
	p.stepForward()
	return tok, true
}

func (p *Parser) require(kind token.Kind) (token.Token, error) {
	tok, ok := p.expectToken(kind)
	if !ok {
		return tok, p.makeError(fmt.Sprintf("expected %s but found %s %q", kind, p.current().Kind, p.current().Content))
	}
	return tok, nil
}

func (p *Parser) makeError(msg string) error {
	tok := p.current()
	return &Error{Line: tok.Line, Col: tok.Col, Msg: msg}
}

// ParseProgram parses a whole source file: zero or more functions.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	tok := p.current()
	prog := &ast.Program{Base: p.base(tok)}
	for !p.at(token.EOF) {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	startTok := p.current()
	if _, err := p.require(token.Func); err != nil {
		return nil, err
	}
	nameTok, err := p.require(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.require(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if !p.at(token.RParen) {
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.require(token.RParen); err != nil {
		return nil, err
	}
	var retType ast.Type
	if _, ok := p.expectToken(token.Colon); ok {
		if p.at(token.VoidKw) {
			p.stepForward()
		} else {
			retType, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
	}
	var locals []*ast.VarDecl
	if p.at(token.Var) {
		locals, err = p.parseVarSection()
		if err != nil {
			return nil, err
		}
	}
	var body []ast.Stmt
	for !p.at(token.EndFunc) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.require(token.EndFunc); err != nil {
		return nil, err
	}
	return &ast.Function{
		Base:       p.base(startTok),
		Name:       nameTok.Content,
		Params:     params,
		ReturnType: retType,
		Locals:     locals,
		Body:       body,
	}, nil
}

func (p *Parser) parseParamList() ([]*ast.Param, error) {
	var params []*ast.Param
	for {
		tok := p.current()
		nameTok, err := p.require(token.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.require(token.Colon); err != nil {
			return nil, err
		}
		tp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Base: p.base(tok), Name: nameTok.Content, Type: tp})
		if _, ok := p.expectToken(token.Comma); !ok {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseVarSection() ([]*ast.VarDecl, error) {
	if _, err := p.require(token.Var); err != nil {
		return nil, err
	}
	var decls []*ast.VarDecl
	for !p.at(token.EndVar) {
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	if _, err := p.require(token.EndVar); err != nil {
		return nil, err
	}
	return decls, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	tok := p.current()
	var names []string
	for {
		nameTok, err := p.require(token.Ident)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Content)
		if _, ok := p.expectToken(token.Comma); !ok {
			break
		}
	}
	tp, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.VarDecl{Base: p.base(tok), Names: names, Type: tp}, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	tok := p.current()
	if p.at(token.ArrayKw) {
		p.stepForward()
		if _, err := p.require(token.Lt); err != nil {
			return nil, err
		}
		sizeTok, err := p.require(token.IntLit)
		if err != nil {
			return nil, err
		}
		if _, err := p.require(token.Comma); err != nil {
			return nil, err
		}
		elem, err := p.parseBasicType()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(token.Gt); err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(sizeTok.Content)
		if err != nil {
			return nil, p.makeError(fmt.Sprintf("malformed array size %q", sizeTok.Content))
		}
		return &ast.ArrayType{Base: p.base(tok), Size: size, Elem: elem}, nil
	}
	return p.parseBasicType()
}

func (p *Parser) parseBasicType() (*ast.BasicType, error) {
	tok := p.current()
	var kind ast.BasicKind
	switch tok.Kind {
	case token.IntKw:
		kind = ast.IntType
	case token.FloatKw:
		kind = ast.FloatType
	case token.CharKw:
		kind = ast.CharType
	case token.BoolKw:
		kind = ast.BoolType
	default:
		return nil, p.makeError(fmt.Sprintf("expected a type but found %q", tok.Content))
	}
	p.stepForward()
	return &ast.BasicType{Base: p.base(tok), Kind: kind}, nil
}

// parseStatement dispatches on the current token's keyword.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.current().Kind {
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.Read:
		return p.parseReadStmt()
	case token.Write:
		return p.parseWriteStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.Ident:
		return p.parseIdentLeadStmt()
	default:
		return nil, p.makeError(fmt.Sprintf("unexpected token %s %q at statement start", p.current().Kind, p.current().Content))
	}
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	tok := p.current()
	p.stepForward()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(token.Then); err != nil {
		return nil, err
	}
	var thenBody []ast.Stmt
	for !p.at(token.Else) && !p.at(token.EndIf) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		thenBody = append(thenBody, stmt)
	}
	var elseBody []ast.Stmt
	if _, ok := p.expectToken(token.Else); ok {
		for !p.at(token.EndIf) {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			elseBody = append(elseBody, stmt)
		}
	}
	if _, err := p.require(token.EndIf); err != nil {
		return nil, err
	}
	return &ast.IfStmt{Base: p.base(tok), Cond: cond, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	tok := p.current()
	p.stepForward()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(token.Do); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for !p.at(token.EndWhile) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.require(token.EndWhile); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: p.base(tok), Cond: cond, Body: body}, nil
}

func (p *Parser) parseReadStmt() (*ast.ReadStmt, error) {
	tok := p.current()
	p.stepForward()
	target, err := p.parseLeftExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReadStmt{Base: p.base(tok), Target: target}, nil
}

func (p *Parser) parseWriteStmt() (*ast.WriteStmt, error) {
	tok := p.current()
	p.stepForward()
	if strTok, ok := p.expectToken(token.StringLit); ok {
		return &ast.WriteStmt{Base: p.base(tok), IsString: true, Raw: strTok.Content}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.WriteStmt{Base: p.base(tok), Value: value}, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	tok := p.current()
	p.stepForward()
	if p.startsExpr() {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Base: p.base(tok), Value: value}, nil
	}
	return &ast.ReturnStmt{Base: p.base(tok)}, nil
}

// parseIdentLeadStmt disambiguates a call statement `f(...)` from an
// assignment to a left-expression `x := ...` / `x[i] := ...`.
func (p *Parser) parseIdentLeadStmt() (ast.Stmt, error) {
	tok := p.current()
	if p.peek().Kind == token.LParen {
		call, err := p.parseCallExpr()
		if err != nil {
			return nil, err
		}
		return &ast.CallStmt{Base: p.base(tok), Call: call}, nil
	}
	left, err := p.parseLeftExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Base: p.base(tok), Left: left, Value: value}, nil
}

// parseLeftExpr parses an assignable expression: a bare identifier or an
// indexed identifier.
func (p *Parser) parseLeftExpr() (ast.Expr, error) {
	tok, err := p.require(token.Ident)
	if err != nil {
		return nil, err
	}
	var expr ast.Expr = &ast.Ident{Base: p.base(tok), Name: tok.Content}
	if _, ok := p.expectToken(token.LBracket); ok {
		index, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(token.RBracket); err != nil {
			return nil, err
		}
		expr = &ast.IndexExpr{Base: p.base(tok), Array: expr, Index: index}
	}
	return expr, nil
}

func (p *Parser) startsExpr() bool {
	switch p.current().Kind {
	case token.IntLit, token.FloatLit, token.CharLit, token.TrueKw, token.FalseKw,
		token.Ident, token.LParen, token.Minus, token.Plus, token.Not:
		return true
	}
	return false
}

// Expression grammar, loosest to tightest binding:
//
//	expr      := orExpr
//	orExpr    := andExpr ('or' andExpr)*
//	andExpr   := relExpr ('and' relExpr)*
//	relExpr   := addExpr (relOp addExpr)?
//	addExpr   := mulExpr (('+'|'-') mulExpr)*
//	mulExpr   := unary (('*'|'/'|'%') unary)*
//	unary     := ('-'|'+'|'not') unary | primary
//	primary   := literal | ident | call | index | '(' expr ')'
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OrKw) {
		tok := p.current()
		p.stepForward()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: p.base(tok), Op: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for p.at(token.AndKw) {
		tok := p.current()
		p.stepForward()
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: p.base(tok), Op: ast.And, Left: left, Right: right}
	}
	return left, nil
}

var relOps = map[token.Kind]ast.BinaryOp{
	token.Lt: ast.Lt,
	token.Le: ast.Le,
	token.Gt: ast.Gt,
	token.Ge: ast.Ge,
	token.Eq: ast.Eq,
	token.Ne: ast.Ne,
}

func (p *Parser) parseRel() (ast.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	op, ok := relOps[p.current().Kind]
	if !ok {
		return left, nil
	}
	tok := p.current()
	p.stepForward()
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Base: p.base(tok), Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdd() (ast.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		tok := p.current()
		op := ast.Add
		if tok.Kind == token.Minus {
			op = ast.Sub
		}
		p.stepForward()
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: p.base(tok), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMul() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		tok := p.current()
		var op ast.BinaryOp
		switch tok.Kind {
		case token.Star:
			op = ast.Mul
		case token.Slash:
			op = ast.Div
		case token.Percent:
			op = ast.Mod
		}
		p.stepForward()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: p.base(tok), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.Minus:
		p.stepForward()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: p.base(tok), Op: ast.UnaryMinus, Operand: operand}, nil
	case token.Plus:
		p.stepForward()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: p.base(tok), Op: ast.UnaryPlus, Operand: operand}, nil
	case token.Not:
		p.stepForward()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: p.base(tok), Op: ast.UnaryNot, Operand: operand}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.IntLit:
		p.stepForward()
		v, err := strconv.ParseInt(tok.Content, 10, 64)
		if err != nil {
			return nil, p.makeError(fmt.Sprintf("malformed integer literal %q", tok.Content))
		}
		return &ast.IntLit{Base: p.base(tok), Value: v}, nil
	case token.FloatLit:
		p.stepForward()
		v, err := strconv.ParseFloat(tok.Content, 64)
		if err != nil {
			return nil, p.makeError(fmt.Sprintf("malformed float literal %q", tok.Content))
		}
		return &ast.FloatLit{Base: p.base(tok), Value: v, Raw: tok.Content}, nil
	case token.CharLit:
		p.stepForward()
		if len(tok.Content) < 3 {
			return nil, p.makeError(fmt.Sprintf("malformed character literal %q", tok.Content))
		}
		return &ast.CharLit{Base: p.base(tok), Value: tok.Content[1], Raw: tok.Content}, nil
	case token.TrueKw:
		p.stepForward()
		return &ast.BoolLit{Base: p.base(tok), Value: true}, nil
	case token.FalseKw:
		p.stepForward()
		return &ast.BoolLit{Base: p.base(tok), Value: false}, nil
	case token.LParen:
		p.stepForward()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(token.RParen); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Base: p.base(tok), Inner: inner}, nil
	case token.Ident:
		if p.peek().Kind == token.LParen {
			return p.parseCallExpr()
		}
		p.stepForward()
		var expr ast.Expr = &ast.Ident{Base: p.base(tok), Name: tok.Content}
		if _, ok := p.expectToken(token.LBracket); ok {
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.require(token.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Base: p.base(tok), Array: expr, Index: index}
		}
		return expr, nil
	default:
		return nil, p.makeError(fmt.Sprintf("unexpected token %s %q in expression", tok.Kind, tok.Content))
	}
}

func (p *Parser) parseCallExpr() (*ast.CallExpr, error) {
	tok := p.current()
	nameTok, err := p.require(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.require(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.at(token.RParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.expectToken(token.Comma); !ok {
				break
			}
		}
	}
	if _, err := p.require(token.RParen); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Base: p.base(tok), Callee: nameTok.Content, Args: args}, nil
}
