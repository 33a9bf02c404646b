package parser

import (
	"fmt"
	"quarter/pkg/ast"
	"quarter/pkg/lexer"
	"quarter/pkg/token"
	"strings"
)

// Error is a failed parse. The parse aborts as a whole: callers never see
// a partial AST.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "parse error: " + strings.Join(e.Messages, "; ")
}

// Parse builds the AST for a whole source text.
func Parse(source string) (*ast.Program, error) {
	p := New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		return nil, &Error{Messages: errs}
	}
	return program, nil
}

type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{
		Statements: []ast.Statement{},
		Functions:  map[string]*ast.FunctionDef{},
	}

	for p.curToken.Type != token.EOF {
		stmt := p.parseStatement(true)
		if stmt != nil {
			if fd, ok := stmt.(*ast.FunctionDef); ok {
				if _, exists := program.Functions[fd.Name]; exists {
					p.addError("function %q defined twice", fd.Name)
				}
				program.Functions[fd.Name] = fd
			} else {
				program.Statements = append(program.Statements, stmt)
			}
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement(topLevel bool) ast.Statement {
	switch p.curToken.Type {
	case token.VAL:
		return p.parseValDecl()
	case token.LOOP:
		return p.parseLoop()
	case token.FUNC:
		if !topLevel {
			p.addError("function definitions are only allowed at the top level")
			return nil
		}
		return p.parseFunctionDef()
	case token.CALL:
		return p.parseCallStatement()
	case token.SAY:
		return p.parseSayStatement()
	case token.WHEN:
		return p.parseWhenStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		p.addError("unexpected token %q, expected a statement", p.curToken.Literal)
		return nil
	}
}

// parseValDecl accepts both declaration spellings:
//
//	val name as type: expr
//	val name: type = expr
func (p *Parser) parseValDecl() ast.Statement {
	stmt := &ast.ValDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	switch p.peekToken.Type {
	case token.AS:
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.DeclaredType = p.curToken.Literal
		if !p.expectPeek(token.COLON) {
			return nil
		}
	case token.COLON:
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.DeclaredType = p.curToken.Literal
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
	default:
		p.peekError(token.AS)
		return nil
	}

	p.nextToken()
	stmt.Init = p.parseExpression()
	if stmt.Init == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseLoop() ast.Statement {
	stmt := &ast.Loop{Token: p.curToken}

	p.nextToken()
	stmt.Start = p.parseExpression()
	if stmt.Start == nil {
		return nil
	}

	if !p.expectPeek(token.TO) {
		return nil
	}

	p.nextToken()
	stmt.End = p.parseExpression()
	if stmt.End == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseFunctionDef() ast.Statement {
	stmt := &ast.FunctionDef{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	stmt.Parameters = p.parseParameters()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseParameters() []string {
	params := []string{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, p.curToken.Literal)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.curToken.Literal)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return params
}

// parseBlock consumes statements until the closing brace. curToken is the
// opening brace on entry and the closing brace on exit.
func (p *Parser) parseBlock() []ast.Statement {
	stmts := []ast.Statement{}

	p.nextToken() // consume '{'

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement(false)
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.addError("missing closing brace")
	}

	return stmts
}

func (p *Parser) parseCallStatement() ast.Statement {
	stmt := &ast.CallStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	stmt.Args = p.parseCallArguments()
	return stmt
}

func (p *Parser) parseSayStatement() ast.Statement {
	stmt := &ast.SayStatement{Token: p.curToken}

	p.nextToken()
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseWhenStatement() ast.Statement {
	stmt := &ast.WhenStatement{Token: p.curToken}

	p.nextToken()
	stmt.Cond = p.parseExpression()
	if stmt.Cond == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// A bare `return` before the closing brace returns no value.
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		return nil
	}

	return stmt
}

// parseExpression parses `literalOrVar (operator literalOrVar)?`, at most
// one binary operator. Chained operators are a grammar limitation and are
// reported, not silently reassociated.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	if !isOperator(p.peekToken.Type) {
		return left
	}

	p.nextToken()
	expr := &ast.BinaryExpr{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expr.Right = p.parsePrimary()
	if expr.Right == nil {
		return nil
	}

	if isOperator(p.peekToken.Type) {
		p.addError("chained expressions are not supported (after %q)", expr.String())
		return nil
	}

	return expr
}

// parsePrimary reads a literal or a name. If the next token is '(' the
// name is reinterpreted as a call. That lookahead-on-punctuation rule is
// what makes argument lists like dg_add(a, b) parse.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		return &ast.Literal{Token: p.curToken, Value: p.curToken.Literal}
	case token.MINUS:
		if !p.expectPeek(token.NUMBER) {
			return nil
		}
		return &ast.Literal{Token: p.curToken, Value: "-" + p.curToken.Literal}
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			call := &ast.CallExpr{Name: p.curToken.Literal}
			p.nextToken() // '('
			call.Token = p.curToken
			call.Args = p.parseCallArguments()
			return call
		}
		return &ast.Variable{Token: p.curToken, Name: p.curToken.Literal}
	default:
		p.addError("unexpected token %q in expression", p.curToken.Literal)
		return nil
	}
}

// parseCallArguments expects curToken to be '('. Arguments are literals or
// variable references only; nested calls and operators are out of grammar.
func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseArgument())

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseArgument())
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}

func (p *Parser) parseArgument() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		return &ast.Literal{Token: p.curToken, Value: p.curToken.Literal}
	case token.MINUS:
		if !p.expectPeek(token.NUMBER) {
			return nil
		}
		return &ast.Literal{Token: p.curToken, Value: "-" + p.curToken.Literal}
	case token.IDENT:
		return &ast.Variable{Token: p.curToken, Name: p.curToken.Literal}
	default:
		p.addError("call arguments must be literals or variables, got %q", p.curToken.Literal)
		return nil
	}
}

func isOperator(t token.TokenType) bool {
	switch t {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH:
		return true
	}
	return false
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) addError(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}
