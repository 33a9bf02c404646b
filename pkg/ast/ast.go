package ast

import (
	"bytes"
	"quarter/pkg/token"
	"strings"
)

type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the parse root. It owns every node outright: statements hold
// the top-level code, Functions holds one definition per function name.
type Program struct {
	Statements []Statement
	Functions  map[string]*FunctionDef
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, fn := range p.Functions {
		out.WriteString(fn.String())
		out.WriteString("\n")
	}
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Statements

// ValDecl introduces an immutable binding: `val name as type: expr`.
type ValDecl struct {
	Token        token.Token // the 'val' token
	Name         string
	DeclaredType string
	Init         Expression
}

func (vd *ValDecl) statementNode()       {}
func (vd *ValDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *ValDecl) String() string {
	var out bytes.Buffer
	out.WriteString("val ")
	out.WriteString(vd.Name)
	out.WriteString(" as ")
	out.WriteString(vd.DeclaredType)
	out.WriteString(": ")
	if vd.Init != nil {
		out.WriteString(vd.Init.String())
	}
	return out.String()
}

// Loop is bounded iteration: `loop start to end { body }`.
type Loop struct {
	Token token.Token // the 'loop' token
	Start Expression
	End   Expression
	Body  []Statement
}

func (l *Loop) statementNode()       {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) String() string {
	var out bytes.Buffer
	out.WriteString("loop ")
	out.WriteString(l.Start.String())
	out.WriteString(" to ")
	out.WriteString(l.End.String())
	out.WriteString(" { ")
	for _, s := range l.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

type FunctionDef struct {
	Token      token.Token // the 'func' token
	Name       string
	Parameters []string
	Body       []Statement
}

func (fd *FunctionDef) statementNode()       {}
func (fd *FunctionDef) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDef) String() string {
	var out bytes.Buffer
	out.WriteString("func ")
	out.WriteString(fd.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(fd.Parameters, ", "))
	out.WriteString(") { ")
	for _, s := range fd.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// CallStatement invokes a function: `call name(args)`.
type CallStatement struct {
	Token token.Token // the 'call' token
	Name  string
	Args  []Expression
}

func (cs *CallStatement) statementNode()       {}
func (cs *CallStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CallStatement) String() string {
	var out bytes.Buffer
	out.WriteString("call ")
	out.WriteString(cs.Name)
	out.WriteString("(")
	args := []string{}
	for _, a := range cs.Args {
		args = append(args, a.String())
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// SayStatement prints a value: `say expr`.
type SayStatement struct {
	Token token.Token // the 'say' token
	Value Expression
}

func (ss *SayStatement) statementNode()       {}
func (ss *SayStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SayStatement) String() string {
	return "say " + ss.Value.String()
}

// WhenStatement runs its body when the condition is non-zero:
// `when expr { body }`.
type WhenStatement struct {
	Token token.Token // the 'when' token
	Cond  Expression
	Body  []Statement
}

func (ws *WhenStatement) statementNode()       {}
func (ws *WhenStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhenStatement) String() string {
	var out bytes.Buffer
	out.WriteString("when ")
	out.WriteString(ws.Cond.String())
	out.WriteString(" { ")
	for _, s := range ws.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// Expressions

// Literal is a numeric constant kept as source text.
type Literal struct {
	Token token.Token
	Value string
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string       { return l.Value }

// Variable is a reference to a bound name.
type Variable struct {
	Token token.Token
	Name  string
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Literal }
func (v *Variable) String() string       { return v.Name }

// BinaryExpr is exactly one operator over two operands. The grammar has
// no precedence climbing; chains are rejected by the parser.
type BinaryExpr struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpr) expressionNode()      {}
func (be *BinaryExpr) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpr) String() string {
	return be.Left.String() + " " + be.Operator + " " + be.Right.String()
}

// CallExpr is a call in expression position, e.g. a dg_add(a, b)
// initializer. Arguments are literals or variable references only.
type CallExpr struct {
	Token token.Token // the '(' token
	Name  string
	Args  []Expression
}

func (ce *CallExpr) expressionNode()      {}
func (ce *CallExpr) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpr) String() string {
	var out bytes.Buffer
	out.WriteString(ce.Name)
	out.WriteString("(")
	args := []string{}
	for _, a := range ce.Args {
		args = append(args, a.String())
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}
