package token

import "fmt"

type TokenType string

const (
	EOF = "EOF"

	// Identifiers & Literals
	IDENT  = "IDENT"
	NUMBER = "NUMBER"

	// Any character the lexer has no dedicated kind for becomes a
	// single-character SYMBOL token. The lexer never fails; stray
	// characters surface downstream as parse errors.
	SYMBOL = "SYMBOL"

	// Operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	ASSIGN   = "="

	// Delimiters
	COMMA  = ","
	COLON  = ":"
	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	VAL    = "VAL"
	AS     = "AS"
	LOOP   = "LOOP"
	TO     = "TO"
	FUNC   = "FUNC"
	CALL   = "CALL"
	SAY    = "SAY"
	WHEN   = "WHEN"
	RETURN = "RETURN"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"val":    VAL,
	"as":     AS,
	"loop":   LOOP,
	"to":     TO,
	"func":   FUNC,
	"call":   CALL,
	"say":    SAY,
	"when":   WHEN,
	"return": RETURN,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
