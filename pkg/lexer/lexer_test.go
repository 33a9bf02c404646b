package lexer

import (
	"quarter/pkg/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `val a as int: 3
val b as int: a + 4
loop 0 to 5 {
    call work(a, b)
}
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAL, "val"},
		{token.IDENT, "a"},
		{token.AS, "as"},
		{token.IDENT, "int"},
		{token.COLON, ":"},
		{token.NUMBER, "3"},
		{token.VAL, "val"},
		{token.IDENT, "b"},
		{token.AS, "as"},
		{token.IDENT, "int"},
		{token.COLON, ":"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.NUMBER, "4"},
		{token.LOOP, "loop"},
		{token.NUMBER, "0"},
		{token.TO, "to"},
		{token.NUMBER, "5"},
		{token.LBRACE, "{"},
		{token.CALL, "call"},
		{token.IDENT, "work"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestAlternateValSpelling(t *testing.T) {
	input := `val counter: int = 0`
	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAL, "val"},
		{token.IDENT, "counter"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.ASSIGN, "="},
		{token.NUMBER, "0"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := `# leading comment
val a as int: 3 # trailing comment
# closing comment`

	l := New(input)
	toks := l.Tokens()

	want := []token.TokenType{token.VAL, token.IDENT, token.AS, token.IDENT, token.COLON, token.NUMBER}
	if len(toks) != len(want) {
		t.Fatalf("token count wrong. expected=%d, got=%d (%v)", len(want), len(toks), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("tokens[%d] - tokentype wrong. expected=%q, got=%q", i, tt, toks[i].Type)
		}
	}
}

func TestStrayCharacterBecomesSymbol(t *testing.T) {
	l := New("val a @ 3")

	var symbol token.Token
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		if tok.Type == token.SYMBOL {
			symbol = tok
		}
	}

	if symbol.Literal != "@" {
		t.Fatalf("expected stray '@' to lex as SYMBOL, got %q", symbol.Literal)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "val a as int: 1\nval b as int: 2"

	l := New(input)
	var second token.Token
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		if tok.Type == token.IDENT && tok.Literal == "b" {
			second = tok
		}
	}

	if second.Line != 2 {
		t.Errorf("identifier b line wrong. expected=2, got=%d", second.Line)
	}
	if second.Column != 5 {
		t.Errorf("identifier b column wrong. expected=5, got=%d", second.Column)
	}
}
