package main

import (
	"fmt"
	"os"

	"quarter/pkg/lexer"
	"quarter/pkg/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug_tokens '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)

	fmt.Printf("Input: %s\n\n", input)
	fmt.Println("Tokens:")
	fmt.Println("-------")

	for {
		tok := l.NextToken()
		fmt.Printf("%-10s %-20s (line %d, col %d)\n", tok.Type, fmt.Sprintf("'%s'", tok.Literal), tok.Line, tok.Column)

		if tok.Type == token.EOF {
			break
		}
	}
}
