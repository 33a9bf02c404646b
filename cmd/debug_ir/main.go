package main

import (
	"fmt"
	"os"

	"quarter/pkg/ir"
	"quarter/pkg/lower"
	"quarter/pkg/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug_ir '<code>'")
		fmt.Println("       debug_ir -mapping")
		os.Exit(1)
	}

	if os.Args[1] == "-mapping" {
		printMapping()
		return
	}

	program, err := parser.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lowered, err := lower.Lower(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Input: %s\n\n", os.Args[1])
	fmt.Println("IR:")
	fmt.Println("---")
	fmt.Print(lowered.String())

	for _, name := range lowered.FunctionNames() {
		fn := lowered.Functions[name]
		fmt.Printf("\n%s: frame %d bytes, slots %v\n", name, fn.FrameSize, fn.VariableOffsets)
	}
}

func printMapping() {
	fmt.Println("Keyword      AST form                  Opcode        x86-64 sketch")
	fmt.Println("-------      --------                  ------        -------------")
	for _, entry := range ir.Mapping {
		fmt.Printf("%-12s %-25s %-13s %s\n", entry.Keyword, entry.ASTForm, entry.Op, entry.X86)
	}
}
