package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"quarter/pkg/codegen"
	"quarter/pkg/interp"
	"quarter/pkg/ir"
	"quarter/pkg/lower"
	"quarter/pkg/parser"
	"quarter/pkg/version"

	"github.com/joho/godotenv"
)

const defaultPrompt = ">>> "

func main() {
	// Optional .env for QUARTER_* settings; absence is not an error.
	godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]

	switch command {
	case "--version", "-v", "version":
		printVersion()
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	// A bare .qtr path is a shortcut for "quarter run <file>".
	if strings.HasSuffix(command, ".qtr") {
		runFile(command)
		return
	}

	switch command {
	case "run":
		runFile(fileArg("run"))
	case "asm":
		emitAsm(fileArg("asm"))
	case "ir":
		emitIR(fileArg("ir"))
	case "repl":
		startREPL()
	case "debug":
		debugFile(fileArg("debug"))
	case "serve-debug":
		serveDebug(fileArg("serve-debug"))
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printHelp()
		os.Exit(1)
	}
}

func fileArg(cmd string) string {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: quarter %s <file.qtr>\n", cmd)
		os.Exit(1)
	}
	return os.Args[2]
}

func compileFile(filename string) (*ir.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	return compileSource(string(data))
}

func compileSource(source string) (*ir.Program, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return lower.Lower(program)
}

func runFile(filename string) {
	program, err := compileFile(filename)
	if err != nil {
		fail(err)
	}
	if err := interp.New(program).Execute(); err != nil {
		fail(err)
	}
}

func emitAsm(filename string) {
	program, err := compileFile(filename)
	if err != nil {
		fail(err)
	}
	fmt.Print(codegen.Generate(program))
}

func emitIR(filename string) {
	program, err := compileFile(filename)
	if err != nil {
		fail(err)
	}
	fmt.Print(program.String())
}

func debugFile(filename string) {
	program, err := compileFile(filename)
	if err != nil {
		fail(err)
	}
	d := interp.NewDebugger(os.Stdin, os.Stdout)
	if err := d.Run(program); err != nil {
		fail(err)
	}
}

func serveDebug(filename string) {
	program, err := compileFile(filename)
	if err != nil {
		fail(err)
	}

	addr := os.Getenv("QUARTER_DEBUG_ADDR")
	if addr == "" {
		addr = "localhost:7712"
	}
	secret := os.Getenv("QUARTER_DEBUG_SECRET")

	fmt.Printf("Inspector listening on ws://%s/debug\n", addr)
	if secret == "" {
		fmt.Println("Warning: QUARTER_DEBUG_SECRET not set, connections are unauthenticated")
	}
	if err := interp.NewInspector(program, secret).ListenAndServe(addr); err != nil {
		fail(err)
	}
}

func startREPL() {
	prompt := os.Getenv("QUARTER_PROMPT")
	if prompt == "" {
		prompt = defaultPrompt
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Quarter REPL v" + version.Version)
	fmt.Println("Each line is compiled and run on its own; type 'exit' to quit")

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		program, err := compileSource(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := interp.New(program).Execute(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("Quarter %s\n", version.Version)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
}

func printUsage() {
	fmt.Println("Quarter Programming Language v" + version.Version)
	fmt.Println("\nUsage:")
	fmt.Println("  quarter <file.qtr>        Run a Quarter script")
	fmt.Println("  quarter run <file>        Run a Quarter script (explicit)")
	fmt.Println("  quarter asm <file>        Print generated x86-64 assembly")
	fmt.Println("  quarter ir <file>         Print the lowered IR")
	fmt.Println("  quarter repl              Start the interactive REPL")
	fmt.Println("  quarter debug <file>      Step through a script instruction by instruction")
	fmt.Println("  quarter serve-debug <file> Serve the step debugger over a websocket")
	fmt.Println("  quarter version           Show version information")
	fmt.Println("  quarter help              Show this help message")
}

func printHelp() {
	printUsage()
	fmt.Println("\nEnvironment (read from the process or an optional .env file):")
	fmt.Println("  QUARTER_DEBUG_ADDR        serve-debug listen address (default localhost:7712)")
	fmt.Println("  QUARTER_DEBUG_SECRET      HS256 secret for inspector auth; empty disables auth")
	fmt.Println("  QUARTER_PROMPT            REPL prompt string")
	fmt.Println("\nFlags:")
	fmt.Println("  -v, --version             Show version information")
	fmt.Println("  -h, --help                Show this help message")
}
