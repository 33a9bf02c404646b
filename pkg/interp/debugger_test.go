package interp

import (
	"strings"
	"testing"
)

func TestDebuggerStepsToCompletion(t *testing.T) {
	program := compileSource(t, "val a as int: 3\nsay a")

	// One blank line per instruction: Alloc, Store, Alloc tmp-free say
	// call, Return.
	in := strings.NewReader("\n\n\n\n")
	var out strings.Builder

	d := NewDebugger(in, &out)
	if err := d.Run(program); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "[_main entry#0] Alloc a") {
		t.Errorf("missing first instruction banner\n%s", text)
	}
	if !strings.Contains(text, "(qdb) ") {
		t.Errorf("missing prompt\n%s", text)
	}
	if !strings.Contains(text, "3\n") {
		t.Errorf("program output should pass through\n%s", text)
	}
}

func TestDebuggerVarsCommand(t *testing.T) {
	program := compileSource(t, "val a as int: 3\nval b as int: 4")

	// Step past Alloc a / Store a, then inspect before continuing.
	in := strings.NewReader("s\ns\nvars\ns\ns\ns\n")
	var out strings.Builder

	d := NewDebugger(in, &out)
	if err := d.Run(program); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !strings.Contains(out.String(), "a = 3") {
		t.Errorf("vars should show a = 3\n%s", out.String())
	}
}

func TestDebuggerQuitStopsCleanly(t *testing.T) {
	program := compileSource(t, `
loop 0 to 1000000 {
    val t as int: 1
}
`)

	in := strings.NewReader("s\nq\n")
	var out strings.Builder

	d := NewDebugger(in, &out)
	if err := d.Run(program); err != nil {
		t.Fatalf("quit should not surface an error, got %v", err)
	}
}

func TestDebuggerExhaustedInputStops(t *testing.T) {
	program := compileSource(t, `
loop 0 to 1000000 {
    val t as int: 1
}
`)

	d := NewDebugger(strings.NewReader(""), &strings.Builder{})
	if err := d.Run(program); err != nil {
		t.Fatalf("EOF on the command stream should stop cleanly, got %v", err)
	}
}

func TestDebuggerUnknownCommandReprompts(t *testing.T) {
	program := compileSource(t, "val a as int: 1")

	in := strings.NewReader("bogus\ns\ns\ns\n")
	var out strings.Builder

	d := NewDebugger(in, &out)
	if err := d.Run(program); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "commands:") {
		t.Errorf("unknown command should print help\n%s", out.String())
	}
}
