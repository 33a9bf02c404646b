package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"quarter/pkg/ir"
	"sort"
	"strings"
)

// Debugger runs a program one instruction at a time, blocking on a
// command before each step. Synchronous and single-threaded by design:
// a single stepper, not a scheduler.
type Debugger struct {
	In  io.Reader
	Out io.Writer
}

func NewDebugger(in io.Reader, out io.Writer) *Debugger {
	return &Debugger{In: in, Out: out}
}

// Run executes the program under the step gate. Quitting mid-run is a
// clean exit, not an error.
func (d *Debugger) Run(program *ir.Program) error {
	scanner := bufio.NewScanner(d.In)
	m := New(program, WithOutput(d.Out), WithStepper(d.gate(scanner)))

	err := m.Execute()
	if errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

func (d *Debugger) gate(scanner *bufio.Scanner) StepFunc {
	return func(snap *Snapshot) error {
		fmt.Fprintf(d.Out, "[%s %s#%d] %s\n", snap.Function, snap.Block, snap.Index, snap.Instruction)
		for {
			fmt.Fprint(d.Out, "(qdb) ")
			if !scanner.Scan() {
				return ErrStopped
			}
			switch strings.TrimSpace(scanner.Text()) {
			case "", "s", "step":
				return nil
			case "v", "vars":
				d.printVars(snap.Current())
			case "q", "quit", "exit":
				return ErrStopped
			default:
				fmt.Fprintln(d.Out, "commands: step (enter or s), v = variables, q = quit")
			}
		}
	}
}

func (d *Debugger) printVars(frame FrameState) {
	if len(frame.Vars) == 0 {
		fmt.Fprintf(d.Out, "%s: no variables\n", frame.Function)
		return
	}
	names := make([]string, 0, len(frame.Vars))
	for name := range frame.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(d.Out, "  %s = %d\n", name, frame.Vars[name])
	}
}
