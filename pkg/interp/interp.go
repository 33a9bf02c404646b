// Package interp executes IR programs directly over an explicit stack of
// call frames, one frame per live call. The same execution loop backs
// unattended runs, the CLI step debugger, and the remote inspector.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"quarter/pkg/dg"
	"quarter/pkg/ir"
	"strconv"
)

// ErrStopped halts execution cleanly from a step gate.
var ErrStopped = errors.New("execution stopped")

// UndefinedFunctionError is a call to a name absent from the program.
type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %q", e.Name)
}

// ArgumentCountError is a call whose argument list does not match the
// callee's parameter list. Checked eagerly so a short call fails at the
// call site instead of as an undefined variable inside the callee.
type ArgumentCountError struct {
	Name string
	Want int
	Got  int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("function %q takes %d arguments, got %d", e.Name, e.Want, e.Got)
}

// Frame is one call's variable bindings. Frames are strictly
// stack-discipline: pushed on call entry, popped on return, never
// referenced afterwards.
type Frame struct {
	Function string
	Vars     map[string]int64
}

// StepFunc gates execution: it runs before every instruction and returns
// nil to step or ErrStopped to halt.
type StepFunc func(*Snapshot) error

// Builtin is a native function callable from source. The call form
// carries no destination, so return values are discarded.
type Builtin func(m *Machine, args []int64) (int64, error)

type Machine struct {
	program  *ir.Program
	frames   []*Frame
	out      io.Writer
	step     StepFunc
	builtins map[string]Builtin
}

type Option func(*Machine)

func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

func WithStepper(fn StepFunc) Option {
	return func(m *Machine) { m.step = fn }
}

func New(program *ir.Program, opts ...Option) *Machine {
	m := &Machine{
		program:  program,
		out:      os.Stdout,
		builtins: defaultBuiltins(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs the program's _main function to completion.
func (m *Machine) Execute() error {
	if m.program.Main() == nil {
		return &UndefinedFunctionError{Name: ir.EntryFunction}
	}
	return m.call(ir.EntryFunction, nil)
}

// call binds args positionally in a fresh frame and runs the callee's
// instruction stream. Arguments resolve in the caller's frame before the
// new frame is pushed.
func (m *Machine) call(name string, args []string) error {
	fn, ok := m.program.Functions[name]
	if !ok {
		return &UndefinedFunctionError{Name: name}
	}
	if len(args) != len(fn.Parameters) {
		return &ArgumentCountError{Name: name, Want: len(fn.Parameters), Got: len(args)}
	}

	frame := &Frame{Function: name, Vars: make(map[string]int64)}
	for i, param := range fn.Parameters {
		v, err := m.resolve(args[i])
		if err != nil {
			return err
		}
		frame.Vars[param] = v
	}

	m.frames = append(m.frames, frame)
	err := m.run(fn)
	m.frames = m.frames[:len(m.frames)-1]
	return err
}

// run walks the function's blocks. A block that ends without a jump
// falls through to the next block in function order.
func (m *Machine) run(fn *ir.Function) error {
	blockIdx, instrIdx := 0, 0

	for blockIdx < len(fn.Blocks) {
		block := fn.Blocks[blockIdx]
		if instrIdx >= len(block.Instructions) {
			blockIdx++
			instrIdx = 0
			continue
		}

		instr := block.Instructions[instrIdx]
		if m.step != nil {
			if err := m.step(m.capture(fn, block, instrIdx)); err != nil {
				return err
			}
		}

		jump, returned, err := m.exec(instr)
		if err != nil {
			return err
		}
		if returned {
			return nil
		}
		if jump != "" {
			target := -1
			for i, b := range fn.Blocks {
				if b.Label == jump {
					target = i
					break
				}
			}
			if target < 0 {
				return fmt.Errorf("%s: jump to unknown label %q", fn.Name, jump)
			}
			blockIdx, instrIdx = target, 0
			continue
		}
		instrIdx++
	}

	return nil
}

// exec performs one instruction. It returns a jump label when control
// transfers and returned=true when the function is done.
func (m *Machine) exec(instr ir.Instruction) (jump string, returned bool, err error) {
	frame := m.currentFrame()
	ops := instr.Operands

	switch instr.Op {
	case ir.OpAlloc:
		frame.Vars[ops[0]] = 0

	case ir.OpStore, ir.OpLoad:
		v, err := m.resolve(ops[1])
		if err != nil {
			return "", false, err
		}
		frame.Vars[ops[0]] = v

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
		left, err := m.resolve(ops[1])
		if err != nil {
			return "", false, err
		}
		right, err := m.resolve(ops[2])
		if err != nil {
			return "", false, err
		}
		var result int64
		switch instr.Op {
		case ir.OpAdd:
			result = left + right
		case ir.OpSub:
			result = left - right
		case ir.OpMul:
			result = left * right
		case ir.OpDiv:
			if right == 0 {
				return "", false, fmt.Errorf("division by zero storing %q", ops[0])
			}
			result = left / right
		}
		frame.Vars[ops[0]] = result

	case ir.OpJump:
		return ops[0], false, nil

	case ir.OpCondJump:
		v, err := m.resolve(ops[0])
		if err != nil {
			return "", false, err
		}
		bound, err := m.resolve(ops[1])
		if err != nil {
			return "", false, err
		}
		if v == bound {
			return ops[2], false, nil
		}

	case ir.OpCall:
		name := ops[0]
		if builtin, ok := m.builtins[name]; ok {
			args := make([]int64, 0, len(ops)-1)
			for _, op := range ops[1:] {
				v, err := m.resolve(op)
				if err != nil {
					return "", false, err
				}
				args = append(args, v)
			}
			if _, err := builtin(m, args); err != nil {
				return "", false, err
			}
			break
		}
		if err := m.call(name, ops[1:]); err != nil {
			return "", false, err
		}

	case ir.OpReturn:
		if len(ops) > 0 {
			// The call form has no destination: the value is validated,
			// then discarded.
			if _, err := m.resolve(ops[0]); err != nil {
				return "", false, err
			}
		}
		return "", true, nil

	case ir.OpDgAdd:
		sum, err := dg.AddDG(m.dgText(ops[1]), m.dgText(ops[2]))
		if err != nil {
			return "", false, err
		}
		v, err := dg.FromDG(sum)
		if err != nil {
			return "", false, err
		}
		frame.Vars[ops[0]] = int64(v)

	case ir.OpDgToDecimal:
		v, err := dg.FromDG(m.dgText(ops[1]))
		if err != nil {
			return "", false, err
		}
		frame.Vars[ops[0]] = int64(v)

	case ir.OpDecimalToDg:
		n, err := m.resolve(ops[1])
		if err != nil {
			return "", false, err
		}
		v, err := dg.FromDG(dg.ToDG(int(n)))
		if err != nil {
			return "", false, err
		}
		frame.Vars[ops[0]] = int64(v)

	default:
		return "", false, fmt.Errorf("cannot execute opcode %s", instr.Op)
	}

	return "", false, nil
}

// resolve is the uniform operand-resolution policy: the innermost frame
// first, then the operand parsed as an integer literal, else failure
// naming the operand. An explicit two-step result, not exception control
// flow.
func (m *Machine) resolve(operand string) (int64, error) {
	if frame := m.currentFrame(); frame != nil {
		if v, ok := frame.Vars[operand]; ok {
			return v, nil
		}
	}
	if v, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("undefined variable %q", operand)
}

// dgText renders an operand as dodecagram text: bound names by their
// value, everything else taken as a DG literal.
func (m *Machine) dgText(operand string) string {
	if frame := m.currentFrame(); frame != nil {
		if v, ok := frame.Vars[operand]; ok {
			return dg.ToDG(int(v))
		}
	}
	return operand
}

func (m *Machine) currentFrame() *Frame {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}
