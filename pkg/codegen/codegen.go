// Package codegen translates IR programs into x86-64 assembly text.
//
// The translation is deterministic and one-pass: per function a
// prologue, each block label followed by its instructions translated 1:1
// by opcode, then a shared exit label with the epilogue. Values live in
// stack slots addressed off rbp; since x86 has no memory-to-memory
// moves, transfers go through the scratch registers rax and r10.
package codegen

import (
	"fmt"
	"quarter/pkg/ir"
	"strings"
)

// Generate emits assembly for every function in the program, _main first.
func Generate(p *ir.Program) string {
	e := &emitter{}
	for i, name := range p.FunctionNames() {
		if i > 0 {
			e.b.WriteString("\n")
		}
		e.emitFunction(p.Functions[name])
	}
	return e.b.String()
}

// Registers used for the first call arguments, SysV order.
var argRegisters = []string{"rdi", "rsi", "rdx", "rcx"}

type emitter struct {
	b  strings.Builder
	fn *ir.Function
}

func (e *emitter) emitFunction(fn *ir.Function) {
	e.fn = fn

	fmt.Fprintf(&e.b, "%s:\n", fn.Name)
	e.line("push rbp")
	e.line("mov rbp, rsp")

	for _, block := range fn.Blocks {
		fmt.Fprintf(&e.b, "%s:\n", block.Label)
		for _, instr := range block.Instructions {
			e.emitInstruction(instr)
		}
	}

	fmt.Fprintf(&e.b, "%s_exit:\n", fn.Name)
	e.line("mov rsp, rbp")
	e.line("pop rbp")
	e.line("ret")
}

func (e *emitter) emitInstruction(instr ir.Instruction) {
	ops := instr.Operands

	switch instr.Op {
	case ir.OpAlloc:
		e.line("sub rsp, 8                  ; alloc %s -> %s", ops[0], e.slot(ops[0]))

	case ir.OpStore:
		e.move(ops[0], ops[1])

	case ir.OpLoad:
		e.line("mov rax, %s", e.ref(ops[1]))
		e.line("mov %s, rax", e.slot(ops[0]))

	case ir.OpAdd, ir.OpSub, ir.OpMul:
		mnemonic := map[ir.Op]string{ir.OpAdd: "add", ir.OpSub: "sub", ir.OpMul: "imul"}[instr.Op]
		e.line("mov rax, %s", e.ref(ops[1]))
		e.line("mov r10, %s", e.ref(ops[2]))
		e.line("%s rax, r10", mnemonic)
		e.line("mov %s, rax", e.slot(ops[0]))

	case ir.OpDiv:
		e.line("mov rax, %s", e.ref(ops[1]))
		e.line("mov r10, %s", e.ref(ops[2]))
		e.line("cqo")
		e.line("idiv r10")
		e.line("mov %s, rax", e.slot(ops[0]))

	case ir.OpJump:
		e.line("jmp %s", ops[0])

	case ir.OpCondJump:
		e.line("mov rax, %s", e.ref(ops[0]))
		e.line("cmp rax, %s", e.ref(ops[1]))
		e.line("je %s", ops[2])

	case ir.OpCall:
		name := ops[0]
		args := ops[1:]
		for i, arg := range args {
			if i >= len(argRegisters) {
				e.line("; argument %d of %s exceeds register convention", i+1, name)
				continue
			}
			e.line("mov %s, %s", argRegisters[i], e.ref(arg))
		}
		if name == "say" {
			e.line("call print_func")
		} else {
			e.line("call %s", name)
		}

	case ir.OpReturn:
		if len(ops) > 0 {
			e.line("mov rax, %s", e.ref(ops[0]))
		}
		e.line("jmp %s_exit", e.fn.Name)

	case ir.OpDgAdd:
		e.line("call dg_add                 ; base-12 add")
		e.line("mov %s, rax", e.slot(ops[0]))

	case ir.OpDgToDecimal:
		e.line("call from_dg                ; convert base-12")
		e.line("mov %s, rax", e.slot(ops[0]))

	case ir.OpDecimalToDg:
		e.line("call to_dg                  ; convert base-12")
		e.line("mov %s, rax", e.slot(ops[0]))

	default:
		// Degrade gracefully: never abort on an unmapped opcode.
		e.line("; unimplemented IR op: %s", instr.Op)
	}
}

func (e *emitter) move(dest, src string) {
	if _, isVar := e.fn.VariableOffsets[src]; isVar {
		e.line("mov r10, %s", e.ref(src))
		e.line("mov %s, r10", e.slot(dest))
		return
	}
	e.line("mov qword %s, %s", e.slot(dest), src)
}

// ref renders an operand: a stack slot for bound names, the literal text
// otherwise.
func (e *emitter) ref(operand string) string {
	if _, ok := e.fn.VariableOffsets[operand]; ok {
		return e.slot(operand)
	}
	return operand
}

func (e *emitter) slot(name string) string {
	off := e.fn.VariableOffsets[name]
	return fmt.Sprintf("[rbp-%d]", 8*(off+1))
}

func (e *emitter) line(format string, args ...interface{}) {
	fmt.Fprintf(&e.b, "  "+format+"\n", args...)
}
