package ir

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// EntryFunction is the synthesized function holding lowered top-level
// statements. Every Program contains it.
const EntryFunction = "_main"

type Op int

const (
	// OpAlloc reserves the named variable's stack slot
	OpAlloc Op = iota
	// OpStore assigns a literal or another variable to a slot
	OpStore
	// OpLoad reads a slot into the working register
	OpLoad
	// OpAdd adds two operands into a destination slot
	OpAdd
	// OpSub subtracts the second operand from the first
	OpSub
	// OpMul multiplies two operands
	OpMul
	// OpDiv divides the first operand by the second
	OpDiv
	// OpJump transfers control to a block label
	OpJump
	// OpCondJump jumps to the target label when var equals bound
	OpCondJump
	// OpCall invokes a function: operands are [name, args...]
	OpCall
	// OpReturn leaves the current function, optionally with a value
	OpReturn
	// OpDgAdd adds two dodecagram values via the DG codec
	OpDgAdd
	// OpDgToDecimal decodes a dodecagram into a decimal slot
	OpDgToDecimal
	// OpDecimalToDg encodes a decimal value as a dodecagram
	OpDecimalToDg
)

// Definition describes an opcode's operand shape. The opcode determines
// arity and meaning; Variadic marks OpCall's open argument list.
type Definition struct {
	Name     string
	Operands int
	Variadic bool
}

var definitions = map[Op]*Definition{
	OpAlloc:       {"Alloc", 1, false},
	OpStore:       {"Store", 2, false},
	OpLoad:        {"Load", 2, false},
	OpAdd:         {"Add", 3, false},
	OpSub:         {"Sub", 3, false},
	OpMul:         {"Mul", 3, false},
	OpDiv:         {"Div", 3, false},
	OpJump:        {"Jump", 1, false},
	OpCondJump:    {"CondJump", 3, false},
	OpCall:        {"Call", 1, true},
	OpReturn:      {"Return", 0, true},
	OpDgAdd:       {"DgAdd", 3, false},
	OpDgToDecimal: {"DgToDecimal", 2, false},
	OpDecimalToDg: {"DecimalToDg", 2, false},
}

func Lookup(op Op) (*Definition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

func (op Op) String() string {
	def, ok := definitions[op]
	if !ok {
		return fmt.Sprintf("Op(%d)", op)
	}
	return def.Name
}

// Instruction operands are variable names, literal text, or block labels;
// which one depends on the opcode.
type Instruction struct {
	Op       Op
	Operands []string
}

func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Op.String()
	}
	return i.Op.String() + " " + strings.Join(i.Operands, ", ")
}

// Block is a straight-line instruction sequence with a single entry
// label. Control leaves through Jump/CondJump/Return, or falls through to
// the next block in function order.
type Block struct {
	Label        string
	Instructions []Instruction
}

func (b *Block) Emit(op Op, operands ...string) {
	b.Instructions = append(b.Instructions, Instruction{Op: op, Operands: operands})
}

// Function owns its blocks exclusively; no block is shared across
// functions. VariableOffsets assigns each parameter and local a
// monotonically increasing stack slot, parameters first from 0, then
// locals in declaration order. The code generator and the interpreter
// both rely on that layout.
type Function struct {
	Name            string
	Parameters      []string
	Blocks          []*Block
	VariableOffsets map[string]int
	FrameSize       int
}

// Block finds a block by label.
func (f *Function) Block(label string) (*Block, bool) {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

func (f *Function) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "func %s(%s) frame=%d\n", f.Name, strings.Join(f.Parameters, ", "), f.FrameSize)
	for _, b := range f.Blocks {
		fmt.Fprintf(&out, "%s:\n", b.Label)
		for _, ins := range b.Instructions {
			fmt.Fprintf(&out, "  %s\n", ins)
		}
	}
	return out.String()
}

// Program is the hand-off artifact consumed by both back ends.
type Program struct {
	Functions map[string]*Function
}

func (p *Program) Main() *Function {
	return p.Functions[EntryFunction]
}

// FunctionNames returns _main first, then the rest sorted, so dumps and
// codegen are deterministic.
func (p *Program) FunctionNames() []string {
	names := []string{}
	for name := range p.Functions {
		if name != EntryFunction {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := p.Functions[EntryFunction]; ok {
		names = append([]string{EntryFunction}, names...)
	}
	return names
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, name := range p.FunctionNames() {
		out.WriteString(p.Functions[name].String())
	}
	return out.String()
}
