package lower

import (
	"fmt"
	"quarter/pkg/ast"
	"quarter/pkg/ir"
	"sort"
)

// TypeError is fatal: a declared type other than int aborts lowering
// entirely, there is no per-statement recovery.
type TypeError struct {
	Name         string
	DeclaredType string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("val %s: unsupported type %q, only int is supported", e.Name, e.DeclaredType)
}

// BindingError is a variable reference with no preceding declaration.
type BindingError struct {
	Name string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// SymbolTable assigns stack slots within one function: parameters first
// from 0, then locals in declaration order. It is created per lowered
// function and passed explicitly; there is no process-wide registry.
type SymbolTable struct {
	offsets map[string]int
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{offsets: make(map[string]int)}
}

func (s *SymbolTable) Define(name string) int {
	if off, ok := s.offsets[name]; ok {
		return off
	}
	off := len(s.order)
	s.offsets[name] = off
	s.order = append(s.order, name)
	return off
}

func (s *SymbolTable) Resolve(name string) (int, bool) {
	off, ok := s.offsets[name]
	return off, ok
}

func (s *SymbolTable) Count() int { return len(s.order) }

// Lower translates the AST into an IR program: one function per source
// funcDef plus the synthesized _main holding top-level statements.
func Lower(program *ast.Program) (*ir.Program, error) {
	out := &ir.Program{Functions: make(map[string]*ir.Function)}

	names := make([]string, 0, len(program.Functions))
	for name := range program.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := program.Functions[name]
		fn, err := lowerFunction(def.Name, def.Parameters, def.Body)
		if err != nil {
			return nil, err
		}
		out.Functions[name] = fn
	}

	main, err := lowerFunction(ir.EntryFunction, nil, program.Statements)
	if err != nil {
		return nil, err
	}
	out.Functions[ir.EntryFunction] = main

	return out, nil
}

type lowerer struct {
	fn      *ir.Function
	cur     *ir.Block
	symbols *SymbolTable
	loops   int
	whens   int
	temps   int
}

func lowerFunction(name string, params []string, body []ast.Statement) (*ir.Function, error) {
	fn := &ir.Function{
		Name:       name,
		Parameters: params,
	}

	l := &lowerer{fn: fn, symbols: NewSymbolTable()}
	for _, p := range params {
		l.symbols.Define(p)
	}

	l.newBlock("entry")

	for _, stmt := range body {
		if err := l.lowerStatement(stmt); err != nil {
			return nil, err
		}
	}

	// Close the instruction stream so execution and codegen never run off
	// the end of the last block.
	if !l.endsWithReturn() {
		l.cur.Emit(ir.OpReturn)
	}

	fn.VariableOffsets = l.symbols.offsets
	fn.FrameSize = 8 * l.symbols.Count()
	return fn, nil
}

func (l *lowerer) lowerStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.ValDecl:
		if stmt.DeclaredType != "int" {
			return &TypeError{Name: stmt.Name, DeclaredType: stmt.DeclaredType}
		}
		l.symbols.Define(stmt.Name)
		l.cur.Emit(ir.OpAlloc, stmt.Name)
		return l.lowerInit(stmt.Name, stmt.Init)

	case *ast.Loop:
		return l.lowerLoop(stmt)

	case *ast.CallStatement:
		operands := []string{stmt.Name}
		for _, arg := range stmt.Args {
			op, err := l.operand(arg)
			if err != nil {
				return err
			}
			operands = append(operands, op)
		}
		l.cur.Emit(ir.OpCall, operands...)
		return nil

	case *ast.SayStatement:
		op, err := l.materialize(stmt.Value)
		if err != nil {
			return err
		}
		l.cur.Emit(ir.OpCall, "say", op)
		return nil

	case *ast.WhenStatement:
		return l.lowerWhen(stmt)

	case *ast.ReturnStatement:
		if stmt.Value == nil {
			l.cur.Emit(ir.OpReturn)
			return nil
		}
		op, err := l.materialize(stmt.Value)
		if err != nil {
			return err
		}
		l.cur.Emit(ir.OpReturn, op)
		return nil

	default:
		return fmt.Errorf("cannot lower %T", stmt)
	}
}

// lowerInit emits the instruction that fills dest: a Store for literals
// and variables, the matching arithmetic opcode for a binary expression,
// or the mapped DG opcode for a codec call. The lowerer performs no
// base-12 arithmetic itself.
func (l *lowerer) lowerInit(dest string, init ast.Expression) error {
	switch init := init.(type) {
	case *ast.Literal:
		l.cur.Emit(ir.OpStore, dest, init.Value)
		return nil

	case *ast.Variable:
		if _, ok := l.symbols.Resolve(init.Name); !ok {
			return &BindingError{Name: init.Name}
		}
		l.cur.Emit(ir.OpStore, dest, init.Name)
		return nil

	case *ast.BinaryExpr:
		left, err := l.operand(init.Left)
		if err != nil {
			return err
		}
		right, err := l.operand(init.Right)
		if err != nil {
			return err
		}
		op, ok := arithmeticOps[init.Operator]
		if !ok {
			return fmt.Errorf("unknown operator %q", init.Operator)
		}
		l.cur.Emit(op, dest, left, right)
		return nil

	case *ast.CallExpr:
		return l.lowerCodecCall(dest, init)

	default:
		return fmt.Errorf("cannot lower initializer %T", init)
	}
}

var arithmeticOps = map[string]ir.Op{
	"+": ir.OpAdd,
	"-": ir.OpSub,
	"*": ir.OpMul,
	"/": ir.OpDiv,
}

// lowerCodecCall maps the DG source symbols onto their opcodes. Arguments
// pass through as text: a name bound in this function stays a variable
// reference, anything else reaches the interpreter as dodecagram or
// integer literal text.
func (l *lowerer) lowerCodecCall(dest string, call *ast.CallExpr) error {
	args := make([]string, 0, len(call.Args))
	for _, a := range call.Args {
		switch a := a.(type) {
		case *ast.Literal:
			args = append(args, a.Value)
		case *ast.Variable:
			args = append(args, a.Name)
		default:
			return fmt.Errorf("%s: arguments must be literals or variables", call.Name)
		}
	}

	switch call.Name {
	case "dg_add":
		if len(args) != 2 {
			return fmt.Errorf("dg_add takes 2 arguments, got %d", len(args))
		}
		l.cur.Emit(ir.OpDgAdd, dest, args[0], args[1])
	case "from_dg":
		if len(args) != 1 {
			return fmt.Errorf("from_dg takes 1 argument, got %d", len(args))
		}
		l.cur.Emit(ir.OpDgToDecimal, dest, args[0])
	case "to_dg":
		if len(args) != 1 {
			return fmt.Errorf("to_dg takes 1 argument, got %d", len(args))
		}
		l.cur.Emit(ir.OpDecimalToDg, dest, args[0])
	default:
		return fmt.Errorf("call %q cannot be used as an initializer", call.Name)
	}
	return nil
}

// lowerLoop emits the three-block shape:
//
//	Alloc i / Store i, start
//	cond: CondJump i, bound, end
//	body: ... / Add i, i, 1 / Jump cond
//	end:
//
// The comparison is by inequality: the loop runs while i != bound, so a
// step that overshoots the bound never terminates. That hazard is part of
// the semantics, not something lowering papers over.
func (l *lowerer) lowerLoop(loop *ast.Loop) error {
	start, err := l.operand(loop.Start)
	if err != nil {
		return err
	}
	bound, err := l.operand(loop.End)
	if err != nil {
		return err
	}

	id := l.loops
	l.loops++

	iv := l.inductionName(id)
	l.symbols.Define(iv)

	condLabel := fmt.Sprintf("loop%d_cond", id)
	bodyLabel := fmt.Sprintf("loop%d_body", id)
	endLabel := fmt.Sprintf("loop%d_end", id)

	l.cur.Emit(ir.OpAlloc, iv)
	l.cur.Emit(ir.OpStore, iv, start)

	l.newBlock(condLabel)
	l.cur.Emit(ir.OpCondJump, iv, bound, endLabel)

	l.newBlock(bodyLabel)
	for _, stmt := range loop.Body {
		if err := l.lowerStatement(stmt); err != nil {
			return err
		}
	}
	l.cur.Emit(ir.OpAdd, iv, iv, "1")
	l.cur.Emit(ir.OpJump, condLabel)

	l.newBlock(endLabel)
	return nil
}

func (l *lowerer) lowerWhen(when *ast.WhenStatement) error {
	cond, err := l.materialize(when.Cond)
	if err != nil {
		return err
	}

	id := l.whens
	l.whens++
	bodyLabel := fmt.Sprintf("when%d_body", id)
	endLabel := fmt.Sprintf("when%d_end", id)

	// Skip the body when the condition is zero: the same equality
	// comparison the loop exit uses.
	l.cur.Emit(ir.OpCondJump, cond, "0", endLabel)

	l.newBlock(bodyLabel)
	for _, stmt := range when.Body {
		if err := l.lowerStatement(stmt); err != nil {
			return err
		}
	}

	l.newBlock(endLabel)
	return nil
}

// operand resolves an argument expression to literal text or a bound
// variable name. No recursive evaluation happens here.
func (l *lowerer) operand(expr ast.Expression) (string, error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return expr.Value, nil
	case *ast.Variable:
		if _, ok := l.symbols.Resolve(expr.Name); !ok {
			return "", &BindingError{Name: expr.Name}
		}
		return expr.Name, nil
	default:
		return "", fmt.Errorf("expected a literal or variable, got %T", expr)
	}
}

// materialize returns an operand for expr, spilling compound expressions
// into a fresh temporary slot first.
func (l *lowerer) materialize(expr ast.Expression) (string, error) {
	switch expr.(type) {
	case *ast.Literal, *ast.Variable:
		return l.operand(expr)
	}

	tmp := l.freshTemp()
	l.symbols.Define(tmp)
	l.cur.Emit(ir.OpAlloc, tmp)
	if err := l.lowerInit(tmp, expr); err != nil {
		return "", err
	}
	return tmp, nil
}

func (l *lowerer) freshTemp() string {
	for {
		name := fmt.Sprintf("tmp%d", l.temps)
		l.temps++
		if _, taken := l.symbols.Resolve(name); !taken {
			return name
		}
	}
}

// inductionName picks the loop counter name: i for the first loop, i2,
// i3, … for the rest, skipping names the source already uses.
func (l *lowerer) inductionName(id int) string {
	name := "i"
	if id > 0 {
		name = fmt.Sprintf("i%d", id+1)
	}
	for {
		if _, taken := l.symbols.Resolve(name); !taken {
			return name
		}
		id++
		name = fmt.Sprintf("i%d", id+1)
	}
}

func (l *lowerer) newBlock(label string) {
	b := &ir.Block{Label: label}
	l.fn.Blocks = append(l.fn.Blocks, b)
	l.cur = b
}

func (l *lowerer) endsWithReturn() bool {
	if len(l.cur.Instructions) == 0 {
		return false
	}
	return l.cur.Instructions[len(l.cur.Instructions)-1].Op == ir.OpReturn
}
