package ir

// MappingEntry relates a source keyword to the AST form it parses as, the
// opcode it lowers to, and the assembly the code generator emits for it.
type MappingEntry struct {
	Keyword string
	ASTForm string
	Op      Op
	X86     string
}

// Mapping is the construct table surfaced by the IR dump tools. derive
// is reserved: it carries only its Add lowering and has no grammar.
var Mapping = []MappingEntry{
	{"val", "ValDecl", OpAlloc, "sub rsp, 8 / mov [rbp-idx], imm"},
	{"derive", "Derive", OpAdd, "add reg, imm"},
	{"loop", "Loop", OpJump, "jmp label"},
	{"when", "WhenStatement", OpCondJump, "cmp / je label"},
	{"call", "CallStatement", OpCall, "call name"},
	{"say", "SayStatement", OpCall, "call print_func"},
	{"return", "ReturnStatement", OpReturn, "mov rax, val / ret"},
	{"dg_add", "CallExpr", OpDgAdd, "call dg_add"},
	{"from_dg", "CallExpr", OpDgToDecimal, "call from_dg"},
	{"to_dg", "CallExpr", OpDecimalToDg, "call to_dg"},
}
