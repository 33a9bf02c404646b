package benchmarks

import (
	"io"
	"testing"

	"quarter/pkg/codegen"
	"quarter/pkg/dg"
	"quarter/pkg/interp"
	"quarter/pkg/ir"
	"quarter/pkg/lower"
	"quarter/pkg/parser"
)

func compile(b *testing.B, source string) *ir.Program {
	b.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		b.Fatal(err)
	}
	lowered, err := lower.Lower(program)
	if err != nil {
		b.Fatal(err)
	}
	return lowered
}

func BenchmarkParse(b *testing.B) {
	input := `
val a as int: 3
val b as int: 4
val c as int: a * b
loop 0 to 100 {
    val t as int: c + i
}
`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLower(b *testing.B) {
	input := `
val a as int: 3
loop 0 to 100 {
    val t as int: a + i
}
`
	program, err := parser.Parse(input)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lower.Lower(program); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInterpLoop(b *testing.B) {
	lowered := compile(b, `
val total as int: 0
loop 0 to 100 {
    val t as int: total + i
}
`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := interp.New(lowered, interp.WithOutput(io.Discard))
		if err := m.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInterpCalls(b *testing.B) {
	lowered := compile(b, `
func bump(n) {
    val m as int: n + 1
}
loop 0 to 50 {
    call bump(i)
}
`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := interp.New(lowered, interp.WithOutput(io.Discard))
		if err := m.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCodegen(b *testing.B) {
	lowered := compile(b, `
val a as int: 3
loop 0 to 100 {
    val t as int: a + i
}
`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = codegen.Generate(lowered)
	}
}

// Go native comparison for the codec hot path.
func BenchmarkGoBase12(b *testing.B) {
	var out string
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = dg.ToDG(i)
	}
	_ = out
}

func BenchmarkDGRoundTrip(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := dg.ToDG(i)
		if _, err := dg.FromDG(s); err != nil {
			b.Fatal(err)
		}
	}
}
