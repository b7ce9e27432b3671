package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"

	"github.com/llir/llvm/ir"
)

// lower 解析、检查并生成IR，要求没有错误诊断
func lower(t *testing.T, src string) *ir.Module {
	t.Helper()
	program, diags := analysis.ParseSource(analysis.NewSourceCode(src, "test.ace"))
	if len(diags) != 0 {
		t.Fatalf("unexpected syntax diagnostics: %v", diags)
	}
	checked, err := semantic.NewSemanticAnalyzer(semantic.ResolverOptions{}).AnalyzeSemantics(context.Background(), program)
	if err != nil {
		t.Fatalf("AnalyzeSemantics() error = %v", err)
	}
	if analysis.HasErrors(checked) {
		t.Fatalf("unexpected semantic errors: %v", checked)
	}

	container := NewContainer(generation.GenerationOptions{TargetTriple: "x86_64-pc-linux-gnu"})
	module, err := container.CodeGenerator().GenerateProgram(program)
	if err != nil {
		t.Fatalf("GenerateProgram() error = %v", err)
	}
	return module
}

func findFunc(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func blockNames(f *ir.Func) []string {
	names := make([]string, len(f.Blocks))
	for i, b := range f.Blocks {
		names[i] = b.Name()
	}
	return names
}

func assertAllTerminated(t *testing.T, m *ir.Module) {
	t.Helper()
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				t.Errorf("%s/%s has no terminator", f.Name(), b.Name())
			}
		}
	}
}

func TestGenerate_AddFunction(t *testing.T) {
	m := lower(t, "fn add(a: Int, b: Int) -> Int { return a + b; }")
	if m.TargetTriple != "x86_64-pc-linux-gnu" {
		t.Errorf("target triple = %q", m.TargetTriple)
	}
	if m.SourceFilename != "test.ace" {
		t.Errorf("source filename = %q", m.SourceFilename)
	}

	f := findFunc(t, m, "add")
	if len(f.Blocks) != 1 {
		t.Fatalf("blocks = %v, want only entry", blockNames(f))
	}
	entry := f.Blocks[0]
	if len(entry.Insts) != 1 {
		t.Fatalf("entry has %d instructions, want 1", len(entry.Insts))
	}
	add, ok := entry.Insts[0].(*ir.InstAdd)
	if !ok {
		t.Fatalf("instruction = %T, want add", entry.Insts[0])
	}
	ret, ok := entry.Term.(*ir.TermRet)
	if !ok || ret.X != add {
		t.Errorf("terminator = %v, want ret of the sum", entry.Term)
	}
	if !strings.Contains(m.String(), "define i64 @add(i64 %a, i64 %b)") {
		t.Errorf("unexpected signature in:\n%s", m)
	}
}

func TestGenerate_IfElseWithoutMerge(t *testing.T) {
	m := lower(t, "fn pick(c: Bool) -> Int { if (c) { return 1; } else { return 2; } }")
	f := findFunc(t, m, "pick")
	got := strings.Join(blockNames(f), ",")
	if got != "entry,if.then,if.else" {
		t.Errorf("blocks = %s", got)
	}
	if _, ok := f.Blocks[0].Term.(*ir.TermCondBr); !ok {
		t.Errorf("entry terminator = %T", f.Blocks[0].Term)
	}
	assertAllTerminated(t, m)
}

func TestGenerate_IfWithoutElseFallsThrough(t *testing.T) {
	m := lower(t, "fn clamp(x: Int) -> Int { var r = x; if (x > 9) { r = 9; } return r; }")
	f := findFunc(t, m, "clamp")
	got := strings.Join(blockNames(f), ",")
	if got != "entry,if.then,if.end" {
		t.Errorf("blocks = %s", got)
	}
	if _, ok := f.Blocks[0].Insts[0].(*ir.InstAlloca); !ok {
		t.Errorf("first entry instruction = %T, want alloca", f.Blocks[0].Insts[0])
	}
	assertAllTerminated(t, m)
}

func TestGenerate_ShortCircuitPhi(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		prefix string
	}{
		{"and", "fn both(a: Bool, b: Bool) -> Bool { return a && b; }", "and"},
		{"or", "fn both(a: Bool, b: Bool) -> Bool { return a || b; }", "or"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := findFunc(t, lower(t, tt.src), "both")
			got := strings.Join(blockNames(f), ",")
			want := "entry," + tt.prefix + ".rhs," + tt.prefix + ".end"
			if got != want {
				t.Fatalf("blocks = %s, want %s", got, want)
			}
			end := f.Blocks[2]
			phi, ok := end.Insts[0].(*ir.InstPhi)
			if !ok {
				t.Fatalf("first instruction of %s = %T, want phi", end.Name(), end.Insts[0])
			}
			if len(phi.Incs) != 2 || phi.Incs[0].Pred != f.Blocks[0] || phi.Incs[1].Pred != f.Blocks[1] {
				t.Errorf("phi predecessors are wrong: %s", phi.LLString())
			}
		})
	}
}

func TestGenerate_WhileBreakContinue(t *testing.T) {
	src := `
fn count() -> Int {
    var i = 0;
    while (true) {
        i = i + 1;
        if (i < 3) { continue; }
        if (i > 10) { break; }
    }
    return i;
}`
	m := lower(t, src)
	f := findFunc(t, m, "count")
	names := map[string]bool{}
	for _, n := range blockNames(f) {
		names[n] = true
	}
	for _, want := range []string{"entry", "while.cond", "while.body", "while.end", "if.then", "if.end", "if.then.1", "if.end.1"} {
		if !names[want] {
			t.Errorf("missing block %s in %v", want, blockNames(f))
		}
	}
	assertAllTerminated(t, m)
}

func TestGenerate_CodeAfterReturn(t *testing.T) {
	m := lower(t, "fn f() -> Int { return 1; let x = 2; x; }")
	f := findFunc(t, m, "f")
	if got := strings.Join(blockNames(f), ","); got != "entry,unreachable" {
		t.Fatalf("blocks = %s", got)
	}
	if _, ok := f.Blocks[1].Term.(*ir.TermUnreachable); !ok {
		t.Errorf("dead block terminator = %T", f.Blocks[1].Term)
	}
}

func TestGenerate_VoidImplicitReturn(t *testing.T) {
	m := lower(t, "fn nop() { }")
	f := findFunc(t, m, "nop")
	ret, ok := f.Blocks[0].Term.(*ir.TermRet)
	if !ok || ret.X != nil {
		t.Errorf("terminator = %v, want ret void", f.Blocks[0].Term)
	}
}

func TestGenerate_GlobalsAndStrings(t *testing.T) {
	src := `
extern fn puts(s: *Int8) -> Int32;
let greeting: *Int8 = "hi";
var counter: Int = -3;
var ratio: Float = 1;
fn main() -> Int32 {
    puts("hi");
    puts("yo");
    counter = counter + 1;
    return 0i32;
}`
	m := lower(t, src)
	var names []string
	for _, g := range m.Globals {
		names = append(names, g.Name())
	}
	if got := strings.Join(names, ","); got != ".str,greeting,counter,ratio,.str.1" {
		t.Fatalf("globals = %s", got)
	}
	if !m.Globals[1].Immutable || m.Globals[2].Immutable {
		t.Errorf("let globals are immutable, var globals are not")
	}

	puts := findFunc(t, m, "puts")
	if len(puts.Blocks) != 0 {
		t.Errorf("extern function has a body")
	}
	text := m.String()
	for _, want := range []string{
		`c"hi\00"`,
		`@counter = global i64 -3`,
		`@ratio = global double`,
		`declare i32 @puts(i8*`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("module does not contain %q:\n%s", want, text)
		}
	}
}

func TestGenerate_StructsAndPointers(t *testing.T) {
	src := `
struct P { x: Int, y: Int }
fn gety(p: *P) -> Int { return p.y; }
fn sety(p: *P, v: Int) { p.y = v; }
fn make() -> P { return P { x: 1, y: 2 }; }
fn local() -> Int { var p = make(); let q = &p; sety(q, 7); return p.y; }
`
	m := lower(t, src)
	if len(m.TypeDefs) != 1 || m.TypeDefs[0].Name() != "P" {
		t.Fatalf("type definitions = %v", m.TypeDefs)
	}
	if !strings.Contains(m.String(), "%P = type { i64, i64 }") {
		t.Errorf("struct layout missing:\n%s", m)
	}

	gety := findFunc(t, m, "gety")
	entry := gety.Blocks[0]
	if len(entry.Insts) != 2 {
		t.Fatalf("gety entry instructions = %d, want gep and load", len(entry.Insts))
	}
	if gep, ok := entry.Insts[0].(*ir.InstGetElementPtr); !ok || !gep.InBounds {
		t.Errorf("first instruction = %T, want inbounds gep", entry.Insts[0])
	}
	if _, ok := entry.Insts[1].(*ir.InstLoad); !ok {
		t.Errorf("second instruction = %T, want load", entry.Insts[1])
	}
	assertAllTerminated(t, m)
}

func TestGenerate_AddressTakenParameter(t *testing.T) {
	m := lower(t, "fn f(a: Int) -> Int { let p = &a; return *p; }")
	entry := findFunc(t, m, "f").Blocks[0]
	alloca, ok := entry.Insts[0].(*ir.InstAlloca)
	if !ok || alloca.Name() != "a.addr" {
		t.Fatalf("first instruction = %v, want alloca a.addr", entry.Insts[0])
	}
	if _, ok := entry.Insts[1].(*ir.InstStore); !ok {
		t.Errorf("second instruction = %T, want store", entry.Insts[1])
	}
}

func TestGenerate_ConversionsAndFloats(t *testing.T) {
	src := `
fn mix(a: Int8, b: Float32) -> Float {
    let w: Int = a;
    let n = -b;
    return (n as Float) + (w as Float);
}`
	m := lower(t, src)
	text := m.String()
	for _, want := range []string{"sext i8", "fsub float", "fpext float", "sitofp i64", "fadd double"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestGenerate_FreshModulePerContainer(t *testing.T) {
	src := "fn one() -> Int { return 1; }"
	a := lower(t, src)
	b := lower(t, src)
	if a == b {
		t.Fatal("containers share a module")
	}
	if a.String() != b.String() {
		t.Errorf("generation is not deterministic:\n%s\n---\n%s", a, b)
	}
}
