package services

import (
	"context"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	backendgen "github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"

	"github.com/llir/llvm/ir"
)

const roundTripSource = `
struct Point { x: Int, y: Int }
extern fn puts(s: *Int8) -> Int32;
let banner: *Int8 = "aroace";
var total: Int = -1;

fn dist2(p: *Point) -> Int { return p.x * p.x + p.y * p.y; }

fn scale(f: Float32, n: Int8) -> Float { return (f * n) as Float; }

fn main() -> Int32 {
    var p = Point { x: 3, y: 4 };
    var i: Int32 = 0i32;
    while (i < 10i32 && total < 100) {
        if (i == 5i32) { i = i + 2i32; continue; }
        total = total + dist2(&p);
        i = i + 1i32;
    }
    if (total > 50 || false) { puts(banner); } else { puts("small"); }
    return 0i32;
}
`

func generate(t *testing.T, src string) *ir.Module {
	t.Helper()
	program, diags := analysis.ParseSource(analysis.NewSourceCode(src, "round.ace"))
	checked, err := semantic.NewSemanticAnalyzer(semantic.ResolverOptions{}).AnalyzeSemantics(context.Background(), program)
	if err != nil {
		t.Fatalf("AnalyzeSemantics() 错误 = %v", err)
	}
	if all := append(diags, checked...); analysis.HasErrors(all) {
		t.Fatalf("unexpected errors: %v", all)
	}
	m, err := backendgen.NewContainer(generation.GenerationOptions{TargetTriple: "x86_64-pc-linux-gnu"}).CodeGenerator().GenerateProgram(program)
	if err != nil {
		t.Fatalf("GenerateProgram() 错误 = %v", err)
	}
	return m
}

func TestGeneratedModuleVerifies(t *testing.T) {
	if err := NewIRVerifier().Verify(generate(t, roundTripSource)); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	original := generate(t, roundTripSource)
	want, err := Snapshot(original)
	if err != nil {
		t.Fatalf("Snapshot() 错误 = %v", err)
	}

	reread, err := NewIRReader().ParseIR("round.ll", original.String())
	if err != nil {
		t.Fatalf("ParseIR() 错误 = %v\n%s", err, original)
	}
	got, err := Snapshot(reread)
	if err != nil {
		t.Fatalf("Snapshot() 错误 = %v", err)
	}
	if d := want.Diff(got); d != "" {
		t.Errorf("round trip changed the module: %s", d)
	}
	if !want.Equal(got) {
		t.Error("Equal() disagrees with Diff()")
	}
}

func TestSnapshot_Structure(t *testing.T) {
	snap, err := Snapshot(generate(t, roundTripSource))
	if err != nil {
		t.Fatalf("Snapshot() 错误 = %v", err)
	}
	if snap.TargetTriple != "x86_64-pc-linux-gnu" || snap.SourceFilename != "round.ace" {
		t.Errorf("header = %q %q", snap.TargetTriple, snap.SourceFilename)
	}
	if len(snap.TypeDefs) != 1 || snap.TypeDefs[0].Name != "Point" {
		t.Errorf("type defs = %+v", snap.TypeDefs)
	}

	funcs := map[string]FunctionSnapshot{}
	for _, f := range snap.Functions {
		funcs[f.Name] = f
	}
	if len(funcs["puts"].Blocks) != 0 {
		t.Error("extern declaration should have no blocks")
	}
	main, ok := funcs["main"]
	if !ok || len(main.Blocks) == 0 || main.Blocks[0].Name != "entry" {
		t.Fatalf("main = %+v", main)
	}
	for _, b := range main.Blocks {
		if b.Terminator == "" {
			t.Errorf("block %s has no terminator", b.Name)
		}
	}
	if got := funcs["scale"].Params; len(got) != 2 || got[0] != "f" || got[1] != "n" {
		t.Errorf("scale params = %v", got)
	}
}

func TestSnapshot_DiffReportsChanges(t *testing.T) {
	a, _ := Snapshot(generate(t, "fn f() -> Int { return 1; }"))
	b, _ := Snapshot(generate(t, "fn f() -> Int { return 2; }"))
	if a.Equal(b) {
		t.Fatal("different modules compared equal")
	}
	if d := a.Diff(b); d == "" {
		t.Error("Diff() is empty")
	}
}
