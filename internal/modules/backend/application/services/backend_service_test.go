package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/codegen"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"

	"github.com/llir/llvm/ir"
)

func checkedProgram(t *testing.T, src string) (*analysis.Program, []analysis.Diagnostic) {
	t.Helper()
	program, diags := analysis.ParseSource(analysis.NewSourceCode(src, "svc.ace"))
	more, err := semantic.NewSemanticAnalyzer(semantic.ResolverOptions{}).AnalyzeSemantics(context.Background(), program)
	if err != nil {
		t.Fatalf("AnalyzeSemantics() error = %v", err)
	}
	return program, append(diags, more...)
}

func newService() *BackendService {
	return NewBackendService(codegen.NewModuleGenerator("aarch64-unknown-linux-gnu", nil), logging.Discard()).(*BackendService)
}

func TestLower_Success(t *testing.T) {
	program, diags := checkedProgram(t, "fn main() -> Int32 { return 0i32; }")
	m, err := newService().Lower(context.Background(), program, diags)
	if err != nil {
		t.Fatalf("Lower() error = %v", err)
	}
	if m.TargetTriple != "aarch64-unknown-linux-gnu" || len(m.Funcs) != 1 {
		t.Errorf("module = %s", m)
	}
}

func TestLower_IntegerLiteralValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"leading zero is decimal", "fn f() -> Int { return 010; }", "ret i64 10"},
		{"hex bit pattern", "fn f() -> Int8 { return 0xFFi8; }", "ret i8 -1"},
		{"negated min global", "let m: Int8 = -128i8;", "i8 -128"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, diags := checkedProgram(t, tt.src)
			m, err := newService().Lower(context.Background(), program, diags)
			if err != nil {
				t.Fatalf("Lower() error = %v", err)
			}
			if !strings.Contains(m.String(), tt.want) {
				t.Errorf("module does not contain %q:\n%s", tt.want, m)
			}
		})
	}
}

func TestLower_WarningsDoNotBlock(t *testing.T) {
	program, diags := checkedProgram(t, "fn f() -> Int { return 1; 2; }")
	if len(diags) == 0 || analysis.HasErrors(diags) {
		t.Fatalf("expected only warnings, got %v", diags)
	}
	if _, err := newService().Lower(context.Background(), program, diags); err != nil {
		t.Errorf("Lower() error = %v", err)
	}
}

func TestLower_ErrorsGateGeneration(t *testing.T) {
	program, diags := checkedProgram(t, "fn f() -> Int { return missing; }")
	m, err := newService().Lower(context.Background(), program, diags)
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("Lower() error = %v, want ErrAnalysisFailed", err)
	}
	if m != nil {
		t.Error("no module may be produced when analysis failed")
	}
}

func TestLower_Canceled(t *testing.T) {
	program, diags := checkedProgram(t, "fn f() { }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newService().Lower(ctx, program, diags); !errors.Is(err, context.Canceled) {
		t.Errorf("Lower() error = %v, want context.Canceled", err)
	}
}

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(*analysis.Program) (*ir.Module, error) { return nil, g.err }

func TestLower_InvariantBecomesDiagnostic(t *testing.T) {
	program, _ := checkedProgram(t, "fn f() { }")
	invariant := &generation.InvariantError{Function: "f", Block: "entry", Message: "leaving block without a terminator"}
	svc := NewBackendService(failingGenerator{err: invariant}, logging.Discard())

	_, err := svc.Lower(context.Background(), program, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	d, ok := InvariantDiagnostic(err, program)
	if !ok {
		t.Fatalf("InvariantDiagnostic(%v) not recognized", err)
	}
	if d.Kind() != analysis.InternalInvariantError || d.Code() != analysis.CodeInvariant || !d.IsError() {
		t.Errorf("diagnostic = %s", d)
	}

	if _, ok := InvariantDiagnostic(errors.New("plain"), program); ok {
		t.Error("plain errors are not invariant violations")
	}
}
