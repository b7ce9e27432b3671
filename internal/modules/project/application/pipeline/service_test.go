package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	backendservices "github.com/Popaulol/AroAceLang/internal/modules/backend/application/services"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/codegen"
	frontendservices "github.com/Popaulol/AroAceLang/internal/modules/frontend/application/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"
	infraevents "github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/events"
	middleendservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/application/services"
	"github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/commands"
	irservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/services"
	middleendports "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"
)

func newPipeline(publisher events.EventPublisher, irService middleendports.IIRService, options Options) *Service {
	logger := logging.Discard()
	frontend := frontendservices.NewFrontendService(
		analysis.NewSimpleTokenizer(),
		analysis.NewSimpleParser(),
		semantic.NewSemanticAnalyzer(semantic.ResolverOptions{WarnShadowing: true}),
		publisher,
		logger,
	)
	backend := backendservices.NewBackendService(codegen.NewModuleGenerator("x86_64-pc-linux-gnu", logger), logger)
	if irService == nil {
		irService = middleendservices.NewIRService(irservices.NewIRReader(), irservices.NewIRVerifier(), logger)
	}
	return NewService(frontend, backend, irService, publisher, logger, options)
}

func source(file, src string) analysis.SourceCode {
	return analysis.NewSourceCode(src, file)
}

func TestCompileAll(t *testing.T) {
	recorder := infraevents.NewRecorder(nil)
	p := newPipeline(recorder, nil, Options{Parallelism: 4})

	sources := []analysis.SourceCode{
		source("add.ace", "fn add(a: Int, b: Int) -> Int { return a + b; }"),
		source("bad.ace", "fn f() -> Int { return x + 1; }"),
		source("loop.ace", "fn count(n: Int) -> Int { var i = 0; while (i < n) { i = i + 1; } return i; }"),
	}
	results, err := p.CompileAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("CompileAll() 错误 = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("结果数 = %d", len(results))
	}

	for i, want := range []bool{true, false, true} {
		r := results[i]
		if r.File != sources[i].FilePath() {
			t.Errorf("results[%d].File = %s, 顺序应与输入一致", i, r.File)
		}
		if r.Success() != want {
			t.Errorf("%s: Success() = %v, want %v (%v)", r.File, r.Success(), want, r.Diagnostics)
		}
		if r.UnitID == "" {
			t.Errorf("%s: 缺少 UnitID", r.File)
		}
	}
	if results[1].Module != nil {
		t.Error("有错误的单元不应生成模块")
	}
	if results[1].Diagnostics[0].Code() != analysis.CodeUndeclared {
		t.Errorf("诊断 = %v", results[1].Diagnostics)
	}
	if results[0].UnitID == results[2].UnitID {
		t.Error("UnitID 应唯一")
	}

	compiled, phases := 0, map[string]int{}
	for _, e := range recorder.Events() {
		switch e := e.(type) {
		case events.UnitCompiled:
			compiled++
		case events.PhaseCompleted:
			phases[e.Phase]++
		}
	}
	if compiled != 3 {
		t.Errorf("UnitCompiled 事件数 = %d, want 3", compiled)
	}
	if phases[events.PhaseParse] != 3 || phases[events.PhaseSemantic] != 3 || phases[events.PhaseLower] != 2 || phases[events.PhaseVerify] != 2 {
		t.Errorf("阶段事件 = %v", phases)
	}
}

func TestCompile_WarningsAsErrors(t *testing.T) {
	src := source("shadow.ace", "fn f() { let x = 1; { let x = 2; x; } }")

	lenient, err := newPipeline(nil, nil, Options{}).Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile() 错误 = %v", err)
	}
	if !lenient.Success() || len(lenient.Diagnostics) != 1 || !lenient.Diagnostics[0].IsWarning() {
		t.Fatalf("警告不应阻止生成: %v", lenient.Diagnostics)
	}

	strict, err := newPipeline(nil, nil, Options{WarningsAsErrors: true}).Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile() 错误 = %v", err)
	}
	if strict.Success() || strict.Module != nil {
		t.Fatal("warnings_as_errors 下警告应阻止生成")
	}
	if !strict.Diagnostics[0].IsError() || strict.Diagnostics[0].Code() != analysis.CodeShadowed {
		t.Errorf("诊断 = %v", strict.Diagnostics)
	}
}

func TestCompile_MaxDiagnostics(t *testing.T) {
	src := source("many.ace", "fn f() { a; b; c; }")

	result, err := newPipeline(nil, nil, Options{MaxDiagnostics: 2}).Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile() 错误 = %v", err)
	}
	if len(result.Diagnostics) != 2 || result.Truncated != 1 {
		t.Fatalf("诊断 = %v, 截断 = %d", result.Diagnostics, result.Truncated)
	}

	unlimited, err := newPipeline(nil, nil, Options{}).Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile() 错误 = %v", err)
	}
	if len(unlimited.Diagnostics) != 3 || unlimited.Truncated != 0 {
		t.Errorf("诊断 = %v", unlimited.Diagnostics)
	}
}

func TestCompileAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(nil, nil, Options{Parallelism: 2}).CompileAll(ctx, []analysis.SourceCode{
		source("a.ace", "fn a() {}"),
		source("b.ace", "fn b() {}"),
	})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("CompileAll() 错误 = %v, want ErrCanceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("错误应保留 context.Canceled: %v", err)
	}
}

type rejectingIRService struct {
	middleendports.IIRService
}

func (rejectingIRService) VerifyModule(context.Context, commands.VerifyModuleCommand) error {
	return errors.New("@f/%entry: block has no terminator")
}

func TestCompile_VerificationFailure(t *testing.T) {
	result, err := newPipeline(nil, rejectingIRService{}, Options{}).Compile(context.Background(), source("v.ace", "fn f() {}"))
	if err != nil {
		t.Fatalf("Compile() 错误 = %v", err)
	}
	if result.Success() || result.Module != nil {
		t.Fatal("验证失败时不应返回模块")
	}
	d := result.Diagnostics[len(result.Diagnostics)-1]
	if d.Kind() != analysis.InternalInvariantError || d.Code() != analysis.CodeInvariant {
		t.Errorf("诊断 = %s", d)
	}
}

func TestNewService_Defaults(t *testing.T) {
	p := NewService(nil, nil, nil, nil, nil, Options{})
	if p.Options().Parallelism != 1 {
		t.Errorf("Parallelism = %d, want 1", p.Options().Parallelism)
	}
}
