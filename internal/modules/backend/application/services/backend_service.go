package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	domainservices "github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/backend/ports/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
)

// ErrAnalysisFailed 分析阶段产生了错误，不生成IR
var ErrAnalysisFailed = errors.New("analysis reported errors")

// BackendService 后端应用服务
type BackendService struct {
	generator domainservices.ModuleGenerator
	logger    *logging.Logger
}

// NewBackendService 创建后端服务
func NewBackendService(generator domainservices.ModuleGenerator, logger *logging.Logger) portservices.IBackendService {
	return &BackendService{
		generator: generator,
		logger:    logger,
	}
}

// Lower 生成IR模块。IR生成是唯一的致命关卡：只要有一个错误诊断就不生成，警告不影响
func (s *BackendService) Lower(ctx context.Context, program *analysis.Program, diagnostics []analysis.Diagnostic) (*ir.Module, error) {
	if n := analysis.CountErrors(diagnostics); n > 0 {
		return nil, fmt.Errorf("%s: %w (%d errors)", program.File, ErrAnalysisFailed, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("IR generation canceled: %w", err)
	}

	module, err := s.generator.Generate(program)
	if err != nil {
		var invariant *generation.InvariantError
		if errors.As(err, &invariant) {
			s.logger.Errorf("internal invariant violated while lowering %s: %v", program.File, invariant)
		}
		return nil, fmt.Errorf("lowering %s: %w", program.File, err)
	}
	return module, nil
}

// InvariantDiagnostic 把IR生成中的内部错误转换为 InternalInvariantError 诊断。
// 不是内部错误时返回false
func InvariantDiagnostic(err error, program *analysis.Program) (analysis.Diagnostic, bool) {
	var invariant *generation.InvariantError
	if !errors.As(err, &invariant) {
		return analysis.Diagnostic{}, false
	}
	return analysis.NewDiagnostic(analysis.InternalInvariantError, analysis.CodeInvariant,
		invariant.Error(), program.Span()), true
}
