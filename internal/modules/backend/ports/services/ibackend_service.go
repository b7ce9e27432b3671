package services

import (
	"context"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
)

// IBackendService 后端服务接口
type IBackendService interface {
	// Lower 把分析无错误的程序降低为IR模块。诊断中有错误时返回 ErrAnalysisFailed
	Lower(ctx context.Context, program *analysis.Program, diagnostics []analysis.Diagnostic) (*ir.Module, error)
}
