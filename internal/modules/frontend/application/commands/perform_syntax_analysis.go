package commands

import (
	"time"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// PerformAnalysisCommand 完整前端分析命令：词法、语法、名字解析和类型检查
type PerformAnalysisCommand struct {
	UnitID string
	Source analysis.SourceCode
}

// NewPerformAnalysisCommand 创建分析命令
func NewPerformAnalysisCommand(unitID string, source analysis.SourceCode) PerformAnalysisCommand {
	return PerformAnalysisCommand{UnitID: unitID, Source: source}
}

// Validate 验证命令
func (c PerformAnalysisCommand) Validate() error {
	return validateUnit(c.UnitID, c.Source)
}

// AnalysisResult 分析结果。有错误时 Program 仍然是尽力构建的AST
type AnalysisResult struct {
	UnitID      string
	Program     *analysis.Program
	Diagnostics []analysis.Diagnostic
	Duration    time.Duration
}

// HasErrors 检查是否有错误诊断
func (r *AnalysisResult) HasErrors() bool {
	return analysis.HasErrors(r.Diagnostics)
}

func validateUnit(unitID string, source analysis.SourceCode) error {
	if unitID == "" {
		return NewValidationError("unit_id", "is required")
	}
	if source.FilePath() == "" {
		return NewValidationError("source.file_path", "is required")
	}
	return nil
}
