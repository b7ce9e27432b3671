package commands

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// PerformLexicalAnalysisCommand 词法分析命令
type PerformLexicalAnalysisCommand struct {
	UnitID string
	Source analysis.SourceCode
}

// NewPerformLexicalAnalysisCommand 创建词法分析命令
func NewPerformLexicalAnalysisCommand(unitID string, source analysis.SourceCode) PerformLexicalAnalysisCommand {
	return PerformLexicalAnalysisCommand{UnitID: unitID, Source: source}
}

// Validate 验证命令
func (c PerformLexicalAnalysisCommand) Validate() error {
	return validateUnit(c.UnitID, c.Source)
}

// LexicalAnalysisResult 词法分析结果，Tokens 以EOF结尾
type LexicalAnalysisResult struct {
	UnitID      string
	Tokens      []analysis.Token
	Diagnostics []analysis.Diagnostic
}
