package services

import (
	"context"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/application/commands"
)

// IFrontendService defines the interface for frontend processing operations.
// This interface is exposed to other modules for source code analysis.
type IFrontendService interface {
	// PerformLexicalAnalysis tokenizes a compilation unit
	PerformLexicalAnalysis(ctx context.Context, cmd commands.PerformLexicalAnalysisCommand) (*commands.LexicalAnalysisResult, error)

	// PerformAnalysis parses, resolves and type checks a compilation unit
	PerformAnalysis(ctx context.Context, cmd commands.PerformAnalysisCommand) (*commands.AnalysisResult, error)
}
