package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/application/commands"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/frontend/ports/services"
)

// frontendService 前端应用服务实现
type frontendService struct {
	tokenizer      analysis.Tokenizer
	parser         analysis.Parser
	analyzer       *semantic.SemanticAnalyzer
	eventPublisher events.EventPublisher
	logger         *logging.Logger
}

// NewFrontendService 创建前端应用服务
func NewFrontendService(
	tokenizer analysis.Tokenizer,
	parser analysis.Parser,
	analyzer *semantic.SemanticAnalyzer,
	eventPublisher events.EventPublisher,
	logger *logging.Logger,
) portservices.IFrontendService {
	return &frontendService{
		tokenizer:      tokenizer,
		parser:         parser,
		analyzer:       analyzer,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// PerformLexicalAnalysis 执行词法分析用例
func (s *frontendService) PerformLexicalAnalysis(ctx context.Context, cmd commands.PerformLexicalAnalysisCommand) (*commands.LexicalAnalysisResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens, diagnostics := s.tokenizer.Tokenize(cmd.Source)
	return &commands.LexicalAnalysisResult{
		UnitID:      cmd.UnitID,
		Tokens:      tokens,
		Diagnostics: diagnostics,
	}, nil
}

// PerformAnalysis 执行前端分析用例。
// 语法错误不会阻止语义分析，取消只在阶段之间检查
func (s *frontendService) PerformAnalysis(ctx context.Context, cmd commands.PerformAnalysisCommand) (*commands.AnalysisResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	startTime := time.Now()
	file := cmd.Source.FilePath()

	// 1. 词法和语法分析
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	phaseStart := time.Now()
	tokens, diagnostics := s.tokenizer.Tokenize(cmd.Source)
	program, syntaxDiagnostics := s.parser.Parse(tokens)
	diagnostics = append(diagnostics, syntaxDiagnostics...)
	program.File = file
	s.publishPhase(ctx, cmd.UnitID, file, events.PhaseParse, diagnostics, time.Since(phaseStart))

	// 2. 名字解析和类型检查
	phaseStart = time.Now()
	semanticDiagnostics, err := s.analyzer.AnalyzeSemantics(ctx, program)
	if err != nil {
		return nil, err
	}
	s.publishPhase(ctx, cmd.UnitID, file, events.PhaseSemantic, semanticDiagnostics, time.Since(phaseStart))
	diagnostics = append(diagnostics, semanticDiagnostics...)

	analysis.SortDiagnostics(diagnostics)
	return &commands.AnalysisResult{
		UnitID:      cmd.UnitID,
		Program:     program,
		Diagnostics: diagnostics,
		Duration:    time.Since(startTime),
	}, nil
}

// publishPhase 发布阶段完成事件，发布失败只记录日志
func (s *frontendService) publishPhase(ctx context.Context, unitID, file, phase string, diagnostics []analysis.Diagnostic, duration time.Duration) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewPhaseCompleted(unitID, file, phase, diagnostics, duration)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warnf("failed to publish %s event for %s: %v", phase, file, err)
	}
}
