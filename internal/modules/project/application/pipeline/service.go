// Package pipeline 串联前端、后端和中端，把一组源文件编译为IR模块
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	backendservices "github.com/Popaulol/AroAceLang/internal/modules/backend/application/services"
	backendports "github.com/Popaulol/AroAceLang/internal/modules/backend/ports/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/application/commands"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	frontendports "github.com/Popaulol/AroAceLang/internal/modules/frontend/ports/services"
	irccommands "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/commands"
	middleendports "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"

	"github.com/google/uuid"
	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"
)

// ErrCanceled 编译在阶段之间被取消
var ErrCanceled = errors.New("compilation canceled")

// Options 流水线选项，来自 aroace.toml 的 [compiler] 段
type Options struct {
	WarningsAsErrors bool
	MaxDiagnostics   int // 0 表示不限制
	Parallelism      int
}

// UnitResult 单个编译单元的结果
type UnitResult struct {
	UnitID      string
	File        string
	Source      analysis.SourceCode
	Program     *analysis.Program
	Diagnostics []analysis.Diagnostic
	// Truncated 因 max_diagnostics 被丢弃的诊断数量
	Truncated int
	Module    *ir.Module
	Duration  time.Duration
}

// Success 没有错误诊断并且生成了模块
func (r *UnitResult) Success() bool {
	return r.Module != nil && !analysis.HasErrors(r.Diagnostics)
}

// Service 编译流水线
type Service struct {
	frontend  frontendports.IFrontendService
	backend   backendports.IBackendService
	irService middleendports.IIRService
	publisher events.EventPublisher
	logger    *logging.Logger
	options   Options
}

// NewService 创建编译流水线
func NewService(
	frontend frontendports.IFrontendService,
	backend backendports.IBackendService,
	irService middleendports.IIRService,
	publisher events.EventPublisher,
	logger *logging.Logger,
	options Options,
) *Service {
	if options.Parallelism < 1 {
		options.Parallelism = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		frontend:  frontend,
		backend:   backend,
		irService: irService,
		publisher: publisher,
		logger:    logger,
		options:   options,
	}
}

// Options 返回流水线选项
func (s *Service) Options() Options {
	return s.options
}

// CompileAll 并行编译互相独立的编译单元，结果顺序与输入一致。
// 用户错误记录在各单元的诊断中，只有取消和内部故障才返回error
func (s *Service) CompileAll(ctx context.Context, sources []analysis.SourceCode) ([]*UnitResult, error) {
	results := make([]*UnitResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Parallelism)

	for i, source := range sources {
		g.Go(func() error {
			result, err := s.Compile(gctx, source)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Compile 编译单个编译单元：分析、诊断整理、IR生成、IR验证
func (s *Service) Compile(ctx context.Context, source analysis.SourceCode) (*UnitResult, error) {
	start := time.Now()
	unitID := uuid.NewString()
	file := source.FilePath()

	analyzed, err := s.frontend.PerformAnalysis(ctx, commands.NewPerformAnalysisCommand(unitID, source))
	if err != nil {
		return nil, s.wrap(ctx, file, err)
	}

	result := &UnitResult{
		UnitID:  unitID,
		File:    file,
		Source:  source,
		Program: analyzed.Program,
	}
	result.Diagnostics, result.Truncated = s.arrange(analyzed.Diagnostics)

	if analysis.HasErrors(result.Diagnostics) {
		s.logger.Debugf("%s: %d errors, skipping IR generation", file, analysis.CountErrors(result.Diagnostics))
		s.finish(ctx, result, start)
		return result, nil
	}

	phaseStart := time.Now()
	module, err := s.backend.Lower(ctx, analyzed.Program, result.Diagnostics)
	if err != nil {
		diag, ok := backendservices.InvariantDiagnostic(err, analyzed.Program)
		if !ok {
			return nil, s.wrap(ctx, file, err)
		}
		result.Diagnostics = append(result.Diagnostics, diag)
		s.publish(ctx, events.NewPhaseCompleted(unitID, file, events.PhaseLower, []analysis.Diagnostic{diag}, time.Since(phaseStart)))
		s.finish(ctx, result, start)
		return result, nil
	}
	s.publish(ctx, events.NewPhaseCompleted(unitID, file, events.PhaseLower, nil, time.Since(phaseStart)))

	phaseStart = time.Now()
	if err := s.irService.VerifyModule(ctx, irccommands.VerifyModuleCommand{UnitID: unitID, Module: module}); err != nil {
		if ctx.Err() != nil {
			return nil, s.wrap(ctx, file, err)
		}
		diag := analysis.NewDiagnostic(analysis.InternalInvariantError, analysis.CodeInvariant,
			fmt.Sprintf("generated IR failed verification: %v", err), analyzed.Program.Span())
		result.Diagnostics = append(result.Diagnostics, diag)
		s.publish(ctx, events.NewPhaseCompleted(unitID, file, events.PhaseVerify, []analysis.Diagnostic{diag}, time.Since(phaseStart)))
		s.finish(ctx, result, start)
		return result, nil
	}
	s.publish(ctx, events.NewPhaseCompleted(unitID, file, events.PhaseVerify, nil, time.Since(phaseStart)))

	result.Module = module
	s.finish(ctx, result, start)
	return result, nil
}

// arrange 按配置提升警告并截断诊断列表。诊断已按位置排序
func (s *Service) arrange(diagnostics []analysis.Diagnostic) ([]analysis.Diagnostic, int) {
	if s.options.WarningsAsErrors {
		for i, d := range diagnostics {
			diagnostics[i] = d.Promote()
		}
	}
	if limit := s.options.MaxDiagnostics; limit > 0 && len(diagnostics) > limit {
		return diagnostics[:limit], len(diagnostics) - limit
	}
	return diagnostics, 0
}

func (s *Service) finish(ctx context.Context, result *UnitResult, start time.Time) {
	result.Duration = time.Since(start)
	s.publish(ctx, events.NewUnitCompiled(result.UnitID, result.File, result.Success()))
	s.logger.Debugf("%s: compiled in %s (success=%t)", result.File, result.Duration, result.Success())
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warnf("failed to publish %s: %v", event.GetEventType(), err)
	}
}

// wrap 把取消统一为 ErrCanceled，其余错误附加文件名
func (s *Service) wrap(ctx context.Context, file string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", file, ErrCanceled, err)
	}
	return fmt.Errorf("%s: %w", file, err)
}
