package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/commands"
	"github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/services"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"
)

// IRService IR服务应用层实现
type IRService struct {
	reader   services.IRReader
	verifier services.IRVerifier
	logger   *logging.Logger
}

// NewIRService 创建IR服务
func NewIRService(
	reader services.IRReader,
	verifier services.IRVerifier,
	logger *logging.Logger,
) portservices.IIRService {
	return &IRService{
		reader:   reader,
		verifier: verifier,
		logger:   logger,
	}
}

// ReadIR 读取IR用例
func (s *IRService) ReadIR(ctx context.Context, cmd commands.ReadIRCommand) (*commands.ReadIRResult, error) {
	startTime := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	module, err := s.reader.ParseIR(cmd.Path, cmd.Text)
	if err != nil {
		return nil, err
	}

	if cmd.Verify {
		if err := s.verifier.Verify(module); err != nil {
			return nil, fmt.Errorf("%s: IR verification failed: %w", cmd.Path, err)
		}
	}

	s.logger.Debugf("read IR %s: %d functions, %d globals", cmd.Path, len(module.Funcs), len(module.Globals))
	return &commands.ReadIRResult{
		Path:     cmd.Path,
		Module:   module,
		Duration: time.Since(startTime),
	}, nil
}

// VerifyModule 验证生成的模块。失败说明代码生成器有缺陷
func (s *IRService) VerifyModule(ctx context.Context, cmd commands.VerifyModuleCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.verifier.Verify(cmd.Module); err != nil {
		s.logger.Errorf("generated IR for unit %s failed verification: %v", cmd.UnitID, err)
		return fmt.Errorf("unit %s: %w", cmd.UnitID, err)
	}
	return nil
}

// Snapshot 生成模块快照
func (s *IRService) Snapshot(ctx context.Context, cmd commands.VerifyModuleCommand) (services.ModuleSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return services.ModuleSnapshot{}, err
	}
	return services.Snapshot(cmd.Module)
}
