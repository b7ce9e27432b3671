package services

import (
	"context"

	"github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/commands"
	domainservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/services"
)

// IIRService IR服务端口接口
type IIRService interface {
	// ReadIR 读取外部IR文本
	ReadIR(ctx context.Context, cmd commands.ReadIRCommand) (*commands.ReadIRResult, error)

	// VerifyModule 验证生成的模块
	VerifyModule(ctx context.Context, cmd commands.VerifyModuleCommand) error

	// Snapshot 生成模块的结构化视图
	Snapshot(ctx context.Context, cmd commands.VerifyModuleCommand) (domainservices.ModuleSnapshot, error)
}
