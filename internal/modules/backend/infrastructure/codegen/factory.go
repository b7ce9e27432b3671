package codegen

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
)

// NewModuleGenerator 根据目标三元组创建模块生成器
// 这是一个基础设施层的工厂函数
func NewModuleGenerator(targetTriple string, logger *logging.Logger) services.ModuleGenerator {
	if logger == nil {
		logger = logging.Discard()
	}
	return NewLLVMGenerator(generation.GenerationOptions{TargetTriple: targetTriple}, logger)
}
