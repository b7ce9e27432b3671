package codegen

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	generationInfra "github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
)

// LLVMGenerator 基于领域服务容器的LLVM IR生成器
type LLVMGenerator struct {
	options generation.GenerationOptions
	logger  *logging.Logger
}

// NewLLVMGenerator 创建并返回一个新的LLVMGenerator实例
func NewLLVMGenerator(options generation.GenerationOptions, logger *logging.Logger) services.ModuleGenerator {
	return &LLVMGenerator{options: options, logger: logger}
}

// Generate 生成IR模块。每次调用使用新的领域服务容器
func (g *LLVMGenerator) Generate(prog *analysis.Program) (*ir.Module, error) {
	options := g.options
	options.SourceFilename = prog.File
	container := generationInfra.NewContainer(options)

	g.logger.Debugf("generating %s: %d declarations", prog.File, len(prog.Decls))
	module, err := container.CodeGenerator().GenerateProgram(prog)
	if err != nil {
		return nil, err
	}
	g.logger.Debugf("generated %s: %d functions, %d globals", prog.File, len(module.Funcs), len(module.Globals))
	return module, nil
}
