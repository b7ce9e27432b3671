package services

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
)

// ModuleGenerator 模块生成器接口（领域层定义纯接口）
// 实现把一个已通过检查的程序降低为一个独立的IR模块，每次调用互不影响
type ModuleGenerator interface {
	Generate(program *analysis.Program) (*ir.Module, error)
}
