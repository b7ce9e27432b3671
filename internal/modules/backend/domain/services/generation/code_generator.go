package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
)

// GenerationOptions 代码生成选项
type GenerationOptions struct {
	TargetTriple   string
	SourceFilename string
}

// LoopContext 循环上下文
type LoopContext struct {
	BreakTarget    *ir.Block // break跳转目标
	ContinueTarget *ir.Block // continue跳转目标
}

// CodeGenerator 代码生成器领域服务接口
// 职责：协调所有代码生成子服务，把已通过检查的程序降低为一个IR模块
type CodeGenerator interface {
	// 生成完整程序
	GenerateProgram(program *analysis.Program) (*ir.Module, error)

	// 获取语句生成器
	GetStatementGenerator() StatementGenerator

	// 获取表达式求值器
	GetExpressionEvaluator() ExpressionEvaluator

	// 获取控制流生成器
	GetControlFlowGenerator() ControlFlowGenerator

	// 获取符号管理器
	GetSymbolManager() SymbolManager

	// 获取类型映射器
	GetTypeMapper() TypeMapper
}
