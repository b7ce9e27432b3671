package generation

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// IRModuleManager LLVM IR模块管理领域服务接口
// 职责：统一管理IR模块的构建和当前插入位置，保证每个基本块恰好一个终结指令
type IRModuleManager interface {
	// 获取正在构建的模块
	Module() *ir.Module

	// 全局量管理
	AddGlobal(name string, init constant.Constant, immutable bool) *ir.Global
	AddStringConstant(content string) constant.Constant
	DefineStruct(name string) *types.StructType

	// 函数管理
	CreateFunction(name string, returnType types.Type, params ...*ir.Param) *ir.Func
	BeginFunction(fn *ir.Func)
	EndFunction()
	GetCurrentFunction() *ir.Func

	// 基本块管理。NewBasicBlock 创建的块在插入位置移到它时才加入函数
	NewBasicBlock(name string) *ir.Block
	SetInsertBlock(block *ir.Block)
	GetCurrentBlock() *ir.Block
	IsTerminated() bool

	// CreateEntryAlloca 在入口块顶部分配局部变量
	CreateEntryAlloca(typ types.Type, name string) *ir.InstAlloca
}
