package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir/value"
)

// ControlFlowGenerator 控制流生成领域服务接口
// 职责：负责条件分支、循环和短路求值的基本块结构
type ControlFlowGenerator interface {
	// 生成if语句，合并块只在某个分支可能落空时创建
	GenerateIfStatement(stmt *analysis.IfStmt) error

	// 生成while循环
	GenerateWhileStatement(stmt *analysis.WhileStmt) error

	// 生成break语句
	GenerateBreakStatement(stmt *analysis.BreakStmt) error

	// 生成continue语句
	GenerateContinueStatement(stmt *analysis.ContinueStmt) error

	// 生成 && 和 || 的短路求值，结果为phi
	GenerateLogicalExpr(expr *analysis.LogicalExpr) (value.Value, error)

	// 检查是否在循环上下文中
	IsInLoopContext() bool

	// 清空循环上下文栈
	Reset()
}
