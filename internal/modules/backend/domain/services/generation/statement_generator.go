package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// StatementGenerator 语句生成领域服务接口
// 职责：负责函数体和所有语句的代码生成逻辑
type StatementGenerator interface {
	// 生成函数定义：入口块、参数绑定、函数体和结尾终结指令
	GenerateFunction(fn *analysis.FunctionDecl) error

	// 生成语句块
	GenerateBlock(block *analysis.Block) error

	// 生成单个语句
	GenerateStatement(stmt analysis.Stmt) error

	// 生成变量声明
	GenerateVarDeclaration(stmt *analysis.VarDecl) error

	// 生成返回语句
	GenerateReturnStatement(stmt *analysis.ReturnStmt) error

	// 生成表达式语句
	GenerateExpressionStatement(stmt *analysis.ExprStmt) error
}
