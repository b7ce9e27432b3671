package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// ExpressionEvaluator 表达式求值领域服务接口
// 职责：负责所有表达式的求值和指令生成
type ExpressionEvaluator interface {
	// 求值表达式，在当前基本块中生成指令，返回结果值
	Evaluate(expr analysis.Expr) (value.Value, error)

	// 求值左值表达式的地址
	EvaluateAddress(expr analysis.Expr) (value.Value, error)

	// 将全局初始化表达式折叠为常量
	EvaluateConstant(expr analysis.Expr, target vo.Type) (constant.Constant, error)

	// 在数值、布尔和指针类型之间转换
	Convert(v value.Value, from, to vo.Type) (value.Value, error)
}
