package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// BindingKind 符号在IR中的绑定方式
type BindingKind int

const (
	// BindValue 直接绑定SSA值
	BindValue BindingKind = iota
	// BindAddress 绑定到内存地址，读取时需要load
	BindAddress
	// BindFunction 绑定到函数
	BindFunction
)

// Binding 符号绑定
type Binding struct {
	Kind     BindingKind
	Value    value.Value
	ElemType types.Type // BindAddress 时为所指内存的类型
}

// SymbolManager 符号管理领域服务接口
// 职责：维护解析后的符号到IR值的映射。全局符号跨函数保留，局部符号在进入函数时清空
type SymbolManager interface {
	BindValue(sym *analysis.Symbol, v value.Value)
	BindAddress(sym *analysis.Symbol, ptr value.Value, elemType types.Type)
	BindFunction(sym *analysis.Symbol, fn *ir.Func)

	// 查找符号
	Lookup(sym *analysis.Symbol) (Binding, bool)

	// 进入新函数，丢弃上一个函数的局部绑定
	EnterFunction()

	// 清理所有符号（用于重置）
	Clear()
}
