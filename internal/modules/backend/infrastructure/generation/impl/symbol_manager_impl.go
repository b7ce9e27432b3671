package impl

import (
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// SymbolManagerImpl 符号管理器实现。解析器已保证符号唯一，按符号指针索引即可
type SymbolManagerImpl struct {
	globals map[*analysis.Symbol]generation.Binding
	locals  map[*analysis.Symbol]generation.Binding
}

// NewSymbolManagerImpl 创建符号管理器实现
func NewSymbolManagerImpl() *SymbolManagerImpl {
	return &SymbolManagerImpl{
		globals: make(map[*analysis.Symbol]generation.Binding),
		locals:  make(map[*analysis.Symbol]generation.Binding),
	}
}

// BindValue 绑定SSA值
func (sm *SymbolManagerImpl) BindValue(sym *analysis.Symbol, v value.Value) {
	sm.scopeFor(sym)[sym] = generation.Binding{Kind: generation.BindValue, Value: v}
}

// BindAddress 绑定内存地址
func (sm *SymbolManagerImpl) BindAddress(sym *analysis.Symbol, ptr value.Value, elemType types.Type) {
	sm.scopeFor(sym)[sym] = generation.Binding{Kind: generation.BindAddress, Value: ptr, ElemType: elemType}
}

// BindFunction 绑定函数
func (sm *SymbolManagerImpl) BindFunction(sym *analysis.Symbol, fn *ir.Func) {
	sm.globals[sym] = generation.Binding{Kind: generation.BindFunction, Value: fn}
}

// Lookup 查找符号，先查局部再查全局
func (sm *SymbolManagerImpl) Lookup(sym *analysis.Symbol) (generation.Binding, bool) {
	if b, ok := sm.locals[sym]; ok {
		return b, true
	}
	b, ok := sm.globals[sym]
	return b, ok
}

// EnterFunction 进入新函数
func (sm *SymbolManagerImpl) EnterFunction() {
	sm.locals = make(map[*analysis.Symbol]generation.Binding)
}

// Clear 清理所有符号
func (sm *SymbolManagerImpl) Clear() {
	sm.globals = make(map[*analysis.Symbol]generation.Binding)
	sm.locals = make(map[*analysis.Symbol]generation.Binding)
}

func (sm *SymbolManagerImpl) scopeFor(sym *analysis.Symbol) map[*analysis.Symbol]generation.Binding {
	switch sym.Kind {
	case analysis.SymbolGlobal, analysis.SymbolFunction:
		return sm.globals
	}
	return sm.locals
}
