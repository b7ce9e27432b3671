// Package entities 定义语义分析的实体
package entities

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// ScopeKind 作用域种类
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

// String 返回ScopeKind的字符串表示
func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Scope 作用域。父作用域用ID引用，不持有指针
type Scope struct {
	ID      analysis.ScopeID
	Kind    ScopeKind
	Parent  analysis.ScopeID
	Symbols map[string]*analysis.Symbol
	Order   []*analysis.Symbol // 声明顺序
}

// ScopeTable 作用域表，所有作用域分配在一个切片中，以ScopeID索引
type ScopeTable struct {
	scopes     []Scope
	nextSymbol analysis.SymbolID
}

// NewScopeTable 创建作用域表并分配全局作用域
func NewScopeTable() *ScopeTable {
	t := &ScopeTable{nextSymbol: 1}
	t.Push(ScopeGlobal, analysis.NoScope)
	return t
}

// Global 返回全局作用域ID
func (t *ScopeTable) Global() analysis.ScopeID {
	return 1
}

// Len 返回作用域数量
func (t *ScopeTable) Len() int {
	return len(t.scopes)
}

// Push 分配新的作用域
func (t *ScopeTable) Push(kind ScopeKind, parent analysis.ScopeID) analysis.ScopeID {
	id := analysis.ScopeID(len(t.scopes) + 1)
	t.scopes = append(t.scopes, Scope{
		ID:      id,
		Kind:    kind,
		Parent:  parent,
		Symbols: make(map[string]*analysis.Symbol),
	})
	return id
}

// Scope 按ID取作用域
func (t *ScopeTable) Scope(id analysis.ScopeID) *Scope {
	if id == analysis.NoScope || int(id) > len(t.scopes) {
		panic(fmt.Sprintf("invalid scope id %d", id))
	}
	return &t.scopes[id-1]
}

// NewSymbol 创建符号并分配编号
func (t *ScopeTable) NewSymbol(name string, kind analysis.SymbolKind, decl analysis.Node) *analysis.Symbol {
	sym := &analysis.Symbol{
		ID:   t.nextSymbol,
		Name: name,
		Kind: kind,
		Decl: decl,
	}
	t.nextSymbol++
	return sym
}

// Declare 在作用域中声明符号。同名符号已存在时返回已有符号和false
func (t *ScopeTable) Declare(scope analysis.ScopeID, sym *analysis.Symbol) (*analysis.Symbol, bool) {
	s := t.Scope(scope)
	if existing, ok := s.Symbols[sym.Name]; ok {
		return existing, false
	}
	sym.Scope = scope
	s.Symbols[sym.Name] = sym
	s.Order = append(s.Order, sym)
	return sym, true
}

// LookupLocal 只在指定作用域中查找
func (t *ScopeTable) LookupLocal(scope analysis.ScopeID, name string) *analysis.Symbol {
	return t.Scope(scope).Symbols[name]
}

// Lookup 从指定作用域沿父链向外查找
func (t *ScopeTable) Lookup(scope analysis.ScopeID, name string) *analysis.Symbol {
	for id := scope; id != analysis.NoScope; id = t.Scope(id).Parent {
		if sym, ok := t.Scope(id).Symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupOuter 从父作用域开始查找，用于检测遮蔽
func (t *ScopeTable) LookupOuter(scope analysis.ScopeID, name string) *analysis.Symbol {
	return t.Lookup(t.Scope(scope).Parent, name)
}
