package analysis

import vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

// SymbolKind 符号种类
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolParameter
	SymbolFunction
	SymbolStruct
	SymbolGlobal
	// SymbolError 错误哨兵：未声明的名字绑定到它，后续阶段不再报错
	SymbolError
)

// String 返回SymbolKind的字符串表示
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolGlobal:
		return "global"
	case SymbolError:
		return "error"
	default:
		return "unknown"
	}
}

// ScopeID 作用域在作用域表中的索引，0 表示无作用域
type ScopeID uint32

// NoScope 无效作用域
const NoScope ScopeID = 0

// SymbolID 符号编号，在一次解析内唯一，0 保留给错误哨兵
type SymbolID uint32

// Symbol 已声明的名字
type Symbol struct {
	ID      SymbolID
	Name    string
	Kind    SymbolKind
	Type    vo.Type // 由类型检查器填写
	Decl    Node    // 声明节点
	Scope   ScopeID // 所在作用域
	Mutable bool

	// AddressTaken 对该符号取过地址，IR生成时需要分配栈槽
	AddressTaken bool
}

// ErrorSymbol 错误哨兵符号，只读
var ErrorSymbol = &Symbol{
	Name: "<error>",
	Kind: SymbolError,
	Type: vo.Unresolved,
}

// IsError 检查是否为错误哨兵
func (s *Symbol) IsError() bool {
	return s == nil || s.Kind == SymbolError
}

// IsValue 检查符号是否可以作为值使用
func (s *Symbol) IsValue() bool {
	switch s.Kind {
	case SymbolVariable, SymbolParameter, SymbolGlobal:
		return true
	}
	return false
}
