package analysis

import vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

// LiteralKind 字面量种类
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
)

// String 返回LiteralKind的字符串表示
func (k LiteralKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case BoolLit:
		return "bool"
	default:
		return "unknown"
	}
}

// Literal 字面量表达式
type Literal struct {
	exprBase
	Kind   LiteralKind
	Raw    string // 不含后缀的数字文本，或字符串内容
	Suffix string // 宽度后缀，如 i32、f32

	// 由类型检查器填写
	IntValue   int64
	FloatValue float64
	BoolValue  bool
}

// NewLiteral 创建新的Literal
func NewLiteral(kind LiteralKind, raw, suffix string, span Span) *Literal {
	lit := &Literal{exprBase: exprBase{nodeBase: nodeBase{span}}, Kind: kind, Raw: raw, Suffix: suffix}
	if kind == BoolLit {
		lit.BoolValue = raw == "true"
	}
	return lit
}

// Identifier 标识符引用
type Identifier struct {
	exprBase
	Name   string
	Symbol *Symbol
}

// NewIdentifier 创建新的Identifier
func NewIdentifier(name string, span Span) *Identifier {
	return &Identifier{exprBase: exprBase{nodeBase: nodeBase{span}}, Name: name}
}

// BinaryExpr 算术与比较表达式
type BinaryExpr struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// NewBinaryExpr 创建新的BinaryExpr
func NewBinaryExpr(op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: exprBase{nodeBase: nodeBase{left.Span().To(right.Span())}}, Op: op, Left: left, Right: right}
}

// LogicalExpr 短路逻辑表达式
type LogicalExpr struct {
	exprBase
	Op    LogicalOp
	Left  Expr
	Right Expr
}

// NewLogicalExpr 创建新的LogicalExpr
func NewLogicalExpr(op LogicalOp, left, right Expr) *LogicalExpr {
	return &LogicalExpr{exprBase: exprBase{nodeBase: nodeBase{left.Span().To(right.Span())}}, Op: op, Left: left, Right: right}
}

// UnaryExpr 前缀一元表达式
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

// NewUnaryExpr 创建新的UnaryExpr
func NewUnaryExpr(op UnaryOp, operand Expr, span Span) *UnaryExpr {
	return &UnaryExpr{exprBase: exprBase{nodeBase: nodeBase{span}}, Op: op, Operand: operand}
}

// AssignExpr 赋值表达式，右结合，值为赋入的值
type AssignExpr struct {
	exprBase
	Target Expr
	Value  Expr
}

// NewAssignExpr 创建新的AssignExpr
func NewAssignExpr(target, value Expr) *AssignExpr {
	return &AssignExpr{exprBase: exprBase{nodeBase: nodeBase{target.Span().To(value.Span())}}, Target: target, Value: value}
}

// CallExpr 函数调用
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

// NewCallExpr 创建新的CallExpr
func NewCallExpr(callee Expr, args []Expr, span Span) *CallExpr {
	return &CallExpr{exprBase: exprBase{nodeBase: nodeBase{span}}, Callee: callee, Args: args}
}

// FieldExpr 字段访问
type FieldExpr struct {
	exprBase
	X         Expr
	Field     string
	FieldSpan Span

	// 由类型检查器填写
	Index          int
	ThroughPointer bool
}

// NewFieldExpr 创建新的FieldExpr
func NewFieldExpr(x Expr, field string, fieldSpan Span) *FieldExpr {
	return &FieldExpr{
		exprBase:  exprBase{nodeBase: nodeBase{x.Span().To(fieldSpan)}},
		X:         x,
		Field:     field,
		FieldSpan: fieldSpan,
		Index:     -1,
	}
}

// CastExpr 类型转换。Implicit 的转换由类型检查器插入，Target 为 nil
type CastExpr struct {
	exprBase
	X        Expr
	Target   TypeExpr
	Implicit bool
}

// NewCastExpr 创建新的显式CastExpr
func NewCastExpr(x Expr, target TypeExpr) *CastExpr {
	return &CastExpr{exprBase: exprBase{nodeBase: nodeBase{x.Span().To(target.Span())}}, X: x, Target: target}
}

// NewImplicitCast 创建隐式转换节点
func NewImplicitCast(x Expr, to vo.Type) *CastExpr {
	c := &CastExpr{exprBase: exprBase{nodeBase: nodeBase{x.Span()}}, X: x, Implicit: true}
	c.SetType(to)
	return c
}

// FieldInit 结构体字面量中的字段初始化
type FieldInit struct {
	nodeBase
	Name  string
	Value Expr
	Index int
}

// NewFieldInit 创建新的FieldInit
func NewFieldInit(name string, value Expr, span Span) *FieldInit {
	return &FieldInit{nodeBase: nodeBase{span}, Name: name, Value: value, Index: -1}
}

// StructLiteral 结构体字面量
type StructLiteral struct {
	exprBase
	Name     string
	NameSpan Span
	Fields   []*FieldInit
	Symbol   *Symbol
}

// NewStructLiteral 创建新的StructLiteral
func NewStructLiteral(name string, nameSpan Span, fields []*FieldInit, span Span) *StructLiteral {
	return &StructLiteral{exprBase: exprBase{nodeBase: nodeBase{span}}, Name: name, NameSpan: nameSpan, Fields: fields}
}

// BadExpr 语法错误后的占位表达式
type BadExpr struct {
	exprBase
}

// NewBadExpr 创建新的BadExpr
func NewBadExpr(span Span) *BadExpr {
	return &BadExpr{exprBase{nodeBase: nodeBase{span}}}
}

type typeBase struct {
	nodeBase
	resolved vo.Type
}

// Resolved 返回标注解析后的类型
func (t *typeBase) Resolved() vo.Type {
	return t.resolved
}

// SetResolved 设置解析后的类型
func (t *typeBase) SetResolved(r vo.Type) {
	t.resolved = r
}

func (*typeBase) typeExprNode() {}

// NamedType 按名字引用的类型，内置类型或结构体
type NamedType struct {
	typeBase
	Name   string
	Symbol *Symbol // 结构体类型时由解析器绑定
}

// NewNamedType 创建新的NamedType
func NewNamedType(name string, span Span) *NamedType {
	return &NamedType{typeBase: typeBase{nodeBase: nodeBase{span}}, Name: name}
}

// PointerTypeExpr 指针类型标注 *T
type PointerTypeExpr struct {
	typeBase
	Elem TypeExpr
}

// NewPointerTypeExpr 创建新的PointerTypeExpr
func NewPointerTypeExpr(elem TypeExpr, span Span) *PointerTypeExpr {
	return &PointerTypeExpr{typeBase: typeBase{nodeBase: nodeBase{span}}, Elem: elem}
}

// IsLValue 检查表达式是否可以出现在赋值左侧或被取地址
func IsLValue(e Expr) bool {
	switch x := e.(type) {
	case *Identifier:
		return true
	case *FieldExpr:
		return x.ThroughPointer || IsLValue(x.X)
	case *UnaryExpr:
		return x.Op == OpDeref
	}
	return false
}
