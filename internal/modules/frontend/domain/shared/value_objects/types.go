// Package value_objects 定义前端各阶段共享的值对象
package value_objects

import (
	"fmt"
	"strings"
)

// Type 语义类型。闭合集合：IntType, FloatType, BoolType, VoidType,
// PointerType, FunctionType, StructType, UnresolvedType
type Type interface {
	String() string
	isType()
}

// IntType 有符号整数类型
type IntType struct {
	Width int // 8, 16, 32, 64
}

// FloatType 浮点类型
type FloatType struct {
	Width int // 32, 64
}

// BoolType 布尔类型
type BoolType struct{}

// VoidType 无返回值类型
type VoidType struct{}

// PointerType 指针类型
type PointerType struct {
	Elem Type
}

// FunctionType 函数签名
type FunctionType struct {
	Params []Type
	Return Type
}

// StructType 结构体类型，按名字比较（名义类型）
type StructType struct {
	Name   string
	Fields []Field
}

// Field 结构体字段
type Field struct {
	Name string
	Type Type
}

// UnresolvedType 错误哨兵类型，出现在已报告错误的表达式上，不再级联报错
type UnresolvedType struct{}

func (*IntType) isType()       {}
func (*FloatType) isType()     {}
func (BoolType) isType()       {}
func (VoidType) isType()       {}
func (*PointerType) isType()   {}
func (*FunctionType) isType()  {}
func (*StructType) isType()    {}
func (UnresolvedType) isType() {}

// 内置类型
var (
	Int8    Type = &IntType{Width: 8}
	Int16   Type = &IntType{Width: 16}
	Int32   Type = &IntType{Width: 32}
	Int64   Type = &IntType{Width: 64}
	Float32 Type = &FloatType{Width: 32}
	Float64 Type = &FloatType{Width: 64}

	Bool       Type = BoolType{}
	Void       Type = VoidType{}
	Unresolved Type = UnresolvedType{}

	// Int 和 Float 是64位类型的别名
	Int   = Int64
	Float = Float64
)

// builtinTypes 内置类型名表，初始化后只读
var builtinTypes = map[string]Type{
	"Int":     Int64,
	"Int8":    Int8,
	"Int16":   Int16,
	"Int32":   Int32,
	"Int64":   Int64,
	"Float":   Float64,
	"Float32": Float32,
	"Float64": Float64,
	"Bool":    Bool,
	"Void":    Void,
}

// LookupBuiltinType 按名字查找内置类型
func LookupBuiltinType(name string) (Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}

// IntOfWidth 返回指定宽度的整数类型
func IntOfWidth(width int) Type {
	switch width {
	case 8:
		return Int8
	case 16:
		return Int16
	case 32:
		return Int32
	default:
		return Int64
	}
}

// FloatOfWidth 返回指定宽度的浮点类型
func FloatOfWidth(width int) Type {
	if width == 32 {
		return Float32
	}
	return Float64
}

// NewPointer 创建指针类型
func NewPointer(elem Type) Type {
	return &PointerType{Elem: elem}
}

func (t *IntType) String() string {
	if t.Width == 64 {
		return "Int"
	}
	return fmt.Sprintf("Int%d", t.Width)
}

func (t *FloatType) String() string {
	if t.Width == 64 {
		return "Float"
	}
	return fmt.Sprintf("Float%d", t.Width)
}

func (BoolType) String() string       { return "Bool" }
func (VoidType) String() string       { return "Void" }
func (UnresolvedType) String() string { return "<unresolved>" }

func (t *PointerType) String() string {
	return "*" + t.Elem.String()
}

func (t *FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), t.Return)
}

func (t *StructType) String() string {
	return t.Name
}

// FieldIndex 按名字查找字段
func (t *StructType) FieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Equal 判断两个类型是否相同。结构体按名字比较，其余按结构比较
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case *IntType:
		y, ok := b.(*IntType)
		return ok && x.Width == y.Width
	case *FloatType:
		y, ok := b.(*FloatType)
		return ok && x.Width == y.Width
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case VoidType:
		_, ok := b.(VoidType)
		return ok
	case UnresolvedType:
		_, ok := b.(UnresolvedType)
		return ok
	case *PointerType:
		y, ok := b.(*PointerType)
		return ok && Equal(x.Elem, y.Elem)
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.Params) != len(y.Params) || !Equal(x.Return, y.Return) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	case *StructType:
		y, ok := b.(*StructType)
		return ok && x.Name == y.Name
	}
	return false
}

// IsUnresolved 检查类型是否为错误哨兵（nil视为未解析）
func IsUnresolved(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(UnresolvedType)
	return ok
}

// IsInteger 检查是否为整数类型
func IsInteger(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

// IsFloat 检查是否为浮点类型
func IsFloat(t Type) bool {
	_, ok := t.(*FloatType)
	return ok
}

// IsNumeric 检查是否为数值类型
func IsNumeric(t Type) bool {
	return IsInteger(t) || IsFloat(t)
}

// IsBool 检查是否为布尔类型
func IsBool(t Type) bool {
	_, ok := t.(BoolType)
	return ok
}

// IsVoid 检查是否为Void
func IsVoid(t Type) bool {
	_, ok := t.(VoidType)
	return ok
}

// IsPointer 检查是否为指针类型
func IsPointer(t Type) bool {
	_, ok := t.(*PointerType)
	return ok
}

// ContainsUnresolved 检查类型中是否含有错误哨兵
func ContainsUnresolved(t Type) bool {
	switch x := t.(type) {
	case nil:
		return true
	case UnresolvedType:
		return true
	case *PointerType:
		return ContainsUnresolved(x.Elem)
	case *FunctionType:
		for _, p := range x.Params {
			if ContainsUnresolved(p) {
				return true
			}
		}
		return ContainsUnresolved(x.Return)
	}
	return false
}
