package services

import vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

// intToFloatWidening 整数到浮点的隐式转换表：整数宽度 -> 可接受的最小浮点宽度
var intToFloatWidening = map[int]int{
	8:  32,
	16: 32,
	32: 64,
	64: 64,
}

// CanImplicitlyConvert 检查 from 是否可以隐式转换为 to。
// 只允许加宽：整数到更宽整数、整数到浮点、Float32 到 Float64
func CanImplicitlyConvert(from, to vo.Type) bool {
	if vo.Equal(from, to) {
		return true
	}
	switch f := from.(type) {
	case *vo.IntType:
		switch t := to.(type) {
		case *vo.IntType:
			return t.Width >= f.Width
		case *vo.FloatType:
			return t.Width >= intToFloatWidening[f.Width]
		}
	case *vo.FloatType:
		if t, ok := to.(*vo.FloatType); ok {
			return t.Width >= f.Width
		}
	}
	return false
}

// CanExplicitlyConvert 检查 as 转换是否合法
func CanExplicitlyConvert(from, to vo.Type) bool {
	if vo.Equal(from, to) {
		return true
	}
	switch {
	case vo.IsNumeric(from) && vo.IsNumeric(to):
		return true
	case vo.IsBool(from) && vo.IsInteger(to):
		return true
	case vo.IsPointer(from) && vo.IsPointer(to):
		return true
	}
	return false
}

// CommonNumericType 返回两个数值类型的公共类型，即两者都能隐式转换到的那一个
func CommonNumericType(a, b vo.Type) (vo.Type, bool) {
	if !vo.IsNumeric(a) || !vo.IsNumeric(b) {
		return nil, false
	}
	switch {
	case CanImplicitlyConvert(a, b):
		return b, true
	case CanImplicitlyConvert(b, a):
		return a, true
	}
	return nil, false
}
