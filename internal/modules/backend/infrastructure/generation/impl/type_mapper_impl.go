package impl

import (
	"fmt"

	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// TypeMapperImpl 类型映射器实现
type TypeMapperImpl struct {
	structs map[string]*types.StructType
}

// NewTypeMapperImpl 创建类型映射器实现
func NewTypeMapperImpl() *TypeMapperImpl {
	return &TypeMapperImpl{
		structs: make(map[string]*types.StructType),
	}
}

// MapType 映射类型
func (tm *TypeMapperImpl) MapType(t vo.Type) (types.Type, error) {
	switch x := t.(type) {
	case *vo.IntType:
		return types.NewInt(uint64(x.Width)), nil
	case *vo.FloatType:
		if x.Width == 32 {
			return types.Float, nil
		}
		return types.Double, nil
	case vo.BoolType:
		return types.I1, nil
	case vo.VoidType:
		return types.Void, nil
	case *vo.PointerType:
		if vo.IsVoid(x.Elem) {
			return types.I8Ptr, nil
		}
		elem, err := tm.MapType(x.Elem)
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil
	case *vo.StructType:
		st, ok := tm.structs[x.Name]
		if !ok {
			return nil, fmt.Errorf("struct %s has no type definition", x.Name)
		}
		return st, nil
	case *vo.FunctionType:
		ret, params, err := tm.MapFunctionType(x)
		if err != nil {
			return nil, err
		}
		return types.NewPointer(types.NewFunc(ret, params...)), nil
	}
	return nil, fmt.Errorf("cannot map type %v to IR", t)
}

// MapFunctionType 映射函数签名
func (tm *TypeMapperImpl) MapFunctionType(ft *vo.FunctionType) (types.Type, []types.Type, error) {
	ret, err := tm.MapType(ft.Return)
	if err != nil {
		return nil, nil, fmt.Errorf("return type: %w", err)
	}
	params := make([]types.Type, len(ft.Params))
	for i, p := range ft.Params {
		if params[i], err = tm.MapType(p); err != nil {
			return nil, nil, fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return ret, params, nil
}

// RegisterStruct 注册结构体的命名类型定义
func (tm *TypeMapperImpl) RegisterStruct(name string, def *types.StructType) {
	tm.structs[name] = def
}

// ZeroValue 获取类型的零值，用于没有初始化表达式的var变量
func (tm *TypeMapperImpl) ZeroValue(t vo.Type) (constant.Constant, error) {
	mapped, err := tm.MapType(t)
	if err != nil {
		return nil, err
	}
	switch x := mapped.(type) {
	case *types.IntType:
		if x.BitSize == 1 {
			return constant.False, nil
		}
		return constant.NewInt(x, 0), nil
	case *types.FloatType:
		return constant.NewFloat(x, 0), nil
	case *types.PointerType:
		return constant.NewNull(x), nil
	}
	return constant.NewZeroInitializer(mapped), nil
}

// Reset 清空已注册的结构体
func (tm *TypeMapperImpl) Reset() {
	tm.structs = make(map[string]*types.StructType)
}
