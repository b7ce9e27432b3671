package generation

import (
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// TypeMapper 类型映射领域服务接口
// 职责：负责AroAce类型到LLVM IR类型的映射
type TypeMapper interface {
	// 映射类型
	MapType(t vo.Type) (types.Type, error)

	// 映射函数签名
	MapFunctionType(ft *vo.FunctionType) (ret types.Type, params []types.Type, err error)

	// 注册结构体的命名类型定义
	RegisterStruct(name string, def *types.StructType)

	// 获取类型的零值
	ZeroValue(t vo.Type) (constant.Constant, error)

	// 清空已注册的结构体
	Reset()
}
