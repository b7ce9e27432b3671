package services

import (
	"github.com/llir/llvm/ir"
)

// IRReader IR读取器领域服务接口
// 职责：把文本形式的LLVM IR解析为内存中的模块
type IRReader interface {
	// ParseIR 解析IR文本，任何问题都使整个读取失败
	ParseIR(path, text string) (*ir.Module, error)
}

// IRVerifier IR验证器领域服务接口
// 职责：检查模块结构合法（基本块终结、定义支配使用）
type IRVerifier interface {
	// Verify 验证模块，返回发现的全部问题
	Verify(m *ir.Module) error
}
