package commands

import (
	"time"

	"github.com/llir/llvm/ir"
)

// ReadIRCommand 读取IR命令
type ReadIRCommand struct {
	Path   string `json:"path"`
	Text   string `json:"-"`
	Verify bool   `json:"verify"`
}

// ReadIRResult 读取IR结果
type ReadIRResult struct {
	Path     string        `json:"path"`
	Module   *ir.Module    `json:"-"`
	Duration time.Duration `json:"duration"`
}

// VerifyModuleCommand 验证生成的IR模块命令
type VerifyModuleCommand struct {
	UnitID string     `json:"unit_id"`
	Module *ir.Module `json:"-"`
}
