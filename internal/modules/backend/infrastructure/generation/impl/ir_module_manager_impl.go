package impl

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// IRModuleManagerImpl LLVM IR模块管理器实现
type IRModuleManagerImpl struct {
	module       *ir.Module
	currentFunc  *ir.Func
	currentBlock *ir.Block
	entryBlock   *ir.Block
	allocas      []ir.Instruction      // 当前函数待放入入口块顶部的alloca
	localNames   map[string]int        // 局部名计数器，块名和值名共用一个命名空间
	strings      map[string]*ir.Global // 字符串常量去重
	stringCount  int
}

// NewIRModuleManagerImpl 创建IR模块管理器实现
func NewIRModuleManagerImpl() *IRModuleManagerImpl {
	return &IRModuleManagerImpl{
		module:     ir.NewModule(),
		localNames: make(map[string]int),
		strings:    make(map[string]*ir.Global),
	}
}

// Module 获取正在构建的模块
func (m *IRModuleManagerImpl) Module() *ir.Module {
	return m.module
}

// AddGlobal 添加全局变量定义
func (m *IRModuleManagerImpl) AddGlobal(name string, init constant.Constant, immutable bool) *ir.Global {
	g := m.module.NewGlobalDef(name, init)
	g.Immutable = immutable
	return g
}

// AddStringConstant 添加以NUL结尾的私有字符串常量，返回指向首字符的 i8* 常量
func (m *IRModuleManagerImpl) AddStringConstant(content string) constant.Constant {
	g, ok := m.strings[content]
	if !ok {
		name := ".str"
		if m.stringCount > 0 {
			name = fmt.Sprintf(".str.%d", m.stringCount)
		}
		m.stringCount++
		g = m.module.NewGlobalDef(name, constant.NewCharArrayFromString(content+"\x00"))
		g.Immutable = true
		g.Linkage = enum.LinkagePrivate
		m.strings[content] = g
	}
	zero := constant.NewInt(types.I64, 0)
	gep := constant.NewGetElementPtr(g.ContentType, g, zero, zero)
	gep.InBounds = true
	return gep
}

// DefineStruct 定义一个命名结构体类型，字段由调用方稍后填写
func (m *IRModuleManagerImpl) DefineStruct(name string) *types.StructType {
	st := types.NewStruct()
	m.module.NewTypeDef(name, st)
	return st
}

// CreateFunction 创建函数。没有基本块的函数即为外部声明
func (m *IRModuleManagerImpl) CreateFunction(name string, returnType types.Type, params ...*ir.Param) *ir.Func {
	return m.module.NewFunc(name, returnType, params...)
}

// BeginFunction 开始生成函数体，创建入口块并把插入位置移到入口块
func (m *IRModuleManagerImpl) BeginFunction(fn *ir.Func) {
	m.currentFunc = fn
	m.currentBlock = nil
	m.allocas = nil
	// 每个函数有独立的局部命名空间
	m.localNames = make(map[string]int)
	for _, p := range fn.Params {
		m.localNames[p.Name()]++
	}
	m.entryBlock = m.NewBasicBlock("entry")
	m.SetInsertBlock(m.entryBlock)
}

// EndFunction 结束当前函数：检查每个块都已终结，并把alloca放到入口块顶部
func (m *IRModuleManagerImpl) EndFunction() {
	if m.currentFunc == nil {
		m.fail("EndFunction called outside of a function")
	}
	for _, b := range m.currentFunc.Blocks {
		if b.Term == nil {
			m.failIn(b, "block has no terminator at end of function")
		}
	}
	if len(m.allocas) > 0 {
		m.entryBlock.Insts = append(m.allocas, m.entryBlock.Insts...)
	}
	m.currentFunc = nil
	m.currentBlock = nil
	m.entryBlock = nil
	m.allocas = nil
}

// GetCurrentFunction 获取当前函数
func (m *IRModuleManagerImpl) GetCurrentFunction() *ir.Func {
	return m.currentFunc
}

// NewBasicBlock 创建一个尚未加入函数的基本块
func (m *IRModuleManagerImpl) NewBasicBlock(name string) *ir.Block {
	if m.currentFunc == nil {
		m.fail("basic block %q created outside of a function", name)
	}
	return ir.NewBlock(m.uniqueLocalName(name))
}

// SetInsertBlock 移动插入位置。离开的块必须已经终结
func (m *IRModuleManagerImpl) SetInsertBlock(block *ir.Block) {
	if m.currentBlock != nil && m.currentBlock.Term == nil {
		m.failIn(m.currentBlock, "leaving block without a terminator")
	}
	if block.Parent == nil {
		block.Parent = m.currentFunc
		m.currentFunc.Blocks = append(m.currentFunc.Blocks, block)
	}
	m.currentBlock = block
}

// GetCurrentBlock 获取当前基本块，用于追加指令。已终结的块不能再追加
func (m *IRModuleManagerImpl) GetCurrentBlock() *ir.Block {
	if m.currentBlock == nil {
		m.fail("no current basic block")
	}
	if m.currentBlock.Term != nil {
		m.failIn(m.currentBlock, "emitting into a terminated block")
	}
	return m.currentBlock
}

// IsTerminated 当前块是否已有终结指令
func (m *IRModuleManagerImpl) IsTerminated() bool {
	return m.currentBlock != nil && m.currentBlock.Term != nil
}

// CreateEntryAlloca 创建alloca，函数结束时统一放到入口块顶部
func (m *IRModuleManagerImpl) CreateEntryAlloca(typ types.Type, name string) *ir.InstAlloca {
	if m.currentFunc == nil {
		m.fail("alloca for %q outside of a function", name)
	}
	alloca := ir.NewAlloca(typ)
	alloca.SetName(m.uniqueLocalName(name))
	m.allocas = append(m.allocas, alloca)
	return alloca
}

// uniqueLocalName 生成函数内唯一的局部名，第一次使用原名，之后追加 .1 .2 ...
func (m *IRModuleManagerImpl) uniqueLocalName(base string) string {
	count := m.localNames[base]
	m.localNames[base] = count + 1
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, count)
}

func (m *IRModuleManagerImpl) fail(format string, args ...any) {
	fn := "<module>"
	if m.currentFunc != nil {
		fn = m.currentFunc.Name()
	}
	panic(&generation.InvariantError{Function: fn, Message: fmt.Sprintf(format, args...)})
}

func (m *IRModuleManagerImpl) failIn(block *ir.Block, message string) {
	fn := "<module>"
	if m.currentFunc != nil {
		fn = m.currentFunc.Name()
	}
	panic(&generation.InvariantError{Function: fn, Block: block.Name(), Message: message})
}
