package impl

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// ControlFlowGeneratorImpl 控制流生成器实现
type ControlFlowGeneratorImpl struct {
	statementGenerator  generation.StatementGenerator
	expressionEvaluator generation.ExpressionEvaluator
	irManager           generation.IRModuleManager
	loopStack           []generation.LoopContext
}

// NewControlFlowGeneratorImpl 创建控制流生成器实现
func NewControlFlowGeneratorImpl(
	statementGenerator generation.StatementGenerator,
	expressionEvaluator generation.ExpressionEvaluator,
	irManager generation.IRModuleManager,
) *ControlFlowGeneratorImpl {
	return &ControlFlowGeneratorImpl{
		statementGenerator:  statementGenerator,
		expressionEvaluator: expressionEvaluator,
		irManager:           irManager,
	}
}

// GenerateIfStatement 生成if语句。
// 两个分支都不落空时不创建合并块，插入位置停在已终结的分支块上
func (cfg *ControlFlowGeneratorImpl) GenerateIfStatement(stmt *analysis.IfStmt) error {
	cond, err := cfg.expressionEvaluator.Evaluate(stmt.Cond)
	if err != nil {
		return fmt.Errorf("if condition: %w", err)
	}

	thenBlock := cfg.irManager.NewBasicBlock("if.then")
	var elseBlock, mergeBlock *ir.Block
	if stmt.Else != nil {
		elseBlock = cfg.irManager.NewBasicBlock("if.else")
		cfg.irManager.GetCurrentBlock().NewCondBr(cond, thenBlock, elseBlock)
	} else {
		mergeBlock = cfg.irManager.NewBasicBlock("if.end")
		cfg.irManager.GetCurrentBlock().NewCondBr(cond, thenBlock, mergeBlock)
	}

	// 合并块按需创建
	branchToMerge := func() {
		if cfg.irManager.IsTerminated() {
			return
		}
		if mergeBlock == nil {
			mergeBlock = cfg.irManager.NewBasicBlock("if.end")
		}
		cfg.irManager.GetCurrentBlock().NewBr(mergeBlock)
	}

	cfg.irManager.SetInsertBlock(thenBlock)
	if err := cfg.statementGenerator.GenerateBlock(stmt.Then); err != nil {
		return err
	}
	branchToMerge()

	if elseBlock != nil {
		cfg.irManager.SetInsertBlock(elseBlock)
		if err := cfg.statementGenerator.GenerateStatement(stmt.Else); err != nil {
			return err
		}
		branchToMerge()
	}

	if mergeBlock != nil {
		cfg.irManager.SetInsertBlock(mergeBlock)
	}
	return nil
}

// GenerateWhileStatement 生成while循环：条件块、循环体块、结束块，循环体回边到条件块
func (cfg *ControlFlowGeneratorImpl) GenerateWhileStatement(stmt *analysis.WhileStmt) error {
	condBlock := cfg.irManager.NewBasicBlock("while.cond")
	bodyBlock := cfg.irManager.NewBasicBlock("while.body")
	endBlock := cfg.irManager.NewBasicBlock("while.end")

	cfg.irManager.GetCurrentBlock().NewBr(condBlock)
	cfg.irManager.SetInsertBlock(condBlock)
	cond, err := cfg.expressionEvaluator.Evaluate(stmt.Cond)
	if err != nil {
		return fmt.Errorf("while condition: %w", err)
	}
	cfg.irManager.GetCurrentBlock().NewCondBr(cond, bodyBlock, endBlock)

	cfg.loopStack = append(cfg.loopStack, generation.LoopContext{
		BreakTarget:    endBlock,
		ContinueTarget: condBlock,
	})
	cfg.irManager.SetInsertBlock(bodyBlock)
	err = cfg.statementGenerator.GenerateBlock(stmt.Body)
	cfg.loopStack = cfg.loopStack[:len(cfg.loopStack)-1]
	if err != nil {
		return err
	}
	if !cfg.irManager.IsTerminated() {
		cfg.irManager.GetCurrentBlock().NewBr(condBlock)
	}

	cfg.irManager.SetInsertBlock(endBlock)
	return nil
}

// GenerateBreakStatement 生成break语句
func (cfg *ControlFlowGeneratorImpl) GenerateBreakStatement(stmt *analysis.BreakStmt) error {
	if !cfg.IsInLoopContext() {
		return fmt.Errorf("break outside of a loop at %s", stmt.Span())
	}
	cfg.irManager.GetCurrentBlock().NewBr(cfg.loopStack[len(cfg.loopStack)-1].BreakTarget)
	return nil
}

// GenerateContinueStatement 生成continue语句
func (cfg *ControlFlowGeneratorImpl) GenerateContinueStatement(stmt *analysis.ContinueStmt) error {
	if !cfg.IsInLoopContext() {
		return fmt.Errorf("continue outside of a loop at %s", stmt.Span())
	}
	cfg.irManager.GetCurrentBlock().NewBr(cfg.loopStack[len(cfg.loopStack)-1].ContinueTarget)
	return nil
}

// GenerateLogicalExpr 生成短路求值。
// a && b：a 为假时跳过 b，结果来自 phi [false, a所在块], [b, b结束块]
func (cfg *ControlFlowGeneratorImpl) GenerateLogicalExpr(expr *analysis.LogicalExpr) (value.Value, error) {
	left, err := cfg.expressionEvaluator.Evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	leftEnd := cfg.irManager.GetCurrentBlock()

	prefix := "and"
	shortValue := constant.False
	if expr.Op == analysis.OpOr {
		prefix = "or"
		shortValue = constant.True
	}
	rhsBlock := cfg.irManager.NewBasicBlock(prefix + ".rhs")
	endBlock := cfg.irManager.NewBasicBlock(prefix + ".end")

	if expr.Op == analysis.OpAnd {
		leftEnd.NewCondBr(left, rhsBlock, endBlock)
	} else {
		leftEnd.NewCondBr(left, endBlock, rhsBlock)
	}

	cfg.irManager.SetInsertBlock(rhsBlock)
	right, err := cfg.expressionEvaluator.Evaluate(expr.Right)
	if err != nil {
		return nil, err
	}
	rightEnd := cfg.irManager.GetCurrentBlock()
	rightEnd.NewBr(endBlock)

	cfg.irManager.SetInsertBlock(endBlock)
	return cfg.irManager.GetCurrentBlock().NewPhi(
		ir.NewIncoming(shortValue, leftEnd),
		ir.NewIncoming(right, rightEnd),
	), nil
}

// IsInLoopContext 检查是否在循环上下文中
func (cfg *ControlFlowGeneratorImpl) IsInLoopContext() bool {
	return len(cfg.loopStack) > 0
}

// Reset 清空循环上下文栈
func (cfg *ControlFlowGeneratorImpl) Reset() {
	cfg.loopStack = nil
}

var _ generation.ControlFlowGenerator = (*ControlFlowGeneratorImpl)(nil)
