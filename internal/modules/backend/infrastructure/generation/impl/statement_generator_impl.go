package impl

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir"
)

// StatementGeneratorImpl 语句生成器实现
type StatementGeneratorImpl struct {
	expressionEvaluator  generation.ExpressionEvaluator
	controlFlowGenerator generation.ControlFlowGenerator
	symbolManager        generation.SymbolManager
	typeMapper           generation.TypeMapper
	irManager            generation.IRModuleManager
	returnType           vo.Type
}

// NewStatementGeneratorImpl 创建语句生成器实现
func NewStatementGeneratorImpl(
	expressionEvaluator generation.ExpressionEvaluator,
	controlFlowGenerator generation.ControlFlowGenerator,
	symbolManager generation.SymbolManager,
	typeMapper generation.TypeMapper,
	irManager generation.IRModuleManager,
) *StatementGeneratorImpl {
	return &StatementGeneratorImpl{
		expressionEvaluator:  expressionEvaluator,
		controlFlowGenerator: controlFlowGenerator,
		symbolManager:        symbolManager,
		typeMapper:           typeMapper,
		irManager:            irManager,
	}
}

// SetControlFlowGenerator 设置控制流生成器（解决循环依赖）
func (sg *StatementGeneratorImpl) SetControlFlowGenerator(cfg generation.ControlFlowGenerator) {
	sg.controlFlowGenerator = cfg
}

// GenerateFunction 生成函数定义。函数符号在调用前已绑定到 ir.Func
func (sg *StatementGeneratorImpl) GenerateFunction(fn *analysis.FunctionDecl) error {
	b, ok := sg.symbolManager.Lookup(fn.Symbol)
	if !ok || b.Kind != generation.BindFunction {
		return fmt.Errorf("function '%s' was not declared", fn.Name)
	}
	irFunc := b.Value.(*ir.Func)
	ft := fn.Symbol.Type.(*vo.FunctionType)

	sg.symbolManager.EnterFunction()
	sg.controlFlowGenerator.Reset()
	sg.returnType = ft.Return
	sg.irManager.BeginFunction(irFunc)

	for i, p := range fn.Params {
		param := irFunc.Params[i]
		if !p.Symbol.AddressTaken {
			sg.symbolManager.BindValue(p.Symbol, param)
			continue
		}
		slot := sg.irManager.CreateEntryAlloca(param.Typ, p.Name+".addr")
		sg.irManager.GetCurrentBlock().NewStore(param, slot)
		sg.symbolManager.BindAddress(p.Symbol, slot, param.Typ)
	}

	if err := sg.GenerateBlock(fn.Body); err != nil {
		return fmt.Errorf("function '%s': %w", fn.Name, err)
	}

	// 落到函数末尾：Void 函数隐式返回，其他函数的这条路径由检查器保证不可达
	if !sg.irManager.IsTerminated() {
		if vo.IsVoid(ft.Return) {
			sg.irManager.GetCurrentBlock().NewRet(nil)
		} else {
			sg.irManager.GetCurrentBlock().NewUnreachable()
		}
	}
	sg.irManager.EndFunction()
	return nil
}

// GenerateBlock 生成语句块。终结指令之后的语句放进一个没有前驱的新块
func (sg *StatementGeneratorImpl) GenerateBlock(block *analysis.Block) error {
	for _, stmt := range block.Stmts {
		if sg.irManager.IsTerminated() {
			sg.irManager.SetInsertBlock(sg.irManager.NewBasicBlock("unreachable"))
		}
		if err := sg.GenerateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GenerateStatement 生成单个语句
func (sg *StatementGeneratorImpl) GenerateStatement(stmt analysis.Stmt) error {
	switch s := stmt.(type) {
	case *analysis.VarDecl:
		return sg.GenerateVarDeclaration(s)
	case *analysis.Block:
		return sg.GenerateBlock(s)
	case *analysis.IfStmt:
		return sg.controlFlowGenerator.GenerateIfStatement(s)
	case *analysis.WhileStmt:
		return sg.controlFlowGenerator.GenerateWhileStatement(s)
	case *analysis.BreakStmt:
		return sg.controlFlowGenerator.GenerateBreakStatement(s)
	case *analysis.ContinueStmt:
		return sg.controlFlowGenerator.GenerateContinueStatement(s)
	case *analysis.ReturnStmt:
		return sg.GenerateReturnStatement(s)
	case *analysis.ExprStmt:
		return sg.GenerateExpressionStatement(s)
	}
	return fmt.Errorf("cannot generate code for %T at %s", stmt, stmt.Span())
}

// GenerateVarDeclaration 生成变量声明。
// var 变量和被取地址的 let 变量放在入口块的 alloca 中，其余 let 直接绑定SSA值
func (sg *StatementGeneratorImpl) GenerateVarDeclaration(stmt *analysis.VarDecl) error {
	sym := stmt.Symbol
	if !sym.Mutable && !sym.AddressTaken {
		v, err := sg.expressionEvaluator.Evaluate(stmt.Init)
		if err != nil {
			return fmt.Errorf("let %s: %w", stmt.Name, err)
		}
		sg.symbolManager.BindValue(sym, v)
		return nil
	}

	typ, err := sg.typeMapper.MapType(sym.Type)
	if err != nil {
		return fmt.Errorf("variable %s: %w", stmt.Name, err)
	}
	slot := sg.irManager.CreateEntryAlloca(typ, stmt.Name)
	if stmt.Init != nil {
		v, err := sg.expressionEvaluator.Evaluate(stmt.Init)
		if err != nil {
			return fmt.Errorf("variable %s: %w", stmt.Name, err)
		}
		sg.irManager.GetCurrentBlock().NewStore(v, slot)
	} else {
		zero, err := sg.typeMapper.ZeroValue(sym.Type)
		if err != nil {
			return fmt.Errorf("variable %s: %w", stmt.Name, err)
		}
		sg.irManager.GetCurrentBlock().NewStore(zero, slot)
	}
	sg.symbolManager.BindAddress(sym, slot, typ)
	return nil
}

// GenerateReturnStatement 生成返回语句
func (sg *StatementGeneratorImpl) GenerateReturnStatement(stmt *analysis.ReturnStmt) error {
	if stmt.Value == nil {
		sg.irManager.GetCurrentBlock().NewRet(nil)
		return nil
	}
	v, err := sg.expressionEvaluator.Evaluate(stmt.Value)
	if err != nil {
		return fmt.Errorf("return: %w", err)
	}
	sg.irManager.GetCurrentBlock().NewRet(v)
	return nil
}

// GenerateExpressionStatement 生成表达式语句，结果丢弃
func (sg *StatementGeneratorImpl) GenerateExpressionStatement(stmt *analysis.ExprStmt) error {
	_, err := sg.expressionEvaluator.Evaluate(stmt.X)
	return err
}

var _ generation.StatementGenerator = (*StatementGeneratorImpl)(nil)
