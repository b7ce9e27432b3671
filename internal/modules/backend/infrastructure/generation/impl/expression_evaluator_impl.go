package impl

import (
	"fmt"
	"math"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ExpressionEvaluatorImpl 表达式求值器实现
type ExpressionEvaluatorImpl struct {
	symbolManager        generation.SymbolManager
	typeMapper           generation.TypeMapper
	irManager            generation.IRModuleManager
	controlFlowGenerator generation.ControlFlowGenerator
}

// NewExpressionEvaluatorImpl 创建表达式求值器实现
func NewExpressionEvaluatorImpl(symbolManager generation.SymbolManager, typeMapper generation.TypeMapper, irManager generation.IRModuleManager) *ExpressionEvaluatorImpl {
	return &ExpressionEvaluatorImpl{
		symbolManager: symbolManager,
		typeMapper:    typeMapper,
		irManager:     irManager,
	}
}

// SetControlFlowGenerator 设置控制流生成器，短路求值由它负责
func (ee *ExpressionEvaluatorImpl) SetControlFlowGenerator(cfg generation.ControlFlowGenerator) {
	ee.controlFlowGenerator = cfg
}

// Evaluate 求值表达式
func (ee *ExpressionEvaluatorImpl) Evaluate(expr analysis.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *analysis.Literal:
		return ee.evaluateLiteral(e)
	case *analysis.Identifier:
		return ee.evaluateIdentifier(e)
	case *analysis.BinaryExpr:
		return ee.evaluateBinaryExpr(e)
	case *analysis.LogicalExpr:
		if ee.controlFlowGenerator == nil {
			return nil, fmt.Errorf("control flow generator not set")
		}
		return ee.controlFlowGenerator.GenerateLogicalExpr(e)
	case *analysis.UnaryExpr:
		return ee.evaluateUnaryExpr(e)
	case *analysis.AssignExpr:
		return ee.evaluateAssignExpr(e)
	case *analysis.CallExpr:
		return ee.evaluateCallExpr(e)
	case *analysis.FieldExpr:
		return ee.evaluateFieldExpr(e)
	case *analysis.CastExpr:
		v, err := ee.Evaluate(e.X)
		if err != nil {
			return nil, err
		}
		return ee.Convert(v, e.X.Type(), e.Type())
	case *analysis.StructLiteral:
		return ee.evaluateStructLiteral(e)
	}
	return nil, fmt.Errorf("cannot generate code for %T at %s", expr, expr.Span())
}

func (ee *ExpressionEvaluatorImpl) evaluateLiteral(lit *analysis.Literal) (value.Value, error) {
	switch lit.Kind {
	case analysis.StringLit:
		return ee.irManager.AddStringConstant(lit.Raw), nil
	case analysis.BoolLit:
		return constant.NewBool(lit.BoolValue), nil
	}
	return ee.literalConstant(lit, lit.Type())
}

// literalConstant 把数值字面量转换为目标类型的常量
func (ee *ExpressionEvaluatorImpl) literalConstant(lit *analysis.Literal, target vo.Type) (constant.Constant, error) {
	mapped, err := ee.typeMapper.MapType(target)
	if err != nil {
		return nil, err
	}
	switch t := mapped.(type) {
	case *types.IntType:
		v := lit.IntValue
		if lit.Kind == analysis.FloatLit {
			v = int64(lit.FloatValue)
		}
		return constant.NewInt(t, truncateInt(v, t.BitSize)), nil
	case *types.FloatType:
		if lit.Kind == analysis.IntLit {
			return constant.NewFloat(t, float64(lit.IntValue)), nil
		}
		return constant.NewFloat(t, lit.FloatValue), nil
	}
	return nil, fmt.Errorf("literal %s cannot have type %s", lit.Raw, target)
}

func (ee *ExpressionEvaluatorImpl) evaluateIdentifier(id *analysis.Identifier) (value.Value, error) {
	b, ok := ee.symbolManager.Lookup(id.Symbol)
	if !ok {
		return nil, fmt.Errorf("identifier '%s' at %s has no binding", id.Name, id.Span())
	}
	if b.Kind == generation.BindAddress {
		return ee.irManager.GetCurrentBlock().NewLoad(b.ElemType, b.Value), nil
	}
	return b.Value, nil
}

func (ee *ExpressionEvaluatorImpl) evaluateBinaryExpr(e *analysis.BinaryExpr) (value.Value, error) {
	left, err := ee.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ee.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	block := ee.irManager.GetCurrentBlock()
	operand := e.Left.Type()

	if vo.IsFloat(operand) {
		switch e.Op {
		case analysis.OpAdd:
			return block.NewFAdd(left, right), nil
		case analysis.OpSub:
			return block.NewFSub(left, right), nil
		case analysis.OpMul:
			return block.NewFMul(left, right), nil
		case analysis.OpDiv:
			return block.NewFDiv(left, right), nil
		case analysis.OpRem:
			return block.NewFRem(left, right), nil
		}
		return block.NewFCmp(floatPredicates[e.Op], left, right), nil
	}

	switch e.Op {
	case analysis.OpAdd:
		return block.NewAdd(left, right), nil
	case analysis.OpSub:
		return block.NewSub(left, right), nil
	case analysis.OpMul:
		return block.NewMul(left, right), nil
	case analysis.OpDiv:
		return block.NewSDiv(left, right), nil
	case analysis.OpRem:
		return block.NewSRem(left, right), nil
	}
	pred, ok := intPredicates[e.Op]
	if !ok {
		return nil, fmt.Errorf("unsupported binary operator %s", e.Op)
	}
	return block.NewICmp(pred, left, right), nil
}

// intPredicates 整数、布尔和指针比较使用有符号谓词
var intPredicates = map[analysis.BinaryOp]enum.IPred{
	analysis.OpEq: enum.IPredEQ,
	analysis.OpNe: enum.IPredNE,
	analysis.OpLt: enum.IPredSLT,
	analysis.OpLe: enum.IPredSLE,
	analysis.OpGt: enum.IPredSGT,
	analysis.OpGe: enum.IPredSGE,
}

var floatPredicates = map[analysis.BinaryOp]enum.FPred{
	analysis.OpEq: enum.FPredOEQ,
	analysis.OpNe: enum.FPredUNE,
	analysis.OpLt: enum.FPredOLT,
	analysis.OpLe: enum.FPredOLE,
	analysis.OpGt: enum.FPredOGT,
	analysis.OpGe: enum.FPredOGE,
}

func (ee *ExpressionEvaluatorImpl) evaluateUnaryExpr(e *analysis.UnaryExpr) (value.Value, error) {
	if e.Op == analysis.OpAddr {
		return ee.EvaluateAddress(e.Operand)
	}
	operand, err := ee.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	block := ee.irManager.GetCurrentBlock()
	switch e.Op {
	case analysis.OpNeg:
		switch t := operand.Type().(type) {
		case *types.FloatType:
			return block.NewFSub(constant.NewFloat(t, math.Copysign(0, -1)), operand), nil
		case *types.IntType:
			return block.NewSub(constant.NewInt(t, 0), operand), nil
		}
	case analysis.OpNot:
		return block.NewXor(operand, constant.True), nil
	case analysis.OpDeref:
		elem, err := ee.typeMapper.MapType(e.Type())
		if err != nil {
			return nil, err
		}
		return block.NewLoad(elem, operand), nil
	}
	return nil, fmt.Errorf("unsupported unary operator %s on %s", e.Op, operand.Type())
}

func (ee *ExpressionEvaluatorImpl) evaluateAssignExpr(e *analysis.AssignExpr) (value.Value, error) {
	ptr, err := ee.EvaluateAddress(e.Target)
	if err != nil {
		return nil, err
	}
	v, err := ee.Evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	ee.irManager.GetCurrentBlock().NewStore(v, ptr)
	return v, nil
}

func (ee *ExpressionEvaluatorImpl) evaluateCallExpr(e *analysis.CallExpr) (value.Value, error) {
	callee, err := ee.Evaluate(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ee.Evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return ee.irManager.GetCurrentBlock().NewCall(callee, args...), nil
}

func (ee *ExpressionEvaluatorImpl) evaluateFieldExpr(e *analysis.FieldExpr) (value.Value, error) {
	if e.ThroughPointer {
		ptr, err := ee.EvaluateAddress(e)
		if err != nil {
			return nil, err
		}
		elem, err := ee.typeMapper.MapType(e.Type())
		if err != nil {
			return nil, err
		}
		return ee.irManager.GetCurrentBlock().NewLoad(elem, ptr), nil
	}
	agg, err := ee.Evaluate(e.X)
	if err != nil {
		return nil, err
	}
	return ee.irManager.GetCurrentBlock().NewExtractValue(agg, uint64(e.Index)), nil
}

func (ee *ExpressionEvaluatorImpl) evaluateStructLiteral(e *analysis.StructLiteral) (value.Value, error) {
	st, err := ee.typeMapper.MapType(e.Type())
	if err != nil {
		return nil, err
	}
	var agg value.Value = constant.NewZeroInitializer(st)
	for _, f := range e.Fields {
		v, err := ee.Evaluate(f.Value)
		if err != nil {
			return nil, err
		}
		agg = ee.irManager.GetCurrentBlock().NewInsertValue(agg, v, uint64(f.Index))
	}
	return agg, nil
}

// EvaluateAddress 求值左值的地址
func (ee *ExpressionEvaluatorImpl) EvaluateAddress(expr analysis.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *analysis.Identifier:
		b, ok := ee.symbolManager.Lookup(e.Symbol)
		if !ok || b.Kind != generation.BindAddress {
			return nil, fmt.Errorf("'%s' at %s is not addressable", e.Name, e.Span())
		}
		return b.Value, nil
	case *analysis.FieldExpr:
		var base value.Value
		var err error
		structType := e.X.Type()
		if e.ThroughPointer {
			base, err = ee.Evaluate(e.X)
			structType = structType.(*vo.PointerType).Elem
		} else {
			base, err = ee.EvaluateAddress(e.X)
		}
		if err != nil {
			return nil, err
		}
		st, err := ee.typeMapper.MapType(structType)
		if err != nil {
			return nil, err
		}
		gep := ee.irManager.GetCurrentBlock().NewGetElementPtr(st, base,
			constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(e.Index)))
		gep.InBounds = true
		return gep, nil
	case *analysis.UnaryExpr:
		if e.Op == analysis.OpDeref {
			return ee.Evaluate(e.Operand)
		}
	}
	return nil, fmt.Errorf("expression at %s is not addressable", expr.Span())
}

// EvaluateConstant 折叠全局初始化表达式：字面量、取负的字面量以及它们的转换
func (ee *ExpressionEvaluatorImpl) EvaluateConstant(expr analysis.Expr, target vo.Type) (constant.Constant, error) {
	switch e := expr.(type) {
	case *analysis.Literal:
		switch e.Kind {
		case analysis.StringLit:
			str := ee.irManager.AddStringConstant(e.Raw)
			if vo.Equal(target, vo.NewPointer(vo.Int8)) {
				return str, nil
			}
			mapped, err := ee.typeMapper.MapType(target)
			if err != nil {
				return nil, err
			}
			return constant.NewBitCast(str, mapped), nil
		case analysis.BoolLit:
			if vo.IsInteger(target) {
				mapped, err := ee.typeMapper.MapType(target)
				if err != nil {
					return nil, err
				}
				return constant.NewInt(mapped.(*types.IntType), boolToInt(e.BoolValue)), nil
			}
			return constant.NewBool(e.BoolValue), nil
		}
		return ee.literalConstant(e, target)
	case *analysis.UnaryExpr:
		lit, ok := e.Operand.(*analysis.Literal)
		if !ok || e.Op != analysis.OpNeg {
			break
		}
		negated := *lit
		negated.IntValue = -lit.IntValue
		negated.FloatValue = -lit.FloatValue
		return ee.literalConstant(&negated, target)
	case *analysis.CastExpr:
		return ee.EvaluateConstant(e.X, target)
	}
	return nil, fmt.Errorf("initializer at %s is not a constant", expr.Span())
}

// truncateInt 按目标位宽截断并符号扩展
func truncateInt(v int64, bits uint64) int64 {
	if bits >= 64 {
		return v
	}
	shift := 64 - bits
	return v << shift >> shift
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Convert 在类型之间转换值。相同类型直接返回
func (ee *ExpressionEvaluatorImpl) Convert(v value.Value, from, to vo.Type) (value.Value, error) {
	if vo.Equal(from, to) {
		return v, nil
	}
	target, err := ee.typeMapper.MapType(to)
	if err != nil {
		return nil, err
	}
	block := ee.irManager.GetCurrentBlock()

	switch f := from.(type) {
	case *vo.IntType:
		switch t := to.(type) {
		case *vo.IntType:
			if t.Width > f.Width {
				return block.NewSExt(v, target), nil
			}
			return block.NewTrunc(v, target), nil
		case *vo.FloatType:
			return block.NewSIToFP(v, target), nil
		}
	case *vo.FloatType:
		switch t := to.(type) {
		case *vo.IntType:
			return block.NewFPToSI(v, target), nil
		case *vo.FloatType:
			if t.Width > f.Width {
				return block.NewFPExt(v, target), nil
			}
			return block.NewFPTrunc(v, target), nil
		}
	case vo.BoolType:
		if vo.IsInteger(to) {
			return block.NewZExt(v, target), nil
		}
	case *vo.PointerType:
		if vo.IsPointer(to) {
			return block.NewBitCast(v, target), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %s to %s", from, to)
}

var _ generation.ExpressionEvaluator = (*ExpressionEvaluatorImpl)(nil)
