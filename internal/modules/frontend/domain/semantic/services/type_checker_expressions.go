package services

import (
	"fmt"
	"strconv"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"
)

// value 检查出现在取值位置的表达式：函数名和Void调用结果不能当作值
func (cs *checkState) value(slot *analysis.Expr) vo.Type {
	e := *slot
	t := cs.expr(e)
	switch {
	case vo.IsVoid(t):
		cs.errorf(analysis.CodeVoidValue, e.Span(), "expression of type Void has no value")
	case isFunction(t):
		cs.errorf(analysis.CodeVoidValue, e.Span(), "function '%s' cannot be used as a value", describe(e))
	default:
		return t
	}
	e.SetType(vo.Unresolved)
	return vo.Unresolved
}

func isFunction(t vo.Type) bool {
	_, ok := t.(*vo.FunctionType)
	return ok
}

func describe(e analysis.Expr) string {
	if id, ok := e.(*analysis.Identifier); ok {
		return id.Name
	}
	return "expression"
}

// coerce 将槽中的表达式转换为目标类型，需要加宽时插入隐式转换节点
func (cs *checkState) coerce(slot *analysis.Expr, to vo.Type) bool {
	from := (*slot).Type()
	if vo.IsUnresolved(from) || vo.ContainsUnresolved(to) {
		return true
	}
	if vo.Equal(from, to) {
		return true
	}
	if CanImplicitlyConvert(from, to) {
		*slot = analysis.NewImplicitCast(*slot, to)
		return true
	}
	cs.mismatch(analysis.CodeTypeMismatch, (*slot).Span(),
		fmt.Sprintf("cannot use value of type %s as %s", from, to), to, from)
	return false
}

// expr 检查表达式并填写类型槽
func (cs *checkState) expr(expr analysis.Expr) vo.Type {
	t := cs.exprType(expr)
	if t == nil {
		t = vo.Unresolved
	}
	expr.SetType(t)
	return t
}

func (cs *checkState) exprType(expr analysis.Expr) vo.Type {
	switch e := expr.(type) {
	case *analysis.Literal:
		return cs.literal(e)
	case *analysis.Identifier:
		if e.Symbol == nil || e.Symbol.IsError() || e.Symbol.Type == nil {
			return vo.Unresolved
		}
		return e.Symbol.Type
	case *analysis.BinaryExpr:
		return cs.binary(e)
	case *analysis.LogicalExpr:
		cs.value(&e.Left)
		cs.value(&e.Right)
		cs.requireBool(e.Left, e.Op.String())
		cs.requireBool(e.Right, e.Op.String())
		return vo.Bool
	case *analysis.UnaryExpr:
		return cs.unary(e)
	case *analysis.AssignExpr:
		return cs.assign(e)
	case *analysis.CallExpr:
		return cs.call(e)
	case *analysis.FieldExpr:
		return cs.field(e)
	case *analysis.CastExpr:
		return cs.cast(e)
	case *analysis.StructLiteral:
		return cs.structLiteral(e)
	case *analysis.BadExpr:
		return vo.Unresolved
	}
	return vo.Unresolved
}

func (cs *checkState) literal(lit *analysis.Literal) vo.Type {
	switch lit.Kind {
	case analysis.IntLit:
		width := 64
		if lit.Suffix != "" {
			width, _ = strconv.Atoi(lit.Suffix[1:])
		}
		t := vo.IntOfWidth(width)
		negated := cs.negated == lit
		cs.negated = nil
		v, ok := intLiteralValue(lit.Raw, width, negated)
		if !ok {
			cs.errorf(analysis.CodeIntegerOutOfRange, lit.Span(), "integer literal %s does not fit in %s", lit.Raw, t)
			return vo.Unresolved
		}
		lit.IntValue = v
		return t
	case analysis.FloatLit:
		width := 64
		if lit.Suffix == "f32" {
			width = 32
		}
		f, err := strconv.ParseFloat(lit.Raw, width)
		if err != nil {
			cs.errorf(analysis.CodeIntegerOutOfRange, lit.Span(), "float literal %s is out of range for %s", lit.Raw, vo.FloatOfWidth(width))
			return vo.Unresolved
		}
		lit.FloatValue = f
		return vo.FloatOfWidth(width)
	case analysis.StringLit:
		return vo.NewPointer(vo.Int8)
	case analysis.BoolLit:
		return vo.Bool
	}
	return vo.Unresolved
}

// intLiteralValue 解析整数字面量。十进制不超过有符号最大值，取负时允许到最小值；
// 十六进制和二进制按位模式解释，例如 0xFFi8 为 -1
func intLiteralValue(raw string, width int, negated bool) (int64, bool) {
	base, digits := 10, raw
	if len(raw) > 2 && raw[0] == '0' {
		switch raw[1] {
		case 'x', 'X':
			base, digits = 16, raw[2:]
		case 'b', 'B':
			base, digits = 2, raw[2:]
		}
	}
	u, err := strconv.ParseUint(digits, base, width)
	if err != nil {
		return 0, false
	}
	if base == 10 {
		limit := uint64(1)<<(width-1) - 1
		if negated {
			limit++
		}
		if u > limit {
			return 0, false
		}
	}
	shift := 64 - width
	return int64(u<<shift) >> shift, true
}

func (cs *checkState) binary(e *analysis.BinaryExpr) vo.Type {
	lt := cs.value(&e.Left)
	rt := cs.value(&e.Right)
	result := func(operand vo.Type) vo.Type {
		if e.Op.IsComparison() {
			return vo.Bool
		}
		return operand
	}
	if vo.IsUnresolved(lt) || vo.IsUnresolved(rt) {
		return result(vo.Unresolved)
	}

	if vo.IsNumeric(lt) && vo.IsNumeric(rt) {
		common, ok := CommonNumericType(lt, rt)
		if !ok {
			cs.mismatch(analysis.CodeBadOperand, e.Span(),
				fmt.Sprintf("mismatched operand types for '%s': %s and %s", e.Op, lt, rt), lt, rt)
			return result(vo.Unresolved)
		}
		cs.coerce(&e.Left, common)
		cs.coerce(&e.Right, common)
		return result(common)
	}

	if e.Op.IsEquality() {
		if vo.IsBool(lt) && vo.IsBool(rt) || vo.IsPointer(lt) && vo.Equal(lt, rt) {
			return vo.Bool
		}
	}

	bad := lt
	if vo.IsNumeric(lt) {
		bad = rt
	}
	cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeBadOperand,
		fmt.Sprintf("operator '%s' cannot be applied to %s and %s", e.Op, lt, rt), e.Span(), expectedOperand(e.Op), bad.String()))
	return result(vo.Unresolved)
}

func expectedOperand(op analysis.BinaryOp) string {
	if op.IsEquality() {
		return "numeric, Bool or pointer operands"
	}
	return "numeric operands"
}

func (cs *checkState) requireBool(e analysis.Expr, op string) {
	t := e.Type()
	if vo.IsUnresolved(t) || vo.IsBool(t) {
		return
	}
	cs.mismatch(analysis.CodeBadOperand, e.Span(), fmt.Sprintf("operand of '%s' must be Bool", op), vo.Bool, t)
}

func (cs *checkState) unary(e *analysis.UnaryExpr) vo.Type {
	if lit, ok := e.Operand.(*analysis.Literal); ok && e.Op == analysis.OpNeg && lit.Kind == analysis.IntLit {
		cs.negated = lit
	}
	t := cs.value(&e.Operand)
	if vo.IsUnresolved(t) {
		return vo.Unresolved
	}
	switch e.Op {
	case analysis.OpNeg:
		if !vo.IsNumeric(t) {
			cs.mismatch(analysis.CodeBadOperand, e.Span(), "operand of unary '-' must be numeric", vo.Int, t)
			return vo.Unresolved
		}
		return t
	case analysis.OpNot:
		if !vo.IsBool(t) {
			cs.mismatch(analysis.CodeBadOperand, e.Span(), "operand of '!' must be Bool", vo.Bool, t)
			return vo.Unresolved
		}
		return vo.Bool
	case analysis.OpDeref:
		ptr, ok := t.(*vo.PointerType)
		if !ok {
			cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeNotPointer,
				"cannot dereference a non-pointer value", e.Span(), "pointer", t.String()))
			return vo.Unresolved
		}
		if vo.IsVoid(ptr.Elem) {
			cs.errorf(analysis.CodeVoidValue, e.Span(), "cannot dereference %s", t)
			return vo.Unresolved
		}
		return ptr.Elem
	case analysis.OpAddr:
		if !analysis.IsLValue(e.Operand) {
			cs.errorf(analysis.CodeNotAddressable, e.Span(), "cannot take the address of this expression")
			return vo.Unresolved
		}
		return vo.NewPointer(t)
	}
	return vo.Unresolved
}

func (cs *checkState) assign(e *analysis.AssignExpr) vo.Type {
	target := cs.value(&e.Target)
	cs.value(&e.Value)
	if !analysis.IsLValue(e.Target) {
		cs.errorf(analysis.CodeNotAssignable, e.Target.Span(), "invalid assignment target")
		return vo.Unresolved
	}
	if name, ok := immutableRoot(e.Target); !ok {
		cs.errorf(analysis.CodeImmutable, e.Target.Span(), "cannot assign to immutable '%s'", name)
	}
	if vo.IsUnresolved(target) {
		return vo.Unresolved
	}
	cs.coerce(&e.Value, target)
	return target
}

// immutableRoot 检查左值是否可写。不可写时返回根变量名和false
func immutableRoot(e analysis.Expr) (string, bool) {
	switch x := e.(type) {
	case *analysis.Identifier:
		if x.Symbol == nil || x.Symbol.IsError() {
			return x.Name, true
		}
		return x.Name, x.Symbol.Mutable
	case *analysis.FieldExpr:
		if x.ThroughPointer {
			return "", true
		}
		return immutableRoot(x.X)
	case *analysis.UnaryExpr:
		return "", true
	}
	return "", true
}

func (cs *checkState) call(e *analysis.CallExpr) vo.Type {
	calleeType := cs.expr(e.Callee)
	for i := range e.Args {
		cs.value(&e.Args[i])
	}
	if vo.IsUnresolved(calleeType) {
		return vo.Unresolved
	}
	ft, ok := calleeType.(*vo.FunctionType)
	if !ok {
		cs.mismatch(analysis.CodeNotCallable, e.Callee.Span(),
			fmt.Sprintf("'%s' is not a function", describe(e.Callee)), &vo.FunctionType{Return: vo.Void}, calleeType)
		return vo.Unresolved
	}
	if len(e.Args) != len(ft.Params) {
		cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeArgCount,
			fmt.Sprintf("'%s' expects %d argument(s), found %d", describe(e.Callee), len(ft.Params), len(e.Args)),
			e.Span(), strconv.Itoa(len(ft.Params)), strconv.Itoa(len(e.Args))))
	}
	for i := range e.Args {
		if i < len(ft.Params) {
			cs.coerce(&e.Args[i], ft.Params[i])
		}
	}
	return ft.Return
}

func (cs *checkState) field(e *analysis.FieldExpr) vo.Type {
	t := cs.value(&e.X)
	if vo.IsUnresolved(t) {
		return vo.Unresolved
	}
	e.ThroughPointer = false
	if ptr, ok := t.(*vo.PointerType); ok {
		t = ptr.Elem
		e.ThroughPointer = true
	}
	st, ok := t.(*vo.StructType)
	if !ok {
		cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeNotStruct,
			fmt.Sprintf("type %s has no fields", e.X.Type()), e.X.Span(), "struct", e.X.Type().String()))
		return vo.Unresolved
	}
	idx, ok := st.FieldIndex(e.Field)
	if !ok {
		cs.errorf(analysis.CodeNoField, e.FieldSpan, "struct %s has no field '%s'", st.Name, e.Field)
		return vo.Unresolved
	}
	e.Index = idx
	return st.Fields[idx].Type
}

func (cs *checkState) cast(e *analysis.CastExpr) vo.Type {
	from := cs.value(&e.X)
	if e.Implicit {
		return e.Type()
	}
	to := cs.typeExpr(e.Target)
	if vo.IsUnresolved(from) || vo.IsUnresolved(to) {
		return to
	}
	if !CanExplicitlyConvert(from, to) {
		cs.mismatch(analysis.CodeBadCast, e.Span(), fmt.Sprintf("cannot convert %s to %s", from, to), to, from)
		return vo.Unresolved
	}
	return to
}

func (cs *checkState) structLiteral(e *analysis.StructLiteral) vo.Type {
	for _, f := range e.Fields {
		cs.value(&f.Value)
	}
	if e.Symbol == nil || e.Symbol.IsError() {
		return vo.Unresolved
	}
	st, ok := e.Symbol.Type.(*vo.StructType)
	if !ok {
		return vo.Unresolved
	}

	seen := make(map[string]bool)
	for _, f := range e.Fields {
		idx, ok := st.FieldIndex(f.Name)
		if !ok {
			cs.errorf(analysis.CodeNoField, f.Span(), "struct %s has no field '%s'", st.Name, f.Name)
			continue
		}
		if seen[f.Name] {
			cs.errorf(analysis.CodeDuplicateField, f.Span(), "field '%s' initialized more than once", f.Name)
			continue
		}
		seen[f.Name] = true
		f.Index = idx
		cs.coerce(&f.Value, st.Fields[idx].Type)
	}
	for _, field := range st.Fields {
		if !seen[field.Name] {
			cs.errorf(analysis.CodeMissingField, e.Span(), "missing field '%s' in %s literal", field.Name, st.Name)
		}
	}
	return st
}
