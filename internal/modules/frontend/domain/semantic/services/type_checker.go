package services

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"
)

// TypeChecker 类型检查器：为每个表达式填写类型，插入隐式转换，检查返回路径
type TypeChecker struct{}

// NewTypeChecker 创建类型检查器
func NewTypeChecker() *TypeChecker {
	return &TypeChecker{}
}

// Check 检查已完成名字解析的程序。出错的表达式类型为Unresolved，不再级联报错
func (tc *TypeChecker) Check(program *analysis.Program) []analysis.Diagnostic {
	cs := &checkState{}
	cs.structTypes(program)
	cs.signatures(program)
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *analysis.GlobalDecl:
			cs.global(d)
		case *analysis.FunctionDecl:
			cs.function(d)
		}
	}
	return cs.diagnostics
}

type checkState struct {
	diagnostics []analysis.Diagnostic
	fn          *analysis.FunctionDecl
	returnType  vo.Type
	// negated 是正在被一元 '-' 直接作用的整数字面量
	negated *analysis.Literal
}

// structTypes 为结构体建立类型，字段在所有结构体名字可用后填写
func (cs *checkState) structTypes(program *analysis.Program) {
	var decls []*analysis.StructDecl
	for _, decl := range program.Decls {
		if d, ok := decl.(*analysis.StructDecl); ok && d.Symbol != nil {
			d.Symbol.Type = &vo.StructType{Name: d.Name}
			decls = append(decls, d)
		}
	}
	for _, d := range decls {
		st := d.Symbol.Type.(*vo.StructType)
		st.Fields = make([]vo.Field, 0, len(d.Fields))
		for _, f := range d.Fields {
			ft := cs.typeExpr(f.TypeAnn)
			if vo.IsVoid(ft) {
				cs.errorf(analysis.CodeVoidValue, f.Span(), "field '%s' cannot have type Void", f.Name)
				ft = vo.Unresolved
			}
			st.Fields = append(st.Fields, vo.Field{Name: f.Name, Type: ft})
		}
	}
	for _, d := range decls {
		if containsByValue(d.Symbol.Type.(*vo.StructType), d.Name, map[string]bool{}) {
			cs.errorf(analysis.CodeRecursiveStruct, d.NameSpan, "struct %s contains itself by value", d.Name)
		}
	}
}

// containsByValue 检查结构体是否（间接）按值包含名为 target 的结构体
func containsByValue(st *vo.StructType, target string, visiting map[string]bool) bool {
	if visiting[st.Name] {
		return false
	}
	visiting[st.Name] = true
	defer delete(visiting, st.Name)
	for _, f := range st.Fields {
		inner, ok := f.Type.(*vo.StructType)
		if !ok {
			continue
		}
		if inner.Name == target || containsByValue(inner, target, visiting) {
			return true
		}
	}
	return false
}

// signatures 计算所有函数签名，参数符号同时获得类型
func (cs *checkState) signatures(program *analysis.Program) {
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *analysis.FunctionDecl:
			d.Symbol.Type = cs.signature(d.Params, d.ReturnType)
		case *analysis.ExternDecl:
			d.Symbol.Type = cs.signature(d.Params, d.ReturnType)
		}
	}
}

func (cs *checkState) signature(params []*analysis.Param, ret analysis.TypeExpr) *vo.FunctionType {
	ft := &vo.FunctionType{Return: vo.Void}
	for _, p := range params {
		pt := cs.typeExpr(p.TypeAnn)
		if vo.IsVoid(pt) {
			cs.errorf(analysis.CodeVoidValue, p.Span(), "parameter '%s' cannot have type Void", p.Name)
			pt = vo.Unresolved
		}
		if p.Symbol != nil {
			p.Symbol.Type = pt
		}
		ft.Params = append(ft.Params, pt)
	}
	if ret != nil {
		ft.Return = cs.typeExpr(ret)
	}
	return ft
}

// typeExpr 将类型标注解析为语义类型
func (cs *checkState) typeExpr(te analysis.TypeExpr) vo.Type {
	var t vo.Type
	switch x := te.(type) {
	case *analysis.NamedType:
		switch {
		case x.Symbol == nil:
			builtin, ok := vo.LookupBuiltinType(x.Name)
			if !ok {
				builtin = vo.Unresolved
			}
			t = builtin
		case x.Symbol.IsError() || x.Symbol.Type == nil:
			t = vo.Unresolved
		default:
			t = x.Symbol.Type
		}
	case *analysis.PointerTypeExpr:
		elem := cs.typeExpr(x.Elem)
		if vo.IsUnresolved(elem) {
			t = vo.Unresolved
		} else {
			t = vo.NewPointer(elem)
		}
	default:
		return vo.Unresolved
	}
	te.SetResolved(t)
	return t
}

func (cs *checkState) global(d *analysis.GlobalDecl) {
	var declared vo.Type
	if d.TypeAnn != nil {
		declared = cs.typeExpr(d.TypeAnn)
	}
	if d.Init == nil {
		cs.errorf(analysis.CodeMissingInit, d.NameSpan, "global '%s' requires an initializer", d.Name)
		if declared == nil {
			declared = vo.Unresolved
		}
	} else {
		initType := cs.value(&d.Init)
		if !isConstant(d.Init) && !vo.IsUnresolved(initType) {
			cs.errorf(analysis.CodeNonConstGlobal, d.Init.Span(), "initializer of global '%s' must be a constant", d.Name)
		}
		if declared == nil {
			declared = initType
		} else {
			cs.coerce(&d.Init, declared)
		}
	}
	if vo.IsVoid(declared) {
		cs.errorf(analysis.CodeVoidValue, d.NameSpan, "global '%s' cannot have type Void", d.Name)
		declared = vo.Unresolved
	}
	if d.Symbol != nil {
		d.Symbol.Type = declared
	}
}

// isConstant 全局初始化表达式只允许字面量、负字面量及其转换
func isConstant(e analysis.Expr) bool {
	switch x := e.(type) {
	case *analysis.Literal:
		return true
	case *analysis.UnaryExpr:
		lit, ok := x.Operand.(*analysis.Literal)
		return ok && x.Op == analysis.OpNeg && (lit.Kind == analysis.IntLit || lit.Kind == analysis.FloatLit)
	case *analysis.CastExpr:
		return isConstant(x.X)
	}
	return false
}

func (cs *checkState) function(fn *analysis.FunctionDecl) {
	ft, ok := fn.Symbol.Type.(*vo.FunctionType)
	if !ok {
		return
	}
	cs.fn = fn
	cs.returnType = ft.Return
	defer func() { cs.fn, cs.returnType = nil, nil }()

	fallsThrough := cs.statements(fn.Body.Stmts)
	if fallsThrough && !vo.IsVoid(ft.Return) && !vo.IsUnresolved(ft.Return) {
		cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeMissingReturn,
			fmt.Sprintf("missing return in function '%s'", fn.Name), fn.Body.RBrace, ft.Return.String(), "Void"))
	}
}

// statements 检查语句列表，返回控制流是否可能落到列表末尾。
// 不会落空的语句之后的第一条语句报告为不可达
func (cs *checkState) statements(stmts []analysis.Stmt) bool {
	fallsThrough := true
	reported := false
	for _, s := range stmts {
		if !fallsThrough && !reported {
			cs.diagnostics = append(cs.diagnostics,
				analysis.NewWarning(analysis.TypeError, analysis.CodeUnreachable, "unreachable code", s.Span()))
			reported = true
		}
		if !cs.statement(s) {
			fallsThrough = false
		}
	}
	return fallsThrough
}

// statement 检查单条语句，返回控制流是否可能继续到下一条语句
func (cs *checkState) statement(stmt analysis.Stmt) bool {
	switch s := stmt.(type) {
	case *analysis.VarDecl:
		cs.varDecl(s)
	case *analysis.Block:
		return cs.statements(s.Stmts)
	case *analysis.IfStmt:
		cs.condition(&s.Cond)
		thenFalls := cs.statements(s.Then.Stmts)
		if s.Else == nil {
			return true
		}
		elseFalls := cs.statement(s.Else)
		return thenFalls || elseFalls
	case *analysis.WhileStmt:
		cs.condition(&s.Cond)
		cs.statements(s.Body.Stmts)
		return true
	case *analysis.ReturnStmt:
		cs.returnStmt(s)
		return false
	case *analysis.BreakStmt, *analysis.ContinueStmt:
		return false
	case *analysis.ExprStmt:
		cs.expr(s.X)
	case *analysis.BadStmt:
	}
	return true
}

func (cs *checkState) varDecl(s *analysis.VarDecl) {
	var declared vo.Type
	if s.TypeAnn != nil {
		declared = cs.typeExpr(s.TypeAnn)
	}
	switch {
	case s.Init != nil:
		initType := cs.value(&s.Init)
		if declared == nil {
			declared = initType
		} else {
			cs.coerce(&s.Init, declared)
		}
	case !s.Mutable:
		cs.errorf(analysis.CodeMissingInit, s.NameSpan, "'let %s' requires an initializer", s.Name)
	case declared == nil:
		cs.errorf(analysis.CodeMissingInit, s.NameSpan, "cannot infer the type of '%s' without an initializer", s.Name)
	}
	if declared == nil {
		declared = vo.Unresolved
	}
	if vo.IsVoid(declared) {
		cs.errorf(analysis.CodeVoidValue, s.NameSpan, "variable '%s' cannot have type Void", s.Name)
		declared = vo.Unresolved
	}
	if s.Symbol != nil {
		s.Symbol.Type = declared
	}
}

func (cs *checkState) condition(slot *analysis.Expr) {
	t := cs.value(slot)
	if vo.IsUnresolved(t) || vo.IsBool(t) {
		return
	}
	cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeBadCondition,
		"condition must be Bool", (*slot).Span(), vo.Bool.String(), t.String()))
}

func (cs *checkState) returnStmt(s *analysis.ReturnStmt) {
	if cs.returnType == nil {
		return
	}
	switch {
	case s.Value == nil && !vo.IsVoid(cs.returnType) && !vo.IsUnresolved(cs.returnType):
		cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeBadReturn,
			fmt.Sprintf("missing return value in function '%s'", cs.fn.Name), s.Span(), cs.returnType.String(), "Void"))
	case s.Value != nil && vo.IsVoid(cs.returnType):
		t := cs.expr(s.Value)
		cs.diagnostics = append(cs.diagnostics, analysis.NewTypeMismatch(analysis.CodeBadReturn,
			fmt.Sprintf("function '%s' does not return a value", cs.fn.Name), s.Value.Span(), "Void", t.String()))
	case s.Value != nil:
		cs.value(&s.Value)
		cs.coerce(&s.Value, cs.returnType)
	}
}

func (cs *checkState) errorf(code string, span analysis.Span, format string, args ...any) {
	cs.diagnostics = append(cs.diagnostics,
		analysis.NewDiagnostic(analysis.TypeError, code, fmt.Sprintf(format, args...), span))
}

func (cs *checkState) mismatch(code string, span analysis.Span, message string, expected, actual vo.Type) {
	cs.diagnostics = append(cs.diagnostics,
		analysis.NewTypeMismatch(code, message, span, expected.String(), actual.String()))
}
