package services

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/entities"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"
)

// ResolverOptions 名字解析选项
type ResolverOptions struct {
	WarnShadowing bool
}

// SymbolResolver 名字解析器：为每个标识符绑定符号
type SymbolResolver struct {
	options ResolverOptions
}

// NewSymbolResolver 创建名字解析器
func NewSymbolResolver(options ResolverOptions) *SymbolResolver {
	return &SymbolResolver{options: options}
}

// Resolve 解析程序中的所有名字，原地修改AST。作用域表在返回后丢弃
func (r *SymbolResolver) Resolve(program *analysis.Program) []analysis.Diagnostic {
	rs := &resolveState{
		table:   entities.NewScopeTable(),
		options: r.options,
	}
	rs.scope = rs.table.Global()
	rs.predeclare(program)
	for _, decl := range program.Decls {
		rs.declaration(decl)
	}
	return rs.diagnostics
}

type resolveState struct {
	table       *entities.ScopeTable
	scope       analysis.ScopeID
	loopDepth   int
	options     ResolverOptions
	diagnostics []analysis.Diagnostic
}

// predeclare 预先注册所有函数和结构体，支持相互递归
func (rs *resolveState) predeclare(program *analysis.Program) {
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *analysis.FunctionDecl:
			d.Symbol = rs.declareGlobal(d.Name, analysis.SymbolFunction, d, d.NameSpan)
		case *analysis.ExternDecl:
			d.Symbol = rs.declareGlobal(d.Name, analysis.SymbolFunction, d, d.NameSpan)
		case *analysis.StructDecl:
			d.Symbol = rs.declareGlobal(d.Name, analysis.SymbolStruct, d, d.NameSpan)
		}
	}
}

func (rs *resolveState) declareGlobal(name string, kind analysis.SymbolKind, decl analysis.Node, span analysis.Span) *analysis.Symbol {
	sym := rs.table.NewSymbol(name, kind, decl)
	if _, ok := rs.table.Declare(rs.table.Global(), sym); !ok {
		rs.errorf(analysis.CodeRedeclared, span, "'%s' is already declared", name)
	}
	return sym
}

func (rs *resolveState) declaration(decl analysis.Decl) {
	switch d := decl.(type) {
	case *analysis.StructDecl:
		seen := make(map[string]bool)
		for _, f := range d.Fields {
			if seen[f.Name] {
				rs.errorf(analysis.CodeDuplicateField, f.Span(), "duplicate field '%s' in struct %s", f.Name, d.Name)
			}
			seen[f.Name] = true
			rs.typeExpr(f.TypeAnn)
		}
	case *analysis.ExternDecl:
		rs.signature(d.Params, d.ReturnType)
		// 外部声明的参数只是名字，不进入任何作用域
		seen := make(map[string]bool)
		for _, p := range d.Params {
			if seen[p.Name] {
				rs.errorf(analysis.CodeRedeclared, p.Span(), "duplicate parameter '%s'", p.Name)
			}
			seen[p.Name] = true
			p.Symbol = rs.table.NewSymbol(p.Name, analysis.SymbolParameter, p)
		}
	case *analysis.FunctionDecl:
		rs.function(d)
	case *analysis.GlobalDecl:
		rs.typeExpr(d.TypeAnn)
		if d.Init != nil {
			rs.expr(d.Init)
		}
		sym := rs.table.NewSymbol(d.Name, analysis.SymbolGlobal, d)
		sym.Mutable = d.Mutable
		if _, ok := rs.table.Declare(rs.table.Global(), sym); !ok {
			rs.errorf(analysis.CodeRedeclared, d.NameSpan, "'%s' is already declared", d.Name)
		}
		d.Symbol = sym
	case *analysis.BadDecl:
	}
}

func (rs *resolveState) signature(params []*analysis.Param, ret analysis.TypeExpr) {
	for _, p := range params {
		rs.typeExpr(p.TypeAnn)
	}
	if ret != nil {
		rs.typeExpr(ret)
	}
}

func (rs *resolveState) function(fn *analysis.FunctionDecl) {
	rs.signature(fn.Params, fn.ReturnType)

	outer := rs.scope
	rs.scope = rs.table.Push(entities.ScopeFunction, outer)
	defer func() { rs.scope = outer }()

	for _, p := range fn.Params {
		sym := rs.table.NewSymbol(p.Name, analysis.SymbolParameter, p)
		if _, ok := rs.table.Declare(rs.scope, sym); !ok {
			rs.errorf(analysis.CodeRedeclared, p.Span(), "duplicate parameter '%s'", p.Name)
		} else {
			rs.checkShadowing(sym, p.Span())
		}
		p.Symbol = sym
	}

	// 函数体与参数共享同一个作用域，在函数体顶层重新声明参数是错误
	rs.loopDepth = 0
	rs.statements(fn.Body.Stmts)
}

func (rs *resolveState) block(b *analysis.Block) {
	outer := rs.scope
	rs.scope = rs.table.Push(entities.ScopeBlock, outer)
	rs.statements(b.Stmts)
	rs.scope = outer
}

func (rs *resolveState) statements(stmts []analysis.Stmt) {
	for _, s := range stmts {
		rs.statement(s)
	}
}

func (rs *resolveState) statement(stmt analysis.Stmt) {
	switch s := stmt.(type) {
	case *analysis.VarDecl:
		rs.typeExpr(s.TypeAnn)
		// 先解析初始化表达式，let x = x; 中的 x 指向外层
		if s.Init != nil {
			rs.expr(s.Init)
		}
		sym := rs.table.NewSymbol(s.Name, analysis.SymbolVariable, s)
		sym.Mutable = s.Mutable
		if _, ok := rs.table.Declare(rs.scope, sym); !ok {
			rs.errorf(analysis.CodeRedeclared, s.NameSpan, "'%s' is already declared in this scope", s.Name)
		} else {
			rs.checkShadowing(sym, s.NameSpan)
		}
		s.Symbol = sym
	case *analysis.Block:
		rs.block(s)
	case *analysis.IfStmt:
		rs.expr(s.Cond)
		rs.block(s.Then)
		if s.Else != nil {
			rs.statement(s.Else)
		}
	case *analysis.WhileStmt:
		rs.expr(s.Cond)
		rs.loopDepth++
		rs.block(s.Body)
		rs.loopDepth--
	case *analysis.ReturnStmt:
		if s.Value != nil {
			rs.expr(s.Value)
		}
	case *analysis.BreakStmt:
		if rs.loopDepth == 0 {
			rs.errorf(analysis.CodeLoopControl, s.Span(), "'break' outside of a loop")
		}
	case *analysis.ContinueStmt:
		if rs.loopDepth == 0 {
			rs.errorf(analysis.CodeLoopControl, s.Span(), "'continue' outside of a loop")
		}
	case *analysis.ExprStmt:
		rs.expr(s.X)
	case *analysis.BadStmt:
	}
}

func (rs *resolveState) checkShadowing(sym *analysis.Symbol, span analysis.Span) {
	if !rs.options.WarnShadowing {
		return
	}
	outer := rs.table.LookupOuter(rs.scope, sym.Name)
	if outer == nil || outer.IsError() {
		return
	}
	rs.diagnostics = append(rs.diagnostics, analysis.NewWarning(analysis.ResolutionError, analysis.CodeShadowed,
		fmt.Sprintf("declaration of '%s' shadows %s in an outer scope", sym.Name, outer.Kind), span))
}

func (rs *resolveState) expr(expr analysis.Expr) {
	switch e := expr.(type) {
	case *analysis.Identifier:
		sym := rs.table.Lookup(rs.scope, e.Name)
		switch {
		case sym == nil:
			rs.errorf(analysis.CodeUndeclared, e.Span(), "undeclared identifier '%s'", e.Name)
			e.Symbol = analysis.ErrorSymbol
		case sym.Kind == analysis.SymbolStruct:
			rs.errorf(analysis.CodeNotAValue, e.Span(), "'%s' is a type, not a value", e.Name)
			e.Symbol = analysis.ErrorSymbol
		default:
			e.Symbol = sym
		}
	case *analysis.Literal, *analysis.BadExpr:
	case *analysis.BinaryExpr:
		rs.expr(e.Left)
		rs.expr(e.Right)
	case *analysis.LogicalExpr:
		rs.expr(e.Left)
		rs.expr(e.Right)
	case *analysis.UnaryExpr:
		rs.expr(e.Operand)
		if e.Op == analysis.OpAddr {
			markAddressTaken(e.Operand)
		}
	case *analysis.AssignExpr:
		rs.expr(e.Target)
		rs.expr(e.Value)
	case *analysis.CallExpr:
		rs.expr(e.Callee)
		for _, a := range e.Args {
			rs.expr(a)
		}
	case *analysis.FieldExpr:
		rs.expr(e.X)
	case *analysis.CastExpr:
		rs.expr(e.X)
		if e.Target != nil {
			rs.typeExpr(e.Target)
		}
	case *analysis.StructLiteral:
		e.Symbol = rs.structSymbol(e.Name, e.NameSpan)
		for _, f := range e.Fields {
			rs.expr(f.Value)
		}
	}
}

// markAddressTaken 标记被取地址的根变量
func markAddressTaken(expr analysis.Expr) {
	for {
		switch e := expr.(type) {
		case *analysis.Identifier:
			if e.Symbol != nil && !e.Symbol.IsError() {
				e.Symbol.AddressTaken = true
			}
			return
		case *analysis.FieldExpr:
			expr = e.X
		case *analysis.CastExpr:
			if !e.Implicit {
				return
			}
			expr = e.X
		default:
			return
		}
	}
}

func (rs *resolveState) typeExpr(te analysis.TypeExpr) {
	switch t := te.(type) {
	case nil:
	case *analysis.NamedType:
		if t.Name == "" {
			t.Symbol = analysis.ErrorSymbol
			return
		}
		if _, ok := vo.LookupBuiltinType(t.Name); ok {
			t.Symbol = nil
			return
		}
		t.Symbol = rs.structSymbol(t.Name, t.Span())
	case *analysis.PointerTypeExpr:
		rs.typeExpr(t.Elem)
	}
}

// structSymbol 在全局作用域中查找结构体名
func (rs *resolveState) structSymbol(name string, span analysis.Span) *analysis.Symbol {
	sym := rs.table.LookupLocal(rs.table.Global(), name)
	switch {
	case sym == nil:
		rs.errorf(analysis.CodeUnknownType, span, "unknown type '%s'", name)
		return analysis.ErrorSymbol
	case sym.Kind != analysis.SymbolStruct:
		rs.errorf(analysis.CodeNotAType, span, "'%s' is a %s, not a type", name, sym.Kind)
		return analysis.ErrorSymbol
	}
	return sym
}

func (rs *resolveState) errorf(code string, span analysis.Span, format string, args ...any) {
	rs.diagnostics = append(rs.diagnostics,
		analysis.NewDiagnostic(analysis.ResolutionError, code, fmt.Sprintf(format, args...), span))
}
