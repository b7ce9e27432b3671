package analysis

import (
	"fmt"

	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"
)

// Node AST节点接口。所有节点都带有源码区间
type Node interface {
	Span() Span
}

// Decl 顶层声明
type Decl interface {
	Node
	declNode()
}

// Stmt 语句
type Stmt interface {
	Node
	stmtNode()
}

// Expr 表达式。类型槽由类型检查器填写
type Expr interface {
	Node
	Type() vo.Type
	SetType(t vo.Type)
	exprNode()
}

// TypeExpr 源码中的类型标注
type TypeExpr interface {
	Node
	Resolved() vo.Type
	SetResolved(t vo.Type)
	typeExprNode()
}

type nodeBase struct {
	span Span
}

// Span 返回节点的源码区间
func (n *nodeBase) Span() Span {
	return n.span
}

type exprBase struct {
	nodeBase
	typ vo.Type
}

// Type 返回检查后的类型，未检查时为nil
func (e *exprBase) Type() vo.Type {
	return e.typ
}

// SetType 设置表达式类型
func (e *exprBase) SetType(t vo.Type) {
	e.typ = t
}

func (*exprBase) exprNode() {}

type stmtBase struct {
	nodeBase
}

func (*stmtBase) stmtNode() {}

// Program 一个编译单元的AST根节点
type Program struct {
	nodeBase
	File  string
	Decls []Decl
}

// NewProgram 创建新的Program
func NewProgram(file string, decls []Decl, span Span) *Program {
	return &Program{nodeBase: nodeBase{span}, File: file, Decls: decls}
}

// Functions 返回所有函数定义
func (p *Program) Functions() []*FunctionDecl {
	var fns []*FunctionDecl
	for _, d := range p.Decls {
		if fn, ok := d.(*FunctionDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// String 返回Program的字符串表示
func (p *Program) String() string {
	return fmt.Sprintf("Program{file=%s, decls=%d}", p.File, len(p.Decls))
}

// Param 函数参数
type Param struct {
	nodeBase
	Name    string
	TypeAnn TypeExpr
	Symbol  *Symbol
}

// NewParam 创建新的Param
func NewParam(name string, typeAnn TypeExpr, span Span) *Param {
	return &Param{nodeBase: nodeBase{span}, Name: name, TypeAnn: typeAnn}
}

// FunctionDecl 函数定义
type FunctionDecl struct {
	nodeBase
	Name       string
	NameSpan   Span
	Params     []*Param
	ReturnType TypeExpr // nil 表示 Void
	Body       *Block
	Symbol     *Symbol
}

// NewFunctionDecl 创建新的FunctionDecl
func NewFunctionDecl(name string, nameSpan Span, params []*Param, ret TypeExpr, body *Block, span Span) *FunctionDecl {
	return &FunctionDecl{
		nodeBase:   nodeBase{span},
		Name:       name,
		NameSpan:   nameSpan,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
}

// ExternDecl 外部函数声明
type ExternDecl struct {
	nodeBase
	Name       string
	NameSpan   Span
	Params     []*Param
	ReturnType TypeExpr
	Symbol     *Symbol
}

// NewExternDecl 创建新的ExternDecl
func NewExternDecl(name string, nameSpan Span, params []*Param, ret TypeExpr, span Span) *ExternDecl {
	return &ExternDecl{
		nodeBase:   nodeBase{span},
		Name:       name,
		NameSpan:   nameSpan,
		Params:     params,
		ReturnType: ret,
	}
}

// FieldDecl 结构体字段声明
type FieldDecl struct {
	nodeBase
	Name    string
	TypeAnn TypeExpr
}

// NewFieldDecl 创建新的FieldDecl
func NewFieldDecl(name string, typeAnn TypeExpr, span Span) *FieldDecl {
	return &FieldDecl{nodeBase: nodeBase{span}, Name: name, TypeAnn: typeAnn}
}

// StructDecl 结构体定义
type StructDecl struct {
	nodeBase
	Name     string
	NameSpan Span
	Fields   []*FieldDecl
	Symbol   *Symbol
}

// NewStructDecl 创建新的StructDecl
func NewStructDecl(name string, nameSpan Span, fields []*FieldDecl, span Span) *StructDecl {
	return &StructDecl{nodeBase: nodeBase{span}, Name: name, NameSpan: nameSpan, Fields: fields}
}

// GlobalDecl 全局变量定义
type GlobalDecl struct {
	nodeBase
	Mutable  bool
	Name     string
	NameSpan Span
	TypeAnn  TypeExpr
	Init     Expr
	Symbol   *Symbol
}

// NewGlobalDecl 创建新的GlobalDecl
func NewGlobalDecl(mutable bool, name string, nameSpan Span, typeAnn TypeExpr, init Expr, span Span) *GlobalDecl {
	return &GlobalDecl{
		nodeBase: nodeBase{span},
		Mutable:  mutable,
		Name:     name,
		NameSpan: nameSpan,
		TypeAnn:  typeAnn,
		Init:     init,
	}
}

func (*FunctionDecl) declNode() {}
func (*ExternDecl) declNode()   {}
func (*StructDecl) declNode()   {}
func (*GlobalDecl) declNode()   {}

// BadDecl 语法错误后的占位声明
type BadDecl struct {
	nodeBase
}

// NewBadDecl 创建新的BadDecl
func NewBadDecl(span Span) *BadDecl {
	return &BadDecl{nodeBase{span}}
}

func (*BadDecl) declNode() {}

// Block 语句块
type Block struct {
	stmtBase
	Stmts  []Stmt
	RBrace Span // 右花括号位置，缺少返回值时在此报告
	// Implicit 由单条语句包装而成，源码中没有花括号
	Implicit bool
}

// NewBlock 创建新的Block
func NewBlock(stmts []Stmt, rbrace Span, span Span) *Block {
	return &Block{stmtBase: stmtBase{nodeBase{span}}, Stmts: stmts, RBrace: rbrace}
}

// VarDecl 局部变量声明，let 不可变，var 可变
type VarDecl struct {
	stmtBase
	Mutable  bool
	Name     string
	NameSpan Span
	TypeAnn  TypeExpr
	Init     Expr
	Symbol   *Symbol
}

// NewVarDecl 创建新的VarDecl
func NewVarDecl(mutable bool, name string, nameSpan Span, typeAnn TypeExpr, init Expr, span Span) *VarDecl {
	return &VarDecl{
		stmtBase: stmtBase{nodeBase{span}},
		Mutable:  mutable,
		Name:     name,
		NameSpan: nameSpan,
		TypeAnn:  typeAnn,
		Init:     init,
	}
}

// IfStmt 条件语句，Else 为 nil、*Block 或 *IfStmt
type IfStmt struct {
	stmtBase
	Cond Expr
	Then *Block
	Else Stmt
}

// NewIfStmt 创建新的IfStmt
func NewIfStmt(cond Expr, then *Block, els Stmt, span Span) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{nodeBase{span}}, Cond: cond, Then: then, Else: els}
}

// WhileStmt 循环语句
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *Block
}

// NewWhileStmt 创建新的WhileStmt
func NewWhileStmt(cond Expr, body *Block, span Span) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{nodeBase{span}}, Cond: cond, Body: body}
}

// ReturnStmt 返回语句，Value 可以为 nil
type ReturnStmt struct {
	stmtBase
	Value Expr
}

// NewReturnStmt 创建新的ReturnStmt
func NewReturnStmt(value Expr, span Span) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{nodeBase{span}}, Value: value}
}

// BreakStmt break语句
type BreakStmt struct {
	stmtBase
}

// NewBreakStmt 创建新的BreakStmt
func NewBreakStmt(span Span) *BreakStmt {
	return &BreakStmt{stmtBase{nodeBase{span}}}
}

// ContinueStmt continue语句
type ContinueStmt struct {
	stmtBase
}

// NewContinueStmt 创建新的ContinueStmt
func NewContinueStmt(span Span) *ContinueStmt {
	return &ContinueStmt{stmtBase{nodeBase{span}}}
}

// ExprStmt 表达式语句
type ExprStmt struct {
	stmtBase
	X Expr
}

// NewExprStmt 创建新的ExprStmt
func NewExprStmt(x Expr, span Span) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{nodeBase{span}}, X: x}
}

// BadStmt 语法错误后的占位语句
type BadStmt struct {
	stmtBase
}

// NewBadStmt 创建新的BadStmt
func NewBadStmt(span Span) *BadStmt {
	return &BadStmt{stmtBase{nodeBase{span}}}
}
