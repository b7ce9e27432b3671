// Package dump 将 analysis.Program 转换为带位置信息的通用树，供 JSON 等外部序列化器输出
package dump

import (
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// Tree 单个节点的结构化表示。固定键为 type、lineno、col_offset、end_lineno、end_col_offset，
// 其余键为子节点或属性
type Tree = map[string]any

// Program 转换整个程序
func Program(program *analysis.Program) Tree {
	if program == nil {
		return nil
	}
	decls := make([]Tree, 0, len(program.Decls))
	for _, d := range program.Decls {
		decls = append(decls, decl(d))
	}
	return node("Program", program.Span(), Tree{
		"file":  program.File,
		"decls": decls,
	})
}

// node 组装带位置的节点。列号从0开始
func node(kind string, span analysis.Span, fields Tree) Tree {
	t := Tree{
		"type":           kind,
		"lineno":         span.Start.Line(),
		"col_offset":     zeroBased(span.Start.Column()),
		"end_lineno":     span.End.Line(),
		"end_col_offset": zeroBased(span.End.Column()),
	}
	for k, v := range fields {
		t[k] = v
	}
	return t
}

func zeroBased(column int) int {
	if column > 0 {
		return column - 1
	}
	return 0
}

func decl(d analysis.Decl) Tree {
	switch d := d.(type) {
	case *analysis.FunctionDecl:
		return node("FunctionDecl", d.Span(), Tree{
			"name":        d.Name,
			"params":      params(d.Params),
			"return_type": typeExpr(d.ReturnType),
			"body":        block(d.Body),
		})
	case *analysis.ExternDecl:
		return node("ExternDecl", d.Span(), Tree{
			"name":        d.Name,
			"params":      params(d.Params),
			"return_type": typeExpr(d.ReturnType),
		})
	case *analysis.StructDecl:
		fields := make([]Tree, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = node("FieldDecl", f.Span(), Tree{
				"name":       f.Name,
				"annotation": typeExpr(f.TypeAnn),
			})
		}
		return node("StructDecl", d.Span(), Tree{
			"name":   d.Name,
			"fields": fields,
		})
	case *analysis.GlobalDecl:
		return node("GlobalDecl", d.Span(), Tree{
			"name":       d.Name,
			"mutable":    d.Mutable,
			"annotation": typeExpr(d.TypeAnn),
			"init":       expr(d.Init),
		})
	case *analysis.BadDecl:
		return node("BadDecl", d.Span(), nil)
	case nil:
		return nil
	}
	return node("Unknown", d.Span(), nil)
}

func params(ps []*analysis.Param) []Tree {
	out := make([]Tree, len(ps))
	for i, p := range ps {
		out[i] = node("Param", p.Span(), Tree{
			"name":       p.Name,
			"annotation": typeExpr(p.TypeAnn),
		})
	}
	return out
}

func block(b *analysis.Block) Tree {
	if b == nil {
		return nil
	}
	stmts := make([]Tree, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, stmt(s))
	}
	return node("Block", b.Span(), Tree{"body": stmts})
}

func stmt(s analysis.Stmt) Tree {
	switch s := s.(type) {
	case *analysis.Block:
		return block(s)
	case *analysis.VarDecl:
		kind := "let"
		if s.Mutable {
			kind = "var"
		}
		return node("VarDecl", s.Span(), Tree{
			"name":       s.Name,
			"binding":    kind,
			"annotation": typeExpr(s.TypeAnn),
			"init":       expr(s.Init),
		})
	case *analysis.IfStmt:
		return node("IfStmt", s.Span(), Tree{
			"test":   expr(s.Cond),
			"body":   block(s.Then),
			"orelse": stmt(s.Else),
		})
	case *analysis.WhileStmt:
		return node("WhileStmt", s.Span(), Tree{
			"test": expr(s.Cond),
			"body": block(s.Body),
		})
	case *analysis.ReturnStmt:
		return node("ReturnStmt", s.Span(), Tree{"value": expr(s.Value)})
	case *analysis.BreakStmt:
		return node("BreakStmt", s.Span(), nil)
	case *analysis.ContinueStmt:
		return node("ContinueStmt", s.Span(), nil)
	case *analysis.ExprStmt:
		return node("ExprStmt", s.Span(), Tree{"value": expr(s.X)})
	case *analysis.BadStmt:
		return node("BadStmt", s.Span(), nil)
	case nil:
		return nil
	}
	return node("Unknown", s.Span(), nil)
}

func expr(e analysis.Expr) Tree {
	if e == nil {
		return nil
	}
	var t Tree
	switch e := e.(type) {
	case *analysis.Literal:
		t = node("Literal", e.Span(), Tree{
			"kind":   e.Kind.String(),
			"value":  literalValue(e),
			"suffix": e.Suffix,
		})
	case *analysis.Identifier:
		t = node("Identifier", e.Span(), Tree{"id": e.Name})
	case *analysis.BinaryExpr:
		t = node("BinaryExpr", e.Span(), Tree{
			"op":    e.Op.String(),
			"left":  expr(e.Left),
			"right": expr(e.Right),
		})
	case *analysis.LogicalExpr:
		t = node("LogicalExpr", e.Span(), Tree{
			"op":    e.Op.String(),
			"left":  expr(e.Left),
			"right": expr(e.Right),
		})
	case *analysis.UnaryExpr:
		t = node("UnaryExpr", e.Span(), Tree{
			"op":      e.Op.String(),
			"operand": expr(e.Operand),
		})
	case *analysis.AssignExpr:
		t = node("AssignExpr", e.Span(), Tree{
			"target": expr(e.Target),
			"value":  expr(e.Value),
		})
	case *analysis.CallExpr:
		args := make([]Tree, len(e.Args))
		for i, a := range e.Args {
			args[i] = expr(a)
		}
		t = node("CallExpr", e.Span(), Tree{
			"func": expr(e.Callee),
			"args": args,
		})
	case *analysis.FieldExpr:
		t = node("FieldExpr", e.Span(), Tree{
			"value": expr(e.X),
			"attr":  e.Field,
		})
	case *analysis.CastExpr:
		t = node("CastExpr", e.Span(), Tree{
			"value":    expr(e.X),
			"target":   typeExpr(e.Target),
			"implicit": e.Implicit,
		})
	case *analysis.StructLiteral:
		fields := make([]Tree, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = node("FieldInit", f.Span(), Tree{
				"name":  f.Name,
				"value": expr(f.Value),
			})
		}
		t = node("StructLiteral", e.Span(), Tree{
			"name":   e.Name,
			"fields": fields,
		})
	case *analysis.BadExpr:
		t = node("BadExpr", e.Span(), nil)
	default:
		t = node("Unknown", e.Span(), nil)
	}
	if typ := e.Type(); typ != nil {
		t["resolved_type"] = typ.String()
	}
	return t
}

func literalValue(l *analysis.Literal) any {
	switch l.Kind {
	case analysis.IntLit:
		return l.IntValue
	case analysis.FloatLit:
		return l.FloatValue
	case analysis.BoolLit:
		return l.BoolValue
	default:
		return l.Raw
	}
}

func typeExpr(te analysis.TypeExpr) Tree {
	switch te := te.(type) {
	case *analysis.NamedType:
		return node("NamedType", te.Span(), Tree{"id": te.Name})
	case *analysis.PointerTypeExpr:
		return node("PointerType", te.Span(), Tree{"elem": typeExpr(te.Elem)})
	case nil:
		return nil
	}
	return node("Unknown", te.Span(), nil)
}
