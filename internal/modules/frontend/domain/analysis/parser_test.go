package analysis

import (
	"testing"
)

func parse(t *testing.T, src string) (*Program, []Diagnostic) {
	t.Helper()
	return ParseSource(NewSourceCode(src, "test.ace"))
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	program, diags := parse(t, src)
	if len(diags) != 0 {
		for _, d := range diags {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
	return program
}

func TestNewSimpleParser(t *testing.T) {
	var _ Parser = NewSimpleParser()
}

func TestParse_EmptySource(t *testing.T) {
	program := mustParse(t, "")
	if len(program.Decls) != 0 {
		t.Errorf("expected empty program, got %d decls", len(program.Decls))
	}
	if program.File != "test.ace" {
		t.Errorf("File = %q", program.File)
	}
}

func TestParse_FunctionDecl(t *testing.T) {
	program := mustParse(t, "fn add(a: Int, b: Int) -> Int {\n    return a + b;\n}")
	if len(program.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(program.Decls))
	}
	fn, ok := program.Decls[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("expected *FunctionDecl, got %T", program.Decls[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got fn %s with %d params", fn.Name, len(fn.Params))
	}
	if named, ok := fn.ReturnType.(*NamedType); !ok || named.Name != "Int" {
		t.Errorf("return type = %#v", fn.ReturnType)
	}
	ret, ok := fn.Body.Stmts[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("expected *ReturnStmt, got %T", fn.Body.Stmts[0])
	}
	bin, ok := ret.Value.(*BinaryExpr)
	if !ok || bin.Op != OpAdd {
		t.Fatalf("expected a + b, got %#v", ret.Value)
	}
	if fn.Body.RBrace.Start.Line() != 3 || fn.Body.RBrace.Start.Column() != 1 {
		t.Errorf("closing brace at %s, want 3:1", fn.Body.RBrace.Start)
	}
}

func TestParse_Precedence(t *testing.T) {
	program := mustParse(t, "fn f() { x = 1 + 2 * 3 - 4 < 5 && y || !z; }")
	stmt := program.Functions()[0].Body.Stmts[0].(*ExprStmt)

	assign, ok := stmt.X.(*AssignExpr)
	if !ok {
		t.Fatalf("top-level expression = %T, want *AssignExpr", stmt.X)
	}
	or, ok := assign.Value.(*LogicalExpr)
	if !ok || or.Op != OpOr {
		t.Fatalf("assignment value = %#v, want ||", assign.Value)
	}
	and, ok := or.Left.(*LogicalExpr)
	if !ok || and.Op != OpAnd {
		t.Fatalf("|| left = %#v, want &&", or.Left)
	}
	less, ok := and.Left.(*BinaryExpr)
	if !ok || less.Op != OpLt {
		t.Fatalf("&& left = %#v, want <", and.Left)
	}
	sub, ok := less.Left.(*BinaryExpr)
	if !ok || sub.Op != OpSub {
		t.Fatalf("< left = %#v, want -", less.Left)
	}
	add, ok := sub.Left.(*BinaryExpr)
	if !ok || add.Op != OpAdd {
		t.Fatalf("- left = %#v, want +", sub.Left)
	}
	if mul, ok := add.Right.(*BinaryExpr); !ok || mul.Op != OpMul {
		t.Fatalf("+ right = %#v, want *", add.Right)
	}
	if not, ok := or.Right.(*UnaryExpr); !ok || not.Op != OpNot {
		t.Fatalf("|| right = %#v, want !z", or.Right)
	}
}

func TestParse_AssignmentIsRightAssociative(t *testing.T) {
	program := mustParse(t, "fn f() { a = b = c; }")
	assign := program.Functions()[0].Body.Stmts[0].(*ExprStmt).X.(*AssignExpr)
	if _, ok := assign.Target.(*Identifier); !ok {
		t.Fatalf("target = %T", assign.Target)
	}
	if _, ok := assign.Value.(*AssignExpr); !ok {
		t.Fatalf("value = %T, want nested assignment", assign.Value)
	}
}

func TestParse_LeftAssociativeSubtraction(t *testing.T) {
	program := mustParse(t, "fn f() -> Int { return 10 - 3 - 2; }")
	ret := program.Functions()[0].Body.Stmts[0].(*ReturnStmt)
	outer := ret.Value.(*BinaryExpr)
	if _, ok := outer.Left.(*BinaryExpr); !ok {
		t.Fatalf("(10 - 3) - 2 expected, left = %T", outer.Left)
	}
	if _, ok := outer.Right.(*Literal); !ok {
		t.Fatalf("right = %T, want literal", outer.Right)
	}
}

func TestParse_CastBindsTighterThanMultiplication(t *testing.T) {
	program := mustParse(t, "fn f() { a * -b as Int8; }")
	mul := program.Functions()[0].Body.Stmts[0].(*ExprStmt).X.(*BinaryExpr)
	cast, ok := mul.Right.(*CastExpr)
	if !ok {
		t.Fatalf("right = %T, want *CastExpr", mul.Right)
	}
	if neg, ok := cast.X.(*UnaryExpr); !ok || neg.Op != OpNeg {
		t.Fatalf("cast operand = %#v, want -b", cast.X)
	}
}

func TestParse_DanglingElse(t *testing.T) {
	program := mustParse(t, "fn f() { if (a) if (b) x(); else y(); }")
	outer := program.Functions()[0].Body.Stmts[0].(*IfStmt)
	if outer.Else != nil {
		t.Fatalf("else bound to the outer if")
	}
	if !outer.Then.Implicit {
		t.Errorf("non-block body should be wrapped in an implicit block")
	}
	inner, ok := outer.Then.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("then = %T, want *IfStmt", outer.Then.Stmts[0])
	}
	if inner.Else == nil {
		t.Fatalf("else not bound to the nearest if")
	}
}

func TestParse_ElseIfChain(t *testing.T) {
	program := mustParse(t, "fn f(x: Int) -> Int { if (x < 0) { return 0; } else if (x < 10) { return 1; } else { return 2; } }")
	top := program.Functions()[0].Body.Stmts[0].(*IfStmt)
	mid, ok := top.Else.(*IfStmt)
	if !ok {
		t.Fatalf("else = %T, want *IfStmt", top.Else)
	}
	if _, ok := mid.Else.(*Block); !ok {
		t.Fatalf("final else = %T, want *Block", mid.Else)
	}
}

func TestParse_Declarations(t *testing.T) {
	src := `
struct Point { x: Int, y: Int, }
extern fn puts(s: *Int8) -> Int32;
var counter: Int = 0;
let limit = 10;
fn origin() -> Point { return Point { x: 0, y: 0 }; }
`
	program := mustParse(t, src)
	if len(program.Decls) != 5 {
		t.Fatalf("expected 5 decls, got %d", len(program.Decls))
	}
	st := program.Decls[0].(*StructDecl)
	if st.Name != "Point" || len(st.Fields) != 2 {
		t.Errorf("struct = %s with %d fields", st.Name, len(st.Fields))
	}
	ext := program.Decls[1].(*ExternDecl)
	if ptr, ok := ext.Params[0].TypeAnn.(*PointerTypeExpr); !ok || ptr.Elem.(*NamedType).Name != "Int8" {
		t.Errorf("extern param type = %#v", ext.Params[0].TypeAnn)
	}
	if g := program.Decls[2].(*GlobalDecl); !g.Mutable || g.TypeAnn == nil {
		t.Errorf("var global = %#v", g)
	}
	if g := program.Decls[3].(*GlobalDecl); g.Mutable || g.TypeAnn != nil {
		t.Errorf("let global = %#v", g)
	}
	ret := program.Decls[4].(*FunctionDecl).Body.Stmts[0].(*ReturnStmt)
	lit, ok := ret.Value.(*StructLiteral)
	if !ok || lit.Name != "Point" || len(lit.Fields) != 2 {
		t.Fatalf("return value = %#v", ret.Value)
	}
}

func TestParse_PostfixChains(t *testing.T) {
	program := mustParse(t, "fn f() { a.b.c = g(1, h(2)).d; }")
	assign := program.Functions()[0].Body.Stmts[0].(*ExprStmt).X.(*AssignExpr)
	field := assign.Target.(*FieldExpr)
	if field.Field != "c" {
		t.Errorf("field = %s", field.Field)
	}
	if inner := field.X.(*FieldExpr); inner.Field != "b" {
		t.Errorf("inner field = %s", inner.Field)
	}
	rhs := assign.Value.(*FieldExpr)
	call := rhs.X.(*CallExpr)
	if len(call.Args) != 2 {
		t.Errorf("args = %d", len(call.Args))
	}
}

func TestParse_LiteralSuffixes(t *testing.T) {
	program := mustParse(t, "fn f() { let a = 5i8; let b = 2.5f32; }")
	stmts := program.Functions()[0].Body.Stmts
	a := stmts[0].(*VarDecl).Init.(*Literal)
	if a.Raw != "5" || a.Suffix != "i8" || a.Kind != IntLit {
		t.Errorf("a = %#v", a)
	}
	b := stmts[1].(*VarDecl).Init.(*Literal)
	if b.Raw != "2.5" || b.Suffix != "f32" || b.Kind != FloatLit {
		t.Errorf("b = %#v", b)
	}
}

func TestParse_RecoversAtSemicolon(t *testing.T) {
	src := "fn f() {\n let x = ;\n let y = 2;\n}"
	program, diags := parse(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Kind() != SyntaxError || diags[0].Code() != CodeExpectedExpr {
		t.Errorf("diagnostic = %s", diags[0])
	}
	body := program.Functions()[0].Body
	if len(body.Stmts) != 2 {
		t.Fatalf("expected 2 statements after recovery, got %d", len(body.Stmts))
	}
	if _, ok := body.Stmts[0].(*VarDecl).Init.(*BadExpr); !ok {
		t.Errorf("first initializer should be a BadExpr marker")
	}
	if y := body.Stmts[1].(*VarDecl); y.Name != "y" {
		t.Errorf("second statement = %s", y.Name)
	}
}

func TestParse_ReportsMultipleErrors(t *testing.T) {
	src := `
fn f() {
    let = 1;
    return 1 +;
}
fn g() -> Int { return 2; }
`
	program, diags := parse(t, src)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if len(program.Functions()) != 2 {
		t.Fatalf("expected both functions to survive, got %d", len(program.Functions()))
	}
	if program.Functions()[1].Name != "g" {
		t.Errorf("second function = %s", program.Functions()[1].Name)
	}
}

func TestParse_MissingClosingBrace(t *testing.T) {
	_, diags := parse(t, "fn f() { let x = 1;")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Code() != CodeUnexpectedToken {
		t.Errorf("diagnostic = %s", diags[0])
	}
}

func TestParse_TopLevelGarbage(t *testing.T) {
	program, diags := parse(t, "1 + 2; fn ok() {}")
	if len(diags) != 1 || diags[0].Code() != CodeExpectedDecl {
		t.Fatalf("diagnostics = %v", diags)
	}
	if len(program.Functions()) != 1 {
		t.Errorf("function after garbage not parsed")
	}
}

func TestParse_IllegalTokensAreSkipped(t *testing.T) {
	program, diags := parse(t, "fn f() { let x = 1 @ ; }")
	if len(diags) != 1 || diags[0].Kind() != LexError {
		t.Fatalf("expected only the lex error, got %v", diags)
	}
	if len(program.Functions()[0].Body.Stmts) != 1 {
		t.Errorf("statement lost")
	}
}
