package dump

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"
)

func parse(t *testing.T, src string) *analysis.Program {
	t.Helper()
	program, diags := analysis.ParseSource(analysis.NewSourceCode(src, "dump.ace"))
	if len(diags) != 0 {
		t.Fatalf("ParseSource() 诊断 = %v", diags)
	}
	return program
}

func TestProgram_Positions(t *testing.T) {
	program := parse(t, "fn add(a: Int, b: Int) -> Int {\n    return a + b;\n}")
	tree := Program(program)

	if tree["type"] != "Program" || tree["file"] != "dump.ace" {
		t.Fatalf("根节点 = %v", tree)
	}
	decls := tree["decls"].([]Tree)
	if len(decls) != 1 {
		t.Fatalf("decls 数量 = %d", len(decls))
	}
	fn := decls[0]
	if fn["type"] != "FunctionDecl" || fn["name"] != "add" {
		t.Fatalf("函数节点 = %v", fn)
	}
	if fn["lineno"] != 1 || fn["col_offset"] != 0 {
		t.Errorf("函数位置 = %v:%v, want 1:0", fn["lineno"], fn["col_offset"])
	}

	body := fn["body"].(Tree)["body"].([]Tree)
	ret := body[0]
	if ret["type"] != "ReturnStmt" {
		t.Fatalf("语句 = %v", ret["type"])
	}
	if ret["lineno"] != 2 || ret["col_offset"] != 4 {
		t.Errorf("return 位置 = %v:%v, want 2:4", ret["lineno"], ret["col_offset"])
	}
	bin := ret["value"].(Tree)
	if bin["type"] != "BinaryExpr" || bin["op"] != "+" {
		t.Errorf("表达式 = %v", bin)
	}
	if _, ok := bin["resolved_type"]; ok {
		t.Errorf("未检查的程序不应带 resolved_type")
	}
	if fn["return_type"].(Tree)["id"] != "Int" {
		t.Errorf("返回类型 = %v", fn["return_type"])
	}
}

func TestProgram_ResolvedTypes(t *testing.T) {
	program := parse(t, "fn f(x: Int32) -> Int { return x + 1; }")
	diags, err := semantic.NewSemanticAnalyzer(semantic.ResolverOptions{}).AnalyzeSemantics(context.Background(), program)
	if err != nil || analysis.HasErrors(diags) {
		t.Fatalf("AnalyzeSemantics() = %v, %v", diags, err)
	}

	fn := Program(program)["decls"].([]Tree)[0]
	ret := fn["body"].(Tree)["body"].([]Tree)[0]
	value := ret["value"].(Tree)
	if value["resolved_type"] == nil {
		t.Fatalf("返回值缺少 resolved_type: %v", value)
	}
	if value["resolved_type"] != "Int" {
		t.Errorf("resolved_type = %v, want Int", value["resolved_type"])
	}
}

func TestProgram_AllNodeKinds(t *testing.T) {
	src := `
struct P { x: Int, y: Int }
extern fn puts(s: *Int8) -> Int32;
let greeting = "hi";
var counter: Int = 0;

fn run(p: *P) {
    var i = 0;
    while (i < 10 && !false) {
        if (i == 3) { break; } else if (i == 4) { continue; }
        i = i + 1;
    }
    let q = P { x: 1, y: 2 };
    let r = &q;
    counter = r.x + (*p).y;
    puts(greeting);
    let f = i as Float;
    return;
}`
	tree := Program(parse(t, src))

	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case Tree:
			if kind, ok := v["type"].(string); ok {
				seen[kind] = true
			}
			for _, child := range v {
				walk(child)
			}
		case []Tree:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(tree)

	for _, kind := range []string{
		"StructDecl", "FieldDecl", "ExternDecl", "GlobalDecl", "FunctionDecl", "Param",
		"Block", "VarDecl", "WhileStmt", "IfStmt", "BreakStmt", "ContinueStmt",
		"ExprStmt", "ReturnStmt", "LogicalExpr", "UnaryExpr", "BinaryExpr",
		"AssignExpr", "CallExpr", "FieldExpr", "CastExpr", "StructLiteral",
		"Literal", "Identifier", "NamedType", "PointerType",
	} {
		if !seen[kind] {
			t.Errorf("缺少节点类型 %s", kind)
		}
	}
	if seen["Unknown"] {
		t.Errorf("出现未知节点")
	}

	if _, err := json.Marshal(tree); err != nil {
		t.Fatalf("json.Marshal() 错误 = %v", err)
	}
}

func TestProgram_Nil(t *testing.T) {
	if Program(nil) != nil {
		t.Error("Program(nil) 应返回 nil")
	}
}
