package impl

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// CodeGeneratorImpl 代码生成器实现，一个实例只生成一个模块
type CodeGeneratorImpl struct {
	options              generation.GenerationOptions
	irManager            generation.IRModuleManager
	symbolManager        generation.SymbolManager
	typeMapper           generation.TypeMapper
	expressionEvaluator  generation.ExpressionEvaluator
	statementGenerator   generation.StatementGenerator
	controlFlowGenerator generation.ControlFlowGenerator
}

// NewCodeGeneratorImpl 创建代码生成器实现
func NewCodeGeneratorImpl(
	options generation.GenerationOptions,
	irManager generation.IRModuleManager,
	symbolManager generation.SymbolManager,
	typeMapper generation.TypeMapper,
	expressionEvaluator generation.ExpressionEvaluator,
	statementGenerator generation.StatementGenerator,
	controlFlowGenerator generation.ControlFlowGenerator,
) *CodeGeneratorImpl {
	return &CodeGeneratorImpl{
		options:              options,
		irManager:            irManager,
		symbolManager:        symbolManager,
		typeMapper:           typeMapper,
		expressionEvaluator:  expressionEvaluator,
		statementGenerator:   statementGenerator,
		controlFlowGenerator: controlFlowGenerator,
	}
}

// GenerateProgram 生成完整程序。程序必须已经通过名字解析和类型检查且没有错误
func (cg *CodeGeneratorImpl) GenerateProgram(program *analysis.Program) (module *ir.Module, err error) {
	defer generation.RecoverInvariant(&err)

	m := cg.irManager.Module()
	m.TargetTriple = cg.options.TargetTriple
	m.SourceFilename = cg.options.SourceFilename
	if m.SourceFilename == "" {
		m.SourceFilename = program.File
	}

	if err := cg.declareStructs(program); err != nil {
		return nil, err
	}
	for _, decl := range program.Decls {
		if g, ok := decl.(*analysis.GlobalDecl); ok {
			if err := cg.defineGlobal(g); err != nil {
				return nil, err
			}
		}
	}
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *analysis.FunctionDecl:
			err = cg.declareFunction(d.Name, d.Symbol, d.Params)
		case *analysis.ExternDecl:
			err = cg.declareFunction(d.Name, d.Symbol, d.Params)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, fn := range program.Functions() {
		if err := cg.statementGenerator.GenerateFunction(fn); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// declareStructs 先为所有结构体建立命名类型，再填写字段，允许通过指针相互引用
func (cg *CodeGeneratorImpl) declareStructs(program *analysis.Program) error {
	var decls []*analysis.StructDecl
	for _, decl := range program.Decls {
		if d, ok := decl.(*analysis.StructDecl); ok {
			cg.typeMapper.RegisterStruct(d.Name, cg.irManager.DefineStruct(d.Name))
			decls = append(decls, d)
		}
	}
	for _, d := range decls {
		st, ok := d.Symbol.Type.(*vo.StructType)
		if !ok {
			return fmt.Errorf("struct %s has no checked type", d.Name)
		}
		mapped, err := cg.typeMapper.MapType(st)
		if err != nil {
			return err
		}
		def := mapped.(*types.StructType)
		def.Fields = make([]types.Type, len(st.Fields))
		for i, f := range st.Fields {
			if def.Fields[i], err = cg.typeMapper.MapType(f.Type); err != nil {
				return fmt.Errorf("struct %s field %s: %w", d.Name, f.Name, err)
			}
		}
	}
	return nil
}

func (cg *CodeGeneratorImpl) defineGlobal(d *analysis.GlobalDecl) error {
	typ, err := cg.typeMapper.MapType(d.Symbol.Type)
	if err != nil {
		return fmt.Errorf("global %s: %w", d.Name, err)
	}
	init, err := cg.expressionEvaluator.EvaluateConstant(d.Init, d.Symbol.Type)
	if err != nil {
		return fmt.Errorf("global %s: %w", d.Name, err)
	}
	g := cg.irManager.AddGlobal(d.Name, init, !d.Mutable)
	cg.symbolManager.BindAddress(d.Symbol, g, typ)
	return nil
}

// declareFunction 声明函数签名。没有函数体的即为外部声明
func (cg *CodeGeneratorImpl) declareFunction(name string, sym *analysis.Symbol, params []*analysis.Param) error {
	ft, ok := sym.Type.(*vo.FunctionType)
	if !ok {
		return fmt.Errorf("function %s has no checked signature", name)
	}
	ret, paramTypes, err := cg.typeMapper.MapFunctionType(ft)
	if err != nil {
		return fmt.Errorf("function %s: %w", name, err)
	}
	irParams := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		irParams[i] = ir.NewParam(params[i].Name, pt)
	}
	cg.symbolManager.BindFunction(sym, cg.irManager.CreateFunction(name, ret, irParams...))
	return nil
}

// GetStatementGenerator 获取语句生成器
func (cg *CodeGeneratorImpl) GetStatementGenerator() generation.StatementGenerator {
	return cg.statementGenerator
}

// GetExpressionEvaluator 获取表达式求值器
func (cg *CodeGeneratorImpl) GetExpressionEvaluator() generation.ExpressionEvaluator {
	return cg.expressionEvaluator
}

// GetControlFlowGenerator 获取控制流生成器
func (cg *CodeGeneratorImpl) GetControlFlowGenerator() generation.ControlFlowGenerator {
	return cg.controlFlowGenerator
}

// GetSymbolManager 获取符号管理器
func (cg *CodeGeneratorImpl) GetSymbolManager() generation.SymbolManager {
	return cg.symbolManager
}

// GetTypeMapper 获取类型映射器
func (cg *CodeGeneratorImpl) GetTypeMapper() generation.TypeMapper {
	return cg.typeMapper
}

var _ generation.CodeGenerator = (*CodeGeneratorImpl)(nil)
