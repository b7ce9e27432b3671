package generation

import (
	"github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services/generation"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/generation/impl"
)

// Container 代码生成领域服务容器
// 职责：组装一次模块生成所需的全部领域服务实现。生成器有状态，每个模块使用新容器
type Container struct {
	codeGenerator        generation.CodeGenerator
	statementGenerator   generation.StatementGenerator
	expressionEvaluator  generation.ExpressionEvaluator
	controlFlowGenerator generation.ControlFlowGenerator
	symbolManager        generation.SymbolManager
	typeMapper           generation.TypeMapper
	irModuleManager      generation.IRModuleManager
}

// NewContainer 创建代码生成服务容器
func NewContainer(options generation.GenerationOptions) *Container {
	// 创建基础设施层实现
	typeMapperImpl := impl.NewTypeMapperImpl()
	symbolManagerImpl := impl.NewSymbolManagerImpl()
	irModuleManagerImpl := impl.NewIRModuleManagerImpl()
	expressionEvaluatorImpl := impl.NewExpressionEvaluatorImpl(symbolManagerImpl, typeMapperImpl, irModuleManagerImpl)

	// 语句生成器和控制流生成器相互引用，先创建语句生成器再回填
	statementGeneratorImpl := impl.NewStatementGeneratorImpl(
		expressionEvaluatorImpl,
		nil,
		symbolManagerImpl,
		typeMapperImpl,
		irModuleManagerImpl,
	)
	controlFlowGeneratorImpl := impl.NewControlFlowGeneratorImpl(statementGeneratorImpl, expressionEvaluatorImpl, irModuleManagerImpl)
	statementGeneratorImpl.SetControlFlowGenerator(controlFlowGeneratorImpl)
	expressionEvaluatorImpl.SetControlFlowGenerator(controlFlowGeneratorImpl)

	codeGeneratorImpl := impl.NewCodeGeneratorImpl(
		options,
		irModuleManagerImpl,
		symbolManagerImpl,
		typeMapperImpl,
		expressionEvaluatorImpl,
		statementGeneratorImpl,
		controlFlowGeneratorImpl,
	)

	return &Container{
		codeGenerator:        codeGeneratorImpl,
		statementGenerator:   statementGeneratorImpl,
		expressionEvaluator:  expressionEvaluatorImpl,
		controlFlowGenerator: controlFlowGeneratorImpl,
		symbolManager:        symbolManagerImpl,
		typeMapper:           typeMapperImpl,
		irModuleManager:      irModuleManagerImpl,
	}
}

// CodeGenerator 获取代码生成器
func (c *Container) CodeGenerator() generation.CodeGenerator {
	return c.codeGenerator
}

// StatementGenerator 获取语句生成器
func (c *Container) StatementGenerator() generation.StatementGenerator {
	return c.statementGenerator
}

// ExpressionEvaluator 获取表达式求值器
func (c *Container) ExpressionEvaluator() generation.ExpressionEvaluator {
	return c.expressionEvaluator
}

// ControlFlowGenerator 获取控制流生成器
func (c *Container) ControlFlowGenerator() generation.ControlFlowGenerator {
	return c.controlFlowGenerator
}

// SymbolManager 获取符号管理器
func (c *Container) SymbolManager() generation.SymbolManager {
	return c.symbolManager
}

// TypeMapper 获取类型映射器
func (c *Container) TypeMapper() generation.TypeMapper {
	return c.typeMapper
}

// IRModuleManager 获取IR模块管理器
func (c *Container) IRModuleManager() generation.IRModuleManager {
	return c.irModuleManager
}
