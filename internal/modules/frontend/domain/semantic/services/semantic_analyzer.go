// Package services 定义语义分析的领域服务
package services

import (
	"context"
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
)

// SemanticAnalyzer 语义分析服务：名字解析之后进行类型检查
type SemanticAnalyzer struct {
	resolver *SymbolResolver
	checker  *TypeChecker
}

// NewSemanticAnalyzer 创建新的语义分析器
func NewSemanticAnalyzer(options ResolverOptions) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		resolver: NewSymbolResolver(options),
		checker:  NewTypeChecker(),
	}
}

// AnalyzeSemantics 解析并检查AST。名字解析错误不会阻止类型检查，
// 取消只在两个阶段之间检查
func (sa *SemanticAnalyzer) AnalyzeSemantics(ctx context.Context, program *analysis.Program) ([]analysis.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("name resolution canceled: %w", err)
	}
	diagnostics := sa.resolver.Resolve(program)

	if err := ctx.Err(); err != nil {
		return diagnostics, fmt.Errorf("type checking canceled: %w", err)
	}
	diagnostics = append(diagnostics, sa.checker.Check(program)...)
	return diagnostics, nil
}
