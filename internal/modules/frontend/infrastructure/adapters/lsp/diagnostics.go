// Package lsp 将分析诊断转换为 LSP publishDiagnostics 通知参数
package lsp

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"pkg.nimblebun.works/go-lsp"
)

// PathToURI 将文件路径转换为 file:// URI
func PathToURI(path string) lsp.DocumentURI {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return lsp.DocumentURI("file://" + filepath.ToSlash(path))
}

// URIToPath 将 file:// URI 转换回文件路径
func URIToPath(uri lsp.DocumentURI) string {
	return filepath.FromSlash(strings.TrimPrefix(string(uri), "file://"))
}

// ToPublishParams 转换一个文件的全部诊断。没有诊断时返回空列表，用于清除编辑器中的旧标记
func ToPublishParams(source analysis.SourceCode, diagnostics []analysis.Diagnostic) lsp.PublishDiagnosticsParams {
	out := make([]lsp.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, ToDiagnostic(source, d))
	}
	return lsp.PublishDiagnosticsParams{
		URI:         PathToURI(source.FilePath()),
		Diagnostics: out,
	}
}

// ToDiagnostic 转换单个诊断。LSP 的行列从0开始，列按 UTF-16 码元计，需要源码行来换算
func ToDiagnostic(source analysis.SourceCode, d analysis.Diagnostic) lsp.Diagnostic {
	return lsp.Diagnostic{
		Range:    spanToRange(source, d.Span()),
		Severity: severity(d.Type()),
		Message:  message(d),
	}
}

func spanToRange(source analysis.SourceCode, span analysis.Span) lsp.Range {
	start := position(source, span.Start)
	end := position(source, span.End)
	if end.Line < start.Line || (end.Line == start.Line && end.Character <= start.Character) {
		end = lsp.Position{Line: start.Line, Character: start.Character + 1}
	}
	return lsp.Range{Start: start, End: end}
}

func position(source analysis.SourceCode, p analysis.Position) lsp.Position {
	return lsp.Position{Line: max(p.Line()-1, 0), Character: utf16Column(source, p)}
}

// utf16Column 将按字符计的列换算为 UTF-16 偏移。行不可用或越过行尾的部分按每字符一个码元计
func utf16Column(source analysis.SourceCode, p analysis.Position) int {
	runes := max(p.Column()-1, 0)
	line, err := source.LineAt(p.Line())
	if err != nil {
		return runes
	}
	units := 0
	for _, r := range line {
		if runes == 0 {
			break
		}
		units += max(utf16.RuneLen(r), 1)
		runes--
	}
	return units + runes
}

func severity(t analysis.DiagnosticType) lsp.DiagnosticSeverity {
	switch t {
	case analysis.Error:
		return lsp.DSError
	case analysis.Warning:
		return lsp.DSWarning
	default:
		return lsp.DSInformation
	}
}

func message(d analysis.Diagnostic) string {
	msg := fmt.Sprintf("[%s] %s", d.Code(), d.Message())
	if d.Expected() != "" || d.Actual() != "" {
		msg += fmt.Sprintf(" (expected %s, found %s)", d.Expected(), d.Actual())
	}
	return msg
}
