package analysis

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// DiagnosticType 表示诊断信息的严重程度
type DiagnosticType int

const (
	Info DiagnosticType = iota
	Warning
	Error
)

// String 返回DiagnosticType的字符串表示
func (t DiagnosticType) String() string {
	switch t {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// DiagnosticKind 表示诊断来源的阶段
type DiagnosticKind int

const (
	LexError DiagnosticKind = iota
	SyntaxError
	ResolutionError
	TypeError
	InternalInvariantError
)

// String 返回DiagnosticKind的字符串表示
func (k DiagnosticKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case SyntaxError:
		return "SyntaxError"
	case ResolutionError:
		return "ResolutionError"
	case TypeError:
		return "TypeError"
	case InternalInvariantError:
		return "InternalInvariantError"
	default:
		return "UnknownError"
	}
}

// 诊断代码
const (
	CodeUnexpectedChar     = "L0001"
	CodeUnterminatedString = "L0002"
	CodeBadEscape          = "L0003"
	CodeMalformedNumber    = "L0004"
	CodeUnterminatedBlock  = "L0005"

	CodeUnexpectedToken = "P0001"
	CodeExpectedExpr    = "P0002"
	CodeExpectedType    = "P0003"
	CodeExpectedDecl    = "P0004"

	CodeUndeclared       = "R0001"
	CodeRedeclared       = "R0002"
	CodeShadowed         = "R0003"
	CodeUnknownType      = "R0004"
	CodeNotAType         = "R0005"
	CodeLoopControl      = "R0006"
	CodeDuplicateField   = "R0007"
	CodeNotAValue        = "R0008"
	CodeUndeclaredGlobal = "R0009"

	CodeTypeMismatch      = "T0001"
	CodeBadOperand        = "T0002"
	CodeNotCallable       = "T0003"
	CodeArgCount          = "T0004"
	CodeNotAssignable     = "T0005"
	CodeImmutable         = "T0006"
	CodeBadCondition      = "T0007"
	CodeBadReturn         = "T0008"
	CodeBadCast           = "T0009"
	CodeNoField           = "T0010"
	CodeMissingField      = "T0011"
	CodeNotAddressable    = "T0012"
	CodeNotPointer        = "T0013"
	CodeRecursiveStruct   = "T0014"
	CodeNonConstGlobal    = "T0015"
	CodeMissingInit       = "T0016"
	CodeMissingReturn     = "T0017"
	CodeUnreachable       = "T0018"
	CodeVoidValue         = "T0019"
	CodeNotStruct         = "T0020"
	CodeIntegerOutOfRange = "T0021"

	CodeInvariant = "I0001"
)

// Diagnostic 表示分析过程中的诊断信息，是不可变的值对象
type Diagnostic struct {
	type_    DiagnosticType // 严重程度
	kind     DiagnosticKind // 来源阶段
	message  string         // 诊断消息
	span     Span           // 位置区间
	code     string         // 诊断代码
	expected string         // 期望类型（类型错误）
	actual   string         // 实际类型（类型错误）
}

// NewDiagnostic 创建新的错误诊断
func NewDiagnostic(kind DiagnosticKind, code, message string, span Span) Diagnostic {
	return Diagnostic{
		type_:   Error,
		kind:    kind,
		message: message,
		span:    span,
		code:    code,
	}
}

// NewWarning 创建新的警告诊断
func NewWarning(kind DiagnosticKind, code, message string, span Span) Diagnostic {
	d := NewDiagnostic(kind, code, message, span)
	d.type_ = Warning
	return d
}

// NewTypeMismatch 创建带期望/实际类型的类型错误
func NewTypeMismatch(code, message string, span Span, expected, actual string) Diagnostic {
	d := NewDiagnostic(TypeError, code, message, span)
	d.expected = expected
	d.actual = actual
	return d
}

// Type 返回严重程度
func (d Diagnostic) Type() DiagnosticType {
	return d.type_
}

// Kind 返回来源阶段
func (d Diagnostic) Kind() DiagnosticKind {
	return d.kind
}

// Message 返回诊断消息
func (d Diagnostic) Message() string {
	return d.message
}

// Span 返回位置区间
func (d Diagnostic) Span() Span {
	return d.span
}

// Position 返回起始位置
func (d Diagnostic) Position() Position {
	return d.span.Start
}

// Code 返回诊断代码
func (d Diagnostic) Code() string {
	return d.code
}

// Expected 返回期望类型
func (d Diagnostic) Expected() string {
	return d.expected
}

// Actual 返回实际类型
func (d Diagnostic) Actual() string {
	return d.actual
}

// IsError 检查是否为错误
func (d Diagnostic) IsError() bool {
	return d.type_ == Error
}

// IsWarning 检查是否为警告
func (d Diagnostic) IsWarning() bool {
	return d.type_ == Warning
}

// Promote 将警告提升为错误
func (d Diagnostic) Promote() Diagnostic {
	if d.type_ == Warning {
		d.type_ = Error
	}
	return d
}

// String 返回Diagnostic的字符串表示
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s at %s", d.type_, d.code, d.kind, d.message, d.span.Start)
	if d.expected != "" || d.actual != "" {
		fmt.Fprintf(&b, " (expected %s, found %s)", d.expected, d.actual)
	}
	return b.String()
}

// HasErrors 检查诊断列表中是否有错误
func HasErrors(diagnostics []Diagnostic) bool {
	return slices.ContainsFunc(diagnostics, Diagnostic.IsError)
}

// CountErrors 统计错误数量
func CountErrors(diagnostics []Diagnostic) int {
	n := 0
	for _, d := range diagnostics {
		if d.IsError() {
			n++
		}
	}
	return n
}

// SortDiagnostics 按位置稳定排序诊断
func SortDiagnostics(diagnostics []Diagnostic) {
	slices.SortStableFunc(diagnostics, func(a, b Diagnostic) int {
		pa, pb := a.span.Start, b.span.Start
		switch {
		case pa.IsBefore(pb):
			return -1
		case pb.IsBefore(pa):
			return 1
		default:
			return 0
		}
	})
}
