package services

import (
	"fmt"
	"strings"

	"github.com/llir/ll"
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

// IRParseError IR文本无法读取
type IRParseError struct {
	Path string
	Err  error
}

// Error 实现error接口
func (e *IRParseError) Error() string {
	return fmt.Sprintf("%s: invalid IR: %v", e.Path, e.Err)
}

// Unwrap 返回底层错误
func (e *IRParseError) Unwrap() error {
	return e.Err
}

// LLIRReader 基于 llir/llvm/asm 的IR读取器
type LLIRReader struct{}

// NewIRReader 创建IR读取器
func NewIRReader() IRReader {
	return LLIRReader{}
}

// ParseIR 解析IR文本。不做部分恢复：语法错误和结构错误都返回单个 *IRParseError
func (LLIRReader) ParseIR(path, text string) (*ir.Module, error) {
	if path == "" {
		path = "<input>"
	}
	if err := lexCheck(text); err != nil {
		return nil, &IRParseError{Path: path, Err: err}
	}
	m, err := asm.ParseString(path, text)
	if err != nil {
		return nil, &IRParseError{Path: path, Err: err}
	}
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				return nil, &IRParseError{Path: path, Err: fmt.Errorf("function @%s: block %%%s has no terminator", f.Name(), b.Name())}
			}
		}
	}
	return m, nil
}

// lexCheck 拒绝无法识别的词法单元。asm 的语法分析器会静默跳过它们
func lexCheck(text string) error {
	var l ll.Lexer
	l.Init(text)
	for tok := l.Next(); tok != ll.EOI; tok = l.Next() {
		if tok != ll.INVALID_TOKEN {
			continue
		}
		start, _ := l.Pos()
		word := text[start:]
		if i := strings.IndexAny(word, " \t\r\n"); i >= 0 {
			word = word[:i]
		}
		return fmt.Errorf("line %d: unexpected %q", l.Line(), word)
	}
	return nil
}
