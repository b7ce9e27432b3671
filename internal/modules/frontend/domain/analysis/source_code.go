package analysis

import (
	"fmt"
	"strings"
)

// SourceCode 表示一个编译单元的源代码，是不可变的值对象
type SourceCode struct {
	content  string
	filePath string
}

// NewSourceCode 创建新的SourceCode
func NewSourceCode(content, filePath string) SourceCode {
	return SourceCode{
		content:  content,
		filePath: filePath,
	}
}

// Content 返回源代码内容
func (sc SourceCode) Content() string {
	return sc.content
}

// FilePath 返回文件路径
func (sc SourceCode) FilePath() string {
	return sc.filePath
}

// Lines 返回按行分割的源代码
func (sc SourceCode) Lines() []string {
	return strings.Split(sc.content, "\n")
}

// LineAt 返回指定行的内容（1-based）
func (sc SourceCode) LineAt(lineNum int) (string, error) {
	lines := sc.Lines()
	if lineNum < 1 || lineNum > len(lines) {
		return "", fmt.Errorf("line number %d out of range [1, %d]", lineNum, len(lines))
	}
	return lines[lineNum-1], nil
}

// Text 返回Span覆盖的源码文本
func (sc SourceCode) Text(span Span) string {
	start, end := span.Start.Offset(), span.End.Offset()
	if start < 0 || end > len(sc.content) || start > end {
		return ""
	}
	return sc.content[start:end]
}

// Snippet 返回诊断位置所在行并在列下方标记插入符
func (sc SourceCode) Snippet(span Span) string {
	line, err := sc.LineAt(span.Start.Line())
	if err != nil {
		return ""
	}
	col := span.Start.Column()
	if col < 1 {
		col = 1
	}
	return line + "\n" + strings.Repeat(" ", col-1) + "^"
}

// IsEmpty 检查是否为空
func (sc SourceCode) IsEmpty() bool {
	return len(strings.TrimSpace(sc.content)) == 0
}

// String 返回SourceCode的字符串表示
func (sc SourceCode) String() string {
	return fmt.Sprintf("SourceCode{file=%s, size=%d}", sc.filePath, len(sc.content))
}
