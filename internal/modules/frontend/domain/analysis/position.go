package analysis

import "fmt"

// Position 表示源码中的位置信息，是不可变的值对象
type Position struct {
	line   int    // 行号（1-based）
	column int    // 列号（1-based，按字符计）
	offset int    // 字节偏移（0-based）
	file   string // 文件名
}

// NewPosition 创建新的Position
func NewPosition(line, column, offset int, file string) Position {
	return Position{
		line:   line,
		column: column,
		offset: offset,
		file:   file,
	}
}

// Line 返回行号
func (p Position) Line() int {
	return p.line
}

// Column 返回列号
func (p Position) Column() int {
	return p.column
}

// Offset 返回字节偏移
func (p Position) Offset() int {
	return p.offset
}

// File 返回文件名
func (p Position) File() string {
	return p.file
}

// String 返回Position的字符串表示
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.file, p.line, p.column)
}

// IsBefore 检查当前位置是否在另一个位置之前
func (p Position) IsBefore(other Position) bool {
	if p.file != other.file {
		return p.file < other.file
	}
	if p.line != other.line {
		return p.line < other.line
	}
	return p.column < other.column
}

// Equals 检查两个Position是否相等
func (p Position) Equals(other Position) bool {
	return p.line == other.line &&
		p.column == other.column &&
		p.file == other.file
}

// Span 表示源码中的半开区间 [Start, End)
type Span struct {
	Start Position
	End   Position
}

// NewSpan 创建新的Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// To 返回从s开始到other结束的Span
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// String 返回Span的字符串表示
func (s Span) String() string {
	return s.Start.String()
}

// IsZero 检查Span是否未设置
func (s Span) IsZero() bool {
	return s.Start.line == 0 && s.End.line == 0
}
