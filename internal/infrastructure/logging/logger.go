// Package logging 提供带级别标签的日志记录器，输出格式为 "[LEVEL] message"
package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger 带级别标签的日志记录器。调试输出默认关闭
type Logger struct {
	out   *log.Logger
	debug atomic.Bool
}

// New 创建写入 w 的日志记录器
func New(w io.Writer, debug bool) *Logger {
	l := &Logger{out: log.New(w, "", log.LstdFlags)}
	l.debug.Store(debug)
	return l
}

// Default 创建写入标准错误的日志记录器
func Default() *Logger {
	return New(os.Stderr, false)
}

// Discard 创建丢弃所有输出的日志记录器，测试中使用
func Discard() *Logger {
	return New(io.Discard, false)
}

// SetDebug 打开或关闭调试输出
func (l *Logger) SetDebug(enabled bool) {
	l.debug.Store(enabled)
}

// DebugEnabled 调试输出是否打开
func (l *Logger) DebugEnabled() bool {
	return l.debug.Load()
}

// Debugf 调试日志
func (l *Logger) Debugf(format string, args ...any) {
	if l.debug.Load() {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}

// Infof 信息日志
func (l *Logger) Infof(format string, args ...any) {
	l.out.Printf("[INFO] "+format, args...)
}

// Warnf 警告日志
func (l *Logger) Warnf(format string, args ...any) {
	l.out.Printf("[WARN] "+format, args...)
}

// Errorf 错误日志
func (l *Logger) Errorf(format string, args ...any) {
	l.out.Printf("[ERROR] "+format, args...)
}
