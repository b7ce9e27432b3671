package generation

import "fmt"

// InvariantError 代码生成器内部不变量被破坏，例如离开未终结的基本块
type InvariantError struct {
	Function string
	Block    string
	Message  string
}

// Error 实现error接口
func (e *InvariantError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("internal invariant violated in %s/%s: %s", e.Function, e.Block, e.Message)
	}
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Function, e.Message)
}

// RecoverInvariant 在defer中调用，把InvariantError形式的panic转成返回的错误。
// 其他panic原样抛出
func RecoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*err = ie
		return
	}
	panic(r)
}
