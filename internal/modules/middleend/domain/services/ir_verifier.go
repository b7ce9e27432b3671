package services

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// VerifyError 模块中的一个结构问题
type VerifyError struct {
	Function string
	Block    string
	Message  string
}

// Error 实现error接口
func (e *VerifyError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("@%s: %s", e.Function, e.Message)
	}
	return fmt.Sprintf("@%s/%%%s: %s", e.Function, e.Block, e.Message)
}

// DominanceVerifier 检查终结指令和支配关系下的先定义后使用
type DominanceVerifier struct{}

// NewIRVerifier 创建IR验证器
func NewIRVerifier() IRVerifier {
	return DominanceVerifier{}
}

// Verify 验证模块中所有已定义的函数。
// 不可达块视为被所有块支配，其中的使用不检查
func (DominanceVerifier) Verify(m *ir.Module) error {
	var errs []error
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		errs = append(errs, verifyFunc(f)...)
	}
	return errors.Join(errs...)
}

// operandUser 有操作数的指令
type operandUser interface {
	Operands() []*value.Value
}

// defSite 局部值的定义位置，index 为块内序号，终结指令的序号等于指令数
type defSite struct {
	block *ir.Block
	index int
}

func verifyFunc(f *ir.Func) []error {
	var errs []error
	report := func(b *ir.Block, format string, args ...any) {
		errs = append(errs, &VerifyError{Function: f.Name(), Block: b.Name(), Message: fmt.Sprintf(format, args...)})
	}

	for _, b := range f.Blocks {
		if b.Term == nil {
			report(b, "block has no terminator")
		}
	}
	if len(errs) > 0 {
		return errs
	}

	dom := newDominators(f)
	defs := make(map[value.Value]defSite)
	for _, b := range f.Blocks {
		for i, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				defs[v] = defSite{block: b, index: i}
			}
		}
	}

	// usable 检查定义是否在 (block, index) 之前可用
	usable := func(def defSite, block *ir.Block, index int) bool {
		if def.block == block {
			return def.index < index
		}
		return dom.dominates(def.block, block)
	}

	for _, b := range f.Blocks {
		if !dom.reachable(b) {
			continue
		}
		for i, inst := range b.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				for _, inc := range phi.Incs {
					pred, _ := any(inc.Pred).(*ir.Block)
					def, isLocal := defs[inc.X]
					if !isLocal || pred == nil || !dom.reachable(pred) {
						continue
					}
					// phi 的操作数在前驱块末尾使用
					if !usable(def, pred, len(pred.Insts)+1) {
						report(b, "phi operand %s does not dominate the end of %%%s", inc.X.Ident(), pred.Name())
					}
				}
				continue
			}
			if user, ok := inst.(operandUser); ok {
				for _, op := range user.Operands() {
					if def, isLocal := defs[*op]; isLocal && !usable(def, b, i) {
						report(b, "%s is used before its definition dominates it", (*op).Ident())
					}
				}
			}
		}
		if user, ok := b.Term.(operandUser); ok {
			for _, op := range user.Operands() {
				if def, isLocal := defs[*op]; isLocal && !usable(def, b, len(b.Insts)) {
					report(b, "terminator uses %s before its definition dominates it", (*op).Ident())
				}
			}
		}
	}
	return errs
}

// dominators 入口块可达部分的直接支配树
type dominators struct {
	entry *ir.Block
	idom  map[*ir.Block]*ir.Block
	order map[*ir.Block]int // 逆后序编号
}

func newDominators(f *ir.Func) *dominators {
	entry := f.Blocks[0]

	// 后序遍历
	var post []*ir.Block
	seen := map[*ir.Block]bool{entry: true}
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		for _, s := range b.Term.Succs() {
			if !seen[s] {
				seen[s] = true
				walk(s)
			}
		}
		post = append(post, b)
	}
	walk(entry)

	rpo := make([]*ir.Block, len(post))
	order := make(map[*ir.Block]int, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	for i, b := range rpo {
		order[b] = i
	}

	preds := make(map[*ir.Block][]*ir.Block)
	for _, b := range rpo {
		for _, s := range b.Term.Succs() {
			preds[s] = append(preds[s], b)
		}
	}

	d := &dominators{entry: entry, idom: map[*ir.Block]*ir.Block{entry: entry}, order: order}
	intersect := func(a, b *ir.Block) *ir.Block {
		for a != b {
			for order[a] > order[b] {
				a = d.idom[a]
			}
			for order[b] > order[a] {
				b = d.idom[b]
			}
		}
		return a
	}
	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var next *ir.Block
			for _, p := range preds[b] {
				if d.idom[p] == nil {
					continue
				}
				if next == nil {
					next = p
				} else {
					next = intersect(p, next)
				}
			}
			if d.idom[b] != next {
				d.idom[b] = next
				changed = true
			}
		}
	}
	return d
}

func (d *dominators) reachable(b *ir.Block) bool {
	_, ok := d.order[b]
	return ok
}

// dominates a 是否支配 b。不可达的 b 被所有块支配
func (d *dominators) dominates(a, b *ir.Block) bool {
	if !d.reachable(b) {
		return true
	}
	if !d.reachable(a) {
		return false
	}
	for {
		if b == a {
			return true
		}
		if b == d.entry {
			return false
		}
		b = d.idom[b]
	}
}
