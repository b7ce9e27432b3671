package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

var one = constant.NewInt(types.I64, 1)

// diamond 构造 entry -> left/right -> join 的函数
func diamond() (*ir.Module, *ir.Func, [4]*ir.Block) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.I64, ir.NewParam("c", types.I1))
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	join := f.NewBlock("join")
	entry.NewCondBr(f.Params[0], left, right)
	return m, f, [4]*ir.Block{entry, left, right, join}
}

func TestVerify_DominatingUseAccepted(t *testing.T) {
	m, _, b := diamond()
	sum := b[0].NewAdd(one, one)
	b[1].NewBr(b[3])
	b[2].NewBr(b[3])
	b[3].NewRet(sum)

	if err := NewIRVerifier().Verify(m); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}

func TestVerify_Violations(t *testing.T) {
	tests := []struct {
		name  string
		build func() *ir.Module
		want  string
	}{
		{
			name: "缺少终结指令",
			build: func() *ir.Module {
				m, _, b := diamond()
				b[1].NewBr(b[3])
				b[3].NewRet(one)
				return m
			},
			want: "block has no terminator",
		},
		{
			name: "定义不支配使用",
			build: func() *ir.Module {
				m, _, b := diamond()
				x := b[1].NewAdd(one, one)
				b[1].NewBr(b[3])
				b[2].NewBr(b[3])
				b[3].NewRet(x)
				return m
			},
			want: "terminator uses",
		},
		{
			name: "同一块内先使用后定义",
			build: func() *ir.Module {
				m := ir.NewModule()
				f := m.NewFunc("g", types.I64)
				entry := f.NewBlock("entry")
				a := ir.NewAdd(one, one)
				s := ir.NewMul(a, one)
				entry.Insts = []ir.Instruction{s, a}
				entry.NewRet(s)
				return m
			},
			want: "used before its definition",
		},
		{
			name: "phi操作数来自错误的前驱",
			build: func() *ir.Module {
				m, _, b := diamond()
				x := b[1].NewAdd(one, one)
				b[1].NewBr(b[3])
				b[2].NewBr(b[3])
				phi := b[3].NewPhi(ir.NewIncoming(one, b[1]), ir.NewIncoming(x, b[2]))
				b[3].NewRet(phi)
				return m
			},
			want: "phi operand",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewIRVerifier().Verify(tt.build())
			if err == nil {
				t.Fatal("期望错误，但没有错误")
			}
			var verifyErr *VerifyError
			if !errors.As(err, &verifyErr) {
				t.Fatalf("error %v is not a *VerifyError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestVerify_PhiFromDefiningPredecessor(t *testing.T) {
	m, _, b := diamond()
	x := b[1].NewAdd(one, one)
	b[1].NewBr(b[3])
	b[2].NewBr(b[3])
	phi := b[3].NewPhi(ir.NewIncoming(x, b[1]), ir.NewIncoming(one, b[2]))
	b[3].NewRet(phi)

	if err := NewIRVerifier().Verify(m); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}

func TestVerify_UnreachableBlocksAreNotChecked(t *testing.T) {
	m, f, b := diamond()
	x := b[1].NewAdd(one, one)
	b[1].NewRet(x)
	b[2].NewRet(one)
	b[3].NewRet(one)
	dead := f.NewBlock("dead")
	dead.NewRet(x)

	if err := NewIRVerifier().Verify(m); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}

func TestVerify_LoopBackEdge(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("loop", types.I64, ir.NewParam("n", types.I64))
	entry := f.NewBlock("entry")
	cond := f.NewBlock("cond")
	body := f.NewBlock("body")
	end := f.NewBlock("end")

	entry.NewBr(cond)
	i := cond.NewPhi(ir.NewIncoming(constant.NewInt(types.I64, 0), entry))
	cmp := cond.NewICmp(enum.IPredSLT, i, f.Params[0])
	cond.NewCondBr(cmp, body, end)
	next := body.NewAdd(i, one)
	i.Incs = append(i.Incs, ir.NewIncoming(next, body))
	body.NewBr(cond)
	end.NewRet(i)

	if err := NewIRVerifier().Verify(m); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}

func TestVerify_DeclarationsSkipped(t *testing.T) {
	m := ir.NewModule()
	m.NewFunc("puts", types.I32, ir.NewParam("s", types.I8Ptr))
	if err := NewIRVerifier().Verify(m); err != nil {
		t.Errorf("Verify() 错误 = %v", err)
	}
}
