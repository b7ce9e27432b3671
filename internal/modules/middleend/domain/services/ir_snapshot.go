package services

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// ModuleSnapshot 模块的结构化视图，用于比较和导出
type ModuleSnapshot struct {
	SourceFilename string             `json:"source_filename,omitempty"`
	TargetTriple   string             `json:"target_triple,omitempty"`
	TypeDefs       []TypeDefSnapshot  `json:"type_defs,omitempty"`
	Globals        []GlobalSnapshot   `json:"globals,omitempty"`
	Functions      []FunctionSnapshot `json:"functions"`
}

// TypeDefSnapshot 命名类型定义
type TypeDefSnapshot struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// GlobalSnapshot 全局变量
type GlobalSnapshot struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Init      string `json:"init,omitempty"`
	Immutable bool   `json:"immutable"`
	Linkage   string `json:"linkage,omitempty"`
}

// FunctionSnapshot 函数，Blocks 为空表示外部声明
type FunctionSnapshot struct {
	Name      string          `json:"name"`
	Signature string          `json:"signature"`
	Params    []string        `json:"params"`
	Blocks    []BlockSnapshot `json:"blocks,omitempty"`
}

// BlockSnapshot 基本块，指令按文本形式记录
type BlockSnapshot struct {
	Name         string   `json:"name"`
	Instructions []string `json:"instructions"`
	Terminator   string   `json:"terminator"`
}

// Snapshot 生成模块快照。会为未命名的局部值分配编号
func Snapshot(m *ir.Module) (ModuleSnapshot, error) {
	snap := ModuleSnapshot{
		SourceFilename: m.SourceFilename,
		TargetTriple:   m.TargetTriple,
		Functions:      make([]FunctionSnapshot, 0, len(m.Funcs)),
	}
	for _, t := range m.TypeDefs {
		snap.TypeDefs = append(snap.TypeDefs, TypeDefSnapshot{Name: t.Name(), Body: t.LLString()})
	}
	for _, g := range m.Globals {
		gs := GlobalSnapshot{
			Name:      g.Name(),
			Type:      g.ContentType.String(),
			Immutable: g.Immutable,
		}
		if g.Init != nil {
			gs.Init = g.Init.Ident()
		}
		if g.Linkage != 0 {
			gs.Linkage = g.Linkage.String()
		}
		snap.Globals = append(snap.Globals, gs)
	}
	for _, f := range m.Funcs {
		fs, err := snapshotFunc(f)
		if err != nil {
			return ModuleSnapshot{}, err
		}
		snap.Functions = append(snap.Functions, fs)
	}
	return snap, nil
}

func snapshotFunc(f *ir.Func) (FunctionSnapshot, error) {
	fs := FunctionSnapshot{
		Name:      f.Name(),
		Signature: f.Sig.LLString(),
		Params:    make([]string, len(f.Params)),
	}
	for i, p := range f.Params {
		fs.Params[i] = p.Name()
	}
	if len(f.Blocks) == 0 {
		return fs, nil
	}
	if err := f.AssignIDs(); err != nil {
		return FunctionSnapshot{}, fmt.Errorf("function @%s: %w", f.Name(), err)
	}
	for _, b := range f.Blocks {
		bs := BlockSnapshot{Name: b.Name(), Instructions: make([]string, len(b.Insts))}
		for i, inst := range b.Insts {
			bs.Instructions[i] = inst.LLString()
		}
		if b.Term != nil {
			bs.Terminator = b.Term.LLString()
		}
		fs.Blocks = append(fs.Blocks, bs)
	}
	return fs, nil
}

// Equal 比较两个快照
func (s ModuleSnapshot) Equal(other ModuleSnapshot) bool {
	return s.Diff(other) == ""
}

// Diff 返回第一处差异的描述，相同时返回空串
func (s ModuleSnapshot) Diff(other ModuleSnapshot) string {
	if s.TargetTriple != other.TargetTriple {
		return fmt.Sprintf("target triple %q != %q", s.TargetTriple, other.TargetTriple)
	}
	if len(s.TypeDefs) != len(other.TypeDefs) {
		return fmt.Sprintf("%d type definitions != %d", len(s.TypeDefs), len(other.TypeDefs))
	}
	for i := range s.TypeDefs {
		if s.TypeDefs[i] != other.TypeDefs[i] {
			return fmt.Sprintf("type %s: %q != %q", s.TypeDefs[i].Name, s.TypeDefs[i].Body, other.TypeDefs[i].Body)
		}
	}
	if len(s.Globals) != len(other.Globals) {
		return fmt.Sprintf("%d globals != %d", len(s.Globals), len(other.Globals))
	}
	for i := range s.Globals {
		if s.Globals[i] != other.Globals[i] {
			return fmt.Sprintf("global @%s: %+v != %+v", s.Globals[i].Name, s.Globals[i], other.Globals[i])
		}
	}
	if len(s.Functions) != len(other.Functions) {
		return fmt.Sprintf("%d functions != %d", len(s.Functions), len(other.Functions))
	}
	for i := range s.Functions {
		if d := s.Functions[i].diff(other.Functions[i]); d != "" {
			return fmt.Sprintf("function @%s: %s", s.Functions[i].Name, d)
		}
	}
	return ""
}

func (f FunctionSnapshot) diff(other FunctionSnapshot) string {
	if f.Name != other.Name || f.Signature != other.Signature {
		return fmt.Sprintf("signature %s %s != %s %s", f.Name, f.Signature, other.Name, other.Signature)
	}
	if fmt.Sprint(f.Params) != fmt.Sprint(other.Params) {
		return fmt.Sprintf("params %v != %v", f.Params, other.Params)
	}
	if len(f.Blocks) != len(other.Blocks) {
		return fmt.Sprintf("%d blocks != %d", len(f.Blocks), len(other.Blocks))
	}
	for i, b := range f.Blocks {
		o := other.Blocks[i]
		if b.Name != o.Name {
			return fmt.Sprintf("block %d named %s != %s", i, b.Name, o.Name)
		}
		if len(b.Instructions) != len(o.Instructions) {
			return fmt.Sprintf("block %s: %d instructions != %d", b.Name, len(b.Instructions), len(o.Instructions))
		}
		for j := range b.Instructions {
			if b.Instructions[j] != o.Instructions[j] {
				return fmt.Sprintf("block %s: %q != %q", b.Name, b.Instructions[j], o.Instructions[j])
			}
		}
		if b.Terminator != o.Terminator {
			return fmt.Sprintf("block %s terminator: %q != %q", b.Name, b.Terminator, o.Terminator)
		}
	}
	return ""
}
