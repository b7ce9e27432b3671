// Package events 定义编译过程中的领域事件
package events

import (
	"context"
	"time"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"

	"github.com/google/uuid"
)

// 编译阶段
const (
	PhaseParse    = "parse"
	PhaseSemantic = "semantic"
	PhaseLower    = "lower"
	PhaseVerify   = "verify"
)

// Event 领域事件接口
type Event interface {
	GetEventType() string
	GetEventVersion() string
	GetTimestamp() time.Time
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// PhaseCompleted 编译阶段完成事件
type PhaseCompleted struct {
	EventID      string
	UnitID       string
	File         string
	Phase        string
	ErrorCount   int
	WarningCount int
	Duration     time.Duration
	Timestamp    time.Time
}

// NewPhaseCompleted 根据阶段产生的诊断创建事件
func NewPhaseCompleted(unitID, file, phase string, diagnostics []analysis.Diagnostic, duration time.Duration) PhaseCompleted {
	errs := analysis.CountErrors(diagnostics)
	return PhaseCompleted{
		EventID:      uuid.NewString(),
		UnitID:       unitID,
		File:         file,
		Phase:        phase,
		ErrorCount:   errs,
		WarningCount: len(diagnostics) - errs,
		Duration:     duration,
		Timestamp:    time.Now(),
	}
}

func (e PhaseCompleted) GetEventType() string    { return "compiler.phase.completed" }
func (e PhaseCompleted) GetEventVersion() string { return "1.0" }
func (e PhaseCompleted) GetTimestamp() time.Time { return e.Timestamp }

// UnitCompiled 编译单元处理结束事件
type UnitCompiled struct {
	EventID   string
	UnitID    string
	File      string
	Success   bool
	Timestamp time.Time
}

// NewUnitCompiled 创建编译单元结束事件
func NewUnitCompiled(unitID, file string, success bool) UnitCompiled {
	return UnitCompiled{
		EventID:   uuid.NewString(),
		UnitID:    unitID,
		File:      file,
		Success:   success,
		Timestamp: time.Now(),
	}
}

func (e UnitCompiled) GetEventType() string    { return "compiler.unit.compiled" }
func (e UnitCompiled) GetEventVersion() string { return "1.0" }
func (e UnitCompiled) GetTimestamp() time.Time { return e.Timestamp }
