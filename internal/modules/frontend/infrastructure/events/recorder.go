// Package events 提供领域事件发布者的实现
package events

import (
	"context"
	"sync"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
)

// Recorder 内存事件记录器，可被多个编译单元并发使用
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
	logger *logging.Logger
}

// NewRecorder 创建事件记录器
func NewRecorder(logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{logger: logger}
}

// Publish 记录事件
func (r *Recorder) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	if pc, ok := event.(events.PhaseCompleted); ok {
		r.logger.Debugf("%s: %s finished in %s (%d errors, %d warnings)", pc.File, pc.Phase, pc.Duration, pc.ErrorCount, pc.WarningCount)
	}
	return nil
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

var _ events.EventPublisher = (*Recorder)(nil)
