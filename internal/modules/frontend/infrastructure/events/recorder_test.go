package events

import (
	"context"
	"sync"
	"testing"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
)

func TestRecorder_ConcurrentPublish(t *testing.T) {
	r := NewRecorder(nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Publish(context.Background(), events.NewUnitCompiled("u", "a.ace", true))
		}()
	}
	wg.Wait()

	if got := len(r.Events()); got != 32 {
		t.Errorf("记录的事件数 = %d, 期望 32", got)
	}
	r.Reset()
	if len(r.Events()) != 0 {
		t.Error("Reset() did not clear events")
	}
}

func TestRecorder_PhaseCompleted(t *testing.T) {
	r := NewRecorder(nil)
	diags := []analysis.Diagnostic{
		analysis.NewDiagnostic(analysis.TypeError, analysis.CodeTypeMismatch, "bad", analysis.Span{}),
		analysis.NewWarning(analysis.TypeError, analysis.CodeUnreachable, "dead", analysis.Span{}),
		analysis.NewWarning(analysis.ResolutionError, analysis.CodeShadowed, "shadow", analysis.Span{}),
	}
	if err := r.Publish(context.Background(), events.NewPhaseCompleted("u1", "a.ace", events.PhaseSemantic, diags, 0)); err != nil {
		t.Fatalf("Publish() 错误 = %v", err)
	}

	got := r.Events()
	pc, ok := got[0].(events.PhaseCompleted)
	if !ok {
		t.Fatalf("event = %T", got[0])
	}
	if pc.ErrorCount != 1 || pc.WarningCount != 2 || pc.Phase != events.PhaseSemantic {
		t.Errorf("event = %+v", pc)
	}
	if pc.EventID == "" || pc.GetEventType() != "compiler.phase.completed" {
		t.Errorf("event identity = %q %q", pc.EventID, pc.GetEventType())
	}
}

func TestRecorder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRecorder(nil)
	if err := r.Publish(ctx, events.NewUnitCompiled("u", "a.ace", false)); err == nil {
		t.Error("Publish() should fail on a canceled context")
	}
	if len(r.Events()) != 0 {
		t.Error("event recorded despite cancellation")
	}
}
