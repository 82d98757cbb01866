package diagnostic

import (
	"testing"
	"time"
)

func TestRecordCycleTracksExtremes(t *testing.T) {
	service := NewDiagnosticService("test-bot", 20*time.Millisecond)

	service.RecordCycle(5 * time.Millisecond)
	service.RecordCycle(15 * time.Millisecond)
	service.RecordCycle(25 * time.Millisecond) // overrun

	metrics := service.GetMetrics()
	if metrics.CycleCount != 3 {
		t.Errorf("Expected 3 cycles, got %d", metrics.CycleCount)
	}
	if metrics.LastCycle != 25*time.Millisecond {
		t.Errorf("Expected last cycle 25ms, got %v", metrics.LastCycle)
	}
	if metrics.MaxCycle != 25*time.Millisecond {
		t.Errorf("Expected max cycle 25ms, got %v", metrics.MaxCycle)
	}
	if metrics.AverageCycle != 15*time.Millisecond {
		t.Errorf("Expected average cycle 15ms, got %v", metrics.AverageCycle)
	}
	if metrics.Overruns != 1 {
		t.Errorf("Expected 1 overrun, got %d", metrics.Overruns)
	}
}

func TestZeroPeriodNeverCountsOverruns(t *testing.T) {
	service := NewDiagnosticService("test-bot", 0)

	service.RecordCycle(time.Second)

	if got := service.GetMetrics().Overruns; got != 0 {
		t.Errorf("Expected no overruns with unset period, got %d", got)
	}
}
