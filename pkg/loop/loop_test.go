package loop

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingPublisher struct {
	count atomic.Int64
}

func (p *countingPublisher) Publish() {
	p.count.Add(1)
}

func TestRunnerStepsThenPublishes(t *testing.T) {
	publisher := &countingPublisher{}
	runner := NewRunner(5*time.Millisecond, publisher, nil)

	var steps atomic.Int64
	runner.AddStep(func(dt time.Duration) {
		if dt != 5*time.Millisecond {
			t.Errorf("Expected dt 5ms, got %v", dt)
		}
		steps.Add(1)
	})

	var observed atomic.Int64
	runner.AddObserver(func(time.Duration) {
		observed.Add(1)
	})

	runner.Start()
	time.Sleep(50 * time.Millisecond)
	runner.Stop()

	if steps.Load() == 0 {
		t.Error("Expected at least one producer step")
	}
	if publisher.count.Load() == 0 {
		t.Error("Expected at least one publish")
	}
	if steps.Load() != publisher.count.Load() {
		t.Errorf("Steps (%d) and publishes (%d) should match one-to-one",
			steps.Load(), publisher.count.Load())
	}
	if observed.Load() != publisher.count.Load() {
		t.Errorf("Observers (%d) and publishes (%d) should match one-to-one",
			observed.Load(), publisher.count.Load())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	runner := NewRunner(5*time.Millisecond, &countingPublisher{}, nil)
	runner.Start()
	runner.Stop()
	runner.Stop()

	// Restart after stop works.
	runner.Start()
	runner.Stop()
}

func TestDefaultPeriod(t *testing.T) {
	runner := NewRunner(0, nil, nil)
	if runner.Period() != 20*time.Millisecond {
		t.Errorf("Expected default period 20ms, got %v", runner.Period())
	}
}
