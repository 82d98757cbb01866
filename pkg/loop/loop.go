// Package loop runs the fixed-period control cycle that steps every
// registered producer and then publishes the field state.
package loop

import (
	"sync"
	"time"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// PeriodicFunc is stepped once per cycle with the configured period as dt.
type PeriodicFunc func(dt time.Duration)

// CycleObserver receives the wall time each completed cycle took.
type CycleObserver func(elapsed time.Duration)

// Publisher is the end-of-cycle publish target.
type Publisher interface {
	Publish()
}

// Runner drives the periodic cycle: step producers, publish, observe.
type Runner struct {
	period    time.Duration
	publisher Publisher
	logger    customlog.Logger

	mu        sync.Mutex
	steps     []PeriodicFunc
	observers []CycleObserver
	running   bool
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewRunner creates a stopped runner with the given cycle period.
func NewRunner(period time.Duration, publisher Publisher, logger customlog.Logger) *Runner {
	if period <= 0 {
		period = 20 * time.Millisecond
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Runner{
		period:    period,
		publisher: publisher,
		logger:    logger,
	}
}

// AddStep registers a producer step. Steps run in registration order,
// before the publish. Must be called before Start.
func (r *Runner) AddStep(step PeriodicFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// AddObserver registers a cycle-time observer. Must be called before Start.
func (r *Runner) AddObserver(observer CycleObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// Period returns the configured cycle period.
func (r *Runner) Period() time.Duration {
	return r.period
}

// Start launches the cycle goroutine. Calling Start on a running runner
// is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.wg.Add(1)
	go r.run(r.stop)

	r.logger.Infof("Publish loop started with period %v", r.period)
}

// Stop halts the cycle goroutine and waits for the current cycle to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Infof("Publish loop stopped")
}

func (r *Runner) run(stop chan struct{}) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.runCycle()
		}
	}
}

func (r *Runner) runCycle() {
	started := time.Now()

	r.mu.Lock()
	steps := r.steps
	observers := r.observers
	r.mu.Unlock()

	for _, step := range steps {
		step(r.period)
	}
	if r.publisher != nil {
		r.publisher.Publish()
	}

	elapsed := time.Since(started)
	for _, observer := range observers {
		observer(elapsed)
	}
}
