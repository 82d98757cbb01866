package telemetry

import (
	"sync"
	"time"

	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// Ensure RecordDirector satisfies the registry's record sink.
var _ field.Recorder = (*RecordDirector)(nil)

// RecordSink consumes encoded PoseRecord payloads. Implementations must be
// cheap or internally buffered; the director's worker calls them in sequence.
type RecordSink interface {
	Name() string
	WriteRecord(path string, payload []byte) error
}

type encodedRecord struct {
	path    string
	payload []byte
}

// RecordDirector is the structured-record side of the telemetry projection.
// It encodes each record once and fans it out to every registered sink
// through a buffered queue, so a slow sink costs the control loop nothing:
// when the queue backs up, records are dropped and counted, never blocked on.
type RecordDirector struct {
	logger customlog.Logger
	stats  *ChannelStats

	queue chan encodedRecord

	mu      sync.Mutex
	sinks   []RecordSink
	running bool
	dropped int64
	wg      sync.WaitGroup
}

// NewRecordDirector creates a director with the given queue depth.
func NewRecordDirector(queueSize int, stats *ChannelStats, logger customlog.Logger) *RecordDirector {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	if queueSize <= 0 {
		queueSize = 128
	}
	return &RecordDirector{
		logger: logger,
		stats:  stats,
		queue:  make(chan encodedRecord, queueSize),
	}
}

// RegisterSink adds a sink. Must be called before Start.
func (d *RecordDirector) RegisterSink(sink RecordSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
	d.logger.Infof("Registered record sink: %s", sink.Name())
}

// RecordPoses implements field.Recorder for per-type 3D pose channels.
func (d *RecordDirector) RecordPoses(path string, poses []geometry.Pose3D) {
	if d.stats != nil {
		d.stats.Update(path, len(poses))
	}
	d.enqueue(encodedRecord{
		path:    path,
		payload: EncodePoseRecord(path, time.Now().UnixNano(), poses),
	})
}

// RecordPose2D implements field.Recorder for the planar robot channel.
func (d *RecordDirector) RecordPose2D(path string, pose geometry.Pose2D) {
	if d.stats != nil {
		d.stats.Update(path, 1)
	}
	d.enqueue(encodedRecord{
		path:    path,
		payload: EncodePose2DRecord(path, time.Now().UnixNano(), pose),
	})
}

func (d *RecordDirector) enqueue(rec encodedRecord) {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()

	if !running {
		return
	}

	select {
	case d.queue <- rec:
	default:
		d.mu.Lock()
		d.dropped++
		dropped := d.dropped
		d.mu.Unlock()
		d.logger.Warnf("Record queue full, dropping %s (%d dropped total)", rec.path, dropped)
	}
}

// Dropped returns the number of records discarded because the queue was full.
func (d *RecordDirector) Dropped() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Start launches the fan-out worker.
func (d *RecordDirector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	d.running = true
	d.wg.Add(1)
	go d.worker()
	d.logger.Infof("Record director started with %d sink(s)", len(d.sinks))
}

// Stop drains the queue and waits for the worker to exit.
func (d *RecordDirector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
	d.logger.Infof("Record director stopped")
}

func (d *RecordDirector) worker() {
	defer d.wg.Done()

	for rec := range d.queue {
		d.mu.Lock()
		sinks := d.sinks
		d.mu.Unlock()

		for _, sink := range sinks {
			if err := sink.WriteRecord(rec.path, rec.payload); err != nil {
				d.logger.Errorf("Record sink %s failed for %s: %v", sink.Name(), rec.path, err)
			}
		}
	}
}
