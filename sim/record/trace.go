package record

import (
	"sync"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/frame"
)

// Trace keeps every record in memory, in arrival order.
// Safe for one writer and concurrent readers.
type Trace struct {
	mu       sync.Mutex
	outcomes []sim.OutcomeRecord
	frames   []frame.Record
}

// NewTrace creates an empty Trace.
func NewTrace() *Trace {
	return &Trace{
		outcomes: make([]sim.OutcomeRecord, 0),
		frames:   make([]frame.Record, 0),
	}
}

// RecordOutcome appends an outcome record.
func (t *Trace) RecordOutcome(rec sim.OutcomeRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes = append(t.outcomes, rec)
}

// RecordFrame appends a frame record.
func (t *Trace) RecordFrame(rec frame.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, rec)
}

// Outcomes returns a copy of the recorded outcomes.
func (t *Trace) Outcomes() []sim.OutcomeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]sim.OutcomeRecord(nil), t.outcomes...)
}

// Frames returns a copy of the recorded frames.
func (t *Trace) Frames() []frame.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]frame.Record(nil), t.frames...)
}

// Len returns the number of recorded outcomes.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outcomes)
}
