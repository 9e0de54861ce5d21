// Package frame implements the offline frame allocator: per-frame demand from a
// historical record, priority-with-caps slot allocation, and the reliability
// feedback controller.
package frame

import (
	"fmt"
	"time"
)

// Record captures one simulated frame. Records are created once and never mutated.
type Record struct {
	Index       int // 0-based frame index
	WindowStart time.Time
	WindowEnd   time.Time
	Slots       int // slot budget of the frame
	Demand      ClassCounts
	Allocated   ClassCounts
	Success     bool // class A demand fit within its allocation

	// Controller state after this frame's update.
	Theta         float64
	AdjustedAlpha float64
	SuccessCount  int
}

// Overallocated reports whether the grants sum past the slot budget.
func (r Record) Overallocated() bool {
	return r.Allocated.Total() > r.Slots
}

// SuccessRate is the running success rate including this frame.
func (r Record) SuccessRate() float64 {
	return float64(r.SuccessCount) / float64(r.Index+1)
}

// Message renders the record as a frame summary line.
func (r Record) Message() string {
	return fmt.Sprintf("Frame %d: Predicted URLLC = %d, eMBB = %d, mMTC = %d, "+
		"Allocated (URLLC, eMBB, mMTC) = %s, Success Rate: %.2f",
		r.Index+1, r.Demand.A, r.Demand.B, r.Demand.C, r.Allocated, r.SuccessRate())
}

// Result summarizes a whole allocator run.
type Result struct {
	Frames       int
	SuccessCount int
	Reliability  float64 // SuccessCount / Frames
	FinalTheta   float64
}

// Message renders the final summary line.
func (r Result) Message() string {
	return fmt.Sprintf("Final Success Rate over %d frames: %.2f", r.Frames, r.Reliability)
}

// Recorder receives every frame record as it is produced.
type Recorder interface {
	RecordFrame(Record)
}
