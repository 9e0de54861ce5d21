package frame

import (
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/qos-sched/qos-sched/sim"
)

// Allocator simulates consecutive, non-overlapping frames over a historical
// record. It is single-threaded and deterministic given its inputs, except for
// the start instant when the record is empty (taken from the clock).
type Allocator struct {
	cfg      sim.PlannerConfig
	policy   AllocationPolicy
	demand   *DemandIndex
	clock    clock.PassiveClock
	recorder Recorder
}

// NewAllocator creates an Allocator over packets. A nil packets slice (missing
// dataset) is valid and yields zero demand for every frame.
// Panics on a non-positive frame duration or frame count, or a nil recorder.
func NewAllocator(cfg sim.PlannerConfig, packets []sim.Packet, clk clock.PassiveClock, recorder Recorder) *Allocator {
	if cfg.FrameDuration <= 0 {
		panic("NewAllocator: frame duration must be positive")
	}
	if cfg.FrameCount <= 0 {
		panic("NewAllocator: frame count must be positive")
	}
	if recorder == nil {
		panic("NewAllocator: recorder must not be nil")
	}
	return &Allocator{
		cfg:      cfg,
		policy:   DefaultAllocationPolicy,
		demand:   NewDemandIndex(packets),
		clock:    clk,
		recorder: recorder,
	}
}

// WithPolicy replaces the allocation shares. Used to study share settings other
// than the default 60/30 split.
func (a *Allocator) WithPolicy(p AllocationPolicy) *Allocator {
	a.policy = p
	return a
}

// Window returns the half-open interval covered by frame f starting at start.
func (a *Allocator) Window(start time.Time, f int) (time.Time, time.Time) {
	ws := start.Add(time.Duration(f) * a.cfg.FrameDuration)
	return ws, ws.Add(a.cfg.FrameDuration)
}

// Run simulates FrameCount frames with a fresh controller, hands each Record to
// the recorder and returns the run summary.
func (a *Allocator) Run() Result {
	start, ok := a.demand.Start()
	if !ok {
		start = a.clock.Now()
		logrus.Warnf("Allocator: no historical traffic, all %d frames have zero demand", a.cfg.FrameCount)
	}
	ctrl := NewController(a.cfg.Alpha, a.cfg.Gamma)

	for f := 0; f < a.cfg.FrameCount; f++ {
		ws, we := a.Window(start, f)
		demand := a.demand.Count(ws, we)
		alloc := a.policy.Allocate(demand, a.cfg.SlotsPerFrame)
		success := demand.A <= alloc.A
		ctrl.Update(success)

		rec := Record{
			Index:         f,
			WindowStart:   ws,
			WindowEnd:     we,
			Slots:         a.cfg.SlotsPerFrame,
			Demand:        demand,
			Allocated:     alloc,
			Success:       success,
			Theta:         ctrl.Theta,
			AdjustedAlpha: ctrl.AdjustedAlpha(),
			SuccessCount:  ctrl.SuccessCount,
		}
		if rec.Overallocated() {
			logrus.Debugf("[frame %04d] allocation %s exceeds %d slots", f+1, alloc, rec.Slots)
		}
		a.recorder.RecordFrame(rec)
	}

	return Result{
		Frames:       ctrl.FramesRun,
		SuccessCount: ctrl.SuccessCount,
		Reliability:  ctrl.Reliability(),
		FinalTheta:   ctrl.Theta,
	}
}
