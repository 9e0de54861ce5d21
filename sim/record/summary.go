package record

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/frame"
)

// ClassOutcomes aggregates the decisions of one QoS class.
type ClassOutcomes struct {
	Admitted      int
	Dropped       int
	MeanSizeBytes float64
	MeanWaitMs    float64
}

// DropRate is Dropped / (Admitted + Dropped); 0 when the class saw no traffic.
func (c ClassOutcomes) DropRate() float64 {
	total := c.Admitted + c.Dropped
	if total == 0 {
		return 0
	}
	return float64(c.Dropped) / float64(total)
}

// OutcomeSummary aggregates the online path of a run.
type OutcomeSummary struct {
	Total    int
	Ticks    int64 // highest tick seen
	PerClass map[sim.QoSClass]ClassOutcomes
}

type classTotals struct {
	admitted, dropped int
	sizeBytes         float64
	waitMs            float64
}

// OutcomeStats accumulates per-class counts and running sums as outcomes
// arrive, so memory stays constant however long the run lasts.
// Safe for one writer and concurrent readers.
type OutcomeStats struct {
	mu     sync.Mutex
	total  int
	ticks  int64
	totals map[sim.QoSClass]*classTotals
}

// NewOutcomeStats creates an empty accumulator.
func NewOutcomeStats() *OutcomeStats {
	return &OutcomeStats{totals: make(map[sim.QoSClass]*classTotals)}
}

// RecordOutcome folds one decision into the running totals.
func (s *OutcomeStats) RecordOutcome(rec sim.OutcomeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.ticks = max(s.ticks, rec.Tick)
	ct, ok := s.totals[rec.Class]
	if !ok {
		ct = &classTotals{}
		s.totals[rec.Class] = ct
	}
	if rec.Outcome == sim.OutcomeAdmitted {
		ct.admitted++
	} else {
		ct.dropped++
	}
	ct.sizeBytes += float64(rec.SizeBytes)
	ct.waitMs += float64(rec.Waited.Microseconds()) / 1e3
}

// RecordFrame is a no-op; frames are summarized by SummarizeFrames.
func (s *OutcomeStats) RecordFrame(frame.Record) {}

// Summary returns the statistics accumulated so far.
func (s *OutcomeStats) Summary() *OutcomeSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &OutcomeSummary{
		Total:    s.total,
		Ticks:    s.ticks,
		PerClass: make(map[sim.QoSClass]ClassOutcomes, len(s.totals)),
	}
	for c, ct := range s.totals {
		n := float64(ct.admitted + ct.dropped)
		summary.PerClass[c] = ClassOutcomes{
			Admitted:      ct.admitted,
			Dropped:       ct.dropped,
			MeanSizeBytes: ct.sizeBytes / n,
			MeanWaitMs:    ct.waitMs / n,
		}
	}
	return summary
}

// SummarizeOutcomes computes per-class statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func SummarizeOutcomes(t *Trace) *OutcomeSummary {
	stats := NewOutcomeStats()
	if t != nil {
		for _, rec := range t.Outcomes() {
			stats.RecordOutcome(rec)
		}
	}
	return stats.Summary()
}

// ClassDemand holds demand statistics of one class across frames.
type ClassDemand struct {
	Mean   float64
	StdDev float64
}

// FrameSummary aggregates the offline path of a run.
type FrameSummary struct {
	Frames        int
	Successes     int
	Reliability   float64 // mean of the per-frame success indicator
	Overallocated int
	FinalTheta    float64
	Demand        map[sim.QoSClass]ClassDemand
}

// SummarizeFrames computes reliability and demand statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func SummarizeFrames(t *Trace) *FrameSummary {
	summary := &FrameSummary{Demand: make(map[sim.QoSClass]ClassDemand)}
	if t == nil {
		return summary
	}
	frames := t.Frames()
	if len(frames) == 0 {
		return summary
	}

	success := make([]float64, len(frames))
	demand := make(map[sim.QoSClass][]float64)
	for i, rec := range frames {
		if rec.Success {
			success[i] = 1
			summary.Successes++
		}
		if rec.Overallocated() {
			summary.Overallocated++
		}
		for _, c := range sim.Classes {
			demand[c] = append(demand[c], float64(rec.Demand.Get(c)))
		}
	}
	summary.Frames = len(frames)
	summary.Reliability = stat.Mean(success, nil)
	summary.FinalTheta = frames[len(frames)-1].Theta
	for _, c := range sim.Classes {
		if len(frames) < 2 {
			summary.Demand[c] = ClassDemand{Mean: demand[c][0]}
			continue
		}
		mean, std := stat.MeanStdDev(demand[c], nil)
		summary.Demand[c] = ClassDemand{Mean: mean, StdDev: std}
	}
	return summary
}
