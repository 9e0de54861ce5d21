// Implements the Processor, the online tick loop.
// Each tick drains a snapshot of the class queues in strict priority order and
// hands one OutcomeRecord per unit to the recorder.

package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Processor is the single consumer of a QueueSet. It is the only component
// that compares units against the clock and the only one that sets Outcome.
type Processor struct {
	queues   *QueueSet
	policy   DeadlinePolicy
	clock    clock.WithTicker
	slot     time.Duration
	recorder OutcomeRecorder

	tick int64 // ticks processed so far; touched only by the consumer goroutine
}

// NewProcessor creates a Processor for cfg. Pass clock.RealClock{} outside tests.
// Panics on an unknown deadline policy or a non-positive time slot.
func NewProcessor(cfg TickConfig, clk clock.WithTicker, recorder OutcomeRecorder) *Processor {
	if cfg.TimeSlot <= 0 {
		panic("NewProcessor: time slot must be positive")
	}
	if recorder == nil {
		panic("NewProcessor: recorder must not be nil")
	}
	policy := cfg.Policy()
	return &Processor{
		queues:   NewQueueSet(policy.UrgentHasDeadline()),
		policy:   policy,
		clock:    clk,
		slot:     cfg.TimeSlot,
		recorder: recorder,
	}
}

// Policy returns the deadline policy applied to submitted packets.
func (p *Processor) Policy() DeadlinePolicy {
	return p.policy
}

// Submit stamps the packet with the current instant, computes its deadline and
// enqueues it. Safe to call from the producer goroutine while Run is active.
// The returned copy reflects the unit as enqueued.
func (p *Processor) Submit(id string, pkt Packet) TrafficUnit {
	u := p.policy.NewUnit(id, pkt, p.clock.Now())
	snapshot := *u
	p.queues.Enqueue(u)
	return snapshot
}

// Pending returns the number of units waiting for the next tick.
func (p *Processor) Pending() int {
	n := 0
	for _, c := range Classes {
		n += p.queues.Len(c)
	}
	return n
}

// Ticks returns the number of ticks processed. Not safe to call concurrently with Run.
func (p *Processor) Ticks() int64 {
	return p.tick
}

// ProcessTick drains every unit pending at the start of the tick: all of class A,
// then B, then C. Units submitted while the tick is running wait for the next one.
// Returns the number of decisions made.
func (p *Processor) ProcessTick() int {
	p.tick++
	decided := 0
	for _, batch := range p.queues.Snapshot() {
		for _, u := range batch.Units {
			p.decide(u)
			decided++
		}
		logrus.Debugf("[tick %07d] drained %d %s units", p.tick, len(batch.Units), batch.Class.Label())
	}
	return decided
}

// decide sets the unit outcome from the clock at pop time and records it.
func (p *Processor) decide(u *TrafficUnit) {
	now := p.clock.Now()
	if u.Expired(now) {
		u.Outcome = OutcomeDropped
	} else {
		u.Outcome = OutcomeAdmitted
	}
	p.recorder.RecordOutcome(OutcomeRecord{
		Tick:          p.tick,
		UnitID:        u.ID,
		Class:         u.Class,
		SourceIP:      u.SourceIP,
		DestinationIP: u.DestinationIP,
		SizeBytes:     u.SizeBytes,
		Outcome:       u.Outcome,
		DecidedAt:     now,
		Waited:        now.Sub(u.Arrival),
	})
}

// Drain decides every unit still pending in one final tick, so no submitted
// unit ends without an outcome record. Returns the number of decisions; an
// empty queue set does not count as a tick.
func (p *Processor) Drain() int {
	if p.Pending() == 0 {
		return 0
	}
	n := p.ProcessTick()
	logrus.Warnf("[tick %07d] decided %d units pending at shutdown", p.tick, n)
	return n
}

// Run processes one tick immediately and then one per time slot until ctx is
// cancelled. Cancellation is observed only between ticks; a started tick
// always drains its whole snapshot, and units still pending at cancellation
// are decided by a final Drain. Returns nil on cancellation.
func (p *Processor) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.slot)
	defer ticker.Stop()

	logrus.Infof("Processor started: slot=%v, policy=%s", p.slot, p.policy.Name)
	for {
		if ctx.Err() != nil {
			p.Drain()
			logrus.Infof("Processor stopped after %d ticks", p.tick)
			return nil
		}
		p.ProcessTick()
		select {
		case <-ctx.Done():
		case <-ticker.C():
		}
	}
}
