package traffic

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/qos-sched/qos-sched/sim"
)

// Sink accepts packets for scheduling. *sim.Processor implements it.
type Sink interface {
	Submit(id string, pkt sim.Packet) sim.TrafficUnit
}

// NewLimiter paces one packet per interval. A non-positive interval means no pacing.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Producer moves packets from a Source into a Sink at the limiter's pace.
type Producer struct {
	Source  Source
	Sink    Sink
	Limiter *rate.Limiter
	// Log, when set, receives one "Generated Packet" line per submitted packet.
	Log logrus.FieldLogger
}

// Run submits packets until the source is exhausted or ctx is cancelled.
// Returns the number of packets submitted; cancellation and reaching the
// context deadline are not errors.
func (p *Producer) Run(ctx context.Context) (int, error) {
	limiter := p.Limiter
	if limiter == nil {
		limiter = NewLimiter(0)
	}
	n := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return n, nil
			}
			// the next token lands after the deadline
			if _, ok := ctx.Deadline(); ok {
				<-ctx.Done()
				return n, nil
			}
			return n, err
		}
		a, ok := p.Source.Next()
		if !ok {
			logrus.Infof("Producer: source exhausted after %d packets", n)
			return n, nil
		}
		p.Sink.Submit(a.ID, a.Packet)
		n++
		if p.Log != nil {
			p.Log.Infof("Generated Packet: %s -> %s, Size: %d bytes, QoS: %s",
				a.Packet.SourceIP, a.Packet.DestinationIP, a.Packet.SizeBytes, a.Packet.Class.Label())
		}
	}
}
