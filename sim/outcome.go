package sim

import (
	"fmt"
	"time"
)

// OutcomeRecord captures a single admit/drop decision made by the Processor.
type OutcomeRecord struct {
	Tick          int64 // 1-based tick in which the decision was made
	UnitID        string
	Class         QoSClass
	SourceIP      string
	DestinationIP string
	SizeBytes     int
	Outcome       Outcome // OutcomeAdmitted or OutcomeDropped
	DecidedAt     time.Time
	Waited        time.Duration // DecidedAt - Arrival
}

// Message renders the record as an outcome log line (without timestamp prefix).
func (r OutcomeRecord) Message() string {
	label := r.Class.Label()
	switch {
	case r.Outcome == OutcomeAdmitted:
		return fmt.Sprintf("Processing %s Packet: %s -> %s", label, r.SourceIP, r.DestinationIP)
	case r.Class == ClassA:
		return fmt.Sprintf("%s Packet dropped due to deadline miss: %s -> %s", label, r.SourceIP, r.DestinationIP)
	default:
		return fmt.Sprintf("%s Packet dropped: %s -> %s", label, r.SourceIP, r.DestinationIP)
	}
}

// OutcomeRecorder receives every decision synchronously, before the Processor
// moves on to the next unit. Implementations live in sim/record.
type OutcomeRecorder interface {
	RecordOutcome(OutcomeRecord)
}

// OutcomeRecorderFunc adapts a function to OutcomeRecorder.
type OutcomeRecorderFunc func(OutcomeRecord)

func (f OutcomeRecorderFunc) RecordOutcome(r OutcomeRecord) {
	f(r)
}
