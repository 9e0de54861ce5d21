package sim

import (
	"sync"
	"time"
)

// t0 is the fixed start instant used by every fake clock in this package's tests.
var t0 = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)

// testRecorder collects outcome records; safe for use across the Run goroutine.
type testRecorder struct {
	mu      sync.Mutex
	records []OutcomeRecord
}

func (r *testRecorder) RecordOutcome(rec OutcomeRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *testRecorder) Records() []OutcomeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OutcomeRecord(nil), r.records...)
}

func (r *testRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// testPacket builds a packet of class c with addresses derived from tag.
func testPacket(c QoSClass, tag string) Packet {
	return Packet{
		Timestamp:     t0,
		SourceIP:      "192.168.1." + tag,
		DestinationIP: "10.0.0." + tag,
		Protocol:      "UDP",
		SizeBytes:     100,
		Class:         c,
	}
}

// ids returns the unit IDs of records in order.
func ids(records []OutcomeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.UnitID
	}
	return out
}

// classes returns the classes of records in order.
func classes(records []OutcomeRecord) []QoSClass {
	out := make([]QoSClass, len(records))
	for i, r := range records {
		out[i] = r.Class
	}
	return out
}
