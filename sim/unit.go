// Defines the TrafficUnit struct that models one unit of traffic moving through the online scheduler.
// Tracks the packet payload, arrival instant, the immutable deadline and the final outcome.

package sim

import (
	"fmt"
	"time"
)

// Packet is one traffic record as produced by a traffic source or read from a dataset.
// Timestamp is the record's own time; it is unrelated to when the unit reaches a queue.
type Packet struct {
	Timestamp     time.Time
	SourceIP      string
	DestinationIP string
	Protocol      string
	SizeBytes     int
	Class         QoSClass
}

// Outcome represents the lifecycle state of a TrafficUnit.
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeAdmitted Outcome = "admitted"
	OutcomeDropped  Outcome = "dropped"
)

// TrafficUnit is a Packet admitted into the online path.
// The deadline is fixed by NewUnit and cannot be changed afterwards; Class is
// part of the embedded Packet and is never rewritten by the scheduler.
type TrafficUnit struct {
	ID string
	Packet

	// Arrival is the instant the unit was created by DeadlinePolicy.NewUnit.
	Arrival time.Time
	// Outcome stays pending until the Processor decides.
	Outcome Outcome

	deadline    time.Time
	hasDeadline bool
	seq         uint64 // enqueue order, set by ClassQueue
}

// Deadline returns the unit's deadline and whether it has one.
// Class A units under the relaxed policy have no deadline.
func (u *TrafficUnit) Deadline() (time.Time, bool) {
	return u.deadline, u.hasDeadline
}

// Expired reports whether the deadline has passed at now.
// A unit without a deadline never expires. Once Expired returns true for some
// now, it returns true for every later instant.
func (u *TrafficUnit) Expired(now time.Time) bool {
	return u.hasDeadline && now.After(u.deadline)
}

func (u TrafficUnit) String() string {
	return fmt.Sprintf("TrafficUnit: (ID: %s, Class: %s, Size: %d, Outcome: %s)", u.ID, u.Class, u.SizeBytes, u.Outcome)
}
