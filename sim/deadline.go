package sim

import (
	"fmt"
	"sort"
	"time"
)

// DeadlinePolicyName selects how deadlines are assigned at admission.
type DeadlinePolicyName string

const (
	// PolicyRelaxed gives class A no deadline (always admitted) and classes B/C
	// Arrival + Window.
	PolicyRelaxed DeadlinePolicyName = "relaxed"
	// PolicyStrict gives class A Arrival + UrgentWindow and classes B/C
	// Arrival + Window.
	PolicyStrict DeadlinePolicyName = "strict"
)

// Default windows per policy. Zero-valued windows in a DeadlinePolicy are
// replaced by these in NewDeadlinePolicy.
const (
	DefaultRelaxedWindow = 200 * time.Millisecond
	DefaultStrictWindow  = 100 * time.Millisecond
	DefaultUrgentWindow  = time.Millisecond
)

// validDeadlinePolicies maps accepted policy names. Empty defaults to relaxed.
var validDeadlinePolicies = map[DeadlinePolicyName]bool{
	PolicyRelaxed: true,
	PolicyStrict:  true,
	"":            true,
}

// IsValidDeadlinePolicy returns true if name is a recognized deadline policy.
func IsValidDeadlinePolicy(name string) bool {
	return validDeadlinePolicies[DeadlinePolicyName(name)]
}

// DeadlinePolicyNames returns the sorted non-empty policy names, for CLI help text.
func DeadlinePolicyNames() []string {
	names := make([]string, 0, len(validDeadlinePolicies))
	for n := range validDeadlinePolicies {
		if n != "" {
			names = append(names, string(n))
		}
	}
	sort.Strings(names)
	return names
}

// DeadlinePolicy computes the deadline of every unit at creation time.
// One value covers both observed scheduler variants; the Processor reads only
// the per-unit deadline and never the policy itself.
type DeadlinePolicy struct {
	Name         DeadlinePolicyName
	UrgentWindow time.Duration // class A window; used by PolicyStrict only
	Window       time.Duration // class B and C window
}

// NewDeadlinePolicy creates a DeadlinePolicy by name, filling zero windows with
// the policy's defaults. Panics on unrecognized names.
func NewDeadlinePolicy(name string, urgentWindow, window time.Duration) DeadlinePolicy {
	if !IsValidDeadlinePolicy(name) {
		panic(fmt.Sprintf("unknown deadline policy %q", name))
	}
	switch DeadlinePolicyName(name) {
	case "", PolicyRelaxed:
		if window <= 0 {
			window = DefaultRelaxedWindow
		}
		return DeadlinePolicy{Name: PolicyRelaxed, Window: window}
	case PolicyStrict:
		if urgentWindow <= 0 {
			urgentWindow = DefaultUrgentWindow
		}
		if window <= 0 {
			window = DefaultStrictWindow
		}
		return DeadlinePolicy{Name: PolicyStrict, UrgentWindow: urgentWindow, Window: window}
	default:
		panic(fmt.Sprintf("unhandled deadline policy %q", name))
	}
}

// UrgentHasDeadline reports whether class A units get a deadline under this policy.
// When false, the class A queue is FIFO instead of deadline-ordered.
func (p DeadlinePolicy) UrgentHasDeadline() bool {
	return p.Name == PolicyStrict
}

// NewUnit creates a pending TrafficUnit arriving at arrival, with its deadline
// computed from the packet class.
func (p DeadlinePolicy) NewUnit(id string, pkt Packet, arrival time.Time) *TrafficUnit {
	u := &TrafficUnit{
		ID:      id,
		Packet:  pkt,
		Arrival: arrival,
		Outcome: OutcomePending,
	}
	switch {
	case pkt.Class == ClassA && !p.UrgentHasDeadline():
		// no deadline: always admitted
	case pkt.Class == ClassA:
		u.deadline, u.hasDeadline = arrival.Add(p.UrgentWindow), true
	default:
		u.deadline, u.hasDeadline = arrival.Add(p.Window), true
	}
	return u
}
