package frame

import (
	"fmt"

	"github.com/qos-sched/qos-sched/sim"
)

// ClassCounts holds one integer per QoS class (demand or allocated slots).
type ClassCounts struct {
	A int
	B int
	C int
}

// Get returns the count for class.
func (c ClassCounts) Get(class sim.QoSClass) int {
	switch class {
	case sim.ClassA:
		return c.A
	case sim.ClassB:
		return c.B
	case sim.ClassC:
		return c.C
	default:
		return 0
	}
}

// Add increments the count for class by n.
func (c *ClassCounts) Add(class sim.QoSClass, n int) {
	switch class {
	case sim.ClassA:
		c.A += n
	case sim.ClassB:
		c.B += n
	case sim.ClassC:
		c.C += n
	}
}

// Total returns A + B + C.
func (c ClassCounts) Total() int {
	return c.A + c.B + c.C
}

func (c ClassCounts) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.A, c.B, c.C)
}

// AllocationPolicy partitions a frame's slot budget under priority with caps.
// UrgentShare caps class A; BroadbandShare is the floor class B may claim even
// when the budget left after class A is smaller.
type AllocationPolicy struct {
	UrgentShare    float64
	BroadbandShare float64
}

// DefaultAllocationPolicy caps class A at 60% and guarantees class B up to 30%.
var DefaultAllocationPolicy = AllocationPolicy{UrgentShare: 0.6, BroadbandShare: 0.3}

// Caps returns floor(UrgentShare*total) and floor(BroadbandShare*total).
func (p AllocationPolicy) Caps(totalSlots int) (urgentCap, broadbandCap int) {
	return int(p.UrgentShare * float64(totalSlots)), int(p.BroadbandShare * float64(totalSlots))
}

// Allocate grants slots to each class for one frame:
//
//	A = min(demandA, capA)
//	B = min(demandB, max(total - A, capB))
//	C = min(demandC, total - A - B)
//
// Because of the max term, A+B+C exceeds totalSlots whenever total-A falls
// below capB and class B demand is high. The default shares never get there,
// but callers must tolerate the overflow for other shares. C is never negative.
func (p AllocationPolicy) Allocate(demand ClassCounts, totalSlots int) ClassCounts {
	urgentCap, broadbandCap := p.Caps(totalSlots)

	a := min(demand.A, urgentCap)
	remaining := totalSlots - a

	b := min(demand.B, max(remaining, broadbandCap))
	remaining -= b

	c := max(0, min(demand.C, remaining))
	return ClassCounts{A: a, B: b, C: c}
}
