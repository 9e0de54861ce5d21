// Implements the per-class queues that hold traffic units waiting for the next tick.
// Units are enqueued by the producer and drained by the Processor once per tick.

package sim

import (
	"container/heap"
	"fmt"
	"strings"
	"sync"
)

// ClassQueue holds the pending units of one QoS class.
// It is FIFO unless byDeadline is set, in which case units are popped in
// deadline order (earliest first, ties broken by enqueue order).
// ClassQueue is not safe for concurrent use; QueueSet guards it.
type ClassQueue struct {
	class      QoSClass
	byDeadline bool
	units      unitHeap
	nextSeq    uint64
}

// NewClassQueue creates an empty queue for class.
func NewClassQueue(class QoSClass, byDeadline bool) *ClassQueue {
	return &ClassQueue{class: class, byDeadline: byDeadline}
}

// Class returns the class this queue holds.
func (q *ClassQueue) Class() QoSClass {
	return q.class
}

// Enqueue adds a unit to the queue.
// Panics if the unit belongs to another class.
func (q *ClassQueue) Enqueue(u *TrafficUnit) {
	if u.Class != q.class {
		panic(fmt.Sprintf("Enqueue: unit %s has class %s, queue holds %s", u.ID, u.Class, q.class))
	}
	q.nextSeq++
	u.seq = q.nextSeq
	if q.byDeadline {
		heap.Push(&q.units, u)
		return
	}
	q.units = append(q.units, u)
}

// Len returns the number of units in the queue.
func (q *ClassQueue) Len() int {
	return len(q.units)
}

// Peek returns the unit that Dequeue would return, without removing it.
// Returns nil if the queue is empty.
func (q *ClassQueue) Peek() *TrafficUnit {
	if len(q.units) == 0 {
		return nil
	}
	return q.units[0]
}

// Dequeue removes and returns the next unit.
// Returns nil if the queue is empty.
func (q *ClassQueue) Dequeue() *TrafficUnit {
	if len(q.units) == 0 {
		return nil
	}
	if q.byDeadline {
		return heap.Pop(&q.units).(*TrafficUnit)
	}
	u := q.units[0]
	q.units[0] = nil
	q.units = q.units[1:]
	return u
}

func (q *ClassQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, u := range q.units {
		sb.WriteString(u.ID)
		if i < len(q.units)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// unitHeap orders units by deadline, then by enqueue sequence.
// Units without a deadline sort after all units with one.
type unitHeap []*TrafficUnit

func (h unitHeap) Len() int { return len(h) }

func (h unitHeap) Less(i, j int) bool {
	ui, uj := h[i], h[j]
	if ui.hasDeadline != uj.hasDeadline {
		return ui.hasDeadline
	}
	if ui.hasDeadline && !ui.deadline.Equal(uj.deadline) {
		return ui.deadline.Before(uj.deadline)
	}
	return ui.seq < uj.seq
}

func (h unitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *unitHeap) Push(x any) {
	*h = append(*h, x.(*TrafficUnit))
}

func (h *unitHeap) Pop() any {
	old := *h
	n := len(old)
	u := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return u
}

// ClassBatch is the set of units of one class drained in a single tick, in pop order.
type ClassBatch struct {
	Class QoSClass
	Units []*TrafficUnit
}

// QueueSet owns the three class queues shared between one producer and the Processor.
// Enqueue and Snapshot are the only critical sections.
type QueueSet struct {
	mu         sync.Mutex
	queues     map[QoSClass]*ClassQueue
	byDeadline bool
}

// NewQueueSet creates empty queues for all classes. When urgentByDeadline is
// set the class A queue is deadline-ordered; B and C are always FIFO.
func NewQueueSet(urgentByDeadline bool) *QueueSet {
	qs := &QueueSet{byDeadline: urgentByDeadline}
	qs.queues = qs.emptyQueues()
	return qs
}

func (qs *QueueSet) emptyQueues() map[QoSClass]*ClassQueue {
	return map[QoSClass]*ClassQueue{
		ClassA: NewClassQueue(ClassA, qs.byDeadline),
		ClassB: NewClassQueue(ClassB, false),
		ClassC: NewClassQueue(ClassC, false),
	}
}

// Enqueue places the unit in the queue of its class.
// Panics on a unit whose class is not one of A, B, C.
func (qs *QueueSet) Enqueue(u *TrafficUnit) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	q, ok := qs.queues[u.Class]
	if !ok {
		panic(fmt.Sprintf("Enqueue: unit %s has unknown class %q", u.ID, u.Class))
	}
	q.Enqueue(u)
}

// Len returns the number of pending units of class.
func (qs *QueueSet) Len(class QoSClass) int {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if q, ok := qs.queues[class]; ok {
		return q.Len()
	}
	return 0
}

// Snapshot atomically takes every pending unit out of the queues and returns
// them grouped by class in priority order (A, B, C). Units enqueued after
// Snapshot returns belong to the next snapshot. Empty classes are omitted.
func (qs *QueueSet) Snapshot() []ClassBatch {
	qs.mu.Lock()
	taken := qs.queues
	qs.queues = qs.emptyQueues()
	qs.mu.Unlock()

	batches := make([]ClassBatch, 0, len(Classes))
	for _, c := range Classes {
		q := taken[c]
		if q.Len() == 0 {
			continue
		}
		units := make([]*TrafficUnit, 0, q.Len())
		for q.Len() > 0 {
			units = append(units, q.Dequeue())
		}
		batches = append(batches, ClassBatch{Class: c, Units: units})
	}
	return batches
}
