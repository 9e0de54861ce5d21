// Package sim provides the online scheduling core for qos-sched.
//
// # Reading Guide
//
// Start with these files to understand the online path:
//   - class.go: QoS classes (A/uRLLC, B/eMBB, C/mMTC) and their dataset labels
//   - unit.go: TrafficUnit lifecycle (pending → admitted | dropped) and the deadline it carries
//   - deadline.go: DeadlinePolicy, the single knob that selects how deadlines are assigned
//   - queue.go: per-class queues and the lock-guarded QueueSet shared by producer and consumer
//   - processor.go: the tick loop that drains the QueueSet in strict priority order
//
// # Architecture
//
// The sim package defines the shared data model and the online scheduler; the
// other pieces live in sub-packages:
//   - sim/frame/: offline frame allocator and the reliability feedback controller
//   - sim/dataset/: historical traffic CSV ingestion
//   - sim/traffic/: live random generator and dataset replay sources
//   - sim/record/: outcome and frame recorders (log, memory, Prometheus) and summaries
//
// The online and offline paths share only immutable data (Packet, QoSClass).
// Recorders are passed in explicitly; nothing in sim configures global logging.
package sim
