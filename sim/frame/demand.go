package frame

import (
	"sort"
	"time"

	"github.com/qos-sched/qos-sched/sim"
)

// DemandIndex answers per-class packet counts over half-open time windows.
// Timestamps are kept sorted per class so each query is two binary searches.
type DemandIndex struct {
	byClass map[sim.QoSClass][]time.Time
	first   time.Time
	empty   bool
}

// NewDemandIndex indexes the packets by class and timestamp.
// A nil or empty slice yields an index that reports zero demand everywhere.
func NewDemandIndex(packets []sim.Packet) *DemandIndex {
	idx := &DemandIndex{byClass: make(map[sim.QoSClass][]time.Time), empty: true}
	for _, p := range packets {
		idx.byClass[p.Class] = append(idx.byClass[p.Class], p.Timestamp)
		if idx.empty || p.Timestamp.Before(idx.first) {
			idx.first = p.Timestamp
			idx.empty = false
		}
	}
	for _, ts := range idx.byClass {
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	}
	return idx
}

// Start returns the earliest indexed timestamp, or false if the index is empty.
func (d *DemandIndex) Start() (time.Time, bool) {
	return d.first, !d.empty
}

// Count returns the number of packets per class with start <= timestamp < end.
func (d *DemandIndex) Count(start, end time.Time) ClassCounts {
	var counts ClassCounts
	for _, c := range sim.Classes {
		ts := d.byClass[c]
		lo := sort.Search(len(ts), func(i int) bool { return !ts[i].Before(start) })
		hi := sort.Search(len(ts), func(i int) bool { return !ts[i].Before(end) })
		if hi > lo {
			counts.Add(c, hi-lo)
		}
	}
	return counts
}
