package record

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/frame"
)

const namespace = "qos_sched"

// MetricsRecorder exports outcome and frame records as Prometheus metrics.
type MetricsRecorder struct {
	outcomes      *prometheus.CounterVec
	waitSeconds   *prometheus.HistogramVec
	demand        *prometheus.GaugeVec
	allocated     *prometheus.GaugeVec
	frames        *prometheus.CounterVec
	overallocated prometheus.Counter
	theta         prometheus.Gauge
	adjustedAlpha prometheus.Gauge
}

// NewMetricsRecorder creates the collectors and registers them with reg.
// Panics if any collector is already registered.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	m := &MetricsRecorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Scheduling decisions by QoS class and outcome.",
		}, []string{"class", "outcome"}),
		waitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_wait_seconds",
			Help:      "Time from admission to decision by QoS class.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"class"}),
		demand: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_demand",
			Help:      "Demand of the last simulated frame by QoS class.",
		}, []string{"class"}),
		allocated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_allocated_slots",
			Help:      "Slots granted in the last simulated frame by QoS class.",
		}, []string{"class"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Simulated frames by class A success.",
		}, []string{"success"}),
		overallocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_overallocated_total",
			Help:      "Frames whose grants exceeded the slot budget.",
		}),
		theta: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_theta",
			Help:      "Reliability controller threshold after the last frame.",
		}),
		adjustedAlpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_adjusted_alpha",
			Help:      "Controller threshold clamped to [0, 1].",
		}),
	}
	reg.MustRegister(m.outcomes, m.waitSeconds, m.demand, m.allocated, m.frames,
		m.overallocated, m.theta, m.adjustedAlpha)
	return m
}

// RecordOutcome counts the decision and observes the queue wait.
func (m *MetricsRecorder) RecordOutcome(rec sim.OutcomeRecord) {
	class := rec.Class.Label()
	m.outcomes.WithLabelValues(class, string(rec.Outcome)).Inc()
	m.waitSeconds.WithLabelValues(class).Observe(rec.Waited.Seconds())
}

// RecordFrame publishes the frame's demand, grants and controller state.
func (m *MetricsRecorder) RecordFrame(rec frame.Record) {
	for _, c := range sim.Classes {
		m.demand.WithLabelValues(c.Label()).Set(float64(rec.Demand.Get(c)))
		m.allocated.WithLabelValues(c.Label()).Set(float64(rec.Allocated.Get(c)))
	}
	if rec.Success {
		m.frames.WithLabelValues("true").Inc()
	} else {
		m.frames.WithLabelValues("false").Inc()
	}
	if rec.Overallocated() {
		m.overallocated.Inc()
	}
	m.theta.Set(rec.Theta)
	m.adjustedAlpha.Set(rec.AdjustedAlpha)
}
