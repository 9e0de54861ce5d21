// Package record provides the recorders that receive scheduler outcomes and
// frame summaries: line logs, an in-memory trace, Prometheus metrics, and
// summaries computed over a trace.
// This package holds no scheduling state; recorders only observe.
package record

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/frame"
)

// TimestampLayout prefixes every log line unless omitted.
const TimestampLayout = "2006-01-02 15:04:05"

// Recorder receives both online outcomes and offline frame records.
type Recorder interface {
	sim.OutcomeRecorder
	frame.Recorder
}

// LineFormatter renders entries as "<timestamp> - <message>" with no level or fields.
type LineFormatter struct {
	OmitTimestamp bool
}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	if !f.OmitTimestamp {
		b.WriteString(e.Time.Format(TimestampLayout))
		b.WriteString(" - ")
	}
	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// NewLogger creates a dedicated logger writing plain lines to w.
// It is independent of the process-wide logrus logger.
func NewLogger(w io.Writer, omitTimestamp bool) *logrus.Logger {
	return &logrus.Logger{
		Out:       w,
		Formatter: &LineFormatter{OmitTimestamp: omitTimestamp},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
}

// LogRecorder writes one line per outcome or frame to its logger.
type LogRecorder struct {
	log logrus.FieldLogger
}

// NewLogRecorder creates a LogRecorder writing to log.
func NewLogRecorder(log logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{log: log}
}

// RecordOutcome logs "Processing ..." or "... dropped ..." for the unit.
func (r *LogRecorder) RecordOutcome(rec sim.OutcomeRecord) {
	r.log.Info(rec.Message())
}

// RecordFrame logs the frame summary line.
func (r *LogRecorder) RecordFrame(rec frame.Record) {
	r.log.Info(rec.Message())
}

var (
	_ Recorder = (*LogRecorder)(nil)
	_ Recorder = (*Trace)(nil)
	_ Recorder = (*OutcomeStats)(nil)
	_ Recorder = (*MetricsRecorder)(nil)
	_ Recorder = Multi(nil)
)

// Multi fans every record out to each recorder in order.
type Multi []Recorder

func (m Multi) RecordOutcome(rec sim.OutcomeRecord) {
	for _, r := range m {
		r.RecordOutcome(rec)
	}
}

func (m Multi) RecordFrame(rec frame.Record) {
	for _, r := range m {
		r.RecordFrame(rec)
	}
}
