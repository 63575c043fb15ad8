package telemetry

import (
	"sync/atomic"
	"time"
)

// Recorder wraps a Sink with sampling and the enabled/trackedEvents gate
// from Config, so kernel/router/query callers never special-case telemetry
// being off — they always hold a *Recorder.
type Recorder struct {
	cfg  Config
	sink Sink
	n    uint64
}

// NewRecorder wraps the sink the caller built for Config.Sink, falling
// back to NullSink when that sink is nil or telemetry is disabled.
func NewRecorder(cfg Config, logSink Sink) *Recorder {
	if !cfg.Enabled {
		return &Recorder{cfg: cfg, sink: NewNullSink()}
	}
	sink := logSink
	if sink == nil {
		sink = NewNullSink()
	}
	return &Recorder{cfg: cfg, sink: sink}
}

func (r *Recorder) sample() bool {
	if r.cfg.SampleRate <= 1 {
		return true
	}
	n := atomic.AddUint64(&r.n, 1)
	return n%uint64(r.cfg.SampleRate) == 0
}

func (r *Recorder) RecordResolution(e ResolutionEvent) {
	if !r.cfg.tracks(KindResolution) || !r.sample() {
		return
	}
	e.At = time.Now()
	r.sink.RecordResolution(e)
}

func (r *Recorder) RecordRouting(e RoutingEvent) {
	if !r.cfg.tracks(KindRouting) || !r.sample() {
		return
	}
	e.At = time.Now()
	r.sink.RecordRouting(e)
}

func (r *Recorder) RecordQuery(e QueryEvent) {
	if !r.cfg.tracks(KindQuery) || !r.sample() {
		return
	}
	e.At = time.Now()
	r.sink.RecordQuery(e)
}

func (r *Recorder) RecordMetric(m Metric) {
	if !r.sample() {
		return
	}
	m.At = time.Now()
	r.sink.RecordMetric(m)
}

// Flush delegates to the underlying sink when it is an Exporter.
func (r *Recorder) Flush() error {
	if exp, ok := r.sink.(Exporter); ok {
		return exp.Flush()
	}
	return nil
}
