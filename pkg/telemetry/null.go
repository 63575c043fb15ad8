package telemetry

// NullSink discards every event. It is the fallback when telemetry is
// disabled or the configured backend cannot be constructed.
type NullSink struct{}

func NewNullSink() *NullSink { return &NullSink{} }

func (NullSink) RecordResolution(ResolutionEvent) {}
func (NullSink) RecordRouting(RoutingEvent)       {}
func (NullSink) RecordQuery(QueryEvent)           {}
func (NullSink) RecordMetric(Metric)              {}
func (NullSink) Flush() error                     { return nil }
