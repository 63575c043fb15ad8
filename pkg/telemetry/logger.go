package telemetry

import "go.uber.org/zap"

// LoggerSink forwards events to an injected *zap.Logger (§6 Telemetry
// sinks: "logger"). The Development bootstrap profile selects this sink
// kind, but app.New does not construct a LoggerSink; one only records events
// when a caller passes it to NewRecorder.
type LoggerSink struct {
	log *zap.Logger
}

func NewLoggerSink(log *zap.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) RecordResolution(e ResolutionEvent) {
	s.log.Debug("di.resolve",
		zap.String("abstract", e.Abstract),
		zap.Float64("duration_ms", e.DurationMs),
		zap.String("strategy", e.Strategy),
	)
}

func (s *LoggerSink) RecordRouting(e RoutingEvent) {
	s.log.Debug("router.resolve",
		zap.String("route", e.RouteNameOrPath),
		zap.Float64("duration_ms", e.DurationMs),
		zap.String("strategy", e.Strategy),
	)
}

func (s *LoggerSink) RecordQuery(e QueryEvent) {
	s.log.Debug("query.execute",
		zap.String("operation", e.Operation),
		zap.Float64("duration_ms", e.DurationMs),
		zap.Bool("deferred", e.Deferred),
	)
}

func (s *LoggerSink) RecordMetric(m Metric) {
	s.log.Debug("telemetry.metric",
		zap.String("name", m.Name),
		zap.Float64("value", m.Value),
		zap.String("kind", string(m.Kind)),
	)
}

func (s *LoggerSink) Flush() error {
	return s.log.Sync()
}
