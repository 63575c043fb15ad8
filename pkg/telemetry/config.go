package telemetry

// Config mirrors spec.md's TelemetryConfig: {enabled, sink, outputPath,
// sampleRate, includeStackTraces, trackedEvents}.
type Config struct {
	Enabled            bool
	Sink               SinkKind
	OutputPath         string
	SampleRate         int // record 1 in N; 0 or 1 means record everything
	IncludeStackTraces bool
	TrackedEvents      []EventKind
}

// SinkKind enumerates the three sink backends the core knows how to build.
type SinkKind string

const (
	SinkNull   SinkKind = "null"
	SinkFile   SinkKind = "file"
	SinkLogger SinkKind = "logger"
)

func (c Config) tracks(kind EventKind) bool {
	if len(c.TrackedEvents) == 0 {
		return true
	}
	for _, k := range c.TrackedEvents {
		if k == kind {
			return true
		}
	}
	return false
}
