// Package telemetry defines the sink/exporter contracts the kernel, router
// and query orchestrator emit events through. The core never talks to a
// metrics backend directly; it only knows about these interfaces.
package telemetry

import "time"

// EventKind distinguishes the event kinds the core emits: the three
// structured event shapes and the two Metric kinds.
type EventKind string

const (
	KindResolution EventKind = "resolution"
	KindRouting    EventKind = "routing"
	KindQuery      EventKind = "query"
	KindCounter    EventKind = "counter"
	KindObservation EventKind = "observation"
)

// ResolutionEvent records one DI kernel resolution.
type ResolutionEvent struct {
	Abstract   string
	DurationMs float64
	Strategy   string // cached|instance|constructed|autowired
	At         time.Time
}

// RoutingEvent records one router.Resolve call.
type RoutingEvent struct {
	RouteNameOrPath string
	DurationMs      float64
	Strategy        string // matched|fallback|missed
	At              time.Time
}

// QueryEvent records one compiled-query execution or deferral.
type QueryEvent struct {
	Operation  string
	DurationMs float64
	Deferred   bool
	At         time.Time
}

// Metric is a generic counter/observation emitted outside the three
// structured event shapes above (e.g. cache hit ratios, scope depth).
type Metric struct {
	Name  string
	Value float64
	Kind  EventKind // KindCounter or KindObservation
	At    time.Time
}

// Sink is the destination contract every event is funneled through.
// Implementations must not block the caller for longer than it takes to
// enqueue or write the event; the core never awaits a sink.
type Sink interface {
	RecordResolution(ResolutionEvent)
	RecordRouting(RoutingEvent)
	RecordQuery(QueryEvent)
	RecordMetric(Metric)
}

// Exporter flushes buffered events to an external system on demand
// (application termination, periodic flush). Not every Sink needs to
// implement it; sinks that write synchronously are no-ops here.
type Exporter interface {
	Flush() error
}
