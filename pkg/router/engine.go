package router

import (
	"time"

	"github.com/aras-services/corefw/pkg/telemetry"
)

// RequestView is the abstract shape the engine matches against — the core
// consumes a minimal Request abstraction rather than a concrete net/http
// type (§1 "the core consumes an abstract Request/Response shape").
type RequestView struct {
	Method string
	Path   string
	Host   string
}

// ResolvedRoute is returned on a successful match: the matched Definition
// plus the path parameters merged over the route's string defaults, which
// the caller injects into its own request representation (§4.6 step 3).
type ResolvedRoute struct {
	Route  *Definition
	Params map[string]string
}

// Engine is §4.6's HttpRequestRouter: holds compiled RouteDefinitions,
// resolves an incoming request, dispatches to a fallback on no-match.
type Engine struct {
	routes    []*Definition
	fallback  *HandlerRef
	telemetry *telemetry.Recorder
}

func NewEngine(routes []*Definition, fallback *HandlerRef, rec *telemetry.Recorder) *Engine {
	if rec == nil {
		rec = telemetry.NewRecorder(telemetry.Config{}, nil)
	}
	return &Engine{routes: routes, fallback: fallback, telemetry: rec}
}

// Resolve implements the deterministic matching algorithm of §4.6.
func (e *Engine) Resolve(req RequestView) (*ResolvedRoute, error) {
	start := time.Now()
	resolved, strategy, err := e.resolve(req)
	e.telemetry.RecordRouting(telemetry.RoutingEvent{
		RouteNameOrPath: req.Path,
		DurationMs:      float64(time.Since(start).Microseconds()) / 1000.0,
		Strategy:        strategy,
	})
	return resolved, err
}

func (e *Engine) resolve(req RequestView) (*ResolvedRoute, string, error) {
	path := Normalize(req.Path)
	method := req.Method

	if resolved, ok := e.tryMatch(method, path, req.Host); ok {
		return resolved, "matched", nil
	}

	// HEAD falls back to GET; caller discards the body (§4.6).
	if method == "HEAD" {
		if resolved, ok := e.tryMatch("GET", path, req.Host); ok {
			return resolved, "matched", nil
		}
	}

	methodCandidate := false
	var allowed []string
	for _, def := range e.routes {
		if def.DomainPattern != nil && !def.DomainPattern.MatchString(req.Host) {
			continue
		}
		if _, ok := def.PathPattern.Match(path); !ok {
			continue
		}
		if !def.hasMethod(Method(method)) {
			methodCandidate = true
			allowed = append(allowed, def.allowedMethods()...)
			continue
		}
	}

	if methodCandidate {
		return nil, "missed", &Error{Kind: MethodNotAllowed, Allowed: dedupConcat(allowed, nil)}
	}

	if e.fallback != nil {
		return &ResolvedRoute{Route: &Definition{Action: *e.fallback}, Params: map[string]string{}}, "fallback", nil
	}

	return nil, "missed", newErr(RouteNotFound, path)
}

func (e *Engine) tryMatch(method, path, host string) (*ResolvedRoute, bool) {
	for _, def := range e.routes {
		if def.DomainPattern != nil && !def.DomainPattern.MatchString(host) {
			continue
		}
		if !def.hasMethod(Method(method)) {
			continue
		}
		params, ok := def.PathPattern.Match(path)
		if !ok {
			continue
		}
		failed := false
		for name, re := range def.Constraints {
			if v, ok := params[name]; ok && !re.MatchString(v) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}
		merged := make(map[string]string, len(params)+len(def.Defaults))
		for k, v := range def.Defaults {
			if s, ok := v.(string); ok {
				merged[k] = s
			}
		}
		for k, v := range params {
			if v != "" {
				merged[k] = v
			}
		}
		return &ResolvedRoute{Route: def, Params: merged}, true
	}
	return nil, false
}
