package app

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/aras-services/corefw/pkg/blueprintcache"
	"github.com/aras-services/corefw/pkg/bootstrap"
	"github.com/aras-services/corefw/pkg/kernel"
	"github.com/aras-services/corefw/pkg/router"
	"github.com/aras-services/corefw/pkg/telemetry"
)

// methodHandler adapts a [class, method] HandlerRef to Handler by calling
// the named method via reflection, the same "controller action" shape the
// teacher's chi routes wire a struct method into.
type methodHandler struct {
	instance any
	method   string
}

func (m methodHandler) Handle(req *Request) (*Response, error) {
	v := reflect.ValueOf(m.instance)
	fn := v.MethodByName(m.method)
	if !fn.IsValid() {
		return nil, newErr(InvalidProvider, fmt.Sprintf("%T has no method %q", m.instance, m.method), nil)
	}
	out := fn.Call([]reflect.Value{reflect.ValueOf(req)})
	resp, _ := out[0].Interface().(*Response)
	errv := out[1].Interface()
	if errv != nil {
		return resp, errv.(error)
	}
	return resp, nil
}

// State is the closed lifecycle enumeration (§4.9).
type State int

const (
	Created State = iota
	Registered
	Booted
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Registered:
		return "registered"
	case Booted:
		return "booted"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "created"
	}
}

// Registerer is the optional register() hook (§4.9). register must not
// resolve services — an invariant enforced only by convention, exactly as
// spec.md states.
type Registerer interface {
	Register(app *Application) error
}

// Booter is the optional boot() hook, run once per provider in
// registration order after every provider has registered.
type Booter interface {
	Boot(app *Application) error
}

// Application is §3's Application façade: the single object tying a
// kernel Container, a router Engine, and a telemetry Recorder into one
// register→boot→run→terminate lifecycle.
type Application struct {
	mu        sync.Mutex
	state     State
	profile   bootstrap.Profile
	container *kernel.Container
	telemetry *telemetry.Recorder
	providers []any
	fallback  *router.HandlerRef
	registry  *router.Registry
	engine    *router.Engine
}

// New builds an Application from a bootstrap profile. The container and
// telemetry recorder are constructed eagerly (matching the teacher's
// fail-fast startup style) but nothing is registered or booted yet. Only
// the file telemetry sink kind is constructed here; for any other kind the
// recorder falls back to a NullSink.
func New(profile bootstrap.Profile) *Application {
	var sink telemetry.Sink
	switch profile.Telemetry.Sink {
	case telemetry.SinkFile:
		if fs, err := telemetry.NewFileSink(profile.Telemetry.OutputPath); err == nil {
			sink = fs
		}
	}
	rec := telemetry.NewRecorder(profile.Telemetry, sink)

	var cache blueprintcache.Backend
	if profile.Container.PrototypeCacheDir != "" {
		if fb, err := blueprintcache.NewFileBackend(profile.Container.PrototypeCacheDir); err == nil {
			cache = fb
		}
	}

	return &Application{
		state:     Created,
		profile:   profile,
		container: kernel.New(profile.Container, cache, rec),
		telemetry: rec,
		registry:  router.NewRegistry(),
	}
}

func (a *Application) Container() *kernel.Container { return a.container }
func (a *Application) State() State                 { return a.readState() }

func (a *Application) readState() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Register appends provider to the ordered list and immediately invokes
// its Register hook if present, then, if the application has already
// booted, also boots this single provider right away — the spec's "a
// provider registered late is still brought up to the current phase"
// behavior implied by ordered register/boot semantics (§4.9, §5 ordering
// guarantees).
func (a *Application) Register(provider any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, isRegisterer := provider.(Registerer); !isRegisterer {
		if _, isBooter := provider.(Booter); !isBooter {
			return newErr(InvalidProvider, fmt.Sprintf("%T implements neither Register nor Boot", provider), nil)
		}
	}

	a.providers = append(a.providers, provider)
	if r, ok := provider.(Registerer); ok {
		if err := r.Register(a); err != nil {
			return newErr(InvalidProvider, "register hook failed", err)
		}
	}
	if a.state >= Booted {
		if b, ok := provider.(Booter); ok {
			if err := b.Boot(a); err != nil {
				return newErr(InvalidProvider, "late boot hook failed", err)
			}
		}
	}
	if a.state == Created {
		a.state = Registered
	}
	return nil
}

// Boot runs every provider's Boot hook exactly once, in registration
// order. Calling Boot twice is AlreadyBooted.
func (a *Application) Boot() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state >= Booted {
		return newErr(AlreadyBooted, "application already booted", nil)
	}
	for _, p := range a.providers {
		if b, ok := p.(Booter); ok {
			if err := b.Boot(a); err != nil {
				return newErr(InvalidProvider, fmt.Sprintf("boot hook failed for %T", p), err)
			}
		}
	}
	a.state = Booted
	return nil
}

// Fallback sets the route the engine dispatches to on a RouteNotFound
// miss. It is optional; without one a miss surfaces as RouteNotFound.
func (a *Application) Fallback(h router.HandlerRef) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallback = &h
	a.registry.Fallback(h)
}

// Routes exposes the DSL surface providers/route files register against.
func (a *Application) Routes() *router.Dsl { return router.NewDsl(a.registry) }

// LoadRoutes consults cachePath first (§4.8 cache semantics: a version
// mismatch or read/parse failure is always a miss, never fatal). On a miss
// it runs fn (if given) against this Application's own Dsl — the same
// registry any provider's Boot hook writes into via Routes() — then
// compiles everything buffered so far and persists the exportable subset
// back to cachePath.
func (a *Application) LoadRoutes(cachePath string, fn func(dsl *router.Dsl)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cachePath != "" {
		if defs, ok := router.LoadCache(cachePath); ok {
			a.engine = router.NewEngine(defs, a.fallback, a.telemetry)
			return nil
		}
	}

	if fn != nil {
		fn(router.NewDsl(a.registry))
	}
	defs, err := a.registry.Definitions()
	if err != nil {
		return err
	}
	if cachePath != "" {
		if _, err := router.SaveCache(cachePath, defs); err != nil {
			// A cache write failure never blocks serving; the route file is
			// just re-evaluated next boot.
			_ = err
		}
	}
	a.engine = router.NewEngine(defs, a.fallback, a.telemetry)
	return nil
}

// ensureBooted guards Run: calling it before Boot is NotBooted.
func (a *Application) ensureBooted() error {
	if a.readState() < Booted {
		return newErr(NotBooted, "application has not completed boot()", nil)
	}
	return nil
}

// Terminate clears the scope registry and flushes telemetry, the final
// step of §4.9's lifecycle.
func (a *Application) Terminate() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.container.Scopes().Terminate()
	a.state = Terminated
	return a.telemetry.Flush()
}

// Run is §4.9's per-request cycle: ensure booted (before any scope is
// opened) → begin_scope → router.Resolve → resolve the matched Action
// through the container as a Handler → dispatch → (always, once begun)
// end_scope.
func (a *Application) Run(req *Request) (*Response, error) {
	if err := a.ensureBooted(); err != nil {
		return nil, err
	}

	a.container.Scopes().BeginScope()
	defer func() { _ = a.container.Scopes().EndScope() }()

	resolved, err := a.engine.Resolve(router.RequestView{Method: req.Method, Path: req.Path, Host: req.Host})
	if err != nil {
		return nil, err
	}
	req.Params = resolved.Params

	handler, err := a.resolveHandler(resolved.Route.Action)
	if err != nil {
		return nil, err
	}
	return handler.Handle(req)
}

// resolveHandler turns a route's HandlerRef into a Handler via the
// container: a plain Action is a DI service id; a [class, method] tuple
// resolves the class id then wraps its named method (§4.6 step 3).
func (a *Application) resolveHandler(ref router.HandlerRef) (Handler, error) {
	if ref.Class != "" || ref.Method != "" {
		instance, err := a.container.Resolve(ref.Class)
		if err != nil {
			return nil, err
		}
		return methodHandler{instance: instance, method: ref.Method}, nil
	}
	if ref.Action == "" {
		return nil, newErr(MissingFallback, "matched route has no action and no fallback is configured", nil)
	}
	instance, err := a.container.Resolve(ref.Action)
	if err != nil {
		return nil, err
	}
	h, ok := instance.(Handler)
	if !ok {
		return nil, newErr(InvalidProvider, fmt.Sprintf("service %q does not implement app.Handler", ref.Action), nil)
	}
	return h, nil
}
