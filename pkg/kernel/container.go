package kernel

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/aras-services/corefw/pkg/blueprintcache"
	"github.com/aras-services/corefw/pkg/telemetry"
)

// Container is the DI kernel (§4.4): a reflection-driven resolver with a
// scoped-lifetime registry, a multi-stage resolution pipeline, a blueprint
// cache and a telemetry surface.
type Container struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	aliases     map[string]string // alias -> canonical id

	// typeRegistry backs the "synthesize autowiring definition from the id
	// as a class reference" step of §4.4.3: Go cannot turn an arbitrary
	// string into a reflect.Type at runtime, so autowiring is only
	// available for ids that were pre-registered here (see DESIGN.md).
	typeRegistry map[string]reflect.Type

	scopes   *ScopeRegistry
	cache    blueprintcache.Backend
	analyzer *Analyzer
	telemetry *telemetry.Recorder
	cfg      Config
}

// New builds a Container over the given blueprint cache backend and
// telemetry recorder.
func New(cfg Config, cache blueprintcache.Backend, rec *telemetry.Recorder) *Container {
	if cache == nil {
		cache = blueprintcache.NewNullBackend()
	}
	if rec == nil {
		rec = telemetry.NewRecorder(telemetry.Config{}, nil)
	}
	return &Container{
		definitions:  make(map[string]*Definition),
		aliases:      make(map[string]string),
		typeRegistry: make(map[string]reflect.Type),
		scopes:       NewScopeRegistry(),
		cache:        cache,
		analyzer:     NewAnalyzer(),
		telemetry:    rec,
		cfg:          cfg,
	}
}

// Scopes exposes the registry for the application façade to begin/end
// scopes and terminate on shutdown.
func (c *Container) Scopes() *ScopeRegistry { return c.scopes }

// Register adds an explicit ServiceDefinition, immutable after Boot (the
// caller, pkg/app.Application, enforces the register→boot ordering).
func (c *Container) Register(def *Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[def.ID] = def
	for alias := range def.Aliases {
		c.aliases[alias] = def.ID
	}
}

// RegisterAutowireType makes id eligible for autowiring (§4.4.3) when no
// explicit Definition exists and strict mode is off.
func (c *Container) RegisterAutowireType(id string, t reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typeRegistry[id] = t
}

func (c *Container) lookupDefinition(id string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if d, ok := c.definitions[id]; ok {
		return d, true
	}
	if canon, ok := c.aliases[id]; ok {
		d, ok := c.definitions[canon]
		return d, ok
	}
	return nil, false
}

// Resolve runs the full pipeline for id (§4.4 steps 1-7).
func (c *Container) Resolve(id string) (any, error) {
	return c.resolveChained(id, nil)
}

func (c *Container) resolveChained(id string, chain []string) (any, error) {
	start := time.Now()
	depth := len(chain)

	// Step 1: guard.
	if depth >= c.cfg.MaxResolutionDepth {
		return nil, newErr(CyclicOrDeep, id, depth, fmt.Errorf("max resolution depth %d exceeded", c.cfg.MaxResolutionDepth))
	}
	for _, seen := range chain {
		if seen == id {
			return nil, newErr(CyclicOrDeep, id, depth, fmt.Errorf("cyclic dependency on %q", id))
		}
	}

	// Step 2: scope lookup.
	if v, ok := c.scopes.Get(id); ok {
		c.recordResolution(id, start, "cached")
		return v, nil
	}

	// Step 3: definition lookup (+ autowiring synthesis).
	def, ok := c.lookupDefinition(id)
	if !ok {
		t, known := c.typeRegistry[id]
		if c.cfg.Strict || !known {
			return nil, newErr(NotFound, id, depth, nil)
		}
		if !c.cfg.namespaceAllowed(t.PkgPath()) {
			return nil, newErr(NotAllowed, id, depth, fmt.Errorf("namespace %s not allowlisted", t.PkgPath()))
		}
		def = NewDefinition(id, Transient).WithType(t)
	} else if def.Type != nil && !c.cfg.namespaceAllowed(def.Type.PkgPath()) && c.cfg.Strict {
		return nil, newErr(NotAllowed, id, depth, fmt.Errorf("namespace %s not allowlisted", def.Type.PkgPath()))
	}

	instance, strategy, err := c.instantiate(def, id, chain)
	if err != nil {
		return nil, err
	}

	// Step 6: lifetime placement.
	switch def.Lifetime {
	case Singleton:
		c.scopes.AddSingleton(id, instance)
	case Scoped:
		if err := c.scopes.SetScoped(id, instance); err != nil {
			if !c.cfg.Strict {
				c.scopes.AddSingleton(id, instance) // degrade, permitted by config (non-strict)
			} else {
				return nil, newErr(NoActiveScope, id, depth, err)
			}
		}
	}

	c.recordResolution(id, start, strategy)
	return instance, nil
}

func (c *Container) instantiate(def *Definition, id string, chain []string) (any, string, error) {
	depth := len(chain)
	ctx := &Context{container: c, chain: append(append([]string{}, chain...), id)}

	if def.Instance != nil {
		return def.Instance, "instance", nil
	}

	if def.Factory != nil {
		instance, err := def.Factory(ctx)
		if err != nil {
			// A cycle or depth overrun further down the chain surfaces as
			// CyclicOrDeep, not as a NotInstantiable wrapper of it.
			var kerr *Error
			if errors.As(err, &kerr) && kerr.Kind == CyclicOrDeep {
				return nil, "", err
			}
			return nil, "", newErr(NotInstantiable, id, depth, err)
		}
		if err := c.inject(def, instance); err != nil {
			return nil, "", err
		}
		return instance, "constructed", nil
	}

	if def.Type != nil {
		instance, err := c.instantiateType(def, ctx)
		if err != nil {
			return nil, "", err
		}
		return instance, "autowired", nil
	}

	return nil, "", newErr(NotInstantiable, id, depth, fmt.Errorf("definition has neither factory, type nor instance"))
}

func (c *Container) instantiateType(def *Definition, ctx *Context) (any, error) {
	depth := ctx.Depth()

	proto, err := c.loadOrAnalyze(def.Type)
	if err != nil {
		return nil, newErr(NotInstantiable, def.ID, depth, err)
	}

	elemType := def.Type
	for elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	ptr := reflect.New(elemType) // always build the addressable struct first

	for _, prop := range proto.InjectedProperties {
		dep, err := ctx.Resolve(prop.ServiceID)
		if err != nil {
			if prop.Optional {
				continue
			}
			if _, isAmbiguous := resolveUnion(c, prop.ServiceID); isAmbiguous {
				return nil, newErr(AmbiguousType, prop.ServiceID, depth, err)
			}
			return nil, err
		}
		field := ptr.Elem().FieldByName(prop.Name)
		if field.CanSet() && dep != nil {
			field.Set(reflect.ValueOf(dep))
		}
	}

	if err := c.injectMethods(def, ptr); err != nil {
		return nil, err
	}

	if def.Type.Kind() == reflect.Ptr {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

func (c *Container) inject(def *Definition, instance any) error {
	return c.injectMethods(def, reflect.ValueOf(instance))
}

func (c *Container) injectMethods(def *Definition, v reflect.Value) error {
	for _, name := range def.InjectMethods {
		m := v.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		spec, err := c.analyzer.AnalyzeMethod(v.Type(), name)
		if err != nil {
			return newErr(NotInstantiable, def.ID, 0, err)
		}
		args := make([]reflect.Value, 0, len(spec.Params))
		for _, p := range spec.Params {
			dep, err := c.Resolve(p.ServiceID)
			if err != nil {
				if p.Optional {
					args = append(args, reflect.Zero(m.Type().In(len(args))))
					continue
				}
				return err
			}
			args = append(args, reflect.ValueOf(dep))
		}
		m.Call(args)
	}
	return nil
}

// loadOrAnalyze consults the blueprint cache, falling to the analyzer on a
// miss and persisting the result (§4.4 step 4).
func (c *Container) loadOrAnalyze(t reflect.Type) (*blueprintcache.ServicePrototype, error) {
	key := qualifiedName(elemOf(t))
	if proto, err := c.cache.Get(key); err == nil {
		return proto, nil
	}
	proto, err := c.analyzer.AnalyzeType(t)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, proto) // a cache write failure is not fatal; recompute next time
	return proto, nil
}

func elemOf(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// resolveUnion applies the tie-break rule from §4.4: first registered, then
// first alphabetically, across every definition that declares serviceID as
// an alias. It is used only to decide whether a failed optional resolution
// should surface as AmbiguousType.
func resolveUnion(c *Container, serviceID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var candidates []string
	for id, def := range c.definitions {
		if _, ok := def.Aliases[serviceID]; ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) <= 1 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

func (c *Container) recordResolution(id string, start time.Time, strategy string) {
	c.telemetry.RecordResolution(telemetry.ResolutionEvent{
		Abstract:   id,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Strategy:   strategy,
	})
}
