package router

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Dsl is the fluent route registration surface (§4.7): get/post/.../group/
// fallback, buffering into the Registry it was built over.
type Dsl struct {
	registry *Registry
	stack    []GroupContext
}

func NewDsl(registry *Registry) *Dsl {
	return &Dsl{registry: registry}
}

func (d *Dsl) currentGroup() GroupContext {
	if len(d.stack) == 0 {
		return GroupContext{}
	}
	return d.stack[len(d.stack)-1]
}

// Group pushes attributes onto the group stack, runs fn, then pops.
// Child builders inherit the concatenation of every ancestor (§4.7).
func (d *Dsl) Group(attrs GroupContext, fn func(d *Dsl)) {
	merged := mergeGroup(d.currentGroup(), attrs)
	d.stack = append(d.stack, merged)
	fn(d)
	d.stack = d.stack[:len(d.stack)-1]
}

func (d *Dsl) Fallback(h HandlerRef) {
	d.registry.Fallback(h)
}

// method buffers a single-method builder; an empty path is not rejected
// here but surfaces as InvalidPath when Registry.Definitions() compiles it.
func (d *Dsl) method(m Method, path string, action HandlerRef) *Builder {
	b := newBuilder(d.currentGroup(), []Method{m}, path, action)
	return d.registry.add(b)
}

func (d *Dsl) Get(path string, action HandlerRef) *Builder     { return d.method(GET, path, action) }
func (d *Dsl) Post(path string, action HandlerRef) *Builder    { return d.method(POST, path, action) }
func (d *Dsl) Put(path string, action HandlerRef) *Builder     { return d.method(PUT, path, action) }
func (d *Dsl) Patch(path string, action HandlerRef) *Builder   { return d.method(PATCH, path, action) }
func (d *Dsl) Delete(path string, action HandlerRef) *Builder  { return d.method(DELETE, path, action) }
func (d *Dsl) Options(path string, action HandlerRef) *Builder { return d.method(OPTIONS, path, action) }
func (d *Dsl) Head(path string, action HandlerRef) *Builder    { return d.method(HEAD, path, action) }
func (d *Dsl) Any(path string, action HandlerRef) *Builder     { return d.method(ANY, path, action) }

// AnyExpanded registers a single route whose method set is every non-ANY
// method, returned as a one-element slice (§4.7).
func (d *Dsl) AnyExpanded(path string, action HandlerRef) []*Builder {
	out := make([]*Builder, 0, len(AllMethods))
	b := newBuilder(d.currentGroup(), AllMethods, path, action)
	out = append(out, d.registry.add(b))
	return out
}

// Method registers an arbitrary method by name, rejecting anything outside
// the closed enumeration with UnsupportedMethod (§4.7).
func (d *Dsl) Method(name, path string, action HandlerRef) (*Builder, error) {
	m, ok := parseMethod(name)
	if !ok {
		return nil, newErr(UnsupportedMethod, name)
	}
	return d.method(m, path, action), nil
}

// RegisterAttributes implements §4.7's "attribute-driven route discovery on
// a controller class": controllerRef is a struct (or pointer to one) whose
// exported fields of type HandlerRef carry a `route:"METHOD /path"` struct
// tag, with optional `middleware:"a,b"`, `authorization:"policy"` and
// `name:"route.name"` tags alongside it. Go attaches no metadata to methods,
// so the controller declares one HandlerRef field per action instead of a
// tagged method — the same reflect-over-tagged-fields shape
// pkg/kernel/analyzer.go's AnalyzeType uses for injected properties,
// applied here to route registration instead of DI.
func (d *Dsl) RegisterAttributes(controllerRef any) error {
	v := reflect.ValueOf(controllerRef)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return newErr(InvalidPath, "registerAttributes: nil controller")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return newErr(InvalidPath, "registerAttributes: controllerRef must be a struct or a pointer to one")
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("route")
		if !ok {
			continue
		}

		parts := strings.SplitN(tag, " ", 2)
		if len(parts) != 2 {
			return newErr(InvalidPath, fmt.Sprintf("registerAttributes: malformed route tag %q on field %s", tag, f.Name))
		}
		methodName, path := parts[0], parts[1]

		action, ok := v.Field(i).Interface().(HandlerRef)
		if !ok {
			return newErr(InvalidPath, fmt.Sprintf("registerAttributes: field %s has a route tag but is not a HandlerRef", f.Name))
		}

		m, ok := parseMethod(methodName)
		if !ok {
			return newErr(UnsupportedMethod, methodName)
		}
		b := d.method(m, path, action)

		if mw, ok := f.Tag.Lookup("middleware"); ok && mw != "" {
			b.Middleware(strings.Split(mw, ",")...)
		}
		if authz, ok := f.Tag.Lookup("authorization"); ok && authz != "" {
			b.Authorization(authz)
		}
		if name, ok := f.Tag.Lookup("name"); ok && name != "" {
			b.Name(name)
		}
	}
	return nil
}

// NoActiveGroup-guarded group-only operations: these mutate the current
// top-of-stack group context in place rather than a single route, and only
// make sense while inside a Group() callback (§4.7 Constraint).

func (d *Dsl) requireGroup() (*GroupContext, error) {
	if len(d.stack) == 0 {
		return nil, newErr(NoActiveGroup, "no active group context")
	}
	return &d.stack[len(d.stack)-1], nil
}

func (d *Dsl) GroupName(prefix string) error {
	g, err := d.requireGroup()
	if err != nil {
		return err
	}
	g.NamePrefix += prefix
	return nil
}

func (d *Dsl) GroupMiddleware(mw ...string) error {
	g, err := d.requireGroup()
	if err != nil {
		return err
	}
	g.Middleware = dedupConcat(g.Middleware, mw)
	return nil
}

func (d *Dsl) GroupAuthorization(policy string) error {
	g, err := d.requireGroup()
	if err != nil {
		return err
	}
	g.Authorization = policy
	return nil
}

// Builder is the per-route fluent chain (§4.7). Each call returns the same
// builder so calls may be chained.
type Builder struct {
	group       GroupContext
	methods     []Method
	path        string
	action      HandlerRef
	name        string
	middleware  []string
	constraints map[string]string
	defaults    map[string]any
	attributes  map[string]any
	domain      string
	authz       string
}

func newBuilder(group GroupContext, methods []Method, path string, action HandlerRef) *Builder {
	return &Builder{
		group:       group,
		methods:     methods,
		path:        path,
		action:      action,
		constraints: make(map[string]string),
		defaults:    make(map[string]any),
		attributes:  make(map[string]any),
	}
}

func (b *Builder) Name(s string) *Builder {
	b.name = s
	return b
}

func (b *Builder) Middleware(mw ...string) *Builder {
	b.middleware = append(b.middleware, mw...)
	return b
}

func (b *Builder) Where(constraints map[string]string) *Builder {
	for k, v := range constraints {
		b.constraints[k] = v
	}
	return b
}

func (b *Builder) Defaults(d map[string]any) *Builder {
	for k, v := range d {
		b.defaults[k] = v
	}
	return b
}

func (b *Builder) Attributes(a map[string]any) *Builder {
	for k, v := range a {
		b.attributes[k] = v
	}
	return b
}

func (b *Builder) Authorization(policy string) *Builder {
	b.authz = policy
	return b
}

func (b *Builder) Domain(host string) *Builder {
	b.domain = host
	return b
}

func (b *Builder) compile() (*Definition, error) {
	pattern, _, err := CompilePath(b.group.Prefix + b.path)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Methods:     make(map[Method]struct{}, len(b.methods)),
		Path:        b.group.Prefix + b.path,
		PathPattern: pattern,
		Action:      b.action,
		Middleware:  dedupConcat(b.group.Middleware, b.middleware),
		Defaults:    mergeAnyMaps(b.group.Defaults, b.defaults),
		Attributes:  mergeAnyMaps(b.group.Attributes, b.attributes),
		Name:        b.group.NamePrefix + b.name,
	}
	for _, m := range b.methods {
		def.Methods[m] = struct{}{}
	}

	def.Domain = b.domain
	if def.Domain == "" {
		def.Domain = b.group.Domain
	}
	if def.Domain != "" {
		dp, err := CompileDomain(def.Domain)
		if err != nil {
			return nil, newErr(InvalidPath, fmt.Sprintf("invalid domain %q: %v", def.Domain, err))
		}
		def.DomainPattern = dp
	}

	def.Authorization = b.authz
	if def.Authorization == "" {
		def.Authorization = b.group.Authorization
	}

	mergedConstraints := make(map[string]string, len(b.group.Constraints)+len(b.constraints))
	for k, v := range b.group.Constraints {
		mergedConstraints[k] = v
	}
	for k, v := range b.constraints {
		mergedConstraints[k] = v
	}
	def.Constraints = make(map[string]*regexp.Regexp, len(mergedConstraints))
	for name, pat := range mergedConstraints {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, newErr(InvalidPath, fmt.Sprintf("invalid constraint for %q: %v", name, err))
		}
		def.Constraints[name] = re
	}

	return def, nil
}
