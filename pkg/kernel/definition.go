package kernel

import "reflect"

// Lifetime is the closed enumeration from §3 ServiceDefinition.
type Lifetime int

const (
	Transient Lifetime = iota
	Scoped
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "transient"
	}
}

// Factory builds an instance given a resolution Context. It is the Go
// stand-in for the source's reflective constructor (§9 design note:
// "reflection-driven autowiring → explicit registration + codegen option").
type Factory func(ctx *Context) (any, error)

// Definition is §3's ServiceDefinition: how one ServiceId is produced, its
// lifetime, and the aliases/tags it answers to.
type Definition struct {
	ID       string
	Lifetime Lifetime

	// Exactly one of Factory, Type or Instance should be set.
	// Instance (a pre-built InstancePointer) takes precedence, then
	// Factory; Type triggers reflective autowiring.
	Factory  Factory
	Type     reflect.Type
	Instance any

	// InjectMethods names setter methods (by reflect method name) to call
	// after construction — Go's stand-in for annotated setter-injection
	// methods, since there is no attribute reflection over methods.
	InjectMethods []string

	Aliases map[string]struct{}
	Tags    map[string]struct{}
}

// NewDefinition builds a Definition with empty alias/tag sets.
func NewDefinition(id string, lifetime Lifetime) *Definition {
	return &Definition{
		ID:       id,
		Lifetime: lifetime,
		Aliases:  make(map[string]struct{}),
		Tags:     make(map[string]struct{}),
	}
}

func (d *Definition) WithFactory(f Factory) *Definition {
	d.Factory = f
	return d
}

func (d *Definition) WithType(t reflect.Type) *Definition {
	d.Type = t
	return d
}

func (d *Definition) WithInstance(v any) *Definition {
	d.Instance = v
	d.Lifetime = Singleton
	return d
}

func (d *Definition) WithInjectMethods(methods ...string) *Definition {
	d.InjectMethods = append(d.InjectMethods, methods...)
	return d
}

func (d *Definition) Alias(id string) *Definition {
	d.Aliases[id] = struct{}{}
	return d
}

func (d *Definition) Tag(tag string) *Definition {
	d.Tags[tag] = struct{}{}
	return d
}
