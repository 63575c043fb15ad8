// Package blueprintcache implements §4.2: persistence of analyzer-produced
// ServicePrototype blueprints, with a file backend (atomic write, tolerant
// of non-writable directories) and a null backend fallback.
package blueprintcache

// ParamSpec describes one constructor parameter of a blueprint.
type ParamSpec struct {
	Name       string
	ServiceID  string // resolved type/serviceId
	Default    any
	HasDefault bool
	Optional   bool
	Variadic   bool
}

// PropertySpec describes one injectable struct field (setter injection by
// field, analogous to the source's annotated-property injection).
type PropertySpec struct {
	Name      string
	ServiceID string
	Optional  bool
}

// MethodSpec describes one injectable setter method.
type MethodSpec struct {
	Name   string
	Params []ParamSpec
}

// ServicePrototype is the construction plan for a single Go type: what to
// inject into it after a zero-value reflect.New. Type-backed (autowired)
// definitions never call a constructor — there is no Go equivalent of
// reflectively invoking an arbitrary function with resolved arguments — so
// the plan carries only post-construction injection, not ctor parameters.
// Factory-backed definitions skip this plan entirely: the factory closure
// calls ctx.Resolve itself, so there is nothing for the analyzer to extract.
// It is deterministic for a given type until the type's declaration
// changes, and is the unit persisted by a Backend.
type ServicePrototype struct {
	TargetClass        string // fully-qualified class/type name, the cache key
	InjectedProperties []PropertySpec
	InjectedMethods    []MethodSpec
}
