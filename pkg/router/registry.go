package router

// Registry is §4.5's per-bootstrap isolated route buffer: no process-wide
// state, so concurrent route-file evaluations never leak into each other.
type Registry struct {
	builders []*Builder
	fallback *HandlerRef
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) add(b *Builder) *Builder {
	r.builders = append(r.builders, b)
	return b
}

func (r *Registry) Fallback(h HandlerRef) {
	r.fallback = &h
}

// Definitions compiles every buffered builder into a Definition, in
// declaration order, failing fast on the first invalid path or duplicate
// name.
func (r *Registry) Definitions() ([]*Definition, error) {
	defs := make([]*Definition, 0, len(r.builders))
	seenNames := make(map[string]struct{})
	for _, b := range r.builders {
		def, err := b.compile()
		if err != nil {
			return nil, err
		}
		if def.Name != "" {
			if _, dup := seenNames[def.Name]; dup {
				return nil, newErr(DuplicateRoute, def.Name)
			}
			seenNames[def.Name] = struct{}{}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Scoped runs fn against a fresh Registry and restores nothing (there is
// nothing process-global to restore in this Go port — the isolation
// guarantee comes from allocating a new Registry per call, matching §4.5's
// "save/restore" semantics without any shared mutable buffer). On panic or
// error from fn, the fresh registry (and anything buffered into it) is
// simply discarded by the caller, leaving no residual state.
func Scoped(fn func(dsl *Dsl)) *Registry {
	reg := NewRegistry()
	dsl := NewDsl(reg)
	fn(dsl)
	return reg
}
