package kernel

// Context is resolveContext's input/threading object: it carries the
// in-flight resolution chain (for cycle detection) and lets a factory pull
// further dependencies back through the same pipeline.
type Context struct {
	container *Container
	chain     []string // ordered service ids currently being resolved
}

// Resolve lets a factory recursively resolve another dependency through the
// same pipeline (declaration-order guarantee, §4.4 step 5).
func (c *Context) Resolve(id string) (any, error) {
	return c.container.resolveChained(id, c.chain)
}

// Depth reports how deep the current resolution chain is.
func (c *Context) Depth() int { return len(c.chain) }

func (c *Context) push(id string) *Context {
	chain := make([]string, len(c.chain)+1)
	copy(chain, c.chain)
	chain[len(c.chain)] = id
	return &Context{container: c.container, chain: chain}
}
