package query

// Builder is the fluent, immutable SQL composer (§4.10). Every mutator
// clones the underlying State and returns a new Builder value — callers
// must use the returned value, exactly like the teacher's ContainerConfig
// readonly-with* pattern generalized to SQL.
type Builder struct {
	state   State
	grammar Grammar
}

// New starts a SELECT * FROM table builder for the given dialect.
func New(table string, grammar Grammar) Builder {
	return Builder{state: NewState(table), grammar: grammar}
}

func (b Builder) with(mutate func(*State)) Builder {
	s := b.state.clone()
	mutate(&s)
	return Builder{state: s, grammar: b.grammar}
}

// State exposes the immutable AST snapshot (read-only use, e.g. tests).
func (b Builder) State() State { return b.state }

func (b Builder) From(table string) Builder {
	return b.with(func(s *State) { s.Table = table })
}

func (b Builder) Select(cols ...string) Builder {
	return b.with(func(s *State) {
		s.Columns = s.Columns[:0]
		for _, c := range cols {
			s.Columns = append(s.Columns, c)
		}
	})
}

func (b Builder) SelectRaw(expr Expression) Builder {
	return b.with(func(s *State) { s.Columns = append(s.Columns, expr) })
}

func (b Builder) Distinct() Builder {
	return b.with(func(s *State) { s.Distinct = true })
}

// Limit enforces the §8 boundary: limit(0) permitted, negatives rejected.
func (b Builder) Limit(n int) (Builder, error) {
	if n < 0 {
		return b, newErr(InvalidCriteria, "limit must be >= 0")
	}
	return b.with(func(s *State) { s.Limit = &n }), nil
}

func (b Builder) Offset(n int) (Builder, error) {
	if n < 0 {
		return b, newErr(InvalidCriteria, "offset must be >= 0")
	}
	return b.with(func(s *State) { s.Offset = &n }), nil
}

// Compile dispatches to the dialect Grammar based on State.Operation.
func (b Builder) Compile() (string, []Binding, error) {
	s := withSoftDeleteFilter(b.state)
	switch s.Operation {
	case "insert":
		return b.grammar.CompileInsert(s)
	case "update":
		return b.grammar.CompileUpdate(s)
	case "delete":
		return b.grammar.CompileDelete(s)
	case "upsert":
		return b.grammar.CompileUpsert(s, s.Groups)
	default:
		return b.grammar.CompileSelect(s)
	}
}
