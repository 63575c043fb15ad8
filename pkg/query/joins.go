package query

// JoinBuilder is the sub-builder handed to callers composing ON/OR-ON
// conditions for a single join (§4.10).
type JoinBuilder struct {
	join JoinClause
}

func (jb JoinBuilder) On(a, op, b string) JoinBuilder {
	jb.join.Conditions = append(jb.join.Conditions, Predicate{Boolean: "AND", Kind: "column", Column: a, Op: op, Column2: b})
	return jb
}

func (jb JoinBuilder) OrOn(a, op, b string) JoinBuilder {
	jb.join.Conditions = append(jb.join.Conditions, Predicate{Boolean: "OR", Kind: "column", Column: a, Op: op, Column2: b})
	return jb
}

func (b Builder) joinWith(joinType, table, alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	if err := ValidateIdentifier(table); err != nil {
		return b, err
	}
	jb := JoinBuilder{join: JoinClause{Type: joinType, Table: table, Alias: alias}}
	jb = build(jb)
	return b.with(func(s *State) { s.Joins = append(s.Joins, jb.join) }), nil
}

func (b Builder) Join(table, alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	return b.joinWith("inner", table, alias, build)
}
func (b Builder) LeftJoin(table, alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	return b.joinWith("left", table, alias, build)
}
func (b Builder) RightJoin(table, alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	return b.joinWith("right", table, alias, build)
}
func (b Builder) FullOuterJoin(table, alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	return b.joinWith("full", table, alias, build)
}
func (b Builder) CrossJoin(table, alias string) (Builder, error) {
	return b.joinWith("cross", table, alias, func(jb JoinBuilder) JoinBuilder { return jb })
}
func (b Builder) NaturalJoin(table, alias string) (Builder, error) {
	return b.joinWith("natural", table, alias, func(jb JoinBuilder) JoinBuilder { return jb })
}

// SelfJoin joins the builder's own table against itself under alias.
func (b Builder) SelfJoin(alias string, build func(JoinBuilder) JoinBuilder) (Builder, error) {
	return b.joinWith("inner", b.state.Table, alias, build)
}
