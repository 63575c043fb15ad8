package query

func (b Builder) GroupBy(cols ...string) (Builder, error) {
	for _, c := range cols {
		if err := ValidateIdentifier(c); err != nil {
			return b, err
		}
	}
	return b.with(func(s *State) { s.Groups = append(s.Groups, cols...) }), nil
}

func (b Builder) Having(col, op string, value any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	if err := ValidateOperator(op); err != nil {
		return b, err
	}
	return b.with(func(s *State) {
		s.Havings = append(s.Havings, Predicate{Boolean: "AND", Kind: "basic", Column: col, Op: op, Value: value})
	}), nil
}

func (b Builder) OrderBy(col, dir string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	if dir != "asc" && dir != "desc" {
		return b, newErr(InvalidCriteria, "order direction must be asc or desc")
	}
	return b.with(func(s *State) { s.Orders = append(s.Orders, OrderSpec{Column: col, Dir: dir}) }), nil
}

// OrderByField orders by an explicit value list, compiled as a CASE
// expression on every dialect (§4.10).
func (b Builder) OrderByField(col string, values []string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.with(func(s *State) { s.Orders = append(s.Orders, OrderSpec{Field: col, Values: values}) }), nil
}

// OrderByRand / InRandomOrder both request dialect-aware random ordering:
// RANDOM() on Postgres/SQLite, RAND() on MySQL (§4.10).
func (b Builder) OrderByRand() Builder {
	return b.with(func(s *State) { s.Orders = append(s.Orders, OrderSpec{Rand: true}) })
}

func (b Builder) InRandomOrder() Builder { return b.OrderByRand() }
