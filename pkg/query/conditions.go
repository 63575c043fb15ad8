package query

// This file is the "HasConditions" mixin (§9: trait-based mixins →
// composition) expressed as Builder methods operating on State.Conditions.

func (b Builder) appendPredicate(p Predicate) Builder {
	return b.with(func(s *State) { s.Conditions = append(s.Conditions, p) })
}

func (b Builder) Where(col, op string, value any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	if value == nil {
		if op == "=" {
			return b.appendPredicate(Predicate{Boolean: "AND", Kind: "null", Column: col}), nil
		}
		if op == "!=" || op == "<>" {
			return b.appendPredicate(Predicate{Boolean: "AND", Kind: "notnull", Column: col}), nil
		}
	}
	if err := ValidateOperator(op); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "basic", Column: col, Op: op, Value: value}), nil
}

func (b Builder) OrWhere(col, op string, value any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	if err := ValidateOperator(op); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "OR", Kind: "basic", Column: col, Op: op, Value: value}), nil
}

func (b Builder) WhereIn(col string, values []any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "in", Column: col, Values: values}), nil
}

func (b Builder) WhereNotIn(col string, values []any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "notin", Column: col, Values: values}), nil
}

func (b Builder) WhereNull(col string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "null", Column: col}), nil
}

func (b Builder) WhereNotNull(col string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "notnull", Column: col}), nil
}

func (b Builder) WhereBetween(col string, lo, hi any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "between", Column: col, Values: []any{lo, hi}}), nil
}

func (b Builder) WhereColumn(a, op, colB string) (Builder, error) {
	if err := ValidateIdentifier(a); err != nil {
		return b, err
	}
	if err := ValidateIdentifier(colB); err != nil {
		return b, err
	}
	if err := ValidateOperator(op); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "column", Column: a, Op: op, Column2: colB}), nil
}

func (b Builder) WhereRaw(expr Expression, bindings ...any) Builder {
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "raw", Raw: &expr, RawArgs: bindings})
}

func (b Builder) WhereJSONContains(col string, value any) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "jsoncontains", Column: col, Value: value}), nil
}

func (b Builder) WhereFullText(cols []string, search string) (Builder, error) {
	for _, c := range cols {
		if err := ValidateIdentifier(c); err != nil {
			return b, err
		}
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "fulltext", Values: toAnySlice(cols), Value: search}), nil
}

func (b Builder) WhereToday(col string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "today", Column: col}), nil
}

func (b Builder) WherePast(col string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "past", Column: col}), nil
}

func (b Builder) WhereFuture(col string) (Builder, error) {
	if err := ValidateIdentifier(col); err != nil {
		return b, err
	}
	return b.appendPredicate(Predicate{Boolean: "AND", Kind: "future", Column: col}), nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
