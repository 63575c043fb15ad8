package query

import (
	"fmt"
	"strings"
)

// Grammar is the dialect-specific compiler translating a State into a
// concrete SQL string plus bindings (§4.10 "Dialect-aware grammar").
type Grammar interface {
	Dialect() string
	Quote(identifier string) string
	RandomFunc() string

	CompileSelect(State) (string, []Binding, error)
	CompileInsert(State) (string, []Binding, error)
	CompileUpdate(State) (string, []Binding, error)
	CompileDelete(State) (string, []Binding, error)
	CompileUpsert(State, []string) (string, []Binding, error)

	CompileCreateDatabase(name string) string
	CompileDropDatabase(name string) string
	CompileUseDatabase(name string) string
	CompileRenameTable(from, to string) string
	CompileDropTable(name string) string
	CompileTableExists(name string) (string, []Binding)
	CompileDatabaseExists(name string) (string, []Binding)
}

// base implements everything dialect-neutral; MySQL/Postgres/SQLite embed
// it and only override quoting, upsert syntax and a couple of DDL verbs.
type base struct {
	quoteChar byte
	dialect   string
	random    string
}

func (g base) Dialect() string    { return g.dialect }
func (g base) RandomFunc() string { return g.random }

func (g base) Quote(id string) string {
	q := string(g.quoteChar)
	return q + strings.ReplaceAll(id, q, q+q) + q
}

func (g base) CompileSelect(s State) (string, []Binding, error) {
	var sb strings.Builder
	var bindings []Binding

	sb.WriteString("SELECT ")
	if s.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(g.compileColumns(s.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(g.Quote(s.Table))

	for _, j := range s.Joins {
		clause, jb, err := g.compileJoin(j)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" ")
		sb.WriteString(clause)
		bindings = append(bindings, jb...)
	}

	if len(s.Conditions) > 0 {
		clause, wb, err := g.compilePredicates(s.Conditions)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
		bindings = append(bindings, wb...)
	}

	if len(s.Groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(g.quoteList(s.Groups))
	}

	if len(s.Havings) > 0 {
		clause, hb, err := g.compilePredicates(s.Havings)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" HAVING ")
		sb.WriteString(clause)
		bindings = append(bindings, hb...)
	}

	if len(s.Orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(g.compileOrders(s.Orders))
	}

	if s.Limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *s.Limit)
	}
	if s.Offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *s.Offset)
	}

	return sb.String(), bindings, nil
}

func (g base) compileColumns(cols []any) string {
	if len(cols) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		switch v := c.(type) {
		case Expression:
			parts = append(parts, v.String())
		case string:
			parts = append(parts, g.Quote(v))
		}
	}
	return strings.Join(parts, ", ")
}

func (g base) quoteList(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = g.Quote(c)
	}
	return strings.Join(parts, ", ")
}

func (g base) compileJoin(j JoinClause) (string, []Binding, error) {
	verb := map[string]string{
		"inner": "INNER JOIN", "left": "LEFT JOIN", "right": "RIGHT JOIN",
		"full": "FULL OUTER JOIN", "cross": "CROSS JOIN", "natural": "NATURAL JOIN",
	}[j.Type]
	if verb == "" {
		verb = "JOIN"
	}
	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteString(" ")
	sb.WriteString(g.Quote(j.Table))
	if j.Alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(g.Quote(j.Alias))
	}
	if len(j.Conditions) > 0 {
		clause, bindings, err := g.compilePredicates(j.Conditions)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" ON ")
		sb.WriteString(clause)
		return sb.String(), bindings, nil
	}
	return sb.String(), nil, nil
}

func (g base) compileOrders(orders []OrderSpec) string {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		switch {
		case o.Rand:
			parts = append(parts, g.random)
		case o.Raw != nil:
			parts = append(parts, o.Raw.String())
		case len(o.Values) > 0:
			// Portable fallback: CASE-based ordinal ordering works on every
			// supported dialect, unlike MySQL's FIELD().
			var cb strings.Builder
			cb.WriteString("CASE ")
			cb.WriteString(g.Quote(o.Field))
			for i, v := range o.Values {
				fmt.Fprintf(&cb, " WHEN '%s' THEN %d", strings.ReplaceAll(v, "'", "''"), i)
			}
			cb.WriteString(" END")
			parts = append(parts, cb.String())
		default:
			dir := strings.ToUpper(o.Dir)
			if dir == "" {
				dir = "ASC"
			}
			parts = append(parts, g.Quote(o.Column)+" "+dir)
		}
	}
	return strings.Join(parts, ", ")
}

// compilePredicates renders a predicate list joined by each node's own
// boolean connective (the first node's Boolean is ignored at top level).
func (g base) compilePredicates(preds []Predicate) (string, []Binding, error) {
	var sb strings.Builder
	var bindings []Binding
	for i, p := range preds {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(p.Boolean)
			sb.WriteString(" ")
		}
		clause, b, err := g.compilePredicate(p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(clause)
		bindings = append(bindings, b...)
	}
	return sb.String(), bindings, nil
}

func (g base) compilePredicate(p Predicate) (string, []Binding, error) {
	switch p.Kind {
	case "basic":
		key := bindingKey(p.Column)
		return fmt.Sprintf("%s %s :%s", g.Quote(p.Column), p.Op, key), []Binding{{Key: key, Value: p.Value}}, nil
	case "null":
		return fmt.Sprintf("%s IS NULL", g.Quote(p.Column)), nil, nil
	case "notnull":
		return fmt.Sprintf("%s IS NOT NULL", g.Quote(p.Column)), nil, nil
	case "in", "notin":
		if len(p.Values) == 0 {
			// An empty IN-list can never match; 1=0 keeps the clause valid SQL.
			if p.Kind == "in" {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		keys := make([]string, len(p.Values))
		bindings := make([]Binding, len(p.Values))
		for i, v := range p.Values {
			k := bindingKey(p.Column)
			keys[i] = ":" + k
			bindings[i] = Binding{Key: k, Value: v}
		}
		verb := "IN"
		if p.Kind == "notin" {
			verb = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", g.Quote(p.Column), verb, strings.Join(keys, ", ")), bindings, nil
	case "between":
		loKey, hiKey := bindingKey(p.Column), bindingKey(p.Column)
		return fmt.Sprintf("%s BETWEEN :%s AND :%s", g.Quote(p.Column), loKey, hiKey),
			[]Binding{{Key: loKey, Value: p.Values[0]}, {Key: hiKey, Value: p.Values[1]}}, nil
	case "column":
		if err := ValidateOperator(p.Op); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s %s", g.Quote(p.Column), p.Op, g.Quote(p.Column2)), nil, nil
	case "raw":
		return p.Raw.String(), rawBindings(p.RawArgs), nil
	case "jsoncontains":
		key := bindingKey(p.Column)
		return fmt.Sprintf("%s @> :%s", g.Quote(p.Column), key), []Binding{{Key: key, Value: p.Value}}, nil
	case "fulltext":
		key := bindingKey("search")
		cols := make([]string, 0, len(p.Values))
		for _, c := range p.Values {
			cols = append(cols, g.Quote(c.(string)))
		}
		return fmt.Sprintf("to_tsvector(%s) @@ plainto_tsquery(:%s)", strings.Join(cols, " || ' ' || "), key),
			[]Binding{{Key: key, Value: p.Value}}, nil
	case "today":
		return fmt.Sprintf("%s::date = CURRENT_DATE", g.Quote(p.Column)), nil, nil
	case "past":
		return fmt.Sprintf("%s < NOW()", g.Quote(p.Column)), nil, nil
	case "future":
		return fmt.Sprintf("%s > NOW()", g.Quote(p.Column)), nil, nil
	default:
		return "", nil, newErr(InvalidCriteria, fmt.Sprintf("unknown predicate kind %q", p.Kind))
	}
}

func rawBindings(args []any) []Binding {
	bindings := make([]Binding, len(args))
	for i, v := range args {
		bindings[i] = Binding{Key: bindingKey("raw"), Value: v}
	}
	return bindings
}

func (g base) CompileInsert(s State) (string, []Binding, error) {
	cols, bindings := g.compileValueList(s.Values)
	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, g.Quote(c))
	}
	for _, b := range bindings {
		placeholders = append(placeholders, ":"+b.Key)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", g.Quote(s.Table), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return sql, bindings, nil
}

// compileValueList deterministically orders columns (map iteration order is
// not stable) and produces one binding per value.
func (g base) compileValueList(values map[string]any) ([]string, []Binding) {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sortStrings(cols)
	bindings := make([]Binding, len(cols))
	for i, c := range cols {
		v := values[c]
		if expr, ok := v.(Expression); ok {
			bindings[i] = Binding{Key: "", Value: expr}
		} else {
			bindings[i] = Binding{Key: bindingKey(c), Value: v}
		}
	}
	return cols, bindings
}

func (g base) CompileUpdate(s State) (string, []Binding, error) {
	cols, bindings := g.compileValueList(s.Values)
	sets := make([]string, len(cols))
	finalBindings := make([]Binding, 0, len(bindings))
	for i, c := range cols {
		b := bindings[i]
		if expr, ok := b.Value.(Expression); ok {
			sets[i] = fmt.Sprintf("%s = %s", g.Quote(c), expr.String())
			continue
		}
		sets[i] = fmt.Sprintf("%s = :%s", g.Quote(c), b.Key)
		finalBindings = append(finalBindings, b)
	}
	sql := fmt.Sprintf("UPDATE %s SET %s", g.Quote(s.Table), strings.Join(sets, ", "))
	if len(s.Conditions) > 0 {
		clause, wb, err := g.compilePredicates(s.Conditions)
		if err != nil {
			return "", nil, err
		}
		sql += " WHERE " + clause
		finalBindings = append(finalBindings, wb...)
	}
	return sql, finalBindings, nil
}

func (g base) CompileDelete(s State) (string, []Binding, error) {
	sql := "DELETE FROM " + g.Quote(s.Table)
	var bindings []Binding
	if len(s.Conditions) > 0 {
		clause, wb, err := g.compilePredicates(s.Conditions)
		if err != nil {
			return "", nil, err
		}
		sql += " WHERE " + clause
		bindings = wb
	}
	return sql, bindings, nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
