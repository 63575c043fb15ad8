package query

// Schema compiles idempotency-checked DDL statements (§4.10 Schema ops).
// It is a separate entry point from Builder because these statements have
// no row-level WHERE/ORDER concerns — only identifier validation and
// dialect-specific DDL syntax.
type Schema struct {
	grammar Grammar
}

func NewSchema(grammar Grammar) Schema {
	return Schema{grammar: grammar}
}

func (s Schema) CreateDatabase(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return s.grammar.CompileCreateDatabase(name), nil
}

func (s Schema) DropDatabase(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return s.grammar.CompileDropDatabase(name), nil
}

func (s Schema) UseDatabase(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return s.grammar.CompileUseDatabase(name), nil
}

func (s Schema) RenameTable(from, to string) (string, error) {
	if err := ValidateIdentifier(from); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(to); err != nil {
		return "", err
	}
	return s.grammar.CompileRenameTable(from, to), nil
}

func (s Schema) DropTable(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return s.grammar.CompileDropTable(name), nil
}

func (s Schema) TableExistsQuery(name string) (string, []Binding, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", nil, err
	}
	sql, bindings := s.grammar.CompileTableExists(name)
	return sql, bindings, nil
}

func (s Schema) DatabaseExistsQuery(name string) (string, []Binding, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", nil, err
	}
	sql, bindings := s.grammar.CompileDatabaseExists(name)
	return sql, bindings, nil
}
