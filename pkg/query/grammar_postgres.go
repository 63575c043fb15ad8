package query

import (
	"fmt"
	"strings"
)

// PostgresGrammar quotes identifiers with double quotes and compiles
// upserts as INSERT ... ON CONFLICT DO UPDATE (§4.10 dialect matrix).
type PostgresGrammar struct {
	base
}

func NewPostgresGrammar() PostgresGrammar {
	return PostgresGrammar{base{quoteChar: '"', dialect: "postgres", random: "RANDOM()"}}
}

func (g PostgresGrammar) CompileUpsert(s State, updateCols []string) (string, []Binding, error) {
	insertSQL, bindings, err := g.CompileInsert(s)
	if err != nil {
		return "", nil, err
	}
	if len(updateCols) == 0 {
		return insertSQL + " ON CONFLICT DO NOTHING", bindings, nil
	}
	sets := make([]string, len(updateCols))
	for i, c := range updateCols {
		q := g.Quote(c)
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
	}
	return insertSQL + " ON CONFLICT DO UPDATE SET " + strings.Join(sets, ", "), bindings, nil
}

func (g PostgresGrammar) CompileCreateDatabase(name string) string {
	return "CREATE DATABASE " + g.Quote(name)
}

func (g PostgresGrammar) CompileDropDatabase(name string) string {
	return "DROP DATABASE IF EXISTS " + g.Quote(name)
}

func (g PostgresGrammar) CompileUseDatabase(name string) string {
	// Postgres has no USE statement; callers switch databases by opening a
	// new connection. \connect is a psql meta-command, not SQL, so the
	// closest SQL-level equivalent is a no-op SET search_path reset.
	return "SET search_path TO public"
}

func (g PostgresGrammar) CompileRenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", g.Quote(from), g.Quote(to))
}

func (g PostgresGrammar) CompileDropTable(name string) string {
	return "DROP TABLE IF EXISTS " + g.Quote(name)
}

func (g PostgresGrammar) CompileTableExists(name string) (string, []Binding) {
	key := bindingKey("table_name")
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = :" + key,
		[]Binding{{Key: key, Value: name}}
}

func (g PostgresGrammar) CompileDatabaseExists(name string) (string, []Binding) {
	key := bindingKey("datname")
	return "SELECT COUNT(*) FROM pg_database WHERE datname = :" + key,
		[]Binding{{Key: key, Value: name}}
}
