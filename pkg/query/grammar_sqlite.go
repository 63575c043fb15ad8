package query

import "fmt"

// SQLiteGrammar quotes identifiers with double quotes and compiles upserts
// as INSERT ... ON CONFLICT DO UPDATE, same syntax family as Postgres
// (§4.10 dialect matrix).
type SQLiteGrammar struct {
	base
}

func NewSQLiteGrammar() SQLiteGrammar {
	return SQLiteGrammar{base{quoteChar: '"', dialect: "sqlite", random: "RANDOM()"}}
}

func (g SQLiteGrammar) CompileUpsert(s State, updateCols []string) (string, []Binding, error) {
	insertSQL, bindings, err := g.CompileInsert(s)
	if err != nil {
		return "", nil, err
	}
	if len(updateCols) == 0 {
		return insertSQL + " ON CONFLICT DO NOTHING", bindings, nil
	}
	sets := make([]string, 0, len(updateCols))
	for _, c := range updateCols {
		q := g.Quote(c)
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", q, q))
	}
	sql := insertSQL + " ON CONFLICT DO UPDATE SET "
	for i, s := range sets {
		if i > 0 {
			sql += ", "
		}
		sql += s
	}
	return sql, bindings, nil
}

func (g SQLiteGrammar) CompileCreateDatabase(name string) string {
	// SQLite databases are files opened by connection string; there is no
	// CREATE DATABASE statement. ATTACH is the closest SQL-level analog.
	return fmt.Sprintf("ATTACH DATABASE '%s' AS %s", name, g.Quote(name))
}

func (g SQLiteGrammar) CompileDropDatabase(name string) string {
	return "DETACH DATABASE " + g.Quote(name)
}

func (g SQLiteGrammar) CompileUseDatabase(name string) string {
	// SQLite has no USE statement; ATTACH already binds a schema name, so
	// switching is a no-op pragma read rather than a real statement.
	return "PRAGMA database_list"
}

func (g SQLiteGrammar) CompileRenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", g.Quote(from), g.Quote(to))
}

func (g SQLiteGrammar) CompileDropTable(name string) string {
	return "DROP TABLE IF EXISTS " + g.Quote(name)
}

func (g SQLiteGrammar) CompileTableExists(name string) (string, []Binding) {
	key := bindingKey("table_name")
	return "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = :" + key,
		[]Binding{{Key: key, Value: name}}
}

func (g SQLiteGrammar) CompileDatabaseExists(name string) (string, []Binding) {
	key := bindingKey("name")
	return "SELECT COUNT(*) FROM pragma_database_list WHERE name = :" + key,
		[]Binding{{Key: key, Value: name}}
}
