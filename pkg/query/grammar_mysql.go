package query

import (
	"fmt"
	"strings"
)

// MySQLGrammar quotes identifiers with backticks and compiles upserts as
// INSERT ... ON DUPLICATE KEY UPDATE (§4.10 dialect matrix).
type MySQLGrammar struct {
	base
}

func NewMySQLGrammar() MySQLGrammar {
	return MySQLGrammar{base{quoteChar: '`', dialect: "mysql", random: "RAND()"}}
}

func (g MySQLGrammar) CompileUpsert(s State, updateCols []string) (string, []Binding, error) {
	insertSQL, bindings, err := g.CompileInsert(s)
	if err != nil {
		return "", nil, err
	}
	if len(updateCols) == 0 {
		return insertSQL, bindings, nil
	}
	sets := make([]string, len(updateCols))
	for i, c := range updateCols {
		q := g.Quote(c)
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}
	return insertSQL + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", "), bindings, nil
}

func (g MySQLGrammar) CompileCreateDatabase(name string) string {
	return "CREATE DATABASE IF NOT EXISTS " + g.Quote(name)
}

func (g MySQLGrammar) CompileDropDatabase(name string) string {
	return "DROP DATABASE IF EXISTS " + g.Quote(name)
}

func (g MySQLGrammar) CompileUseDatabase(name string) string {
	return "USE " + g.Quote(name)
}

func (g MySQLGrammar) CompileRenameTable(from, to string) string {
	return fmt.Sprintf("RENAME TABLE %s TO %s", g.Quote(from), g.Quote(to))
}

func (g MySQLGrammar) CompileDropTable(name string) string {
	return "DROP TABLE IF EXISTS " + g.Quote(name)
}

func (g MySQLGrammar) CompileTableExists(name string) (string, []Binding) {
	key := bindingKey("table_name")
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = :" + key,
		[]Binding{{Key: key, Value: name}}
}

func (g MySQLGrammar) CompileDatabaseExists(name string) (string, []Binding) {
	key := bindingKey("schema_name")
	return "SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = :" + key,
		[]Binding{{Key: key, Value: name}}
}
