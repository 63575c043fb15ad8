// Package sqlexecutor adapts pkg/query's Executor/Tx seam onto database/sql
// with the lib/pq driver, for deployments that prefer the standard
// connection-pooling story over pgxpool (§4.11).
package sqlexecutor

import (
	"context"
	"database/sql"
	"regexp"

	_ "github.com/lib/pq"

	"github.com/aras-services/corefw/pkg/query"
)

var namedParamRe = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

func rewrite(sqlText string, bindings []query.Binding) (string, []any) {
	byKey := make(map[string]any, len(bindings))
	for _, b := range bindings {
		byKey[b.Key] = b.Value
	}
	args := make([]any, 0, len(bindings))
	n := 0
	out := namedParamRe.ReplaceAllStringFunc(sqlText, func(match string) string {
		key := match[1:]
		v, ok := byKey[key]
		if !ok {
			return match
		}
		n++
		args = append(args, v)
		return "$" + itoa(n)
	})
	return out, args
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Executor wraps a *sql.DB opened against the "postgres" driver.
type Executor struct {
	db *sql.DB
}

func Open(dsn string) (*Executor, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &Executor{db: db}, nil
}

func New(db *sql.DB) *Executor { return &Executor{db: db} }

// Close releases the underlying connection pool.
func (e *Executor) Close() error { return e.db.Close() }

func (e *Executor) Exec(ctx context.Context, sqlText string, bindings []query.Binding) (int64, error) {
	stmt, args := rewrite(sqlText, bindings)
	res, err := e.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *Executor) Query(ctx context.Context, sqlText string, bindings []query.Binding) ([]query.Row, error) {
	stmt, args := rewrite(sqlText, bindings)
	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (e *Executor) Begin(ctx context.Context) (query.Tx, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Exec(ctx context.Context, sqlText string, bindings []query.Binding) (int64, error) {
	stmt, args := rewrite(sqlText, bindings)
	res, err := t.tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *Tx) Query(ctx context.Context, sqlText string, bindings []query.Binding) ([]query.Row, error) {
	stmt, args := rewrite(sqlText, bindings)
	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (t *Tx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name)
	return err
}

func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *Tx) RollbackTo(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name)
	return err
}

func (t *Tx) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback() }

func collect(rows *sql.Rows) ([]query.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []query.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(query.Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
