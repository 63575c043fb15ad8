// Package pgxexecutor adapts pkg/query's Executor/Tx seam onto pgx/v5
// (§4.11 "the orchestrator never imports a driver package directly").
package pgxexecutor

import (
	"context"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aras-services/corefw/pkg/query"
)

var namedParamRe = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// rewrite turns the compiler's ":key" placeholders into pgx's positional
// "$1, $2, ..." form, returning the arguments in matching order. Grammar
// output always names every binding it emits, so a binding referenced more
// than once in the same statement still gets one positional slot per
// occurrence — simplest to reason about, matching the teacher's general
// avoidance of cleverness in the hot compile path.
func rewrite(sql string, bindings []query.Binding) (string, []any) {
	byKey := make(map[string]any, len(bindings))
	for _, b := range bindings {
		byKey[b.Key] = b.Value
	}
	args := make([]any, 0, len(bindings))
	n := 0
	out := namedParamRe.ReplaceAllStringFunc(sql, func(match string) string {
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

// Executor wraps a pgxpool.Pool.
type Executor struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

func (e *Executor) Exec(ctx context.Context, sql string, bindings []query.Binding) (int64, error) {
	stmt, args := rewrite(sql, bindings)
	tag, err := e.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (e *Executor) Query(ctx context.Context, sql string, bindings []query.Binding) ([]query.Row, error) {
	stmt, args := rewrite(sql, bindings)
	rows, err := e.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (e *Executor) Begin(ctx context.Context) (query.Tx, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx.Tx, implementing nested savepoints through raw SQL since
// pgx's own Begin-on-a-Tx helper names savepoints for you and the
// orchestrator needs to name them itself to match rollback-to calls.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Exec(ctx context.Context, sql string, bindings []query.Binding) (int64, error) {
	stmt, args := rewrite(sql, bindings)
	tag, err := t.tx.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *Tx) Query(ctx context.Context, sql string, bindings []query.Binding) ([]query.Row, error) {
	stmt, args := rewrite(sql, bindings)
	rows, err := t.tx.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (t *Tx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "SAVEPOINT "+name)
	return err
}

func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *Tx) RollbackTo(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+name)
	return err
}

func (t *Tx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func collect(rows pgx.Rows) ([]query.Row, error) {
	fields := rows.FieldDescriptions()
	var out []query.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(query.Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
