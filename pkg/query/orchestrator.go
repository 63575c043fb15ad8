package query

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// TransactionFn is the unit of work run inside a (possibly nested)
// transaction. Returning an error rolls the transaction (or its savepoint)
// back; returning nil commits (or releases the savepoint).
type TransactionFn func(ctx context.Context, txn *Transaction) error

// Transaction tracks one level of nesting. Nested calls to
// Orchestrator.Transaction open a savepoint instead of a new physical
// transaction (§4.11 "nested transactions via savepoints").
type Transaction struct {
	tx       Tx
	depth    int
	parent   *Transaction
	identity *IdentityMap
}

func (t *Transaction) Identity() *IdentityMap { return t.identity }
func (t *Transaction) Depth() int             { return t.depth }

func (t *Transaction) Exec(ctx context.Context, b Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	n, err := t.tx.Exec(ctx, sql, bindings)
	if err != nil {
		return 0, wrapDriverErr(err)
	}
	return n, nil
}

func (t *Transaction) Query(ctx context.Context, b Builder) ([]Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	rows, err := t.tx.Query(ctx, sql, bindings)
	if err != nil {
		return nil, wrapDriverErr(err)
	}
	return rows, nil
}

// Orchestrator supervises transaction lifecycles against a single
// Executor, LIFO-releasing savepoints as nested units of work complete
// (§4.11 Transaction orchestration).
type Orchestrator struct {
	executor Executor
	grammar  Grammar
}

func NewOrchestrator(executor Executor, grammar Grammar) *Orchestrator {
	return &Orchestrator{executor: executor, grammar: grammar}
}

// Transaction runs fn inside a transaction. Calling it again from within fn
// (via the *Transaction passed through ctx by the caller's own plumbing)
// is not how nesting is triggered here — nesting instead happens when the
// SAME Orchestrator.Transaction call stack re-enters itself by passing the
// outer *Transaction back in through TransactionNested.
func (o *Orchestrator) Transaction(ctx context.Context, fn TransactionFn) error {
	tx, err := o.executor.Begin(ctx)
	if err != nil {
		return wrapDriverErr(err)
	}
	txn := &Transaction{tx: tx, depth: 0, identity: NewIdentityMap()}
	return o.run(ctx, txn, fn)
}

// TransactionNested runs fn inside a savepoint scoped to parent. Depth
// increases by one; rollback unwinds only to this savepoint, leaving the
// parent transaction and any sibling work intact.
func (o *Orchestrator) TransactionNested(ctx context.Context, parent *Transaction, fn TransactionFn) error {
	name := savepointName()
	if err := parent.tx.Savepoint(ctx, name); err != nil {
		return wrapDriverErr(err)
	}
	child := &Transaction{tx: parent.tx, depth: parent.depth + 1, parent: parent, identity: NewIdentityMap()}
	if err := fn(ctx, child); err != nil {
		if rbErr := parent.tx.RollbackTo(ctx, name); rbErr != nil {
			return &Error{Kind: TransactionErr, Msg: "rollback to savepoint failed", Depth: child.depth, Cause: rbErr}
		}
		return &Error{Kind: TransactionErr, Msg: "nested transaction rolled back", Depth: child.depth, Cause: err}
	}
	if err := child.identity.Flush(ctx, parent.tx); err != nil {
		_ = parent.tx.RollbackTo(ctx, name)
		return err
	}
	if err := parent.tx.ReleaseSavepoint(ctx, name); err != nil {
		return wrapDriverErr(err)
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, txn *Transaction, fn TransactionFn) error {
	if err := fn(ctx, txn); err != nil {
		if rbErr := txn.tx.Rollback(ctx); rbErr != nil {
			return &Error{Kind: TransactionErr, Msg: "rollback failed", Depth: txn.depth, Cause: rbErr}
		}
		return &Error{Kind: TransactionErr, Msg: "transaction rolled back", Depth: txn.depth, Cause: err}
	}
	if err := txn.identity.Flush(ctx, txn.tx); err != nil {
		_ = txn.tx.Rollback(ctx)
		return err
	}
	if err := txn.tx.Commit(ctx); err != nil {
		return wrapDriverErr(err)
	}
	return nil
}

func savepointName() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("sp_%s", hex.EncodeToString(buf))
}

// BatchInsert chunks rows into groups of at most chunkSize and issues one
// multi-row INSERT per chunk, so a caller inserting N rows with a chunk
// size of C makes ceil(N/C) executor calls instead of N (§4.11 batch
// insert).
func (o *Orchestrator) BatchInsert(ctx context.Context, txn *Transaction, table string, rows []map[string]any, chunkSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = len(rows)
	}
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		sql, bindings, err := compileMultiInsert(o.grammar, table, rows[start:end])
		if err != nil {
			return err
		}
		if _, err := txn.tx.Exec(ctx, sql, bindings); err != nil {
			return wrapDriverErr(err)
		}
	}
	return nil
}

// compileMultiInsert builds a single INSERT with one VALUES tuple per row,
// all rows sharing the column order of the first row.
func compileMultiInsert(g Grammar, table string, rows []map[string]any) (string, []Binding, error) {
	if len(rows) == 0 {
		return "", nil, newErr(InvalidCriteria, "batch insert requires at least one row")
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sortStrings(cols)
	for _, c := range cols {
		if err := ValidateIdentifier(c); err != nil {
			return "", nil, err
		}
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = g.Quote(c)
	}

	var bindings []Binding
	tuples := make([]string, len(rows))
	for ri, row := range rows {
		placeholders := make([]string, len(cols))
		for ci, c := range cols {
			key := bindingKey(c)
			placeholders[ci] = ":" + key
			bindings = append(bindings, Binding{Key: key, Value: row[c]})
		}
		tuples[ri] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", g.Quote(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return sql, bindings, nil
}
