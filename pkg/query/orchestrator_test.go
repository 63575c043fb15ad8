package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor/fakeTx give the orchestrator tests a recording in-memory
// driver, the same shape the teacher's repository tests use for a fake
// postgres pool.
type fakeExecutor struct {
	txs []*fakeTx
}

func (f *fakeExecutor) Exec(ctx context.Context, sql string, bindings []Binding) (int64, error) {
	return 0, nil
}
func (f *fakeExecutor) Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error) {
	return nil, nil
}
func (f *fakeExecutor) Begin(ctx context.Context) (Tx, error) {
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	return tx, nil
}

type fakeTx struct {
	execs       []string
	savepoints  []string
	released    []string
	rolledBack  []string
	committed   bool
	rolledAll   bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, bindings []Binding) (int64, error) {
	t.execs = append(t.execs, sql)
	return 1, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error) {
	return nil, nil
}
func (t *fakeTx) Savepoint(ctx context.Context, name string) error {
	t.savepoints = append(t.savepoints, name)
	return nil
}
func (t *fakeTx) ReleaseSavepoint(ctx context.Context, name string) error {
	t.released = append(t.released, name)
	return nil
}
func (t *fakeTx) RollbackTo(ctx context.Context, name string) error {
	t.rolledBack = append(t.rolledBack, name)
	return nil
}
func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledAll = true; return nil }

func TestOrchestrator_CommitsOnSuccess(t *testing.T) {
	exec := &fakeExecutor{}
	orch := NewOrchestrator(exec, NewPostgresGrammar())

	err := orch.Transaction(context.Background(), func(ctx context.Context, txn *Transaction) error {
		_, err := txn.Exec(ctx, New("users", NewPostgresGrammar()).Delete())
		return err
	})

	require.NoError(t, err)
	require.Len(t, exec.txs, 1)
	assert.True(t, exec.txs[0].committed)
	assert.False(t, exec.txs[0].rolledAll)
}

func TestOrchestrator_RollsBackOnError(t *testing.T) {
	exec := &fakeExecutor{}
	orch := NewOrchestrator(exec, NewPostgresGrammar())

	sentinel := errors.New("boom")
	err := orch.Transaction(context.Background(), func(ctx context.Context, txn *Transaction) error {
		return sentinel
	})

	require.Error(t, err)
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, TransactionErr, qerr.Kind)
	assert.True(t, exec.txs[0].rolledAll)
	assert.False(t, exec.txs[0].committed)
}

func TestOrchestrator_NestedTransactionUsesSavepoint(t *testing.T) {
	exec := &fakeExecutor{}
	orch := NewOrchestrator(exec, NewPostgresGrammar())

	err := orch.Transaction(context.Background(), func(ctx context.Context, txn *Transaction) error {
		return orch.TransactionNested(ctx, txn, func(ctx context.Context, nested *Transaction) error {
			assert.Equal(t, 1, nested.Depth())
			return nil
		})
	})

	require.NoError(t, err)
	require.Len(t, exec.txs, 1)
	assert.Len(t, exec.txs[0].savepoints, 1)
	assert.Len(t, exec.txs[0].released, 1)
	assert.Empty(t, exec.txs[0].rolledBack)
}

func TestOrchestrator_NestedTransactionRollsBackToSavepointOnly(t *testing.T) {
	exec := &fakeExecutor{}
	orch := NewOrchestrator(exec, NewPostgresGrammar())
	sentinel := errors.New("nested failure")

	err := orch.Transaction(context.Background(), func(ctx context.Context, txn *Transaction) error {
		nestedErr := orch.TransactionNested(ctx, txn, func(ctx context.Context, nested *Transaction) error {
			return sentinel
		})
		assert.Error(t, nestedErr)
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, exec.txs[0].rolledBack, 1)
	assert.True(t, exec.txs[0].committed)
}

func TestOrchestrator_BatchInsertChunksIntoCeilNOverC(t *testing.T) {
	exec := &fakeExecutor{}
	orch := NewOrchestrator(exec, NewPostgresGrammar())

	rows := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, map[string]any{"id": i})
	}

	err := orch.Transaction(context.Background(), func(ctx context.Context, txn *Transaction) error {
		return orch.BatchInsert(ctx, txn, "widgets", rows, 3)
	})

	require.NoError(t, err)
	// ceil(10/3) == 4 INSERT statements.
	assert.Len(t, exec.txs[0].execs, 4)
}

func TestIdentityMap_FlushesInFIFOOrder(t *testing.T) {
	im := NewIdentityMap()
	tx := &fakeTx{}

	b1, err := New("users", NewPostgresGrammar()).Insert(map[string]any{"id": 1})
	require.NoError(t, err)
	b2, err := New("users", NewPostgresGrammar()).Insert(map[string]any{"id": 2})
	require.NoError(t, err)

	require.NoError(t, im.Defer(b1))
	require.NoError(t, im.Defer(b2))
	assert.Equal(t, 2, im.Pending())
	assert.Equal(t, []WriteOp{OpInsert, OpInsert}, im.PendingOps())

	require.NoError(t, im.Flush(context.Background(), tx))
	assert.Equal(t, 0, im.Pending())
	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0], `"id"`)
}

func TestIdentityMap_TracksOperationKindPerWrite(t *testing.T) {
	im := NewIdentityMap()

	insert, err := New("users", NewPostgresGrammar()).Insert(map[string]any{"id": 1})
	require.NoError(t, err)
	update := New("users", NewPostgresGrammar())
	require.NoError(t, err)
	update, err = update.Where("id", "=", 1)
	require.NoError(t, err)
	update, err = update.Update(map[string]any{"name": "x"})
	require.NoError(t, err)
	del := New("users", NewPostgresGrammar()).Delete()

	require.NoError(t, im.Defer(insert))
	require.NoError(t, im.Defer(update))
	require.NoError(t, im.Defer(del))

	assert.Equal(t, []WriteOp{OpInsert, OpUpdate, OpDelete}, im.PendingOps())
	assert.Equal(t, "INSERT", OpInsert.String())
	assert.Equal(t, "UPDATE", OpUpdate.String())
	assert.Equal(t, "DELETE", OpDelete.String())
}
