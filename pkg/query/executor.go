package query

import "context"

// Executor is the driver-facing seam (§4.11): concrete adapters live under
// pkg/query/executor/{pgxexecutor,sqlexecutor} and wrap pgx/lib-pq
// connections. Kept minimal so the orchestrator and identity map never
// import a driver package directly.
type Executor interface {
	Exec(ctx context.Context, sql string, bindings []Binding) (RowsAffected int64, err error)
	Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one transaction/savepoint handle.
type Tx interface {
	Exec(ctx context.Context, sql string, bindings []Binding) (int64, error)
	Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error)
	Savepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Row is a generic result record; concrete executors populate it from the
// driver's native row-scanning API.
type Row map[string]any

// inertExecutor never touches a real connection. It exists so Builder
// values can be compiled and exercised (tests, dry runs) without wiring a
// database, mirroring the teacher's habit of offering a null-object
// implementation of every external-facing seam.
type inertExecutor struct{}

func NewInertExecutor() Executor { return inertExecutor{} }

func (inertExecutor) Exec(ctx context.Context, sql string, bindings []Binding) (int64, error) {
	return 0, nil
}

func (inertExecutor) Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error) {
	return nil, nil
}

func (inertExecutor) Begin(ctx context.Context) (Tx, error) {
	return inertTx{}, nil
}

type inertTx struct{}

func (inertTx) Exec(ctx context.Context, sql string, bindings []Binding) (int64, error) {
	return 0, nil
}
func (inertTx) Query(ctx context.Context, sql string, bindings []Binding) ([]Row, error) {
	return nil, nil
}
func (inertTx) Savepoint(ctx context.Context, name string) error        { return nil }
func (inertTx) ReleaseSavepoint(ctx context.Context, name string) error { return nil }
func (inertTx) RollbackTo(ctx context.Context, name string) error       { return nil }
func (inertTx) Commit(ctx context.Context) error                       { return nil }
func (inertTx) Rollback(ctx context.Context) error                     { return nil }
