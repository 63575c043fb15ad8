package query

import (
	"context"
	"fmt"
)

// WriteOp enumerates the DML kind behind a deferred write, so a caller
// draining IdentityMap.Flush's errors (or inspecting Pending()) can tell
// what actually failed without re-parsing the compiled SQL.
type WriteOp int

const (
	OpInsert WriteOp = iota
	OpUpdate
	OpDelete
)

func (o WriteOp) String() string {
	switch o {
	case OpInsert:
		return "INSERT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("WriteOp(%d)", int(o))
	}
}

func writeOpFor(operation string) WriteOp {
	switch operation {
	case "update":
		return OpUpdate
	case "delete":
		return OpDelete
	default:
		return OpInsert // insert and upsert both land as an insert-shaped write
	}
}

// deferredWrite is one entry queued by the identity map (§4.11 "deferred
// writes"): a compiled statement that has not yet reached the database.
type deferredWrite struct {
	sql       string
	bindings  []Binding
	Operation WriteOp
}

// IdentityMap batches writes produced while composing a unit of work and
// flushes them FIFO inside a single transaction, so callers can stage many
// Builder mutations and only pay for one round of commit/rollback
// bookkeeping (§4.11).
type IdentityMap struct {
	pending []deferredWrite
}

func NewIdentityMap() *IdentityMap {
	return &IdentityMap{}
}

// Defer queues a compiled Builder statement instead of executing it
// immediately.
func (m *IdentityMap) Defer(b Builder) error {
	sql, bindings, err := b.Compile()
	if err != nil {
		return err
	}
	op := writeOpFor(b.State().Operation)
	m.pending = append(m.pending, deferredWrite{sql: sql, bindings: bindings, Operation: op})
	return nil
}

// Pending reports how many writes are queued, without draining them.
func (m *IdentityMap) Pending() int { return len(m.pending) }

// PendingOps reports the operation kind of every queued write, in FIFO
// order, without draining them — callers that want to assert a unit of
// work's shape before Flush (e.g. "no deletes allowed here") can inspect
// this without compiling anything themselves.
func (m *IdentityMap) PendingOps() []WriteOp {
	ops := make([]WriteOp, len(m.pending))
	for i, w := range m.pending {
		ops[i] = w.Operation
	}
	return ops
}

// Flush executes every queued write in FIFO order against tx, stopping and
// returning on the first failure. Flushed entries are always dropped from
// the queue, even on error, so a caller that rolls back and retries starts
// clean rather than replaying already-attempted writes.
func (m *IdentityMap) Flush(ctx context.Context, tx Tx) error {
	batch := m.pending
	m.pending = nil
	for i, w := range batch {
		if _, err := tx.Exec(ctx, w.sql, w.bindings); err != nil {
			return &Error{Kind: DriverErr, Msg: fmt.Sprintf("deferred %s failed", w.Operation), Depth: i, Cause: err}
		}
	}
	return nil
}

// Reset discards any queued writes without executing them.
func (m *IdentityMap) Reset() { m.pending = nil }
