package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// fakeExecutor is an in-memory query.Executor: Exec just counts affected
// rows, Query replays whatever rows the test queued up next, the same
// recording-fake shape pkg/query's own orchestrator tests use in place of
// a real pgx pool.
type fakeExecutor struct {
	execCalls  []string
	queryCalls []string
	nextRows   []query.Row
	affected   int64
}

func (f *fakeExecutor) Exec(ctx context.Context, sql string, bindings []query.Binding) (int64, error) {
	f.execCalls = append(f.execCalls, sql)
	return f.affected, nil
}

func (f *fakeExecutor) Query(ctx context.Context, sql string, bindings []query.Binding) ([]query.Row, error) {
	f.queryCalls = append(f.queryCalls, sql)
	return f.nextRows, nil
}

func (f *fakeExecutor) Begin(ctx context.Context) (query.Tx, error) {
	panic("not used by UserRepository")
}

func newTestUser() query.Row {
	return query.Row{
		"id":             uuid.New(),
		"email":          "alice@example.com",
		"password_hash":  "hash",
		"first_name":     "Alice",
		"last_name":      "Doe",
		"status":         "active",
		"email_verified": true,
		"created_at":     time.Now(),
		"updated_at":     time.Now(),
	}
}

func TestUserRepository_Create_CompilesInsert(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	err := repo.Create(&domain.User{
		ID:     uuid.New(),
		Email:  "bob@example.com",
		Status: domain.UserStatus("active"),
	})

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "INSERT INTO")
}

func TestUserRepository_GetByEmail_ScansRow(t *testing.T) {
	row := newTestUser()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	user, err := repo.GetByEmail("alice@example.com")

	require.NoError(t, err)
	assert.Equal(t, row["id"], user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.EmailVerified)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	exec := &fakeExecutor{nextRows: nil}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	_, err := repo.GetByID(uuid.New())

	assert.Error(t, err)
}

func TestUserRepository_Update_ErrorsWhenNoRowsAffected(t *testing.T) {
	exec := &fakeExecutor{affected: 0}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	err := repo.Update(&domain.User{ID: uuid.New(), Email: "nobody@example.com"})

	assert.Error(t, err)
}

func TestUserRepository_Delete_IsSoftDelete(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "deleted_at")
	assert.NotContains(t, exec.execCalls[0], "DELETE FROM")
}

func TestUserRepository_List_OrdersByCreatedAtDesc(t *testing.T) {
	exec := &fakeExecutor{nextRows: []query.Row{newTestUser(), newTestUser()}}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	users, err := repo.List(10, 0)

	require.NoError(t, err)
	assert.Len(t, users, 2)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "ORDER BY")
	assert.Contains(t, exec.queryCalls[0], "deleted_at")
}

func TestUserRepository_Count_ReadsAliasedColumn(t *testing.T) {
	exec := &fakeExecutor{nextRows: []query.Row{{"n": int64(3)}}}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	n, err := repo.Count()

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUserRepository_UpdatePassword_TouchesUpdatedAt(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewUserRepository(exec, query.NewPostgresGrammar())

	err := repo.UpdatePassword(uuid.New(), "new-hash")

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "password_hash")
}
