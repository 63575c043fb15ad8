package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

func newTestToken() query.Row {
	return query.Row{
		"id":         uuid.New(),
		"user_id":    uuid.New(),
		"token_hash": "hash",
		"expires_at": time.Now().Add(time.Hour),
		"created_at": time.Now(),
	}
}

func TestTokenRepository_Create_CompilesInsert(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	err := repo.Create(&domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: "hash",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "INSERT INTO")
}

func TestTokenRepository_GetByTokenHash_FiltersFutureExpiry(t *testing.T) {
	row := newTestToken()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	tok, err := repo.GetByTokenHash("hash")

	require.NoError(t, err)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "expires_at")
	assert.Equal(t, row["id"], tok.ID)
}

func TestTokenRepository_GetByTokenHash_NotFoundWhenExpiredOrMissing(t *testing.T) {
	exec := &fakeExecutor{nextRows: nil}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	_, err := repo.GetByTokenHash("stale-hash")

	assert.Error(t, err)
}

func TestTokenRepository_GetByUserID_OrdersByCreatedAtDesc(t *testing.T) {
	exec := &fakeExecutor{nextRows: []query.Row{newTestToken(), newTestToken()}}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	tokens, err := repo.GetByUserID(uuid.New())

	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "ORDER BY")
	assert.Contains(t, exec.queryCalls[0], "expires_at")
}

func TestTokenRepository_Delete_IsHardDelete(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "DELETE FROM")
}

func TestTokenRepository_Delete_NotFoundWhenNoRowsAffected(t *testing.T) {
	exec := &fakeExecutor{affected: 0}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	assert.Error(t, err)
}

func TestTokenRepository_DeleteByUserID_IsHardDelete(t *testing.T) {
	exec := &fakeExecutor{affected: 3}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	err := repo.DeleteByUserID(uuid.New())

	require.NoError(t, err)
	assert.Contains(t, exec.execCalls[0], "DELETE FROM")
}

func TestTokenRepository_DeleteExpired_FiltersPastExpiry(t *testing.T) {
	exec := &fakeExecutor{affected: 2}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	err := repo.DeleteExpired()

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "expires_at")
	assert.Contains(t, exec.execCalls[0], "DELETE FROM")
}

func TestTokenRepository_CleanupExpiredTokens_CallsStoredProcedure(t *testing.T) {
	exec := &fakeExecutor{nextRows: []query.Row{{"n": int64(7)}}}
	repo := NewTokenRepository(exec, query.NewPostgresGrammar())

	n, err := repo.CleanupExpiredTokens()

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "cleanup_expired_tokens")
}
