package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// TokenRepository is the query-builder-backed implementation of
// domain.RefreshTokenRepository. refresh_tokens carries no soft-delete
// column at all — rows are hard-deleted on logout/expiry, same as the
// teacher's raw SQL did.
type TokenRepository struct {
	exec    query.Executor
	grammar query.Grammar
}

func NewTokenRepository(exec query.Executor, grammar query.Grammar) domain.RefreshTokenRepository {
	return &TokenRepository{exec: exec, grammar: grammar}
}

func (r *TokenRepository) table() query.Builder {
	return query.New("refresh_tokens", r.grammar)
}

func (r *TokenRepository) run(b query.Builder) ([]query.Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return r.exec.Query(context.Background(), sql, bindings)
}

func (r *TokenRepository) exec1(b query.Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	return r.exec.Exec(context.Background(), sql, bindings)
}

func (r *TokenRepository) Create(token *domain.RefreshToken) error {
	b, err := r.table().Insert(map[string]any{
		"id":         token.ID,
		"user_id":    token.UserID,
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt,
	})
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *TokenRepository) GetByID(id uuid.UUID) (*domain.RefreshToken, error) {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(w, "refresh token not found")
}

func (r *TokenRepository) GetByTokenHash(tokenHash string) (*domain.RefreshToken, error) {
	w, err := r.table().Where("token_hash", "=", tokenHash)
	if err != nil {
		return nil, err
	}
	w, err = w.WhereFuture("expires_at")
	if err != nil {
		return nil, err
	}
	return r.findOne(w, "refresh token not found or expired")
}

func (r *TokenRepository) findOne(w query.Builder, notFoundMsg string) (*domain.RefreshToken, error) {
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New(notFoundMsg)
	}
	return scanRefreshToken(rows[0]), nil
}

func (r *TokenRepository) GetByUserID(userID uuid.UUID) ([]*domain.RefreshToken, error) {
	w, err := r.table().Where("user_id", "=", userID)
	if err != nil {
		return nil, err
	}
	w, err = w.WhereFuture("expires_at")
	if err != nil {
		return nil, err
	}
	w, err = w.OrderBy("created_at", "desc")
	if err != nil {
		return nil, err
	}
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	tokens := make([]*domain.RefreshToken, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, scanRefreshToken(row))
	}
	return tokens, nil
}

func (r *TokenRepository) Delete(id uuid.UUID) error {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return err
	}
	n, err := r.exec1(w.Delete())
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("refresh token not found")
	}
	return nil
}

func (r *TokenRepository) DeleteByUserID(userID uuid.UUID) error {
	w, err := r.table().Where("user_id", "=", userID)
	if err != nil {
		return err
	}
	_, err = r.exec1(w.Delete())
	return err
}

func (r *TokenRepository) DeleteExpired() error {
	w, err := r.table().WherePast("expires_at")
	if err != nil {
		return err
	}
	_, err = r.exec1(w.Delete())
	return err
}

// CleanupExpiredTokens invokes the database's own cleanup_expired_tokens()
// stored procedure, same as the teacher — this is server-side cleanup
// logic the builder's fluent DML has no vocabulary for, so it's issued as
// a raw scalar SELECT instead of a hand-written SQL string bypassing the
// builder entirely.
func (r *TokenRepository) CleanupExpiredTokens() (int, error) {
	expr, err := query.Raw("cleanup_expired_tokens() AS n")
	if err != nil {
		return 0, err
	}
	b := r.table().Select().SelectRaw(expr)
	b, err = b.Limit(1)
	if err != nil {
		return 0, err
	}
	rows, err := r.run(b)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt(rows[0]["n"]), nil
}

func scanRefreshToken(row query.Row) *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:        asUUID(row["id"]),
		UserID:    asUUID(row["user_id"]),
		TokenHash: asString(row["token_hash"]),
		ExpiresAt: asTime(row["expires_at"]),
		CreatedAt: asTime(row["created_at"]),
	}
}
