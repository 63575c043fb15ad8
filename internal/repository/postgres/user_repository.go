package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// UserRepository is the query-builder-backed implementation of
// domain.UserRepository: every statement is composed through pkg/query's
// fluent Builder and run through an Executor adapter, instead of the
// hand-written SQL strings the teacher's first cut used. Soft deletes are
// the builder's own deleted_at mixin, since domain.User already carries
// DeletedAt/DeletedBy columns for it.
type UserRepository struct {
	exec    query.Executor
	grammar query.Grammar
}

func NewUserRepository(exec query.Executor, grammar query.Grammar) domain.UserRepository {
	return &UserRepository{exec: exec, grammar: grammar}
}

func (r *UserRepository) table() query.Builder {
	return query.New("users", r.grammar).EnableSoftDeletes(true, "deleted_at")
}

func (r *UserRepository) run(b query.Builder) ([]query.Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return r.exec.Query(context.Background(), sql, bindings)
}

func (r *UserRepository) exec1(b query.Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	return r.exec.Exec(context.Background(), sql, bindings)
}

func (r *UserRepository) Create(user *domain.User) error {
	b, err := r.table().Insert(map[string]any{
		"id":             user.ID,
		"email":          user.Email,
		"password_hash":  user.PasswordHash,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"status":         string(user.Status),
		"email_verified": user.EmailVerified,
	})
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *UserRepository) findOne(col string, value any) (*domain.User, error) {
	w, err := r.table().Where(col, "=", value)
	if err != nil {
		return nil, err
	}
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	return scanUser(rows[0]), nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	return r.findOne("id", id)
}

func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	return r.findOne("email", email)
}

func (r *UserRepository) Update(user *domain.User) error {
	w, err := r.table().Where("id", "=", user.ID)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"status":         string(user.Status),
		"email_verified": user.EmailVerified,
		"updated_at":     query.MustRaw("NOW()"),
	})
	if err != nil {
		return err
	}
	n, err := r.exec1(w)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *UserRepository) Delete(id uuid.UUID) error {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return err
	}
	sd, err := w.SoftDelete()
	if err != nil {
		return err
	}
	n, err := r.exec1(sd)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found or already deleted")
	}
	return nil
}

func (r *UserRepository) List(limit, offset int) ([]*domain.User, error) {
	b := r.table()
	b, err := b.Limit(limit)
	if err != nil {
		return nil, err
	}
	b, err = b.Offset(offset)
	if err != nil {
		return nil, err
	}
	b, err = b.OrderBy("created_at", "desc")
	if err != nil {
		return nil, err
	}
	rows, err := r.run(b)
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, scanUser(row))
	}
	return users, nil
}

func (r *UserRepository) Count() (int, error) {
	expr, err := query.Raw("COUNT(*) AS n")
	if err != nil {
		return 0, err
	}
	b := r.table().Select().SelectRaw(expr)
	rows, err := r.run(b)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt(rows[0]["n"]), nil
}

func (r *UserRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{"password_hash": passwordHash, "updated_at": query.MustRaw("NOW()")})
	if err != nil {
		return err
	}
	n, err := r.exec1(w)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *UserRepository) UpdateEmailVerified(id uuid.UUID, verified bool) error {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{"email_verified": verified, "updated_at": query.MustRaw("NOW()")})
	if err != nil {
		return err
	}
	n, err := r.exec1(w)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func scanUser(row query.Row) *domain.User {
	u := &domain.User{
		ID:            asUUID(row["id"]),
		Email:         asString(row["email"]),
		PasswordHash:  asString(row["password_hash"]),
		FirstName:     asString(row["first_name"]),
		LastName:      asString(row["last_name"]),
		Status:        domain.UserStatus(asString(row["status"])),
		EmailVerified: asBool(row["email_verified"]),
		CreatedAt:     asTime(row["created_at"]),
		UpdatedAt:     asTime(row["updated_at"]),
	}
	return u
}

func asUUID(v any) uuid.UUID {
	switch t := v.(type) {
	case uuid.UUID:
		return t
	case string:
		id, _ := uuid.Parse(t)
		return id
	case [16]byte:
		return uuid.UUID(t)
	default:
		return uuid.UUID{}
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func toInt(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int32:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}
