package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// GroupRepository is the query-builder-backed implementation of
// domain.GroupRepository, built the same way as UserRepository: every
// statement goes through pkg/query's fluent Builder and an Executor
// adapter instead of hand-written SQL. The membership methods additionally
// exercise the builder's Join mixin, since user_groups is a plain join
// table with no domain type of its own.
type GroupRepository struct {
	exec    query.Executor
	grammar query.Grammar
}

func NewGroupRepository(exec query.Executor, grammar query.Grammar) domain.GroupRepository {
	return &GroupRepository{exec: exec, grammar: grammar}
}

func (r *GroupRepository) table() query.Builder {
	return query.New("groups", r.grammar).EnableSoftDeletes(true, "deleted_at")
}

func (r *GroupRepository) run(b query.Builder) ([]query.Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return r.exec.Query(context.Background(), sql, bindings)
}

func (r *GroupRepository) exec1(b query.Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	return r.exec.Exec(context.Background(), sql, bindings)
}

func (r *GroupRepository) Create(group *domain.Group) error {
	b, err := r.table().Insert(map[string]any{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
	})
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *GroupRepository) GetByID(id uuid.UUID) (*domain.Group, error) {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return nil, err
	}
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("group not found")
	}
	return scanGroup(rows[0]), nil
}

func (r *GroupRepository) Update(group *domain.Group) error {
	w, err := r.table().Where("id", "=", group.ID)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{
		"name":        group.Name,
		"description": group.Description,
		"updated_at":  query.MustRaw("NOW()"),
	})
	if err != nil {
		return err
	}
	n, err := r.exec1(w)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}

func (r *GroupRepository) Delete(id uuid.UUID) error {
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
		return fmt.Errorf("group not found or already deleted")
	}
	return nil
}

func (r *GroupRepository) List(limit, offset int) ([]*domain.Group, error) {
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
	groups := make([]*domain.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, scanGroup(row))
	}
	return groups, nil
}

func (r *GroupRepository) Count() (int, error) {
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

func (r *GroupRepository) AddMember(groupID, userID uuid.UUID) error {
	b, err := query.New("user_groups", r.grammar).Upsert(map[string]any{
		"user_id":  userID,
		"group_id": groupID,
	}, nil)
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *GroupRepository) RemoveMember(groupID, userID uuid.UUID) error {
	w, err := query.New("user_groups", r.grammar).Where("user_id", "=", userID)
	if err != nil {
		return err
	}
	w, err = w.Where("group_id", "=", groupID)
	if err != nil {
		return err
	}
	n, err := r.exec1(w.Delete())
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found in group")
	}
	return nil
}

func (r *GroupRepository) GetMembers(groupID uuid.UUID) ([]*domain.User, error) {
	b, err := query.New("users", r.grammar).Join("user_groups", "", func(jb query.JoinBuilder) query.JoinBuilder {
		return jb.On("id", "=", "user_id")
	})
	if err != nil {
		return nil, err
	}
	b = b.Select("id", "email", "password_hash", "first_name", "last_name", "status", "email_verified", "created_at", "updated_at")
	b, err = b.Where("group_id", "=", groupID)
	if err != nil {
		return nil, err
	}
	b, err = b.OrderBy("created_at", "asc")
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

func (r *GroupRepository) GetUserGroups(userID uuid.UUID) ([]*domain.Group, error) {
	b, err := query.New("groups", r.grammar).Join("user_groups", "", func(jb query.JoinBuilder) query.JoinBuilder {
		return jb.On("id", "=", "group_id")
	})
	if err != nil {
		return nil, err
	}
	b = b.Select("id", "name", "description", "is_active", "deleted_at", "deleted_by", "created_at", "updated_at")
	b, err = b.Where("user_id", "=", userID)
	if err != nil {
		return nil, err
	}
	b, err = b.OrderBy("created_at", "asc")
	if err != nil {
		return nil, err
	}
	rows, err := r.run(b)
	if err != nil {
		return nil, err
	}
	groups := make([]*domain.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, scanGroup(row))
	}
	return groups, nil
}

func scanGroup(row query.Row) *domain.Group {
	return &domain.Group{
		ID:          asUUID(row["id"]),
		Name:        asString(row["name"]),
		Description: asString(row["description"]),
		IsActive:    asBool(row["is_active"]),
		DeletedAt:   asTimePtr(row["deleted_at"]),
		DeletedBy:   asUUIDPtr(row["deleted_by"]),
		CreatedAt:   asTime(row["created_at"]),
		UpdatedAt:   asTime(row["updated_at"]),
	}
}

func asTimePtr(v any) *time.Time {
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	return &t
}

func asUUIDPtr(v any) *uuid.UUID {
	switch t := v.(type) {
	case uuid.UUID:
		return &t
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return nil
		}
		return &id
	case [16]byte:
		id := uuid.UUID(t)
		return &id
	default:
		return nil
	}
}
