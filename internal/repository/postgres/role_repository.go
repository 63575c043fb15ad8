package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// RoleRepository is the query-builder-backed implementation of
// domain.RoleRepository. roles uses a boolean is_deleted flag rather than
// a deleted_at timestamp, so it filters manually with Where instead of the
// builder's deleted_at-shaped soft-delete mixin.
type RoleRepository struct {
	exec    query.Executor
	grammar query.Grammar
}

func NewRoleRepository(exec query.Executor, grammar query.Grammar) domain.RoleRepository {
	return &RoleRepository{exec: exec, grammar: grammar}
}

func (r *RoleRepository) table() query.Builder {
	return query.New("roles", r.grammar)
}

func (r *RoleRepository) notDeleted(b query.Builder) (query.Builder, error) {
	return b.Where("is_deleted", "=", false)
}

func (r *RoleRepository) run(b query.Builder) ([]query.Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return r.exec.Query(context.Background(), sql, bindings)
}

func (r *RoleRepository) exec1(b query.Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	return r.exec.Exec(context.Background(), sql, bindings)
}

func (r *RoleRepository) Create(role *domain.Role) error {
	b, err := r.table().Insert(map[string]any{
		"id":          role.ID,
		"name":        role.Name,
		"description": role.Description,
	})
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *RoleRepository) findOne(col string, value any) (*domain.Role, error) {
	w, err := r.table().Where(col, "=", value)
	if err != nil {
		return nil, err
	}
	w, err = r.notDeleted(w)
	if err != nil {
		return nil, err
	}
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("role not found")
	}
	return scanRole(rows[0]), nil
}

func (r *RoleRepository) GetByID(id uuid.UUID) (*domain.Role, error) {
	return r.findOne("id", id)
}

func (r *RoleRepository) GetByName(name string) (*domain.Role, error) {
	return r.findOne("name", name)
}

func (r *RoleRepository) Update(role *domain.Role) error {
	w, err := r.table().Where("id", "=", role.ID)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{
		"name":        role.Name,
		"description": role.Description,
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
		return fmt.Errorf("role not found")
	}
	return nil
}

func (r *RoleRepository) Delete(id uuid.UUID) error {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return err
	}
	w, err = r.notDeleted(w)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{
		"is_deleted": true,
		"updated_at": query.MustRaw("NOW()"),
	})
	if err != nil {
		return err
	}
	n, err := r.exec1(w)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("role not found or already deleted")
	}
	return nil
}

func (r *RoleRepository) List(limit, offset int) ([]*domain.Role, error) {
	b, err := r.notDeleted(r.table())
	if err != nil {
		return nil, err
	}
	b, err = b.Limit(limit)
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
	return scanRoleList(rows), nil
}

func (r *RoleRepository) Count() (int, error) {
	expr, err := query.Raw("COUNT(*) AS n")
	if err != nil {
		return 0, err
	}
	b, err := r.notDeleted(r.table().Select().SelectRaw(expr))
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

func (r *RoleRepository) AssignToUser(userID, roleID uuid.UUID) error {
	b, err := query.New("user_roles", r.grammar).Upsert(map[string]any{
		"user_id": userID,
		"role_id": roleID,
	}, nil)
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *RoleRepository) RemoveFromUser(userID, roleID uuid.UUID) error {
	w, err := query.New("user_roles", r.grammar).Where("user_id", "=", userID)
	if err != nil {
		return err
	}
	w, err = w.Where("role_id", "=", roleID)
	if err != nil {
		return err
	}
	n, err := r.exec1(w.Delete())
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("role not assigned to user")
	}
	return nil
}

func (r *RoleRepository) AssignToGroup(groupID, roleID uuid.UUID) error {
	b, err := query.New("group_roles", r.grammar).Upsert(map[string]any{
		"group_id": groupID,
		"role_id":  roleID,
	}, nil)
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *RoleRepository) RemoveFromGroup(groupID, roleID uuid.UUID) error {
	w, err := query.New("group_roles", r.grammar).Where("group_id", "=", groupID)
	if err != nil {
		return err
	}
	w, err = w.Where("role_id", "=", roleID)
	if err != nil {
		return err
	}
	n, err := r.exec1(w.Delete())
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("role not assigned to group")
	}
	return nil
}

func (r *RoleRepository) GetUserRoles(userID uuid.UUID) ([]*domain.Role, error) {
	b, err := query.New("roles", r.grammar).Join("user_roles", "", func(jb query.JoinBuilder) query.JoinBuilder {
		return jb.On("id", "=", "role_id")
	})
	if err != nil {
		return nil, err
	}
	b = b.Select("id", "name", "description", "created_at", "updated_at")
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
	return scanRoleList(rows), nil
}

func (r *RoleRepository) GetGroupRoles(groupID uuid.UUID) ([]*domain.Role, error) {
	b, err := query.New("roles", r.grammar).Join("group_roles", "", func(jb query.JoinBuilder) query.JoinBuilder {
		return jb.On("id", "=", "role_id")
	})
	if err != nil {
		return nil, err
	}
	b = b.Select("id", "name", "description", "created_at", "updated_at")
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
	return scanRoleList(rows), nil
}

func scanRoleList(rows []query.Row) []*domain.Role {
	roles := make([]*domain.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, scanRole(row))
	}
	return roles
}

func scanRole(row query.Row) *domain.Role {
	return &domain.Role{
		ID:          asUUID(row["id"]),
		Name:        asString(row["name"]),
		Description: asString(row["description"]),
		IsActive:    asBool(row["is_active"]),
		IsDeleted:   asBool(row["is_deleted"]),
		CreatedAt:   asTime(row["created_at"]),
		UpdatedAt:   asTime(row["updated_at"]),
	}
}
