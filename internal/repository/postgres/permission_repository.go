package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aras-services/corefw/internal/domain"
	"github.com/aras-services/corefw/pkg/query"
)

// PermissionRepository is the query-builder-backed implementation of
// domain.PermissionRepository. permissions carries the same
// deleted_at/deleted_by soft-delete columns as groups, so it reuses the
// builder's soft-delete mixin the way UserRepository and GroupRepository
// do. CheckUserPermission replaces the teacher's single UNION ALL query
// (the builder has no UNION operator) with a hop-by-hop walk of
// single-table builder queries — the roles granting the permission, then
// the user's direct roles, then the roles of the user's groups —
// returning as soon as a match is found.
type PermissionRepository struct {
	exec    query.Executor
	grammar query.Grammar
}

func NewPermissionRepository(exec query.Executor, grammar query.Grammar) domain.PermissionRepository {
	return &PermissionRepository{exec: exec, grammar: grammar}
}

func (r *PermissionRepository) table() query.Builder {
	return query.New("permissions", r.grammar).EnableSoftDeletes(true, "deleted_at")
}

func (r *PermissionRepository) run(b query.Builder) ([]query.Row, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return r.exec.Query(context.Background(), sql, bindings)
}

func (r *PermissionRepository) exec1(b query.Builder) (int64, error) {
	sql, bindings, err := b.Compile()
	if err != nil {
		return 0, err
	}
	return r.exec.Exec(context.Background(), sql, bindings)
}

func (r *PermissionRepository) Create(permission *domain.Permission) error {
	b, err := r.table().Insert(map[string]any{
		"id":          permission.ID,
		"resource":    permission.Resource,
		"action":      permission.Action,
		"description": permission.Description,
	})
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *PermissionRepository) GetByID(id uuid.UUID) (*domain.Permission, error) {
	w, err := r.table().Where("id", "=", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(w)
}

func (r *PermissionRepository) GetByResourceAndAction(resource, action string) (*domain.Permission, error) {
	w, err := r.table().Where("resource", "=", resource)
	if err != nil {
		return nil, err
	}
	w, err = w.Where("action", "=", action)
	if err != nil {
		return nil, err
	}
	return r.findOne(w)
}

func (r *PermissionRepository) findOne(w query.Builder) (*domain.Permission, error) {
	rows, err := r.run(w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("permission not found")
	}
	return scanPermission(rows[0]), nil
}

func (r *PermissionRepository) Update(permission *domain.Permission) error {
	w, err := r.table().Where("id", "=", permission.ID)
	if err != nil {
		return err
	}
	w, err = w.Update(map[string]any{
		"resource":    permission.Resource,
		"action":      permission.Action,
		"description": permission.Description,
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
		return fmt.Errorf("permission not found")
	}
	return nil
}

func (r *PermissionRepository) Delete(id uuid.UUID) error {
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
		return fmt.Errorf("permission not found or already deleted")
	}
	return nil
}

func (r *PermissionRepository) List(limit, offset int) ([]*domain.Permission, error) {
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
	return scanPermissionList(rows), nil
}

func (r *PermissionRepository) Count() (int, error) {
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

func (r *PermissionRepository) AssignToRole(roleID, permissionID uuid.UUID) error {
	b, err := query.New("role_permissions", r.grammar).Upsert(map[string]any{
		"role_id":       roleID,
		"permission_id": permissionID,
	}, nil)
	if err != nil {
		return err
	}
	_, err = r.exec1(b)
	return err
}

func (r *PermissionRepository) RemoveFromRole(roleID, permissionID uuid.UUID) error {
	w, err := query.New("role_permissions", r.grammar).Where("role_id", "=", roleID)
	if err != nil {
		return err
	}
	w, err = w.Where("permission_id", "=", permissionID)
	if err != nil {
		return err
	}
	n, err := r.exec1(w.Delete())
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("permission not assigned to role")
	}
	return nil
}

func (r *PermissionRepository) GetRolePermissions(roleID uuid.UUID) ([]*domain.Permission, error) {
	b, err := r.table().Join("role_permissions", "", func(jb query.JoinBuilder) query.JoinBuilder {
		return jb.On("id", "=", "permission_id")
	})
	if err != nil {
		return nil, err
	}
	b, err = b.Where("role_id", "=", roleID)
	if err != nil {
		return nil, err
	}
	b, err = b.Where("is_active", "=", true)
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
	return scanPermissionList(rows), nil
}

// CheckUserPermission looks for a matching, active permission reachable
// either through the user's direct roles or through the roles of any
// group the user belongs to. The teacher's original did this in a single
// UNION ALL query; the builder has no UNION operator and several of the
// join keys here collide in name across more than two tables (role_id
// appears in both role_permissions and user_roles, group_id in both
// group_roles and user_groups), which the builder's unqualified-column
// joins can't disambiguate. CheckUserPermission instead walks the grant
// graph one hop at a time with plain WhereIn queries.
func (r *PermissionRepository) CheckUserPermission(userID uuid.UUID, resource, action string) (bool, error) {
	roleIDs, err := r.activeRolesGranting(resource, action)
	if err != nil || len(roleIDs) == 0 {
		return false, err
	}

	userRoleIDs, err := r.selectIn("user_roles", "role_id", "user_id", userID)
	if err != nil {
		return false, err
	}
	if intersects(userRoleIDs, roleIDs) {
		return true, nil
	}

	groupIDs, err := r.selectIn("user_groups", "group_id", "user_id", userID)
	if err != nil || len(groupIDs) == 0 {
		return false, err
	}
	groupRoleIDs, err := r.selectInList("group_roles", "role_id", "group_id", uuidsToAny(groupIDs))
	if err != nil {
		return false, err
	}
	return intersects(groupRoleIDs, roleIDs), nil
}

func uuidsToAny(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// activeRolesGranting resolves every active, non-deleted role that carries
// a permission matching resource/action.
func (r *PermissionRepository) activeRolesGranting(resource, action string) ([]uuid.UUID, error) {
	b, err := r.table().Where("resource", "=", resource)
	if err != nil {
		return nil, err
	}
	b, err = b.Where("action", "=", action)
	if err != nil {
		return nil, err
	}
	b, err = b.Where("is_active", "=", true)
	if err != nil {
		return nil, err
	}
	b = b.Select("id")
	rows, err := r.run(b)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	permIDs := make([]any, len(rows))
	for i, row := range rows {
		permIDs[i] = asUUID(row["id"])
	}

	roleIDs, err := r.selectInList("role_permissions", "role_id", "permission_id", permIDs)
	if err != nil || len(roleIDs) == 0 {
		return nil, err
	}

	rb, err := query.New("roles", r.grammar).WhereIn("id", uuidsToAny(roleIDs))
	if err != nil {
		return nil, err
	}
	rb, err = rb.Where("is_active", "=", true)
	if err != nil {
		return nil, err
	}
	rb, err = rb.Where("is_deleted", "=", false)
	if err != nil {
		return nil, err
	}
	rb = rb.Select("id")
	rows, err = r.run(rb)
	if err != nil {
		return nil, err
	}
	active := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		active[i] = asUUID(row["id"])
	}
	return active, nil
}

// selectIn returns every value of selectCol in table where equalCol equals
// equalVal.
func (r *PermissionRepository) selectIn(table, selectCol, equalCol string, equalVal any) ([]uuid.UUID, error) {
	b, err := query.New(table, r.grammar).Where(equalCol, "=", equalVal)
	if err != nil {
		return nil, err
	}
	b = b.Select(selectCol)
	rows, err := r.run(b)
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		out[i] = asUUID(row[selectCol])
	}
	return out, nil
}

// selectInList returns every value of selectCol in table where inCol is
// one of inVals.
func (r *PermissionRepository) selectInList(table, selectCol, inCol string, inVals []any) ([]uuid.UUID, error) {
	b, err := query.New(table, r.grammar).WhereIn(inCol, inVals)
	if err != nil {
		return nil, err
	}
	b = b.Select(selectCol)
	rows, err := r.run(b)
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		out[i] = asUUID(row[selectCol])
	}
	return out, nil
}

func intersects(a, b []uuid.UUID) bool {
	set := make(map[uuid.UUID]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func scanPermissionList(rows []query.Row) []*domain.Permission {
	permissions := make([]*domain.Permission, 0, len(rows))
	for _, row := range rows {
		permissions = append(permissions, scanPermission(row))
	}
	return permissions
}

func scanPermission(row query.Row) *domain.Permission {
	return &domain.Permission{
		ID:          asUUID(row["id"]),
		Resource:    asString(row["resource"]),
		Action:      asString(row["action"]),
		Description: asString(row["description"]),
		IsActive:    asBool(row["is_active"]),
		DeletedAt:   asTimePtr(row["deleted_at"]),
		DeletedBy:   asUUIDPtr(row["deleted_by"]),
		CreatedAt:   asTime(row["created_at"]),
		UpdatedAt:   asTime(row["updated_at"]),
	}
}
