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

// queuedExecutor is a fakeExecutor variant for CheckUserPermission: each
// hop of the grant-graph walk issues its own Query, so a single fixed
// nextRows can't stand in for all of them. queuedRows holds one response
// per call, consumed in order.
type queuedExecutor struct {
	execCalls  []string
	queryCalls []string
	queuedRows [][]query.Row
	affected   int64
}

func (f *queuedExecutor) Exec(ctx context.Context, sql string, bindings []query.Binding) (int64, error) {
	f.execCalls = append(f.execCalls, sql)
	return f.affected, nil
}

func (f *queuedExecutor) Query(ctx context.Context, sql string, bindings []query.Binding) ([]query.Row, error) {
	f.queryCalls = append(f.queryCalls, sql)
	if len(f.queuedRows) == 0 {
		return nil, nil
	}
	next := f.queuedRows[0]
	f.queuedRows = f.queuedRows[1:]
	return next, nil
}

func (f *queuedExecutor) Begin(ctx context.Context) (query.Tx, error) {
	panic("not used by PermissionRepository")
}

func newTestPermission() query.Row {
	return query.Row{
		"id":          uuid.New(),
		"resource":    "groups",
		"action":      "read",
		"description": "read groups",
		"is_active":   true,
		"deleted_at":  nil,
		"deleted_by":  nil,
		"created_at":  time.Now(),
		"updated_at":  time.Now(),
	}
}

func TestPermissionRepository_Create_CompilesInsert(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	err := repo.Create(&domain.Permission{ID: uuid.New(), Resource: "groups", Action: "read"})

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "INSERT INTO")
}

func TestPermissionRepository_GetByResourceAndAction_FiltersSoftDeleted(t *testing.T) {
	row := newTestPermission()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	perm, err := repo.GetByResourceAndAction("groups", "read")

	require.NoError(t, err)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "deleted_at")
	assert.Equal(t, "groups", perm.Resource)
}

func TestPermissionRepository_Delete_IsSoftDelete(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	require.NoError(t, err)
	assert.Contains(t, exec.execCalls[0], "deleted_at")
	assert.NotContains(t, exec.execCalls[0], "DELETE FROM")
}

func TestPermissionRepository_GetRolePermissions_JoinsOnRolePermissions(t *testing.T) {
	row := newTestPermission()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	perms, err := repo.GetRolePermissions(uuid.New())

	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Contains(t, exec.queryCalls[0], "role_permissions")
}

func TestPermissionRepository_CheckUserPermission_GrantedViaDirectRole(t *testing.T) {
	permID := uuid.New()
	roleID := uuid.New()
	userID := uuid.New()

	exec := &queuedExecutor{
		queuedRows: [][]query.Row{
			{{"id": permID}},          // activeRolesGranting: matching permissions
			{{"role_id": roleID}},     // activeRolesGranting: role_permissions for those permissions
			{{"id": roleID}},          // activeRolesGranting: active, non-deleted roles
			{{"role_id": roleID}},     // selectIn user_roles for userID
		},
	}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	ok, err := repo.CheckUserPermission(userID, "groups", "read")

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, exec.queryCalls, 4)
}

func TestPermissionRepository_CheckUserPermission_GrantedViaGroupRole(t *testing.T) {
	permID := uuid.New()
	roleID := uuid.New()
	groupID := uuid.New()
	userID := uuid.New()

	exec := &queuedExecutor{
		queuedRows: [][]query.Row{
			{{"id": permID}},             // activeRolesGranting: matching permissions
			{{"role_id": roleID}},        // activeRolesGranting: role_permissions
			{{"id": roleID}},             // activeRolesGranting: active, non-deleted roles
			{},                           // selectIn user_roles for userID -> none
			{{"group_id": groupID}},      // selectIn user_groups for userID
			{{"role_id": roleID}},        // selectInList group_roles for groupID
		},
	}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	ok, err := repo.CheckUserPermission(userID, "groups", "read")

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, exec.queryCalls, 6)
}

func TestPermissionRepository_CheckUserPermission_DeniedWhenNoMatchingPermission(t *testing.T) {
	exec := &queuedExecutor{
		queuedRows: [][]query.Row{
			{}, // activeRolesGranting finds no matching permissions at all
		},
	}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	ok, err := repo.CheckUserPermission(uuid.New(), "groups", "read")

	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, exec.queryCalls, 1)
}

func TestPermissionRepository_CheckUserPermission_DeniedWhenNoGroupsAndNoDirectRole(t *testing.T) {
	permID := uuid.New()
	roleID := uuid.New()

	exec := &queuedExecutor{
		queuedRows: [][]query.Row{
			{{"id": permID}},      // activeRolesGranting: matching permissions
			{{"role_id": roleID}}, // activeRolesGranting: role_permissions
			{{"id": roleID}},      // activeRolesGranting: active, non-deleted roles
			{},                    // selectIn user_roles -> none
			{},                    // selectIn user_groups -> none
		},
	}
	repo := NewPermissionRepository(exec, query.NewPostgresGrammar())

	ok, err := repo.CheckUserPermission(uuid.New(), "groups", "read")

	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, exec.queryCalls, 5)
}
