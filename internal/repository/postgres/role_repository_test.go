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

func newTestRole() query.Row {
	return query.Row{
		"id":          uuid.New(),
		"name":        "admin",
		"description": "full access",
		"is_active":   true,
		"is_deleted":  false,
		"created_at":  time.Now(),
		"updated_at":  time.Now(),
	}
}

func TestRoleRepository_Create_CompilesInsert(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	err := repo.Create(&domain.Role{ID: uuid.New(), Name: "admin", Description: "full access"})

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "INSERT INTO")
}

func TestRoleRepository_GetByID_FiltersIsDeleted(t *testing.T) {
	row := newTestRole()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	role, err := repo.GetByID(row["id"].(uuid.UUID))

	require.NoError(t, err)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "is_deleted")
	assert.Equal(t, "admin", role.Name)
}

func TestRoleRepository_Delete_SetsIsDeletedFlagNotTimestamp(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "is_deleted")
	assert.NotContains(t, exec.execCalls[0], "DELETE FROM")
}

func TestRoleRepository_Delete_NotFoundWhenNoRowsAffected(t *testing.T) {
	exec := &fakeExecutor{affected: 0}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	assert.Error(t, err)
}

func TestRoleRepository_GetUserRoles_JoinsOnUserRoles(t *testing.T) {
	row := newTestRole()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	roles, err := repo.GetUserRoles(uuid.New())

	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "user_roles")
}

func TestRoleRepository_GetGroupRoles_JoinsOnGroupRoles(t *testing.T) {
	row := newTestRole()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	roles, err := repo.GetGroupRoles(uuid.New())

	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Contains(t, exec.queryCalls[0], "group_roles")
}

func TestRoleRepository_AssignToUser_Upserts(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	err := repo.AssignToUser(uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Contains(t, exec.execCalls[0], "user_roles")
}

func TestRoleRepository_Count_ReadsAliasedColumn(t *testing.T) {
	exec := &fakeExecutor{nextRows: []query.Row{{"n": int64(5)}}}
	repo := NewRoleRepository(exec, query.NewPostgresGrammar())

	n, err := repo.Count()

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Contains(t, exec.queryCalls[0], "is_deleted")
}
