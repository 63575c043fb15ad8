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

func newTestGroup() query.Row {
	return query.Row{
		"id":          uuid.New(),
		"name":        "admins",
		"description": "administrators",
		"is_active":   true,
		"deleted_at":  nil,
		"deleted_by":  nil,
		"created_at":  time.Now(),
		"updated_at":  time.Now(),
	}
}

func TestGroupRepository_Create_CompilesInsert(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	err := repo.Create(&domain.Group{ID: uuid.New(), Name: "admins", Description: "administrators"})

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "INSERT INTO")
}

func TestGroupRepository_GetByID_NotFound(t *testing.T) {
	exec := &fakeExecutor{nextRows: nil}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	_, err := repo.GetByID(uuid.New())

	assert.Error(t, err)
}

func TestGroupRepository_Delete_IsSoftDelete(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	err := repo.Delete(uuid.New())

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "deleted_at")
	assert.NotContains(t, exec.execCalls[0], "DELETE FROM")
}

func TestGroupRepository_GetMembers_JoinsOnUserGroups(t *testing.T) {
	row := newTestUser()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	users, err := repo.GetMembers(uuid.New())

	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, exec.queryCalls, 1)
	assert.Contains(t, exec.queryCalls[0], "JOIN")
	assert.Contains(t, exec.queryCalls[0], "user_groups")
}

func TestGroupRepository_GetUserGroups_JoinsOnUserGroups(t *testing.T) {
	row := newTestGroup()
	exec := &fakeExecutor{nextRows: []query.Row{row}}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	groups, err := repo.GetUserGroups(uuid.New())

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, row["name"], groups[0].Name)
}

func TestGroupRepository_AddMember_Upserts(t *testing.T) {
	exec := &fakeExecutor{affected: 1}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	err := repo.AddMember(uuid.New(), uuid.New())

	require.NoError(t, err)
	require.Len(t, exec.execCalls, 1)
	assert.Contains(t, exec.execCalls[0], "user_groups")
}

func TestGroupRepository_RemoveMember_NotFoundWhenNoRowsAffected(t *testing.T) {
	exec := &fakeExecutor{affected: 0}
	repo := NewGroupRepository(exec, query.NewPostgresGrammar())

	err := repo.RemoveMember(uuid.New(), uuid.New())

	assert.Error(t, err)
}

func TestAsTimePtr_NonTimeValueIsNil(t *testing.T) {
	assert.Nil(t, asTimePtr("not a time"))
	assert.Nil(t, asTimePtr(nil))

	now := time.Now()
	assert.Equal(t, &now, asTimePtr(now))
}

func TestAsUUIDPtr_HandlesAllShapes(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, &id, asUUIDPtr(id))
	assert.Equal(t, id, *asUUIDPtr(id.String()))
	assert.Nil(t, asUUIDPtr("not-a-uuid"))
	assert.Nil(t, asUUIDPtr(nil))
}
