package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDelete_DefaultFilterExcludesTrashed(t *testing.T) {
	b := New("posts", NewPostgresGrammar()).EnableSoftDeletes(true, "")
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"deleted_at" IS NULL`)
}

func TestSoftDelete_WithTrashedSkipsFilter(t *testing.T) {
	b := New("posts", NewPostgresGrammar()).EnableSoftDeletes(true, "").WithTrashed()
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.NotContains(t, sql, "deleted_at")
}

func TestSoftDelete_OnlyTrashedRequiresNonNull(t *testing.T) {
	b := New("posts", NewPostgresGrammar()).EnableSoftDeletes(true, "").OnlyTrashed()
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"deleted_at" IS NOT NULL`)
}

func TestSoftDelete_SoftDeleteIssuesUpdateNotDelete(t *testing.T) {
	b, err := New("posts", NewPostgresGrammar()).EnableSoftDeletes(true, "").SoftDelete()
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE")
	assert.Contains(t, sql, `"deleted_at" = NOW()`)
}

func TestSoftDelete_RequiresEnableFirst(t *testing.T) {
	_, err := New("posts", NewPostgresGrammar()).SoftDelete()
	require.Error(t, err)
}

func TestSoftDelete_ForceDeleteBypassesFilter(t *testing.T) {
	b := New("posts", NewPostgresGrammar()).EnableSoftDeletes(true, "").ForceDelete()
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "DELETE FROM")
	assert.NotContains(t, sql, "deleted_at")
}
