package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SelectCompilesWithNamedBindings(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Select("id", "email").Where("email", "=", "a@b.com")
	require.NoError(t, err)

	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `SELECT "id", "email" FROM "users" WHERE "email" = :`)
	require.Len(t, bindings, 1)
	assert.Equal(t, "a@b.com", bindings[0].Value)
}

func TestBuilder_CloneIsolatesState(t *testing.T) {
	base := New("users", NewMySQLGrammar())
	withWhere, err := base.Where("id", "=", 1)
	require.NoError(t, err)

	baseSQL, _, err := base.Compile()
	require.NoError(t, err)
	assert.NotContains(t, baseSQL, "WHERE")

	withSQL, _, err := withWhere.Compile()
	require.NoError(t, err)
	assert.Contains(t, withSQL, "WHERE")
}

func TestBuilder_WhereRejectsUnknownOperator(t *testing.T) {
	_, err := New("users", NewPostgresGrammar()).Where("id", "DROP TABLE", 1)
	require.Error(t, err)
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, InvalidCriteria, qerr.Kind)
}

func TestBuilder_WhereRejectsInvalidIdentifier(t *testing.T) {
	_, err := New("users", NewPostgresGrammar()).Where("id; DROP TABLE users", "=", 1)
	require.Error(t, err)
}

func TestBuilder_LimitRejectsNegative(t *testing.T) {
	_, err := New("users", NewPostgresGrammar()).Limit(-1)
	require.Error(t, err)
}

func TestBuilder_WhereInEmptyValuesNeverMatches(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).WhereIn("id", nil)
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "1 = 0")
	assert.Empty(t, bindings)
}

func TestBuilder_InsertOrdersColumnsDeterministically(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Insert(map[string]any{"email": "a@b.com", "id": 1})
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `INSERT INTO "users" ("email", "id") VALUES`)
	require.Len(t, bindings, 2)
}

func TestBuilder_UpsertCompilesOnConflict(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Upsert(map[string]any{"id": 1, "email": "a@b.com"}, []string{"email"})
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "ON CONFLICT DO UPDATE SET")
	assert.Contains(t, sql, `"email" = EXCLUDED."email"`)
}

func TestBuilder_UpsertMySQLUsesOnDuplicateKey(t *testing.T) {
	b, err := New("users", NewMySQLGrammar()).Upsert(map[string]any{"id": 1, "email": "a@b.com"}, []string{"email"})
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, sql, "VALUES(`email`)")
}

func TestRaw_RejectsDangerousContent(t *testing.T) {
	_, err := Raw("id = 1; DROP TABLE users")
	require.Error(t, err)

	_, err = Raw("id = 1 -- comment")
	require.Error(t, err)

	_, err = Raw("id = 1 /* comment */")
	require.Error(t, err)

	expr, err := Raw("COUNT(*)")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", expr.String())
}

func TestBuilder_CompileIsPureGivenSameState(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Where("id", "=", 1)
	require.NoError(t, err)

	sql1, bindings1, err := b.Compile()
	require.NoError(t, err)
	sql2, bindings2, err := b.Compile()
	require.NoError(t, err)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, bindings1[0].Value, bindings2[0].Value)
}
