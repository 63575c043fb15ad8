package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditions_WhereNilEqualsBecomesIsNull(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Where("deleted_at", "=", nil)
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"deleted_at" IS NULL`)
	assert.Empty(t, bindings)
}

func TestConditions_WhereNilNotEqualsBecomesIsNotNull(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Where("deleted_at", "!=", nil)
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"deleted_at" IS NOT NULL`)
}

func TestConditions_WhereInProducesOneBindingPerValue(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).WhereIn("id", []any{1, 2, 3})
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"id" IN (`)
	require.Len(t, bindings, 3)
}

func TestConditions_WhereRawPassesThroughArgs(t *testing.T) {
	expr, err := Raw("id = ANY(?)")
	require.NoError(t, err)
	b := New("users", NewPostgresGrammar()).WhereRaw(expr, []int{1, 2})
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "id = ANY(?)")
	require.Len(t, bindings, 1)
}

func TestConditions_WhereJSONContains(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).WhereJSONContains("meta", map[string]any{"plan": "pro"})
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"meta" @>`)
	require.Len(t, bindings, 1)
}

func TestConditions_WhereFullText(t *testing.T) {
	b, err := New("articles", NewPostgresGrammar()).WhereFullText([]string{"title", "body"}, "golang")
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "to_tsvector")
	assert.Contains(t, sql, "plainto_tsquery")
	require.Len(t, bindings, 1)
}

func TestConditions_WhereTodayPastFuture(t *testing.T) {
	grammar := NewPostgresGrammar()

	today, err := New("events", grammar).WhereToday("starts_at")
	require.NoError(t, err)
	sql, _, err := today.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "CURRENT_DATE")

	past, err := New("events", grammar).WherePast("starts_at")
	require.NoError(t, err)
	sql, _, err = past.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "< NOW()")

	future, err := New("events", grammar).WhereFuture("starts_at")
	require.NoError(t, err)
	sql, _, err = future.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "> NOW()")
}

func TestConditions_OrWhereUsesOrBoolean(t *testing.T) {
	b, err := New("users", NewPostgresGrammar()).Where("status", "=", "active")
	require.NoError(t, err)
	b, err = b.OrWhere("status", "=", "pending")
	require.NoError(t, err)

	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, " OR ")
	require.Len(t, bindings, 2)
}
