package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_JoinCompiles(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).Join("users", "", func(jb JoinBuilder) JoinBuilder {
		return jb.On("orders.user_id", "=", "users.id")
	})
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `INNER JOIN "users" ON "orders.user_id" = "users.id"`)
}

func TestGrammar_GroupByAndHaving(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).GroupBy("status")
	require.NoError(t, err)
	b, err = b.Having("status", "=", "paid")
	require.NoError(t, err)

	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `GROUP BY "status"`)
	assert.Contains(t, sql, "HAVING")
	require.Len(t, bindings, 1)
}

func TestGrammar_OrderByFieldUsesCaseExpression(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).OrderByField("status", []string{"pending", "paid", "shipped"})
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `CASE "status" WHEN 'pending' THEN 0 WHEN 'paid' THEN 1 WHEN 'shipped' THEN 2 END`)
}

func TestGrammar_OrderByRandDialectSpecific(t *testing.T) {
	pgSQL, _, err := New("orders", NewPostgresGrammar()).OrderByRand().Compile()
	require.NoError(t, err)
	assert.Contains(t, pgSQL, "RANDOM()")

	mysqlSQL, _, err := New("orders", NewMySQLGrammar()).OrderByRand().Compile()
	require.NoError(t, err)
	assert.Contains(t, mysqlSQL, "RAND()")
}

func TestGrammar_LimitOffset(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).Limit(10)
	require.NoError(t, err)
	b, err = b.Offset(5)
	require.NoError(t, err)
	sql, _, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 5")
}

func TestGrammar_WhereBetweenProducesTwoBindings(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).WhereBetween("total", 10, 100)
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "BETWEEN")
	require.Len(t, bindings, 2)
}

func TestGrammar_WhereColumnComparesTwoColumns(t *testing.T) {
	b, err := New("orders", NewPostgresGrammar()).WhereColumn("updated_at", ">", "created_at")
	require.NoError(t, err)
	sql, bindings, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, sql, `"updated_at" > "created_at"`)
	assert.Empty(t, bindings)
}
