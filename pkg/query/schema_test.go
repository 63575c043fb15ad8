package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_RejectsInvalidIdentifiers(t *testing.T) {
	s := NewSchema(NewPostgresGrammar())
	_, err := s.CreateDatabase("bad name; drop")
	require.Error(t, err)
}

func TestSchema_DialectSpecificDDL(t *testing.T) {
	pg := NewSchema(NewPostgresGrammar())
	sql, err := pg.DropTable("widgets")
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "widgets"`, sql)

	mysql := NewSchema(NewMySQLGrammar())
	sql, err = mysql.DropTable("widgets")
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE IF EXISTS `widgets`", sql)
}

func TestSchema_TableExistsProducesBinding(t *testing.T) {
	s := NewSchema(NewPostgresGrammar())
	sql, bindings, err := s.TableExistsQuery("widgets")
	require.NoError(t, err)
	assert.Contains(t, sql, "information_schema.tables")
	require.Len(t, bindings, 1)
	assert.Equal(t, "widgets", bindings[0].Value)
}
