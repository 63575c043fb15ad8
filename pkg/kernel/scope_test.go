package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRegistry_GetMissReturnsAbsentSentinel(t *testing.T) {
	s := NewScopeRegistry()
	v, ok := s.Get("nothing")
	assert.False(t, ok)
	assert.Equal(t, absent, v)
}

func TestScopeRegistry_EndScopeUnderflows(t *testing.T) {
	s := NewScopeRegistry()
	err := s.EndScope()
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, ScopeUnderflow, kerr.Kind)
}

func TestScopeRegistry_SetFallsBackToSingletonWithNoScope(t *testing.T) {
	s := NewScopeRegistry()
	s.Set("x", 1)
	v, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestScopeRegistry_TerminateClearsBothLayers(t *testing.T) {
	s := NewScopeRegistry()
	s.AddSingleton("sing", 1)
	s.BeginScope()
	require.NoError(t, s.SetScoped("scoped", 2))

	s.Terminate()

	_, ok := s.Get("sing")
	assert.False(t, ok)
	_, ok = s.Get("scoped")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Depth())
}

func TestScopeRegistry_DepthTracksNesting(t *testing.T) {
	s := NewScopeRegistry()
	assert.Equal(t, 0, s.Depth())
	s.BeginScope()
	s.BeginScope()
	assert.Equal(t, 2, s.Depth())
	require.NoError(t, s.EndScope())
	assert.Equal(t, 1, s.Depth())
}
