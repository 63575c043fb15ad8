package kernel

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer() *Container {
	return New(DefaultConfig(), nil, nil)
}

func TestContainer_FactoryTransientIsRebuiltEveryResolve(t *testing.T) {
	c := newTestContainer()
	calls := 0
	c.Register(NewDefinition("counter", Transient).WithFactory(func(ctx *Context) (any, error) {
		calls++
		return calls, nil
	}))

	v1, err := c.Resolve("counter")
	require.NoError(t, err)
	v2, err := c.Resolve("counter")
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestContainer_SingletonIsCachedAcrossResolves(t *testing.T) {
	c := newTestContainer()
	calls := 0
	c.Register(NewDefinition("clock", Singleton).WithFactory(func(ctx *Context) (any, error) {
		calls++
		return calls, nil
	}))

	v1, err := c.Resolve("clock")
	require.NoError(t, err)
	v2, err := c.Resolve("clock")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestContainer_ScopedReusesWithinScopeNotAcross(t *testing.T) {
	c := newTestContainer()
	calls := 0
	c.Register(NewDefinition("request-id", Scoped).WithFactory(func(ctx *Context) (any, error) {
		calls++
		return calls, nil
	}))

	c.Scopes().BeginScope()
	v1, err := c.Resolve("request-id")
	require.NoError(t, err)
	v1b, err := c.Resolve("request-id")
	require.NoError(t, err)
	assert.Equal(t, v1, v1b)
	require.NoError(t, c.Scopes().EndScope())

	c.Scopes().BeginScope()
	v2, err := c.Resolve("request-id")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
	require.NoError(t, c.Scopes().EndScope())
}

func TestContainer_ScopedWithoutActiveScopeDegradesNonStrict(t *testing.T) {
	c := newTestContainer() // Strict: false
	c.Register(NewDefinition("orphan", Scoped).WithFactory(func(ctx *Context) (any, error) {
		return "value", nil
	}))

	v, err := c.Resolve("orphan")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestContainer_ScopedWithoutActiveScopeFailsStrict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	c := New(cfg, nil, nil)
	c.Register(NewDefinition("orphan", Scoped).WithFactory(func(ctx *Context) (any, error) {
		return "value", nil
	}))

	_, err := c.Resolve("orphan")
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, NoActiveScope, kerr.Kind)
}

func TestContainer_CyclicDependencyIsDetected(t *testing.T) {
	c := newTestContainer()
	c.Register(NewDefinition("a", Transient).WithFactory(func(ctx *Context) (any, error) {
		return ctx.Resolve("b")
	}))
	c.Register(NewDefinition("b", Transient).WithFactory(func(ctx *Context) (any, error) {
		return ctx.Resolve("a")
	}))

	_, err := c.Resolve("a")
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CyclicOrDeep, kerr.Kind)
}

func TestContainer_MaxResolutionDepthIsEnforced(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResolutionDepth = 3
	c := New(cfg, nil, nil)
	for i := 0; i < 10; i++ {
		id := depthChainID(i)
		next := depthChainID(i + 1)
		c.Register(NewDefinition(id, Transient).WithFactory(func(ctx *Context) (any, error) {
			return ctx.Resolve(next)
		}))
	}
	c.Register(NewDefinition(depthChainID(10), Transient).WithFactory(func(ctx *Context) (any, error) {
		return "leaf", nil
	}))

	_, err := c.Resolve(depthChainID(0))
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CyclicOrDeep, kerr.Kind)
}

func depthChainID(n int) string {
	return "chain-" + string(rune('a'+n))
}

func TestContainer_NotFoundForUnregisteredID(t *testing.T) {
	c := newTestContainer()
	_, err := c.Resolve("missing")
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, NotFound, kerr.Kind)
}

func TestContainer_FactoryErrorWrapsAsNotInstantiable(t *testing.T) {
	c := newTestContainer()
	sentinel := errors.New("boom")
	c.Register(NewDefinition("broken", Transient).WithFactory(func(ctx *Context) (any, error) {
		return nil, sentinel
	}))

	_, err := c.Resolve("broken")
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, NotInstantiable, kerr.Kind)
	assert.ErrorIs(t, err, sentinel)
}

type injectedService struct {
	Dep string `inject:"dep-id"`
}

func TestContainer_AutowiresPropertyInjection(t *testing.T) {
	c := newTestContainer()
	c.Register(NewDefinition("dep-id", Singleton).WithInstance("resolved-dep"))
	c.RegisterAutowireType("injected", reflect.TypeOf(injectedService{}))

	v, err := c.Resolve("injected")
	require.NoError(t, err)
	svc, ok := v.(injectedService)
	require.True(t, ok)
	assert.Equal(t, "resolved-dep", svc.Dep)
}

func TestContainer_StrictModeRejectsUnregisteredAutowire(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	c := New(cfg, nil, nil)
	c.RegisterAutowireType("injected", reflect.TypeOf(injectedService{}))

	_, err := c.Resolve("injected")
	require.Error(t, err)
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, NotFound, kerr.Kind)
}

func TestContainer_InstanceDefinitionShortCircuits(t *testing.T) {
	c := newTestContainer()
	c.Register(NewDefinition("config", Singleton).WithInstance(42))

	v, err := c.Resolve("config")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestContainer_AliasResolvesToCanonicalDefinition(t *testing.T) {
	c := newTestContainer()
	c.Register(NewDefinition("canonical", Singleton).WithInstance("value").Alias("alias"))

	v, err := c.Resolve("alias")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}
