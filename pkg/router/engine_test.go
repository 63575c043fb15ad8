package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAll(t *testing.T, fn func(d *Dsl)) []*Definition {
	t.Helper()
	reg := Scoped(fn)
	defs, err := reg.Definitions()
	require.NoError(t, err)
	return defs
}

func TestEngine_MatchesSimpleRoute(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/users/{id}", HandlerRef{Action: "users.show"})
	})
	e := NewEngine(defs, nil, nil)

	resolved, err := e.Resolve(RequestView{Method: "GET", Path: "/users/42"})
	require.NoError(t, err)
	assert.Equal(t, "42", resolved.Params["id"])
	assert.Equal(t, "users.show", resolved.Route.Action.Action)
}

func TestEngine_MethodNotAllowedWhenPathMatchesDifferentMethod(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Post("/users/{id}", HandlerRef{Action: "users.update"})
	})
	e := NewEngine(defs, nil, nil)

	_, err := e.Resolve(RequestView{Method: "GET", Path: "/users/42"})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, MethodNotAllowed, rerr.Kind)
	assert.Contains(t, rerr.Allowed, "POST")
}

func TestEngine_RouteNotFoundWithNoFallback(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/users/{id}", HandlerRef{Action: "users.show"})
	})
	e := NewEngine(defs, nil, nil)

	_, err := e.Resolve(RequestView{Method: "GET", Path: "/nowhere"})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, RouteNotFound, rerr.Kind)
}

func TestEngine_FallbackDispatchesOnMiss(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/users/{id}", HandlerRef{Action: "users.show"})
	})
	fallback := HandlerRef{Action: "not-found-handler"}
	e := NewEngine(defs, &fallback, nil)

	resolved, err := e.Resolve(RequestView{Method: "GET", Path: "/nowhere"})
	require.NoError(t, err)
	assert.Equal(t, "not-found-handler", resolved.Route.Action.Action)
}

func TestEngine_HeadFallsBackToGet(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/ping", HandlerRef{Action: "ping"})
	})
	e := NewEngine(defs, nil, nil)

	resolved, err := e.Resolve(RequestView{Method: "HEAD", Path: "/ping"})
	require.NoError(t, err)
	assert.Equal(t, "ping", resolved.Route.Action.Action)
}

func TestEngine_ConstraintRejectsNonMatchingParam(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/users/{id}", HandlerRef{Action: "users.show"}).Where(map[string]string{"id": `^\d+$`})
	})
	e := NewEngine(defs, nil, nil)

	_, err := e.Resolve(RequestView{Method: "GET", Path: "/users/abc"})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, RouteNotFound, rerr.Kind)

	resolved, err := e.Resolve(RequestView{Method: "GET", Path: "/users/123"})
	require.NoError(t, err)
	assert.Equal(t, "123", resolved.Params["id"])
}

func TestEngine_GroupInheritsPrefixAndMiddleware(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Group(GroupContext{Prefix: "/api", Middleware: []string{"auth"}}, func(d *Dsl) {
			d.Get("/users", HandlerRef{Action: "users.index"}).Middleware("throttle")
		})
	})
	require.Len(t, defs, 1)
	assert.Equal(t, "/api/users", defs[0].Path)
	assert.ElementsMatch(t, []string{"auth", "throttle"}, defs[0].Middleware)
}

func TestEngine_DomainConstrainsMatch(t *testing.T) {
	defs := compileAll(t, func(d *Dsl) {
		d.Get("/dashboard", HandlerRef{Action: "admin.dashboard"}).Domain("admin.example.com")
	})
	e := NewEngine(defs, nil, nil)

	_, err := e.Resolve(RequestView{Method: "GET", Path: "/dashboard", Host: "example.com"})
	require.Error(t, err)

	resolved, err := e.Resolve(RequestView{Method: "GET", Path: "/dashboard", Host: "admin.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "admin.dashboard", resolved.Route.Action.Action)
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	reg := Scoped(func(d *Dsl) {
		d.Get("/a", HandlerRef{Action: "a"}).Name("same")
		d.Get("/b", HandlerRef{Action: "b"}).Name("same")
	})
	_, err := reg.Definitions()
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, DuplicateRoute, rerr.Kind)
}

func TestDsl_UnsupportedMethodRejected(t *testing.T) {
	reg := NewRegistry()
	d := NewDsl(reg)
	_, err := d.Method("TRACE", "/x", HandlerRef{Action: "x"})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, UnsupportedMethod, rerr.Kind)
}

func TestDsl_GroupOnlyOpsFailOutsideGroup(t *testing.T) {
	reg := NewRegistry()
	d := NewDsl(reg)
	err := d.GroupMiddleware("auth")
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, NoActiveGroup, rerr.Kind)
}
