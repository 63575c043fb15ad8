package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userController struct {
	List HandlerRef `route:"GET /users" name:"users.list"`
	Show HandlerRef `route:"GET /users/{id}" authorization:"perm:users:read"`
	Create HandlerRef `route:"POST /users" middleware:"auth,json"`
}

func TestDsl_RegisterAttributesDiscoversTaggedFields(t *testing.T) {
	ctrl := &userController{
		List:   HandlerRef{Action: "users.list"},
		Show:   HandlerRef{Action: "users.show"},
		Create: HandlerRef{Action: "users.create"},
	}

	defs := compileAll(t, func(d *Dsl) {
		require.NoError(t, d.RegisterAttributes(ctrl))
	})

	require.Len(t, defs, 3)

	byAction := make(map[string]*Definition, len(defs))
	for _, def := range defs {
		byAction[def.Action.Action] = def
	}

	list := byAction["users.list"]
	require.NotNil(t, list)
	assert.Equal(t, "/users", list.Path)
	assert.Equal(t, "users.list", list.Name)
	if _, ok := list.Methods[GET]; !ok {
		t.Fatalf("expected GET in methods for users.list")
	}

	show := byAction["users.show"]
	require.NotNil(t, show)
	assert.Equal(t, "perm:users:read", show.Authorization)

	create := byAction["users.create"]
	require.NotNil(t, create)
	assert.ElementsMatch(t, []string{"auth", "json"}, create.Middleware)
	if _, ok := create.Methods[POST]; !ok {
		t.Fatalf("expected POST in methods for users.create")
	}
}

func TestDsl_RegisterAttributesRejectsNonStruct(t *testing.T) {
	reg := NewRegistry()
	dsl := NewDsl(reg)

	err := dsl.RegisterAttributes(42)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, InvalidPath, rerr.Kind)
}

func TestDsl_RegisterAttributesSkipsUntaggedFields(t *testing.T) {
	type partial struct {
		Tagged   HandlerRef `route:"GET /only"`
		Untagged HandlerRef
		private  HandlerRef
	}
	ctrl := &partial{Tagged: HandlerRef{Action: "only"}}

	defs := compileAll(t, func(d *Dsl) {
		require.NoError(t, d.RegisterAttributes(ctrl))
	})

	require.Len(t, defs, 1)
	assert.Equal(t, "/only", defs[0].Path)
}
