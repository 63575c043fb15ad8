package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aras-services/corefw/pkg/bootstrap"
	"github.com/aras-services/corefw/pkg/kernel"
	"github.com/aras-services/corefw/pkg/router"
)

type echoHandler struct{}

func (echoHandler) Handle(req *Request) (*Response, error) {
	return &Response{Status: 200, Body: []byte(req.Params["id"])}, nil
}

type pingProvider struct {
	registered, booted bool
}

func (p *pingProvider) Register(a *Application) error {
	p.registered = true
	a.Container().Register(kernel.NewDefinition("ping", kernel.Singleton).WithInstance(echoHandler{}))
	return nil
}

func (p *pingProvider) Boot(a *Application) error {
	p.booted = true
	return nil
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	a := New(bootstrap.Testing())
	require.NoError(t, a.Register(&pingProvider{}))
	require.NoError(t, a.LoadRoutes("", func(d *router.Dsl) {
		d.Get("/ping/{id}", router.HandlerRef{Action: "ping"})
	}))
	return a
}

func TestRun_RejectsBeforeBoot(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Run(&Request{Method: "GET", Path: "/ping/7"})
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, NotBooted, aerr.Kind)
}

func TestRun_DispatchesThroughContainerAfterBoot(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Boot())

	resp, err := a.Run(&Request{Method: "GET", Path: "/ping/7"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "7", string(resp.Body))
}

func TestBoot_RejectsSecondCall(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Boot())
	err := a.Boot()
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AlreadyBooted, aerr.Kind)
}

func TestRun_EndsScopeEvenOnRouteMiss(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Boot())

	_, err := a.Run(&Request{Method: "GET", Path: "/nowhere"})
	require.Error(t, err)
	assert.Equal(t, 0, a.Container().Scopes().Depth())
}

func TestRegister_LateProviderIsBootedImmediatelyWhenAppAlreadyBooted(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Boot())

	late := &pingProvider{}
	require.NoError(t, a.Register(late))
	assert.True(t, late.registered)
	assert.True(t, late.booted)
}
