package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/aras-services/corefw/pkg/app"
)

// Bridge adapts one of this package's existing net/http handlers (plus
// whatever chi middleware chain wraps it) to app.Handler, so the
// framework's own router can dispatch to it without any of the handler or
// middleware code changing. The matched path parameters the router
// resolved are re-injected as a chi route context, since these handlers
// read them with chi.URLParam.
type Bridge struct {
	Inner http.Handler
}

func (b Bridge) Handle(req *app.Request) (*app.Response, error) {
	httpReq := httptest.NewRequest(req.Method, req.Path, bytes.NewReader(req.Body))
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	rctx := chi.NewRouteContext()
	for k, v := range req.Params {
		rctx.URLParams.Add(k, v)
	}
	httpReq = httpReq.WithContext(contextWithChiRouteCtx(httpReq.Context(), rctx))

	rec := httptest.NewRecorder()
	b.Inner.ServeHTTP(rec, httpReq)

	headers := make(map[string]string, len(rec.Header()))
	for k := range rec.Header() {
		headers[k] = rec.Header().Get(k)
	}
	return &app.Response{Status: rec.Code, Headers: headers, Body: rec.Body.Bytes()}, nil
}

func contextWithChiRouteCtx(ctx context.Context, rctx *chi.Context) context.Context {
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}
