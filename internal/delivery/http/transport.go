package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aras-services/corefw/pkg/app"
	"github.com/aras-services/corefw/pkg/kernel"
	"github.com/aras-services/corefw/pkg/router"
)

// Serve adapts a net/http request into the core's abstract app.Request,
// runs it through Application.Run (the per-request step; register and
// boot already happened once at startup), and writes
// the resulting app.Response back out. This is the outer transport's only
// contact point with the framework: everything past this function talks
// app.Request/app.Response, never *http.Request, per §1 ("the core
// consumes an abstract Request/Response shape").
func Serve(a *app.Application, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "cannot read request body", http.StatusBadRequest)
			return
		}

		req := &app.Request{
			Method:  r.Method,
			Path:    r.URL.Path,
			Host:    r.Host,
			Headers: r.Header,
			Body:    body,
		}

		start := time.Now()
		resp, err := a.Run(req)
		if err != nil {
			writeFrameworkError(w, logger, err, time.Since(start))
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Body)
	}
}

// writeFrameworkError maps the error taxonomy of §7 onto HTTP status codes
// (§6 "Error surface to callers of the HTTP layer"). Anything that isn't a
// recognized router/container error falls through to a 500 with a
// correlation id, logged at error level since it represents a framework
// bug rather than a client mistake.
func writeFrameworkError(w http.ResponseWriter, logger *zap.Logger, err error, elapsed time.Duration) {
	var routeErr *router.Error
	if errors.As(err, &routeErr) {
		switch routeErr.Kind {
		case router.RouteNotFound:
			WriteError(w, http.StatusNotFound, "route_not_found", err)
			return
		case router.MethodNotAllowed:
			for _, m := range routeErr.Allowed {
				w.Header().Add("Allow", m)
			}
			WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", err)
			return
		case router.MissingFallback:
			WriteError(w, http.StatusNotFound, "route_not_found", err)
			return
		}
	}

	var containerErr *kernel.Error
	if errors.As(err, &containerErr) {
		correlationID := uuid.NewString()
		logger.Error("container resolution failed",
			zap.String("correlation_id", correlationID),
			zap.String("kind", string(containerErr.Kind)),
			zap.String("service_id", containerErr.ServiceID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		WriteError(w, http.StatusInternalServerError, "internal_error", errors.New(correlationID))
		return
	}

	correlationID := uuid.NewString()
	logger.Error("unhandled framework error",
		zap.String("correlation_id", correlationID),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	WriteError(w, http.StatusInternalServerError, "internal_error", errors.New(correlationID))
}
