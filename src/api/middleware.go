package api

import (
	"net/http"
	"time"

	"finance/src/metrics"
	"finance/src/sessions"
	"finance/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NoCache keeps browsers from caching any response.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger puts a request scoped logger in the context and records one
// log line and one metric sample per request. Query strings and form bodies
// are never logged.
func RequestLogger(logger logrus.FieldLogger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(utils.WithLogger(r.Context(), entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			duration := time.Since(start)
			m.ObserveRequest(r.Method, route, status, duration)

			fields := logrus.Fields{"status": status, "duration_ms": duration.Milliseconds()}
			if status >= http.StatusInternalServerError {
				entry.WithFields(fields).Error("request completed")
			} else {
				entry.WithFields(fields).Info("request completed")
			}
		})
	}
}

// RequireSession redirects to /login unless the request carries a live
// session. The account id is passed on in the request context.
func RequireSession(manager *sessions.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := manager.Authenticate(r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			ctx := sessions.WithAccountID(r.Context(), id)
			ctx = utils.WithLogger(ctx, utils.LoggerFromContext(ctx).WithField("account_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
