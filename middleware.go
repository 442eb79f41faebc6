package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// responseWriter captures the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	// Default to 200 OK if WriteHeader is not called.
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests that no route pattern matched.
const unmatchedRoute = "unmatched"

// metricsMiddleware counts every request. Routed requests are labelled with
// their chi route pattern so ids in the URL do not explode the label set.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
	})
}

// corsMiddleware lets a browser-based admin dashboard call the admin API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+adminHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const adminHeader = "X-Admin-ID"

type adminIDKey struct{}

// requireAdmin rejects requests whose X-Admin-ID is missing or not a
// configured admin, and stores the admin id in the request context.
func (cfg *apiConfig) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(adminHeader), 10, 64)
		if err != nil || !cfg.isAdmin(id) {
			cfg.logger.Warn("admin access denied", "header", r.Header.Get(adminHeader), "path", r.URL.Path)
			cfg.respondWithError(w, http.StatusForbidden, "Forbidden", nil)
			return
		}
		ctx := context.WithValue(r.Context(), adminIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(adminIDKey{}).(int64)
	return id
}
