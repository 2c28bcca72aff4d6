package middleware

import (
	"context"
	"net/http"
	"time"
)

func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		timeoutHandler := http.TimeoutHandler(
			next,
			timeout,
			`{"success":false,"error":{"code":"TIMEOUT","message":"Request timeout"}}`,
		)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			timeoutHandler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RouteTimeouts applies Timeout(def) to every request except those whose path
// has its own entry in routes.
func RouteTimeouts(def time.Duration, routes map[string]time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fallback := Timeout(def)(next)
		byPath := make(map[string]http.Handler, len(routes))
		for path, timeout := range routes {
			byPath[path] = Timeout(timeout)(next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h, ok := byPath[r.URL.Path]; ok {
				h.ServeHTTP(w, r)
				return
			}
			fallback.ServeHTTP(w, r)
		})
	}
}
