package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Middleware records request count, latency and response size, labelled by
// the matched chi route pattern so ids do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				pattern = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveRequest(ResourceOf(pattern), r.Method, pattern, status, ww.BytesWritten(), time.Since(start))
	})
}

// ResourceOf maps a route pattern to the collection it serves:
// "/api/users/{id}" is "users", "/api" is "root" and anything outside /api
// is "system".
func ResourceOf(pattern string) string {
	rest, ok := strings.CutPrefix(pattern, "/api")
	if !ok {
		return "system"
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "root"
	}
	first, _, _ := strings.Cut(rest, "/")
	return first
}
