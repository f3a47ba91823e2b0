package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// collections lists the resource roots advertised by GET /api.
var collections = []string{"users", "teams", "activities", "leaderboard", "workouts"}

// apiBase returns the absolute /api URL clients should use. Inside a GitHub
// Codespace the forwarded port's public hostname is used instead of Host.
func apiBase(r *http.Request, codespaceName string) string {
	if codespaceName != "" {
		return "https://" + codespaceName + "-8000.app.github.dev/api"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/api"
}

// apiRoot handles GET /api, enumerating the collection URLs.
func apiRoot(codespaceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := apiBase(r, codespaceName)
		links := make(map[string]string, len(collections))
		for _, c := range collections {
			links[c] = base + "/" + c + "/"
		}
		writeJSON(w, http.StatusOK, links)
	}
}

// recomputeHandler handles POST /api/leaderboard/recompute.
func recomputeHandler(rec Recomputer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rec.Recompute(r.Context())
		if err != nil {
			writeStoreError(w, r, err, "recompute leaderboard")
			return
		}
		auditLog(r, "recompute", "leaderboard", "", "users", res.Users, "teams", res.Teams)
		writeJSON(w, http.StatusOK, res)
	}
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
	}
}
