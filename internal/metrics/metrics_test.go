package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResourceOf(t *testing.T) {
	tests := map[string]string{
		"/api":                       "root",
		"/api/":                      "root",
		"/api/users":                 "users",
		"/api/users/{id}":            "users",
		"/api/leaderboard/recompute": "leaderboard",
		"/health":                    "system",
		"unmatched":                  "system",
	}
	for pattern, want := range tests {
		if got := ResourceOf(pattern); got != want {
			t.Errorf("ResourceOf(%q) = %q, want %q", pattern, got, want)
		}
	}
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/api/teams", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	for _, path := range []string{"/api/users/a", "/api/users/b", "/api/teams"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("users", "GET", "/api/users/{id}", "404")); got != 2 {
		t.Errorf("expected 2 user lookups, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("teams", "GET", "/api/teams", "200")); got != 1 {
		t.Errorf("expected 1 team list, got %v", got)
	}
}

func TestObserveRecompute(t *testing.T) {
	m := New()

	m.ObserveRecompute(12, 2, 20*time.Millisecond, nil)
	m.ObserveRecompute(0, 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.RecomputesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecomputesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 error, got %v", got)
	}
	// A failed recompute leaves the row gauges describing the last snapshot.
	if got := testutil.ToFloat64(m.LeaderboardRows.WithLabelValues("user")); got != 12 {
		t.Errorf("expected 12 user rows, got %v", got)
	}
}

func TestSummaryHandler(t *testing.T) {
	m := New()
	m.RegisterDBPoolCollector(func() PoolStats { return PoolStats{Total: 4, Idle: 3, Acquired: 1, Max: 10} })
	m.ObserveRequest("users", "GET", "/api/users", 200, 512, 10*time.Millisecond)
	m.ObserveRequest("users", "POST", "/api/users", 422, 128, 5*time.Millisecond)
	m.ObserveRequest("teams", "GET", "/api/teams", 200, 64, 2*time.Millisecond)
	m.ObserveRecompute(12, 2, 50*time.Millisecond, nil)
	m.IncRateLimitRejection()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var s Summary
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}

	if s.HTTP.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %v", s.HTTP.TotalRequests)
	}
	if s.HTTP.ErrorRate < 0.33 || s.HTTP.ErrorRate > 0.34 {
		t.Errorf("expected error rate 1/3, got %v", s.HTTP.ErrorRate)
	}
	if s.Resources["users"] != 2 || s.Resources["teams"] != 1 {
		t.Errorf("unexpected per-resource counts: %v", s.Resources)
	}
	if s.Leaderboard.Recomputes != 1 || s.Leaderboard.UserRows != 12 || s.Leaderboard.TeamRows != 2 {
		t.Errorf("unexpected leaderboard summary: %+v", s.Leaderboard)
	}
	if s.RateLimit.Rejections != 1 {
		t.Errorf("expected 1 rejection, got %v", s.RateLimit.Rejections)
	}
	if s.DB.TotalConns != 4 || s.DB.AcquiredConns != 1 || s.DB.MaxConns != 10 {
		t.Errorf("unexpected db summary: %+v", s.DB)
	}
	if s.Server.StartTime == 0 {
		t.Error("server start time not set")
	}
}
