package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octofit/octofit/internal/activity"
	"github.com/octofit/octofit/internal/leaderboard"
	"github.com/octofit/octofit/internal/metrics"
	"github.com/octofit/octofit/internal/ratelimit"
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
	"github.com/octofit/octofit/internal/workout"
)

type (
	UserStore        = RecordStore[user.User, user.CreateUserInput, user.UpdateUserInput]
	TeamStore        = RecordStore[team.Team, team.CreateTeamInput, team.UpdateTeamInput]
	ActivityStore    = RecordStore[activity.Activity, activity.CreateActivityInput, activity.UpdateActivityInput]
	WorkoutStore     = RecordStore[workout.Workout, workout.CreateWorkoutInput, workout.UpdateWorkoutInput]
	LeaderboardStore = RecordStore[leaderboard.Entry, leaderboard.CreateEntryInput, leaderboard.UpdateEntryInput]
)

// Recomputer rebuilds the leaderboard on demand.
type Recomputer interface {
	Recompute(ctx context.Context) (leaderboard.Result, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds all dependencies for the API router. Nil stores leave
// their collection unrouted; nil Metrics, Limiter and DB disable those
// features.
type RouterDeps struct {
	Users       UserStore
	Teams       TeamStore
	Activities  ActivityStore
	Workouts    WorkoutStore
	Leaderboard LeaderboardStore
	Recomputer  Recomputer

	DB             Pinger
	Metrics        *metrics.Metrics
	Limiter        *ratelimit.Limiter
	AllowedOrigins []string
	CodespaceName  string
	// TrustProxy rewrites RemoteAddr from forwarding headers before any
	// middleware reads it.
	TrustProxy bool
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(requestIDMiddleware)
	r.Use(slogRequestLogger)
	r.Use(apiHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(chimw.StripSlashes)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/health", healthHandler(deps.DB))

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
		r.Get("/metrics/summary", deps.Metrics.Handler())
	}

	var onReject []func()
	if deps.Metrics != nil {
		onReject = append(onReject, deps.Metrics.IncRateLimitRejection)
	}

	r.Route("/api", func(ar chi.Router) {
		ar.Use(ratelimit.Middleware(deps.Limiter, ratelimit.ClientIP, onReject...))

		ar.Get("/", apiRoot(deps.CodespaceName))

		if deps.Users != nil {
			h := &resourceHandler[user.User, user.CreateUserInput, user.UpdateUserInput]{
				name: "user", store: deps.Users, id: func(u *user.User) string { return u.ID },
			}
			h.mount(ar, "/users")
		}
		if deps.Teams != nil {
			h := &resourceHandler[team.Team, team.CreateTeamInput, team.UpdateTeamInput]{
				name: "team", store: deps.Teams, id: func(t *team.Team) string { return t.ID },
			}
			h.mount(ar, "/teams")
		}
		if deps.Activities != nil {
			h := &resourceHandler[activity.Activity, activity.CreateActivityInput, activity.UpdateActivityInput]{
				name: "activity", store: deps.Activities, id: func(a *activity.Activity) string { return a.ID },
			}
			h.mount(ar, "/activities")
		}
		if deps.Workouts != nil {
			h := &resourceHandler[workout.Workout, workout.CreateWorkoutInput, workout.UpdateWorkoutInput]{
				name: "workout", store: deps.Workouts, id: func(wk *workout.Workout) string { return wk.ID },
			}
			h.mount(ar, "/workouts")
		}
		if deps.Leaderboard != nil {
			h := &resourceHandler[leaderboard.Entry, leaderboard.CreateEntryInput, leaderboard.UpdateEntryInput]{
				name: "leaderboard entry", store: deps.Leaderboard, id: func(e *leaderboard.Entry) string { return e.ID },
			}
			h.mount(ar, "/leaderboard")
		}
		if deps.Recomputer != nil {
			ar.Post("/leaderboard/recompute", recomputeHandler(deps.Recomputer))
		}
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
