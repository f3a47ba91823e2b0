package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/activity"
	"github.com/octofit/octofit/internal/api"
	"github.com/octofit/octofit/internal/config"
	"github.com/octofit/octofit/internal/database"
	"github.com/octofit/octofit/internal/leaderboard"
	"github.com/octofit/octofit/internal/metrics"
	"github.com/octofit/octofit/internal/ratelimit"
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
	"github.com/octofit/octofit/internal/workout"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OctoFit API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	pool, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("connected to database")

	users := user.NewStore(pool)
	teams := team.NewStore(pool)
	board := leaderboard.NewStore(pool)

	if err := users.EnsureEmailIndex(ctx); err != nil {
		slog.Warn("could not create unique index on user email", "error", err)
	}

	m := metrics.New()
	m.RegisterDBPoolCollector(func() metrics.PoolStats {
		st := pool.Stat()
		return metrics.PoolStats{
			Total:         st.TotalConns(),
			Idle:          st.IdleConns(),
			Acquired:      st.AcquiredConns(),
			Max:           st.MaxConns(),
			Acquires:      st.AcquireCount(),
			EmptyAcquires: st.EmptyAcquireCount(),
		}
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Default > 0 {
		limiter = ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)
		go sweepLimiter(ctx, limiter, cfg.RateLimit.Window)
	}

	router := api.NewRouter(api.RouterDeps{
		Users:          users,
		Teams:          teams,
		Activities:     activity.NewStore(pool),
		Workouts:       workout.NewStore(pool),
		Leaderboard:    board,
		Recomputer:     leaderboard.NewRecomputer(users, teams, board, m),
		DB:             pool,
		Metrics:        m,
		Limiter:        limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CodespaceName:  cfg.API.CodespaceName,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// sweepLimiter drops idle rate-limit buckets once per window until ctx ends.
func sweepLimiter(ctx context.Context, l *ratelimit.Limiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				slog.Debug("swept idle rate limit buckets", "count", n)
			}
		}
	}
}
