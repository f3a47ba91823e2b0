package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
)

// UserSource lists users in creation order.
type UserSource interface {
	ListInInsertionOrder(ctx context.Context) ([]*user.User, error)
}

// TeamSource lists teams in creation order.
type TeamSource interface {
	ListInInsertionOrder(ctx context.Context) ([]*team.Team, error)
}

// Replacer atomically swaps the stored leaderboard.
type Replacer interface {
	Replace(ctx context.Context, standings []Standing, now time.Time) (int64, error)
}

// Observer is notified after every recompute attempt.
type Observer interface {
	ObserveRecompute(users, teams int, elapsed time.Duration, err error)
}

// Result reports how many rows of each type a recompute wrote.
type Result struct {
	Users int `json:"users"`
	Teams int `json:"teams"`
}

// Recomputer rebuilds the leaderboard from current user and team totals.
// Calls within one process run one at a time.
type Recomputer struct {
	users    UserSource
	teams    TeamSource
	board    Replacer
	observer Observer
	now      func() time.Time

	mu sync.Mutex
}

// NewRecomputer creates a Recomputer. observer may be nil.
func NewRecomputer(users UserSource, teams TeamSource, board Replacer, observer Observer) *Recomputer {
	return &Recomputer{
		users:    users,
		teams:    teams,
		board:    board,
		observer: observer,
		now:      time.Now,
	}
}

// Recompute discards every leaderboard row and writes a fresh ranking for
// all users and all teams.
func (r *Recomputer) Recompute(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now()
	res, err := r.recompute(ctx, start)
	if r.observer != nil {
		r.observer.ObserveRecompute(res.Users, res.Teams, time.Since(start), err)
	}
	if err != nil {
		return Result{}, err
	}

	slog.Info("leaderboard recomputed", "users", res.Users, "teams", res.Teams)
	return res, nil
}

func (r *Recomputer) recompute(ctx context.Context, now time.Time) (Result, error) {
	users, err := r.users.ListInInsertionOrder(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recompute: %w", err)
	}
	teams, err := r.teams.ListInInsertionOrder(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recompute: %w", err)
	}

	userRows := RankUsers(users)
	teamRows := RankTeams(teams)

	standings := make([]Standing, 0, len(userRows)+len(teamRows))
	standings = append(standings, userRows...)
	standings = append(standings, teamRows...)

	if _, err := r.board.Replace(ctx, standings, now); err != nil {
		return Result{}, fmt.Errorf("recompute: %w", err)
	}
	return Result{Users: len(userRows), Teams: len(teamRows)}, nil
}
