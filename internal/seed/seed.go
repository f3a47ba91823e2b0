// Package seed wipes every collection and loads a fixed superhero catalogue
// with randomly generated points and activities.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/octofit/octofit/internal/activity"
	"github.com/octofit/octofit/internal/leaderboard"
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
	"github.com/octofit/octofit/internal/workout"
)

// Clearer empties one collection.
type Clearer interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// UserStore is the user collection as the seeder uses it.
type UserStore interface {
	Clearer
	Create(ctx context.Context, in user.CreateUserInput) (*user.User, error)
	EnsureEmailIndex(ctx context.Context) error
}

// TeamStore creates teams and writes back their member totals.
type TeamStore interface {
	Clearer
	Create(ctx context.Context, in team.CreateTeamInput) (*team.Team, error)
	Update(ctx context.Context, id string, in team.UpdateTeamInput) (*team.Team, error)
}

// ActivityStore receives the generated activities.
type ActivityStore interface {
	Clearer
	Create(ctx context.Context, in activity.CreateActivityInput) (*activity.Activity, error)
}

// WorkoutStore receives the workout catalogue.
type WorkoutStore interface {
	Clearer
	Create(ctx context.Context, in workout.CreateWorkoutInput) (*workout.Workout, error)
}

// Recomputer rebuilds the leaderboard.
type Recomputer interface {
	Recompute(ctx context.Context) (leaderboard.Result, error)
}

// Stores groups the collections a seed run writes to.
type Stores struct {
	Users       UserStore
	Teams       TeamStore
	Activities  ActivityStore
	Workouts    WorkoutStore
	Leaderboard Clearer
}

// Ranges bounds the generated values. Every range is inclusive.
type Ranges struct {
	MinActivities, MaxActivities int
	MinDuration, MaxDuration     int // minutes
	MinRate, MaxRate             int // kcal per minute
	MinPoints, MaxPoints         int // user total_points
	HistoryDays                  int
}

// DefaultRanges matches the stock sample data.
var DefaultRanges = Ranges{
	MinActivities: 5, MaxActivities: 10,
	MinDuration: 20, MaxDuration: 90,
	MinRate: 8, MaxRate: 15,
	MinPoints: 500, MaxPoints: 2000,
	HistoryDays: 30,
}

// Summary reports what a seed run created.
type Summary struct {
	Teams       int
	Users       int
	Workouts    int
	Activities  int
	Leaderboard int

	// IndexWarning is set when the unique email index could not be ensured.
	IndexWarning string
}

// Seeder loads sample data. It is not safe for concurrent use because it
// owns its random source.
type Seeder struct {
	stores     Stores
	recomputer Recomputer
	rng        *rand.Rand
	ranges     Ranges
	now        func() time.Time
}

// New creates a Seeder drawing from rng.
func New(stores Stores, recomputer Recomputer, rng *rand.Rand, ranges Ranges) *Seeder {
	return &Seeder{
		stores:     stores,
		recomputer: recomputer,
		rng:        rng,
		ranges:     ranges,
		now:        time.Now,
	}
}

// Run clears every collection and repopulates it. A failure to ensure the
// email index is reported in the summary, not returned.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	slog.Info("clearing existing data")
	if err := s.clear(ctx); err != nil {
		return nil, err
	}

	sum := &Summary{}

	slog.Info("creating teams")
	created := make([]*team.Team, 0, len(teams))
	for _, in := range teams {
		t, err := s.stores.Teams.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seeding team %q: %w", in.Name, err)
		}
		created = append(created, t)
	}
	sum.Teams = len(created)

	slog.Info("creating users")
	users := make([]*user.User, 0, len(heroes))
	for _, h := range heroes {
		u, err := s.stores.Users.Create(ctx, user.CreateUserInput{
			Name:        h.name,
			Email:       h.email,
			Team:        h.team,
			TotalPoints: s.between(s.ranges.MinPoints, s.ranges.MaxPoints),
		})
		if err != nil {
			return nil, fmt.Errorf("seeding user %q: %w", h.email, err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	if err := s.updateTeamTotals(ctx, created, users); err != nil {
		return nil, err
	}

	slog.Info("creating workouts")
	for _, in := range workouts {
		if _, err := s.stores.Workouts.Create(ctx, in); err != nil {
			return nil, fmt.Errorf("seeding workout %q: %w", in.Name, err)
		}
	}
	sum.Workouts = len(workouts)

	slog.Info("creating activities")
	for _, u := range users {
		n, err := s.createActivities(ctx, u)
		if err != nil {
			return nil, err
		}
		sum.Activities += n
	}

	slog.Info("creating leaderboard")
	res, err := s.recomputer.Recompute(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeding leaderboard: %w", err)
	}
	sum.Leaderboard = res.Users + res.Teams

	if err := s.stores.Users.EnsureEmailIndex(ctx); err != nil {
		slog.Warn("could not create unique index on user email", "error", err)
		sum.IndexWarning = err.Error()
	}

	return sum, nil
}

func (s *Seeder) clear(ctx context.Context) error {
	clearers := []struct {
		name string
		c    Clearer
	}{
		{"users", s.stores.Users},
		{"teams", s.stores.Teams},
		{"activities", s.stores.Activities},
		{"leaderboard", s.stores.Leaderboard},
		{"workouts", s.stores.Workouts},
	}
	for _, c := range clearers {
		if _, err := c.c.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clearing %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *Seeder) updateTeamTotals(ctx context.Context, created []*team.Team, users []*user.User) error {
	for _, t := range created {
		var points, members int
		for _, u := range users {
			if u.Team == t.Name {
				points += u.TotalPoints
				members++
			}
		}
		if _, err := s.stores.Teams.Update(ctx, t.ID, team.UpdateTeamInput{
			TotalPoints: &points,
			MemberCount: &members,
		}); err != nil {
			return fmt.Errorf("updating team %q totals: %w", t.Name, err)
		}
		t.TotalPoints, t.MemberCount = points, members
	}
	return nil
}

func (s *Seeder) createActivities(ctx context.Context, u *user.User) (int, error) {
	n := s.between(s.ranges.MinActivities, s.ranges.MaxActivities)
	for range n {
		date := s.now().AddDate(0, 0, -s.between(0, s.ranges.HistoryDays))
		duration := s.between(s.ranges.MinDuration, s.ranges.MaxDuration)
		calories := duration * s.between(s.ranges.MinRate, s.ranges.MaxRate)

		_, err := s.stores.Activities.Create(ctx, activity.CreateActivityInput{
			UserEmail:    u.Email,
			ActivityType: activityTypes[s.rng.IntN(len(activityTypes))],
			Duration:     duration,
			Calories:     calories,
			Points:       calories / 10,
			Date:         &date,
			Notes:        "Training session for " + u.Name,
		})
		if err != nil {
			return 0, fmt.Errorf("seeding activity for %q: %w", u.Email, err)
		}
	}
	return n, nil
}

// between returns a uniform integer in [lo, hi].
func (s *Seeder) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}
