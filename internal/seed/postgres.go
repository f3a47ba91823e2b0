package seed

import (
	"context"
	"math/rand/v2"

	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/activity"
	"github.com/octofit/octofit/internal/database"
	"github.com/octofit/octofit/internal/leaderboard"
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
	"github.com/octofit/octofit/internal/workout"
)

// RunAtomic seeds the Postgres stores inside one transaction. Readers keep
// seeing the previous data until commit, and a failed run rolls back
// without wiping anything.
func RunAtomic(ctx context.Context, db database.DBTX, rng *rand.Rand, ranges Ranges) (*Summary, error) {
	var sum *Summary
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		users := user.NewStore(tx)
		teams := team.NewStore(tx)
		board := leaderboard.NewStore(tx)

		s := New(Stores{
			Users:       users,
			Teams:       teams,
			Activities:  activity.NewStore(tx),
			Workouts:    workout.NewStore(tx),
			Leaderboard: board,
		}, leaderboard.NewRecomputer(users, teams, board, nil), rng, ranges)

		var err error
		sum, err = s.Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}
