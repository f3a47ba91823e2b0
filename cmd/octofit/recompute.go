package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/database"
	"github.com/octofit/octofit/internal/leaderboard"
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild the leaderboard from current user and team points",
	RunE:  runRecompute,
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	rc := leaderboard.NewRecomputer(user.NewStore(pool), team.NewStore(pool), leaderboard.NewStore(pool), nil)
	res, err := rc.Recompute(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "leaderboard rebuilt: %d user rows, %d team rows\n", res.Users, res.Teams)
	return nil
}
