package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/config"
	"github.com/octofit/octofit/internal/database"
	"github.com/octofit/octofit/internal/seed"
)

var randSeed uint64

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the sample superhero catalogue",
	Long:  "Seed deletes every user, team, activity, workout and leaderboard entry, then loads sample data and rebuilds the leaderboard.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().Uint64Var(&randSeed, "rand-seed", 0, "seed for generated values (0 picks one at random)")
	rootCmd.AddCommand(seedCmd)
}

func seedRanges(c config.SeedConfig) seed.Ranges {
	return seed.Ranges{
		MinActivities: c.MinActivities, MaxActivities: c.MaxActivities,
		MinDuration: c.MinDuration, MaxDuration: c.MaxDuration,
		MinRate: c.MinRate, MaxRate: c.MaxRate,
		MinPoints: c.MinPoints, MaxPoints: c.MaxPoints,
		HistoryDays: c.HistoryDays,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
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

	s := randSeed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, s>>1|1))

	sum, err := seed.RunAtomic(ctx, pool, rng, seedRanges(cfg.Seed))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %d teams\n", sum.Teams)
	fmt.Fprintf(out, "Created %d users\n", sum.Users)
	fmt.Fprintf(out, "Created %d workouts\n", sum.Workouts)
	fmt.Fprintf(out, "Created %d activities\n", sum.Activities)
	fmt.Fprintf(out, "Created %d leaderboard entries\n", sum.Leaderboard)
	if sum.IndexWarning != "" {
		fmt.Fprintf(out, "Warning: %s\n", sum.IndexWarning)
	}
	fmt.Fprintf(out, "Database populated (rand seed %d)\n", s)
	return nil
}
