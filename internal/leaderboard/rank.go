package leaderboard

import (
	"sort"

	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
)

// Standing is a computed leaderboard row before it is persisted.
type Standing struct {
	Type   string
	Name   string
	Email  *string
	Team   string
	Points int
	Rank   int
}

// RankUsers orders users by total_points descending and assigns ranks 1..N.
// Users must be passed in insertion order; equal totals keep that order.
func RankUsers(users []*user.User) []Standing {
	sorted := make([]*user.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})

	out := make([]Standing, len(sorted))
	for i, u := range sorted {
		email := u.Email
		out[i] = Standing{
			Type:   TypeUser,
			Name:   u.Name,
			Email:  &email,
			Team:   u.Team,
			Points: u.TotalPoints,
			Rank:   i + 1,
		}
	}
	return out
}

// RankTeams is RankUsers for teams. A team row carries its own name as Team.
func RankTeams(teams []*team.Team) []Standing {
	sorted := make([]*team.Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})

	out := make([]Standing, len(sorted))
	for i, t := range sorted {
		out[i] = Standing{
			Type:   TypeTeam,
			Name:   t.Name,
			Team:   t.Name,
			Points: t.TotalPoints,
			Rank:   i + 1,
		}
	}
	return out
}
