package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/user"
)

type fakeUsers struct {
	users []*user.User
	err   error
}

func (f *fakeUsers) ListInInsertionOrder(context.Context) ([]*user.User, error) {
	return f.users, f.err
}

type fakeTeams struct{ teams []*team.Team }

func (f *fakeTeams) ListInInsertionOrder(context.Context) ([]*team.Team, error) {
	return f.teams, nil
}

type fakeBoard struct {
	rows  []Standing
	calls int
}

func (f *fakeBoard) Replace(_ context.Context, standings []Standing, _ time.Time) (int64, error) {
	f.calls++
	f.rows = append([]Standing(nil), standings...)
	return int64(len(standings)), nil
}

type recordingObserver struct {
	users, teams int
	err          error
	calls        int
}

func (o *recordingObserver) ObserveRecompute(users, teams int, _ time.Duration, err error) {
	o.calls++
	o.users, o.teams, o.err = users, teams, err
}

func newFixture() (*fakeUsers, *fakeTeams, *fakeBoard) {
	return &fakeUsers{users: []*user.User{
			{Name: "A", Email: "a@example.com", Team: "Team Marvel", TotalPoints: 500},
			{Name: "B", Email: "b@example.com", Team: "Team DC", TotalPoints: 900},
			{Name: "C", Email: "c@example.com", Team: "Team DC", TotalPoints: 900},
		}},
		&fakeTeams{teams: []*team.Team{
			{Name: "Team Marvel", TotalPoints: 500},
			{Name: "Team DC", TotalPoints: 1800},
		}},
		&fakeBoard{}
}

func TestRecomputeWritesBothScopes(t *testing.T) {
	users, teams, board := newFixture()
	obs := &recordingObserver{}
	r := NewRecomputer(users, teams, board, obs)

	res, err := r.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Users != 3 || res.Teams != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(board.rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(board.rows))
	}

	ranks := map[string]int{}
	for _, st := range board.rows {
		ranks[st.Type+"/"+st.Name] = st.Rank
	}
	want := map[string]int{"user/B": 1, "user/C": 2, "user/A": 3, "team/Team DC": 1, "team/Team Marvel": 2}
	for k, v := range want {
		if ranks[k] != v {
			t.Errorf("%s: rank %d, want %d", k, ranks[k], v)
		}
	}

	if obs.calls != 1 || obs.users != 3 || obs.teams != 2 || obs.err != nil {
		t.Errorf("unexpected observation: %+v", obs)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	users, teams, board := newFixture()
	r := NewRecomputer(users, teams, board, nil)

	if _, err := r.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := board.rows

	if _, err := r.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := board.rows

	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].Points != second[i].Points || first[i].Rank != second[i].Rank {
			t.Errorf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRecomputeDoesNotTrackLaterUserChanges(t *testing.T) {
	users, teams, board := newFixture()
	r := NewRecomputer(users, teams, board, nil)

	if _, err := r.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	users.users[0].TotalPoints = 5000

	for _, st := range board.rows {
		if st.Name == "A" && (st.Points != 500 || st.Rank != 3) {
			t.Fatalf("snapshot changed without recompute: %+v", st)
		}
	}

	if _, err := r.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, st := range board.rows {
		if st.Name == "A" && (st.Points != 5000 || st.Rank != 1) {
			t.Fatalf("recompute did not pick up change: %+v", st)
		}
	}
}

func TestRecomputeSourceError(t *testing.T) {
	users, teams, board := newFixture()
	users.err = errors.New("connection refused")
	obs := &recordingObserver{}
	r := NewRecomputer(users, teams, board, obs)

	if _, err := r.Recompute(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if board.calls != 0 {
		t.Error("leaderboard must not be replaced when a source fails")
	}
	if obs.err == nil {
		t.Error("observer should see the failure")
	}
}
