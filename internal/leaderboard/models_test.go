package leaderboard

import (
	"testing"

	"github.com/octofit/octofit/internal/apperr"
)

func TestCreateEntryInputValidate(t *testing.T) {
	email := "clark.kent@dailyplanet.com"
	empty := ""
	bad := "superman"

	tests := []struct {
		name    string
		in      CreateEntryInput
		wantErr bool
	}{
		{"user row", CreateEntryInput{Type: TypeUser, Name: "Superman", Email: &email, Team: "Team DC", Points: 1500, Rank: 1}, false},
		{"team row without email", CreateEntryInput{Type: TypeTeam, Name: "Team DC", Team: "Team DC", Rank: 1}, false},
		{"empty email is absent", CreateEntryInput{Type: TypeTeam, Name: "Team DC", Email: &empty, Rank: 1}, false},
		{"bad type", CreateEntryInput{Type: "club", Name: "X", Rank: 1}, true},
		{"zero rank", CreateEntryInput{Type: TypeUser, Name: "X", Rank: 0}, true},
		{"malformed email", CreateEntryInput{Type: TypeUser, Name: "X", Email: &bad, Rank: 2}, true},
		{"points beyond int32", CreateEntryInput{Type: TypeUser, Name: "X", Points: 1 << 31, Rank: 1}, true},
		{"negative points allowed", CreateEntryInput{Type: TypeUser, Name: "X", Points: -10, Rank: 1}, false},
		{"NUL in name", CreateEntryInput{Type: TypeTeam, Name: "Team\x00DC", Rank: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr && !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPatchClearsMissingEmail(t *testing.T) {
	upd := CreateEntryInput{Type: TypeTeam, Name: "Team DC", Rank: 1}.Patch()
	if upd.Email == nil || *upd.Email != "" {
		t.Fatalf("expected explicit clear, got %v", upd.Email)
	}

	email := "bruce.wayne@wayneenterprises.com"
	existing := &Entry{Type: TypeUser, Name: "Batman", Email: &email, Rank: 4}
	merged := upd.ApplyTo(existing)
	if merged.Email != nil {
		t.Errorf("expected email cleared, got %q", *merged.Email)
	}
}
