package user

import (
	"errors"
	"testing"
	"time"

	"github.com/octofit/octofit/internal/apperr"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateUserInputValidate(t *testing.T) {
	valid := CreateUserInput{Name: "Iron Man", Email: "tony.stark@avengers.com", Team: "Team Marvel"}

	tests := []struct {
		name       string
		modify     func(*CreateUserInput)
		wantFields []string
	}{
		{"valid", func(in *CreateUserInput) {}, nil},
		{"zero points allowed", func(in *CreateUserInput) { in.TotalPoints = 0 }, nil},
		{"missing name", func(in *CreateUserInput) { in.Name = "" }, []string{"name"}},
		{"malformed email", func(in *CreateUserInput) { in.Email = "tony" }, []string{"email"}},
		{"missing team", func(in *CreateUserInput) { in.Team = "" }, []string{"team"}},
		{"negative points", func(in *CreateUserInput) { in.TotalPoints = -5 }, []string{"total_points"}},
		{"points beyond int32", func(in *CreateUserInput) { in.TotalPoints = 3_000_000_000 }, []string{"total_points"}},
		{"NUL in name", func(in *CreateUserInput) { in.Name = "Nul\x00" }, []string{"name"}},
		{"NUL in team", func(in *CreateUserInput) { in.Team = "Team\x00Marvel" }, []string{"team"}},
		{"everything wrong", func(in *CreateUserInput) { *in = CreateUserInput{TotalPoints: -1} },
			[]string{"name", "email", "team", "total_points"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			err := in.Validate()

			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tt.wantFields) {
				t.Fatalf("expected fields %v, got %v", tt.wantFields, ve.Fields)
			}
			for i, f := range tt.wantFields {
				if ve.Fields[i].Field != f {
					t.Errorf("field %d: got %q, want %q", i, ve.Fields[i].Field, f)
				}
			}
		})
	}
}

func TestUpdateUserInputApplyTo(t *testing.T) {
	existing := &User{
		ID:          "u1",
		Name:        "Thor",
		Email:       "thor.odinson@asgard.com",
		Team:        "Team Marvel",
		TotalPoints: 700,
		CreatedAt:   time.Now(),
	}

	merged := UpdateUserInput{TotalPoints: intPtr(1200)}.ApplyTo(existing)
	want := CreateUserInput{Name: "Thor", Email: "thor.odinson@asgard.com", Team: "Team Marvel", TotalPoints: 1200}
	if merged != want {
		t.Errorf("got %+v, want %+v", merged, want)
	}

	// An explicit empty name must surface as a validation failure.
	merged = UpdateUserInput{Name: strPtr("")}.ApplyTo(existing)
	if err := merged.Validate(); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
}

func TestCreateUserInputPatchSetsEveryField(t *testing.T) {
	in := CreateUserInput{Name: "Hulk", Email: "bruce.banner@avengers.com", Team: "Team Marvel", TotalPoints: 10}
	p := in.Patch()
	if p.Name == nil || p.Email == nil || p.Team == nil || p.TotalPoints == nil {
		t.Fatalf("expected all fields set, got %+v", p)
	}
	if got := p.ApplyTo(&User{}); got != in {
		t.Errorf("round trip through Patch: got %+v, want %+v", got, in)
	}
}
