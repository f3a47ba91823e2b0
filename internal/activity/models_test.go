package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/octofit/octofit/internal/apperr"
)

func TestCreateActivityInputValidate(t *testing.T) {
	now := time.Now()
	valid := func() CreateActivityInput {
		return CreateActivityInput{
			UserEmail:    "diana.prince@themyscira.com",
			ActivityType: "Boxing",
			Duration:     45,
			Calories:     450,
			Points:       45,
			Date:         &now,
		}
	}

	tests := []struct {
		name      string
		modify    func(*CreateActivityInput)
		wantField string
	}{
		{"valid", func(in *CreateActivityInput) {}, ""},
		{"notes are optional", func(in *CreateActivityInput) { in.Notes = "" }, ""},
		{"zero duration", func(in *CreateActivityInput) { in.Duration = 0 }, "duration"},
		{"negative calories", func(in *CreateActivityInput) { in.Calories = -1 }, "calories"},
		{"negative points", func(in *CreateActivityInput) { in.Points = -1 }, "points"},
		{"missing date", func(in *CreateActivityInput) { in.Date = nil }, "date"},
		{"bad email", func(in *CreateActivityInput) { in.UserEmail = "diana" }, "user_email"},
		{"missing type", func(in *CreateActivityInput) { in.ActivityType = "" }, "activity_type"},
		{"calories beyond int32", func(in *CreateActivityInput) { in.Calories = 1 << 31 }, "calories"},
		{"NUL in notes", func(in *CreateActivityInput) { in.Notes = "tempo\x00run" }, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.modify(&in)
			err := in.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != 1 || ve.Fields[0].Field != tt.wantField {
				t.Errorf("expected single failure on %q, got %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestUpdateActivityInputApplyToKeepsDate(t *testing.T) {
	date := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	existing := &Activity{UserEmail: "hal.jordan@oa.com", ActivityType: "Yoga", Duration: 30, Calories: 300, Points: 30, Date: date}

	notes := "recovery"
	got := UpdateActivityInput{Notes: &notes}.ApplyTo(existing)

	if got.Date == nil || !got.Date.Equal(date) {
		t.Fatalf("expected date %v, got %v", date, got.Date)
	}
	if got.Notes != "recovery" || got.Duration != 30 {
		t.Errorf("unexpected merge: %+v", got)
	}

	*got.Date = got.Date.Add(time.Hour)
	if !existing.Date.Equal(date) {
		t.Error("ApplyTo must not alias the existing record's date")
	}
}
