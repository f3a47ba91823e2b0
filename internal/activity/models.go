// Package activity stores logged training sessions. An activity refers to its
// user by email only; creating one never touches the user's point total.
package activity

import (
	"time"

	"github.com/octofit/octofit/internal/validate"
)

// Activity is one logged training session.
type Activity struct {
	ID           string    `json:"_id"`
	UserEmail    string    `json:"user_email"`
	ActivityType string    `json:"activity_type"`
	Duration     int       `json:"duration"` // minutes
	Calories     int       `json:"calories"`
	Points       int       `json:"points"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes"`
}

// CreateActivityInput holds the fields required to log an activity.
type CreateActivityInput struct {
	UserEmail    string     `json:"user_email" validate:"required,nonul,email,max=254"`
	ActivityType string     `json:"activity_type" validate:"required,nonul,max=100"`
	Duration     int        `json:"duration" validate:"gt=0,lte=2147483647"`
	Calories     int        `json:"calories" validate:"gte=0,lte=2147483647"`
	Points       int        `json:"points" validate:"gte=0,lte=2147483647"`
	Date         *time.Time `json:"date" validate:"required"`
	Notes        string     `json:"notes" validate:"nonul"`
}

// Validate checks every field and reports all failures at once.
func (in CreateActivityInput) Validate() error {
	return validate.Struct(in)
}

// Patch returns an update that overwrites every writable field.
func (in CreateActivityInput) Patch() UpdateActivityInput {
	return UpdateActivityInput{
		UserEmail:    &in.UserEmail,
		ActivityType: &in.ActivityType,
		Duration:     &in.Duration,
		Calories:     &in.Calories,
		Points:       &in.Points,
		Date:         in.Date,
		Notes:        &in.Notes,
	}
}

// UpdateActivityInput holds optional fields for a partial activity update.
type UpdateActivityInput struct {
	UserEmail    *string    `json:"user_email,omitempty"`
	ActivityType *string    `json:"activity_type,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Calories     *int       `json:"calories,omitempty"`
	Points       *int       `json:"points,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// ApplyTo returns a as a create input with the update's fields laid over it.
func (in UpdateActivityInput) ApplyTo(a *Activity) CreateActivityInput {
	date := a.Date
	out := CreateActivityInput{
		UserEmail:    a.UserEmail,
		ActivityType: a.ActivityType,
		Duration:     a.Duration,
		Calories:     a.Calories,
		Points:       a.Points,
		Date:         &date,
		Notes:        a.Notes,
	}
	if in.UserEmail != nil {
		out.UserEmail = *in.UserEmail
	}
	if in.ActivityType != nil {
		out.ActivityType = *in.ActivityType
	}
	if in.Duration != nil {
		out.Duration = *in.Duration
	}
	if in.Calories != nil {
		out.Calories = *in.Calories
	}
	if in.Points != nil {
		out.Points = *in.Points
	}
	if in.Date != nil {
		out.Date = in.Date
	}
	if in.Notes != nil {
		out.Notes = *in.Notes
	}
	return out
}
