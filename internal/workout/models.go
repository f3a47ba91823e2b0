// Package workout stores the catalogue of suggested workouts.
package workout

import (
	"time"

	"github.com/octofit/octofit/internal/validate"
)

// Workout is a catalogue entry. Difficulty and category are free text.
type Workout struct {
	ID                 string    `json:"_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Difficulty         string    `json:"difficulty"`
	Duration           int       `json:"duration"`
	CaloriesPerSession int       `json:"calories_per_session"`
	PointsPerSession   int       `json:"points_per_session"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateWorkoutInput holds the fields required to add a workout.
type CreateWorkoutInput struct {
	Name               string `json:"name" validate:"required,nonul,max=200"`
	Description        string `json:"description" validate:"required,nonul"`
	Category           string `json:"category" validate:"required,nonul,max=100"`
	Difficulty         string `json:"difficulty" validate:"required,nonul,max=50"`
	Duration           int    `json:"duration" validate:"gte=0,lte=2147483647"`
	CaloriesPerSession int    `json:"calories_per_session" validate:"gte=0,lte=2147483647"`
	PointsPerSession   int    `json:"points_per_session" validate:"gte=0,lte=2147483647"`
}

// Validate checks every field and reports all failures at once.
func (in CreateWorkoutInput) Validate() error {
	return validate.Struct(in)
}

// Patch returns an update that overwrites every writable field.
func (in CreateWorkoutInput) Patch() UpdateWorkoutInput {
	return UpdateWorkoutInput{
		Name:               &in.Name,
		Description:        &in.Description,
		Category:           &in.Category,
		Difficulty:         &in.Difficulty,
		Duration:           &in.Duration,
		CaloriesPerSession: &in.CaloriesPerSession,
		PointsPerSession:   &in.PointsPerSession,
	}
}

// UpdateWorkoutInput holds optional fields for a partial workout update.
type UpdateWorkoutInput struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	Category           *string `json:"category,omitempty"`
	Difficulty         *string `json:"difficulty,omitempty"`
	Duration           *int    `json:"duration,omitempty"`
	CaloriesPerSession *int    `json:"calories_per_session,omitempty"`
	PointsPerSession   *int    `json:"points_per_session,omitempty"`
}

// ApplyTo returns w as a create input with the update's fields laid over it.
func (in UpdateWorkoutInput) ApplyTo(w *Workout) CreateWorkoutInput {
	out := CreateWorkoutInput{
		Name:               w.Name,
		Description:        w.Description,
		Category:           w.Category,
		Difficulty:         w.Difficulty,
		Duration:           w.Duration,
		CaloriesPerSession: w.CaloriesPerSession,
		PointsPerSession:   w.PointsPerSession,
	}
	if in.Name != nil {
		out.Name = *in.Name
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.Category != nil {
		out.Category = *in.Category
	}
	if in.Difficulty != nil {
		out.Difficulty = *in.Difficulty
	}
	if in.Duration != nil {
		out.Duration = *in.Duration
	}
	if in.CaloriesPerSession != nil {
		out.CaloriesPerSession = *in.CaloriesPerSession
	}
	if in.PointsPerSession != nil {
		out.PointsPerSession = *in.PointsPerSession
	}
	return out
}
