package user

import (
	"time"

	"github.com/octofit/octofit/internal/validate"
)

// User is a competitor. Team holds the team name as free text, not a reference.
type User struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Team        string    `json:"team"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserInput holds the fields required to create a new user.
type CreateUserInput struct {
	Name        string `json:"name" validate:"required,nonul,max=200"`
	Email       string `json:"email" validate:"required,nonul,email,max=254"`
	Team        string `json:"team" validate:"required,nonul,max=100"`
	TotalPoints int    `json:"total_points" validate:"gte=0,lte=2147483647"`
}

// Validate checks every field and reports all failures at once.
func (in CreateUserInput) Validate() error {
	return validate.Struct(in)
}

// Patch returns an update that overwrites every writable field.
func (in CreateUserInput) Patch() UpdateUserInput {
	return UpdateUserInput{
		Name:        &in.Name,
		Email:       &in.Email,
		Team:        &in.Team,
		TotalPoints: &in.TotalPoints,
	}
}

// UpdateUserInput holds optional fields for a partial user update.
type UpdateUserInput struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Team        *string `json:"team,omitempty"`
	TotalPoints *int    `json:"total_points,omitempty"`
}

// ApplyTo returns u as a create input with the update's fields laid over it,
// so a partial update can be validated against the same rules as a create.
func (in UpdateUserInput) ApplyTo(u *User) CreateUserInput {
	out := CreateUserInput{
		Name:        u.Name,
		Email:       u.Email,
		Team:        u.Team,
		TotalPoints: u.TotalPoints,
	}
	if in.Name != nil {
		out.Name = *in.Name
	}
	if in.Email != nil {
		out.Email = *in.Email
	}
	if in.Team != nil {
		out.Team = *in.Team
	}
	if in.TotalPoints != nil {
		out.TotalPoints = *in.TotalPoints
	}
	return out
}
