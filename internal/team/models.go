// Package team stores competition teams. TotalPoints and MemberCount are
// cached values written by callers; nothing here derives them from users.
package team

import (
	"time"

	"github.com/octofit/octofit/internal/validate"
)

// Team is a named group of competitors.
type Team struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalPoints int       `json:"total_points"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTeamInput holds the fields required to create a new team.
type CreateTeamInput struct {
	Name        string `json:"name" validate:"required,nonul,max=100"`
	Description string `json:"description" validate:"required,nonul"`
	TotalPoints int    `json:"total_points" validate:"gte=0,lte=2147483647"`
	MemberCount int    `json:"member_count" validate:"gte=0,lte=2147483647"`
}

// Validate checks every field and reports all failures at once.
func (in CreateTeamInput) Validate() error {
	return validate.Struct(in)
}

// Patch returns an update that overwrites every writable field.
func (in CreateTeamInput) Patch() UpdateTeamInput {
	return UpdateTeamInput{
		Name:        &in.Name,
		Description: &in.Description,
		TotalPoints: &in.TotalPoints,
		MemberCount: &in.MemberCount,
	}
}

// UpdateTeamInput holds optional fields for a partial team update.
type UpdateTeamInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	TotalPoints *int    `json:"total_points,omitempty"`
	MemberCount *int    `json:"member_count,omitempty"`
}

// ApplyTo returns t as a create input with the update's fields laid over it.
func (in UpdateTeamInput) ApplyTo(t *Team) CreateTeamInput {
	out := CreateTeamInput{
		Name:        t.Name,
		Description: t.Description,
		TotalPoints: t.TotalPoints,
		MemberCount: t.MemberCount,
	}
	if in.Name != nil {
		out.Name = *in.Name
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.TotalPoints != nil {
		out.TotalPoints = *in.TotalPoints
	}
	if in.MemberCount != nil {
		out.MemberCount = *in.MemberCount
	}
	return out
}
