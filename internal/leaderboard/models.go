// Package leaderboard stores ranking snapshots and rebuilds them from the
// current user and team point totals. Snapshots are never refreshed
// automatically; they go stale until Recompute runs.
package leaderboard

import (
	"time"

	"github.com/octofit/octofit/internal/validate"
)

// Entry types.
const (
	TypeUser = "user"
	TypeTeam = "team"
)

// Entry is one ranked row. Email is set only for user rows.
type Entry struct {
	ID        string    `json:"_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Team      string    `json:"team"`
	Points    int       `json:"points"`
	Rank      int       `json:"rank"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateEntryInput holds the fields of a hand-written leaderboard row.
type CreateEntryInput struct {
	Type   string  `json:"type" validate:"required,oneof=user team"`
	Name   string  `json:"name" validate:"required,nonul,max=200"`
	Email  *string `json:"email" validate:"omitempty,nonul,email,max=254"`
	Team   string  `json:"team" validate:"nonul,max=100"`
	Points int     `json:"points" validate:"gte=-2147483648,lte=2147483647"`
	Rank   int     `json:"rank" validate:"gte=1,lte=2147483647"`
}

func (in CreateEntryInput) normalized() CreateEntryInput {
	if in.Email != nil && *in.Email == "" {
		in.Email = nil
	}
	return in
}

// Validate checks the entry with an empty email treated as absent.
func (in CreateEntryInput) Validate() error {
	return validate.Struct(in.normalized())
}

// Patch returns an update that overwrites every writable field. A missing
// email becomes an explicit clear.
func (in CreateEntryInput) Patch() UpdateEntryInput {
	email := ""
	if in.Email != nil {
		email = *in.Email
	}
	return UpdateEntryInput{
		Type:   &in.Type,
		Name:   &in.Name,
		Email:  &email,
		Team:   &in.Team,
		Points: &in.Points,
		Rank:   &in.Rank,
	}
}

// UpdateEntryInput holds optional fields for a partial update. An empty
// Email clears the stored email.
type UpdateEntryInput struct {
	Type   *string `json:"type,omitempty"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Team   *string `json:"team,omitempty"`
	Points *int    `json:"points,omitempty"`
	Rank   *int    `json:"rank,omitempty"`
}

// ApplyTo returns e as a create input with the update's fields laid over it.
// An empty email clears it.
func (in UpdateEntryInput) ApplyTo(e *Entry) CreateEntryInput {
	out := CreateEntryInput{
		Type:   e.Type,
		Name:   e.Name,
		Team:   e.Team,
		Points: e.Points,
		Rank:   e.Rank,
	}
	if e.Email != nil {
		email := *e.Email
		out.Email = &email
	}
	if in.Type != nil {
		out.Type = *in.Type
	}
	if in.Name != nil {
		out.Name = *in.Name
	}
	if in.Email != nil {
		email := *in.Email
		out.Email = &email
	}
	if in.Team != nil {
		out.Team = *in.Team
	}
	if in.Points != nil {
		out.Points = *in.Points
	}
	if in.Rank != nil {
		out.Rank = *in.Rank
	}
	return out.normalized()
}

func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
