package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/database"
)

const resource = "team"

const teamColumns = `id, name, description, total_points, member_count, created_at`

var uniqueFields = map[string]string{"teams_name_key": "name"}

// Store provides database operations for teams.
type Store struct {
	db database.DBTX
}

// NewStore creates a new team store backed by a pool or an open transaction.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func scanTeam(row pgx.Row) (*Team, error) {
	t := &Team{}
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.TotalPoints, &t.MemberCount, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new team under a freshly generated id.
func (s *Store) Create(ctx context.Context, in CreateTeamInput) (*Team, error) {
	id := uuid.NewString()
	t, err := scanTeam(s.db.QueryRow(ctx,
		`INSERT INTO teams (id, name, description, total_points, member_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+teamColumns,
		id, in.Name, in.Description, in.TotalPoints, in.MemberCount,
	))
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return t, nil
}

// GetByID retrieves a team by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Team, error) {
	t, err := scanTeam(s.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting team: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return t, nil
}

// List returns all teams, highest total_points first.
func (s *Store) List(ctx context.Context) ([]*Team, error) {
	return s.list(ctx, `ORDER BY total_points DESC, seq ASC`)
}

// ListInInsertionOrder returns all teams in the order they were created.
func (s *Store) ListInInsertionOrder(ctx context.Context) ([]*Team, error) {
	return s.list(ctx, `ORDER BY seq ASC`)
}

func (s *Store) list(ctx context.Context, orderBy string) ([]*Team, error) {
	rows, err := s.db.Query(ctx, `SELECT `+teamColumns+` FROM teams `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []*Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Update performs a partial update on the team with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateTeamInput) (*Team, error) {
	var b database.SetBuilder
	database.Set(&b, "name", in.Name)
	database.Set(&b, "description", in.Description)
	database.Set(&b, "total_points", in.TotalPoints)
	database.Set(&b, "member_count", in.MemberCount)

	if b.Len() == 0 {
		return s.GetByID(ctx, id)
	}

	query, args := b.Update("teams", id, teamColumns)
	t, err := scanTeam(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating team: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return t, nil
}

// Delete removes a team by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// DeleteAll removes every team and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM teams`)
	if err != nil {
		return 0, fmt.Errorf("clearing teams: %w", err)
	}
	return tag.RowsAffected(), nil
}
