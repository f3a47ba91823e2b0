package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/database"
)

const resource = "activity"

const activityColumns = `id, user_email, activity_type, duration, calories, points, date, notes`

// Store provides database operations for activities.
type Store struct {
	db database.DBTX
}

// NewStore creates a new activity store backed by a pool or an open transaction.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func scanActivity(row pgx.Row) (*Activity, error) {
	a := &Activity{}
	err := row.Scan(&a.ID, &a.UserEmail, &a.ActivityType, &a.Duration,
		&a.Calories, &a.Points, &a.Date, &a.Notes)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new activity under a freshly generated id.
func (s *Store) Create(ctx context.Context, in CreateActivityInput) (*Activity, error) {
	if in.Date == nil {
		return nil, fmt.Errorf("creating activity: date is required")
	}

	id := uuid.NewString()
	a, err := scanActivity(s.db.QueryRow(ctx,
		`INSERT INTO activities (id, user_email, activity_type, duration, calories, points, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+activityColumns,
		id, in.UserEmail, in.ActivityType, in.Duration, in.Calories, in.Points, in.Date.UTC(), in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("creating activity: %w", database.Translate(err, resource, id, nil))
	}
	return a, nil
}

// GetByID retrieves an activity by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Activity, error) {
	a, err := scanActivity(s.db.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting activity: %w", database.Translate(err, resource, id, nil))
	}
	return a, nil
}

// List returns all activities, most recent first.
func (s *Store) List(ctx context.Context) ([]*Activity, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+activityColumns+` FROM activities ORDER BY date DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	activities := []*Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Update performs a partial update on the activity with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateActivityInput) (*Activity, error) {
	var b database.SetBuilder
	database.Set(&b, "user_email", in.UserEmail)
	database.Set(&b, "activity_type", in.ActivityType)
	database.Set(&b, "duration", in.Duration)
	database.Set(&b, "calories", in.Calories)
	database.Set(&b, "points", in.Points)
	database.Set(&b, "date", in.Date)
	database.Set(&b, "notes", in.Notes)

	if b.Len() == 0 {
		return s.GetByID(ctx, id)
	}

	query, args := b.Update("activities", id, activityColumns)
	a, err := scanActivity(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating activity: %w", database.Translate(err, resource, id, nil))
	}
	return a, nil
}

// Delete removes an activity by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// DeleteAll removes every activity and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM activities`)
	if err != nil {
		return 0, fmt.Errorf("clearing activities: %w", err)
	}
	return tag.RowsAffected(), nil
}
