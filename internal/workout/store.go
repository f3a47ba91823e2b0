package workout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/database"
)

const resource = "workout"

const workoutColumns = `id, name, description, category, difficulty, duration,
	calories_per_session, points_per_session, created_at`

// Store provides database operations for workouts.
type Store struct {
	db database.DBTX
}

// NewStore creates a new workout store backed by a pool or an open transaction.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	w := &Workout{}
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.Category, &w.Difficulty,
		&w.Duration, &w.CaloriesPerSession, &w.PointsPerSession, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new workout under a freshly generated id.
func (s *Store) Create(ctx context.Context, in CreateWorkoutInput) (*Workout, error) {
	id := uuid.NewString()
	w, err := scanWorkout(s.db.QueryRow(ctx,
		`INSERT INTO workouts (id, name, description, category, difficulty, duration,
		                       calories_per_session, points_per_session)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+workoutColumns,
		id, in.Name, in.Description, in.Category, in.Difficulty, in.Duration,
		in.CaloriesPerSession, in.PointsPerSession,
	))
	if err != nil {
		return nil, fmt.Errorf("creating workout: %w", database.Translate(err, resource, id, nil))
	}
	return w, nil
}

// GetByID retrieves a workout by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Workout, error) {
	w, err := scanWorkout(s.db.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting workout: %w", database.Translate(err, resource, id, nil))
	}
	return w, nil
}

// List returns all workouts ordered by name.
func (s *Store) List(ctx context.Context) ([]*Workout, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts ORDER BY name ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	defer rows.Close()

	workouts := []*Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout row: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// Update performs a partial update on the workout with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateWorkoutInput) (*Workout, error) {
	var b database.SetBuilder
	database.Set(&b, "name", in.Name)
	database.Set(&b, "description", in.Description)
	database.Set(&b, "category", in.Category)
	database.Set(&b, "difficulty", in.Difficulty)
	database.Set(&b, "duration", in.Duration)
	database.Set(&b, "calories_per_session", in.CaloriesPerSession)
	database.Set(&b, "points_per_session", in.PointsPerSession)

	if b.Len() == 0 {
		return s.GetByID(ctx, id)
	}

	query, args := b.Update("workouts", id, workoutColumns)
	w, err := scanWorkout(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating workout: %w", database.Translate(err, resource, id, nil))
	}
	return w, nil
}

// Delete removes a workout by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// DeleteAll removes every workout and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM workouts`)
	if err != nil {
		return 0, fmt.Errorf("clearing workouts: %w", err)
	}
	return tag.RowsAffected(), nil
}
