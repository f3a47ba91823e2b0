package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/database"
)

const resource = "user"

const userColumns = `id, name, email, team, total_points, created_at`

// emailIndex is the unique index guarding User.email.
const emailIndex = "users_email_key"

var uniqueFields = map[string]string{emailIndex: "email"}

// Store provides database operations for users.
type Store struct {
	db database.DBTX
}

// NewStore creates a new user store backed by a pool or an open transaction.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Team, &u.TotalPoints, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user under a freshly generated id.
func (s *Store) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	id := uuid.NewString()
	u, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, team, total_points)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		id, in.Name, in.Email, in.Team, in.TotalPoints,
	))
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return u, nil
}

// GetByID retrieves a user by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return u, nil
}

// List returns all users, highest total_points first.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	return s.list(ctx, `ORDER BY total_points DESC, seq ASC`)
}

// ListInInsertionOrder returns all users in the order they were created.
func (s *Store) ListInInsertionOrder(ctx context.Context) ([]*User, error) {
	return s.list(ctx, `ORDER BY seq ASC`)
}

func (s *Store) list(ctx context.Context, orderBy string) ([]*User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update performs a partial update on the user with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	var b database.SetBuilder
	database.Set(&b, "name", in.Name)
	database.Set(&b, "email", in.Email)
	database.Set(&b, "team", in.Team)
	database.Set(&b, "total_points", in.TotalPoints)

	if b.Len() == 0 {
		return s.GetByID(ctx, id)
	}

	query, args := b.Update("users", id, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", database.Translate(err, resource, id, uniqueFields))
	}
	return u, nil
}

// Delete removes a user by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// DeleteAll removes every user and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, fmt.Errorf("clearing users: %w", err)
	}
	return tag.RowsAffected(), nil
}

// EnsureEmailIndex (re-)creates the unique index on users.email. Callers treat
// a failure as a warning, so it runs in its own (sub)transaction and a failure
// never aborts an enclosing one.
func (s *Store) EnsureEmailIndex(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS `+emailIndex+` ON users (email)`)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating unique index on users.email: %w", err)
	}
	return nil
}
