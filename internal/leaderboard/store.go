package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/database"
)

const resource = "leaderboard entry"

const entryColumns = `id, type, name, email, team, points, rank, updated_at`

// recomputeLockKey serialises rebuilds across processes sharing a database.
const recomputeLockKey int64 = 0x0C7F17

// Store provides database operations for leaderboard entries.
type Store struct {
	db  database.DBTX
	now func() time.Time
}

// NewStore creates a new leaderboard store backed by a pool or an open transaction.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

func scanEntry(row pgx.Row) (*Entry, error) {
	e := &Entry{}
	err := row.Scan(&e.ID, &e.Type, &e.Name, &e.Email, &e.Team, &e.Points, &e.Rank, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a hand-written entry. Rank uniqueness is not checked here;
// only Replace guarantees a dense ranking.
func (s *Store) Create(ctx context.Context, in CreateEntryInput) (*Entry, error) {
	in = in.normalized()
	id := uuid.NewString()
	e, err := scanEntry(s.db.QueryRow(ctx,
		`INSERT INTO leaderboard (id, type, name, email, team, points, rank, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+entryColumns,
		id, in.Type, in.Name, in.Email, in.Team, in.Points, in.Rank, s.now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("creating leaderboard entry: %w", database.Translate(err, resource, id, nil))
	}
	return e, nil
}

// GetByID retrieves an entry by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM leaderboard WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard entry: %w", database.Translate(err, resource, id, nil))
	}
	return e, nil
}

// List returns all entries by ascending rank, user rows before team rows.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+entryColumns+` FROM leaderboard ORDER BY rank ASC, type DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update performs a partial update. updated_at is refreshed even when no
// other field changes.
func (s *Store) Update(ctx context.Context, id string, in UpdateEntryInput) (*Entry, error) {
	var b database.SetBuilder
	database.Set(&b, "type", in.Type)
	database.Set(&b, "name", in.Name)
	if in.Email != nil {
		b.Value("email", nullIfEmpty(in.Email))
	}
	database.Set(&b, "team", in.Team)
	database.Set(&b, "points", in.Points)
	database.Set(&b, "rank", in.Rank)
	b.Value("updated_at", s.now().UTC())

	query, args := b.Update("leaderboard", id, entryColumns)
	e, err := scanEntry(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating leaderboard entry: %w", database.Translate(err, resource, id, nil))
	}
	return e, nil
}

// Delete removes an entry by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM leaderboard WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting leaderboard entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// DeleteAll removes every entry and reports how many were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM leaderboard`)
	if err != nil {
		return 0, fmt.Errorf("clearing leaderboard: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM leaderboard`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting leaderboard: %w", err)
	}
	return n, nil
}

// Replace swaps the whole leaderboard for standings in one transaction.
// Readers keep seeing the previous snapshot until commit. On a store built
// over a transaction the swap is a savepoint and lands with the outer commit.
func (s *Store) Replace(ctx context.Context, standings []Standing, now time.Time) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning leaderboard transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, recomputeLockKey); err != nil {
		return 0, fmt.Errorf("locking leaderboard: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard`); err != nil {
		return 0, fmt.Errorf("clearing leaderboard: %w", err)
	}

	ts := now.UTC()
	rows := make([][]any, len(standings))
	for i, st := range standings {
		rows[i] = []any{uuid.NewString(), st.Type, st.Name, st.Email, st.Team, st.Points, st.Rank, ts}
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"leaderboard"},
		[]string{"id", "type", "name", "email", "team", "points", "rank", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("writing leaderboard: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing leaderboard: %w", err)
	}
	return n, nil
}
