//go:build integration

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/octofit/octofit/internal/apperr"
	"github.com/octofit/octofit/internal/testsupport"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(t)
	store := NewStore(pool)

	thor, err := store.Create(ctx, CreateUserInput{Name: "Thor", Email: "thor.odinson@asgard.com", Team: "Team Marvel", TotalPoints: 500})
	require.NoError(t, err)
	require.NotEmpty(t, thor.ID)
	require.False(t, thor.CreatedAt.IsZero())

	hulk, err := store.Create(ctx, CreateUserInput{Name: "Hulk", Email: "bruce.banner@avengers.com", Team: "Team Marvel", TotalPoints: 900})
	require.NoError(t, err)

	_, err = store.Create(ctx, CreateUserInput{Name: "Fake Thor", Email: "thor.odinson@asgard.com", Team: "Team Marvel"})
	require.True(t, apperr.IsDuplicateKey(err), "expected duplicate key, got %v", err)

	got, err := store.GetByID(ctx, thor.ID)
	require.NoError(t, err)
	require.Equal(t, "Thor", got.Name)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, hulk.ID, listed[0].ID, "list is ordered by total_points desc")

	inserted, err := store.ListInInsertionOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, thor.ID, inserted[0].ID)

	// Changing the email onto an existing one is rejected.
	email := hulk.Email
	_, err = store.Update(ctx, thor.ID, UpdateUserInput{Email: &email})
	require.True(t, apperr.IsDuplicateKey(err), "expected duplicate key, got %v", err)

	points := 1500
	updated, err := store.Update(ctx, thor.ID, UpdateUserInput{TotalPoints: &points})
	require.NoError(t, err)
	require.Equal(t, 1500, updated.TotalPoints)
	require.Equal(t, thor.Email, updated.Email)

	require.NoError(t, store.Delete(ctx, thor.ID))
	require.True(t, apperr.IsNotFound(store.Delete(ctx, thor.ID)), "second delete must fail")

	_, err = store.GetByID(ctx, thor.ID)
	require.True(t, apperr.IsNotFound(err))
	_, err = store.Update(ctx, thor.ID, UpdateUserInput{TotalPoints: &points})
	require.True(t, apperr.IsNotFound(err))

	require.NoError(t, store.EnsureEmailIndex(ctx))

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
