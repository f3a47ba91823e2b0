//go:build integration

package team

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

	marvel, err := store.Create(ctx, CreateTeamInput{Name: "Team Marvel", Description: "Earth's mightiest heroes", TotalPoints: 100})
	require.NoError(t, err)
	dc, err := store.Create(ctx, CreateTeamInput{Name: "Team DC", Description: "Justice League", TotalPoints: 300})
	require.NoError(t, err)

	_, err = store.Create(ctx, CreateTeamInput{Name: "Team Marvel", Description: "again"})
	require.True(t, apperr.IsDuplicateKey(err), "expected duplicate key, got %v", err)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, dc.ID, listed[0].ID, "list is ordered by total_points desc")

	inserted, err := store.ListInInsertionOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, marvel.ID, inserted[0].ID)

	points, members := 4200, 6
	updated, err := store.Update(ctx, marvel.ID, UpdateTeamInput{TotalPoints: &points, MemberCount: &members})
	require.NoError(t, err)
	require.Equal(t, 4200, updated.TotalPoints)
	require.Equal(t, 6, updated.MemberCount)
	require.Equal(t, "Earth's mightiest heroes", updated.Description)

	name := dc.Name
	_, err = store.Update(ctx, marvel.ID, UpdateTeamInput{Name: &name})
	require.True(t, apperr.IsDuplicateKey(err), "expected duplicate key, got %v", err)

	require.NoError(t, store.Delete(ctx, marvel.ID))
	require.True(t, apperr.IsNotFound(store.Delete(ctx, marvel.ID)))
	_, err = store.GetByID(ctx, marvel.ID)
	require.True(t, apperr.IsNotFound(err))

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
