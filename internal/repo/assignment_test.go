package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/repo"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/testutil"
)

func TestAssignmentRepo_CreateAndList(t *testing.T) {
	f := newFixture(t)
	trips := repo.NewTripRepo(f.tx)
	r := repo.NewAssignmentRepo(f.tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	first, err := r.Create(ctx, domain.TripAssignment{
		TripID:   trip.ID,
		DriverID: f.driverID,
		Status:   domain.AssignmentPending,
		Notes:    "first call",
	})
	require.NoError(t, err)
	assert.False(t, first.AssignedAt.IsZero())
	assert.Equal(t, domain.AssignmentPending, first.Status)

	_, err = r.Create(ctx, domain.TripAssignment{
		TripID:   trip.ID,
		DriverID: f.otherID,
		Status:   domain.AssignmentPending,
	})
	require.NoError(t, err)

	got, err := r.ListByTrip(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 2, "assignments are appended, never replaced")
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, "first call", got[0].Notes)
	assert.Equal(t, f.otherID, got[1].DriverID)
}

func TestAssignmentRepo_ListByTrip_Empty(t *testing.T) {
	f := newFixture(t)
	trip, err := repo.NewTripRepo(f.tx).Create(context.Background(), f.tripFixture())
	require.NoError(t, err)

	got, err := repo.NewAssignmentRepo(f.tx).ListByTrip(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMessageRepo_ListByTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	trip, err := repo.NewTripRepo(f.tx).Create(ctx, f.tripFixture())
	require.NoError(t, err)

	testutil.SeedMessage(t, f.tx, trip.ID, "dispatch", "Flight delayed 30 minutes")
	testutil.SeedMessage(t, f.tx, trip.ID, "driver", "Understood")

	got, err := repo.NewMessageRepo(f.tx).ListByTrip(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, trip.ID, m.TripID)
	}
	bodies := []string{got[0].Body, got[1].Body}
	assert.ElementsMatch(t, []string{"Flight delayed 30 minutes", "Understood"}, bodies)
}

func TestTransactor_Commit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	trip, err := repo.NewTripRepo(f.tx).Create(ctx, f.tripFixture())
	require.NoError(t, err)

	err = repo.NewTransactor(f.tx).WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Assignments.Create(ctx, domain.TripAssignment{
			TripID: trip.ID, DriverID: f.driverID, Status: domain.AssignmentPending,
		}); err != nil {
			return err
		}
		_, err := r.Trips.SetDriver(ctx, trip.ID, f.driverID)
		return err
	})
	require.NoError(t, err)

	got, err := repo.NewTripRepo(f.tx).GetByID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, f.driverID, *got.DriverID)

	history, err := repo.NewAssignmentRepo(f.tx).ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	trip, err := repo.NewTripRepo(f.tx).Create(ctx, f.tripFixture())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.NewTransactor(f.tx).WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Assignments.Create(ctx, domain.TripAssignment{
			TripID: trip.ID, DriverID: f.driverID, Status: domain.AssignmentPending,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	history, err := repo.NewAssignmentRepo(f.tx).ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "the appended assignment must not survive the rollback")
}
