package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/repo"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/testutil"
)

// fixture bundles a rolled-back transaction with the party rows every trip needs.
type fixture struct {
	tx       pgx.Tx
	clientID uuid.UUID
	orgID    uuid.UUID
	driverID uuid.UUID
	otherID  uuid.UUID
	vehicle  uuid.UUID
}

// newFixture opens a transaction against the test database and seeds one
// client of each type, two drivers and a vehicle. The transaction is rolled
// back when the test finishes, giving free per-test isolation.
func newFixture(t *testing.T) fixture {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return fixture{
		tx:       tx,
		clientID: testutil.SeedClient(t, tx, "Amina Warsame", "individual"),
		orgID:    testutil.SeedClient(t, tx, "UN Mission", "organization"),
		driverID: testutil.SeedDriver(t, tx, "Abdi"),
		otherID:  testutil.SeedDriver(t, tx, "Bashir"),
		vehicle:  testutil.SeedVehicle(t, tx, "SL-1001"),
	}
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func (f fixture) tripFixture() domain.Trip {
	return domain.Trip{
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:30",
		ClientID:        f.clientID,
		ServiceKind:     domain.ServiceAirportPickup,
		Status:          domain.StatusScheduled,
		PickupLocation:  "Aden Adde Airport",
		DropoffLocation: "Hotel Jazeera",
		Notes:           "Meet at arrivals",
		Flight:          &domain.FlightInfo{Number: "TK 669", Airline: "Turkish Airlines", Terminal: "1"},
		Amount:          120,
	}
}

func TestTripRepo_Create(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	input := f.tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.True(t, got.Date.Equal(input.Date), "Date mismatch")
	assert.Equal(t, "09:30", got.StartTime)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.DriverID)
	assert.Equal(t, f.clientID, got.ClientID)
	assert.Equal(t, domain.StatusScheduled, got.Status)
	require.NotNil(t, got.Flight)
	assert.Equal(t, *input.Flight, *got.Flight)
	assert.Nil(t, got.Passengers)
	assert.InDelta(t, 120.0, got.Amount, 0.001)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestTripRepo_Create_WithPartiesAndPassengers(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	input := f.tripFixture()
	input.ClientID = f.orgID
	input.ServiceKind = domain.ServiceFullDay
	input.Flight = nil
	end := "17:00"
	input.EndTime = &end
	input.DriverID = &f.driverID
	input.VehicleID = &f.vehicle
	input.Passengers = []string{"Alice", "Bob"}

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, "17:00", *got.EndTime)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, f.driverID, *got.DriverID)
	require.NotNil(t, got.VehicleID)
	assert.Equal(t, f.vehicle, *got.VehicleID)
	assert.Nil(t, got.Flight)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Passengers)
}

func TestTripRepo_CreateMany(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	base := f.tripFixture()
	trips := make([]domain.Trip, 3)
	for i := range trips {
		trips[i] = base
		trips[i].Date = base.Date.AddDate(0, 0, 7*i)
	}

	got, err := r.CreateMany(ctx, trips)

	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, tr := range got {
		assert.NotEqual(t, uuid.Nil, tr.ID)
		assert.True(t, tr.Date.Equal(trips[i].Date), "row %d date out of order", i)
	}
}

func TestTripRepo_CreateMany_Empty(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)

	got, err := r.CreateMany(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTripRepo_GetByID(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.PickupLocation, got.PickupLocation)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListPaged(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	early := f.tripFixture()
	early.StartTime = "07:00"
	early.DriverID = &f.driverID

	late := f.tripFixture()
	late.StartTime = "18:15"

	nextDay := f.tripFixture()
	nextDay.Date = nextDay.Date.AddDate(0, 0, 1)

	for _, tr := range []domain.Trip{late, nextDay, early} {
		_, err := r.Create(ctx, tr)
		require.NoError(t, err)
	}

	day := early.Date
	trips, total, err := r.ListPaged(ctx, domain.TripFilter{Date: &day}, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, trips, 2)
	assert.Equal(t, "07:00", trips[0].StartTime, "ordered by start time")
	assert.Equal(t, "18:15", trips[1].StartTime)

	trips, total, err = r.ListPaged(ctx, domain.TripFilter{DriverID: &f.driverID}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, trips, 1)
	assert.Equal(t, "07:00", trips[0].StartTime)
}

func TestTripRepo_ListPaged_PageWindow(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	for _, start := range []string{"08:00", "09:00", "10:00"} {
		tr := f.tripFixture()
		tr.Date = time.Date(2031, 1, 5, 0, 0, 0, 0, time.UTC)
		tr.StartTime = start
		_, err := r.Create(ctx, tr)
		require.NoError(t, err)
	}

	page, limit := 2, 2
	day := time.Date(2031, 1, 5, 0, 0, 0, 0, time.UTC)
	trips, total, err := r.ListPaged(ctx, domain.TripFilter{Date: &day}, domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, trips, 1)
	assert.Equal(t, "10:00", trips[0].StartTime)
}

func TestTripRepo_ListAssignedOn(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	assigned := f.tripFixture()
	assigned.DriverID = &f.driverID
	unassigned := f.tripFixture()

	a, err := r.Create(ctx, assigned)
	require.NoError(t, err)
	_, err = r.Create(ctx, unassigned)
	require.NoError(t, err)

	trips, err := r.ListAssignedOn(ctx, assigned.Date)

	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(trips))
	for _, tr := range trips {
		require.NotNil(t, tr.DriverID)
		ids = append(ids, tr.ID)
	}
	assert.Contains(t, ids, a.ID)
}

func TestTripRepo_Update(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	created.StartTime = "11:45"
	created.Notes = "Updated notes"
	created.Flight = nil
	created.Amount = 999 // amount is not editable through Update

	updated, err := r.Update(ctx, created, domain.StatusScheduled)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "11:45", updated.StartTime)
	assert.Equal(t, "Updated notes", updated.Notes)
	assert.Nil(t, updated.Flight)
	assert.InDelta(t, 120.0, updated.Amount, 0.001)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)

	ghost := f.tripFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost, domain.StatusScheduled)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Update_StatusChangedSinceRead(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	// Someone else cancels the trip after it was read as scheduled.
	_, err = r.UpdateStatus(ctx, created.ID, domain.StatusScheduled, domain.StatusCancelled)
	require.NoError(t, err)

	stale := created
	stale.Notes = "edited from a stale read"
	_, err = r.Update(ctx, stale, domain.StatusScheduled)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, created.Notes, got.Notes)
}

func TestTripRepo_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	got, err := r.UpdateStatus(ctx, created.ID, domain.StatusScheduled, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	// The row is no longer scheduled, so a second guarded write misses.
	_, err = r.UpdateStatus(ctx, created.ID, domain.StatusScheduled, domain.StatusInProgress)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_SetDriver(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)

	got, err := r.SetDriver(ctx, created.ID, f.otherID)

	require.NoError(t, err)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, f.otherID, *got.DriverID)
}

func TestTripRepo_SetDriver_CompletedTrip(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	done := f.tripFixture()
	done.DriverID = &f.driverID
	done.VehicleID = &f.vehicle
	done.Status = domain.StatusCompleted
	created, err := r.Create(ctx, done)
	require.NoError(t, err)

	_, err = r.SetDriver(ctx, created.ID, f.otherID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)
	ctx := context.Background()

	created, err := r.Create(ctx, f.tripFixture())
	require.NoError(t, err)
	testutil.SeedMessage(t, f.tx, created.ID, "dispatch", "Driver en route")

	err = r.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")

	msgs, err := repo.NewMessageRepo(f.tx).ListByTrip(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs, "messages cascade with the trip")
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	f := newFixture(t)
	r := repo.NewTripRepo(f.tx)

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
