package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/handler"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
)

// ---- POST /trips/{id}/assignments ------------------------------------------

func TestAssignDriver_201(t *testing.T) {
	trip := tripFixture()
	trip.DriverID = &driverID
	assignedAt := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	var (
		gotTrip, gotDriver uuid.UUID
		gotNote            string
	)
	d := &mockDispatcher{
		assignDriver: func(_ context.Context, tripID, drv uuid.UUID, note string) (service.Assignment, error) {
			gotTrip, gotDriver, gotNote = tripID, drv, note
			return service.Assignment{
				Assignment: domain.TripAssignment{
					ID:         uuid.New(),
					TripID:     tripID,
					DriverID:   drv,
					AssignedAt: assignedAt,
					Status:     domain.AssignmentPending,
					Notes:      note,
				},
				Trip: trip,
			}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodPost, "/trips/"+trip.ID.String()+"/assignments",
		jsonBody(t, map[string]any{"driver_id": driverID, "notes": "meet at arrivals"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, trip.ID, gotTrip)
	assert.Equal(t, driverID, gotDriver)
	assert.Equal(t, "meet at arrivals", gotNote)

	var resp handler.AssignmentResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "pending", resp.Assignment.Status)
	assert.Equal(t, assignedAt, resp.Assignment.AssignedAt)
	require.NotNil(t, resp.Trip.DriverId)
	assert.Equal(t, driverID, *resp.Trip.DriverId)
	assert.Nil(t, resp.Warning)
}

func TestAssignDriver_201_WithConflictWarning(t *testing.T) {
	trip := tripFixture()
	other := uuid.New()
	d := &mockDispatcher{
		assignDriver: func(_ context.Context, tripID, drv uuid.UUID, _ string) (service.Assignment, error) {
			return service.Assignment{
				Assignment: domain.TripAssignment{ID: uuid.New(), TripID: tripID, DriverID: drv, Status: domain.AssignmentPending},
				Trip:       trip,
				Warning: &schedule.Warning{
					DriverID:  drv,
					Date:      trip.Date,
					StartTime: trip.StartTime,
					Window:    60,
					TripIDs:   []uuid.UUID{other},
				},
			}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodPost, "/trips/"+trip.ID.String()+"/assignments",
		jsonBody(t, map[string]any{"driver_id": driverID}))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handler.AssignmentResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Warning)
	assert.Equal(t, "driver already has 1 trip within 60 minutes of 09:30 on 2025-06-02", resp.Warning.Message)
	assert.Equal(t, 1, resp.Warning.Count)
	assert.Equal(t, 60, resp.Warning.WindowMinutes)
	assert.Equal(t, []uuid.UUID{other}, resp.Warning.TripIds)
}

func TestAssignDriver_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			"inactive driver",
			fmt.Errorf("service.DispatchService.AssignDriver: %w: driver is inactive", domain.ErrValidation),
			http.StatusUnprocessableEntity, "driver is inactive",
		},
		{
			"completed trip",
			fmt.Errorf("service.DispatchService.AssignDriver: %w: completed trips cannot be reassigned", domain.ErrInvalidTransition),
			http.StatusConflict, "completed trips cannot be reassigned",
		},
		{
			"missing trip",
			fmt.Errorf("service.DispatchService.AssignDriver: %w", domain.ErrNotFound),
			http.StatusNotFound, "trip not found",
		},
		{
			"store timeout",
			fmt.Errorf("service.DispatchService.AssignDriver: %w", domain.NewStoreError("assign driver", context.DeadlineExceeded)),
			http.StatusServiceUnavailable, "failed to assign driver",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &mockDispatcher{
				assignDriver: func(_ context.Context, _, _ uuid.UUID, _ string) (service.Assignment, error) {
					return service.Assignment{}, tc.err
				},
			}

			rec := serve(newHTTPHandler(d), http.MethodPost, "/trips/"+uuid.New().String()+"/assignments",
				jsonBody(t, map[string]any{"driver_id": driverID}))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decodeError(t, rec).Message)
		})
	}
}

// ---- GET /trips/{id}/assignments -------------------------------------------

func TestListAssignments_200(t *testing.T) {
	tripID := uuid.New()
	d := &mockDispatcher{
		listAssignments: func(_ context.Context, id uuid.UUID) ([]domain.TripAssignment, error) {
			return []domain.TripAssignment{
				{ID: uuid.New(), TripID: id, DriverID: driverID, Status: domain.AssignmentPending},
				{ID: uuid.New(), TripID: id, DriverID: uuid.New(), Status: domain.AssignmentRejected, Notes: "sick"},
			}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/trips/"+tripID.String()+"/assignments", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Assignment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, tripID, resp[0].TripId)
	assert.Equal(t, "rejected", resp[1].Status)
	assert.Equal(t, "sick", resp[1].Notes)
}

func TestListAssignments_200_Empty(t *testing.T) {
	d := &mockDispatcher{
		listAssignments: func(_ context.Context, _ uuid.UUID) ([]domain.TripAssignment, error) {
			return []domain.TripAssignment{}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/trips/"+uuid.New().String()+"/assignments", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// ---- GET /trips/{id}/available-drivers -------------------------------------

func TestAvailableDrivers_200(t *testing.T) {
	busy := tripFixture()
	d := &mockDispatcher{
		availableDrivers: func(_ context.Context, _ uuid.UUID) ([]schedule.DriverAvailability, error) {
			return []schedule.DriverAvailability{
				{Driver: domain.Driver{ID: driverID, Name: "Amina", Phone: "+254700000001"}, IsAvailable: false, Conflicts: []domain.Trip{busy}},
				{Driver: domain.Driver{ID: uuid.New(), Name: "Brian"}, IsAvailable: true},
			}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/trips/"+uuid.New().String()+"/available-drivers", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.DriverAvailability
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)

	assert.Equal(t, "Amina", resp[0].Driver.Name)
	assert.False(t, resp[0].IsAvailable)
	assert.Equal(t, 1, resp[0].ConflictCount)
	assert.Equal(t, []uuid.UUID{busy.ID}, resp[0].ConflictTripIds)

	assert.True(t, resp[1].IsAvailable)
	assert.Empty(t, resp[1].ConflictTripIds)
	assert.Contains(t, rec.Body.String(), `"conflict_trip_ids":[]`)
}

// ---- GET /trips/{id}/messages ----------------------------------------------

func TestListMessages_200(t *testing.T) {
	tripID := uuid.New()
	sent := time.Date(2025, 6, 2, 7, 15, 0, 0, time.UTC)
	d := &mockDispatcher{
		listMessages: func(_ context.Context, id uuid.UUID) ([]domain.TripMessage, error) {
			return []domain.TripMessage{{ID: uuid.New(), TripID: id, Sender: "driver", Body: "arrived", CreatedAt: sent}}, nil
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/trips/"+tripID.String()+"/messages", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "arrived", resp[0].Body)
	assert.Equal(t, sent, resp[0].CreatedAt)
}

func TestListMessages_404(t *testing.T) {
	d := &mockDispatcher{
		listMessages: func(_ context.Context, _ uuid.UUID) ([]domain.TripMessage, error) {
			return nil, domain.ErrNotFound
		},
	}

	rec := serve(newHTTPHandler(d), http.MethodGet, "/trips/"+uuid.New().String()+"/messages", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
