package handler_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/handler"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
)

// mockDispatcher is a test double for handler.Dispatcher.
// Set only the method fields your test needs.
type mockDispatcher struct {
	createTrip       func(ctx context.Context, in service.TripInput) ([]domain.Trip, error)
	importLegacyTrip func(ctx context.Context, lt service.LegacyTrip) (domain.Trip, error)
	getTrip          func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listTrips        func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (service.TripPage, error)
	updateTrip       func(ctx context.Context, id uuid.UUID, in service.TripInput) (domain.Trip, error)
	deleteTrip       func(ctx context.Context, id uuid.UUID) error
	transitionStatus func(ctx context.Context, id uuid.UUID, next domain.TripStatus) (domain.Trip, error)
	assignDriver     func(ctx context.Context, tripID, driverID uuid.UUID, note string) (service.Assignment, error)
	listAssignments  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error)
	availableDrivers func(ctx context.Context, tripID uuid.UUID) ([]schedule.DriverAvailability, error)
	listMessages     func(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error)
}

func (m *mockDispatcher) CreateTrip(ctx context.Context, in service.TripInput) ([]domain.Trip, error) {
	return m.createTrip(ctx, in)
}
func (m *mockDispatcher) ImportLegacyTrip(ctx context.Context, lt service.LegacyTrip) (domain.Trip, error) {
	return m.importLegacyTrip(ctx, lt)
}
func (m *mockDispatcher) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getTrip(ctx, id)
}
func (m *mockDispatcher) ListTrips(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (service.TripPage, error) {
	return m.listTrips(ctx, f, p)
}
func (m *mockDispatcher) UpdateTrip(ctx context.Context, id uuid.UUID, in service.TripInput) (domain.Trip, error) {
	return m.updateTrip(ctx, id, in)
}
func (m *mockDispatcher) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockDispatcher) TransitionStatus(ctx context.Context, id uuid.UUID, next domain.TripStatus) (domain.Trip, error) {
	return m.transitionStatus(ctx, id, next)
}
func (m *mockDispatcher) AssignDriver(ctx context.Context, tripID, driverID uuid.UUID, note string) (service.Assignment, error) {
	return m.assignDriver(ctx, tripID, driverID, note)
}
func (m *mockDispatcher) ListAssignments(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error) {
	return m.listAssignments(ctx, tripID)
}
func (m *mockDispatcher) AvailableDrivers(ctx context.Context, tripID uuid.UUID) ([]schedule.DriverAvailability, error) {
	return m.availableDrivers(ctx, tripID)
}
func (m *mockDispatcher) ListMessages(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error) {
	return m.listMessages(ctx, tripID)
}

// compile-time checks: both the mock and the real service satisfy handler.Dispatcher.
var (
	_ handler.Dispatcher = (*mockDispatcher)(nil)
	_ handler.Dispatcher = (*service.DispatchService)(nil)
)
