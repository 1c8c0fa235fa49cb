package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/notify"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/repo"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which fails the test and
// doubles as a "must not touch the store" assertion.

type mockTripRepo struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	createMany     func(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged      func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	listAssignedOn func(ctx context.Context, date time.Time) ([]domain.Trip, error)
	update         func(ctx context.Context, trip domain.Trip, from domain.TripStatus) (domain.Trip, error)
	updateStatus   func(ctx context.Context, id uuid.UUID, from, to domain.TripStatus) (domain.Trip, error)
	setDriver      func(ctx context.Context, id, driverID uuid.UUID) (domain.Trip, error)
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) CreateMany(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error) {
	return m.createMany(ctx, trips)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockTripRepo) ListAssignedOn(ctx context.Context, date time.Time) ([]domain.Trip, error) {
	return m.listAssignedOn(ctx, date)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip, from domain.TripStatus) (domain.Trip, error) {
	return m.update(ctx, trip, from)
}
func (m *mockTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TripStatus) (domain.Trip, error) {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockTripRepo) SetDriver(ctx context.Context, id, driverID uuid.UUID) (domain.Trip, error) {
	return m.setDriver(ctx, id, driverID)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockAssignmentRepo struct {
	create     func(ctx context.Context, a domain.TripAssignment) (domain.TripAssignment, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a domain.TripAssignment) (domain.TripAssignment, error) {
	return m.create(ctx, a)
}
func (m *mockAssignmentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error) {
	return m.listByTrip(ctx, tripID)
}

type mockMessageRepo struct {
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error)
}

func (m *mockMessageRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error) {
	return m.listByTrip(ctx, tripID)
}

type mockDriverRepo struct {
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	listActive func(ctx context.Context) ([]domain.Driver, error)
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) ListActive(ctx context.Context) ([]domain.Driver, error) {
	return m.listActive(ctx)
}

type mockVehicleRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
}

func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}

type mockClientRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.Client, error)
}

func (m *mockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return m.getByID(ctx, id)
}

// fakeTransactor runs fn against the same mocks. committed reports whether
// the last unit of work returned nil.
type fakeTransactor struct {
	trips       repo.TripRepo
	assignments repo.AssignmentRepo
	calls       int
	committed   bool
}

func (f *fakeTransactor) WithinTx(_ context.Context, fn func(repo.TxRepos) error) error {
	f.calls++
	err := fn(repo.TxRepos{Trips: f.trips, Assignments: f.assignments})
	f.committed = err == nil
	return err
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []notify.Change
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, c notify.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

type recordingDesk struct {
	notices []notify.AssignmentNotice
	err     error
}

func (d *recordingDesk) NotifyAssignment(_ context.Context, n notify.AssignmentNotice) error {
	d.notices = append(d.notices, n)
	return d.err
}

// compile-time checks: every double must satisfy the interface it replaces.
var (
	_ repo.TripRepo           = (*mockTripRepo)(nil)
	_ repo.AssignmentRepo     = (*mockAssignmentRepo)(nil)
	_ repo.MessageRepo        = (*mockMessageRepo)(nil)
	_ repo.DriverRepo         = (*mockDriverRepo)(nil)
	_ repo.VehicleRepo        = (*mockVehicleRepo)(nil)
	_ repo.ClientRepo         = (*mockClientRepo)(nil)
	_ repo.Transactor         = (*fakeTransactor)(nil)
	_ service.ChangePublisher = (*recordingPublisher)(nil)
	_ service.DeskNotifier    = (*recordingDesk)(nil)
)
