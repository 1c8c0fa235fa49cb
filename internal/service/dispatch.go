// Package service contains the business logic for the dispatch core.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/metrics"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/notes"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/notify"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/repo"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
)

// DefaultStoreTimeout bounds every store call when Deps.StoreTimeout is zero.
const DefaultStoreTimeout = 5 * time.Second

// ChangePublisher announces table mutations to cache-invalidation consumers.
type ChangePublisher interface {
	Publish(ctx context.Context, c notify.Change) error
}

// DeskNotifier tells the dispatch desk about new assignments.
type DeskNotifier interface {
	NotifyAssignment(ctx context.Context, n notify.AssignmentNotice) error
}

// Deps are the collaborators of a DispatchService. Publisher, Desk, Metrics
// and Logger are optional. A zero Policy means schedule.DefaultPolicy.
type Deps struct {
	Trips       repo.TripRepo
	Assignments repo.AssignmentRepo
	Messages    repo.MessageRepo
	Drivers     repo.DriverRepo
	Vehicles    repo.VehicleRepo
	Clients     repo.ClientRepo
	Tx          repo.Transactor

	Publisher ChangePublisher
	Desk      DeskNotifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	Policy       schedule.Policy
	StoreTimeout time.Duration
}

// DispatchService coordinates trip creation, editing, lifecycle changes and
// driver assignment against the store.
type DispatchService struct {
	trips       repo.TripRepo
	assignments repo.AssignmentRepo
	messages    repo.MessageRepo
	drivers     repo.DriverRepo
	vehicles    repo.VehicleRepo
	clients     repo.ClientRepo
	tx          repo.Transactor

	publisher ChangePublisher
	desk      DeskNotifier
	metrics   *metrics.Metrics
	log       *slog.Logger

	expander *schedule.Expander
	checker  *schedule.Checker
	timeout  time.Duration
}

// NewDispatchService constructs a DispatchService from d.
func NewDispatchService(d Deps) *DispatchService {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := d.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	if d.Policy == (schedule.Policy{}) {
		d.Policy = schedule.DefaultPolicy()
	}
	return &DispatchService{
		trips:       d.Trips,
		assignments: d.Assignments,
		messages:    d.Messages,
		drivers:     d.Drivers,
		vehicles:    d.Vehicles,
		clients:     d.Clients,
		tx:          d.Tx,
		publisher:   d.Publisher,
		desk:        d.Desk,
		metrics:     d.Metrics,
		log:         log,
		expander:    schedule.NewExpander(d.Policy),
		checker:     schedule.NewChecker(d.Policy),
		timeout:     timeout,
	}
}

// TripInput is the operator-supplied form of a trip.
type TripInput struct {
	Date            time.Time
	StartTime       string
	EndTime         *string
	ClientID        uuid.UUID
	DriverID        *uuid.UUID
	VehicleID       *uuid.UUID
	ServiceKind     domain.ServiceKind
	PickupLocation  string
	DropoffLocation string
	Notes           string
	Flight          *domain.FlightInfo
	Passengers      []string

	// Status is honoured by UpdateTrip only. Empty keeps the current status.
	Status domain.TripStatus

	// Recurrence is honoured by CreateTrip only.
	IsRecurring bool
	Frequency   schedule.Frequency
	Occurrences int
}

// LegacyTrip is a trip record from the old notes-encoded format. Its status
// may exist only as a STATUS: prefix in Notes.
type LegacyTrip struct {
	TripInput
	Amount float64
}

// Assignment is the outcome of AssignDriver.
type Assignment struct {
	Assignment domain.TripAssignment
	Trip       domain.Trip
	// Warning is non-nil when the driver already has trips close to this one.
	// It never blocks the assignment.
	Warning *schedule.Warning
}

// TripPage is one page of ListTrips.
type TripPage struct {
	Trips []domain.Trip
	Total int64
	Page  int
	Limit int
}

// ---- create / update -------------------------------------------------------

// CreateTrip validates in and inserts one trip, or one per occurrence when
// in.IsRecurring is set. Recurring inserts are all-or-nothing.
// Returns domain.ErrValidation before touching the store if in is invalid.
func (s *DispatchService) CreateTrip(ctx context.Context, in TripInput) (_ []domain.Trip, err error) {
	defer s.observe("create_trip", time.Now(), &err)

	in, _ = s.liftNotes(in)
	base, err := buildTrip(in, false)
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.CreateTrip: %w", err)
	}
	base.Status = domain.StatusScheduled

	candidates := []domain.Trip{base}
	if in.IsRecurring {
		candidates, err = s.expander.Expand(base, schedule.Rule{Frequency: in.Frequency, Occurrences: in.Occurrences})
		if err != nil {
			return nil, fmt.Errorf("service.DispatchService.CreateTrip: %w", err)
		}
	}

	if err := s.checkParties(ctx, &base); err != nil {
		return nil, fmt.Errorf("service.DispatchService.CreateTrip: %w", err)
	}
	for i := range candidates {
		candidates[i].Passengers = slices.Clone(base.Passengers)
	}

	var created []domain.Trip
	if len(candidates) == 1 {
		err = s.withTimeout(ctx, func(ctx context.Context) error {
			t, err := s.trips.Create(ctx, candidates[0])
			created = []domain.Trip{t}
			return err
		})
	} else {
		err = s.withTimeout(ctx, func(ctx context.Context) error {
			return s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
				var err error
				created, err = r.Trips.CreateMany(ctx, candidates)
				return err
			})
		})
	}
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.CreateTrip: %w", domain.NewStoreError("create trip", err))
	}

	s.metrics.TripsCreated(len(created))
	for _, t := range created {
		s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpInsert, ID: t.ID})
	}
	return created, nil
}

// UpdateTrip replaces the editable fields of trip id with in. A changed
// status goes through the lifecycle guard using the updated driver and
// vehicle; an in_progress trip must keep both. Completed trips reject every
// edit with domain.ErrInvalidTransition, as does a status change made by
// someone else since the trip was read.
func (s *DispatchService) UpdateTrip(ctx context.Context, id uuid.UUID, in TripInput) (_ domain.Trip, err error) {
	defer s.observe("update_trip", time.Now(), &err)

	in, lifted := s.liftNotes(in)
	if in.Status == "" {
		in.Status = lifted
	}
	next, err := buildTrip(in, false)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", err)
	}
	if in.Status != "" && !in.Status.Valid() {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w: unknown status %q", domain.ErrValidation, in.Status)
	}

	current, err := s.getTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", err)
	}
	if err := current.CheckEditable(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", err)
	}

	next.ID = current.ID
	next.Amount = current.Amount
	next.Status = current.Status
	if in.Status != "" && in.Status != current.Status {
		if err := next.TransitionTo(in.Status); err != nil {
			return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", err)
		}
	}
	if (next.Status == domain.StatusInProgress || next.Status == domain.StatusCompleted) && !next.HasParties() {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w: %s trips need a driver and a vehicle",
			domain.ErrInvalidTransition, next.Status)
	}

	if err := s.checkParties(ctx, &next); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", err)
	}

	var updated domain.Trip
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.trips.Update(ctx, next, current.Status)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w: status changed concurrently", domain.ErrInvalidTransition)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.UpdateTrip: %w", domain.NewStoreError("update trip", err))
	}

	s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpUpdate, ID: updated.ID})
	return updated, nil
}

// ImportLegacyTrip ingests a record written in the notes-encoded format.
// A STATUS: prefix supplies the status when the record carries none; flight
// and passenger blocks become first-class fields. The status must still
// satisfy the driver and vehicle guard.
func (s *DispatchService) ImportLegacyTrip(ctx context.Context, lt LegacyTrip) (_ domain.Trip, err error) {
	defer s.observe("import_trip", time.Now(), &err)

	in, lifted := s.liftNotes(lt.TripInput)
	status := in.Status
	if status == "" {
		status = lifted
	}
	if status == "" {
		status = domain.StatusScheduled
	}

	t, err := buildTrip(in, true)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w", err)
	}
	if !status.Valid() {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w: unknown status %q", domain.ErrValidation, status)
	}
	if (status == domain.StatusInProgress || status == domain.StatusCompleted) && !t.HasParties() {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w: %s trips need a driver and a vehicle",
			domain.ErrValidation, status)
	}
	if lt.Amount < 0 {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w: amount must not be negative", domain.ErrValidation)
	}
	t.Status = status
	t.Amount = lt.Amount

	if err := s.checkParties(ctx, &t); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w", err)
	}

	var created domain.Trip
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.trips.Create(ctx, t)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.ImportLegacyTrip: %w", domain.NewStoreError("import trip", err))
	}

	s.metrics.TripsCreated(1)
	s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpInsert, ID: created.ID})
	return created, nil
}

// ---- lifecycle -------------------------------------------------------------

// TransitionStatus moves trip id to next. The write is guarded on the status
// that was read, so a concurrent change surfaces as domain.ErrInvalidTransition
// instead of being overwritten.
func (s *DispatchService) TransitionStatus(ctx context.Context, id uuid.UUID, next domain.TripStatus) (_ domain.Trip, err error) {
	defer s.observe("transition_status", time.Now(), &err)

	if !next.Valid() {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.TransitionStatus: %w: unknown status %q", domain.ErrValidation, next)
	}

	t, err := s.getTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.TransitionStatus: %w", err)
	}
	from := t.Status
	if err := t.TransitionTo(next); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.TransitionStatus: %w", err)
	}

	var updated domain.Trip
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.trips.UpdateStatus(ctx, id, from, next)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.TransitionStatus: %w: status changed concurrently", domain.ErrInvalidTransition)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.TransitionStatus: %w", domain.NewStoreError("update trip status", err))
	}

	s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpUpdate, ID: updated.ID})
	return updated, nil
}

// ---- assignment ------------------------------------------------------------

// AssignDriver appends a pending TripAssignment and points the trip at
// driverID in one transaction. Nearby trips of the same driver produce an
// advisory warning but never block. Completed trips are rejected with
// domain.ErrInvalidTransition.
func (s *DispatchService) AssignDriver(ctx context.Context, tripID, driverID uuid.UUID, note string) (_ Assignment, err error) {
	defer s.observe("assign_driver", time.Now(), &err)

	if driverID == uuid.Nil {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w: driver is required", domain.ErrValidation)
	}

	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w", err)
	}
	if err := trip.CheckEditable(); err != nil {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w", err)
	}

	var (
		driver  domain.Driver
		sameDay []domain.Trip
	)
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		if driver, err = s.drivers.GetByID(ctx, driverID); err != nil {
			return err
		}
		sameDay, err = s.trips.ListAssignedOn(ctx, trip.Date)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w: driver does not exist", domain.ErrValidation)
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w", domain.NewStoreError("load driver schedule", err))
	}
	if !driver.Active {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w: driver is inactive", domain.ErrValidation)
	}

	warning := s.checker.Warn(schedule.Slot{DriverID: driverID, Date: trip.Date, StartTime: trip.StartTime}, trip.ID, sameDay)
	if warning != nil {
		s.metrics.ConflictWarning()
		s.log.WarnContext(ctx, "driver assignment conflict",
			"trip_id", trip.ID, "driver_id", driverID, "conflicts", warning.Count(), "window_minutes", warning.Window)
	}

	var out Assignment
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			a, err := r.Assignments.Create(ctx, domain.TripAssignment{
				TripID:   trip.ID,
				DriverID: driverID,
				Status:   domain.AssignmentPending,
				Notes:    strings.TrimSpace(note),
			})
			if err != nil {
				return err
			}
			updated, err := r.Trips.SetDriver(ctx, trip.ID, driverID)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: trip was completed or deleted concurrently", domain.ErrInvalidTransition)
			}
			if err != nil {
				return err
			}
			out = Assignment{Assignment: a, Trip: updated, Warning: warning}
			return nil
		})
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w", err)
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("service.DispatchService.AssignDriver: %w", domain.NewStoreError("assign driver", err))
	}

	s.publish(ctx, notify.Change{Table: notify.TableAssignments, Op: notify.OpInsert, ID: out.Assignment.ID})
	s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpUpdate, ID: out.Trip.ID})
	s.notifyDesk(ctx, out, driver)
	return out, nil
}

// AvailableDrivers returns every active driver annotated with whether they
// are free for trip id. Drivers and same-day trips are loaded concurrently.
func (s *DispatchService) AvailableDrivers(ctx context.Context, id uuid.UUID) (_ []schedule.DriverAvailability, err error) {
	defer s.observe("available_drivers", time.Now(), &err)

	trip, err := s.getTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.AvailableDrivers: %w", err)
	}

	var (
		drivers []domain.Driver
		sameDay []domain.Trip
	)
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			drivers, err = s.drivers.ListActive(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			sameDay, err = s.trips.ListAssignedOn(ctx, trip.Date)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.AvailableDrivers: %w", domain.NewStoreError("load available drivers", err))
	}

	return s.checker.Annotate(drivers, trip, sameDay), nil
}

// ---- delete / reads --------------------------------------------------------

// DeleteTrip removes trip id. Assignments and messages are removed by the
// store's cascade.
func (s *DispatchService) DeleteTrip(ctx context.Context, id uuid.UUID) (err error) {
	defer s.observe("delete_trip", time.Now(), &err)

	err = s.withTimeout(ctx, func(ctx context.Context) error {
		return s.trips.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.DispatchService.DeleteTrip: %w", domain.NewStoreError("delete trip", err))
	}

	s.publish(ctx, notify.Change{Table: notify.TableTrips, Op: notify.OpDelete, ID: id})
	return nil
}

// GetTrip returns trip id or domain.ErrNotFound.
func (s *DispatchService) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.getTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DispatchService.GetTrip: %w", err)
	}
	return t, nil
}

// ListTrips returns one page of trips matching f.
func (s *DispatchService) ListTrips(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (TripPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return TripPage{}, fmt.Errorf("service.DispatchService.ListTrips: %w: unknown status %q", domain.ErrValidation, f.Status)
	}

	var (
		trips []domain.Trip
		total int64
	)
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		trips, total, err = s.trips.ListPaged(ctx, f, p)
		return err
	})
	if err != nil {
		return TripPage{}, fmt.Errorf("service.DispatchService.ListTrips: %w", domain.NewStoreError("list trips", err))
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return TripPage{Trips: trips, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// ListAssignments returns the assignment history of trip id, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DispatchService) ListAssignments(ctx context.Context, id uuid.UUID) ([]domain.TripAssignment, error) {
	if _, err := s.getTrip(ctx, id); err != nil {
		return nil, fmt.Errorf("service.DispatchService.ListAssignments: %w", err)
	}

	var out []domain.TripAssignment
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.assignments.ListByTrip(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.ListAssignments: %w", domain.NewStoreError("list assignments", err))
	}
	if out == nil {
		return []domain.TripAssignment{}, nil
	}
	return out, nil
}

// ListMessages returns the messages of trip id, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DispatchService) ListMessages(ctx context.Context, id uuid.UUID) ([]domain.TripMessage, error) {
	if _, err := s.getTrip(ctx, id); err != nil {
		return nil, fmt.Errorf("service.DispatchService.ListMessages: %w", err)
	}

	var out []domain.TripMessage
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.messages.ListByTrip(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.DispatchService.ListMessages: %w", domain.NewStoreError("list messages", err))
	}
	if out == nil {
		return []domain.TripMessage{}, nil
	}
	return out, nil
}

// ---- helpers ---------------------------------------------------------------

// withTimeout runs fn under the per-call store deadline.
func (s *DispatchService) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func (s *DispatchService) getTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var t domain.Trip
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.trips.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Trip{}, domain.NewStoreError("load trip", err)
	}
	return t, nil
}

// checkParties resolves the client, driver and vehicle of t. Passengers are
// kept for organization clients only.
func (s *DispatchService) checkParties(ctx context.Context, t *domain.Trip) error {
	var client domain.Client
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		client, err = s.clients.GetByID(ctx, t.ClientID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: client does not exist", domain.ErrValidation)
	}
	if err != nil {
		return domain.NewStoreError("load client", err)
	}
	if client.Type != domain.ClientOrganization {
		t.Passengers = nil
	}

	if t.DriverID != nil {
		var driver domain.Driver
		err = s.withTimeout(ctx, func(ctx context.Context) error {
			var err error
			driver, err = s.drivers.GetByID(ctx, *t.DriverID)
			return err
		})
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: driver does not exist", domain.ErrValidation)
		}
		if err != nil {
			return domain.NewStoreError("load driver", err)
		}
		if !driver.Active {
			return fmt.Errorf("%w: driver is inactive", domain.ErrValidation)
		}
	}

	if t.VehicleID == nil {
		return nil
	}
	var vehicle domain.Vehicle
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		vehicle, err = s.vehicles.GetByID(ctx, *t.VehicleID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: vehicle does not exist", domain.ErrValidation)
	}
	if err != nil {
		return domain.NewStoreError("load vehicle", err)
	}
	if !vehicle.Active {
		return fmt.Errorf("%w: vehicle %s is inactive", domain.ErrValidation, vehicle.Registration)
	}
	return nil
}

// liftNotes moves structured data embedded in legacy notes into first-class
// fields. Explicit fields win over embedded ones. The decoded status is
// returned for the caller to apply; notes without any marker are untouched.
func (s *DispatchService) liftNotes(in TripInput) (TripInput, domain.TripStatus) {
	a, warnings := notes.Decode(in.Notes)
	for _, w := range warnings {
		s.log.Warn("legacy notes", "warning", w.Error())
	}
	if a.Status == "" && a.Flight == nil && len(a.Passengers) == 0 {
		return in, ""
	}
	in.Notes = a.Text
	if in.Flight == nil {
		in.Flight = a.Flight
	}
	if len(in.Passengers) == 0 {
		in.Passengers = a.Passengers
	}
	return in, a.Status
}

func (s *DispatchService) publish(ctx context.Context, c notify.Change) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, c); err != nil {
		s.metrics.NotifyFailed("nats")
		s.log.WarnContext(ctx, "publish change", "table", c.Table, "op", c.Op, "id", c.ID, "error", err)
	}
}

func (s *DispatchService) notifyDesk(ctx context.Context, a Assignment, driver domain.Driver) {
	if s.desk == nil {
		return
	}
	n := notify.AssignmentNotice{Trip: a.Trip, Driver: driver, Assignment: a.Assignment}
	if a.Warning != nil {
		n.Warning = a.Warning.Message()
	}
	if err := s.desk.NotifyAssignment(ctx, n); err != nil {
		s.metrics.NotifyFailed("telegram")
		s.log.WarnContext(ctx, "notify dispatch desk", "trip_id", a.Trip.ID, "error", err)
	}
}

func (s *DispatchService) observe(op string, start time.Time, errp *error) {
	s.metrics.ObserveOp(op, start, *errp)
	if se, ok := domain.IsStoreError(*errp); ok {
		s.log.Error("store failure", "operation", op, "retryable", se.Retryable, "error", se.Err)
	}
}
