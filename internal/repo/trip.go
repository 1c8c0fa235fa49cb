package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// CreateMany inserts trips in one batch and returns them in input order.
	// Run it inside Transactor.WithinTx for all-or-nothing semantics.
	CreateMany(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips matching filter, ordered by date and
	// start time, together with the total number of matches.
	ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListAssignedOn returns every trip on date that has a driver assigned.
	ListAssignedOn(ctx context.Context, date time.Time) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip, including status,
	// and returns the updated record. The write only applies while the row is
	// still in status from; otherwise, or if no trip with that ID exists,
	// domain.ErrNotFound is returned.
	Update(ctx context.Context, trip domain.Trip, from domain.TripStatus) (domain.Trip, error)

	// UpdateStatus moves a trip from one status to another. The write only
	// applies while the row is still in status from; otherwise
	// domain.ErrNotFound is returned.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TripStatus) (domain.Trip, error)

	// SetDriver sets the trip's current driver. Completed trips are never
	// touched; domain.ErrNotFound is returned for them and for missing IDs.
	SetDriver(ctx context.Context, id, driverID uuid.UUID) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the select list understood by scanTrip. Times are rendered
// as "HH:MM" text and amount as float8 so they scan into plain Go types.
const tripColumns = `
	id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	client_id, driver_id, vehicle_id, service_kind, status,
	pickup_location, dropoff_location, notes,
	flight_number, airline, terminal, passengers, amount::float8,
	created_at, updated_at`

const insertTripSQL = `
	INSERT INTO trips (date, start_time, end_time, client_id, driver_id, vehicle_id,
	                   service_kind, status, pickup_location, dropoff_location, notes,
	                   flight_number, airline, terminal, passengers, amount)
	VALUES (@date, @start_time::text::time, @end_time::text::time, @client_id, @driver_id, @vehicle_id,
	        @service_kind, @status, @pickup_location, @dropoff_location, @notes,
	        @flight_number, @airline, @terminal, @passengers, @amount)
	RETURNING` + tripColumns

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	row := r.db.QueryRow(ctx, insertTripSQL, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// CreateMany queues one INSERT per trip and sends them in a single batch.
func (r *pgTripRepo) CreateMany(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error) {
	if len(trips) == 0 {
		return []domain.Trip{}, nil
	}

	batch := &pgx.Batch{}
	for _, t := range trips {
		batch.Queue(insertTripSQL, tripArgs(t))
	}

	br := r.db.SendBatch(ctx, batch)
	out := make([]domain.Trip, 0, len(trips))
	for i := range trips {
		t, err := scanTrip(br.QueryRow())
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("repo.TripRepo.CreateMany: row %d: %w", i, err)
		}
		out = append(out, t)
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.CreateMany: %w", err)
	}
	return out, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// tripFilterSQL matches rows against an optional date, driver, and status.
const tripFilterSQL = `
	WHERE (@date::date IS NULL OR date = @date::date)
	  AND (@driver_id::uuid IS NULL OR driver_id = @driver_id::uuid)
	  AND (@status::text = '' OR status = @status::text)`

// ListPaged returns one page of matching trips plus the total match count.
func (r *pgTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	args := pgx.NamedArgs{
		"date":      f.Date,
		"driver_id": f.DriverID,
		"status":    string(f.Status),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+tripFilterSQL, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	q := `SELECT` + tripColumns + ` FROM trips` + tripFilterSQL + `
		ORDER BY date, start_time, created_at
		LIMIT @limit OFFSET @offset`

	trips, err := r.queryTrips(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

// ListAssignedOn returns all trips with a driver on the given day.
func (r *pgTripRepo) ListAssignedOn(ctx context.Context, date time.Time) ([]domain.Trip, error) {
	q := `SELECT` + tripColumns + `
		FROM trips
		WHERE date = @date AND driver_id IS NOT NULL
		ORDER BY start_time`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"date": date})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListAssignedOn: %w", err)
	}
	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
// The row must still be in status from.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip, from domain.TripStatus) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET date             = @date,
		    start_time       = @start_time::text::time,
		    end_time         = @end_time::text::time,
		    client_id        = @client_id,
		    driver_id        = @driver_id,
		    vehicle_id       = @vehicle_id,
		    service_kind     = @service_kind,
		    status           = @status,
		    pickup_location  = @pickup_location,
		    dropoff_location = @dropoff_location,
		    notes            = @notes,
		    flight_number    = @flight_number,
		    airline          = @airline,
		    terminal         = @terminal,
		    passengers       = @passengers,
		    updated_at       = now()
		WHERE id = @id AND status = @from
		RETURNING` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID
	args["from"] = string(from)

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// UpdateStatus applies a status change guarded on the current status.
func (r *pgTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TripStatus) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET status = @to, updated_at = now()
		WHERE id = @id AND status = @from
		RETURNING` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// SetDriver points the trip at driverID unless the trip is completed.
func (r *pgTripRepo) SetDriver(ctx context.Context, id, driverID uuid.UUID) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET driver_id = @driver_id, updated_at = now()
		WHERE id = @id AND status <> 'completed'
		RETURNING` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "driver_id": driverID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.SetDriver: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key. Assignments and messages go with it
// through ON DELETE CASCADE.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) queryTrips(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// tripArgs maps a domain.Trip onto the named parameters of insert/update.
func tripArgs(t domain.Trip) pgx.NamedArgs {
	var flightNo, airline, terminal *string
	if t.Flight != nil {
		flightNo = nonEmpty(t.Flight.Number)
		airline = nonEmpty(t.Flight.Airline)
		terminal = nonEmpty(t.Flight.Terminal)
	}
	passengers := t.Passengers
	if passengers == nil {
		passengers = []string{}
	}
	return pgx.NamedArgs{
		"date":             t.Date,
		"start_time":       t.StartTime,
		"end_time":         t.EndTime, // nil becomes NULL
		"client_id":        t.ClientID,
		"driver_id":        t.DriverID,
		"vehicle_id":       t.VehicleID,
		"service_kind":     string(t.ServiceKind),
		"status":           string(t.Status),
		"pickup_location":  t.PickupLocation,
		"dropoff_location": t.DropoffLocation,
		"notes":            t.Notes,
		"flight_number":    flightNo,
		"airline":          airline,
		"terminal":         terminal,
		"passengers":       passengers,
		"amount":           t.Amount,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanTrip maps a single database row into a domain.Trip.
// It handles UUID, nullable party, time, and flight column conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                           domain.Trip
		id, clientID                pgtype.UUID
		driverID, vehicleID         pgtype.UUID
		date                        pgtype.Date
		endTime                     pgtype.Text
		flightNo, airline, terminal pgtype.Text
		kind, status                string
	)

	err := s.Scan(&id, &date, &t.StartTime, &endTime,
		&clientID, &driverID, &vehicleID, &kind, &status,
		&t.PickupLocation, &t.DropoffLocation, &t.Notes,
		&flightNo, &airline, &terminal, &t.Passengers, &t.Amount,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.ClientID = uuid.UUID(clientID.Bytes)
	t.Date = date.Time
	t.ServiceKind = domain.ServiceKind(kind)
	t.Status = domain.TripStatus(status)
	t.DriverID = optionalUUID(driverID)
	t.VehicleID = optionalUUID(vehicleID)
	if endTime.Valid {
		e := endTime.String
		t.EndTime = &e
	}
	if flightNo.Valid || airline.Valid || terminal.Valid {
		t.Flight = &domain.FlightInfo{Number: flightNo.String, Airline: airline.String, Terminal: terminal.String}
	}
	if len(t.Passengers) == 0 {
		t.Passengers = nil
	}

	return t, nil
}

func optionalUUID(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}
