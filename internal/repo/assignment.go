package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// AssignmentRepo defines the persistence operations for the trip_assignments
// audit trail. Rows are only ever appended; there is no update or delete.
type AssignmentRepo interface {
	// Create appends an assignment and returns it with id and assigned_at set.
	Create(ctx context.Context, a domain.TripAssignment) (domain.TripAssignment, error)

	// ListByTrip returns a trip's assignments, oldest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error)
}

type pgAssignmentRepo struct {
	db db
}

// NewAssignmentRepo constructs an AssignmentRepo backed by the provided db connection.
func NewAssignmentRepo(db db) AssignmentRepo {
	return &pgAssignmentRepo{db: db}
}

const assignmentColumns = `id, trip_id, driver_id, assigned_at, status, notes`

func (r *pgAssignmentRepo) Create(ctx context.Context, a domain.TripAssignment) (domain.TripAssignment, error) {
	const q = `
		INSERT INTO trip_assignments (trip_id, driver_id, status, notes)
		VALUES (@trip_id, @driver_id, @status, @notes)
		RETURNING ` + assignmentColumns

	args := pgx.NamedArgs{
		"trip_id":   a.TripID,
		"driver_id": a.DriverID,
		"status":    string(a.Status),
		"notes":     a.Notes,
	}

	result, err := scanAssignment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripAssignment{}, fmt.Errorf("repo.AssignmentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAssignmentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error) {
	const q = `
		SELECT ` + assignmentColumns + `
		FROM trip_assignments
		WHERE trip_id = @trip_id
		ORDER BY assigned_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	out := []domain.TripAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AssignmentRepo.ListByTrip: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

func scanAssignment(s scanner) (domain.TripAssignment, error) {
	var (
		a                domain.TripAssignment
		id, trip, driver pgtype.UUID
		status           string
	)
	err := s.Scan(&id, &trip, &driver, &a.AssignedAt, &status, &a.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripAssignment{}, domain.ErrNotFound
		}
		return domain.TripAssignment{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(trip.Bytes)
	a.DriverID = uuid.UUID(driver.Bytes)
	a.Status = domain.AssignmentStatus(status)
	return a, nil
}
