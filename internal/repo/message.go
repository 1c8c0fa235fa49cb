package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// MessageRepo reads trip messages. Messages are written by the messaging
// collaborator, so this repo is read-only and scoped by trip.
type MessageRepo interface {
	// ListByTrip returns all messages for a trip ordered by created_at ascending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error)
}

type pgMessageRepo struct {
	db db
}

// NewMessageRepo constructs a MessageRepo backed by the provided db connection.
func NewMessageRepo(db db) MessageRepo {
	return &pgMessageRepo{db: db}
}

func (r *pgMessageRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error) {
	const q = `
		SELECT id, trip_id, sender, body, created_at
		FROM trip_messages
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	msgs := []domain.TripMessage{}
	for rows.Next() {
		var (
			m        domain.TripMessage
			id, trip pgtype.UUID
		)
		if err := rows.Scan(&id, &trip, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: scan: %w", err)
		}
		m.ID = uuid.UUID(id.Bytes)
		m.TripID = uuid.UUID(trip.Bytes)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: rows: %w", err)
	}
	return msgs, nil
}
