package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the state of a single driver proposal for a trip.
// It is distinct from the trip's own status.
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentRejected AssignmentStatus = "rejected"
)

// TripAssignment records a driver being proposed for a trip.
// Assignments are append-only: a trip accumulates one row per assignment
// action, and only the trip's DriverID reflects the active one.
type TripAssignment struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	DriverID   uuid.UUID
	AssignedAt time.Time
	Status     AssignmentStatus
	Notes      string
}

// TripMessage is a timestamped communication tied to a trip.
// The dispatch core only reads messages.
type TripMessage struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Sender    string
	Body      string
	CreatedAt time.Time
}
