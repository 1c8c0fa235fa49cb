package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientType distinguishes individual passengers from organizations.
// Only organization clients carry a passenger manifest.
type ClientType string

const (
	ClientIndividual   ClientType = "individual"
	ClientOrganization ClientType = "organization"
)

// Client is the party a trip is booked for.
type Client struct {
	ID        uuid.UUID
	Name      string
	Type      ClientType
	CreatedAt time.Time
}

// Driver is a person who can be assigned to trips.
type Driver struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Active    bool
	CreatedAt time.Time
}

// Vehicle is a fleet vehicle that can be attached to trips.
type Vehicle struct {
	ID           uuid.UUID
	Make         string
	Model        string
	Registration string
	Active       bool
	CreatedAt    time.Time
}
