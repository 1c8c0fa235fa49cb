// Package domain contains the core data types for the fleet dispatch core.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (notes, schedule, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used on the wire and in logs.
const DateLayout = "2006-01-02"

// ServiceKind is the category of transport a trip provides.
// It governs which optional fields (end time, flight info) apply.
type ServiceKind string

const (
	ServiceAirportPickup  ServiceKind = "airport_pickup"
	ServiceAirportDropoff ServiceKind = "airport_dropoff"
	ServiceOneWayTransfer ServiceKind = "one_way_transfer"
	ServiceRoundTrip      ServiceKind = "round_trip"
	ServiceFullDay        ServiceKind = "full_day"
	ServiceSecurityEscort ServiceKind = "security_escort"
	ServiceHourly         ServiceKind = "hourly"
	ServiceMultiDay       ServiceKind = "multi_day"
	ServiceOther          ServiceKind = "other"
)

// Valid reports whether k is one of the known service kinds.
func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceAirportPickup, ServiceAirportDropoff, ServiceOneWayTransfer,
		ServiceRoundTrip, ServiceFullDay, ServiceSecurityEscort,
		ServiceHourly, ServiceMultiDay, ServiceOther:
		return true
	}
	return false
}

// RequiresEndTime reports whether trips of this kind must carry an end time.
func (k ServiceKind) RequiresEndTime() bool {
	return k == ServiceRoundTrip || k == ServiceFullDay || k == ServiceSecurityEscort
}

// IsAirport reports whether flight details apply to this kind.
func (k ServiceKind) IsAirport() bool {
	return k == ServiceAirportPickup || k == ServiceAirportDropoff
}

// FlightInfo holds the optional flight details of an airport trip.
// Any subset of the fields may be empty.
type FlightInfo struct {
	Number   string `json:"flight,omitempty"`
	Airline  string `json:"airline,omitempty"`
	Terminal string `json:"terminal,omitempty"`
}

// IsZero reports whether no flight field is set.
func (f FlightInfo) IsZero() bool {
	return f.Number == "" && f.Airline == "" && f.Terminal == ""
}

// Trip is a single scheduled transport job.
// DriverID and VehicleID are nil until assigned; both must be set before the
// trip can move to in_progress or completed.
type Trip struct {
	ID              uuid.UUID
	Date            time.Time // calendar day, time-of-day ignored
	StartTime       string    // "HH:MM"
	EndTime         *string   // "HH:MM"; required for round trip, full day and escort
	ClientID        uuid.UUID
	DriverID        *uuid.UUID
	VehicleID       *uuid.UUID
	ServiceKind     ServiceKind
	Status          TripStatus
	PickupLocation  string
	DropoffLocation string
	Notes           string
	Flight          *FlightInfo
	Passengers      []string
	Amount          float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasParties reports whether both a driver and a vehicle are assigned.
func (t Trip) HasParties() bool {
	return t.DriverID != nil && t.VehicleID != nil
}

// AssignedTo reports whether the trip's current driver is driverID.
func (t Trip) AssignedTo(driverID uuid.UUID) bool {
	return t.DriverID != nil && *t.DriverID == driverID
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
