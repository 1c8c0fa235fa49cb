package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types for the dispatch API. They mirror the schemas in
// spec/openapi.yaml; field names follow the JSON casing used there.

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorDetail is the inner error object.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FlightDetails carries airport pickup/dropoff metadata.
type FlightDetails struct {
	Flight   *string `json:"flight,omitempty"`
	Airline  *string `json:"airline,omitempty"`
	Terminal *string `json:"terminal,omitempty"`
}

// Recurrence asks CreateTrip to expand the trip into several occurrences.
type Recurrence struct {
	Frequency   string `json:"frequency"`
	Occurrences int    `json:"occurrences"`
}

// TripRequest is the body of POST /trips and PUT /trips/{id}.
type TripRequest struct {
	Date            openapi_types.Date  `json:"date"`
	StartTime       string              `json:"start_time"`
	EndTime         *string             `json:"end_time,omitempty"`
	ClientId        openapi_types.UUID  `json:"client_id"`
	DriverId        *openapi_types.UUID `json:"driver_id,omitempty"`
	VehicleId       *openapi_types.UUID `json:"vehicle_id,omitempty"`
	ServiceKind     *string             `json:"service_kind,omitempty"`
	Status          *string             `json:"status,omitempty"`
	PickupLocation  *string             `json:"pickup_location,omitempty"`
	DropoffLocation *string             `json:"dropoff_location,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Flight          *FlightDetails      `json:"flight,omitempty"`
	Passengers      []string            `json:"passengers,omitempty"`
	Recurrence      *Recurrence         `json:"recurrence,omitempty"`
}

// ImportTripRequest is the body of POST /trips/import.
type ImportTripRequest struct {
	TripRequest
	Amount *float64 `json:"amount,omitempty"`
}

// Trip is the response representation of a trip.
// LegacyNotes renders notes, flight and passengers in the old single-field
// format for consumers that still parse notes.
type Trip struct {
	Id              openapi_types.UUID  `json:"id"`
	Date            openapi_types.Date  `json:"date"`
	StartTime       string              `json:"start_time"`
	EndTime         *string             `json:"end_time,omitempty"`
	ClientId        openapi_types.UUID  `json:"client_id"`
	DriverId        *openapi_types.UUID `json:"driver_id,omitempty"`
	VehicleId       *openapi_types.UUID `json:"vehicle_id,omitempty"`
	ServiceKind     string              `json:"service_kind"`
	Status          string              `json:"status"`
	PickupLocation  string              `json:"pickup_location"`
	DropoffLocation string              `json:"dropoff_location"`
	Notes           string              `json:"notes"`
	Flight          *FlightDetails      `json:"flight,omitempty"`
	Passengers      []string            `json:"passengers"`
	Amount          float64             `json:"amount"`
	LegacyNotes     string              `json:"legacy_notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreatedTrips is the body of POST /trips. Data holds one trip, or one per
// occurrence for a recurring request.
type CreatedTrips struct {
	Data []Trip `json:"data"`
}

// StatusRequest is the body of POST /trips/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// AssignmentRequest is the body of POST /trips/{id}/assignments.
type AssignmentRequest struct {
	DriverId openapi_types.UUID `json:"driver_id"`
	Notes    *string            `json:"notes,omitempty"`
}

// Assignment is one entry of a trip's assignment history.
type Assignment struct {
	Id         openapi_types.UUID `json:"id"`
	TripId     openapi_types.UUID `json:"trip_id"`
	DriverId   openapi_types.UUID `json:"driver_id"`
	AssignedAt time.Time          `json:"assigned_at"`
	Status     string             `json:"status"`
	Notes      string             `json:"notes"`
}

// ConflictWarning is the advisory result of the driver conflict check.
type ConflictWarning struct {
	Message       string               `json:"message"`
	Count         int                  `json:"count"`
	WindowMinutes int                  `json:"window_minutes"`
	TripIds       []openapi_types.UUID `json:"trip_ids"`
}

// AssignmentResult is the body of POST /trips/{id}/assignments.
type AssignmentResult struct {
	Assignment Assignment       `json:"assignment"`
	Trip       Trip             `json:"trip"`
	Warning    *ConflictWarning `json:"warning,omitempty"`
}

// Driver is the summary of a driver used in availability listings.
type Driver struct {
	Id    openapi_types.UUID `json:"id"`
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
}

// DriverAvailability is one entry of GET /trips/{id}/available-drivers.
type DriverAvailability struct {
	Driver          Driver               `json:"driver"`
	IsAvailable     bool                 `json:"is_available"`
	ConflictCount   int                  `json:"conflict_count"`
	ConflictTripIds []openapi_types.UUID `json:"conflict_trip_ids"`
}

// Message is one entry of GET /trips/{id}/messages.
type Message struct {
	Id        openapi_types.UUID `json:"id"`
	TripId    openapi_types.UUID `json:"trip_id"`
	Sender    string             `json:"sender"`
	Body      string             `json:"body"`
	CreatedAt time.Time          `json:"created_at"`
}
