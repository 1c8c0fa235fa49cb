package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// buildTrip validates in and maps it onto a domain.Trip without ID, status
// or amount. It makes no store calls.
//   - ClientID, Date and StartTime are required.
//   - StartTime and EndTime must be HH:MM (HH:MM:SS accepted); both are
//     normalized to HH:MM.
//   - EndTime is required for service kinds that span a period.
//   - Flight info is only accepted for airport kinds, unless legacy is set.
//   - Empty ServiceKind defaults to "other".
func buildTrip(in TripInput, legacy bool) (domain.Trip, error) {
	if in.ClientID == uuid.Nil {
		return domain.Trip{}, fmt.Errorf("%w: client is required", domain.ErrValidation)
	}
	if in.Date.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}

	start, err := clock(in.StartTime)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: start_time %v", domain.ErrValidation, err)
	}

	kind := in.ServiceKind
	if kind == "" {
		kind = domain.ServiceOther
	}
	if !kind.Valid() {
		return domain.Trip{}, fmt.Errorf("%w: unknown service kind %q", domain.ErrValidation, kind)
	}

	var end *string
	if in.EndTime != nil && strings.TrimSpace(*in.EndTime) != "" {
		e, err := clock(*in.EndTime)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("%w: end_time %v", domain.ErrValidation, err)
		}
		end = &e
	}
	if end == nil && kind.RequiresEndTime() {
		return domain.Trip{}, fmt.Errorf("%w: end_time is required for %s", domain.ErrValidation, kind)
	}

	var flight *domain.FlightInfo
	if in.Flight != nil && !in.Flight.IsZero() {
		if !kind.IsAirport() && !legacy {
			return domain.Trip{}, fmt.Errorf("%w: flight details only apply to airport service", domain.ErrValidation)
		}
		f := domain.FlightInfo{
			Number:   strings.TrimSpace(in.Flight.Number),
			Airline:  strings.TrimSpace(in.Flight.Airline),
			Terminal: strings.TrimSpace(in.Flight.Terminal),
		}
		flight = &f
	}

	return domain.Trip{
		Date:            time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       start,
		EndTime:         end,
		ClientID:        in.ClientID,
		DriverID:        in.DriverID,
		VehicleID:       in.VehicleID,
		ServiceKind:     kind,
		PickupLocation:  strings.TrimSpace(in.PickupLocation),
		DropoffLocation: strings.TrimSpace(in.DropoffLocation),
		Notes:           strings.TrimSpace(in.Notes),
		Flight:          flight,
		Passengers:      cleanPassengers(in.Passengers),
	}, nil
}

// clock parses a wall-clock time and renders it as HH:MM.
func clock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("is required")
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%q is not a valid HH:MM time", s)
}

func cleanPassengers(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
