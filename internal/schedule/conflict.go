package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// Checker detects drivers booked too close together on the same day.
// Its findings are advisory: callers show a warning and may proceed.
type Checker struct {
	window int
}

// NewChecker constructs a Checker using p's conflict window.
func NewChecker(p Policy) *Checker {
	return &Checker{window: p.ConflictWindowMinutes}
}

// Window returns the conflict window in minutes.
func (c *Checker) Window() int { return c.window }

// MinutesSinceMidnight parses "HH:MM" or "HH:MM:SS".
// Missing or malformed values count as 00:00.
func MinutesSinceMidnight(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}

// Slot is the driver/day/time a trip occupies.
type Slot struct {
	DriverID  uuid.UUID
	Date      time.Time
	StartTime string
}

// within reports whether two start times are closer than the window.
func (c *Checker) within(a, b string) bool {
	d := MinutesSinceMidnight(a) - MinutesSinceMidnight(b)
	if d < 0 {
		d = -d
	}
	return d < c.window
}

// Conflict reports whether trips a and b book the same driver on the same day
// with start times closer than the window. It is symmetric.
func (c *Checker) Conflict(a, b domain.Trip) bool {
	if a.DriverID == nil || b.DriverID == nil || *a.DriverID != *b.DriverID {
		return false
	}
	return domain.SameDay(a.Date, b.Date) && c.within(a.StartTime, b.StartTime)
}

// Conflicts returns the trips in others that clash with slot.
// The trip identified by exclude (the one being assigned or edited) is
// skipped so a trip never conflicts with itself.
func (c *Checker) Conflicts(slot Slot, exclude uuid.UUID, others []domain.Trip) []domain.Trip {
	var out []domain.Trip
	for _, t := range others {
		if exclude != uuid.Nil && t.ID == exclude {
			continue
		}
		if !t.AssignedTo(slot.DriverID) || !domain.SameDay(t.Date, slot.Date) {
			continue
		}
		if c.within(slot.StartTime, t.StartTime) {
			out = append(out, t)
		}
	}
	return out
}

// DriverAvailability annotates a candidate driver for a trip.
type DriverAvailability struct {
	Driver      domain.Driver
	IsAvailable bool
	Conflicts   []domain.Trip
}

// Annotate marks each driver available iff none of others clash with the
// candidate trip's date and start time for that driver.
func (c *Checker) Annotate(drivers []domain.Driver, candidate domain.Trip, others []domain.Trip) []DriverAvailability {
	out := make([]DriverAvailability, 0, len(drivers))
	for _, d := range drivers {
		clashes := c.Conflicts(Slot{DriverID: d.ID, Date: candidate.Date, StartTime: candidate.StartTime}, candidate.ID, others)
		out = append(out, DriverAvailability{
			Driver:      d,
			IsAvailable: len(clashes) == 0,
			Conflicts:   clashes,
		})
	}
	return out
}

// Warning is the advisory message shown when a selected driver has clashes.
type Warning struct {
	DriverID  uuid.UUID
	Date      time.Time
	StartTime string
	Window    int
	TripIDs   []uuid.UUID
}

// Count returns the number of conflicting trips.
func (w Warning) Count() int { return len(w.TripIDs) }

// Message renders the warning for an operator.
func (w Warning) Message() string {
	noun := "trips"
	if w.Count() == 1 {
		noun = "trip"
	}
	return fmt.Sprintf("driver already has %d %s within %d minutes of %s on %s",
		w.Count(), noun, w.Window, w.StartTime, w.Date.Format(domain.DateLayout))
}

// Warn returns a Warning when slot clashes with any of others, nil otherwise.
func (c *Checker) Warn(slot Slot, exclude uuid.UUID, others []domain.Trip) *Warning {
	clashes := c.Conflicts(slot, exclude, others)
	if len(clashes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(clashes))
	for i, t := range clashes {
		ids[i] = t.ID
	}
	return &Warning{
		DriverID:  slot.DriverID,
		Date:      slot.Date,
		StartTime: slot.StartTime,
		Window:    c.window,
		TripIDs:   ids,
	}
}
