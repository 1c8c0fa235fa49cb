package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// Frequency is how often a recurring trip repeats.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Rule describes a recurrence: Occurrences trips, the first on the base date.
type Rule struct {
	Frequency   Frequency
	Occurrences int
}

// Expander turns one trip template and a Rule into concrete trip records.
type Expander struct {
	maxOccurrences int
	overflow       MonthOverflow
}

// NewExpander constructs an Expander honouring p's occurrence bound and
// month-overflow policy.
func NewExpander(p Policy) *Expander {
	return &Expander{maxOccurrences: p.MaxOccurrences, overflow: p.MonthOverflow}
}

// Expand returns exactly rule.Occurrences trips. Every trip copies base except
// for Date; each is scheduled, has a zero amount and no ID.
// The result is not persisted.
func (e *Expander) Expand(base domain.Trip, rule Rule) ([]domain.Trip, error) {
	if rule.Occurrences < 1 || rule.Occurrences > e.maxOccurrences {
		return nil, fmt.Errorf("%w: occurrences must be between 1 and %d", domain.ErrValidation, e.maxOccurrences)
	}
	if base.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}

	trips := make([]domain.Trip, 0, rule.Occurrences)
	for i := range rule.Occurrences {
		date, err := e.occurrenceDate(base.Date, rule.Frequency, i)
		if err != nil {
			return nil, err
		}
		trips = append(trips, instance(base, date))
	}
	return trips, nil
}

// occurrenceDate computes the date of occurrence i (0-based).
func (e *Expander) occurrenceDate(base time.Time, f Frequency, i int) (time.Time, error) {
	switch f {
	case Daily:
		return base.AddDate(0, 0, i), nil
	case Weekly:
		return base.AddDate(0, 0, 7*i), nil
	case Monthly:
		if e.overflow == OverflowRollover {
			return base.AddDate(0, i, 0), nil
		}
		return addMonthsClamped(base, i), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", domain.ErrValidation, f)
	}
}

// addMonthsClamped advances t by n months, holding the day-of-month but
// clamping it to the last day of the target month.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// instance copies base onto date as a fresh scheduled record.
// Slices and pointers are cloned so records never share mutable state.
func instance(base domain.Trip, date time.Time) domain.Trip {
	t := base
	t.ID = uuid.Nil
	t.Date = date
	t.Status = domain.StatusScheduled
	t.Amount = 0
	t.CreatedAt, t.UpdatedAt = time.Time{}, time.Time{}
	t.Passengers = slices.Clone(base.Passengers)
	if base.Flight != nil {
		f := *base.Flight
		t.Flight = &f
	}
	if base.EndTime != nil {
		e := *base.EndTime
		t.EndTime = &e
	}
	return t
}
