package domain

import "fmt"

// TripStatus is the lifecycle state of a trip.
//
//	scheduled ──► in_progress ──► completed
//	    │              │
//	    └──► cancelled ◄┘
//
// completed and cancelled are terminal.
type TripStatus string

const (
	StatusScheduled  TripStatus = "scheduled"
	StatusInProgress TripStatus = "in_progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// transitions lists the allowed next states for every non-terminal state.
var transitions = map[TripStatus][]TripStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s TripStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
// It does not check the driver/vehicle guard; see Trip.TransitionTo.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// requiresParties reports whether entering s needs a driver and a vehicle.
func (s TripStatus) requiresParties() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// TransitionTo moves the trip to next, enforcing the state machine and the
// driver/vehicle guard. On failure the trip is left unchanged and the error
// wraps ErrInvalidTransition.
func (t *Trip) TransitionTo(next TripStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, next)
	}
	if next.requiresParties() && !t.HasParties() {
		return fmt.Errorf("%w: %s requires an assigned driver and vehicle", ErrInvalidTransition, next)
	}
	t.Status = next
	return nil
}

// CheckEditable returns ErrInvalidTransition for completed trips, which must
// not be edited or reassigned.
func (t Trip) CheckEditable() error {
	if t.Status == StatusCompleted {
		return fmt.Errorf("%w: trip is completed", ErrInvalidTransition)
	}
	return nil
}
