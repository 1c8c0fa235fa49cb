// Package schedule holds the pure scheduling rules of the dispatch core:
// recurrence expansion and driver time-conflict detection.
// Nothing here touches the store; callers pass in the trips to consider.
package schedule

import (
	"fmt"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// MonthOverflow decides what a monthly recurrence does when the base
// day-of-month does not exist in the target month (e.g. the 31st in April).
type MonthOverflow string

const (
	// OverflowClamp keeps the occurrence in the target month, on its last day.
	OverflowClamp MonthOverflow = "clamp"
	// OverflowRollover lets date arithmetic spill into the following month
	// (31 April becomes 1 May), matching records created by older tooling.
	OverflowRollover MonthOverflow = "rollover"
)

// Policy tunes the scheduling rules. Load overrides from YAML with
// config.LoadPolicy; the zero value is not usable, start from DefaultPolicy.
type Policy struct {
	// ConflictWindowMinutes is the minimum gap between two start times of the
	// same driver on the same day before a conflict warning is raised.
	ConflictWindowMinutes int `yaml:"conflict_window_minutes"`
	// MaxOccurrences bounds a single recurrence expansion.
	MaxOccurrences int `yaml:"max_occurrences"`
	// MonthOverflow is the day-overflow policy for monthly recurrences.
	MonthOverflow MonthOverflow `yaml:"month_overflow"`
}

// DefaultPolicy returns the policy used when no policy file is configured.
func DefaultPolicy() Policy {
	return Policy{
		ConflictWindowMinutes: 60,
		MaxOccurrences:        52,
		MonthOverflow:         OverflowClamp,
	}
}

// Validate rejects policies the expander and checker cannot honour.
func (p Policy) Validate() error {
	if p.ConflictWindowMinutes < 1 || p.ConflictWindowMinutes > 24*60 {
		return fmt.Errorf("%w: conflict_window_minutes must be between 1 and 1440", domain.ErrValidation)
	}
	if p.MaxOccurrences < 1 {
		return fmt.Errorf("%w: max_occurrences must be positive", domain.ErrValidation)
	}
	switch p.MonthOverflow {
	case OverflowClamp, OverflowRollover:
	default:
		return fmt.Errorf("%w: month_overflow must be %q or %q", domain.ErrValidation, OverflowClamp, OverflowRollover)
	}
	return nil
}
