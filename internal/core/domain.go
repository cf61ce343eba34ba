package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the root of every input validation failure. All
// specific validation sentinels wrap it, so callers can test a single
// error with errors.Is(err, ErrValidation).
var ErrValidation = errors.New("invalid input")

var (
	ErrNoHours        = fmt.Errorf("%w: at least one day of hours is required", ErrValidation)
	ErrNegativeHours  = fmt.Errorf("%w: hours must be non-negative", ErrValidation)
	ErrNoWeights      = fmt.Errorf("%w: at least one weight is required", ErrValidation)
	ErrNegativeWeight = fmt.Errorf("%w: weights must be non-negative", ErrValidation)
	ErrZeroWeights    = fmt.Errorf("%w: weights must not all be zero", ErrValidation)
	ErrWeightSum      = fmt.Errorf("%w: weights must sum to 1.0 (use normalize to rescale)", ErrValidation)
	ErrResolution     = fmt.Errorf("%w: resolution must be positive and evenly divide 1.0 (e.g. 1, 0.5, 0.25, 0.2)", ErrValidation)
	ErrUnknownDay     = fmt.Errorf("%w: unknown day name", ErrValidation)
	ErrDuplicateDay   = fmt.Errorf("%w: duplicate day name", ErrValidation)
	ErrDayCount       = fmt.Errorf("%w: number of days must match number of hours", ErrValidation)
	ErrRemainder      = fmt.Errorf("%w: unable to allocate remainder", ErrValidation)
)

type (
	// Day pairs a display label with the total hours available on it.
	Day struct {
		Name  string
		Hours float64
	}

	// Schedule is an ordered list of days. Order matters: sequential
	// allocation corrects drift on the last day, and rendering keeps
	// the caller's order.
	Schedule []Day
)

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var dayAliases = map[string]string{
	"mon":  "monday",
	"tue":  "tuesday",
	"wed":  "wednesday",
	"thu":  "thursday",
	"thur": "thursday",
	"fri":  "friday",
	"sat":  "saturday",
	"sun":  "sunday",
}

// CanonicalDay resolves full names and common abbreviations to the
// canonical lowercase weekday name.
func CanonicalDay(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if full, ok := dayAliases[key]; ok {
		key = full
	}
	for _, d := range weekdays {
		if d == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, name)
}

// NewSchedule builds a Schedule from parallel name and hour slices.
// Names are optional: when empty, days are labelled monday onward.
// Duplicate or unknown names and negative hours are rejected.
func NewSchedule(names []string, hours []float64) (Schedule, error) {
	if len(hours) == 0 {
		return nil, ErrNoHours
	}
	for _, h := range hours {
		if h < 0 {
			return nil, fmt.Errorf("%w: got %v", ErrNegativeHours, h)
		}
	}
	if len(names) == 0 {
		if len(hours) > len(weekdays) {
			return nil, fmt.Errorf("%w: %d hour values but only %d weekday labels; pass explicit day names", ErrDayCount, len(hours), len(weekdays))
		}
		names = weekdays[:len(hours)]
	} else {
		if len(names) != len(hours) {
			return nil, fmt.Errorf("%w: %d days vs %d hours", ErrDayCount, len(names), len(hours))
		}
		seen := make(map[string]bool, len(names))
		canonical := make([]string, len(names))
		for i, n := range names {
			c, err := CanonicalDay(n)
			if err != nil {
				return nil, err
			}
			if seen[c] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateDay, c)
			}
			seen[c] = true
			canonical[i] = c
		}
		names = canonical
	}

	s := make(Schedule, len(hours))
	for i := range hours {
		s[i] = Day{Name: names[i], Hours: hours[i]}
	}
	return s, nil
}

// Total returns the sum of hours over all days.
func (s Schedule) Total() float64 {
	var t float64
	for _, d := range s {
		t += d.Hours
	}
	return t
}

func (s Schedule) Validate() error {
	if len(s) == 0 {
		return ErrNoHours
	}
	for _, d := range s {
		if d.Hours < 0 {
			return fmt.Errorf("%w: %s has %v", ErrNegativeHours, d.Name, d.Hours)
		}
	}
	return nil
}
