package core

import (
	"fmt"
	"math"
	"strings"
)

// Resolution is the rounding granularity in hours. 0.5 snaps to half
// hours, 0.25 to quarter hours, 0.01 to ~36 second steps.
type Resolution float64

// Validate rejects non-positive resolutions and those that do not
// evenly divide 1.0. An uneven grid would make remainder handling in
// whole grid units ill-defined.
func (r Resolution) Validate() error {
	if r <= 0 {
		return fmt.Errorf("%w: got %v", ErrResolution, float64(r))
	}
	units := math.Round(1 / float64(r))
	if math.Abs(units*float64(r)-1.0) > 1e-9 {
		return fmt.Errorf("%w: got %v", ErrResolution, float64(r))
	}
	return nil
}

// Units returns how many resolution steps make up one hour.
// Only meaningful for a valid resolution.
func (r Resolution) Units() int {
	return int(math.Round(1 / float64(r)))
}

// Snap rounds x to the nearest multiple of the resolution, half
// values rounding up. Half-up rather than half-to-even keeps repeated
// boundary values from systematically under-allocating.
//
// Examples at 0.5: 1.2 -> 1.0, 1.25 -> 1.5, 1.7 -> 1.5, 1.75 -> 2.0.
func (r Resolution) Snap(x float64) float64 {
	units := math.Floor(x/float64(r) + 0.5)
	return units * float64(r)
}

// DecimalPlaces returns how many decimal digits are needed to print a
// value on this grid without loss (0.5 -> 1, 0.25 -> 2, 1 -> 0).
func (r Resolution) DecimalPlaces() int {
	s := strings.TrimRight(fmt.Sprintf("%.10f", float64(r)), "0")
	s = strings.TrimRight(s, ".")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// Format renders a value with the precision implied by the resolution.
func (r Resolution) Format(x float64) string {
	return fmt.Sprintf("%.*f", r.DecimalPlaces(), x)
}
