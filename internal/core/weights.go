package core

import (
	"fmt"
	"math"
)

// weightSumTolerance is how far a weight sum may stray from 1.0 before
// the proportional strategy rejects it. Guards against silently
// allocating more or less time than a day holds.
const weightSumTolerance = 1e-6

// Weights is an ordered list of category percentages expressed as
// decimals (0.6 == 60%).
type Weights []float64

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var t float64
	for _, v := range w {
		t += v
	}
	return t
}

// Validate checks shape only: non-empty and no negative entries.
// Sum constraints depend on the strategy, see ValidateExact and
// ValidateBounded.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return ErrNoWeights
	}
	for i, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: weight %d is %v", ErrNegativeWeight, i, v)
		}
	}
	return nil
}

// ValidateExact requires the weights to sum to 1.0 within tolerance.
// This is the contract of the proportional strategy: anything else
// would allocate more or less time than the day contains.
func (w Weights) ValidateExact() error {
	if err := w.Validate(); err != nil {
		return err
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: sum is %.6f", ErrWeightSum, w.Sum())
	}
	return nil
}

// ValidateBounded requires the sum to be at most 1.0; anything left
// over stays unallocated as remainder. Used by the sequential and
// optimal strategies.
func (w Weights) ValidateBounded() error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.Sum() > 1.0+weightSumTolerance {
		return fmt.Errorf("%w: sum is %.6f, must not exceed 1.0", ErrWeightSum, w.Sum())
	}
	return nil
}

// Normalized returns a copy rescaled so the weights sum to exactly 1.0.
// Already-normalized weights are a fixed point of this operation.
func (w Weights) Normalized() (Weights, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	sum := w.Sum()
	if sum == 0 {
		return nil, ErrZeroWeights
	}
	out := make(Weights, len(w))
	for i, v := range w {
		out[i] = v / sum
	}
	return out, nil
}
