package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchedule(t *testing.T, hours ...float64) Schedule {
	t.Helper()
	s, err := NewSchedule(nil, hours)
	require.NoError(t, err)
	return s
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"proportional", "sequential", "optimal"} {
		st, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, Strategy(name), st)
	}
	_, err := ParseStrategy("greedy")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProportionalScenario(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.5, StrategyProportional)
	require.NoError(t, err)

	require.Len(t, p.Rows, 5)
	assert.Equal(t, []float64{0, 0}, p.Rows[0].Hours)
	assert.Equal(t, []float64{1.0, 1.0}, p.Rows[1].Hours)
	for _, i := range []int{2, 3, 4} {
		assert.Equal(t, []float64{4.5, 3.0}, p.Rows[i].Hours, "row %d", i)
	}
	assert.Equal(t, 7.5, p.Rows[2].Total)
}

func TestProportionalShape(t *testing.T) {
	s := mustSchedule(t, 1, 2, 3, 4)
	w := Weights{0.2, 0.3, 0.5}
	p, err := Allocate(s, w, 0.25, StrategyProportional)
	require.NoError(t, err)

	assert.Len(t, p.Rows, len(s))
	for _, r := range p.Rows {
		assert.Len(t, r.Hours, len(w))
	}
}

func TestProportionalDriftBound(t *testing.T) {
	s := mustSchedule(t, 8.5)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.01, StrategyProportional)
	require.NoError(t, err)

	var rowSum float64
	for _, h := range p.Rows[0].Hours {
		rowSum += h
	}
	assert.InDelta(t, 8.5, rowSum, 0.02)
}

func TestProportionalZeroDay(t *testing.T) {
	s := mustSchedule(t, 0)
	p, err := Allocate(s, Weights{0.3, 0.3, 0.4}, 0.5, StrategyProportional)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, p.Rows[0].Hours)
}

func TestProportionalSingleCategory(t *testing.T) {
	s := mustSchedule(t, 7.5, 2)
	p, err := Allocate(s, Weights{1.0}, 0.5, StrategyProportional)
	require.NoError(t, err)
	assert.Equal(t, []float64{7.5}, p.Rows[0].Hours)
	assert.Equal(t, []float64{2.0}, p.Rows[1].Hours)
}

func TestProportionalIdempotent(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	w := Weights{0.6, 0.4}
	a, err := Allocate(s, w, 0.5, StrategyProportional)
	require.NoError(t, err)
	b, err := Allocate(s, w, 0.5, StrategyProportional)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProportionalRejectsLooseWeightSum(t *testing.T) {
	s := mustSchedule(t, 8)
	_, err := Allocate(s, Weights{0.5, 0.3}, 0.5, StrategyProportional)
	assert.ErrorIs(t, err, ErrWeightSum)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocateValidation(t *testing.T) {
	s := mustSchedule(t, 8)
	w := Weights{0.6, 0.4}

	_, err := Allocate(Schedule{}, w, 0.5, StrategyProportional)
	assert.ErrorIs(t, err, ErrNoHours)

	_, err = Allocate(s, Weights{}, 0.5, StrategyProportional)
	assert.ErrorIs(t, err, ErrNoWeights)

	_, err = Allocate(s, w, 0.3, StrategyProportional)
	assert.ErrorIs(t, err, ErrResolution)

	_, err = Allocate(s, w, 0.5, Strategy("bogus"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSequentialAllocation(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.5, StrategySequential)
	require.NoError(t, err)

	// Category quotas over the 24.5h week are 14.7h and 9.8h.
	assert.InDelta(t, 14.7, p.Targets[0], 1e-9)
	assert.InDelta(t, 9.8, p.Targets[1], 1e-9)

	sum := p.Summarize()
	assert.InDelta(t, 14.5, sum.ByCategory[0], 1e-9)
	assert.InDelta(t, 10.0, sum.ByCategory[1], 1e-9)
	assert.InDelta(t, 0, p.Remainder, 1e-9)

	// No day may be overcommitted.
	for _, r := range p.Rows {
		var rowSum float64
		for _, h := range r.Hours {
			rowSum += h
		}
		assert.LessOrEqual(t, rowSum, r.Total+1e-6, "day %s", r.Day)
	}
}

func TestSequentialAllZeroHours(t *testing.T) {
	s := mustSchedule(t, 0, 0)
	p, err := Allocate(s, Weights{0.5, 0.5}, 0.5, StrategySequential)
	require.NoError(t, err)
	for _, r := range p.Rows {
		assert.Equal(t, []float64{0, 0}, r.Hours)
	}
	assert.Equal(t, 0.0, p.Remainder)
}

func TestOptimalAllocation(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.5, StrategyOptimal)
	require.NoError(t, err)

	// Largest-remainder assignment in half-hour units gives exact
	// grid targets: 49 units split 29/20.
	assert.InDelta(t, 14.5, p.Targets[0], 1e-9)
	assert.InDelta(t, 10.0, p.Targets[1], 1e-9)
	assert.InDelta(t, 0, p.Remainder, 1e-9)

	sum := p.Summarize()
	assert.InDelta(t, p.Targets[0], sum.ByCategory[0], 1e-9)
	assert.InDelta(t, p.Targets[1], sum.ByCategory[1], 1e-9)

	for _, r := range p.Rows {
		var rowSum float64
		for _, h := range r.Hours {
			rowSum += h
		}
		assert.LessOrEqual(t, rowSum, r.Total+1e-6, "day %s", r.Day)
		for _, h := range r.Hours {
			assert.InDelta(t, h, p.Resolution.Snap(h), 1e-9)
		}
	}
}

func TestOptimalLeavesRemainderForPartialWeights(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.5, 0.3, 0.1}, 0.25, StrategyOptimal)
	require.NoError(t, err)

	// 98 quarter-hour units at 90% coverage: 49 + 29 + 10 assigned,
	// 10 units (2.5h) left over.
	assert.InDelta(t, 2.5, p.Remainder, 1e-9)
	assert.InDelta(t, 12.25, p.Targets[0], 1e-9)
	assert.InDelta(t, 7.25, p.Targets[1], 1e-9)
	assert.InDelta(t, 2.5, p.Targets[2], 1e-9)
}

func TestFillRemainder(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.5, 0.3, 0.1}, 0.25, StrategyOptimal)
	require.NoError(t, err)
	require.InDelta(t, 2.5, p.Remainder, 1e-9)

	require.NoError(t, p.FillRemainder(false))
	assert.InDelta(t, 0, p.Remainder, 1e-9)
	// The filled hours land on the last category and its target moves
	// with them.
	assert.InDelta(t, 5.0, p.Targets[2], 1e-9)

	sum := p.Summarize()
	assert.InDelta(t, sum.InputTotal, sum.AllocatedTotal, 1e-9)
	for _, r := range p.Rows {
		var rowSum float64
		for _, h := range r.Hours {
			rowSum += h
		}
		assert.LessOrEqual(t, rowSum, r.Total+1e-6)
	}
}

func TestFillRemainderStrict(t *testing.T) {
	// A fabricated plan whose single day is already full: nothing can
	// absorb the remainder.
	p := &Plan{
		Rows:       []Row{{Day: "monday", Total: 1.0, Hours: []float64{1.0}}},
		Weights:    Weights{0.5},
		Resolution: 0.5,
		Strategy:   StrategyOptimal,
		Targets:    []float64{0.5},
		Remainder:  0.5,
	}
	err := p.FillRemainder(true)
	assert.ErrorIs(t, err, ErrRemainder)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSummarize(t *testing.T) {
	s := mustSchedule(t, 0, 2, 7.5, 7.5, 7.5)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.5, StrategyProportional)
	require.NoError(t, err)

	sum := p.Summarize()
	assert.InDelta(t, 24.5, sum.InputTotal, 1e-9)
	assert.InDelta(t, 24.5, sum.AllocatedTotal, 1e-9)
	assert.InDelta(t, 14.5, sum.ByCategory[0], 1e-9)
	assert.InDelta(t, 10.0, sum.ByCategory[1], 1e-9)
	assert.InDelta(t, -0.2, sum.Deltas[0], 1e-9)
	assert.InDelta(t, 0.2, sum.Deltas[1], 1e-9)
	assert.InDelta(t, 14.5/24.5, sum.ActualPercent[0], 1e-9)
	assert.InDelta(t, 10.0/24.5, sum.ActualPercent[1], 1e-9)
}

func TestSummarizeZeroTotal(t *testing.T) {
	s := mustSchedule(t, 0, 0)
	p, err := Allocate(s, Weights{0.6, 0.4}, 0.5, StrategyProportional)
	require.NoError(t, err)
	sum := p.Summarize()
	assert.Equal(t, []float64{0, 0}, sum.ActualPercent)
}
