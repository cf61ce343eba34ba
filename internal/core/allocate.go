package core

import (
	"fmt"
	"math"
	"sort"
)

type (
	// Strategy selects how hours are distributed over categories.
	Strategy string

	// Row is one day of the allocation matrix: the day's original
	// total plus one snapped hour value per category, in category
	// order.
	Row struct {
		Day   string
		Total float64
		Hours []float64
	}

	// Plan is the full output of an allocation run.
	Plan struct {
		Rows       []Row
		Weights    Weights
		Resolution Resolution
		Strategy   Strategy
		Normalized bool
		// Targets holds the ideal whole-schedule hours per
		// category before rounding (optimal tightens them to the
		// grid). Remainder is whatever the strategy left
		// unallocated.
		Targets   []float64
		Remainder float64
	}
)

const (
	// StrategyProportional snaps each day's share independently and
	// never corrects the resulting rounding drift. Row sums may
	// diverge from the day total by up to (categories-1)*resolution/2;
	// the Sum and Delta views exist to surface exactly that.
	StrategyProportional Strategy = "proportional"

	// StrategySequential allocates categories one after another
	// against whole-schedule quotas, correcting drift on the last day
	// and folding per-day residuals into the last category.
	StrategySequential Strategy = "sequential"

	// StrategyOptimal runs a largest-remainder quota assignment in
	// resolution units and then fills days greedily. It never exceeds
	// a day's total.
	StrategyOptimal Strategy = "optimal"
)

// ParseStrategy maps a user-supplied name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyProportional, StrategySequential, StrategyOptimal:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrValidation, s)
}

// Allocate distributes each day's hours over the weighted categories
// and snaps the results to the resolution grid. It is a pure function:
// no I/O, no shared state, identical inputs give identical plans, and
// every validation failure is reported before any row is produced.
//
// The proportional strategy requires weights summing to 1.0 (within
// tolerance); sequential and optimal accept sums up to 1.0 and report
// the shortfall as Remainder.
func Allocate(schedule Schedule, weights Weights, resolution Resolution, strategy Strategy) (*Plan, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if err := resolution.Validate(); err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyProportional:
		if err := weights.ValidateExact(); err != nil {
			return nil, err
		}
		return allocateProportional(schedule, weights, resolution), nil
	case StrategySequential:
		if err := weights.ValidateBounded(); err != nil {
			return nil, err
		}
		return allocateSequential(schedule, weights, resolution), nil
	case StrategyOptimal:
		if err := weights.ValidateBounded(); err != nil {
			return nil, err
		}
		return allocateOptimal(schedule, weights, resolution), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrValidation, strategy)
}

func allocateProportional(schedule Schedule, weights Weights, res Resolution) *Plan {
	total := schedule.Total()
	rows := make([]Row, len(schedule))
	for i, d := range schedule {
		hours := make([]float64, len(weights))
		for j, w := range weights {
			hours[j] = res.Snap(d.Hours * w)
		}
		rows[i] = Row{Day: d.Name, Total: d.Hours, Hours: hours}
	}

	targets := make([]float64, len(weights))
	for j, w := range weights {
		targets[j] = w * total
	}

	p := &Plan{
		Rows:       rows,
		Weights:    weights,
		Resolution: res,
		Strategy:   StrategyProportional,
		Targets:    targets,
	}
	p.Remainder = math.Max(0, res.Snap(total-p.allocatedTotal()))
	return p
}

func allocateSequential(schedule Schedule, weights Weights, res Resolution) *Plan {
	total := schedule.Total()
	quotas := make([]float64, len(weights))
	for j, w := range weights {
		quotas[j] = w * total
	}

	rows := make([]Row, len(schedule))
	for i, d := range schedule {
		rows[i] = Row{Day: d.Name, Total: d.Hours, Hours: make([]float64, len(weights))}
	}

	remaining := append([]float64(nil), quotas...)
	for j := range weights {
		for i := range rows {
			available := rows[i].Total - sum(rows[i].Hours)
			alloc := res.Snap(math.Min(available, math.Max(0, remaining[j])))
			remaining[j] -= alloc
			rows[i].Hours[j] = alloc
		}
		// Correct accumulated drift for this category on the last day.
		var used float64
		for i := range rows {
			used += rows[i].Hours[j]
		}
		drift := res.Snap(quotas[j] - used)
		last := len(rows) - 1
		rows[last].Hours[j] = res.Snap(rows[last].Hours[j] + drift)
	}

	adjustRowResiduals(rows, res)

	p := &Plan{
		Rows:       rows,
		Weights:    weights,
		Resolution: res,
		Strategy:   StrategySequential,
		Targets:    quotas,
	}
	p.Remainder = math.Max(0, res.Snap(total-p.allocatedTotal()))
	return p
}

// adjustRowResiduals folds any per-day rounding residual into the last
// category so that each row still sums to its day total. Residuals
// smaller than one grid step are floating-point noise and left alone.
func adjustRowResiduals(rows []Row, res Resolution) {
	for i := range rows {
		residual := res.Snap(rows[i].Total - sum(rows[i].Hours))
		if math.Abs(residual) >= float64(res)-1e-9 {
			last := len(rows[i].Hours) - 1
			rows[i].Hours[last] = res.Snap(rows[i].Hours[last] + residual)
		}
	}
}

func allocateOptimal(schedule Schedule, weights Weights, res Resolution) *Plan {
	factor := res.Units()

	unitsPerDay := make([]int, len(schedule))
	totalUnits := 0
	for i, d := range schedule {
		unitsPerDay[i] = int(math.Round(d.Hours * float64(factor)))
		totalUnits += unitsPerDay[i]
	}

	// Largest-remainder quota assignment: floor every target, then
	// hand out the leftover units in order of fractional part.
	rawTargets := make([]float64, len(weights))
	targetUnits := make([]int, len(weights))
	assigned := 0
	targetSum := 0.0
	for j, w := range weights {
		rawTargets[j] = w * float64(totalUnits)
		targetUnits[j] = int(rawTargets[j])
		assigned += targetUnits[j]
		targetSum += rawTargets[j]
	}
	order := make([]int, len(weights))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa := rawTargets[order[a]] - math.Floor(rawTargets[order[a]])
		fb := rawTargets[order[b]] - math.Floor(rawTargets[order[b]])
		return fa > fb
	})
	free := totalUnits - assigned
	if byTarget := int(math.Round(targetSum - float64(assigned))); byTarget < free {
		free = byTarget
	}
	for _, j := range order {
		if free <= 0 {
			break
		}
		targetUnits[j]++
		free--
	}

	// Greedy per-day fill, always serving the category with the most
	// outstanding units.
	allocUnits := make([][]int, len(schedule))
	for i := range allocUnits {
		allocUnits[i] = make([]int, len(weights))
	}
	remainingUnits := append([]int(nil), targetUnits...)
	for i := range schedule {
		capacity := unitsPerDay[i]
		used := 0
		for used < capacity {
			idx := -1
			for j, v := range remainingUnits {
				if v > 0 && (idx < 0 || v > remainingUnits[idx]) {
					idx = j
				}
			}
			if idx < 0 {
				break
			}
			allocUnits[i][idx]++
			remainingUnits[idx]--
			used++
		}
	}

	rows := make([]Row, len(schedule))
	for i, d := range schedule {
		hours := make([]float64, len(weights))
		for j, u := range allocUnits[i] {
			hours[j] = float64(u) / float64(factor)
		}
		rows[i] = Row{Day: d.Name, Total: d.Hours, Hours: hours}
	}

	targets := make([]float64, len(weights))
	sumTargetUnits := 0
	for j, u := range targetUnits {
		targets[j] = float64(u) / float64(factor)
		sumTargetUnits += u
	}

	return &Plan{
		Rows:       rows,
		Weights:    weights,
		Resolution: res,
		Strategy:   StrategyOptimal,
		Targets:    targets,
		Remainder:  float64(totalUnits-sumTargetUnits) / float64(factor),
	}
}

// FillRemainder pushes unallocated remainder hours into the last
// category, one grid step at a time, wherever a day still has slack.
// With strict set it is an error if any remainder is left afterwards.
func (p *Plan) FillRemainder(strict bool) error {
	if p.Remainder <= 1e-4 {
		return nil
	}
	res := float64(p.Resolution)
	last := len(p.Weights) - 1
	toFill := p.Remainder
	for toFill+1e-9 >= res {
		progress := false
		for i := range p.Rows {
			slack := p.Rows[i].Total - sum(p.Rows[i].Hours)
			if slack+1e-9 >= res {
				p.Rows[i].Hours[last] += res
				toFill -= res
				progress = true
				if toFill < res {
					break
				}
			}
		}
		if !progress {
			break
		}
	}
	p.Targets[last] += p.Remainder - toFill
	p.Remainder = toFill
	if strict && p.Remainder > 1e-4 {
		return fmt.Errorf("%w: %.2fh left with no day slack", ErrRemainder, p.Remainder)
	}
	return nil
}

func (p *Plan) allocatedTotal() float64 {
	var t float64
	for _, r := range p.Rows {
		t += sum(r.Hours)
	}
	return t
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
