package core

// Summary aggregates a plan for the Sum, Delta, Actual % and Remainder
// views.
type Summary struct {
	InputTotal     float64   // sum of the day totals
	AllocatedTotal float64   // sum of every allocated cell
	ByCategory     []float64 // allocated hours per category
	Targets        []float64 // ideal hours per category
	Deltas         []float64 // ByCategory - Targets
	ActualPercent  []float64 // achieved share per category, in [0,1]
	Remainder      float64
}

// Summarize computes category totals and how far rounding moved them
// from their targets.
func (p *Plan) Summarize() Summary {
	s := Summary{
		ByCategory:    make([]float64, len(p.Weights)),
		Targets:       append([]float64(nil), p.Targets...),
		Deltas:        make([]float64, len(p.Weights)),
		ActualPercent: make([]float64, len(p.Weights)),
		Remainder:     p.Remainder,
	}
	for _, r := range p.Rows {
		s.InputTotal += r.Total
		for j, h := range r.Hours {
			s.ByCategory[j] += h
			s.AllocatedTotal += h
		}
	}
	for j := range s.ByCategory {
		s.Deltas[j] = s.ByCategory[j] - s.Targets[j]
		if s.AllocatedTotal != 0 {
			s.ActualPercent[j] = s.ByCategory[j] / s.AllocatedTotal
		}
	}
	return s
}
