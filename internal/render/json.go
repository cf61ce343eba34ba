package render

import (
	"encoding/json"
	"io"

	"ore/internal/core"
)

type (
	// Payload is the structured export of a plan.
	Payload struct {
		Days                    []string                 `json:"days"`
		Percentages             []float64                `json:"percentages"`
		Allocations             map[string]DayAllocation `json:"allocations"`
		Targets                 []float64                `json:"targets"`
		AllocatedCategoryTotals []float64                `json:"allocated_category_totals"`
		RemainderHours          float64                  `json:"remainder_hours"`
		Normalized              bool                     `json:"normalized"`
		Algorithm               string                   `json:"algorithm"`
	}

	DayAllocation struct {
		Total      float64   `json:"total"`
		Categories []float64 `json:"categories"`
	}
)

// NewPayload flattens a plan for JSON export.
func NewPayload(p *core.Plan) Payload {
	sum := p.Summarize()
	out := Payload{
		Days:                    make([]string, len(p.Rows)),
		Percentages:             p.Weights,
		Allocations:             make(map[string]DayAllocation, len(p.Rows)),
		Targets:                 p.Targets,
		AllocatedCategoryTotals: sum.ByCategory,
		RemainderHours:          p.Remainder,
		Normalized:              p.Normalized,
		Algorithm:               string(p.Strategy),
	}
	for i, r := range p.Rows {
		out.Days[i] = r.Day
		out.Allocations[r.Day] = DayAllocation{Total: r.Total, Categories: r.Hours}
	}
	return out
}

// JSON writes the plan payload as indented JSON.
func JSON(w io.Writer, p *core.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewPayload(p))
}
