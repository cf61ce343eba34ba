package sheets

import (
	"context"
	"time"

	"ore/internal/core"
)

// Ports for outbound adapters.
type (
	// PlanRecord is a plan together with the metadata a sheet row
	// carries. ID is zero for plans exported directly without being
	// saved first.
	PlanRecord struct {
		ID        int64
		CreatedAt time.Time
		Plan      *core.Plan
	}

	// PlanWriter appends an allocation plan to a sheet, one row per
	// day, and returns an opaque reference to where it landed.
	PlanWriter interface {
		AppendPlan(ctx context.Context, rec PlanRecord) (rowRef string, err error)
	}
)
