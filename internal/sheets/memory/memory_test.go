package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ore/internal/core"
	"ore/internal/sheets"
)

func TestAppendPlan(t *testing.T) {
	s, err := core.NewSchedule(nil, []float64{8})
	require.NoError(t, err)
	p, err := core.Allocate(s, core.Weights{0.5, 0.5}, 0.5, core.StrategyOptimal)
	require.NoError(t, err)

	store := New()
	ref, err := store.AppendPlan(context.Background(), sheets.PlanRecord{
		ID:        7,
		CreatedAt: time.Now(),
		Plan:      p,
	})
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	recs := store.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, int64(7), recs[0].ID)
}

func TestAppendPlanRejectsEmpty(t *testing.T) {
	store := New()
	_, err := store.AppendPlan(context.Background(), sheets.PlanRecord{})
	assert.Error(t, err)
}
