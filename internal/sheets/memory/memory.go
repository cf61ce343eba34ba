package memory

import (
	"context"
	"fmt"
	"sync"

	"ore/internal/sheets"
)

// Store is an in-memory PlanWriter used in tests and as a stand-in
// when no spreadsheet is configured.
type Store struct {
	mu      sync.Mutex
	records []sheets.PlanRecord
}

func New() *Store {
	return &Store{}
}

// AppendPlan stores the record and returns a synthetic row reference.
func (s *Store) AppendPlan(_ context.Context, rec sheets.PlanRecord) (string, error) {
	if rec.Plan == nil || len(rec.Plan.Rows) == 0 {
		return "", fmt.Errorf("empty plan")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return fmt.Sprintf("mem:%d", len(s.records)), nil
}

// Records returns a copy of everything appended so far.
func (s *Store) Records() []sheets.PlanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.PlanRecord(nil), s.records...)
}
