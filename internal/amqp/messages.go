package amqp

import (
	"encoding/json"
	"time"
)

// PlanSyncMessage asks the worker to push one saved plan to the sheet.
// It carries only the plan id; the worker loads the rest from the
// database.
type PlanSyncMessage struct {
	PlanID    int64     `json:"plan_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPlanSyncMessage creates a sync message for a saved plan.
func NewPlanSyncMessage(planID int64) *PlanSyncMessage {
	return &PlanSyncMessage{
		PlanID:    planID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PlanSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanSyncMessageFromJSON creates a message from JSON bytes
func PlanSyncMessageFromJSON(data []byte) (*PlanSyncMessage, error) {
	var msg PlanSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
