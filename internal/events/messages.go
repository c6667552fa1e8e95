package events

import (
	"encoding/json"
	"time"

	"tally/internal/core"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is the message published for every ledger mutation. It
// carries the full record so consumers never need to call back into the
// tracker.
type TransactionEvent struct {
	Action      string           `json:"action"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewCreated(tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{Action: ActionCreated, Transaction: tx, Timestamp: time.Now()}
}

func NewDeleted(id int64) *TransactionEvent {
	return &TransactionEvent{
		Action:      ActionDeleted,
		Transaction: core.Transaction{ID: id},
		Timestamp:   time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
