package amqp

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage notifies the worker that a transaction landed.
// It carries only the ID and month; the worker fetches the full row and
// recomputes derived state for that month.
type TransactionCreatedMessage struct {
	ID        string    `json:"id"`
	MonthYear string    `json:"month_year"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionCreatedMessage creates a message for a freshly stored transaction
func NewTransactionCreatedMessage(id, monthYear string) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		ID:        id,
		MonthYear: monthYear,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
