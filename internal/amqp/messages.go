package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"gofinances/internal/core"
)

// Event names carried in TransactionEventMessage.Event.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// TransactionEventMessage is published after the API creates or deletes a
// transaction. Deleted events only carry the id.
type TransactionEventMessage struct {
	Event     string          `json:"event"`
	ID        string          `json:"id"`
	Title     string          `json:"title,omitempty"`
	Value     decimal.Decimal `json:"value"`
	Type      string          `json:"type,omitempty"`
	Category  string          `json:"category,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewCreatedMessage builds the event for a stored transaction.
func NewCreatedMessage(tx core.Transaction) *TransactionEventMessage {
	return &TransactionEventMessage{
		Event:     EventCreated,
		ID:        tx.ID,
		Title:     tx.Title,
		Value:     tx.Value,
		Type:      string(tx.Type),
		Category:  tx.Category.Title,
		Timestamp: time.Now().UTC(),
	}
}

func NewDeletedMessage(id string) *TransactionEventMessage {
	return &TransactionEventMessage{
		Event:     EventDeleted,
		ID:        id,
		Value:     decimal.Zero,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON decodes a message body.
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
