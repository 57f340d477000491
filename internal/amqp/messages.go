package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Message types published on the notifications queue.
const (
	TypeBillDue = "bill.due"
)

// ErrMalformed marks a payload that can never be processed. Consumers drop
// such messages instead of requeueing them.
var ErrMalformed = errors.New("malformed message")

// Message is the envelope every published body uses. Type is either a store
// change event name (expense.created, budget.adjusted, ...) or TypeBillDue.
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ChangeEvent is the payload of a store change message.
type ChangeEvent struct {
	EntityID string           `json:"entityId,omitempty"`
	Name     string           `json:"name,omitempty"`
	Category string           `json:"category,omitempty"`
	Amount   decimal.Decimal  `json:"amount"`
	Previous *decimal.Decimal `json:"previous,omitempty"`
	At       time.Time        `json:"at"`
}

// BillDue is the payload of a reminder for an unpaid bill.
type BillDue struct {
	BillID       string          `json:"billId"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Display      string          `json:"display"`
	DueDate      string          `json:"dueDate"`
	DaysUntilDue int             `json:"daysUntilDue"`
}

// NewMessage wraps data in an envelope of the given type.
func NewMessage(msgType string, data any) (*Message, error) {
	if msgType == "" {
		return nil, fmt.Errorf("message type is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return &Message{Type: msgType, Timestamp: time.Now(), Data: raw}, nil
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Decode unmarshals the payload into v.
func (m *Message) Decode(v any) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w: %v", m.Type, ErrMalformed, err)
	}
	return nil
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message without type")
	}
	return &msg, nil
}
