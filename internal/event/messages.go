package event

import (
	"encoding/json"
	"time"

	"finsight/internal/core"
)

// Kinds of records a change message can refer to.
const (
	KindTransaction = "transaction"
	KindGoal        = "goal"
)

// Actions a change message can carry.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeMessage tells the digest worker that a month's data changed.
// It is deliberately small: the worker reloads the month from storage
// rather than trusting a snapshot that may already be stale.
type ChangeMessage struct {
	Kind      string     `json:"kind"`
	Action    string     `json:"action"`
	ID        string     `json:"id"`
	Month     core.Month `json:"month"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time.
func NewChangeMessage(kind, action, id string, month core.Month) *ChangeMessage {
	return &ChangeMessage{
		Kind:      kind,
		Action:    action,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
