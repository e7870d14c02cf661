package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionEventMessage announces a ledger write. It carries only the
// transaction id and the action; consumers fetch the full row from the
// database, so a stale message never overwrites fresher data.
type TransactionEventMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"` // "created" or "deleted"
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(id int64, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == 0 || msg.Action == "" {
		return nil, fmt.Errorf("incomplete transaction event: %s", data)
	}
	return &msg, nil
}
