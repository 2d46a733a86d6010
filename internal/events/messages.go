package events

import (
	"encoding/json"
	"time"
)

// ExpenseRecordedMessage announces a newly written expense. Consumers
// fetch the full record from storage by ID if they need more.
type ExpenseRecordedMessage struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	User       string    `json:"user"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewExpenseRecordedMessage(id int64, date string, amount float64, category, user string) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		ID:         id,
		Date:       date,
		Amount:     amount,
		Category:   category,
		User:       user,
		RecordedAt: time.Now(),
	}
}

func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
