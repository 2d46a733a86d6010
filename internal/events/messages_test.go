package events

import "testing"

func TestExpenseRecordedMessageRoundTrip(t *testing.T) {
	msg := NewExpenseRecordedMessage(42, "2025-10-20", 12.5, "Food", "Alice")
	if msg.RecordedAt.IsZero() {
		t.Fatal("RecordedAt should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := ExpenseRecordedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ID != 42 || got.Date != "2025-10-20" || got.Amount != 12.5 || got.Category != "Food" || got.User != "Alice" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestExpenseRecordedMessageFromJSONInvalid(t *testing.T) {
	if _, err := ExpenseRecordedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
