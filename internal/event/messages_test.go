package event

import (
	"testing"
	"time"
)

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage(KindTransaction, ActionCreated, "tx-123", "2024-03")
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindTransaction || got.Action != ActionCreated || got.ID != "tx-123" || got.Month != "2024-03" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp changed in round trip: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
