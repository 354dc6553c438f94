package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryCorrelation(t *testing.T) {
	tests := []struct {
		name     string
		event    BaseEvent
		wantType string
		wantKey  string
	}{
		{name: "turn", event: TurnCompleted("42", "7", "image", true), wantType: TypeTurnCompleted, wantKey: "outcome"},
		{name: "quota", event: QuotaExceeded("42", "7", 400, 400, "2026-10"), wantType: TypeQuotaExceeded, wantKey: "period"},
		{name: "blocked", event: RecipientBlocked("42", "7"), wantType: TypeRecipientBlocked, wantKey: "chat_id"},
		{name: "export", event: NoteExported("42", "7", "n1", 12), wantType: TypeNoteExported, wantKey: "note_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.EventType())
			assert.Equal(t, "42", tt.event.Payload()["chat_id"])
			assert.Equal(t, "7", tt.event.Payload()["update_id"])
			assert.Contains(t, tt.event.Payload(), tt.wantKey)
			assert.False(t, tt.event.Timestamp().IsZero())
		})
	}
}
