package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-voicebot-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilPublisherDropsEvents(t *testing.T) {
	p, err := NewPublisher("")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Publish(context.Background(), events.RecipientBlocked("1", "2")))
	p.Close()
}

func TestDecodeRoundTripsEnvelope(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(map[string]interface{}{
		"type":        events.TypeNoteExported,
		"occurred_at": at.Format(time.RFC3339Nano),
		"data":        map[string]interface{}{"chat_id": "9"},
	})
	require.NoError(t, err)

	ev, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, events.TypeNoteExported, ev.EventType())
	assert.Equal(t, "9", ev.Payload()["chat_id"])
	assert.True(t, at.Equal(ev.Timestamp()))
	assert.Equal(t, "voicebot.note.exported", Subject(events.TypeNoteExported))
}
