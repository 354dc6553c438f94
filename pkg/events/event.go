package events

import "time"

// Event defines the contract for all domain events.
type Event interface {
	// EventType is the subject suffix, e.g. "turn.completed".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

const (
	TypeTurnCompleted    = "turn.completed"
	TypeQuotaExceeded    = "usage.quota_exceeded"
	TypeRecipientBlocked = "recipient.blocked"
	TypeNoteExported     = "note.exported"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newEvent(eventType, chatId, updateId string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["chat_id"] = chatId
	data["update_id"] = updateId
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// TurnCompleted reports a free-form turn. Outcome is answer, fallback, image
// or image_failed.
func TurnCompleted(chatId, updateId, outcome string, voice bool) BaseEvent {
	return newEvent(TypeTurnCompleted, chatId, updateId, map[string]interface{}{
		"outcome": outcome,
		"voice":   voice,
	})
}

func QuotaExceeded(chatId, updateId string, used, limit int, period string) BaseEvent {
	return newEvent(TypeQuotaExceeded, chatId, updateId, map[string]interface{}{
		"used":   used,
		"limit":  limit,
		"period": period,
	})
}

func RecipientBlocked(chatId, updateId string) BaseEvent {
	return newEvent(TypeRecipientBlocked, chatId, updateId, nil)
}

func NoteExported(chatId, updateId, noteId string, size int) BaseEvent {
	return newEvent(TypeNoteExported, chatId, updateId, map[string]interface{}{
		"note_id": noteId,
		"chars":   size,
	})
}
