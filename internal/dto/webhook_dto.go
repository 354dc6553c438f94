package dto

import (
	"fmt"
	"strconv"
	"strings"

	"ai-voicebot-be/pkg/telegram"
)

type EventKind string

const (
	EventText        EventKind = "text"
	EventVoice       EventKind = "voice"
	EventCallback    EventKind = "callback"
	EventUnsupported EventKind = "unsupported"
)

// InboundEvent is one webhook update reduced to what the dialogue needs.
type InboundEvent struct {
	UpdateId      string    `json:"update_id"`
	ChatId        int64     `json:"chat_id" validate:"required"`
	Kind          EventKind `json:"kind" validate:"required,oneof=text voice callback unsupported"`
	Text          string    `json:"text"`
	VoiceFileId   string    `json:"voice_file_id,omitempty" validate:"required_if=Kind voice"`
	VoiceMimeType string    `json:"voice_mime_type,omitempty"`
	ContentLabel  string    `json:"content_label,omitempty" validate:"required_if=Kind unsupported"`
}

func (e *InboundEvent) IsVoice() bool {
	return e.Kind == EventVoice
}

func (e *InboundEvent) IsCallback() bool {
	return e.Kind == EventCallback
}

// ChatKey is the user identity key in the store.
func (e *InboundEvent) ChatKey() string {
	return strconv.FormatInt(e.ChatId, 10)
}

type WebhookResponse struct {
	Status string `json:"status"`
}

// NormalizeUpdate maps a Bot API update onto an InboundEvent. Updates that
// carry neither a message nor a callback are malformed.
func NormalizeUpdate(u *telegram.Update) (*InboundEvent, error) {
	if u == nil {
		return nil, ErrMalformedEvent
	}
	ev := &InboundEvent{}
	if u.UpdateID != 0 {
		ev.UpdateId = strconv.FormatInt(u.UpdateID, 10)
	}

	switch {
	case u.CallbackQuery != nil:
		if u.CallbackQuery.Message == nil {
			return nil, fmt.Errorf("%w: callback without message", ErrMalformedEvent)
		}
		ev.ChatId = u.CallbackQuery.Message.Chat.ID
		ev.Kind = EventCallback
		ev.Text = u.CallbackQuery.Data
	case u.Message != nil:
		m := u.Message
		ev.ChatId = m.Chat.ID
		switch {
		case m.Text != "":
			ev.Kind = EventText
			ev.Text = strings.TrimSpace(m.Text)
		case m.Voice != nil:
			ev.Kind = EventVoice
			ev.VoiceFileId = m.Voice.FileID
			ev.VoiceMimeType = m.Voice.MimeType
		default:
			ev.Kind = EventUnsupported
			ev.ContentLabel = ContentLabel(m)
			ev.Text = ev.ContentLabel
		}
	default:
		return nil, fmt.Errorf("%w: no message or callback", ErrMalformedEvent)
	}

	if ev.ChatId == 0 {
		return nil, fmt.Errorf("%w: missing chat id", ErrMalformedEvent)
	}
	return ev, nil
}

// ContentLabel names a non-text, non-voice message for the audit trail.
func ContentLabel(m *telegram.Message) string {
	switch {
	case len(m.Photo) > 0:
		return "عکس"
	case m.Video != nil:
		return "ویدیو"
	case m.Document != nil:
		return "فایل"
	case m.Sticker != nil:
		return "استیکر"
	case m.Audio != nil:
		return "صدا"
	case m.Animation != nil:
		return "انیمیشن"
	default:
		return "پیام غیرمتنی"
	}
}
