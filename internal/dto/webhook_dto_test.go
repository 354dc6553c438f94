package dto

import (
	"errors"
	"testing"

	"ai-voicebot-be/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUpdate(t *testing.T) {
	chat := telegram.Chat{ID: 99}
	tests := []struct {
		name      string
		update    *telegram.Update
		wantKind  EventKind
		wantText  string
		wantLabel string
	}{
		{
			name:     "text is trimmed",
			update:   &telegram.Update{UpdateID: 5, Message: &telegram.Message{Chat: chat, Text: "  /start  "}},
			wantKind: EventText,
			wantText: "/start",
		},
		{
			name:     "callback data becomes text",
			update:   &telegram.Update{UpdateID: 6, CallbackQuery: &telegram.CallbackQuery{Data: "copy_note", Message: &telegram.Message{Chat: chat}}},
			wantKind: EventCallback,
			wantText: "copy_note",
		},
		{
			name:     "voice",
			update:   &telegram.Update{UpdateID: 7, Message: &telegram.Message{Chat: chat, Voice: &telegram.Voice{FileID: "f1", MimeType: "audio/ogg"}}},
			wantKind: EventVoice,
		},
		{
			name:      "photo is unsupported",
			update:    &telegram.Update{UpdateID: 8, Message: &telegram.Message{Chat: chat, Photo: []any{map[string]any{"file_id": "p"}}}},
			wantKind:  EventUnsupported,
			wantText:  "عکس",
			wantLabel: "عکس",
		},
		{
			name:      "sticker is unsupported",
			update:    &telegram.Update{UpdateID: 9, Message: &telegram.Message{Chat: chat, Sticker: map[string]any{}}},
			wantKind:  EventUnsupported,
			wantText:  "استیکر",
			wantLabel: "استیکر",
		},
		{
			name:      "unknown kind",
			update:    &telegram.Update{UpdateID: 10, Message: &telegram.Message{Chat: chat}},
			wantKind:  EventUnsupported,
			wantText:  "پیام غیرمتنی",
			wantLabel: "پیام غیرمتنی",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NormalizeUpdate(tt.update)
			require.NoError(t, err)
			assert.Equal(t, int64(99), ev.ChatId)
			assert.Equal(t, "99", ev.ChatKey())
			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, tt.wantText, ev.Text)
			assert.Equal(t, tt.wantLabel, ev.ContentLabel)
			assert.NotEmpty(t, ev.UpdateId)
		})
	}
}

func TestNormalizeUpdateVoiceFields(t *testing.T) {
	ev, err := NormalizeUpdate(&telegram.Update{Message: &telegram.Message{
		Chat:  telegram.Chat{ID: 1},
		Voice: &telegram.Voice{FileID: "voice-1", MimeType: "audio/ogg"},
	}})
	require.NoError(t, err)
	assert.True(t, ev.IsVoice())
	assert.Equal(t, "voice-1", ev.VoiceFileId)
	assert.Equal(t, "audio/ogg", ev.VoiceMimeType)
	assert.Empty(t, ev.UpdateId)
}

func TestNormalizeUpdateMalformed(t *testing.T) {
	tests := []struct {
		name   string
		update *telegram.Update
	}{
		{name: "nil", update: nil},
		{name: "empty", update: &telegram.Update{UpdateID: 1}},
		{name: "callback without message", update: &telegram.Update{CallbackQuery: &telegram.CallbackQuery{Data: "x"}}},
		{name: "missing chat", update: &telegram.Update{Message: &telegram.Message{Text: "hi"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeUpdate(tt.update)
			assert.True(t, errors.Is(err, ErrMalformedEvent))
		})
	}
}
