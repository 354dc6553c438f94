package menu

import (
	"testing"

	"ai-voicebot-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainKeyboard(t *testing.T) {
	kb := NewBuilder("@vakil_bot").Main()

	require.Len(t, kb, 4)
	assert.Equal(t, Callback{Data: CallbackNewChat}, kb[0][0].Action)
	assert.Equal(t, Callback{Data: CallbackSummaryAll}, kb[2][1].Action)
	require.Len(t, kb[3], 2)
	assert.Equal(t, Link{URL: "https://t.me/vakil_bot"}, kb[3][1].Action)
}

func TestMainKeyboardWithoutLegalBot(t *testing.T) {
	kb := NewBuilder("").Main()
	require.Len(t, kb[3], 1)
	assert.Equal(t, Callback{Data: CallbackHelp}, kb[3][0].Action)
}

func TestForState(t *testing.T) {
	b := NewBuilder("bot")
	assert.Equal(t, b.Main(), b.For(entity.MenuState{}))
	assert.Equal(t, b.Note(), b.For(entity.NoteMakingState{NoteId: uuid.New()}))
}

func TestMarkup(t *testing.T) {
	m := NewBuilder("bot").Main().Markup()
	require.NotNil(t, m)
	assert.Equal(t, "/newchat", m.InlineKeyboard[0][0].CallbackData)
	assert.Empty(t, m.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://t.me/bot", m.InlineKeyboard[3][1].URL)
	assert.Empty(t, m.InlineKeyboard[3][1].CallbackData)

	assert.Nil(t, Keyboard(nil).Markup())
}
