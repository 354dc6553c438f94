package response

import (
	"testing"

	"ai-voicebot-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestReplyVoiceFraming(t *testing.T) {
	assert.Equal(t, "پاسخ", Reply(false, "سلام", "پاسخ"))
	assert.Equal(t, "این متن صدای شماست: \"سلام\"\n\nو این پاسخ من است: \"پاسخ\"", Reply(true, "سلام", "پاسخ"))
}

func TestImageCaption(t *testing.T) {
	assert.Equal(t, "📷 تصویر تولید شده با پرامپت: \"a cat\"", ImageCaption(false, "", "a cat"))
	assert.Equal(t,
		"این متن صدای شماست: \"گربه\"\n📷 تصویر تولید شده با پرامپت: \"a cat\"",
		ImageCaption(true, "گربه", "a cat"))
	assert.Equal(t, "تصویر تولید شده با پرامپت: a cat", ImageRecord("a cat"))
}

func TestSummaryHeader(t *testing.T) {
	assert.Contains(t, Summary(constant.SummaryRecentLimit, "x"), "۱۰۰ پیام اخیر")
	assert.Contains(t, Summary(constant.SummaryAllLimit, "x"), "کل تاریخچه")
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, UserLabel, RoleLabel(constant.ChatMessageRoleUser))
	assert.Equal(t, AssistantLabel, RoleLabel(constant.ChatMessageRoleAssistant))
	assert.Equal(t, AssistantLabel, RoleLabel(constant.ChatMessageRoleSystem))
}
