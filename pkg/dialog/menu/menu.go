package menu

import (
	"strings"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/pkg/telegram"
)

// Callback identifiers shared with the command resolver.
const (
	CallbackNewChat    = "/newchat"
	CallbackMakeNote   = "/makenote"
	CallbackYoutube    = "/youtube"
	CallbackSummary100 = "/summary100"
	CallbackSummaryAll = "/summaryall"
	CallbackHelp       = "/help"

	CallbackResumeNote   = "resume_note"
	CallbackCopyNote     = "copy_note"
	CallbackExportToWord = "export_to_word"
	CallbackBackToMenu   = "back_to_menu"
	CallbackMakeNewNote  = "make_new_note"
)

// Action is what pressing a button does.
type Action interface {
	isAction()
}

type Callback struct {
	Data string
}

type Link struct {
	URL string
}

func (Callback) isAction() {}
func (Link) isAction()     {}

type Button struct {
	Label  string
	Action Action
}

type Keyboard [][]Button

// Builder renders keyboards for a fixed bot configuration.
type Builder struct {
	legalURL string
}

// NewBuilder takes the legal-consultation bot username, with or without the
// leading @. An empty username drops the link button.
func NewBuilder(legalBotUsername string) *Builder {
	b := &Builder{}
	if name := strings.TrimPrefix(strings.TrimSpace(legalBotUsername), "@"); name != "" {
		b.legalURL = "https://t.me/" + name
	}
	return b
}

func cb(label, data string) Button {
	return Button{Label: label, Action: Callback{Data: data}}
}

func (b *Builder) Main() Keyboard {
	last := []Button{cb("ℹ️ راهنما", CallbackHelp)}
	if b.legalURL != "" {
		last = append(last, Button{Label: "📝 دریافت مشاوره حقوقی رایگان", Action: Link{URL: b.legalURL}})
	}
	return Keyboard{
		{cb("✨ چت جدید", CallbackNewChat), cb("📝 ساخت یادداشت جدید", CallbackMakeNote)},
		{cb("🔴 لطفاً کانال یوتیوب را دنبال کنید", CallbackYoutube)},
		{cb("📜 خلاصه ۱۰۰ پیام", CallbackSummary100), cb("📚 خلاصه همه پیام‌ها", CallbackSummaryAll)},
		last,
	}
}

func (b *Builder) Note() Keyboard {
	return Keyboard{
		{cb("📝 ادامه یادداشت", CallbackResumeNote), cb("📋 کپی متن", CallbackCopyNote)},
		{cb("📄 وارد کردن به ورد 📝", CallbackExportToWord), cb("🔙 بازگشت به منوی اصلی", CallbackBackToMenu)},
		{cb("📝 ساخت یادداشت جدید دیگر", CallbackMakeNewNote)},
	}
}

// For picks the keyboard that matches the dialogue state.
func (b *Builder) For(state entity.DialogState) Keyboard {
	if _, ok := state.(entity.NoteMakingState); ok {
		return b.Note()
	}
	return b.Main()
}

// Markup converts the keyboard into the Bot API shape.
func (k Keyboard) Markup() *telegram.InlineKeyboardMarkup {
	if len(k) == 0 {
		return nil
	}
	rows := make([][]telegram.InlineKeyboardButton, 0, len(k))
	for _, row := range k {
		out := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			tb := telegram.InlineKeyboardButton{Text: btn.Label}
			switch a := btn.Action.(type) {
			case Callback:
				tb.CallbackData = a.Data
			case Link:
				tb.URL = a.URL
			}
			out = append(out, tb)
		}
		rows = append(rows, out)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
