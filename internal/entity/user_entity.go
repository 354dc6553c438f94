package entity

import (
	"time"

	"ai-voicebot-be/internal/constant"

	"github.com/google/uuid"
)

// User is one Telegram chat. TelegramId is the chat identity key.
type User struct {
	Id           uuid.UUID
	TelegramId   string
	UsagePeriod  string
	UsageCount   int
	Mode         string
	ActiveNoteId *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// DialogState is the tagged per-user dialogue state.
type DialogState interface {
	isDialogState()
}

type MenuState struct{}

type NoteMakingState struct {
	NoteId uuid.UUID
}

func (MenuState) isDialogState()       {}
func (NoteMakingState) isDialogState() {}

// State folds the stored mode and active note into a single state.
// A note_making mode without a note reference is treated as the menu.
func (u *User) State() DialogState {
	if u.Mode == constant.UserModeNoteMaking && u.ActiveNoteId != nil {
		return NoteMakingState{NoteId: *u.ActiveNoteId}
	}
	return MenuState{}
}

func (u *User) EnterNoteMaking(noteId uuid.UUID) {
	u.Mode = constant.UserModeNoteMaking
	u.ActiveNoteId = &noteId
}

func (u *User) ReturnToMenu() {
	u.Mode = constant.UserModeNone
	u.ActiveNoteId = nil
}

// RollOver resets usage and dialogue state when the period key changed.
// It reports whether a reset happened.
func (u *User) RollOver(period string) bool {
	if u.UsagePeriod == period {
		return false
	}
	u.UsagePeriod = period
	u.UsageCount = 0
	u.ReturnToMenu()
	return true
}
