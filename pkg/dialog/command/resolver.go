package command

import (
	"strings"

	"ai-voicebot-be/internal/constant"
	"ai-voicebot-be/pkg/dialog/menu"
)

type Kind int

const (
	None Kind = iota
	Start
	Help
	Youtube
	NewChat
	Summary
	MakeNote
	ResumeNote
	CopyNote
	ExportNote
)

var kindNames = map[Kind]string{
	None:       "none",
	Start:      "start",
	Help:       "help",
	Youtube:    "youtube",
	NewChat:    "newchat",
	Summary:    "summary",
	MakeNote:   "makenote",
	ResumeNote: "resume_note",
	CopyNote:   "copy_note",
	ExportNote: "export_to_word",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is a resolved navigation or note action.
type Command struct {
	Kind         Kind
	SummaryLimit int
}

// RequiresNoteMode reports whether the command only makes sense while dictating.
func (c Command) RequiresNoteMode() bool {
	switch c.Kind {
	case ResumeNote, CopyNote, ExportNote:
		return true
	}
	return false
}

// rule matches either a case-insensitive slash prefix or an exact callback id.
type rule struct {
	slash    string
	callback string
	kind     Kind
}

// Order matters: the first matching rule wins.
var rules = []rule{
	{slash: "/start", callback: menu.CallbackBackToMenu, kind: Start},
	{slash: "/help", kind: Help},
	{slash: "/youtube", kind: Youtube},
	{slash: "/newchat", kind: NewChat},
	{slash: "/summary100", kind: Summary},
	{slash: "/summaryall", kind: Summary},
	{slash: "/makenote", callback: menu.CallbackMakeNewNote, kind: MakeNote},
	{callback: menu.CallbackResumeNote, kind: ResumeNote},
	{callback: menu.CallbackCopyNote, kind: CopyNote},
	{callback: menu.CallbackExportToWord, kind: ExportNote},
}

// Resolve maps event text to a command. Text that matches nothing resolves to
// None and is handled as a free-form turn.
func Resolve(text string) Command {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if (r.slash != "" && strings.HasPrefix(lower, r.slash)) || (r.callback != "" && text == r.callback) {
			cmd := Command{Kind: r.kind}
			if r.kind == Summary {
				cmd.SummaryLimit = constant.SummaryAllLimit
				if strings.Contains(text, "100") {
					cmd.SummaryLimit = constant.SummaryRecentLimit
				}
			}
			return cmd
		}
	}
	return Command{Kind: None}
}
