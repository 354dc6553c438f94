package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	UserModeNone       = ""
	UserModeNoteMaking = "note_making"

	// Monthly quota defaults
	DefaultMonthlyUsageLimit = 400
	UsagePeriodLayout        = "2006-01"

	// Windows and limits
	ConversationWindowSize = 10
	SummaryRecentLimit     = 100
	SummaryAllLimit        = 1000
	MaxAnswerLength        = 1500
	MaxTranscriptionBytes  = 4 * 1024 * 1024
	MaxVoiceDownloadBytes  = 20 * 1024 * 1024
	MinImageBytes          = 1000
	SecondaryMaxTokens     = 600

	BlockedRecipientAuditText = "User blocked the bot"

	// Metadata keys stored on chat messages
	MessageMetaKind         = "kind"
	MessageMetaFileId       = "file_id"
	MessageMetaContentLabel = "content_label"
)
