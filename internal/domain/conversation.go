package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ConversationTurn struct {
	Role    Role
	Content string
}

type ReplyStatus int

const (
	ReplyOK ReplyStatus = iota
	// ReplyNone means the backend answered without any assistant candidate.
	ReplyNone
	ReplyFailed
)

func (s ReplyStatus) String() string {
	switch s {
	case ReplyOK:
		return "ok"
	case ReplyNone:
		return "none"
	case ReplyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reply is the outcome of one conversation call.
type Reply struct {
	Status ReplyStatus
	Text   string
	Err    error
}

const (
	ReplyPrefix    = "AI: "
	noReplyMessage = "AI: Yanıt alınamadı"
	errorPrefix    = "AI hatası: "
)

// Display renders the reply for the subtitle line.
func (r Reply) Display() string {
	switch r.Status {
	case ReplyOK:
		return ReplyPrefix + r.Text
	case ReplyNone:
		return noReplyMessage
	default:
		if r.Err == nil {
			return errorPrefix + "bilinmeyen hata"
		}
		return errorPrefix + r.Err.Error()
	}
}
