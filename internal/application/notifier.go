package application

import "context"

type MessageKind int

const (
	MessageStatus MessageKind = iota
	MessageTranscript
	MessageReply
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageStatus:
		return "status"
	case MessageTranscript:
		return "transcript"
	case MessageReply:
		return "reply"
	case MessageError:
		return "error"
	default:
		return "unknown"
	}
}

type Message struct {
	Kind   MessageKind
	Text   string
	TakeID string
}

// Presenter shows pipeline progress to the user.
type Presenter interface {
	Present(ctx context.Context, msg Message) error
}

type NoopPresenter struct{}

func (n *NoopPresenter) Present(_ context.Context, _ Message) error {
	return nil
}
