package application

import (
	"context"

	"voice-assistant/internal/domain"
)

// ChatBot sends one stateless request. It returns domain.ErrNoReply when the
// backend answered without an assistant candidate and
// domain.ErrMissingCredential without touching the network when no API key
// is configured.
type ChatBot interface {
	Complete(ctx context.Context, turns []domain.ConversationTurn) (domain.ConversationTurn, error)
}
