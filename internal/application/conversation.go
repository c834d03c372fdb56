package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

const DefaultSystemPrompt = "Sen Türkçe konuşan yardımcı bir AI asistanısın. Kısa ve net yanıtlar ver. Türkçe konuş."

// Conversation sends one user message, prefixed by the system prompt, and
// classifies the outcome. There is no memory between calls and no retry.
type Conversation struct {
	bot          ChatBot
	systemPrompt string
	metrics      Metrics
	logger       *slog.Logger
}

func NewConversation(bot ChatBot, systemPrompt string, metrics Metrics, logger *slog.Logger) *Conversation {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Conversation{
		bot:          bot,
		systemPrompt: systemPrompt,
		metrics:      metrics,
		logger:       logger,
	}
}

func (c *Conversation) Converse(ctx context.Context, message string) domain.Reply {
	if strings.TrimSpace(message) == "" {
		return domain.Reply{Status: domain.ReplyFailed, Err: domain.ErrEmptyMessage}
	}

	turns := []domain.ConversationTurn{
		{Role: domain.RoleSystem, Content: c.systemPrompt},
		{Role: domain.RoleUser, Content: message},
	}

	began := time.Now()
	turn, err := c.bot.Complete(ctx, turns)
	elapsed := time.Since(began)

	switch {
	case errors.Is(err, domain.ErrNoReply):
		c.logger.Warn("chat backend returned no candidates")
		c.metrics.ChatRequest("none", elapsed)
		return domain.Reply{Status: domain.ReplyNone}
	case err != nil:
		c.logger.Error("chat request failed", "error", err)
		c.metrics.ChatRequest("error", elapsed)
		return domain.Reply{Status: domain.ReplyFailed, Err: err}
	}

	c.metrics.ChatRequest("ok", elapsed)
	c.logger.Info("chat reply received", "chars", len(turn.Content), "elapsed", elapsed)
	return domain.Reply{Status: domain.ReplyOK, Text: turn.Content}
}
