// Package openrouter talks to an OpenAI-compatible chat completions API,
// OpenRouter by default.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	"voice-assistant/internal/domain"
)

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "anthropic/claude-3-haiku"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 45

	serviceName = "chatbot"
)

type Config struct {
	APIKey      string
	Model       string
	Endpoint    domain.ServiceEndpoint
	MaxTokens   int
	Temperature float32
	// Referer and Title are sent as HTTP-Referer and X-Title for attribution.
	Referer string
	Title   string
}

type Client struct {
	api    *openai.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint.BaseURL == "" {
		cfg.Endpoint.BaseURL = DefaultBaseURL
	}
	if cfg.Endpoint.TimeoutSeconds <= 0 {
		cfg.Endpoint.TimeoutSeconds = DefaultTimeout
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.Endpoint.BaseURL
	apiCfg.HTTPClient = &http.Client{
		Timeout: cfg.Endpoint.Timeout(),
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends turns as one request and returns the first assistant
// candidate.
func (c *Client) Complete(ctx context.Context, turns []domain.ConversationTurn) (domain.ConversationTurn, error) {
	if c.cfg.APIKey == "" {
		return domain.ConversationTurn{}, domain.ErrMissingCredential
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	c.logger.Debug("sending chat request", "model", c.cfg.Model, "turns", len(turns))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.ConversationTurn{}, classify(err)
	}

	for _, choice := range resp.Choices {
		role := choice.Message.Role
		if role == "" || role == openai.ChatMessageRoleAssistant {
			return domain.ConversationTurn{
				Role:    domain.RoleAssistant,
				Content: choice.Message.Content,
			}, nil
		}
	}
	return domain.ConversationTurn{}, domain.ErrNoReply
}

func classify(err error) error {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var urlErr *url.Error

	switch {
	case errors.As(err, &apiErr):
		return &domain.TransportError{
			Service:    serviceName,
			StatusCode: apiErr.HTTPStatusCode,
			Body:       apiErr.Message,
			Err:        err,
		}
	case errors.As(err, &reqErr):
		return &domain.TransportError{
			Service:    serviceName,
			StatusCode: reqErr.HTTPStatusCode,
			Err:        reqErr.Err,
		}
	case errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &domain.TransportError{Service: serviceName, Err: err}
	default:
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
}

type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer == "" && t.title == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}
