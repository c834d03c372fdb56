package vosk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

const (
	transcribeRoute = "/transcribe"
	healthRoute     = "/health"
	formField       = "audio"
	audioMIME       = "audio/wav"

	maxResponseBytes = 1 << 20
)

type Client struct {
	endpoint      domain.ServiceEndpoint
	httpClient    *http.Client
	healthTimeout time.Duration
	logger        *slog.Logger
}

func NewClient(endpoint domain.ServiceEndpoint, healthTimeout time.Duration, logger *slog.Logger) *Client {
	if healthTimeout <= 0 {
		healthTimeout = 10 * time.Second
	}
	return &Client{
		endpoint:      endpoint,
		httpClient:    &http.Client{Timeout: endpoint.Timeout()},
		healthTimeout: healthTimeout,
		logger:        logger,
	}
}

// Transcribe uploads one WAV file and extracts the transcript. Transport
// problems are returned as *domain.TransportError; an unusable body is not an
// error and yields an Empty result.
func (c *Client) Transcribe(ctx context.Context, wav []byte, fileName string) (domain.TranscriptResult, error) {
	body, contentType, err := buildForm(wav, fileName)
	if err != nil {
		return domain.Empty(), err
	}

	url := c.endpoint.URL(transcribeRoute)
	c.logger.Debug("uploading audio to STT", "url", url, "bytes", len(wav), "file", fileName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return domain.Empty(), fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Empty(), &domain.TransportError{Service: "stt", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.Empty(), &domain.TransportError{Service: "stt", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Empty(), &domain.TransportError{
			Service:    "stt",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.Debug("STT response received", "body", string(respBody))
	return Extract(c.logger, string(respBody)), nil
}

// Health reports whether the STT service answers GET /health with a success status.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.URL(healthRoute), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Service: "stt", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.TransportError{Service: "stt", StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildForm(wav []byte, fileName string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, formField, quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", audioMIME)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, "", fmt.Errorf("writing audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
