package control_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
	"voice-assistant/internal/infra/control"
)

type fakePipeline struct {
	mu       sync.Mutex
	triggers []application.Trigger
	texts    []string
	startErr error
	textErr  error
	state    string
}

func (p *fakePipeline) HandleTrigger(_ context.Context, t application.Trigger) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers = append(p.triggers, t)
	if t == application.TriggerStart {
		if p.startErr != nil {
			return p.startErr
		}
		p.state = "recording"
	} else {
		p.state = "uploading"
	}
	return nil
}

func (p *fakePipeline) SendText(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyMessage
	}
	if p.textErr != nil {
		return p.textErr
	}
	p.texts = append(p.texts, text)
	return nil
}

func (p *fakePipeline) Status() application.StatusSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.state
	if state == "" {
		state = "idle"
	}
	return application.StatusSnapshot{State: state}
}

func newServer(token string, pipeline *fakePipeline) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "voice_assistant_takes_total 1\n")
	})
	return control.NewServer(":0", token, pipeline, metrics, logger).Handler()
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) application.StatusSnapshot {
	t.Helper()
	var status application.StatusSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	return status
}

func TestServer_RecordStartStop(t *testing.T) {
	pipeline := &fakePipeline{}
	handler := newServer("", pipeline)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/record/start", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start: got %d, want %d", rec.Code, http.StatusAccepted)
	}
	if got := decodeStatus(t, rec).State; got != "recording" {
		t.Errorf("start: state %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/record/stop", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("stop: got %d, want %d", rec.Code, http.StatusAccepted)
	}

	want := []application.Trigger{application.TriggerStart, application.TriggerStop}
	if len(pipeline.triggers) != 2 || pipeline.triggers[0] != want[0] || pipeline.triggers[1] != want[1] {
		t.Errorf("triggers: got %v, want %v", pipeline.triggers, want)
	}
}

func TestServer_RecordStartWithoutMicrophone(t *testing.T) {
	pipeline := &fakePipeline{startErr: fmt.Errorf("opening capture device: %w", domain.ErrCaptureUnavailable)}
	handler := newServer("", pipeline)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/record/start", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestServer_Text(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		textErr    error
		wantStatus int
	}{
		{name: "queued", body: "merhaba", wantStatus: http.StatusAccepted},
		{name: "empty", body: "  ", wantStatus: http.StatusBadRequest},
		{name: "queue full", body: "merhaba", textErr: fmt.Errorf("queue full: 4 pending"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &fakePipeline{textErr: tt.textErr}
			handler := newServer("", pipeline)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/text", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status code: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestServer_AuthToken(t *testing.T) {
	authToken := "test-secret-token-123"

	tests := []struct {
		name       string
		token      string
		method     string
		wantStatus int
	}{
		{
			name:       "valid token in header",
			token:      authToken,
			method:     "header",
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "valid token in query",
			token:      authToken,
			method:     "query",
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "invalid token",
			token:      "wrong-token",
			method:     "header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			token:      "",
			method:     "header",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &fakePipeline{}
			handler := newServer(authToken, pipeline)

			var req *http.Request
			if tt.method == "query" {
				req = httptest.NewRequest(http.MethodPost, "/text?token="+tt.token, strings.NewReader("selam"))
			} else {
				req = httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("selam"))
				if tt.token != "" {
					req.Header.Set("X-Auth-Token", tt.token)
				}
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status code: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && len(pipeline.texts) != 0 {
				t.Error("unauthorized request reached the pipeline")
			}
		})
	}
}

func TestServer_ReadOnlyRoutesSkipAuth(t *testing.T) {
	handler := newServer("secret", &fakePipeline{})

	for _, path := range []string{"/status", "/health", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	handler := newServer("", &fakePipeline{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "voice_assistant_takes_total") {
		t.Errorf("unexpected metrics body %q", rec.Body.String())
	}
}

func TestServer_RateLimit(t *testing.T) {
	handler := newServer("", &fakePipeline{})

	var last int
	for i := 0; i < 31; i++ {
		req := httptest.NewRequest(http.MethodPost, "/record/stop", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.7, 192.168.1.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
		if i < 30 && rec.Code != http.StatusAccepted {
			t.Fatalf("request %d: got %d", i, rec.Code)
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("31st request: got %d, want %d", last, http.StatusTooManyRequests)
	}

	req := httptest.NewRequest(http.MethodPost, "/record/stop", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Errorf("other client: got %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := control.NewRateLimiter(2, 50*time.Millisecond)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("expected first two requests allowed")
	}
	if rl.Allow("a") {
		t.Error("expected third request rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("a") {
		t.Error("expected request allowed after window reset")
	}
}
