package sttstub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/domain"
	"voice-assistant/internal/infra/vosk"
	"voice-assistant/internal/infra/wav"
	"voice-assistant/internal/sttstub"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(text string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return sttstub.NewRouter(sttstub.Config{Text: text}, discard)
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "kayit.wav")
	require.NoError(t, err)
	part.Write(data)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter("x").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"Test STT Server","model_loaded":true}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTranscribe(t *testing.T) {
	silence := wav.Encode(domain.NewSampleBuffer(make([]float32, 1600), 1, 16000))

	w := httptest.NewRecorder()
	newRouter(sttstub.DefaultText).ServeHTTP(w, uploadRequest(t, "audio", silence))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, sttstub.DefaultText, body["text"])
	assert.Equal(t, "", body["partial"])
	assert.Equal(t, "test_mode", body["model_status"])
}

func TestTranscribe_NotAWav(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter("yine de").ServeHTTP(w, uploadRequest(t, "audio", []byte("not a wav")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "yine de")
}

func TestTranscribe_MissingAudio(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter("x").ServeHTTP(w, uploadRequest(t, "file", []byte("RIFF")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter("x").ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/transcribe", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestClientAgainstStub(t *testing.T) {
	server := httptest.NewServer(newRouter("Merhaba dünya"))
	defer server.Close()

	client := vosk.NewClient(domain.ServiceEndpoint{BaseURL: server.URL, TimeoutSeconds: 5}, time.Second, discard)

	require.NoError(t, client.Health(context.Background()))
	result, err := client.Transcribe(context.Background(), wav.Encode(domain.NewSampleBuffer(make([]float32, 160), 1, 16000)), "kayit.wav")
	require.NoError(t, err)
	assert.Equal(t, "Merhaba dünya", result.Text)
}

func TestClientAgainstStub_EmptyText(t *testing.T) {
	server := httptest.NewServer(newRouter(""))
	defer server.Close()

	client := vosk.NewClient(domain.ServiceEndpoint{BaseURL: server.URL, TimeoutSeconds: 5}, time.Second, discard)

	result, err := client.Transcribe(context.Background(), []byte("RIFF"), "kayit.wav")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}
