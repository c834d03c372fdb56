package application

import (
	"context"
	"fmt"

	"voice-assistant/internal/domain"
)

type SpeechToText interface {
	Transcribe(ctx context.Context, wav []byte, fileName string) (domain.TranscriptResult, error)
}

// NoopSTT stands in when no STT endpoint is configured; every call fails and
// the transcription stage falls back to a placeholder sentence.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte, _ string) (domain.TranscriptResult, error) {
	return domain.Empty(), fmt.Errorf("speech-to-text not configured: set stt.base_url to enable transcription")
}
