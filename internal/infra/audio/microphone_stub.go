//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

// Microphone stub when portaudio is not available
type Microphone struct {
	logger *slog.Logger
}

func NewMicrophone(_ string, logger *slog.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Open(_ context.Context, _ domain.AudioFormat, _ int) (application.CaptureSession, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags portaudio", domain.ErrCaptureUnavailable)
}

type Speaker struct {
	logger *slog.Logger
}

func NewSpeaker(logger *slog.Logger) *Speaker {
	return &Speaker{logger: logger}
}

func (p *Speaker) Play(_ context.Context, _ domain.SampleBuffer) error {
	return errors.New("playback not available: rebuild with -tags portaudio")
}
