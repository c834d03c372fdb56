package application

import (
	"context"

	"voice-assistant/internal/domain"
)

// CaptureDevice opens one capture session per take.
type CaptureDevice interface {
	Open(ctx context.Context, format domain.AudioFormat, maxFrames int) (CaptureSession, error)
}

// CaptureSession buffers samples until closed.
type CaptureSession interface {
	// Ready is closed once the device has delivered its first frames.
	Ready() <-chan struct{}
	// Close stops capture, releases the device and returns what was buffered.
	Close() (domain.SampleBuffer, error)
}

type Speaker interface {
	Play(ctx context.Context, buf domain.SampleBuffer) error
}

type AudioCodec interface {
	Encode(buf domain.SampleBuffer) []byte
	Decode(data []byte) (domain.SampleBuffer, error)
}
