package domain

import "time"

// SampleBuffer holds interleaved float samples in [-1.0, 1.0].
type SampleBuffer struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// NewSampleBuffer drops a trailing partial frame so that Frames()*Channels
// always equals len(Samples).
func NewSampleBuffer(samples []float32, channels, sampleRate int) SampleBuffer {
	if channels < 1 {
		channels = 1
	}
	whole := len(samples) - len(samples)%channels
	return SampleBuffer{
		Samples:    samples[:whole],
		Channels:   channels,
		SampleRate: sampleRate,
	}
}

func (b SampleBuffer) Frames() int {
	if b.Channels < 1 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

func (b SampleBuffer) HasFrames() bool {
	return b.Frames() > 0
}

func (b SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}

// Take is one finished recording session.
type Take struct {
	ID         string
	Generation uint64
	Buffer     SampleBuffer
	StartedAt  time.Time
	StoppedAt  time.Time
	Capped     bool
}
