package audio

import (
	"sync"

	"voice-assistant/internal/domain"
)

// sampleSink accumulates interleaved samples from a device callback or read
// loop up to a fixed limit. It is shared by the portaudio session and tests.
type sampleSink struct {
	mu        sync.Mutex
	samples   []float32
	limit     int
	ready     chan struct{}
	readyOnce sync.Once
}

func newSampleSink(limit int) *sampleSink {
	return &sampleSink{
		samples: make([]float32, 0, min(limit, 16000*5)),
		limit:   limit,
		ready:   make(chan struct{}),
	}
}

// write appends a copy of chunk and reports whether the limit was reached.
func (s *sampleSink) write(chunk []float32) bool {
	if len(chunk) > 0 {
		s.readyOnce.Do(func() { close(s.ready) })
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.limit - len(s.samples)
	if room <= 0 {
		return true
	}
	if len(chunk) > room {
		chunk = chunk[:room]
	}
	s.samples = append(s.samples, chunk...)
	return len(s.samples) >= s.limit
}

func (s *sampleSink) Ready() <-chan struct{} {
	return s.ready
}

func (s *sampleSink) buffer(channels, sampleRate int) domain.SampleBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float32, len(s.samples))
	copy(out, s.samples)
	return domain.NewSampleBuffer(out, channels, sampleRate)
}
