package application_test

import (
	"context"
	"io"
	"log/slog"
	"path"
	"sync"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSession struct {
	ready  chan struct{}
	buffer domain.SampleBuffer
}

func (s *fakeSession) Ready() <-chan struct{} { return s.ready }

func (s *fakeSession) Close() (domain.SampleBuffer, error) {
	return s.buffer, nil
}

type fakeDevice struct {
	mu         sync.Mutex
	buffer     domain.SampleBuffer
	err        error
	neverReady bool
	opens      int
	maxFrames  int
}

func (d *fakeDevice) Open(_ context.Context, _ domain.AudioFormat, maxFrames int) (application.CaptureSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	s := &fakeSession{ready: make(chan struct{}), buffer: d.buffer}
	if !d.neverReady {
		close(s.ready)
	}
	d.opens++
	d.maxFrames = maxFrames
	return s, nil
}

func (d *fakeDevice) opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

type fakeSTT struct {
	mu     sync.Mutex
	result domain.TranscriptResult
	err    error
	names  []string
	onCall func()
}

func (s *fakeSTT) Transcribe(_ context.Context, _ []byte, fileName string) (domain.TranscriptResult, error) {
	s.mu.Lock()
	s.names = append(s.names, fileName)
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return s.result, s.err
}

func (s *fakeSTT) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

type fakeBot struct {
	mu    sync.Mutex
	reply string
	err   error
	seen  [][]domain.ConversationTurn
}

func (b *fakeBot) Complete(_ context.Context, turns []domain.ConversationTurn) (domain.ConversationTurn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = append(b.seen, turns)
	if b.err != nil {
		return domain.ConversationTurn{}, b.err
	}
	return domain.ConversationTurn{Role: domain.RoleAssistant, Content: b.reply}, nil
}

func (b *fakeBot) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seen)
}

type memStore struct {
	mu          sync.Mutex
	recordings  map[string][]byte
	transcripts map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		recordings:  make(map[string][]byte),
		transcripts: make(map[string]string),
	}
}

func (m *memStore) SaveRecording(name string, wav []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordings[name] = wav
	return path.Join("/recordings", name), nil
}

func (m *memStore) SaveTranscript(name string, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts[name] = text
	return path.Join("/recordings", name+".txt"), nil
}

type capturePresenter struct {
	mu       sync.Mutex
	messages []application.Message
}

func (p *capturePresenter) Present(_ context.Context, msg application.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturePresenter) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.Text)
	}
	return out
}

func (p *capturePresenter) has(text string) bool {
	for _, t := range p.texts() {
		if t == text {
			return true
		}
	}
	return false
}
