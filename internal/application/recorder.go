package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-assistant/internal/domain"
)

type RecorderState int

const (
	StateIdle RecorderState = iota
	StateRecording
)

func (s RecorderState) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

const (
	DefaultMaxDuration  = 30 * time.Second
	DefaultReadyTimeout = 2 * time.Second
)

type RecorderConfig struct {
	Format       domain.AudioFormat
	MaxDuration  time.Duration
	ReadyTimeout time.Duration
}

// Recorder is the Idle/Recording state machine around a capture device.
// Redundant starts and stops are no-ops.
type Recorder struct {
	device CaptureDevice
	cfg    RecorderConfig
	logger *slog.Logger

	mu         sync.Mutex
	state      RecorderState
	session    CaptureSession
	current    domain.Take
	generation uint64
	capTimer   *time.Timer
	onCapped   func(domain.Take)
}

func NewRecorder(device CaptureDevice, cfg RecorderConfig, logger *slog.Logger) *Recorder {
	if cfg.Format.SampleRate == 0 {
		cfg.Format = domain.DefaultAudioFormat()
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	return &Recorder{
		device: device,
		cfg:    cfg,
		logger: logger,
	}
}

// OnCapped registers the receiver of takes that hit MaxDuration before an
// explicit stop.
func (r *Recorder) OnCapped(fn func(domain.Take)) {
	r.mu.Lock()
	r.onCapped = fn
	r.mu.Unlock()
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Generation counts started takes. A take whose generation is lower than
// the current one has been superseded.
func (r *Recorder) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Start opens the device and begins buffering. It reports false when a take
// was already in progress.
func (r *Recorder) Start(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		r.logger.Debug("start ignored, already recording", "take", r.current.ID)
		return false, nil
	}

	maxFrames := int(r.cfg.MaxDuration.Seconds() * float64(r.cfg.Format.SampleRate))
	session, err := r.device.Open(ctx, r.cfg.Format, maxFrames)
	if err != nil {
		return false, fmt.Errorf("opening capture device: %w", err)
	}

	r.generation++
	r.current = domain.Take{
		ID:         uuid.NewString(),
		Generation: r.generation,
		StartedAt:  time.Now(),
	}
	r.session = session
	r.state = StateRecording

	r.waitReady(ctx, session)

	gen := r.generation
	r.capTimer = time.AfterFunc(r.cfg.MaxDuration, func() { r.capReached(gen) })

	r.logger.Info("recording started", "take", r.current.ID, "generation", gen)
	return true, nil
}

func (r *Recorder) waitReady(ctx context.Context, session CaptureSession) {
	timer := time.NewTimer(r.cfg.ReadyTimeout)
	defer timer.Stop()

	select {
	case <-session.Ready():
	case <-timer.C:
		r.logger.Warn("capture device not ready in time, continuing", "timeout", r.cfg.ReadyTimeout)
	case <-ctx.Done():
	}
}

// Stop ends the current take. It reports false when nothing was recording.
// A take with zero frames is still returned; the caller decides what to do
// with it.
func (r *Recorder) Stop() (domain.Take, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		r.logger.Debug("stop ignored, not recording")
		return domain.Take{}, false, nil
	}

	take, err := r.stopLocked(false)
	return take, true, err
}

func (r *Recorder) capReached(gen uint64) {
	r.mu.Lock()
	if r.state != StateRecording || r.current.Generation != gen {
		r.mu.Unlock()
		return
	}
	take, err := r.stopLocked(true)
	fn := r.onCapped
	r.mu.Unlock()

	r.logger.Info("recording reached max duration", "take", take.ID, "max", r.cfg.MaxDuration)
	if err != nil {
		r.logger.Error("closing capture session", "error", err)
	}
	if fn != nil {
		fn(take)
	}
}

func (r *Recorder) stopLocked(capped bool) (domain.Take, error) {
	if r.capTimer != nil {
		r.capTimer.Stop()
		r.capTimer = nil
	}

	buf, err := r.session.Close()
	if err != nil {
		err = fmt.Errorf("closing capture session: %w", err)
	}

	take := r.current
	take.Buffer = buf
	take.StoppedAt = time.Now()
	take.Capped = capped

	r.session = nil
	r.current = domain.Take{}
	r.state = StateIdle

	r.logger.Info("recording stopped",
		"take", take.ID,
		"frames", take.Buffer.Frames(),
		"duration", take.Buffer.Duration(),
		"capped", capped,
	)
	return take, err
}
