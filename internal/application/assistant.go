package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"voice-assistant/internal/domain"
)

type Mode string

const (
	ModeTwoKey     Mode = "two_key"
	ModePushToTalk Mode = "push_to_talk"
)

type Trigger int

const (
	TriggerStart Trigger = iota
	TriggerStop
	TriggerPress
	TriggerRelease
)

func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "start"
	case TriggerStop:
		return "stop"
	case TriggerPress:
		return "press"
	case TriggerRelease:
		return "release"
	default:
		return "unknown"
	}
}

const DefaultQueueSize = 4

type Options struct {
	Mode           Mode
	Naming         Naming
	SaveRecordings bool
	Upload         bool
	Chat           bool
	Playback       bool
	QueueSize      int
}

type Components struct {
	Recorder      *Recorder
	Codec         AudioCodec
	Transcription *Transcription
	Conversation  *Conversation
	Store         ArtifactStore
	Speaker       Speaker
	Presenter     Presenter
	Metrics       Metrics
}

// Outcome summarises what happened to one take.
type Outcome struct {
	TakeID     string
	Name       string
	WavPath    string
	Transcript Transcript
	Reply      domain.Reply
	Stale      bool
	Err        error
}

type job struct {
	take domain.Take
	text string
}

type StatusSnapshot struct {
	State      string `json:"state"`
	Generation uint64 `json:"generation"`
	Pending    int    `json:"pending"`
}

// Assistant wires the recorder to the transcription and conversation
// stages. Finished takes and typed messages share one queue, so at most one
// backend request is in flight.
type Assistant struct {
	recorder      *Recorder
	codec         AudioCodec
	transcription *Transcription
	conversation  *Conversation
	store         ArtifactStore
	speaker       Speaker
	presenter     Presenter
	metrics       Metrics
	logger        *slog.Logger
	opts          Options

	jobs     chan job
	inFlight atomic.Int32
}

func NewAssistant(c Components, opts Options, logger *slog.Logger) *Assistant {
	if c.Presenter == nil {
		c.Presenter = &NoopPresenter{}
	}
	if c.Metrics == nil {
		c.Metrics = NoopMetrics{}
	}
	if opts.Mode == "" {
		opts.Mode = ModeTwoKey
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	a := &Assistant{
		recorder:      c.Recorder,
		codec:         c.Codec,
		transcription: c.Transcription,
		conversation:  c.Conversation,
		store:         c.Store,
		speaker:       c.Speaker,
		presenter:     c.Presenter,
		metrics:       c.Metrics,
		logger:        logger,
		opts:          opts,
		jobs:          make(chan job, opts.QueueSize),
	}
	a.recorder.OnCapped(func(take domain.Take) {
		a.enqueue(context.Background(), take)
	})
	return a
}

// Hint is the idle instruction for the configured mode.
func (a *Assistant) Hint() string {
	if a.opts.Mode == ModePushToTalk {
		return MsgPushToTalkHint
	}
	return MsgTwoKeyHint
}

// HandleTrigger maps a key event onto the recorder. Start and stop are
// honoured in both modes; press and release only in push-to-talk.
func (a *Assistant) HandleTrigger(ctx context.Context, t Trigger) error {
	switch t {
	case TriggerStart:
		return a.startRecording(ctx)
	case TriggerStop:
		return a.stopRecording(ctx)
	case TriggerPress, TriggerRelease:
		if a.opts.Mode != ModePushToTalk {
			a.logger.Debug("trigger ignored in mode", "trigger", t, "mode", a.opts.Mode)
			return nil
		}
		if t == TriggerPress {
			return a.startRecording(ctx)
		}
		return a.stopRecording(ctx)
	default:
		return fmt.Errorf("unknown trigger %d", t)
	}
}

func (a *Assistant) startRecording(ctx context.Context) error {
	started, err := a.recorder.Start(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCaptureUnavailable) {
			a.present(ctx, MessageError, MsgNoMicrophone, "")
			a.metrics.TakeFinished("unavailable")
		} else {
			a.present(ctx, MessageError, err.Error(), "")
		}
		return err
	}
	if started {
		a.present(ctx, MessageStatus, MsgRecording, "")
	}
	return nil
}

func (a *Assistant) stopRecording(ctx context.Context) error {
	take, stopped, err := a.recorder.Stop()
	if !stopped {
		return nil
	}
	if err != nil {
		a.logger.Error("stopping recording", "take", take.ID, "error", err)
	}
	a.enqueue(ctx, take)
	return nil
}

func (a *Assistant) enqueue(ctx context.Context, take domain.Take) {
	select {
	case a.jobs <- job{take: take}:
		a.logger.Debug("take queued", "take", take.ID, "pending", len(a.jobs))
	default:
		a.logger.Warn("take queue full, dropping take", "take", take.ID)
		a.metrics.TakeFinished("dropped")
		a.present(ctx, MessageError, MsgBusy, take.ID)
	}
}

// SendText queues a typed message for the conversation stage.
func (a *Assistant) SendText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}
	select {
	case a.jobs <- job{text: text}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue full: %d pending", len(a.jobs))
	}
}

func (a *Assistant) Status() StatusSnapshot {
	state := "idle"
	switch {
	case a.recorder.State() == StateRecording:
		state = "recording"
	case a.inFlight.Load() > 0 || len(a.jobs) > 0:
		state = "uploading"
	}
	return StatusSnapshot{
		State:      state,
		Generation: a.recorder.Generation(),
		Pending:    len(a.jobs),
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("assistant ready", "mode", a.opts.Mode, "upload", a.opts.Upload, "chat", a.opts.Chat)
	a.present(ctx, MessageStatus, a.Hint(), "")

	for {
		select {
		case <-ctx.Done():
			if take, stopped, _ := a.recorder.Stop(); stopped {
				a.logger.Info("discarding take on shutdown", "take", take.ID)
			}
			return ctx.Err()
		case j := <-a.jobs:
			a.inFlight.Add(1)
			if j.text != "" {
				a.converse(ctx, j.text, "")
			} else {
				a.ProcessTake(ctx, j.take)
			}
			a.inFlight.Add(-1)
		}
	}
}

// ProcessTake runs one finished take through encode, save, transcription
// and conversation.
func (a *Assistant) ProcessTake(ctx context.Context, take domain.Take) Outcome {
	out := Outcome{TakeID: take.ID}

	if !take.Buffer.HasFrames() {
		a.logger.Warn("take has no frames", "take", take.ID)
		a.present(ctx, MessageError, MsgTooShort, take.ID)
		a.metrics.TakeFinished("too_short")
		out.Err = domain.ErrCaptureTooShort
		return out
	}

	wav := a.codec.Encode(take.Buffer)
	out.Name = a.opts.Naming.NameFor(take.StoppedAt)
	a.logger.Info("take encoded", "take", take.ID, "bytes", len(wav), "file", out.Name)

	if a.opts.SaveRecordings && a.store != nil {
		path, err := a.store.SaveRecording(out.Name, wav)
		if err != nil {
			a.logger.Error("saving recording", "take", take.ID, "error", err)
		} else {
			out.WavPath = path
		}
	}

	if a.opts.Playback && a.speaker != nil {
		a.playback(ctx, take.ID, wav)
	}

	if !a.opts.Upload {
		a.present(ctx, MessageStatus, MsgSavedOnly, take.ID)
		a.metrics.TakeFinished("saved")
		return out
	}

	a.present(ctx, MessageStatus, MsgUploading, take.ID)
	out.Transcript = a.transcription.Transcribe(ctx, wav, out.Name)

	if a.isStale(take) {
		out.Stale = true
		return out
	}
	a.present(ctx, MessageTranscript, TranscriptPrefix+out.Transcript.Text, take.ID)

	if !a.opts.Chat {
		a.metrics.TakeFinished("transcribed")
		return out
	}

	a.present(ctx, MessageStatus, MsgSendingToAI, take.ID)
	reply, stale := a.converseTake(ctx, take, out.Transcript.Text)
	out.Reply = reply
	out.Stale = stale
	return out
}

func (a *Assistant) converseTake(ctx context.Context, take domain.Take, text string) (domain.Reply, bool) {
	reply := a.conversation.Converse(ctx, text)
	if a.isStale(take) {
		return reply, true
	}
	a.presentReply(ctx, reply, take.ID)
	a.metrics.TakeFinished("replied")
	return reply, false
}

func (a *Assistant) converse(ctx context.Context, text, takeID string) domain.Reply {
	a.present(ctx, MessageTranscript, TranscriptPrefix+text, takeID)
	reply := a.conversation.Converse(ctx, text)
	a.presentReply(ctx, reply, takeID)
	return reply
}

func (a *Assistant) presentReply(ctx context.Context, reply domain.Reply, takeID string) {
	kind := MessageReply
	if reply.Status == domain.ReplyFailed {
		kind = MessageError
	}
	a.present(ctx, kind, reply.Display(), takeID)
}

func (a *Assistant) isStale(take domain.Take) bool {
	latest := a.recorder.Generation()
	if take.Generation < latest {
		a.logger.Info("discarding result of superseded take",
			"take", take.ID,
			"generation", take.Generation,
			"latest", latest,
		)
		a.metrics.TakeFinished("stale")
		return true
	}
	return false
}

func (a *Assistant) playback(ctx context.Context, takeID string, wav []byte) {
	buf, err := a.codec.Decode(wav)
	if err != nil {
		a.logger.Error("decoding take for playback", "take", takeID, "error", err)
		return
	}
	playCtx, cancel := context.WithTimeout(ctx, buf.Duration()+time.Second)
	defer cancel()
	if err := a.speaker.Play(playCtx, buf); err != nil {
		a.logger.Error("playing take", "take", takeID, "error", err)
	}
}

func (a *Assistant) present(ctx context.Context, kind MessageKind, text, takeID string) {
	if err := a.presenter.Present(ctx, Message{Kind: kind, Text: text, TakeID: takeID}); err != nil {
		a.logger.Error("presenting message", "kind", kind, "error", err)
	}
}
