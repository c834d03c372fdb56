package application

import (
	"context"
	"log/slog"
	"time"
)

// Transcript is what the transcription stage hands to the conversation
// stage. Text is never empty.
type Transcript struct {
	Text     string
	Fallback bool
	// Path of the persisted transcript, empty when nothing was written.
	Path string
}

// Transcription makes one STT attempt per take and substitutes a
// placeholder sentence when recognition fails or comes back empty.
type Transcription struct {
	stt     SpeechToText
	store   ArtifactStore
	persist bool
	metrics Metrics
	logger  *slog.Logger
}

func NewTranscription(stt SpeechToText, store ArtifactStore, persist bool, metrics Metrics, logger *slog.Logger) *Transcription {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Transcription{
		stt:     stt,
		store:   store,
		persist: persist,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *Transcription) Transcribe(ctx context.Context, wav []byte, nameHint string) Transcript {
	t.logger.Info("sending audio to stt", "bytes", len(wav), "file", nameHint)

	began := time.Now()
	result, err := t.stt.Transcribe(ctx, wav, nameHint)
	elapsed := time.Since(began)

	switch {
	case err != nil:
		t.logger.Error("stt request failed", "file", nameHint, "error", err)
		t.metrics.STTRequest("error", elapsed)
	case result.IsEmpty():
		t.logger.Warn("stt returned no text", "file", nameHint)
		t.metrics.STTRequest("empty", elapsed)
	default:
		t.metrics.STTRequest("ok", elapsed)
	}

	if err != nil || result.IsEmpty() {
		text := Fallback(nameHint)
		t.metrics.FallbackUsed()
		t.logger.Info("using fallback transcript", "file", nameHint, "text", text)
		return Transcript{Text: text, Fallback: true}
	}

	out := Transcript{Text: result.Text}
	t.logger.Info("transcribed", "file", nameHint, "text", out.Text)

	if t.persist && t.store != nil {
		path, err := t.store.SaveTranscript(nameHint, out.Text)
		if err != nil {
			t.logger.Error("saving transcript", "file", nameHint, "error", err)
		} else {
			out.Path = path
		}
	}
	return out
}
