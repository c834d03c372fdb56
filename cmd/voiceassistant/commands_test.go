package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"voice-assistant/config"
	"voice-assistant/internal/application"
)

type recordingTriggerer struct {
	triggers []application.Trigger
	texts    []string
}

func (r *recordingTriggerer) HandleTrigger(_ context.Context, t application.Trigger) error {
	r.triggers = append(r.triggers, t)
	return nil
}

func (r *recordingTriggerer) SendText(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingTriggerer) Status() application.StatusSnapshot {
	return application.StatusSnapshot{State: "idle", Generation: 2}
}

func TestHandleCommands(t *testing.T) {
	in := strings.NewReader("r\nt\nv\ns bugün hava nasıl\nstatus\nbogus\nq\nr\n")
	var out bytes.Buffer
	target := &recordingTriggerer{}
	quit := false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handleCommands(context.Background(), in, &out, target, application.ModeTwoKey, func() { quit = true }, logger)

	want := []application.Trigger{application.TriggerStart, application.TriggerStop}
	if len(target.triggers) != len(want) {
		t.Fatalf("triggers: got %v, want %v", target.triggers, want)
	}
	for i := range want {
		if target.triggers[i] != want[i] {
			t.Errorf("trigger %d: got %s, want %s", i, target.triggers[i], want[i])
		}
	}
	if len(target.texts) != 1 || target.texts[0] != "bugün hava nasıl" {
		t.Errorf("texts: got %v", target.texts)
	}
	if !quit {
		t.Error("expected quit to be called")
	}
	for _, s := range []string{"state=idle generation=2", "unknown command: bogus", "only available in push_to_talk"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}

func TestHandleCommands_PushToTalkToggle(t *testing.T) {
	target := &recordingTriggerer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handleCommands(context.Background(), strings.NewReader("v\nv\nv\n"), io.Discard, target, application.ModePushToTalk, func() {}, logger)

	want := []application.Trigger{application.TriggerPress, application.TriggerRelease, application.TriggerPress}
	if len(target.triggers) != len(want) {
		t.Fatalf("triggers: got %v, want %v", target.triggers, want)
	}
	for i := range want {
		if target.triggers[i] != want[i] {
			t.Errorf("trigger %d: got %s, want %s", i, target.triggers[i], want[i])
		}
	}
}

func TestSetupLogger(t *testing.T) {
	logger := setupLogger(configLog("warn", "json"))
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func configLog(level, format string) config.LogConfig {
	return config.LogConfig{Level: level, Format: format}
}
