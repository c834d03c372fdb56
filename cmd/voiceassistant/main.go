package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/console"
	"voice-assistant/internal/infra/control"
	"voice-assistant/internal/infra/openrouter"
	"voice-assistant/internal/infra/vosk"
	"voice-assistant/internal/infra/wav"
	"voice-assistant/internal/metrics"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	m := metrics.New()

	recorder := application.NewRecorder(
		audio.NewMicrophone(cfg.Recorder.Device, logger),
		application.RecorderConfig{
			Format:       cfg.AudioFormat(),
			MaxDuration:  time.Duration(cfg.Recorder.MaxSeconds) * time.Second,
			ReadyTimeout: cfg.ReadyTimeout(),
		},
		logger,
	)

	store := audio.NewFileStore(cfg.Storage.Dir)
	stt := createSpeechToText(ctx, cfg, logger)

	if *cfg.Chatbot.Enabled && cfg.Chatbot.APIKey == "" {
		logger.Warn("chatbot enabled without api key, replies will fail", "hint", "set OPENROUTER_API_KEY")
	}
	bot := openrouter.NewClient(openrouter.Config{
		APIKey:      cfg.Chatbot.APIKey,
		Model:       cfg.Chatbot.Model,
		Endpoint:    cfg.ChatEndpoint(),
		MaxTokens:   cfg.Chatbot.MaxTokens,
		Temperature: cfg.Chatbot.Temperature,
		Referer:     cfg.Chatbot.Referer,
		Title:       cfg.Chatbot.Title,
	}, logger)

	presenter := console.Multi{console.NewSubtitles(os.Stdout)}
	if cfg.Output.Clipboard {
		presenter = append(presenter, console.NewClipboard(logger))
	}

	assistant := application.NewAssistant(application.Components{
		Recorder:      recorder,
		Codec:         wav.Codec{},
		Transcription: application.NewTranscription(stt, store, *cfg.Storage.SaveTranscripts, m, logger),
		Conversation:  application.NewConversation(bot, cfg.Chatbot.SystemPrompt, m, logger),
		Store:         store,
		Speaker:       audio.NewSpeaker(logger),
		Presenter:     presenter,
		Metrics:       m,
	}, application.Options{
		Mode: application.Mode(cfg.Recorder.Mode),
		Naming: application.Naming{
			UseFixedName: *cfg.Storage.UseFixedName,
			FixedName:    cfg.Storage.FixedName,
			Prefix:       cfg.Storage.Prefix,
		},
		SaveRecordings: *cfg.Storage.SaveRecordings,
		Upload:         *cfg.STT.Enabled,
		Chat:           *cfg.Chatbot.Enabled,
		Playback:       cfg.Recorder.Playback,
		QueueSize:      cfg.Recorder.QueueSize,
	}, logger)

	if cfg.Control.Enabled {
		server := control.NewServer(cfg.Control.Addr, cfg.Control.AuthToken, assistant, m.Handler(), logger)
		if err := server.Start(ctx); err != nil {
			logger.Error("starting control server", "error", err)
			os.Exit(1)
		}
		defer server.Stop()
	}

	go handleCommands(ctx, os.Stdin, os.Stdout, assistant, application.Mode(cfg.Recorder.Mode), cancel, logger)

	logger.Info("starting voice assistant",
		"mode", cfg.Recorder.Mode,
		"stt", cfg.STT.BaseURL,
		"model", cfg.Chatbot.Model,
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("assistant error", "error", err)
		os.Exit(1)
	}
}

func createSpeechToText(ctx context.Context, cfg *config.Config, logger *slog.Logger) application.SpeechToText {
	if !*cfg.STT.Enabled {
		return &application.NoopSTT{}
	}

	client := vosk.NewClient(cfg.STTEndpoint(), cfg.HealthTimeout(), logger)

	retry := infra.DefaultRetryConfig()
	retry.MaxAttempts = cfg.STT.ProbeAttempts
	retry.OnRetry = func(attempt int, err error) {
		logger.Debug("stt health probe failed, retrying", "attempt", attempt, "error", err)
	}
	if err := infra.WithRetry(ctx, retry, client.Health); err != nil {
		logger.Warn("stt service not reachable, takes will use fallback transcripts", "url", cfg.STT.BaseURL, "error", err)
	} else {
		logger.Info("stt service healthy", "url", cfg.STT.BaseURL)
	}
	return client
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
