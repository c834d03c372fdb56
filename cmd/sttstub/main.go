package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"voice-assistant/internal/sttstub"
)

func main() {
	addr := flag.String("addr", ":5002", "listen address")
	text := flag.String("text", sttstub.DefaultText, "transcript returned for every upload")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	gin.SetMode(gin.ReleaseMode)

	server := &http.Server{
		Addr:         *addr,
		Handler:      sttstub.NewRouter(sttstub.Config{Text: *text}, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("test stt server starting", "addr", *addr, "text", *text)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
