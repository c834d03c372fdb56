// Package sttstub serves a canned speech-to-text API for exercising the
// client without a recognition model.
package sttstub

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-assistant/internal/infra/wav"
)

const (
	DefaultText    = "Merhaba, bu bir test transkriptidir"
	maxUploadBytes = 32 << 20
)

type Config struct {
	// Text is returned for every upload. An empty value makes the client fall
	// back to a placeholder sentence.
	Text string
}

func NewRouter(cfg Config, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())

	h := &handler{text: cfg.Text, logger: logger}
	r.GET("/health", h.health)
	r.POST("/transcribe", h.transcribe)
	return r
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type handler struct {
	text   string
	logger *slog.Logger
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "Test STT Server",
		"model_loaded": true,
	})
}

func (h *handler) transcribe(c *gin.Context) {
	header, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open audio file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read audio file"})
		return
	}

	if info, err := wav.Info(data); err != nil {
		h.logger.Warn("upload is not a canonical wav", "file", header.Filename, "bytes", len(data), "error", err)
	} else {
		h.logger.Info("received audio",
			"file", header.Filename,
			"channels", info.Channels,
			"sampleRate", info.SampleRate,
			"duration", info.Duration,
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"text":         h.text,
		"partial":      "",
		"model_status": "test_mode",
	})
}
