package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"voice-assistant/internal/domain"
)

type Config struct {
	Recorder RecorderConfig `yaml:"recorder"`
	Storage  StorageConfig  `yaml:"storage"`
	STT      STTConfig      `yaml:"stt"`
	Chatbot  ChatbotConfig  `yaml:"chatbot"`
	Control  ControlConfig  `yaml:"control"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

type RecorderConfig struct {
	Mode         string `yaml:"mode"`
	Device       string `yaml:"device"`
	SampleRate   int    `yaml:"sample_rate"`
	Channels     int    `yaml:"channels"`
	MaxSeconds   int    `yaml:"max_seconds"`
	ReadyTimeout string `yaml:"ready_timeout"`
	Playback     bool   `yaml:"playback"`
	QueueSize    int    `yaml:"queue_size"`
}

type StorageConfig struct {
	Dir             string `yaml:"dir"`
	SaveRecordings  *bool  `yaml:"save_recordings"`
	SaveTranscripts *bool  `yaml:"save_transcripts"`
	UseFixedName    *bool  `yaml:"use_fixed_name"`
	FixedName       string `yaml:"fixed_name"`
	Prefix          string `yaml:"prefix"`
}

type STTConfig struct {
	Enabled        *bool  `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	HealthTimeout  string `yaml:"health_timeout"`
	ProbeAttempts  int    `yaml:"probe_attempts"`
}

type ChatbotConfig struct {
	Enabled        *bool   `yaml:"enabled"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float32 `yaml:"temperature"`
	SystemPrompt   string  `yaml:"system_prompt"`
	Referer        string  `yaml:"referer"`
	Title          string  `yaml:"title"`
}

type ControlConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	AuthToken string `yaml:"auth_token"`
}

type OutputConfig struct {
	Clipboard bool `yaml:"clipboard"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a .env file next to path (if any) into the environment, then
// parses path with ${VAR} expansion.
func Load(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func enabled(v bool) *bool {
	return &v
}

func (c *Config) setDefaults() {
	if c.Recorder.Mode == "" {
		c.Recorder.Mode = "two_key"
	}
	if c.Recorder.SampleRate == 0 {
		c.Recorder.SampleRate = 16000
	}
	if c.Recorder.Channels == 0 {
		c.Recorder.Channels = 1
	}
	if c.Recorder.MaxSeconds == 0 {
		c.Recorder.MaxSeconds = 30
	}
	if c.Recorder.ReadyTimeout == "" {
		c.Recorder.ReadyTimeout = "2s"
	}
	if c.Recorder.QueueSize == 0 {
		c.Recorder.QueueSize = 4
	}

	if c.Storage.Dir == "" {
		c.Storage.Dir = "./recordings"
	}
	if c.Storage.SaveRecordings == nil {
		c.Storage.SaveRecordings = enabled(true)
	}
	if c.Storage.SaveTranscripts == nil {
		c.Storage.SaveTranscripts = enabled(true)
	}
	if c.Storage.UseFixedName == nil {
		c.Storage.UseFixedName = enabled(true)
	}
	if c.Storage.FixedName == "" {
		c.Storage.FixedName = "kayit.wav"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "recording_"
	}

	if c.STT.Enabled == nil {
		c.STT.Enabled = enabled(true)
	}
	if c.STT.BaseURL == "" {
		c.STT.BaseURL = "http://localhost:5002"
	}
	if c.STT.TimeoutSeconds == 0 {
		c.STT.TimeoutSeconds = 60
	}
	if c.STT.HealthTimeout == "" {
		c.STT.HealthTimeout = "5s"
	}
	if c.STT.ProbeAttempts == 0 {
		c.STT.ProbeAttempts = 3
	}

	if c.Chatbot.Enabled == nil {
		c.Chatbot.Enabled = enabled(true)
	}
	if c.Chatbot.APIKey == "" {
		c.Chatbot.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if c.Chatbot.BaseURL == "" {
		c.Chatbot.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Chatbot.Model == "" {
		c.Chatbot.Model = "anthropic/claude-3-haiku"
	}
	if c.Chatbot.TimeoutSeconds == 0 {
		c.Chatbot.TimeoutSeconds = 45
	}
	if c.Chatbot.MaxTokens == 0 {
		c.Chatbot.MaxTokens = 1000
	}
	if c.Chatbot.Temperature == 0 {
		c.Chatbot.Temperature = 0.7
	}

	if c.Control.Addr == "" {
		c.Control.Addr = ":8080"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Recorder.Mode {
	case "two_key", "push_to_talk":
	default:
		errs = append(errs, fmt.Errorf("recorder.mode must be two_key or push_to_talk, got %q", c.Recorder.Mode))
	}
	if c.Recorder.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("recorder.sample_rate must be positive"))
	}
	if c.Recorder.Channels < 1 || c.Recorder.Channels > 2 {
		errs = append(errs, fmt.Errorf("recorder.channels must be 1 or 2, got %d", c.Recorder.Channels))
	}
	if c.Recorder.MaxSeconds <= 0 {
		errs = append(errs, fmt.Errorf("recorder.max_seconds must be positive"))
	}
	if _, err := time.ParseDuration(c.Recorder.ReadyTimeout); err != nil {
		errs = append(errs, fmt.Errorf("recorder.ready_timeout: %w", err))
	}
	if _, err := time.ParseDuration(c.STT.HealthTimeout); err != nil {
		errs = append(errs, fmt.Errorf("stt.health_timeout: %w", err))
	}
	if err := c.STTEndpoint().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("stt: %w", err))
	}
	if err := c.ChatEndpoint().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chatbot: %w", err))
	}
	if c.Chatbot.Temperature < 0 || c.Chatbot.Temperature > 2 {
		errs = append(errs, fmt.Errorf("chatbot.temperature must be within [0, 2], got %v", c.Chatbot.Temperature))
	}

	return errors.Join(errs...)
}

func (c *Config) STTEndpoint() domain.ServiceEndpoint {
	return domain.ServiceEndpoint{BaseURL: c.STT.BaseURL, TimeoutSeconds: c.STT.TimeoutSeconds}
}

func (c *Config) ChatEndpoint() domain.ServiceEndpoint {
	return domain.ServiceEndpoint{BaseURL: c.Chatbot.BaseURL, TimeoutSeconds: c.Chatbot.TimeoutSeconds}
}

func (c *Config) AudioFormat() domain.AudioFormat {
	return domain.AudioFormat{
		SampleRate: c.Recorder.SampleRate,
		Channels:   c.Recorder.Channels,
		BitDepth:   16,
	}
}

// ReadyTimeout and HealthTimeout are validated by Load.
func (c *Config) ReadyTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Recorder.ReadyTimeout)
	return d
}

func (c *Config) HealthTimeout() time.Duration {
	d, _ := time.ParseDuration(c.STT.HealthTimeout)
	return d
}
