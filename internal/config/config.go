package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gennadis/petassistant/internal/chat"
)

const questionEndpoint = "/api/question-and-answer"

type Config struct {
	// Q&A service
	// Defaults to chat.DefaultBaseURL
	BaseURL        string        `env:"PETASSISTANT_BASE_URL"`
	RequestTimeout time.Duration `env:"PETASSISTANT_REQUEST_TIMEOUT" envDefault:"30s"`

	// Web widget
	ListenAddr     string        `env:"PETASSISTANT_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	SessionTTL     time.Duration `env:"PETASSISTANT_SESSION_TTL" envDefault:"30m"`
	RateLimitQPS   float64       `env:"PETASSISTANT_RATE_LIMIT_QPS" envDefault:"5"`
	RateLimitBurst int           `env:"PETASSISTANT_RATE_LIMIT_BURST" envDefault:"10"`

	// Transcript journal, disabled when empty
	JournalPath string `env:"PETASSISTANT_JOURNAL_PATH"`

	LogLevel  string `env:"PETASSISTANT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PETASSISTANT_LOG_FORMAT" envDefault:"text"`
}

// NewConfig reads the configuration from the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = chat.DefaultBaseURL
	}
	return cfg, nil
}

// QuestionURL is the full URL of the question-and-answer endpoint.
func (c *Config) QuestionURL() string {
	return strings.TrimRight(c.BaseURL, "/") + questionEndpoint
}

// HealthURL is the root of the Q&A service, which answers a status document.
func (c *Config) HealthURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/"
}

func (c *Config) slogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
