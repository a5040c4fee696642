package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, chat.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.JournalPath)
	assert.Equal(t, "http://localhost:5000/api/question-and-answer", cfg.QuestionURL())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PETASSISTANT_BASE_URL", "http://qa.internal:9000/")
	t.Setenv("PETASSISTANT_REQUEST_TIMEOUT", "5s")
	t.Setenv("PETASSISTANT_RATE_LIMIT_QPS", "0.5")
	t.Setenv("PETASSISTANT_JOURNAL_PATH", "/tmp/journal.db")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://qa.internal:9000/api/question-and-answer", cfg.QuestionURL())
	assert.Equal(t, "http://qa.internal:9000/", cfg.HealthURL())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 0.5, cfg.RateLimitQPS, 1e-9)
	assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
}

func TestNewConfigInvalidDuration(t *testing.T) {
	t.Setenv("PETASSISTANT_REQUEST_TIMEOUT", "soon")

	_, err := NewConfig()
	require.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "answer", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.EqualValues(t, 42, record["answer"])
}

func TestNewConfigBlankBaseURLFallsBack(t *testing.T) {
	t.Setenv("PETASSISTANT_BASE_URL", "  ")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, chat.DefaultBaseURL, cfg.BaseURL)
}
