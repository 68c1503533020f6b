package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, time.Second, cfg.Auth.MockDelay)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 3500*time.Millisecond, cfg.Quiz.AdvanceDelayCorrect)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.AdvanceDelayIncorrect)
	assert.Equal(t, 30*time.Minute, cfg.Quiz.SessionTTL)
	assert.Equal(t, "assets/data/questions.json", cfg.Questions.Path)
	assert.Equal(t, "https://api.openai.com/v1", cfg.FunFacts.APIURL)
	assert.Empty(t, cfg.FunFacts.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.FunFacts.Model)
	assert.Equal(t, 60*time.Second, cfg.FunFacts.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("AUTH_MODE", AuthModeCredentials)
	t.Setenv("FUNFACTS_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUIZ_ADVANCE_DELAY_CORRECT", "2s")
	t.Setenv("QUIZ_SESSION_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, AuthModeCredentials, cfg.Auth.Mode)
	assert.Equal(t, "sk-test", cfg.FunFacts.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.Quiz.AdvanceDelayCorrect)
	assert.Equal(t, 5*time.Minute, cfg.Quiz.SessionTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.AdvanceDelayIncorrect)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))

	yaml := "server:\n  port: \"9999\"\nauth:\n  mode: credentials\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, AuthModeCredentials, cfg.Auth.Mode)
	// Keys absent from the file still come from defaults.
	assert.Equal(t, 3500*time.Millisecond, cfg.Quiz.AdvanceDelayCorrect)
}

func TestLoad_RejectsUnknownAuthMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "banana")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown auth mode")
}
