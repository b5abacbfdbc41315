package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/checklist/internal/client"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"LOG_LEVEL", "LOG_FILE", "LOG_COLOR",
		"CHECKLIST_API_URL", "CHECKLIST_TIMEOUT", "CHECKLIST_PHOTO_MAX_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.Logger.Level)
	assert.Equal(t, "", cfg.Logger.File)
	assert.True(t, cfg.Logger.Color)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, client.DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, int64(0), cfg.Photos.MaxSize)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/checklist.log")
	t.Setenv("LOG_COLOR", "off")
	t.Setenv("CHECKLIST_API_URL", "https://inspect.example.com/api")
	t.Setenv("CHECKLIST_TIMEOUT", "5s")
	t.Setenv("CHECKLIST_PHOTO_MAX_SIZE", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Logger.Level)
	assert.Equal(t, "/tmp/checklist.log", cfg.Logger.File)
	assert.False(t, cfg.Logger.Color)
	assert.Equal(t, "https://inspect.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Photos.MaxSize)
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("LOG_COLOR", "maybe")
	t.Setenv("CHECKLIST_TIMEOUT", "soon")
	t.Setenv("CHECKLIST_PHOTO_MAX_SIZE", "big")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "LOG_LEVEL")
	assert.Contains(t, msg, "LOG_COLOR")
	assert.Contains(t, msg, "CHECKLIST_TIMEOUT")
	assert.Contains(t, msg, "CHECKLIST_PHOTO_MAX_SIZE")
}

func TestValidate(t *testing.T) {
	valid := Config{API: API{BaseURL: "http://localhost:8000", Timeout: time.Second}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no_scheme", mutate: func(c *Config) { c.API.BaseURL = "localhost:8000" }},
		{name: "ftp", mutate: func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{name: "no_host", mutate: func(c *Config) { c.API.BaseURL = "http://" }},
		{name: "zero_timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "negative_size", mutate: func(c *Config) { c.Photos.MaxSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "YES", "on", "1"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "OFF", "0"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}

	_, err := ParseBool("2")
	assert.Error(t, err)
}

func TestFromEnv_SkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHECKLIST_API_URL", "ftp://files")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ftp://files", cfg.API.BaseURL)

	_, err = Load()
	assert.ErrorContains(t, err, "scheme must be http or https")
}
