package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/letsssgooo/checklist/internal/client"
)

type Logger struct {
	Level slog.Level
	File  string // JSON логи в файл; пусто - в терминал
	Color bool
}

type API struct {
	BaseURL string
	Timeout time.Duration // таймаут одного запроса
}

type Photos struct {
	MaxSize int64 // байт на одну фотографию, 0 - без ограничения
}

type Config struct {
	Logger Logger
	API    API
	Photos Photos
}

// Значения по умолчанию
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = client.DefaultTimeout
)

// Load читает конфигурацию из окружения и проверяет ее.
// Возвращает все ошибки сразу.
func Load() (Config, error) {
	cfg, err := FromEnv()
	return cfg, errors.Join(err, cfg.Validate())
}

// FromEnv только разбирает окружение, без Validate: значения еще могут
// быть переопределены флагами.
func FromEnv() (Config, error) {
	var ge getenv
	cfg := Config{
		Logger: Logger{
			Level: ge.LogLevel("LOG_LEVEL", false, slog.LevelInfo),
			File:  ge.String("LOG_FILE", false, ""),
			Color: ge.Bool("LOG_COLOR", false, true),
		},
		API: API{
			BaseURL: ge.String("CHECKLIST_API_URL", false, DefaultBaseURL),
			Timeout: ge.Duration("CHECKLIST_TIMEOUT", false, DefaultTimeout),
		},
		Photos: Photos{
			MaxSize: ge.Int64("CHECKLIST_PHOTO_MAX_SIZE", false, 0),
		},
	}
	return cfg, ge.Err()
}

// Validate проверяет значения, которые могли прийти и из окружения, и из флагов.
func (cfg Config) Validate() error {
	var errs []error

	u, err := url.Parse(cfg.API.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid api url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("invalid api url %q: scheme must be http or https", cfg.API.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("invalid api url %q: host is required", cfg.API.BaseURL))
	}

	if cfg.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be > 0, got %v", cfg.API.Timeout))
	}
	if cfg.Photos.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("photo max size must be >= 0, got %d", cfg.Photos.MaxSize))
	}

	return errors.Join(errs...)
}
