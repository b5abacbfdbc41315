package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/checklist/internal/client"
	"github.com/letsssgooo/checklist/internal/config"
	"github.com/letsssgooo/checklist/internal/domain/models"
	"github.com/letsssgooo/checklist/internal/form"
	"github.com/letsssgooo/checklist/internal/lib/slogcustom"
	"github.com/letsssgooo/checklist/internal/photo"
	"github.com/letsssgooo/checklist/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// options флаги командной строки.
type options struct {
	batch    bool
	fio      string
	role     string
	section  int
	score    int
	comments string
	photos   []string

	apiURL   string
	timeout  time.Duration
	logLevel string
	logFile  string
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options

	fs := pflag.NewFlagSet("checklist", pflag.ContinueOnError)
	fs.BoolVar(&opts.batch, "batch", false, "register and submit without the terminal form")
	fs.StringVar(&opts.fio, "fio", "", "full name of the user (batch mode)")
	fs.StringVar(&opts.role, "role", string(models.DefaultRole), "user role: checker, admin or observer (batch mode)")
	fs.IntVar(&opts.section, "section", form.DefaultSectionID, "section id (batch mode)")
	fs.IntVar(&opts.score, "score", form.DefaultScore, "score (batch mode)")
	fs.StringVar(&opts.comments, "comments", "", "comments (batch mode)")
	fs.StringArrayVar(&opts.photos, "photo", nil, "photo file, may be repeated (batch mode)")

	fs.StringVar(&opts.apiURL, "api-url", "", "backend base url (overrides CHECKLIST_API_URL)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (overrides CHECKLIST_TIMEOUT)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	fs.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file (overrides LOG_FILE)")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if fs.NArg() > 0 {
		return opts, fs, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return opts, fs, nil
}

// applyFlags переносит явно заданные флаги поверх конфигурации из окружения.
func applyFlags(cfg *config.Config, opts options, fs *pflag.FlagSet) error {
	if fs.Changed("api-url") {
		cfg.API.BaseURL = opts.apiURL
	}
	if fs.Changed("timeout") {
		cfg.API.Timeout = opts.timeout
	}
	if fs.Changed("log-level") {
		if err := cfg.Logger.Level.UnmarshalText([]byte(opts.logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	if fs.Changed("log-file") {
		cfg.Logger.File = opts.logFile
	}
	return cfg.Validate()
}

func run(args []string) error {
	opts, fs, err := parseFlags(args)
	if err != nil {
		return err
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyFlags(&cfg, opts, fs); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog, err := setupLogger(cfg.Logger, opts.batch)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(log)

	api := client.NewHTTPClient(cfg.API.BaseURL, &http.Client{})
	loader := photo.NewLoader(cfg.Photos.MaxSize)
	ctrl := form.New(api)

	slog.Debug("starting checklist", "apiURL", cfg.API.BaseURL, "batch", opts.batch)

	if opts.batch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runBatch(ctx, ctrl, loader, cfg.API.Timeout, opts, os.Stdout)
	}

	program := tea.NewProgram(tui.New(tui.Config{
		Form:    ctrl,
		Client:  api,
		Photos:  loader,
		Timeout: cfg.API.Timeout,
	}), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// setupLogger в пакетном режиме пишет цветные логи в stderr, в интерактивном
// терминал занят формой, поэтому логи идут только в файл.
func setupLogger(cfg config.Logger, batch bool) (*slog.Logger, func(), error) {
	if !cfg.Color {
		color.NoColor = true
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.Level}))
		return log, func() { _ = f.Close() }, nil
	}

	if !batch {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	return slog.New(slogcustom.NewCustomHandler(os.Stderr, cfg.Level)), func() {}, nil
}
