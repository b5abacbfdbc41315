package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/checklist/internal/client"
	"github.com/letsssgooo/checklist/internal/config"
	"github.com/letsssgooo/checklist/internal/domain/models"
	"github.com/letsssgooo/checklist/internal/form"
	"github.com/letsssgooo/checklist/internal/photo"
)

func TestParseFlags_OverridesEnv(t *testing.T) {
	opts, fs, err := parseFlags([]string{
		"--api-url", "https://backend.example.com",
		"--timeout", "3s",
		"--log-level", "debug",
	})
	require.NoError(t, err)

	cfg := config.Config{
		Logger: config.Logger{File: "from-env.log"},
		API:    config.API{BaseURL: "http://localhost:8000", Timeout: time.Minute},
	}
	require.NoError(t, applyFlags(&cfg, opts, fs))

	assert.Equal(t, "https://backend.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "from-env.log", cfg.Logger.File)
	assert.Equal(t, "DEBUG", cfg.Logger.Level.String())
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, _, err := parseFlags(nil)
	require.NoError(t, err)

	assert.False(t, opts.batch)
	assert.Equal(t, "checker", opts.role)
	assert.Equal(t, form.DefaultSectionID, opts.section)
	assert.Equal(t, form.DefaultScore, opts.score)
	assert.Empty(t, opts.photos)
}

func TestParseFlags_Errors(t *testing.T) {
	_, _, err := parseFlags([]string{"extra"})
	assert.ErrorContains(t, err, "unexpected argument")

	opts, fs, err := parseFlags([]string{"--timeout", "0s"})
	require.NoError(t, err)
	cfg := config.Config{API: config.API{BaseURL: "http://localhost:8000", Timeout: time.Second}}
	assert.ErrorContains(t, applyFlags(&cfg, opts, fs), "timeout must be > 0")
}

// backend минимальный фейковый бэкенд: регистрация и прием чеклистов.
type backend struct {
	mu         sync.Mutex
	fio        string
	fields     map[string]string
	photoNames []string
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		var draft models.RegistrationDraft
		assert.NoError(t, decodeJSON(r, &draft))

		b.mu.Lock()
		b.fio = draft.FIO
		b.mu.Unlock()

		_, _ = w.Write([]byte(`{"id": 17}`))
	})
	mux.HandleFunc("/checklists/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		b.mu.Lock()
		b.fields = make(map[string]string)
		for k, v := range r.MultipartForm.Value {
			b.fields[k] = v[0]
		}
		for _, fh := range r.MultipartForm.File["photos"] {
			b.photoNames = append(b.photoNames, fh.Filename)
		}
		b.mu.Unlock()

		_, _ = w.Write([]byte(`{ "id": 3, "score": 9 }`))
	})
	return mux
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestRunBatch(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	b := &backend{}
	server := httptest.NewServer(b.handler(t))
	defer server.Close()

	dir := t.TempDir()
	photoPath := filepath.Join(dir, "roof.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}, 0o644))

	ctrl := form.New(client.NewHTTPClient(server.URL, nil))
	opts := options{
		fio:      "Петров Петр",
		role:     "Observer",
		section:  4,
		score:    9,
		comments: "без замечаний",
		photos:   []string{photoPath},
	}

	var out bytes.Buffer
	err := runBatch(context.Background(), ctrl, photo.NewLoader(0), time.Second, opts, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Пользователь: 17")
	assert.Contains(t, out.String(), `Результат отправки: {"id":3,"score":9}`)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, "Петров Петр", b.fio)
	assert.Equal(t, map[string]string{
		"section_id": "4",
		"user_id":    "17",
		"score":      "9",
		"comments":   "без замечаний",
	}, b.fields)
	assert.Equal(t, []string{"roof.jpg"}, b.photoNames)

	state := ctrl.Snapshot()
	assert.Equal(t, models.RoleObserver, state.Role)
	assert.Equal(t, form.SubmissionDone, state.Submission)
}

func TestRunBatch_InvalidRole(t *testing.T) {
	ctrl := form.New(client.NewHTTPClient("http://127.0.0.1:1", nil))

	err := runBatch(context.Background(), ctrl, photo.NewLoader(0), time.Second, options{role: "boss"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, models.ErrInvalidRole)
}

func TestRunBatch_MissingPhotoSkipsNetwork(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	ctrl := form.New(client.NewHTTPClient(server.URL, nil))
	opts := options{role: "checker", photos: []string{filepath.Join(t.TempDir(), "nope.jpg")}}

	err := runBatch(context.Background(), ctrl, photo.NewLoader(0), time.Second, opts, &bytes.Buffer{})

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, calls)
}
