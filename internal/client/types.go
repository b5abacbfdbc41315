package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/letsssgooo/checklist/internal/domain/models"
)

// Client определяет интерфейс клиента бэкенда чеклистов.
type Client interface {
	// RegisterUser регистрирует пользователя и возвращает выданный бэкендом идентификатор.
	RegisterUser(ctx context.Context, draft models.RegistrationDraft) (models.RegisteredUser, error)

	// SubmitChecklist отправляет чеклист с фотографиями.
	SubmitChecklist(ctx context.Context, submission models.Submission) (models.SubmissionResult, error)
}

// Пути API
const (
	usersPath      = "/users/"
	checklistsPath = "/checklists/"
)

// Поля multipart-формы чеклиста
const (
	fieldSectionID = "section_id"
	fieldUserID    = "user_id"
	fieldScore     = "score"
	fieldComments  = "comments"
	fieldPhotos    = "photos"
)

// RequestIDHeader заголовок для сквозной корреляции логов клиента и бэкенда.
const RequestIDHeader = "X-Request-ID"

// Таймауты
const (
	DefaultTimeout = 30 * time.Second
)

// Ошибки клиента
var (
	ErrMissingID     = errors.New("response has no user id")
	ErrNotJSONObject = errors.New("response is not a json object")
)

// maxErrorBody ограничивает тело ответа, которое попадает в APIError.
const maxErrorBody = 4096

// APIError описывает неуспешный HTTP-ответ бэкенда.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend api error: status %d: %s", e.StatusCode, e.Body)
}
