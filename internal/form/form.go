package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/letsssgooo/checklist/internal/client"
	"github.com/letsssgooo/checklist/internal/domain/models"
)

// Controller владеет состоянием формы чеклиста и реализует переходы между
// состояниями. Сетевые вызовы не выполняются под блокировкой: Begin* и
// Complete* можно вызывать из цикла интерфейса, а сам запрос - в фоне.
type Controller struct {
	client client.Client
	mu     sync.Mutex
	state  State
}

// New создаёт контроллер с состоянием по умолчанию.
// client нужен только для Register и Submit.
func New(c client.Client) *Controller {
	return &Controller{
		client: c,
		state:  NewState(),
	}
}

// Snapshot возвращает копию текущего состояния для отрисовки.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Clone()
}

// EditField записывает ввод пользователя в поле формы. Числовые поля принимают
// только целые числа, пустой ввод дает 0. При ошибке состояние не меняется.
func (c *Controller) EditField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldFIO:
		c.state.FIO = value
	case FieldRole:
		role, err := models.ParseRole(value)
		if err != nil {
			return err
		}
		c.state.Role = role
	case FieldSectionID:
		n, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		c.state.SectionID = n
	case FieldScore:
		n, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		c.state.Score = n
	case FieldComments:
		c.state.Comments = value
	default:
		return fmt.Errorf("%w: %v", ErrUnknownField, field)
	}

	return nil
}

// SetRole выбирает роль из перечисления.
func (c *Controller) SetRole(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidRole, role)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Role = role
	return nil
}

func parseNumber(field Field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%v: %w: %q", field, ErrInvalidNumber, value)
	}
	return n, nil
}

// SelectPhotos заменяет весь выбор фотографий.
func (c *Controller) SelectPhotos(photos []models.Photo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Photos = slices.Clone(photos)
	if c.state.Photos == nil {
		c.state.Photos = []models.Photo{}
	}
}

// BeginRegistration переводит форму в ожидание регистрации и отдает данные для запроса.
// Повторный вызов до завершения предыдущего возвращает ErrRegistrationPending.
func (c *Controller) BeginRegistration() (models.RegistrationDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Identity == RegistrationPending {
		return models.RegistrationDraft{}, ErrRegistrationPending
	}

	c.state.Identity = RegistrationPending
	c.state.RegistrationError = ""

	return c.state.Registration(), nil
}

// CompleteRegistration применяет результат запроса регистрации.
// При ошибке форма возвращается в состояние до запроса, прежний идентификатор сохраняется.
func (c *Controller) CompleteRegistration(user models.RegisteredUser, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Identity != RegistrationPending {
		slog.Warn("registration completed without pending request", "identity", c.state.Identity)
		return
	}

	if err == nil && user.ID == "" {
		err = client.ErrMissingID
	}

	if err != nil {
		c.state.RegistrationError = err.Error()
		if c.state.UserID != "" {
			c.state.Identity = Registered
		} else {
			c.state.Identity = Unregistered
		}
		return
	}

	c.state.UserID = user.ID
	c.state.Identity = Registered
	c.state.RegistrationError = ""
}

// BeginSubmission проверяет, что пользователь зарегистрирован, и отдает данные
// для отправки. Без регистрации возвращает ErrNotRegistered, во время регистрации -
// ErrRegistrationPending; в обоих случаях состояние не меняется.
// Параллельные отправки не запрещены.
func (c *Controller) BeginSubmission() (models.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Identity {
	case RegistrationPending:
		return models.Submission{}, ErrRegistrationPending
	case Registered:
	default:
		return models.Submission{}, ErrNotRegistered
	}

	c.state.InFlight++
	c.state.Submission = SubmissionPending

	return models.Submission{
		ChecklistDraft: c.state.Checklist(),
		UserID:         c.state.UserID,
	}, nil
}

// CompleteSubmission применяет результат отправки. Поля формы не очищаются.
// Успешный ответ заменяет прежний результат, ошибка оставляет его на месте.
func (c *Controller) CompleteSubmission(result models.SubmissionResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.InFlight == 0 {
		slog.Warn("submission completed without pending request")
		return
	}
	c.state.InFlight--

	if err != nil {
		c.state.SubmissionError = err.Error()
		c.state.Submission = SubmissionFailed
	} else {
		r := models.SubmissionResult{Raw: slices.Clone(result.Raw)}
		c.state.Result = &r
		c.state.SubmissionError = ""
		c.state.Submission = SubmissionDone
	}

	if c.state.InFlight > 0 {
		c.state.Submission = SubmissionPending
	}
}

// Register регистрирует пользователя с текущими ФИО и ролью.
func (c *Controller) Register(ctx context.Context) (models.RegisteredUser, error) {
	log := slog.With("op", "register")

	draft, err := c.BeginRegistration()
	if err != nil {
		return models.RegisteredUser{}, err
	}

	user, err := c.client.RegisterUser(ctx, draft)
	c.CompleteRegistration(user, err)
	if err != nil {
		log.Error("registration failed", "error", err)
		return models.RegisteredUser{}, err
	}

	log.Info("user registered", "userID", user.ID, "role", draft.Role)
	return user, nil
}

// Submit отправляет чеклист с текущими полями формы.
func (c *Controller) Submit(ctx context.Context) (models.SubmissionResult, error) {
	log := slog.With("op", "submit")

	submission, err := c.BeginSubmission()
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			log.Warn("submission blocked", "error", err)
		}
		return models.SubmissionResult{}, err
	}

	result, err := c.client.SubmitChecklist(ctx, submission)
	c.CompleteSubmission(result, err)
	if err != nil {
		log.Error("submission failed", "error", err)
		return models.SubmissionResult{}, err
	}

	log.Info("checklist submitted",
		"sectionID", submission.SectionID,
		"score", submission.Score,
		"photos", len(submission.Photos))
	return result, nil
}
