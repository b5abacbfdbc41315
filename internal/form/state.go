package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/letsssgooo/checklist/internal/domain/models"
)

// IdentityState состояние регистрации пользователя.
type IdentityState int

const (
	// Unregistered пользователь ещё ни разу не был зарегистрирован.
	Unregistered IdentityState = iota
	// RegistrationPending запрос регистрации отправлен, ответа ещё нет.
	RegistrationPending
	// Registered бэкенд выдал идентификатор.
	Registered
)

var identityNames = map[IdentityState]string{
	Unregistered:        "unregistered",
	RegistrationPending: "pending",
	Registered:          "registered",
}

func (s IdentityState) String() string {
	if name, ok := identityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("IdentityState(%d)", int(s))
}

// MarshalText позволяет сериализовать состояние по имени.
func (s IdentityState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText разбирает имя состояния.
func (s *IdentityState) UnmarshalText(text []byte) error {
	for state, name := range identityNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown identity state %q", text)
}

// SubmissionState состояние отправки чеклиста.
type SubmissionState int

const (
	// SubmissionIdle ещё ничего не отправлялось.
	SubmissionIdle SubmissionState = iota
	// SubmissionPending есть хотя бы одна незавершенная отправка.
	SubmissionPending
	// SubmissionDone последняя завершенная отправка прошла успешно.
	SubmissionDone
	// SubmissionFailed последняя завершенная отправка завершилась ошибкой.
	SubmissionFailed
)

var submissionNames = map[SubmissionState]string{
	SubmissionIdle:    "idle",
	SubmissionPending: "pending",
	SubmissionDone:    "done",
	SubmissionFailed:  "failed",
}

func (s SubmissionState) String() string {
	if name, ok := submissionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SubmissionState(%d)", int(s))
}

// MarshalText позволяет сериализовать состояние по имени.
func (s SubmissionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText разбирает имя состояния.
func (s *SubmissionState) UnmarshalText(text []byte) error {
	for state, name := range submissionNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown submission state %q", text)
}

// Значения формы по умолчанию
const (
	DefaultSectionID = 1
	DefaultScore     = 0
)

// State полное состояние формы. Изменяется только через Controller.
type State struct {
	FIO       string         `json:"fio"`
	Role      models.Role    `json:"role"`
	Identity  IdentityState  `json:"identity"`
	UserID    string         `json:"user_id,omitempty"`
	SectionID int            `json:"section_id"`
	Score     int            `json:"score"`
	Comments  string         `json:"comments"`
	Photos    []models.Photo `json:"photos"`

	Submission SubmissionState          `json:"submission"`
	InFlight   int                      `json:"in_flight"`
	Result     *models.SubmissionResult `json:"result,omitempty"`

	RegistrationError string `json:"registration_error,omitempty"`
	SubmissionError   string `json:"submission_error,omitempty"`
}

// NewState возвращает состояние только что открытой формы.
func NewState() State {
	return State{
		Role:      models.DefaultRole,
		Identity:  Unregistered,
		SectionID: DefaultSectionID,
		Score:     DefaultScore,
		Photos:    []models.Photo{},
	}
}

// Registration черновик регистрации из текущих полей.
func (s State) Registration() models.RegistrationDraft {
	return models.RegistrationDraft{FIO: s.FIO, Role: s.Role}
}

// Checklist черновик чеклиста из текущих полей.
func (s State) Checklist() models.ChecklistDraft {
	return models.ChecklistDraft{
		SectionID: s.SectionID,
		Score:     s.Score,
		Comments:  s.Comments,
		Photos:    slices.Clone(s.Photos),
	}
}

// Clone возвращает копию, не разделяющую слайсы и указатели с исходным состоянием.
// Данные фотографий не копируются: они не изменяются после выбора.
func (s State) Clone() State {
	c := s
	c.Photos = slices.Clone(s.Photos)
	if c.Photos == nil {
		c.Photos = []models.Photo{}
	}
	if s.Result != nil {
		r := models.SubmissionResult{Raw: slices.Clone(s.Result.Raw)}
		c.Result = &r
	}
	return c
}

// Field поле формы, которое пользователь редактирует напрямую.
type Field int

const (
	FieldFIO Field = iota
	FieldRole
	FieldSectionID
	FieldScore
	FieldComments
)

func (f Field) String() string {
	switch f {
	case FieldFIO:
		return "fio"
	case FieldRole:
		return "role"
	case FieldSectionID:
		return "section_id"
	case FieldScore:
		return "score"
	case FieldComments:
		return "comments"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Ошибки формы
var (
	ErrNotRegistered       = errors.New("register user first")
	ErrRegistrationPending = fmt.Errorf("%w: registration is still in progress", ErrNotRegistered)
	ErrInvalidNumber       = errors.New("value must be an integer")
	ErrUnknownField        = errors.New("unknown field")
)

// MarshalState сериализует состояние в JSON.
func MarshalState(s State) ([]byte, error) {
	return json.Marshal(s)
}

// ErrInconsistentState возвращается UnmarshalState для состояния, которое
// не может получиться из переходов Controller.
var ErrInconsistentState = errors.New("inconsistent form state")

// UnmarshalState восстанавливает состояние из JSON. Данные фотографий не сериализуются.
// Запросы не переживают восстановление: незавершенная регистрация и отправки
// считаются прерванными.
func UnmarshalState(data []byte) (State, error) {
	s := NewState()
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	if !s.Role.Valid() {
		return State{}, fmt.Errorf("%w: %q", models.ErrInvalidRole, s.Role)
	}
	if s.Identity == Registered && s.UserID == "" {
		return State{}, fmt.Errorf("%w: registered without user_id", ErrInconsistentState)
	}
	if s.InFlight < 0 {
		return State{}, fmt.Errorf("%w: in_flight is %d", ErrInconsistentState, s.InFlight)
	}

	if s.Identity == RegistrationPending {
		s.Identity = Unregistered
		if s.UserID != "" {
			s.Identity = Registered
		}
	}

	s.InFlight = 0
	if s.Submission == SubmissionPending {
		switch {
		case s.SubmissionError != "":
			s.Submission = SubmissionFailed
		case s.Result != nil:
			s.Submission = SubmissionDone
		default:
			s.Submission = SubmissionIdle
		}
	}
	return s, nil
}
