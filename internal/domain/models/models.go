package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Файл с моделями, которыми обмениваются форма, клиент API и интерфейс.
// Все сущности живут только в памяти процесса.

// Role определяет роль регистрируемого пользователя.
type Role string

// Роли
const (
	RoleChecker  Role = "checker"
	RoleAdmin    Role = "admin"
	RoleObserver Role = "observer"
)

// DefaultRole выбирается в форме при запуске.
const DefaultRole = RoleChecker

// ErrInvalidRole возвращается при попытке выбрать роль вне перечисления.
var ErrInvalidRole = errors.New("invalid role")

var roles = []Role{RoleChecker, RoleAdmin, RoleObserver}

var roleLabels = map[Role]string{
	RoleChecker:  "Проверяющий",
	RoleAdmin:    "Админ",
	RoleObserver: "Наблюдатель",
}

// Roles возвращает все допустимые роли в порядке отображения.
func Roles() []Role {
	return append([]Role(nil), roles...)
}

// ParseRole валидирует строку и отдает роль.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleLabels[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return role, nil
}

// Valid сообщает, входит ли роль в перечисление.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label возвращает подпись роли для интерфейса.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Next возвращает следующую роль по кругу. Для недопустимой роли отдает первую.
func (r Role) Next() Role {
	return r.shift(1)
}

// Prev возвращает предыдущую роль по кругу.
func (r Role) Prev() Role {
	return r.shift(len(roles) - 1)
}

func (r Role) shift(step int) Role {
	for i, role := range roles {
		if role == r {
			return roles[(i+step)%len(roles)]
		}
	}
	return roles[0]
}

// RegistrationDraft данные для регистрации пользователя.
type RegistrationDraft struct {
	FIO  string `json:"fio"`
	Role Role   `json:"role"`
}

// RegisteredUser пользователь, которому бэкенд выдал идентификатор.
// ID непрозрачен для клиента: числовые идентификаторы хранятся в десятичной записи.
type RegisteredUser struct {
	ID string `json:"id"`
}

// Photo файл фотографии, выбранный для отправки.
type Photo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size возвращает размер фотографии в байтах.
func (p Photo) Size() int {
	return len(p.Data)
}

// ChecklistDraft данные чеклиста, которые вводит пользователь.
type ChecklistDraft struct {
	SectionID int     `json:"section_id"`
	Score     int     `json:"score"`
	Comments  string  `json:"comments"`
	Photos    []Photo `json:"photos"`
}

// Submission одна попытка отправки чеклиста от имени пользователя UserID.
type Submission struct {
	ChecklistDraft
	UserID string `json:"user_id"`
}

// SubmissionResult ответ бэкенда на отправку чеклиста. Отображается как есть.
type SubmissionResult struct {
	Raw json.RawMessage
}

// Text возвращает компактное JSON-представление результата.
func (r SubmissionResult) Text() string {
	if len(r.Raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Raw); err != nil {
		return string(r.Raw)
	}
	return buf.String()
}

// MarshalJSON отдает ответ бэкенда без изменений.
func (r SubmissionResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// UnmarshalJSON сохраняет копию исходного JSON.
func (r *SubmissionResult) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		r.Raw = nil
		return nil
	}
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}
