package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/letsssgooo/checklist/internal/client"
	"github.com/letsssgooo/checklist/internal/domain/models"
	"github.com/letsssgooo/checklist/internal/form"
	"github.com/letsssgooo/checklist/internal/photo"
)

// focusRegion элемент формы, который получает ввод с клавиатуры.
type focusRegion int

const (
	focusFIO focusRegion = iota
	focusRole
	focusRegister
	focusSectionID
	focusScore
	focusComments
	focusPhotos
	focusSubmit

	focusCount
)

// Тексты предупреждений
const (
	alertNotRegistered = "Сначала зарегистрируйте пользователя!"
	alertPending       = "Регистрация ещё не завершена, дождитесь ответа."
	alertFormErrors    = "Исправьте ошибки в форме"
)

const defaultWidth = 60

// registeredMsg приходит, когда запрос регистрации завершился.
type registeredMsg struct {
	user models.RegisteredUser
	err  error
}

// submittedMsg приходит, когда запрос отправки чеклиста завершился.
type submittedMsg struct {
	result models.SubmissionResult
	err    error
}

// Config зависимости модели.
type Config struct {
	Form    *form.Controller
	Client  client.Client
	Photos  *photo.Loader
	Timeout time.Duration
	Keys    *KeyMap // nil - DefaultKeyMap
}

// Model модель bubbletea для формы чеклиста. Все данные формы хранятся в
// form.Controller, поля ввода только отражают их.
type Model struct {
	form    *form.Controller
	client  client.Client
	photos  *photo.Loader
	timeout time.Duration
	keys    KeyMap
	help    help.Model

	fio       textinput.Model
	sectionID textinput.Model
	score     textinput.Model
	comments  textarea.Model
	photoPath textinput.Model

	focus focusRegion
	alert string // непустой - модальное предупреждение

	fieldErrors     map[form.Field]string
	photoError      string
	loadedPhotoPath string

	width int
}

// New создаёт модель с полями, заполненными из состояния формы.
func New(cfg Config) Model {
	keys := DefaultKeyMap
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = client.DefaultTimeout
	}
	if cfg.Photos == nil {
		cfg.Photos = photo.NewLoader(0)
	}

	state := cfg.Form.Snapshot()

	m := Model{
		form:        cfg.Form,
		client:      cfg.Client,
		photos:      cfg.Photos,
		timeout:     cfg.Timeout,
		keys:        keys,
		help:        help.New(),
		fieldErrors: make(map[form.Field]string),
		width:       defaultWidth,
	}

	m.fio = newInput("ФИО", state.FIO)
	m.sectionID = newInput("Section ID", strconv.Itoa(state.SectionID))
	m.score = newInput("Score", strconv.Itoa(state.Score))
	m.photoPath = newInput("пути через запятую или пробел", "")

	m.comments = textarea.New()
	m.comments.Placeholder = "Комментарий"
	m.comments.ShowLineNumbers = false
	m.comments.SetHeight(3)
	m.comments.SetWidth(defaultWidth)
	m.comments.SetValue(state.Comments)
	m.comments.Blur()

	m.fio.Focus()
	return m
}

func newInput(placeholder, value string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""
	input.Width = defaultWidth
	input.SetValue(value)
	return input
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 20)
		m.fio.Width = m.width
		m.sectionID.Width = m.width
		m.score.Width = m.width
		m.photoPath.Width = m.width
		m.comments.SetWidth(m.width)
		m.help.Width = msg.Width
		return m, nil

	case registeredMsg:
		m.form.CompleteRegistration(msg.user, msg.err)
		if msg.err != nil {
			slog.Error("registration failed", "error", msg.err)
		}
		return m, nil

	case submittedMsg:
		m.form.CompleteSubmission(msg.result, msg.err)
		if msg.err != nil {
			slog.Error("submission failed", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// модальное предупреждение перехватывает весь ввод
	if m.alert != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Register):
		return m.register()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	}

	switch m.focus {
	case focusRole:
		role := m.form.Snapshot().Role
		switch {
		case key.Matches(msg, m.keys.RoleNext):
			_ = m.form.SetRole(role.Next())
		case key.Matches(msg, m.keys.RolePrev):
			_ = m.form.SetRole(role.Prev())
		}
		return m, nil
	case focusRegister:
		if key.Matches(msg, m.keys.Activate) {
			return m.register()
		}
		return m, nil
	case focusSubmit:
		if key.Matches(msg, m.keys.Activate) {
			return m.submit()
		}
		return m, nil
	case focusPhotos:
		if key.Matches(msg, m.keys.Activate) {
			m.loadPhotos()
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

// updateFocused передает сообщение активному полю ввода и синхронизирует форму.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusFIO:
		m.fio, cmd = m.fio.Update(msg)
		m.editField(form.FieldFIO, m.fio.Value())
	case focusSectionID:
		m.sectionID, cmd = m.sectionID.Update(msg)
		m.editField(form.FieldSectionID, m.sectionID.Value())
	case focusScore:
		m.score, cmd = m.score.Update(msg)
		m.editField(form.FieldScore, m.score.Value())
	case focusComments:
		m.comments, cmd = m.comments.Update(msg)
		m.editField(form.FieldComments, m.comments.Value())
	case focusPhotos:
		m.photoPath, cmd = m.photoPath.Update(msg)
	}

	return m, cmd
}

func (m *Model) editField(field form.Field, value string) {
	if err := m.form.EditField(field, value); err != nil {
		m.fieldErrors[field] = "Введите целое число"
		return
	}
	delete(m.fieldErrors, field)
}

// loadPhotos заменяет выбор фотографий, если список путей изменился.
// При ошибке прежний выбор сохраняется.
func (m *Model) loadPhotos() {
	input := m.photoPath.Value()
	if input == m.loadedPhotoPath {
		m.photoError = ""
		return
	}

	photos, err := m.photos.LoadAll(photo.SplitPaths(input))
	if err != nil {
		m.photoError = err.Error()
		return
	}

	m.form.SelectPhotos(photos)
	m.photoError = ""
	m.loadedPhotoPath = input
}

func (m Model) moveFocus(step int) (tea.Model, tea.Cmd) {
	if m.focus == focusPhotos {
		m.loadPhotos()
	}

	m.blurAll()
	m.focus = (m.focus + focusRegion(step) + focusCount) % focusCount

	var cmd tea.Cmd
	switch m.focus {
	case focusFIO:
		cmd = m.fio.Focus()
	case focusSectionID:
		cmd = m.sectionID.Focus()
	case focusScore:
		cmd = m.score.Focus()
	case focusComments:
		cmd = m.comments.Focus()
	case focusPhotos:
		cmd = m.photoPath.Focus()
	}
	return m, cmd
}

func (m *Model) blurAll() {
	m.fio.Blur()
	m.sectionID.Blur()
	m.score.Blur()
	m.comments.Blur()
	m.photoPath.Blur()
}

func (m Model) register() (tea.Model, tea.Cmd) {
	draft, err := m.form.BeginRegistration()
	if err != nil {
		m.alert = alertPending
		return m, nil
	}

	c, timeout := m.client, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		user, err := c.RegisterUser(ctx, draft)
		return registeredMsg{user: user, err: err}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.focus == focusPhotos {
		m.loadPhotos()
	}

	// отправляется только то, что видно в форме
	if m.photoError != "" || len(m.fieldErrors) > 0 {
		m.alert = alertFormErrors
		return m, nil
	}

	submission, err := m.form.BeginSubmission()
	switch {
	case errors.Is(err, form.ErrRegistrationPending):
		m.alert = alertPending
		return m, nil
	case err != nil:
		m.alert = alertNotRegistered
		return m, nil
	}

	c, timeout := m.client, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := c.SubmitChecklist(ctx, submission)
		return submittedMsg{result: result, err: err}
	}
}
