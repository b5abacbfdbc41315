package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/letsssgooo/checklist/internal/form"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	focusedButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("205")).
				Foreground(lipgloss.Color("205"))

	alertStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("9"))
)

func (m Model) View() string {
	if m.alert != "" {
		return m.viewAlert()
	}

	state := m.form.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Checklist Submission"))
	b.WriteString("\n")

	m.writeField(&b, focusFIO, "ФИО", m.fio.View(), "")
	m.writeField(&b, focusRole, "Роль", fmt.Sprintf("< %s >", state.Role.Label()), "")
	b.WriteString(m.button(focusRegister, "Зарегистрировать/Выбрать пользователя"))
	b.WriteString("\n")
	b.WriteString(identityLine(state))
	b.WriteString("\n\n")

	m.writeField(&b, focusSectionID, "Section ID", m.sectionID.View(), m.fieldErrors[form.FieldSectionID])
	m.writeField(&b, focusScore, "Score", m.score.View(), m.fieldErrors[form.FieldScore])
	m.writeField(&b, focusComments, "Комментарий", m.comments.View(), "")
	m.writeField(&b, focusPhotos, "Фото", m.photoPath.View(), m.photoError)
	for _, p := range state.Photos {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  • %s (%s, %d байт)", p.Name, p.ContentType, p.Size())))
		b.WriteString("\n")
	}

	b.WriteString(m.button(focusSubmit, "Отправить чеклист"))
	b.WriteString("\n")
	if line := submissionLine(state); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) writeField(b *strings.Builder, focus focusRegion, label, value, errText string) {
	style := labelStyle
	if m.focus == focus {
		style = focusedLabelStyle
	}

	b.WriteString(style.Render(label))
	b.WriteString("\n")
	b.WriteString(value)
	b.WriteString("\n")
	if errText != "" {
		b.WriteString(errorStyle.Render(errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m Model) button(focus focusRegion, text string) string {
	if m.focus == focus {
		return focusedButtonStyle.Render(text)
	}
	return buttonStyle.Render(text)
}

func identityLine(state form.State) string {
	var line string
	switch state.Identity {
	case form.Registered:
		line = successStyle.Render("Пользователь: " + state.UserID)
	case form.RegistrationPending:
		line = dimStyle.Render("Регистрация...")
	default:
		line = dimStyle.Render("Не зарегистрирован")
	}

	if state.RegistrationError != "" {
		line += "\n" + errorStyle.Render("Ошибка регистрации: "+state.RegistrationError)
	}
	return line
}

func submissionLine(state form.State) string {
	var lines []string

	if state.Submission == form.SubmissionPending {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Отправка... (%d)", state.InFlight)))
	}
	if state.Submission == form.SubmissionFailed && state.SubmissionError != "" {
		lines = append(lines, errorStyle.Render("Ошибка отправки: "+state.SubmissionError))
	}
	if state.Result != nil {
		lines = append(lines, successStyle.Render("Результат отправки: "+state.Result.Text()))
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewAlert() string {
	box := alertStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			errorStyle.Bold(true).Render(m.alert),
			"",
			dimStyle.Render("Enter - OK"),
		),
	)
	return lipgloss.Place(m.width+4, 0, lipgloss.Center, lipgloss.Top, box)
}
