package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"studyplan/internal/ui/theme"
)

// AlertDismissedMsg is emitted when the user closes the alert.
type AlertDismissedMsg struct{}

// Alert is a blocking notification. While visible it swallows every key
// except the ones that dismiss it.
type Alert struct {
	title   string
	message string
	visible bool
	width   int
}

func (a *Alert) Show(title, message string) {
	a.title = title
	a.message = message
	a.visible = true
}

func (a Alert) Visible() bool { return a.visible }

func (a Alert) Message() string { return a.message }

func (a *Alert) SetWidth(w int) { a.width = w }

func (a Alert) Update(msg tea.Msg) (Alert, tea.Cmd) {
	if !a.visible {
		return a, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc", " ":
			a.visible = false
			return a, func() tea.Msg { return AlertDismissedMsg{} }
		}
	}
	return a, nil
}

func (a Alert) View() string {
	if !a.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Error.Bold(true).Render(a.title) + "\n\n")
	sb.WriteString(a.message + "\n\n")
	sb.WriteString(theme.Muted.Render("enter/esc: dismiss"))
	w := a.width
	if w < 20 {
		w = 60
	}
	return theme.Alert.Width(w - 4).Render(sb.String())
}
