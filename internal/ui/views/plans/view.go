package plans

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plandto "studyplan/internal/modules/plan/dto"
	"studyplan/internal/ui/theme"
)

type Port interface {
	List(ctx context.Context) ([]plandto.PlanOutput, error)
}

type LoadedMsg struct {
	Plans []plandto.PlanOutput
	Err   error
}

type planItem struct {
	plan  plandto.PlanOutput
	names map[string]string
}

func (i planItem) Title() string { return i.plan.Name }

func (i planItem) Description() string {
	if len(i.plan.SubjectIDs) == 0 {
		return "no subjects"
	}
	parts := make([]string, 0, len(i.plan.SubjectIDs))
	for _, id := range i.plan.SubjectIDs {
		if name, ok := i.names[id]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, id)
		}
	}
	return fmt.Sprintf("%d subjects: %s", len(parts), strings.Join(parts, ", "))
}

func (i planItem) FilterValue() string { return i.plan.Name }

type Model struct {
	port   Port
	list   list.Model
	plans  []plandto.PlanOutput
	names  map[string]string
	status string
	width  int
	height int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Study plans"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	return Model{port: port, list: l, names: map[string]string{}}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		plans, err := m.port.List(context.Background())
		return LoadedMsg{Plans: plans, Err: err}
	}
}

// SetSubjectNames lets plan rows show subject names instead of ids.
func (m *Model) SetSubjectNames(names map[string]string) tea.Cmd {
	m.names = names
	return m.refresh()
}

func (m *Model) refresh() tea.Cmd {
	items := make([]list.Item, len(m.plans))
	for i, p := range m.plans {
		items[i] = planItem{plan: p, names: m.names}
	}
	return m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-1, 1))
		return m, nil
	case LoadedMsg:
		if msg.Err != nil {
			m.status = "plans reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = ""
		m.plans = msg.Plans
		return m, m.refresh()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) CapturingInput() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	if len(m.plans) == 0 && m.status == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No study plans yet. Create one with `studyplan plans create`."))
	}
	if m.status != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), theme.Muted.Render(m.status))
	}
	return m.list.View()
}
