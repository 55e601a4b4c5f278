package subjects

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	subjectdto "studyplan/internal/modules/subject/dto"
	timerdto "studyplan/internal/modules/timer/dto"
	"studyplan/internal/ui/theme"
)

type Port interface {
	ListSubjects(ctx context.Context) ([]subjectdto.SubjectOutput, error)
	UpdateSchedule(ctx context.Context, id, start, end string) (subjectdto.SubjectOutput, error)
}

type LoadedMsg struct {
	Subjects []subjectdto.SubjectOutput
	Err      error
}

type ScheduleUpdatedMsg struct {
	Subject subjectdto.SubjectOutput
	Err     error
}

type subjectItem struct {
	subject subjectdto.SubjectOutput
	timer   timerdto.TimerOutput
}

func (i subjectItem) Title() string {
	if i.timer.Active {
		return theme.Running.Render("● ") + i.subject.Name
	}
	return i.subject.Name
}

func (i subjectItem) Description() string {
	block := "no time block"
	if i.subject.StartTime != "" || i.subject.EndTime != "" {
		block = fmt.Sprintf("%s – %s", orDash(i.subject.StartTime), orDash(i.subject.EndTime))
	}
	return fmt.Sprintf("%s   ⏱ %s", block, i.timer.Elapsed)
}

func (i subjectItem) FilterValue() string { return i.subject.Name }

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}

type Model struct {
	port     Port
	list     list.Model
	spinner  spinner.Model
	input    textinput.Model
	editing  bool
	editID   string
	loading  bool
	subjects []subjectdto.SubjectOutput
	board    timerdto.BoardOutput
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Subjects"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	ti := textinput.New()
	ti.Placeholder = "HH:MM HH:MM"
	ti.CharLimit = 16

	return Model{port: port, list: l, spinner: sp, input: ti, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the subject list again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.port.ListSubjects(context.Background())
		return LoadedMsg{Subjects: subjects, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-3, 1))
		m.input.Width = 20

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			// Stale items stay on screen.
			m.list.Title = "Subjects (reload failed)"
			return m, nil
		}
		m.list.Title = "Subjects"
		m.subjects = msg.Subjects
		cmds = append(cmds, m.refreshItems())

	case ScheduleUpdatedMsg:
		if msg.Err == nil {
			for i := range m.subjects {
				if m.subjects[i].ID == msg.Subject.ID {
					m.subjects[i] = msg.Subject
				}
			}
			cmds = append(cmds, m.refreshItems())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		fields := strings.Fields(m.input.Value())
		start, end := "", ""
		if len(fields) > 0 {
			start = fields[0]
		}
		if len(fields) > 1 {
			end = fields[1]
		}
		return m, m.UpdateScheduleCmd(m.editID, start, end)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// StartEdit opens the time-block editor on the selected subject.
func (m *Model) StartEdit() tea.Cmd {
	item, ok := m.list.SelectedItem().(subjectItem)
	if !ok {
		return nil
	}
	m.editing = true
	m.editID = item.subject.ID
	m.input.SetValue(strings.TrimSpace(item.subject.StartTime + " " + item.subject.EndTime))
	return m.input.Focus()
}

// SetBoard refreshes the stopwatch column from a timer snapshot.
func (m *Model) SetBoard(board timerdto.BoardOutput) tea.Cmd {
	m.board = board
	if m.loading {
		return nil
	}
	return m.refreshItems()
}

func (m *Model) refreshItems() tea.Cmd {
	items := make([]list.Item, len(m.subjects))
	for i, s := range m.subjects {
		items[i] = subjectItem{subject: s, timer: m.board.Timer(s.ID)}
	}
	return m.list.SetItems(items)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading subjects…")
	}
	footer := theme.Muted.Render("s: start  x: stop  e: edit time  r: reload  /: filter")
	if m.editing {
		footer = theme.Hot.Render("time block: ") + m.input.View() + theme.Muted.Render("  enter: save  esc: cancel")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), "", footer)
}

func (m Model) SelectedSubject() (subjectdto.SubjectOutput, bool) {
	if item, ok := m.list.SelectedItem().(subjectItem); ok {
		return item.subject, true
	}
	return subjectdto.SubjectOutput{}, false
}

// SelectedActive reports whether the selected subject's timer runs locally.
func (m Model) SelectedActive() bool {
	s, ok := m.SelectedSubject()
	return ok && m.board.Timer(s.ID).Active
}

func (m Model) SubjectIDs() []string {
	ids := make([]string, len(m.subjects))
	for i, s := range m.subjects {
		ids[i] = s.ID
	}
	return ids
}

// Names maps subject ids to names for other tabs.
func (m Model) Names() map[string]string {
	names := make(map[string]string, len(m.subjects))
	for _, s := range m.subjects {
		names[s.ID] = s.Name
	}
	return names
}

// CapturingInput reports whether keys should go to this view only.
func (m Model) CapturingInput() bool {
	return m.editing || m.list.FilterState() == list.Filtering
}

func (m Model) UpdateScheduleCmd(id, start, end string) tea.Cmd {
	return func() tea.Msg {
		subject, err := m.port.UpdateSchedule(context.Background(), id, start, end)
		return ScheduleUpdatedMsg{Subject: subject, Err: err}
	}
}
