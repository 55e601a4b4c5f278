package week

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plannerdto "studyplan/internal/modules/planner/dto"
	"studyplan/internal/platform/weekdate"
	"studyplan/internal/ui/theme"
)

type Port interface {
	Show(ctx context.Context, date string) (plannerdto.WeekOutput, error)
	AddTask(ctx context.Context, date, day string) (plannerdto.TaskChangeOutput, error)
	UpdateTask(ctx context.Context, input plannerdto.UpdateTaskInput) (plannerdto.TaskChangeOutput, error)
	ToggleTask(ctx context.Context, date, day, taskID string) (plannerdto.TaskChangeOutput, error)
	Save(ctx context.Context, date string) (plannerdto.SaveWeekOutput, error)
	Discard(ctx context.Context, date string) (plannerdto.WeekOutput, error)
}

type LoadedMsg struct {
	Week plannerdto.WeekOutput
	Err  error
}

type ChangedMsg struct {
	Change plannerdto.TaskChangeOutput
	Err    error
}

type SavedMsg struct {
	Out plannerdto.SaveWeekOutput
	Err error
}

type editField int

const (
	editNone editField = iota
	editDescription
	editTime
)

type Model struct {
	port    Port
	date    string
	week    plannerdto.WeekOutput
	loaded  bool
	day     int
	task    int
	input   textinput.Model
	editing editField
	status  string
	width   int
	height  int
}

// New starts on the week containing today.
func New(port Port, today time.Time) Model {
	ti := textinput.New()
	ti.CharLimit = 120
	return Model{port: port, date: weekdate.Key(today), input: ti}
}

func (m Model) Init() tea.Cmd {
	return m.load(m.date)
}

func (m Model) load(date string) tea.Cmd {
	return func() tea.Msg {
		week, err := m.port.Show(context.Background(), date)
		return LoadedMsg{Week: week, Err: err}
	}
}

// Goto switches to the week containing date (YYYY-MM-DD).
func (m *Model) Goto(date string) tea.Cmd {
	t, err := weekdate.Parse(date)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.date = weekdate.Key(t)
	return m.load(m.date)
}

func (m *Model) shiftWeek(weeks int) tea.Cmd {
	t, err := weekdate.Parse(m.date)
	if err != nil {
		return nil
	}
	m.date = weekdate.Key(t.AddDate(0, 0, 7*weeks))
	return m.load(m.date)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)

	case LoadedMsg:
		if msg.Err != nil {
			m.status = "load failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.Week.WeekStart != m.date {
			// A slower response for a week we already left.
			return m, nil
		}
		m.week = msg.Week
		m.loaded = true
		m.status = ""
		m.clampCursor()

	case ChangedMsg:
		if msg.Err != nil {
			m.status = "edit failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.Change.Week.WeekStart == m.date {
			m.week = msg.Change.Week
			m.focusTask(msg.Change.Day, msg.Change.Task.ID)
		}
		m.status = ""

	case SavedMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = msg.Out.Message
		if msg.Out.WeekStart == m.date {
			return m, m.load(m.date)
		}

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "[":
		return m, m.shiftWeek(-1)
	case "]":
		return m, m.shiftWeek(1)
	case "left", "h":
		m.day = (m.day + len(m.week.Days) - 1) % max(len(m.week.Days), 1)
		m.task = 0
	case "right", "l":
		m.day = (m.day + 1) % max(len(m.week.Days), 1)
		m.task = 0
	case "up", "k":
		if m.task > 0 {
			m.task--
		}
	case "down", "j":
		if m.task < len(m.currentTasks())-1 {
			m.task++
		}
	case "a":
		if day, ok := m.currentDayKey(); ok {
			return m, m.addTaskCmd(day)
		}
	case " ":
		if day, task, ok := m.selected(); ok {
			return m, m.toggleCmd(day, task.ID)
		}
	case "e":
		if _, task, ok := m.selected(); ok {
			m.editing = editDescription
			m.input.SetValue(task.Description)
			return m, m.input.Focus()
		}
	case "t":
		if _, task, ok := m.selected(); ok {
			m.editing = editTime
			m.input.SetValue(task.Time)
			return m, m.input.Focus()
		}
	case "w":
		return m, m.Save()
	case "d":
		return m, m.Discard()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		field := "description"
		if m.editing == editTime {
			field = "time"
		}
		m.editing = editNone
		m.input.Blur()
		day, task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.updateCmd(plannerdto.UpdateTaskInput{
			Date: m.date, Day: day, TaskID: task.ID, Field: field, Value: m.input.Value(),
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) Save() tea.Cmd {
	date := m.date
	return func() tea.Msg {
		out, err := m.port.Save(context.Background(), date)
		return SavedMsg{Out: out, Err: err}
	}
}

func (m Model) Discard() tea.Cmd {
	date := m.date
	return func() tea.Msg {
		week, err := m.port.Discard(context.Background(), date)
		return LoadedMsg{Week: week, Err: err}
	}
}

func (m Model) Reload() tea.Cmd {
	return m.load(m.date)
}

func (m Model) addTaskCmd(day string) tea.Cmd {
	date := m.date
	return func() tea.Msg {
		change, err := m.port.AddTask(context.Background(), date, day)
		return ChangedMsg{Change: change, Err: err}
	}
}

func (m Model) toggleCmd(day, taskID string) tea.Cmd {
	date := m.date
	return func() tea.Msg {
		change, err := m.port.ToggleTask(context.Background(), date, day, taskID)
		return ChangedMsg{Change: change, Err: err}
	}
}

func (m Model) updateCmd(input plannerdto.UpdateTaskInput) tea.Cmd {
	return func() tea.Msg {
		change, err := m.port.UpdateTask(context.Background(), input)
		return ChangedMsg{Change: change, Err: err}
	}
}

func (m Model) currentDayKey() (string, bool) {
	if m.day < 0 || m.day >= len(m.week.Days) {
		return "", false
	}
	return m.week.Days[m.day].Key, true
}

func (m Model) currentTasks() []plannerdto.TaskOutput {
	if m.day < 0 || m.day >= len(m.week.Days) {
		return nil
	}
	return m.week.Days[m.day].Tasks
}

func (m Model) selected() (string, plannerdto.TaskOutput, bool) {
	day, ok := m.currentDayKey()
	tasks := m.currentTasks()
	if !ok || m.task < 0 || m.task >= len(tasks) {
		return "", plannerdto.TaskOutput{}, false
	}
	return day, tasks[m.task], true
}

func (m *Model) focusTask(day, taskID string) {
	for i, d := range m.week.Days {
		if d.Key != day {
			continue
		}
		m.day = i
		for j, t := range d.Tasks {
			if t.ID == taskID {
				m.task = j
			}
		}
	}
}

func (m *Model) clampCursor() {
	if m.day >= len(m.week.Days) {
		m.day = 0
	}
	if n := len(m.currentTasks()); m.task >= n {
		m.task = max(n-1, 0)
	}
}

// CapturingInput reports whether a text field has focus.
func (m Model) CapturingInput() bool { return m.editing != editNone }

func (m Model) Dirty() bool { return m.week.Draft }

func (m Model) View() string {
	var sb strings.Builder
	header := theme.Title.Render("Week of " + m.date)
	if m.week.Draft {
		header += "  " + theme.Draft.Render("● unsaved draft")
	}
	sb.WriteString(header + "\n\n")
	if !m.loaded {
		sb.WriteString(theme.Muted.Render("loading week…") + "\n")
	}
	for i, d := range m.week.Days {
		label := fmt.Sprintf("%s (%d)", d.Label, len(d.Tasks))
		if i == m.day {
			sb.WriteString(theme.Hot.Render("▸ "+label) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render("  "+label) + "\n")
		}
		for j, t := range d.Tasks {
			box := "[ ]"
			desc := t.Description
			if t.Completed {
				box = theme.Done.Render("[x]")
				desc = theme.Done.Render(desc)
			}
			cursor := "    "
			if i == m.day && j == m.task {
				cursor = theme.Hot.Render("  ➜ ")
			}
			sb.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, box, t.Time, desc))
		}
	}
	sb.WriteString("\n")
	switch m.editing {
	case editDescription:
		sb.WriteString(theme.Hot.Render("description: ") + m.input.View() + "\n")
	case editTime:
		sb.WriteString(theme.Hot.Render("time: ") + m.input.View() + "\n")
	default:
		sb.WriteString(theme.Muted.Render("[/]: week  ←/→: day  ↑/↓: task  a: add  space: done  e: text  t: time  w: save  d: discard") + "\n")
	}
	if m.status != "" {
		sb.WriteString(theme.Muted.Render(m.status) + "\n")
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}
