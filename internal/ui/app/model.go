package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "studyplan/internal/modules/timer/dto"
	"studyplan/internal/ui/components"
	"studyplan/internal/ui/theme"
	plansview "studyplan/internal/ui/views/plans"
	subjectsview "studyplan/internal/ui/views/subjects"
	summaryview "studyplan/internal/ui/views/summary"
	weekview "studyplan/internal/ui/views/week"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type TimerPort interface {
	Sync(ctx context.Context, subjectIDs []string) (timerdto.BoardOutput, error)
	Tick() timerdto.BoardOutput
	Start(ctx context.Context, subjectID string) (timerdto.TimerOutput, error)
	Stop(ctx context.Context, subjectID string) (timerdto.StopOutput, error)
	Snapshot() timerdto.BoardOutput
	Summary(ctx context.Context) (timerdto.SummaryOutput, error)
	ExportSummary(ctx context.Context, dir string) (timerdto.ExportOutput, error)
}

// Ports groups what the root model needs from the application layer.
type Ports struct {
	Subjects subjectsview.Port
	Timer    TimerPort
	Week     weekview.Port
	Plans    plansview.Port
}

type Options struct {
	TickInterval time.Duration
	Today        time.Time
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSubjects tabID = iota
	tabWeek
	tabSummary
	tabPlans
	tabCount
)

var tabLabels = [tabCount]string{"Subjects", "Week", "Summary", "Plans"}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type boardSyncedMsg struct {
	board timerdto.BoardOutput
	err   error
}

type timerStartedMsg struct {
	name  string
	timer timerdto.TimerOutput
	err   error
}

type timerStoppedMsg struct {
	name string
	out  timerdto.StopOutput
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Edit    key.Binding
	Reload  key.Binding
	Week    key.Binding
	AddTask key.Binding
	Toggle  key.Binding
	Save    key.Binding
	Discard key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start timer")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop timer")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Week:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "prev/next week")),
		AddTask: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save week")),
		Discard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discard draft")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Stop, k.Edit, k.Reload},
		{k.Week, k.AddTask, k.Toggle, k.Save, k.Discard},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the stopwatch
// tick, the alert overlay, help and the command palette. Network work runs
// in tea.Cmds and comes back as messages.
type Model struct {
	timer        TimerPort
	tickInterval time.Duration
	today        time.Time

	subjView  subjectsview.Model
	weekView  weekview.Model
	sumView   summaryview.Model
	plansView plansview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	alert     components.Alert
	board     timerdto.BoardOutput
	status    string
	width     int
	height    int
}

func NewModel(ports Ports, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	return Model{
		timer:        ports.Timer,
		tickInterval: opts.TickInterval,
		today:        opts.Today,
		subjView:     subjectsview.New(ports.Subjects),
		weekView:     weekview.New(ports.Week, opts.Today),
		sumView:      summaryview.New(ports.Timer),
		plansView:    plansview.New(ports.Plans),
		activeTab:    tabSubjects,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.subjView.Init(),
		m.weekView.Init(),
		m.sumView.Init(),
		m.plansView.Init(),
		m.tickCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays take every key while open; other messages keep flowing so the
	// stopwatch does not freeze behind them.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.alert.Visible() {
			var cmd tea.Cmd
			m.alert, cmd = m.alert.Update(keyMsg)
			return m, cmd
		}
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(keyMsg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.alert.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		m.board = m.timer.Tick()
		cmd := m.subjView.SetBoard(m.board)
		return m, tea.Batch(cmd, m.tickCmd())

	case boardSyncedMsg:
		m.board = msg.board
		if msg.err != nil {
			m.status = "timer sync: " + msg.err.Error()
		}
		cmd := m.subjView.SetBoard(m.board)
		return m, cmd

	case timerStartedMsg:
		m.board = m.timer.Snapshot()
		cmd := m.subjView.SetBoard(m.board)
		if msg.err != nil {
			m.alert.Show("Could not start timer", fmt.Sprintf("%s: %v", msg.name, msg.err))
			return m, cmd
		}
		m.status = "timer started: " + msg.name
		return m, cmd

	case timerStoppedMsg:
		m.board = m.timer.Snapshot()
		cmd := m.subjView.SetBoard(m.board)
		if msg.err != nil {
			m.alert.Show("Could not stop timer", fmt.Sprintf("%s: %v", msg.name, msg.err))
			return m, cmd
		}
		m.status = fmt.Sprintf("timer stopped: %s (%s)", msg.name, msg.out.FormattedDuration)
		if msg.out.SummaryRefreshed {
			m.sumView.SetSummary(msg.out.Summary)
		}
		return m, cmd

	case components.AlertDismissedMsg:
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case subjectsview.LoadedMsg:
		var cmd tea.Cmd
		m.subjView, cmd = m.subjView.Update(msg)
		if msg.Err != nil {
			m.status = "subjects: " + msg.Err.Error()
			return m, cmd
		}
		namesCmd := m.plansView.SetSubjectNames(m.subjView.Names())
		return m, tea.Batch(cmd, m.syncCmd(), namesCmd)

	case subjectsview.ScheduleUpdatedMsg:
		var cmd tea.Cmd
		m.subjView, cmd = m.subjView.Update(msg)
		if msg.Err != nil {
			m.status = "time block not saved: " + msg.Err.Error()
		} else {
			m.status = "time block saved: " + msg.Subject.Name
		}
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.subjView, cmd = m.subjView.Update(msg)
		return m, cmd

	case weekview.LoadedMsg, weekview.ChangedMsg, weekview.SavedMsg:
		var cmd tea.Cmd
		m.weekView, cmd = m.weekView.Update(msg)
		return m, cmd

	case summaryview.LoadedMsg, summaryview.ExportedMsg:
		var cmd tea.Cmd
		m.sumView, cmd = m.sumView.Update(msg)
		return m, cmd

	case plansview.LoadedMsg:
		var cmd tea.Cmd
		m.plansView, cmd = m.plansView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.capturingInput() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		}
		if handled, next, cmd := m.handleTabKey(msg); handled {
			return next, cmd
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSubjects:
		m.subjView, tabCmd = m.subjView.Update(msg)
	case tabWeek:
		m.weekView, tabCmd = m.weekView.Update(msg)
	case tabSummary:
		m.sumView, tabCmd = m.sumView.Update(msg)
	case tabPlans:
		m.plansView, tabCmd = m.plansView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// handleTabKey runs the per-tab shortcuts owned by the root model.
func (m Model) handleTabKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch m.activeTab {
	case tabSubjects:
		switch msg.String() {
		case "s":
			next, cmd := m.startSelected()
			return true, next, cmd
		case "x":
			next, cmd := m.stopSelected()
			return true, next, cmd
		case "e":
			cmd := m.subjView.StartEdit()
			return true, m, cmd
		case "r":
			m.status = "reloading subjects"
			return true, m, m.subjView.Reload()
		}
	case tabSummary:
		if msg.String() == "r" {
			return true, m, m.sumView.Refresh()
		}
	case tabPlans:
		if msg.String() == "r" {
			return true, m, m.plansView.Reload()
		}
	}
	return false, m, nil
}

func (m Model) startSelected() (Model, tea.Cmd) {
	subject, ok := m.subjView.SelectedSubject()
	if !ok {
		m.status = "no subject selected"
		return m, nil
	}
	if m.subjView.SelectedActive() {
		m.status = subject.Name + " is already running"
		return m, nil
	}
	return m, m.startCmd(subject.ID, subject.Name)
}

func (m Model) stopSelected() (Model, tea.Cmd) {
	subject, ok := m.subjView.SelectedSubject()
	if !ok {
		m.status = "no subject selected"
		return m, nil
	}
	return m, m.stopCmd(subject.ID, subject.Name)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.alert.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.alert.View())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSubjects:
		return m.subjView.View()
	case tabWeek:
		return m.weekView.View()
	case tabSummary:
		return m.sumView.View()
	case tabPlans:
		return m.plansView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabWeek && m.weekView.Dirty() {
			label += "*"
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "studyplan  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if n := m.board.ActiveCount; n > 0 {
		left = theme.Running.Render(fmt.Sprintf("● %d running", n)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "timer:start":
		m.activeTab = tabSubjects
		return m.startSelected()
	case "timer:stop":
		m.activeTab = tabSubjects
		return m.stopSelected()
	case "timer:sync":
		return m, m.syncCmd()
	case "subject:time":
		subject, ok := m.subjView.SelectedSubject()
		if !ok || len(parts) < 2 {
			m.status = "usage: subject:time <HH:MM> <HH:MM> (with a subject selected)"
			return m, nil
		}
		end := ""
		if len(parts) > 2 {
			end = parts[2]
		}
		return m, m.updateScheduleCmd(subject.ID, parts[1], end)
	case "week:goto":
		if len(parts) < 2 {
			m.status = "usage: week:goto <YYYY-MM-DD>"
			return m, nil
		}
		m.activeTab = tabWeek
		cmd := m.weekView.Goto(parts[1])
		return m, cmd
	case "week:today":
		m.activeTab = tabWeek
		cmd := m.weekView.Goto(m.today.Format("2006-01-02"))
		return m, cmd
	case "week:save":
		return m, m.weekView.Save()
	case "week:discard":
		return m, m.weekView.Discard()
	case "summary:refresh":
		m.activeTab = tabSummary
		return m, m.sumView.Refresh()
	case "summary:export":
		if len(parts) < 2 {
			m.status = "usage: summary:export <dir>"
			return m, nil
		}
		m.activeTab = tabSummary
		return m, m.sumView.Export(parts[1])
	case "plans:reload":
		m.activeTab = tabPlans
		return m, m.plansView.Reload()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// capturingInput reports whether the active tab has a text field or filter
// open, in which case global bindings yield so the user can type freely.
func (m Model) capturingInput() bool {
	switch m.activeTab {
	case tabSubjects:
		return m.subjView.CapturingInput()
	case tabWeek:
		return m.weekView.CapturingInput()
	case tabPlans:
		return m.plansView.CapturingInput()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.subjView, _ = m.subjView.Update(sz)
	m.weekView, _ = m.weekView.Update(sz)
	m.sumView, _ = m.sumView.Update(sz)
	m.plansView, _ = m.plansView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

// tickCmd is re-armed on every tickMsg and dies with the program.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) syncCmd() tea.Cmd {
	ids := m.subjView.SubjectIDs()
	return func() tea.Msg {
		board, err := m.timer.Sync(context.Background(), ids)
		return boardSyncedMsg{board: board, err: err}
	}
}

func (m Model) startCmd(subjectID, name string) tea.Cmd {
	return func() tea.Msg {
		timer, err := m.timer.Start(context.Background(), subjectID)
		return timerStartedMsg{name: name, timer: timer, err: err}
	}
}

func (m Model) stopCmd(subjectID, name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.Stop(context.Background(), subjectID)
		return timerStoppedMsg{name: name, out: out, err: err}
	}
}

func (m Model) updateScheduleCmd(id, start, end string) tea.Cmd {
	return m.subjView.UpdateScheduleCmd(id, start, end)
}
