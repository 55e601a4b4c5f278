package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	timerdto "studyplan/internal/modules/timer/dto"
	"studyplan/internal/platform/weekdate"
	"studyplan/internal/ui/theme"
)

type Port interface {
	Summary(ctx context.Context) (timerdto.SummaryOutput, error)
	ExportSummary(ctx context.Context, dir string) (timerdto.ExportOutput, error)
}

type LoadedMsg struct {
	Summary timerdto.SummaryOutput
	Err     error
}

type ExportedMsg struct {
	Out timerdto.ExportOutput
	Err error
}

type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	summary  timerdto.SummaryOutput
	loaded   bool
	status   string
	width    int
	height   int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text)
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{port: port, viewport: vp, renderer: r}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.Summary(context.Background())
		return LoadedMsg{Summary: s, Err: err}
	}
}

func (m Model) Export(dir string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.ExportSummary(context.Background(), dir)
		return ExportedMsg{Out: out, Err: err}
	}
}

// SetSummary shows a summary fetched elsewhere, e.g. after a timer stop.
func (m *Model) SetSummary(s timerdto.SummaryOutput) {
	m.summary = s
	m.loaded = true
	m.status = ""
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		if r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(m.width),
		); err == nil {
			m.renderer = r
		}
		if m.loaded {
			m.viewport.SetContent(m.render())
		}
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = "summary refresh failed: " + msg.Err.Error()
			return m, nil
		}
		m.SetSummary(msg.Summary)
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.status = "exported to " + msg.Out.Path
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Markdown is the summary as a Markdown document.
func Markdown(s timerdto.SummaryOutput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Week of %s\n\n", weekdate.Format(s.WeekStart)))
	if len(s.Entries) == 0 {
		sb.WriteString("_No study time recorded yet._\n")
		return sb.String()
	}
	sb.WriteString("| Subject | Time |\n|---|---:|\n")
	for _, e := range s.Entries {
		name := e.SubjectName
		if name == "" {
			name = e.SubjectID
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", strings.ReplaceAll(name, "|", "\\|"), e.Total))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | **%s** |\n", s.Total))
	return sb.String()
}

func (m Model) render() string {
	md := Markdown(m.summary)
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) View() string {
	if !m.loaded {
		msg := "loading summary…"
		if m.status != "" {
			msg = m.status
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(msg))
	}
	footer := theme.Muted.Render("r: refresh  ↑/↓: scroll  :summary:export <dir>")
	if m.status != "" {
		footer = theme.Muted.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}
