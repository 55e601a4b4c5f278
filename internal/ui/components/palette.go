package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyplan/internal/ui/theme"
)

// PaletteSubmitMsg carries the command line typed into the palette.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg reports that the palette was closed without a command.
type PaletteCancelMsg struct{}

// Command describes one palette entry. Args is shown after the name and
// Help next to it.
type Command struct {
	Name string
	Args string
	Help string
}

func (c Command) usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// Commands is what the root model's executePalette understands.
var Commands = []Command{
	{Name: "timer:start", Help: "start the selected subject's timer"},
	{Name: "timer:stop", Help: "stop the selected subject's timer"},
	{Name: "timer:sync", Help: "re-read every timer from the backend"},
	{Name: "subject:time", Args: "<HH:MM> [HH:MM]", Help: "set the selected subject's time block"},
	{Name: "week:goto", Args: "<YYYY-MM-DD>", Help: "open the week containing a date"},
	{Name: "week:today", Help: "open the current week"},
	{Name: "week:save", Help: "send the week draft to the backend"},
	{Name: "week:discard", Help: "drop unsaved week edits"},
	{Name: "summary:refresh", Help: "fetch this week's study totals"},
	{Name: "summary:export", Args: "<dir>", Help: "write the summary as a Markdown note"},
	{Name: "plans:reload", Help: "fetch study plans again"},
}

const maxSuggestions = 6

var (
	paletteBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle   = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

// Palette is the ':' command line. Typing filters Commands by name prefix,
// up/down picks a suggestion and tab completes it.
type Palette struct {
	input    textinput.Model
	visible  bool
	width    int
	selected int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "timer:start, week:goto 2026-03-02, summary:export ~/notes"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows an empty palette and focuses its input.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.selected = 0
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Suggestions lists the commands whose name starts with the first word of
// input. Once a full name and a space are typed only that command remains.
func Suggestions(input string) []Command {
	word, _, hasArgs := strings.Cut(strings.TrimLeft(strings.ToLower(input), " "), " ")
	var out []Command
	for _, c := range Commands {
		if hasArgs && c.Name != word {
			continue
		}
		if strings.HasPrefix(c.Name, word) {
			out = append(out, c)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "up":
			if p.selected > 0 {
				p.selected--
			}
			return p, nil
		case "down":
			if p.selected < len(Suggestions(p.input.Value()))-1 {
				p.selected++
			}
			return p, nil
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.selected = 0
	}
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// complete replaces the typed name with the selected suggestion. Commands
// that take arguments get a trailing space.
func (p *Palette) complete() {
	matches := Suggestions(p.input.Value())
	if len(matches) == 0 {
		return
	}
	c := matches[min(p.selected, len(matches)-1)]
	line := c.Name
	if c.Args != "" {
		line += " "
	}
	p.input.SetValue(line)
	p.input.CursorEnd()
	p.selected = 0
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Run a command") + "\n")
	sb.WriteString(p.input.View() + "\n")

	matches := Suggestions(p.input.Value())
	if len(matches) > 0 {
		sb.WriteString("\n")
	}
	for i, c := range matches {
		line := "  " + c.usage() + "  " + c.Help
		if i == p.selected {
			sb.WriteString(selectedStyle.Render("› "+c.usage()) + suggestionStyle.Render("  "+c.Help) + "\n")
			continue
		}
		sb.WriteString(suggestionStyle.Render(line) + "\n")
	}
	sb.WriteString(suggestionStyle.Render("tab: complete  ↑/↓: pick  enter: run  esc: close"))

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteBox.Width(w - 2).Render(sb.String())
}
