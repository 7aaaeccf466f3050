package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/autolayout/pkg/layout"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// resultKeys are the bindings of [ResultModel].
type resultKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Quit     key.Binding
}

var defaultResultKeys = resultKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k resultKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageDown, k.Quit}
}

func (k resultKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Home, k.End, k.Quit}}
}

// =============================================================================
// ResultModel - Interactive placement browser
// =============================================================================

// ResultModel is the bubbletea model of the inspect command. It scrolls
// through the placements of a result and shows the absolute geometry and
// the routes of the selected node.
type ResultModel struct {
	Result *layout.Result
	Cached bool
	Cursor int
	Height int
	Offset int

	rows [][]string
	keys resultKeys
	help help.Model
}

// NewResultModel creates a model over res.
func NewResultModel(res *layout.Result, cached bool) ResultModel {
	return ResultModel{
		Result: res,
		Cached: cached,
		Height: 15,
		rows:   placementRows(res),
		keys:   defaultResultKeys,
		help:   help.New(),
	}
}

func (m ResultModel) Init() tea.Cmd {
	return nil
}

func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.PageUp):
			m.move(-m.Height)
		case key.Matches(msg, m.keys.PageDown):
			m.move(m.Height)
		case key.Matches(msg, m.keys.Home):
			m.move(-len(m.rows))
		case key.Matches(msg, m.keys.End):
			m.move(len(m.rows))
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls it into view.
func (m *ResultModel) move(delta int) {
	m.Cursor = max(0, min(len(m.rows)-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ResultModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout " + m.Result.RunID))
	b.WriteString("\n")
	b.WriteString(runSummary(m.Result, m.Cached))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	b.WriteString(placementTable(m.rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	b.WriteString("\n\n")

	if len(m.rows) > 0 {
		b.WriteString(m.details(m.Result.Order[m.Cursor]))
	}
	if lines := rejectionLines(m.Result); len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(styleHeader.Render("Rejections"))
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString("  " + StyleDim.Render(l) + "\n")
		}
	}
	return b.String()
}

// details describes node id: its absolute rectangle and the routes that
// touch it.
func (m ResultModel) details(id string) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(detailKeyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}
	if r, ok := m.Result.Absolute(id); ok {
		line("absolute", fmt.Sprintf("(%s, %s) %s×%s", fmtNum(r.X), fmtNum(r.Y), fmtNum(r.W), fmtNum(r.H)))
	}
	var routes []string
	for _, rt := range m.Result.Routes {
		switch id {
		case rt.From:
			routes = append(routes, fmt.Sprintf("%s → %s (%d pts)", rt.Connection, rt.To, len(rt.Points)))
		case rt.To:
			routes = append(routes, fmt.Sprintf("%s ← %s (%d pts)", rt.Connection, rt.From, len(rt.Points)))
		}
	}
	if len(routes) > 0 {
		line("routes", strings.Join(routes, ", "))
	}
	return b.String()
}
