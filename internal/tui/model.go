package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"rrg/internal/rrg"
)

const footerKeys = " q quit  h help  a labels  t trails  click pick  left/right dates  del clear"

// Model is the bubbletea program state: the immutable scene, the
// interaction state machine, and the chart projection.
type Model struct {
	scene *rrg.Scene
	sm    *rrg.StateMachine
	chart *Chart

	helpView viewport.Model
	status   string

	width, height int
	ready         bool
	logger        *slog.Logger
}

func NewModel(scene *rrg.Scene, logger *slog.Logger) Model {
	sm := rrg.NewStateMachine(scene)
	return Model{
		scene:  scene,
		sm:     sm,
		chart:  NewChart(scene, sm),
		logger: logger,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chartH := m.height - 2 // title and footer bars
		if chartH < 1 {
			chartH = 1
		}
		m.chart.Resize(m.width, chartH)
		if !m.ready {
			m.helpView = viewport.New(m.width, chartH)
			m.helpView.SetContent(helpStyle.Render(helpText))
			m.ready = true
		} else {
			m.helpView.Width = m.width
			m.helpView.Height = chartH
		}
		return m, nil
	}

	if m.sm.HelpVisible() {
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "h":
		m.sm.Apply(rrg.ToggleHelp{})
	case "a":
		m.sm.Apply(rrg.ToggleText{})
	case "t":
		m.sm.Apply(rrg.ToggleLines{})
	case "delete", "backspace":
		m.sm.Apply(rrg.ClearAll{})
	case "left":
		m.sm.Apply(rrg.CycleDate{Step: -1})
	case "right":
		m.sm.Apply(rrg.CycleDate{Step: 1})
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.sm.HelpVisible() {
		return m, nil
	}

	// Row 0 is the title bar; the chart starts below it.
	col, row := msg.X, msg.Y-1
	if row < 0 || row >= m.height-2 {
		return m, nil
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id := m.chart.HitTest(col, row); id != "" {
			m.sm.Apply(rrg.Pick{ID: id})
			if e := m.scene.Entry(id); e != nil {
				m.logger.Info("picked", "symbol", e.Symbol,
					"highlighted", m.sm.MarkerVisibility(id) == rrg.ShownForced)
			}
		}
	case msg.Action == tea.MouseActionMotion:
		x, y := m.chart.CellToData(col, row)
		m.status = rrg.FormatCoords(x, y)
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	titleBar := titleBarStyle.Render(padOrTrunc(" "+m.scene.Title+" ", m.width))

	body := m.chart.Render()
	if m.sm.HelpVisible() {
		body = m.helpView.View()
	}

	footerLeft := footerKeys
	footerRight := ""
	if m.status != "" {
		footerRight = coordStyle.Render(m.status) + " "
	}
	gap := m.width - len(footerLeft) - len(m.status) - 1
	if gap < 0 {
		gap = 0
	}
	footerBar := footerStyle.Render(footerLeft) +
		footerStyle.Render(strings.Repeat(" ", gap)) +
		footerRight

	return fmt.Sprintf("%s\n%s\n%s", titleBar, body, footerBar)
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
