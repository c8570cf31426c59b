package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rrg/internal/domain"
	"rrg/internal/rrg"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sceneFixture() *rrg.Scene {
	mkEntry := func(id, symbol string, pts [][2]float64) *rrg.SceneEntry {
		e := &rrg.SceneEntry{ID: id, Symbol: symbol, Label: symbol}
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, p := range pts {
			e.Tail = append(e.Tail, rrg.TailPoint{
				Date:     base.AddDate(0, 0, i),
				Ratio:    p[0],
				Momentum: p[1],
			})
			e.PathX = append(e.PathX, p[0])
			e.PathY = append(e.PathY, p[1])
		}
		head := e.Head()
		e.Quadrant = domain.Classify(head.Ratio, head.Momentum)
		return e
	}

	s := &rrg.Scene{
		Title:     "RRG - SPY - 04 Jan 2024",
		Benchmark: "SPY",
		Bounds:    rrg.Bounds{XMin: 97, XMax: 103, YMin: 97, YMax: 103},
	}
	s.Entries = append(s.Entries,
		mkEntry("s0", "AAPL", [][2]float64{{98, 99}, {99, 100.5}, {100.5, 101}, {102, 102}}),
		mkEntry("s1", "MSFT", [][2]float64{{101, 101}, {100, 100}, {99, 99}, {98, 98.5}}),
	)
	return s
}

func newChartFixture(w, h int) (*Chart, *rrg.StateMachine) {
	scene := sceneFixture()
	sm := rrg.NewStateMachine(scene)
	c := NewChart(scene, sm)
	c.Resize(w, h)
	return c, sm
}

func TestDataToCellCorners(t *testing.T) {
	c, _ := newChartFixture(80, 24)

	col, row := c.DataToCell(97, 103) // top-left of bounds
	if col != 0 || row != 0 {
		t.Errorf("top-left maps to (%d, %d), want (0, 0)", col, row)
	}
	col, row = c.DataToCell(103, 97) // bottom-right
	if col != 79 || row != 23 {
		t.Errorf("bottom-right maps to (%d, %d), want (79, 23)", col, row)
	}
}

func TestCellToDataRoundTrip(t *testing.T) {
	c, _ := newChartFixture(80, 24)

	x, y := c.CellToData(40, 12)
	col, row := c.DataToCell(x, y)
	if col != 40 || row != 12 {
		t.Errorf("round trip gave (%d, %d), want (40, 12)", col, row)
	}
	if x < 97 || x > 103 || y < 97 || y > 103 {
		t.Errorf("center cell maps outside bounds: (%.2f, %.2f)", x, y)
	}
}

func TestHitTest(t *testing.T) {
	c, _ := newChartFixture(80, 24)

	head := c.scene.Entries[0].Head()
	col, row := c.DataToCell(head.Ratio, head.Momentum)

	if got := c.HitTest(col, row); got != "s0" {
		t.Errorf("exact hit = %q, want s0", got)
	}
	if got := c.HitTest(col+1, row-1); got != "s0" {
		t.Errorf("adjacent hit = %q, want s0", got)
	}
	if got := c.HitTest(0, 0); got != "" {
		t.Errorf("far miss = %q, want empty", got)
	}
}

func TestRenderShowsAxesAndCaptions(t *testing.T) {
	c, _ := newChartFixture(80, 24)
	out := c.Render()

	for _, q := range []string{"Leading", "Weakening", "Improving", "Lagging"} {
		if !strings.Contains(out, q) {
			t.Errorf("render missing %s caption", q)
		}
	}
	if !strings.Contains(out, "┼") {
		t.Error("render missing the benchmark cross")
	}
	if lines := strings.Count(out, "\n") + 1; lines != 24 {
		t.Errorf("render produced %d lines, want 24", lines)
	}
}

func TestRenderShowsHeadsBeforeAnyInteraction(t *testing.T) {
	c, _ := newChartFixture(80, 24)
	out := c.Render()

	if got := strings.Count(out, string(headRune)); got != 2 {
		t.Errorf("initial render has %d head markers, want one per entry (2)", got)
	}
	if strings.ContainsRune(out, markerRune) {
		t.Error("history markers should stay hidden until toggled or picked")
	}
}

func TestRenderHonorsVisibility(t *testing.T) {
	c, sm := newChartFixture(80, 24)

	if out := c.Render(); strings.Contains(out, "AAPL") || strings.ContainsRune(out, markerRune) {
		t.Error("hidden entries should render no labels or history markers")
	}

	sm.Apply(rrg.ToggleText{})
	if out := c.Render(); !strings.Contains(out, "AAPL") || !strings.Contains(out, "MSFT") {
		t.Error("labels should appear once texts are toggled on")
	}

	sm.Apply(rrg.Pick{ID: "s0"})
	if out := c.Render(); !strings.ContainsRune(out, markerRune) {
		t.Error("a picked entry should render its history markers")
	}
}

func TestRenderShowsDateLabel(t *testing.T) {
	c, sm := newChartFixture(80, 24)
	sm.Apply(rrg.Pick{ID: "s0"})
	sm.Apply(rrg.CycleDate{Step: 1})

	if out := c.Render(); !strings.Contains(out, "01 Jan 2024") {
		t.Error("first cycle should render the oldest tail date")
	}
}

func TestModelKeysDriveStateMachine(t *testing.T) {
	m := NewModel(sceneFixture(), discardLogger())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 26})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = next.(Model)
	if !m.sm.TextsOn() {
		t.Error("a should toggle texts on")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = next.(Model)
	if !m.sm.LinesOn() {
		t.Error("t should toggle lines on")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = next.(Model)
	if !m.sm.HelpVisible() {
		t.Error("h should show help")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	m = next.(Model)
	if m.sm.HighlightCount() != 0 {
		t.Error("delete should clear highlights")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelMousePickAndCoords(t *testing.T) {
	m := NewModel(sceneFixture(), discardLogger())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 26})
	m = next.(Model)

	head := m.scene.Entries[0].Head()
	col, row := m.chart.DataToCell(head.Ratio, head.Momentum)

	next, _ = m.Update(tea.MouseMsg{
		X: col, Y: row + 1, // +1 for the title bar
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(Model)
	if m.sm.HighlightCount() != 1 {
		t.Fatalf("click on a head should pick it, highlights = %d", m.sm.HighlightCount())
	}

	next, _ = m.Update(tea.MouseMsg{X: 40, Y: 13, Action: tea.MouseActionMotion})
	m = next.(Model)
	if !strings.HasPrefix(m.status, "RS: ") {
		t.Errorf("motion should set the coordinate readout, got %q", m.status)
	}

	if view := m.View(); !strings.Contains(view, "RRG - SPY") {
		t.Error("view should include the chart title")
	}
}
