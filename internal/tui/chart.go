package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rrg/internal/domain"
	"rrg/internal/rrg"
)

// Marker runes, painted back to front: path, tail markers, head.
const (
	pathRune   = '·'
	markerRune = '•'
	headRune   = '●'
)

// cell is one screen position of the plot grid.
type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

// Chart projects a scene onto a character grid. Geometry comes from the
// scene, visibility from the state machine; the chart owns only the
// data-to-cell transform.
type Chart struct {
	scene *rrg.Scene
	sm    *rrg.StateMachine

	width, height int
}

func NewChart(scene *rrg.Scene, sm *rrg.StateMachine) *Chart {
	return &Chart{scene: scene, sm: sm}
}

// Resize sets the grid dimensions in cells.
func (c *Chart) Resize(width, height int) {
	c.width = width
	c.height = height
}

// DataToCell maps a point on the ratio/momentum plane to a grid cell. The
// y axis is flipped: momentum grows upward, rows grow downward.
func (c *Chart) DataToCell(x, y float64) (col, row int) {
	b := c.scene.Bounds
	col = int(math.Round((x - b.XMin) / (b.XMax - b.XMin) * float64(c.width-1)))
	row = int(math.Round((b.YMax - y) / (b.YMax - b.YMin) * float64(c.height-1)))
	return col, row
}

// CellToData is the inverse transform, used for the mouse coordinate
// readout.
func (c *Chart) CellToData(col, row int) (x, y float64) {
	b := c.scene.Bounds
	x = b.XMin + float64(col)/float64(c.width-1)*(b.XMax-b.XMin)
	y = b.YMax - float64(row)/float64(c.height-1)*(b.YMax-b.YMin)
	return x, y
}

// HitTest returns the id of the entry whose head is nearest the given cell
// within one cell of slack, or "" when nothing is close enough.
func (c *Chart) HitTest(col, row int) string {
	bestID := ""
	bestDist := math.MaxInt
	for _, e := range c.scene.Entries {
		head := e.Head()
		hc, hr := c.DataToCell(head.Ratio, head.Momentum)
		d := max(abs(hc-col), abs(hr-row))
		if d <= 1 && d < bestDist {
			bestID = e.ID
			bestDist = d
		}
	}
	return bestID
}

// Render draws the full grid: axes, quadrant captions, then every entry's
// path, markers, labels, and date labels as the state machine allows.
func (c *Chart) Render() string {
	if c.width < 2 || c.height < 2 {
		return ""
	}

	grid := make([][]cell, c.height)
	for i := range grid {
		grid[i] = make([]cell, c.width)
	}

	c.drawAxes(grid)
	c.drawCaptions(grid)
	for _, e := range c.scene.Entries {
		c.drawPath(grid, e)
	}
	for _, e := range c.scene.Entries {
		c.drawMarkers(grid, e)
	}
	for _, e := range c.scene.Entries {
		c.drawLabels(grid, e)
	}

	var b strings.Builder
	for row := range grid {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range grid[row] {
			if !cl.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cl.style.Render(string(cl.r)))
		}
	}
	return b.String()
}

// drawAxes paints the benchmark cross at (100, 100) when it falls inside
// the bounds.
func (c *Chart) drawAxes(grid [][]cell) {
	b := c.scene.Bounds
	xCol, yRow := -1, -1
	if b.XMin < 100 && b.XMax > 100 {
		xCol, _ = c.DataToCell(100, b.YMax)
	}
	if b.YMin < 100 && b.YMax > 100 {
		_, yRow = c.DataToCell(b.XMin, 100)
	}

	if yRow >= 0 && yRow < c.height {
		for col := 0; col < c.width; col++ {
			c.put(grid, col, yRow, '─', axisStyle)
		}
	}
	if xCol >= 0 && xCol < c.width {
		for row := 0; row < c.height; row++ {
			r := '│'
			if row == yRow {
				r = '┼'
			}
			c.put(grid, xCol, row, r, axisStyle)
		}
	}
}

// drawCaptions writes the quadrant names into the corners the bounds
// actually reach.
func (c *Chart) drawCaptions(grid [][]cell) {
	for _, q := range c.scene.QuadrantCaptions() {
		name := q.String()
		style := quadrantStyle(q.Color(), true)
		switch q {
		case domain.Improving:
			c.putString(grid, 1, 0, name, style)
		case domain.Leading:
			c.putString(grid, c.width-len(name)-1, 0, name, style)
		case domain.Lagging:
			c.putString(grid, 1, c.height-1, name, style)
		case domain.Weakening:
			c.putString(grid, c.width-len(name)-1, c.height-1, name, style)
		}
	}
}

func (c *Chart) drawPath(grid [][]cell, e *rrg.SceneEntry) {
	vis := c.sm.LineVisibility(e.ID)
	if vis == rrg.Hidden {
		return
	}
	style := dimStyle
	if vis == rrg.ShownForced {
		style = quadrantStyle(e.Quadrant.Color(), false)
	}
	for i := range e.PathX {
		col, row := c.DataToCell(e.PathX[i], e.PathY[i])
		c.put(grid, col, row, pathRune, style)
	}
}

// drawMarkers paints the tail markers. The head is always visible: it is
// the pick target, so it renders before any interaction. Only the history
// markers follow the visibility channel.
func (c *Chart) drawMarkers(grid [][]cell, e *rrg.SceneEntry) {
	style := quadrantStyle(e.Quadrant.Color(), true)

	if c.sm.MarkerVisibility(e.ID) != rrg.Hidden {
		for _, p := range e.Tail[:len(e.Tail)-1] {
			col, row := c.DataToCell(p.Ratio, p.Momentum)
			c.put(grid, col, row, markerRune, style)
		}
	}

	head := e.Head()
	col, row := c.DataToCell(head.Ratio, head.Momentum)
	c.put(grid, col, row, headRune, style)
}

// drawLabels writes the entry label beside the head and any revealed date
// labels beside their tail markers.
func (c *Chart) drawLabels(grid [][]cell, e *rrg.SceneEntry) {
	head := e.Head()
	if c.sm.LabelVisibility(e.ID) != rrg.Hidden {
		style := dimStyle
		if c.sm.LabelVisibility(e.ID) == rrg.ShownForced {
			style = quadrantStyle(e.Quadrant.Color(), true)
		}
		col, row := c.DataToCell(head.Ratio, head.Momentum)
		c.putString(grid, col+2, row, e.Label, style)
	}

	for i, p := range e.Tail {
		if !c.sm.DateVisible(e.ID, i) {
			continue
		}
		style := dimStyle
		if i == len(e.Tail)-1 {
			// The head's date stands out from the history dates.
			style = quadrantStyle(e.Quadrant.Color(), true)
		}
		col, row := c.DataToCell(p.Ratio, p.Momentum)
		c.putString(grid, col+2, row+1, p.DateLabel(), style)
	}
}

func (c *Chart) put(grid [][]cell, col, row int, r rune, style lipgloss.Style) {
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return
	}
	grid[row][col] = cell{r: r, style: style, set: true}
}

func (c *Chart) putString(grid [][]cell, col, row int, s string, style lipgloss.Style) {
	for i, r := range s {
		c.put(grid, col+i, row, r, style)
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
