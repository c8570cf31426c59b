package rrg

import (
	"fmt"
	"time"

	"rrg/internal/domain"
)

// boundsPadding is the fixed margin added around the tail extent on both
// axes.
const boundsPadding = 0.3

// TailPoint is one aligned (date, ratio, momentum) observation of a
// ticker's tail. The last point of a tail is the head.
type TailPoint struct {
	Date     time.Time
	Ratio    float64
	Momentum float64
}

// DateLabel formats the point's date the way it is rendered next to a tail
// marker.
func (p TailPoint) DateLabel() string {
	return p.Date.Format("02 Jan 2006")
}

// SceneEntry is the renderable state of one ticker: its tail, smoothed
// path, head quadrant, and label. The engine creates entries at plot time
// and owns their geometry; only the state machine mutates their visibility.
type SceneEntry struct {
	ID       string // stable pick target id, "s0", "s1", ...
	Symbol   string
	Label    string // uppercased short name or symbol
	Quadrant domain.Quadrant

	// Tail holds the last tailCount points, oldest first.
	Tail []TailPoint

	// PathX/PathY trace the tail as drawn: the smoothed curve when a
	// smoother was applied, otherwise the raw tail coordinates.
	PathX []float64
	PathY []float64
}

// Head returns the most recent tail point.
func (e *SceneEntry) Head() TailPoint {
	return e.Tail[len(e.Tail)-1]
}

// Bounds is the padded extent of all tails on the ratio/momentum plane.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Scene is the complete renderable chart: one entry per surviving
// watchlist ticker plus chart-level metadata.
type Scene struct {
	Title     string
	Benchmark string
	AsOf      time.Time // date of the benchmark's last observation
	Entries   []*SceneEntry
	Bounds    Bounds
}

// Entry returns the scene entry with the given id, or nil.
func (s *Scene) Entry(id string) *SceneEntry {
	for _, e := range s.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// QuadrantCaptions returns the corner captions to draw: a quadrant is
// captioned only when the scene bounds actually reach into it.
func (s *Scene) QuadrantCaptions() []domain.Quadrant {
	var out []domain.Quadrant
	b := s.Bounds
	if b.XMin < 100 && b.YMax > 100 {
		out = append(out, domain.Improving)
	}
	if b.XMax > 100 && b.YMax > 100 {
		out = append(out, domain.Leading)
	}
	if b.XMax > 100 && b.YMin < 100 {
		out = append(out, domain.Weakening)
	}
	if b.XMin < 100 && b.YMin < 100 {
		out = append(out, domain.Lagging)
	}
	return out
}

// FormatCoords renders the status string for a cursor position on the
// plane.
func FormatCoords(x, y float64) string {
	return fmt.Sprintf("RS: %.2f     MOM: %.2f", x, y)
}
