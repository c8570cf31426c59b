package rrg

// Default alpha values applied by the global text and line toggles.
const (
	DefaultTextAlpha = 0.6
	DefaultLineAlpha = 0.5
)

// Visibility is the per-entry, per-channel display state. ShownForced is
// the explicit user highlight: it is never overridden by the global
// toggles, only by another Pick or a ClearAll.
type Visibility int

const (
	Hidden Visibility = iota
	ShownDefault
	ShownForced
)

// String returns the visibility name.
func (v Visibility) String() string {
	switch v {
	case ShownDefault:
		return "shown-default"
	case ShownForced:
		return "shown-forced"
	default:
		return "hidden"
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Command is one interaction event. The set is closed: every input the
// renderer forwards maps to exactly one of the variants below.
type Command interface {
	isCommand()
}

// ClearAll hides every tail, marker, and date label and resets the
// highlight bookkeeping.
type ClearAll struct{}

// ToggleText flips the global label visibility default.
type ToggleText struct{}

// ToggleLines flips the global tail-path visibility default.
type ToggleLines struct{}

// ToggleHelp shows or hides the help overlay.
type ToggleHelp struct{}

// Pick toggles the highlight of one entry (mouse click on its head marker).
type Pick struct {
	ID string
}

// CycleDate moves the shared date cursor across the highlighted tails.
// Step is +1 (next) or −1 (prev).
type CycleDate struct {
	Step int
}

func (ClearAll) isCommand()    {}
func (ToggleText) isCommand()  {}
func (ToggleLines) isCommand() {}
func (ToggleHelp) isCommand()  {}
func (Pick) isCommand()        {}
func (CycleDate) isCommand()   {}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

// entryState holds one scene entry's visibility channels. The line channel
// covers the tail path; markers are the history points (hidden or forced,
// nothing in between); dates flags which date labels are revealed.
type entryState struct {
	line    Visibility
	markers Visibility
	label   Visibility
	dates   []bool
}

// dateRef locates one revealed date label so it can be hidden as a batch.
type dateRef struct {
	id  string
	idx int
}

// StateMachine owns all interaction state for one plotted scene: the global
// text/line toggles, per-entry visibility, the highlight count, and the
// shared date cursor. It never touches geometry; the renderer reads the
// resulting alphas each redraw.
//
// The machine is single-threaded by design: the UI event loop dispatches
// one command at a time and redraws when Apply reports a change.
type StateMachine struct {
	order   []string
	entries map[string]*entryState

	textAlpha float64 // default label alpha when texts are on
	lineAlpha float64 // default line alpha when lines are on
	textsOn   bool
	linesOn   bool

	helpVisible bool

	highlighted int
	cursorable  bool
	cursor      int
	activeDates []dateRef
}

// NewStateMachine builds the interaction state for a freshly plotted scene.
// Everything starts hidden: both global toggles off, no highlights, cursor
// at 0.
func NewStateMachine(scene *Scene) *StateMachine {
	m := &StateMachine{
		entries:   make(map[string]*entryState, len(scene.Entries)),
		textAlpha: DefaultTextAlpha,
		lineAlpha: DefaultLineAlpha,
	}
	for _, e := range scene.Entries {
		m.order = append(m.order, e.ID)
		m.entries[e.ID] = &entryState{dates: make([]bool, len(e.Tail))}
	}
	return m
}

// Apply executes one command and reports whether the scene needs a redraw.
// Commands outside defined semantics (unknown pick target, cycling with
// nothing highlighted) are silent no-ops.
func (m *StateMachine) Apply(cmd Command) bool {
	switch c := cmd.(type) {
	case ClearAll:
		return m.clearAll()
	case ToggleText:
		return m.toggleText()
	case ToggleLines:
		return m.toggleLines()
	case ToggleHelp:
		m.helpVisible = !m.helpVisible
		return true
	case Pick:
		return m.pick(c.ID)
	case CycleDate:
		return m.cycleDates(c.Step)
	default:
		return false
	}
}

// clearAll hides every line, marker, and date label, resets labels to the
// current global text state, and zeroes the highlight bookkeeping. The
// global toggles themselves are left as they are.
func (m *StateMachine) clearAll() bool {
	updated := false

	labelTarget := Hidden
	if m.textsOn {
		labelTarget = ShownDefault
	}

	for _, id := range m.order {
		e := m.entries[id]
		if e.line != Hidden || e.markers != Hidden {
			e.line = Hidden
			e.markers = Hidden
			updated = true
		}
		if e.label != labelTarget {
			e.label = labelTarget
			updated = true
		}
	}

	if len(m.activeDates) > 0 {
		m.clearActiveDateLabels()
		updated = true
	}

	m.highlighted = 0
	m.cursorable = false
	m.cursor = 0

	return updated
}

// toggleText flips the global text state and applies the new default to
// every label not currently forced.
func (m *StateMachine) toggleText() bool {
	m.textsOn = !m.textsOn

	target := Hidden
	if m.textsOn {
		target = ShownDefault
	}
	for _, id := range m.order {
		e := m.entries[id]
		if e.label == ShownForced {
			continue
		}
		e.label = target
	}
	return true
}

// toggleLines flips the global line state and applies the new default to
// every tail path not currently forced.
func (m *StateMachine) toggleLines() bool {
	m.linesOn = !m.linesOn

	target := Hidden
	if m.linesOn {
		target = ShownDefault
	}
	for _, id := range m.order {
		e := m.entries[id]
		if e.line == ShownForced {
			continue
		}
		e.line = target
	}
	return true
}

// pick toggles one entry's highlight. The tail markers flip between hidden
// and forced and carry the highlight membership. The line and label
// channels flip relative to their global state: with the global toggle on,
// a forced entry alternates between forced and the default; with it off,
// between forced and hidden. Either way the per-entry override survives
// the global toggles.
func (m *StateMachine) pick(id string) bool {
	e, ok := m.entries[id]
	if !ok {
		return false
	}

	m.cursor = 0
	if len(m.activeDates) > 0 {
		m.clearActiveDateLabels()
	}

	if e.markers == Hidden {
		e.markers = ShownForced
		m.highlighted++
		m.cursorable = true
	} else {
		e.markers = Hidden
		m.highlighted--
		if m.highlighted == 0 {
			m.cursorable = false
		}
	}

	if m.linesOn {
		if e.line == ShownDefault {
			e.line = ShownForced
		} else {
			e.line = ShownDefault
		}
	} else {
		if e.line == Hidden {
			e.line = ShownForced
		} else {
			e.line = Hidden
		}
	}

	if m.textsOn {
		if e.label == ShownDefault {
			e.label = ShownForced
		} else {
			e.label = ShownDefault
		}
	} else {
		if e.label == Hidden {
			e.label = ShownForced
		} else {
			e.label = Hidden
		}
	}

	return true
}

// cycleDates reveals date labels along every forced tail. The first
// activation shows the label at the shared cursor; subsequent activations
// hide all revealed labels, advance the cursor modulo the tail length, and
// reveal the label there.
func (m *StateMachine) cycleDates(step int) bool {
	if !m.cursorable {
		return false
	}

	for _, id := range m.order {
		e := m.entries[id]
		if e.line != ShownForced || len(e.dates) == 0 {
			continue
		}
		n := len(e.dates)

		idx := mod(m.cursor, n)
		if !e.dates[idx] {
			e.dates[idx] = true
		} else {
			m.clearActiveDateLabels()
			m.cursor = mod(m.cursor+step, n)
			idx = mod(m.cursor, n)
			e.dates[idx] = true
		}

		m.activeDates = append(m.activeDates, dateRef{id: id, idx: idx})
	}

	return true
}

// clearActiveDateLabels hides every revealed date label and empties the
// batch list. Any transient styling the renderer derives from date
// visibility disappears with it.
func (m *StateMachine) clearActiveDateLabels() {
	for _, ref := range m.activeDates {
		if e, ok := m.entries[ref.id]; ok && ref.idx < len(e.dates) {
			e.dates[ref.idx] = false
		}
	}
	m.activeDates = m.activeDates[:0]
}

// mod is the non-negative remainder of a by n.
func mod(a, n int) int {
	return ((a % n) + n) % n
}

// ---------------------------------------------------------------------------
// Renderer accessors
// ---------------------------------------------------------------------------

// LineVisibility returns the tail-path state of an entry.
func (m *StateMachine) LineVisibility(id string) Visibility {
	if e, ok := m.entries[id]; ok {
		return e.line
	}
	return Hidden
}

// MarkerVisibility returns the history-marker state of an entry.
func (m *StateMachine) MarkerVisibility(id string) Visibility {
	if e, ok := m.entries[id]; ok {
		return e.markers
	}
	return Hidden
}

// LabelVisibility returns the ticker-label state of an entry.
func (m *StateMachine) LabelVisibility(id string) Visibility {
	if e, ok := m.entries[id]; ok {
		return e.label
	}
	return Hidden
}

// DateVisible reports whether the i-th date label of an entry is revealed.
func (m *StateMachine) DateVisible(id string, i int) bool {
	e, ok := m.entries[id]
	return ok && i >= 0 && i < len(e.dates) && e.dates[i]
}

// LineAlpha maps an entry's tail-path state to its alpha.
func (m *StateMachine) LineAlpha(id string) float64 {
	switch m.LineVisibility(id) {
	case ShownForced:
		return 1
	case ShownDefault:
		return m.lineAlpha
	default:
		return 0
	}
}

// LabelAlpha maps an entry's label state to its alpha.
func (m *StateMachine) LabelAlpha(id string) float64 {
	switch m.LabelVisibility(id) {
	case ShownForced:
		return 1
	case ShownDefault:
		return m.textAlpha
	default:
		return 0
	}
}

// HelpVisible reports whether the help overlay is shown.
func (m *StateMachine) HelpVisible() bool { return m.helpVisible }

// Cursorable reports whether date cycling currently has any target.
func (m *StateMachine) Cursorable() bool { return m.cursorable }

// Cursor returns the shared tail cursor position.
func (m *StateMachine) Cursor() int { return m.cursor }

// HighlightCount returns the number of currently highlighted entries.
func (m *StateMachine) HighlightCount() int { return m.highlighted }

// TextsOn reports the global label toggle.
func (m *StateMachine) TextsOn() bool { return m.textsOn }

// LinesOn reports the global tail-path toggle.
func (m *StateMachine) LinesOn() bool { return m.linesOn }

// ActiveDateCount returns how many date labels are currently revealed.
func (m *StateMachine) ActiveDateCount() int { return len(m.activeDates) }
