package editor

import "time"

// GestureConfig holds the thresholds that separate clicks from drags.
type GestureConfig struct {
	// MinDistance is the Chebyshev distance, in grid cells, the pointer
	// must travel from where it was pressed before a drag can start.
	MinDistance int
	// MinDelay is how long the pointer must be held before a drag can
	// start.
	MinDelay time.Duration
	// DoubleClickInterval is the longest gap between two clicks on the
	// same cell that still counts as a double click.
	DoubleClickInterval time.Duration
}

// DefaultGestureConfig is tuned for terminal mouse reporting, where every
// motion event is already quantized to a cell.
var DefaultGestureConfig = GestureConfig{
	MinDistance:         1,
	MinDelay:            100 * time.Millisecond,
	DoubleClickInterval: 400 * time.Millisecond,
}

// Point is a grid cell addressed by 1-based row and column.
type Point struct {
	Row, Col int
}

// GestureEvent is what a pointer transition was classified as.
type GestureEvent int

const (
	GestureNone GestureEvent = iota
	GestureDragStart
	GestureDrop
	GestureClick
	GestureDoubleClick
)

func (e GestureEvent) String() string {
	switch e {
	case GestureDragStart:
		return "drag-start"
	case GestureDrop:
		return "drop"
	case GestureClick:
		return "click"
	case GestureDoubleClick:
		return "double-click"
	default:
		return "none"
	}
}

type gesturePhase int

const (
	phaseIdle gesturePhase = iota
	phasePressed
	phaseDragging
)

// Gesture classifies a stream of pointer events. A press becomes a drag
// only once the pointer has both moved MinDistance cells and been held for
// MinDelay; a release that never became a drag is a click. Two clicks on
// the same cell within DoubleClickInterval form a double click.
type Gesture struct {
	cfg    GestureConfig
	phase  gesturePhase
	origin Point
	downAt time.Time

	lastClick   Point
	lastClickAt time.Time
	clicked     bool
}

// NewGesture returns a classifier using cfg.
func NewGesture(cfg GestureConfig) *Gesture {
	return &Gesture{cfg: cfg}
}

// Origin returns the cell where the current press started.
func (g *Gesture) Origin() Point { return g.origin }

// Dragging reports whether the current press has become a drag.
func (g *Gesture) Dragging() bool { return g.phase == phaseDragging }

// Down records a press at p.
func (g *Gesture) Down(p Point, at time.Time) {
	g.phase = phasePressed
	g.origin = p
	g.downAt = at
}

// Move records pointer motion while pressed. It returns GestureDragStart
// exactly once per press, when both thresholds are first met.
func (g *Gesture) Move(p Point, at time.Time) GestureEvent {
	if g.phase != phasePressed {
		return GestureNone
	}
	if distance(g.origin, p) < g.cfg.MinDistance || at.Sub(g.downAt) < g.cfg.MinDelay {
		return GestureNone
	}
	g.phase = phaseDragging
	g.clicked = false
	return GestureDragStart
}

// Up records a release at p and classifies the press. Clicks are
// attributed to the cell where the press started.
func (g *Gesture) Up(p Point, at time.Time) GestureEvent {
	phase := g.phase
	g.phase = phaseIdle

	switch phase {
	case phaseDragging:
		return GestureDrop
	case phasePressed:
		if g.clicked && g.lastClick == g.origin && at.Sub(g.lastClickAt) <= g.cfg.DoubleClickInterval {
			g.clicked = false
			return GestureDoubleClick
		}
		g.lastClick = g.origin
		g.lastClickAt = at
		g.clicked = true
		return GestureClick
	default:
		return GestureNone
	}
}

// Reset abandons any press in progress and forgets the last click.
func (g *Gesture) Reset() {
	g.phase = phaseIdle
	g.clicked = false
}

func distance(a, b Point) int {
	return max(abs(a.Row-b.Row), abs(a.Col-b.Col))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
