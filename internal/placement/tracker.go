package placement

import (
	"sync"
	"time"
)

// Press is an in-progress press on a catalog entry.
type Press struct {
	ModuleID  string
	Start     Point
	Current   Point
	StartedAt time.Time
}

// Action is what a released press asks the engine to do.
type Action int

const (
	// None: the drag ended off the drop target.
	None Action = iota
	// Preview the module without placing it.
	Preview
	// Place a node at Release.Position.
	Place
)

func (a Action) String() string {
	switch a {
	case Preview:
		return "preview"
	case Place:
		return "place"
	default:
		return "none"
	}
}

// Release is the result of ending a press.
type Release struct {
	Action   Action
	Gesture  Gesture
	ModuleID string

	// Position is the recentered canvas position, set for Place.
	Position Point
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithNodeSize overrides the size used to recenter placed nodes.
func WithNodeSize(size Size) TrackerOption {
	return func(t *Tracker) { t.size = size }
}

// Tracker follows a single press. Pointer moves update it but never touch
// the graph.
type Tracker struct {
	thresholds Thresholds
	size       Size
	now        func() time.Time

	mu     sync.Mutex
	active *Press
}

// NewTracker creates a tracker.
func NewTracker(th Thresholds, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		thresholds: th,
		size:       DefaultNodeSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Down starts a press on moduleID, replacing any press in progress.
func (t *Tracker) Down(moduleID string, at Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = &Press{ModuleID: moduleID, Start: at, Current: at, StartedAt: t.now()}
}

// Move records the pointer position. It reports false when no press is
// active.
func (t *Tracker) Move(at Point) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return false
	}
	t.active.Current = at
	return true
}

// Up ends the press at the given screen position over surface. The second
// result is false when no press was active.
func (t *Tracker) Up(at Point, surface Surface) (Release, bool) {
	t.mu.Lock()
	p := t.active
	t.active = nil
	t.mu.Unlock()
	if p == nil {
		return Release{}, false
	}

	g := t.thresholds.Classify(p.Start, at, t.now().Sub(p.StartedAt))
	rel := Release{Gesture: g, ModuleID: p.ModuleID}
	switch {
	case g == Click:
		rel.Action = Preview
	case surface.Container.Contains(at):
		rel.Action = Place
		rel.Position = surface.PlaceAt(at, t.size)
	default:
		rel.Action = None
	}
	return rel, true
}

// Cancel drops the press in progress. It reports whether one was active.
func (t *Tracker) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	had := t.active != nil
	t.active = nil
	return had
}

// Active returns a copy of the press in progress.
func (t *Tracker) Active() (Press, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return Press{}, false
	}
	return *t.active, true
}
