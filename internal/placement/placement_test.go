package placement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurface_ScreenToCanvas(t *testing.T) {
	container := Rect{Left: 100, Top: 50, Width: 800, Height: 600}
	testCases := []struct {
		name    string
		surface Surface
		screen  Point
		want    Point
	}{
		{
			name:    "identity viewport",
			surface: Surface{Container: container, Viewport: &Viewport{Zoom: 1}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 200, Y: 200},
		},
		{
			name:    "panned",
			surface: Surface{Container: container, Viewport: &Viewport{X: 40, Y: -20, Zoom: 1}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 160, Y: 220},
		},
		{
			name:    "zoomed in",
			surface: Surface{Container: container, Viewport: &Viewport{X: 0, Y: 0, Zoom: 2}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 100, Y: 100},
		},
		{
			name:    "panned and zoomed out",
			surface: Surface{Container: container, Viewport: &Viewport{X: 100, Y: 100, Zoom: 0.5}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 200, Y: 200},
		},
		{
			name:    "no viewport falls back to container offset and scroll",
			surface: Surface{Container: container, Scroll: Point{X: 10, Y: 30}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 210, Y: 230},
		},
		{
			name:    "zero zoom is treated as uninitialized",
			surface: Surface{Container: container, Viewport: &Viewport{X: 500, Zoom: 0}},
			screen:  Point{X: 300, Y: 250},
			want:    Point{X: 200, Y: 200},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.surface.ScreenToCanvas(tc.screen)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)

			back := tc.surface.CanvasToScreen(got)
			assert.InDelta(t, tc.screen.X, back.X, 1e-9)
			assert.InDelta(t, tc.screen.Y, back.Y, 1e-9)
		})
	}
}

func TestSurface_PlaceAtCentersNode(t *testing.T) {
	s := Surface{Container: Rect{Width: 1000, Height: 1000}, Viewport: &Viewport{Zoom: 1}}
	pos := s.PlaceAt(Point{X: 400, Y: 300}, DefaultNodeSize)
	assert.Equal(t, Point{X: 320, Y: 270}, pos)

	center := Point{X: pos.X + DefaultNodeSize.Width/2, Y: pos.Y + DefaultNodeSize.Height/2}
	assert.Equal(t, Point{X: 400, Y: 300}, center)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Width: 100, Height: 50}
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 109, Y: 59}))
	assert.False(t, r.Contains(Point{X: 110, Y: 20}))
	assert.False(t, r.Contains(Point{X: 5, Y: 20}))
	assert.False(t, Rect{}.Contains(Point{}))
}

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds
	origin := Point{X: 100, Y: 100}
	testCases := []struct {
		name    string
		to      Point
		elapsed time.Duration
		want    Gesture
	}{
		{name: "still and quick", to: origin, elapsed: 50 * time.Millisecond, want: Click},
		{name: "small wiggle", to: Point{X: 103, Y: 103}, elapsed: 100 * time.Millisecond, want: Click},
		{name: "diagonal beyond distance", to: Point{X: 104, Y: 104}, elapsed: 100 * time.Millisecond, want: Drag},
		{name: "exactly at distance", to: Point{X: 105, Y: 100}, elapsed: 100 * time.Millisecond, want: Drag},
		{name: "held too long", to: origin, elapsed: 300 * time.Millisecond, want: Drag},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, th.Classify(origin, tc.to, tc.elapsed))
		})
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTracker(t *testing.T) {
	surface := Surface{
		Container: Rect{Left: 0, Top: 0, Width: 800, Height: 600},
		Viewport:  &Viewport{Zoom: 1},
	}
	testCases := []struct {
		name     string
		moves    []Point
		upAt     Point
		hold     time.Duration
		want     Action
		position Point
	}{
		{
			name: "click previews",
			upAt: Point{X: 201, Y: 200},
			hold: 100 * time.Millisecond,
			want: Preview,
		},
		{
			name:     "drag onto canvas places centered",
			moves:    []Point{{X: 250, Y: 220}, {X: 300, Y: 260}},
			upAt:     Point{X: 300, Y: 260},
			hold:     500 * time.Millisecond,
			want:     Place,
			position: Point{X: 220, Y: 230},
		},
		{
			name:  "drag released off canvas",
			moves: []Point{{X: 900, Y: 700}},
			upAt:  Point{X: 900, Y: 700},
			hold:  500 * time.Millisecond,
			want:  None,
		},
		{
			name: "slow press without movement is a drag",
			upAt: Point{X: 200, Y: 200},
			hold: time.Second,
			want: Place,
			// Centered on the release point.
			position: Point{X: 120, Y: 170},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			tr := NewTracker(DefaultThresholds, WithClock(clock.Now))

			tr.Down("kmeans", Point{X: 200, Y: 200})
			for _, m := range tc.moves {
				require.True(t, tr.Move(m))
			}
			clock.Advance(tc.hold)

			rel, ok := tr.Up(tc.upAt, surface)
			require.True(t, ok)
			assert.Equal(t, tc.want, rel.Action)
			assert.Equal(t, "kmeans", rel.ModuleID)
			assert.Equal(t, tc.position, rel.Position)

			_, active := tr.Active()
			assert.False(t, active)
		})
	}
}

func TestTracker_CancelAndIdle(t *testing.T) {
	tr := NewTracker(DefaultThresholds, WithNodeSize(Size{Width: 10, Height: 10}))

	assert.False(t, tr.Move(Point{X: 1}))
	_, ok := tr.Up(Point{}, Surface{})
	assert.False(t, ok)
	assert.False(t, tr.Cancel())

	tr.Down("pca", Point{X: 1, Y: 2})
	p, ok := tr.Active()
	require.True(t, ok)
	assert.Equal(t, "pca", p.ModuleID)
	assert.Equal(t, Point{X: 1, Y: 2}, p.Current)

	assert.True(t, tr.Cancel())
	_, ok = tr.Up(Point{X: 1, Y: 2}, Surface{})
	assert.False(t, ok)
}
