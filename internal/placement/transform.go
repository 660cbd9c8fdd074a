package placement

// Point is a position in screen or canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Rect is the canvas container's bounding rectangle in screen space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies within the rectangle. A rectangle with no
// area contains nothing.
func (r Rect) Contains(p Point) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return p.X >= r.Left && p.X < r.Left+r.Width && p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Viewport is the canvas pan offset, relative to the container, and zoom.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Size is a rendered node size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultNodeSize is the default rendered size of a node.
var DefaultNodeSize = Size{Width: 160, Height: 60}

// Surface is what the renderer reports about the canvas.
type Surface struct {
	Container Rect  `json:"container"`
	Scroll    Point `json:"scroll"`

	// Viewport is nil until the renderer has initialized its transform.
	Viewport *Viewport `json:"viewport,omitempty"`
}

// HasTransform reports whether a usable viewport transform is known.
func (s Surface) HasTransform() bool {
	return s.Viewport != nil && s.Viewport.Zoom > 0
}

// ScreenToCanvas converts a screen position to canvas space.
func (s Surface) ScreenToCanvas(screen Point) Point {
	local := screen.Sub(Point{X: s.Container.Left, Y: s.Container.Top})
	if !s.HasTransform() {
		return local.Add(s.Scroll)
	}
	vp := s.Viewport
	return Point{
		X: (local.X - vp.X) / vp.Zoom,
		Y: (local.Y - vp.Y) / vp.Zoom,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (s Surface) CanvasToScreen(canvas Point) Point {
	origin := Point{X: s.Container.Left, Y: s.Container.Top}
	if !s.HasTransform() {
		return canvas.Sub(s.Scroll).Add(origin)
	}
	vp := s.Viewport
	return Point{
		X: canvas.X*vp.Zoom + vp.X,
		Y: canvas.Y*vp.Zoom + vp.Y,
	}.Add(origin)
}

// PlaceAt returns the top-left canvas position for a node of the given size
// whose center should sit under the screen position.
func (s Surface) PlaceAt(screen Point, size Size) Point {
	c := s.ScreenToCanvas(screen)
	return Point{X: c.X - size.Width/2, Y: c.Y - size.Height/2}
}
