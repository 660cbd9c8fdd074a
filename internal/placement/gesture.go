package placement

import (
	"math"
	"time"
)

// Thresholds bound what still counts as a click.
type Thresholds struct {
	Distance float64
	Duration time.Duration
}

// DefaultThresholds are 5px and 300ms.
var DefaultThresholds = Thresholds{Distance: 5, Duration: 300 * time.Millisecond}

// Gesture is the classification of a completed press.
type Gesture int

const (
	Click Gesture = iota
	Drag
)

func (g Gesture) String() string {
	if g == Click {
		return "click"
	}
	return "drag"
}

// Classify reports a click iff the pointer moved less than Distance and the
// press lasted less than Duration.
func (t Thresholds) Classify(from, to Point, elapsed time.Duration) Gesture {
	d := to.Sub(from)
	if math.Hypot(d.X, d.Y) < t.Distance && elapsed < t.Duration {
		return Click
	}
	return Drag
}
