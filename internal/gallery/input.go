package gallery

import "math"

// Key names as delivered by browser keyboard events.
const (
	KeyEscape = "Escape"
	KeyNext   = "ArrowRight"
	KeyPrev   = "ArrowLeft"
)

// SwipeThreshold is the horizontal travel, in CSS pixels, a touch must
// exceed to count as a swipe.
const SwipeThreshold = 50.0

// HandleKey maps a key press to a transition. Keys are only handled while
// the lightbox is open; the return value tells the caller whether to
// suppress the default browser action.
func (n *Navigator) HandleKey(key string) bool {
	if !n.state.Open {
		return false
	}
	switch key {
	case KeyEscape:
		n.Close()
	case KeyNext:
		n.Next()
	case KeyPrev:
		n.Prev()
	default:
		return false
	}
	return true
}

// HandleSwipe applies a completed horizontal drag of dx pixels. A leftward
// swipe (negative dx) shows the next image.
func (n *Navigator) HandleSwipe(dx float64) bool {
	if !n.state.Open || math.IsNaN(dx) || math.Abs(dx) <= SwipeThreshold {
		return false
	}
	if dx < 0 {
		n.Next()
	} else {
		n.Prev()
	}
	return true
}

// HandleBackdrop closes the lightbox after a click outside the image.
func (n *Navigator) HandleBackdrop() {
	n.Close()
}

// SwipeTracker pairs touchstart and touchend positions.
type SwipeTracker struct {
	startX float64
	active bool
}

// Start records the first touch point.
func (s *SwipeTracker) Start(x float64) {
	s.startX = x
	s.active = true
}

// Cancel drops a touch that ended without a usable point.
func (s *SwipeTracker) Cancel() {
	s.active = false
}

// End returns the horizontal travel since Start. ok is false when no touch
// was in progress.
func (s *SwipeTracker) End(x float64) (dx float64, ok bool) {
	if !s.active {
		return 0, false
	}
	s.active = false
	return x - s.startX, true
}

// OverflowLock is a ScrollLock over a CSS overflow value, mirroring what a
// page does to its body element.
type OverflowLock struct {
	Overflow string
}

// Acquire hides overflow and returns a restore function for the prior value.
func (l *OverflowLock) Acquire() func() {
	prior := l.Overflow
	l.Overflow = "hidden"
	return func() { l.Overflow = prior }
}
