package nav

import "time"

// TransitionDuration is the length of every slide between views.
const TransitionDuration = 200 * time.Millisecond

// Easing maps linear progress in [0,1] onto eased progress in [0,1].
type Easing func(float64) float64

// EaseInOut is a cubic ease-in-out curve.
func EaseInOut(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Transition describes the most recent change of the current selection.
type Transition struct {
	From       string
	To         string
	Duration   time.Duration
	Easing     Easing
	Generation uint64
}

// Animated reports whether the transition should be drawn as a slide.
func (t Transition) Animated() bool {
	return t.Duration > 0 && t.Easing != nil
}

// Progress returns the eased progress after elapsed time.
func (t Transition) Progress(elapsed time.Duration) float64 {
	if !t.Animated() || elapsed >= t.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return t.Easing(float64(elapsed) / float64(t.Duration))
}
