package anim

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic decelerates towards the end: fast start, slow finish.
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// EaseInOutCubic accelerates through the first half and decelerates through the second.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	t = 2*t - 2
	return 0.5*t*t*t + 1
}

// ByName returns the easing registered under name, or EaseOutCubic if unknown.
func ByName(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "cubic-in-out":
		return EaseInOutCubic
	default:
		return EaseOutCubic
	}
}
