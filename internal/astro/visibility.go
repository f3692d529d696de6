package astro

// ParabolicPeak fits a parabola through three equally spaced samples at
// normalized times -1, 0, +1 and returns the offset of its vertex (clamped
// to [-1, 1]) and the value there. ok is false when the samples are
// collinear and no vertex exists.
func ParabolicPeak(y0, y1, y2 float64) (x, y float64, ok bool) {
	// Parabola: y = at^2 + bt + c
	// At t=-1: y0 = a - b + c
	// At t=0:  y1 = c
	// At t=1:  y2 = a + b + c
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	if a == 0 {
		return 0, y1, false
	}

	x = -b / (2 * a)

	// Clamp to [-1, 1]
	if x < -1 {
		x = -1
	} else if x > 1 {
		x = 1
	}

	return x, a*x*x + b*x + c, true
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
