package almanac

import (
	"context"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// Phase is a twilight level, ordered from darkest to brightest.
type Phase int

const (
	Night Phase = iota
	AstronomicalTwilight
	NauticalTwilight
	CivilTwilight
	Day
)

func (p Phase) String() string {
	switch p {
	case Night:
		return "night"
	case AstronomicalTwilight:
		return "astronomical twilight"
	case NauticalTwilight:
		return "nautical twilight"
	case CivilTwilight:
		return "civil twilight"
	case Day:
		return "day"
	default:
		return "unknown"
	}
}

// Transition is the instant the sky enters Phase.
type Transition struct {
	Time  time.Time
	Phase Phase
}

// ClassifyTwilight returns the phase for a solar altitude in degrees.
func ClassifyTwilight(altDeg float64) Phase {
	switch {
	case altDeg >= astro.SunriseAltitude:
		return Day
	case altDeg >= astro.CivilTwilightAltitude:
		return CivilTwilight
	case altDeg >= astro.NauticalTwilightAltitude:
		return NauticalTwilight
	case altDeg >= astro.AstronomicalTwilightAltitude:
		return AstronomicalTwilight
	default:
		return Night
	}
}

func twilightFunc(ds ephem.Dataset, obs astro.Observer) levelFunc {
	return func(t time.Time) (int, error) {
		_, hz, err := ephem.Topocentric(ds, ephem.Sun, obs, ephem.NewFrame(t))
		if err != nil {
			return 0, err
		}
		return int(ClassifyTwilight(hz.ElDeg)), nil
	}
}

// FindTwilightTransitions returns every twilight phase change in iv in
// chronological order. Polar days and nights yield an empty slice.
func FindTwilightTransitions(ctx context.Context, ds ephem.Dataset, obs astro.Observer, iv Interval) ([]Transition, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	changes, err := findDiscrete(ctx, twilightFunc(ds, obs), iv, CoarseStep)
	if err != nil {
		return nil, err
	}
	out := make([]Transition, len(changes))
	for i, c := range changes {
		out[i] = Transition{Time: c.Time, Phase: Phase(c.Level)}
	}
	return out, nil
}
