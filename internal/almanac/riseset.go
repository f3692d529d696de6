package almanac

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// HorizonThreshold returns the geometric altitude, in degrees, at which
// b rises or sets when it is distKm away. The Sun and Moon are referred
// to their upper limb; planets are points.
func HorizonThreshold(b ephem.Body, distKm float64) float64 {
	if b.HasDisk() {
		return astro.HorizonAltitude(b.RadiusKm(), distKm)
	}
	return astro.HorizonAltitude(0, distKm)
}

// horizonFunc returns topocentric altitude above the rise/set threshold.
func horizonFunc(ds ephem.Dataset, obs astro.Observer, b ephem.Body) scalarFunc {
	return func(t time.Time) (float64, error) {
		_, hz, err := ephem.Topocentric(ds, b, obs, ephem.NewFrame(t))
		if err != nil {
			return 0, err
		}
		return hz.ElDeg - HorizonThreshold(b, hz.RangeKm), nil
	}
}

// FindRising returns the first time in iv that b rises for obs. found is
// false, with a nil error, when b does not rise in iv.
func FindRising(ctx context.Context, ds ephem.Dataset, obs astro.Observer, b ephem.Body, iv Interval) (t time.Time, found bool, err error) {
	return findHorizonEvent(ctx, ds, obs, b, iv, true)
}

// FindSetting returns the first time in iv that b sets for obs.
func FindSetting(ctx context.Context, ds ephem.Dataset, obs astro.Observer, b ephem.Body, iv Interval) (t time.Time, found bool, err error) {
	return findHorizonEvent(ctx, ds, obs, b, iv, false)
}

func findHorizonEvent(ctx context.Context, ds ephem.Dataset, obs astro.Observer, b ephem.Body, iv Interval, rising bool) (time.Time, bool, error) {
	if !b.Valid() {
		return time.Time{}, false, fmt.Errorf("%w: %v", ephem.ErrInvalidBody, b)
	}
	if err := obs.Validate(); err != nil {
		return time.Time{}, false, err
	}

	crossings, err := findCrossings(ctx, horizonFunc(ds, obs, b), iv, CoarseStep)
	if err != nil {
		return time.Time{}, false, err
	}
	for _, c := range crossings {
		if c.Rising == rising {
			return c.Time, true, nil
		}
	}
	return time.Time{}, false, nil
}
