package report

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// RiseSet runs the rise and set queries that match b.
func RiseSet(ctx context.Context, e *almanac.Ephemeris, b ephem.Body, d almanac.Date) (RiseSetExport, error) {
	var (
		rise, set           time.Time
		riseFound, setFound bool
		err                 error
	)
	switch {
	case b == ephem.Sun:
		if rise, riseFound, err = e.GetSunriseTime(ctx, d); err != nil {
			return RiseSetExport{}, err
		}
		set, setFound, err = e.GetSunsetTime(ctx, d)
	case b == ephem.Moon:
		if rise, riseFound, err = e.GetMoonriseTime(ctx, d); err != nil {
			return RiseSetExport{}, err
		}
		set, setFound, err = e.GetMoonsetTime(ctx, d)
	case b.IsPlanet():
		if rise, riseFound, err = e.GetPlanetRiseTime(ctx, d, b); err != nil {
			return RiseSetExport{}, err
		}
		set, setFound, err = e.GetPlanetSetTime(ctx, d, b)
	default:
		return RiseSetExport{}, fmt.Errorf("%w: %v", ephem.ErrInvalidBody, b)
	}
	if err != nil {
		return RiseSetExport{}, err
	}
	return ExportRiseSet(b, d, rise, riseFound, set, setFound), nil
}

// SkyBodyExport is one body in a sky snapshot.
type SkyBodyExport struct {
	PositionExport
	Rise EventExport `json:"rise"`
	Set  EventExport `json:"set"`
}

// SkyExport is every body's position at one instant, with the day's
// rise and set times.
type SkyExport struct {
	Observer ObserverExport  `json:"observer"`
	Time     time.Time       `json:"time"`
	Phase    PhaseExport     `json:"moon_phase"`
	Bodies   []SkyBodyExport `json:"bodies"`
}

// Sky builds a snapshot of the observer's sky at t.
func Sky(ctx context.Context, e *almanac.Ephemeris, t time.Time) (SkyExport, error) {
	t = t.In(e.Location())
	d := almanac.DateOf(t, e.Location())

	deg, err := e.GetMoonPhase(ctx, d)
	if err != nil {
		return SkyExport{}, err
	}
	out := SkyExport{
		Observer: ExportObserver(e.Observer(), e.Location()),
		Time:     t,
		Phase:    ExportPhase(d, deg),
	}

	for _, b := range ephem.AllBodies() {
		pos, err := e.ComputePosition(ctx, t, b)
		if err != nil {
			return SkyExport{}, fmt.Errorf("%s position: %w", b, err)
		}
		rs, err := RiseSet(ctx, e, b, d)
		if err != nil {
			return SkyExport{}, fmt.Errorf("%s rise/set: %w", b, err)
		}
		out.Bodies = append(out.Bodies, SkyBodyExport{
			PositionExport: ExportPosition(pos),
			Rise:           rs.Rise,
			Set:            rs.Set,
		})
	}
	return out, nil
}
