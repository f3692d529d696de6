package report

import (
	"context"
	"fmt"
	"io"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// CheckExport compares the engine's sunrise and sunset with the NOAA
// approximation in go-sunrise.
type CheckExport struct {
	Date         string        `json:"date"`
	Engine       RiseSetExport `json:"engine"`
	Reference    RiseSetExport `json:"reference"`
	RiseDeltaSec *float64      `json:"rise_delta_seconds,omitempty"`
	SetDeltaSec  *float64      `json:"set_delta_seconds,omitempty"`
}

// Check computes sunrise and sunset both ways for local date d.
func Check(ctx context.Context, e *almanac.Ephemeris, d almanac.Date) (CheckExport, error) {
	engine, err := RiseSet(ctx, e, ephem.Sun, d)
	if err != nil {
		return CheckExport{}, err
	}

	obs := e.Observer()
	rise, set := sunrise.SunriseSunset(obs.LatDeg, obs.LonDeg, d.Year, d.Month, d.Day)
	loc := e.Location()
	ref := ExportRiseSet(ephem.Sun, d, rise.In(loc), !rise.IsZero(), set.In(loc), !set.IsZero())
	ref.Label = "go-sunrise"

	return CheckExport{
		Date:         d.String(),
		Engine:       engine,
		Reference:    ref,
		RiseDeltaSec: delta(engine.Rise, ref.Rise),
		SetDeltaSec:  delta(engine.Set, ref.Set),
	}, nil
}

func delta(a, b EventExport) *float64 {
	if !a.Found || !b.Found {
		return nil
	}
	d := round(a.Time.Sub(*b.Time).Seconds(), 0)
	return &d
}

// WriteCheck writes a comparison table.
func WriteCheck(w io.Writer, c CheckExport) {
	WriteRiseSet(w, "Sunrise check "+c.Date, []RiseSetExport{c.Engine, c.Reference})
	fmt.Fprintf(w, "\n%-10s %-12s %-10s %-10s\n", "Delta", "", formatDelta(c.RiseDeltaSec), formatDelta(c.SetDeltaSec))
}

func formatDelta(d *float64) string {
	if d == nil {
		return "—"
	}
	return fmt.Sprintf("%+.0fs", *d)
}
