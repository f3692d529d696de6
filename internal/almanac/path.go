package almanac

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// DefaultPathStep is the sampling interval for daily paths.
const DefaultPathStep = 20 * time.Minute

// Position is a body's place in the observer's sky. Altitude is
// geometric: refraction is not applied.
type Position struct {
	Time       time.Time
	Body       ephem.Body
	AltDeg     float64
	AzDeg      float64 // 0-360, clockwise from north
	RAdeg      float64 // apparent, true equator of date
	DecDeg     float64
	DistanceKm float64
}

// PositionAt returns the topocentric apparent position of b at t.
func PositionAt(ctx context.Context, ds ephem.Dataset, obs astro.Observer, b ephem.Body, t time.Time) (Position, error) {
	if !b.Valid() {
		return Position{}, fmt.Errorf("%w: %v", ephem.ErrInvalidBody, b)
	}
	if err := obs.Validate(); err != nil {
		return Position{}, err
	}
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}

	place, hz, err := ephem.Topocentric(ds, b, obs, ephem.NewFrame(t))
	if err != nil {
		return Position{}, err
	}
	return Position{
		Time:       t,
		Body:       b,
		AltDeg:     hz.ElDeg,
		AzDeg:      hz.AzDeg,
		RAdeg:      place.RAdeg,
		DecDeg:     place.DecDeg,
		DistanceKm: hz.RangeKm,
	}, nil
}

// PathSample is one point of a daily path, rounded to two decimals.
type PathSample struct {
	Time   time.Time
	AltDeg float64
	AzDeg  float64
}

// DailyPath is a body's track across the sky over one interval.
type DailyPath struct {
	Body    ephem.Body
	Step    time.Duration
	Samples []PathSample
	// Markers holds the sample nearest each whole hour of the interval.
	Markers []PathSample
	// Actual is the position at the reference instant.
	Actual PathSample
}

// Alt returns the sample altitudes.
func (p DailyPath) Alt() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.AltDeg
	}
	return out
}

// Az returns the sample azimuths.
func (p DailyPath) Az() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.AzDeg
	}
	return out
}

// SamplePath samples b every step across iv: floor(len/step)+1 points
// starting at iv.Start. ref is the instant reported as Actual.
func SamplePath(ctx context.Context, ds ephem.Dataset, obs astro.Observer, b ephem.Body, iv Interval, step time.Duration, ref time.Time) (DailyPath, error) {
	if step <= 0 {
		return DailyPath{}, fmt.Errorf("path step must be positive, got %v", step)
	}

	n := int(iv.Duration()/step) + 1
	path := DailyPath{
		Body:    b,
		Step:    step,
		Samples: make([]PathSample, 0, n),
	}
	for i := 0; i < n; i++ {
		p, err := PositionAt(ctx, ds, obs, b, iv.Start.Add(time.Duration(i)*step))
		if err != nil {
			return DailyPath{}, err
		}
		path.Samples = append(path.Samples, toSample(p))
	}

	for h := iv.Start; h.Before(iv.End); h = h.Add(time.Hour) {
		idx := int(math.Round(float64(h.Sub(iv.Start)) / float64(step)))
		if idx >= len(path.Samples) {
			idx = len(path.Samples) - 1
		}
		path.Markers = append(path.Markers, path.Samples[idx])
	}

	actual, err := PositionAt(ctx, ds, obs, b, ref)
	if err != nil {
		return DailyPath{}, err
	}
	path.Actual = toSample(actual)
	return path, nil
}

func toSample(p Position) PathSample {
	return PathSample{Time: p.Time, AltDeg: round2(p.AltDeg), AzDeg: round2(p.AzDeg)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
