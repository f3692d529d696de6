package almanac

import (
	"context"
	"sort"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

const (
	// CoarseStep is the sampling interval used to bracket events.
	CoarseStep = 5 * time.Minute

	// Tolerance is the width at which bisection stops.
	Tolerance = time.Millisecond

	// maxBisect bounds every refinement loop.
	maxBisect = 64
)

// scalarFunc is a continuous function of time whose zero crossings are
// events, e.g. altitude minus the horizon threshold.
type scalarFunc func(t time.Time) (float64, error)

// levelFunc is a step function of time whose level changes are events.
type levelFunc func(t time.Time) (int, error)

// crossing is a zero crossing of a scalarFunc.
type crossing struct {
	Time   time.Time
	Rising bool // negative to non-negative
}

// levelChange is a change of a levelFunc, tagged with the level entered.
type levelChange struct {
	Time  time.Time
	Level int
}

type sample struct {
	t time.Time
	v float64
}

// sampleGrid evaluates f every step from iv.Start, always including
// iv.End as the last sample.
func sampleGrid(ctx context.Context, f scalarFunc, iv Interval, step time.Duration) ([]sample, error) {
	n := int(iv.Duration()/step) + 2
	samples := make([]sample, 0, n)
	for t := iv.Start; ; t = t.Add(step) {
		if !t.Before(iv.End) {
			t = iv.End
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := f(t)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{t, v})
		if t.Equal(iv.End) {
			return samples, nil
		}
	}
}

// findCrossings returns every zero crossing of f in iv in chronological
// order. Sign changes between coarse samples are bisected. A local
// extremum that stays on one side of zero at the samples but whose
// parabolic vertex crosses it is probed, so brief grazing passes are
// found as a pair of crossings.
func findCrossings(ctx context.Context, f scalarFunc, iv Interval, step time.Duration) ([]crossing, error) {
	grid, err := sampleGrid(ctx, f, iv, step)
	if err != nil {
		return nil, err
	}

	refined := make([]sample, 0, len(grid))
	refined = append(refined, grid[0])
	for i := 1; i < len(grid); i++ {
		if i+1 < len(grid) {
			s, ok, err := probeExtremum(f, grid[i-1], grid[i], grid[i+1])
			if err != nil {
				return nil, err
			}
			if ok && s.t.Before(grid[i].t) {
				refined = append(refined, s)
			}
			refined = append(refined, grid[i])
			if ok && s.t.After(grid[i].t) {
				refined = append(refined, s)
			}
			continue
		}
		refined = append(refined, grid[i])
	}

	sort.SliceStable(refined, func(i, j int) bool { return refined[i].t.Before(refined[j].t) })

	var out []crossing
	for i := 1; i < len(refined); i++ {
		a, b := refined[i-1], refined[i]
		if (a.v < 0) == (b.v < 0) {
			continue
		}
		t, err := bisect(f, a, b)
		if err != nil {
			return nil, err
		}
		out = append(out, crossing{Time: t, Rising: a.v < 0})
	}
	return out, nil
}

// probeExtremum fits a parabola through three samples sharing a sign. If
// the vertex lies on the other side of zero, f is evaluated there and the
// sample is returned when it confirms the crossing.
func probeExtremum(f scalarFunc, s0, s1, s2 sample) (sample, bool, error) {
	neg := s1.v < 0
	if (s0.v < 0) != neg || (s2.v < 0) != neg {
		return sample{}, false, nil
	}
	isMax := s1.v >= s0.v && s1.v >= s2.v
	isMin := s1.v <= s0.v && s1.v <= s2.v
	if !(neg && isMax) && !(!neg && isMin) {
		return sample{}, false, nil
	}

	x, y, ok := astro.ParabolicPeak(s0.v, s1.v, s2.v)
	if !ok || x == 0 || (y < 0) == neg {
		return sample{}, false, nil
	}

	half := s2.t.Sub(s1.t)
	t := s1.t.Add(time.Duration(x * float64(half)))
	v, err := f(t)
	if err != nil {
		return sample{}, false, err
	}
	if (v < 0) == neg {
		return sample{}, false, nil
	}
	return sample{t, v}, true, nil
}

// bisect narrows a sign-change bracket to Tolerance and returns its
// midpoint.
func bisect(f scalarFunc, a, b sample) (time.Time, error) {
	for i := 0; i < maxBisect && b.t.Sub(a.t) > Tolerance; i++ {
		mid := a.t.Add(b.t.Sub(a.t) / 2)
		v, err := f(mid)
		if err != nil {
			return time.Time{}, err
		}
		if (v < 0) == (a.v < 0) {
			a = sample{mid, v}
		} else {
			b = sample{mid, v}
		}
	}
	return a.t.Add(b.t.Sub(a.t) / 2), nil
}

// findDiscrete returns every change of level in iv in chronological
// order. A coarse bracket that spans more than one change is split until
// each change is isolated.
func findDiscrete(ctx context.Context, f levelFunc, iv Interval, step time.Duration) ([]levelChange, error) {
	var out []levelChange
	prevT := iv.Start
	prev, err := f(prevT)
	if err != nil {
		return nil, err
	}

	for t := iv.Start.Add(step); ; t = t.Add(step) {
		if !t.Before(iv.End) {
			t = iv.End
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err := f(t)
		if err != nil {
			return nil, err
		}
		if cur != prev {
			changes, err := refineLevels(f, prevT, prev, t, cur, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, changes...)
		}
		prevT, prev = t, cur
		if t.Equal(iv.End) {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// refineLevels splits [a, b] until every level change is bracketed to
// Tolerance. la and lb are the levels at the ends.
func refineLevels(f levelFunc, a time.Time, la int, b time.Time, lb int, depth int) ([]levelChange, error) {
	if la == lb {
		return nil, nil
	}
	if b.Sub(a) <= Tolerance || depth >= maxBisect {
		return []levelChange{{Time: a.Add(b.Sub(a) / 2), Level: lb}}, nil
	}

	mid := a.Add(b.Sub(a) / 2)
	lm, err := f(mid)
	if err != nil {
		return nil, err
	}
	left, err := refineLevels(f, a, la, mid, lm, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := refineLevels(f, mid, lm, b, lb, depth+1)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}
