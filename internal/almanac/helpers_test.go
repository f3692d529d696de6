package almanac

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

var (
	paris  = astro.Observer{Name: "Paris", LatDeg: 48.8566, LonDeg: 2.3522}
	tromso = astro.Observer{Name: "Tromsø", LatDeg: 69.6492, LonDeg: 18.9553}

	solsticeDay = NewDate(2024, time.June, 22)
)

// analytic is shared by every test; the model is stateless.
var analytic ephem.Dataset = ephem.NewAnalyticDataset()

// countingSource counts dataset requests.
type countingSource struct {
	calls atomic.Int32
	ds    ephem.Dataset
}

func (s *countingSource) Dataset(context.Context) (ephem.Dataset, error) {
	s.calls.Add(1)
	return s.ds, nil
}

func newParis(t *testing.T, opts ...Option) *Ephemeris {
	t.Helper()
	mustLoad(t, "Europe/Paris")
	e, err := New(paris, "Europe/Paris", StaticSource(analytic), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

// localClock returns hh:mm:ss on y-m-d in loc.
func localClock(t *testing.T, loc *time.Location, y int, m time.Month, d int, hms string) time.Time {
	t.Helper()
	c, err := time.Parse(time.TimeOnly, hms)
	if err != nil {
		t.Fatalf("bad clock %q: %v", hms, err)
	}
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, loc)
}

func assertNear(t *testing.T, what string, got, want time.Time, tol time.Duration) {
	t.Helper()
	if d := got.Sub(want); d < -tol || d > tol {
		t.Errorf("%s = %s, want %s (±%v, off by %v)",
			what, got.Format(time.DateTime), want.Format(time.DateTime), tol, d.Round(time.Second))
	}
}
