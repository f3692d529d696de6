package ephem

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

func TestAnalytic_EarthOrbit(t *testing.T) {
	ds := NewAnalyticDataset()
	jd0 := 2460310.5 // 2024-01-01

	minR, maxR := math.Inf(1), 0.0
	for d := 0.0; d < 366; d += 1 {
		p, err := ds.EarthPosition(jd0 + d)
		if err != nil {
			t.Fatalf("EarthPosition() error = %v", err)
		}
		r := p.Norm()
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
	}

	if math.Abs(minR-0.98330) > 0.0005 {
		t.Errorf("perihelion distance = %.5f AU, want ~0.98330", minR)
	}
	if math.Abs(maxR-1.01670) > 0.0005 {
		t.Errorf("aphelion distance = %.5f AU, want ~1.01670", maxR)
	}
}

func TestAnalytic_MoonDistance(t *testing.T) {
	ds := NewAnalyticDataset()
	jd0 := 2460310.5

	for d := 0.0; d < 60; d += 0.5 {
		moon, err := ds.Position(Moon, jd0+d)
		if err != nil {
			t.Fatalf("Position(Moon) error = %v", err)
		}
		earth, _ := ds.EarthPosition(jd0 + d)
		km := astro.AUToKm(moon.Sub(earth).Norm())
		if km < 356000 || km > 407000 {
			t.Errorf("Earth-Moon distance at JD %.1f = %.0f km, outside 356000-407000", jd0+d, km)
		}
	}
}

func TestAnalytic_PlanetDistances(t *testing.T) {
	ds := NewAnalyticDataset()
	jd := 2460483.5 // 2024-06-22

	for _, b := range Planets() {
		t.Run(b.String(), func(t *testing.T) {
			el := planetElements[b]
			a, e := el.a[0], el.e[0]
			p, err := ds.Position(b, jd)
			if err != nil {
				t.Fatalf("Position() error = %v", err)
			}
			r := p.Norm()
			if r < a*(1-e)*0.99 || r > a*(1+e)*1.01 {
				t.Errorf("heliocentric distance = %.4f AU, want within [%.4f, %.4f]", r, a*(1-e), a*(1+e))
			}
		})
	}
}

func TestAnalytic_SunAtOrigin(t *testing.T) {
	p, err := NewAnalyticDataset().Position(Sun, astro.J2000)
	if err != nil {
		t.Fatal(err)
	}
	if p.Norm() != 0 {
		t.Errorf("Sun position = %v, want origin", p)
	}
}

func TestAnalytic_Errors(t *testing.T) {
	ds := NewAnalyticDataset()

	if _, err := ds.Position(Mars, 2000000); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Position() before coverage error = %v, want ErrOutOfRange", err)
	}
	if _, err := ds.EarthPosition(2700000); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("EarthPosition() after coverage error = %v, want ErrOutOfRange", err)
	}
	if _, err := ds.Position(Body(42), astro.J2000); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("Position(Body(42)) error = %v, want ErrInvalidBody", err)
	}

	start, end := ds.Coverage()
	if start >= end {
		t.Errorf("Coverage() = %v, %v", start, end)
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2056, 0.2488, 0.9} {
		for m := -math.Pi; m <= math.Pi; m += 0.25 {
			E := solveKepler(m, e)
			if resid := E - e*math.Sin(E) - m; math.Abs(resid) > 1e-10 {
				t.Errorf("solveKepler(%v, %v) residual = %g", m, e, resid)
			}
		}
	}
}
