package ephem

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// timeAtTT returns the UTC instant whose terrestrial Julian date is jdTT.
func timeAtTT(jdTT float64) time.Time {
	ut := astro.TimeFromJulianDate(jdTT)
	return ut.Add(-time.Duration(astro.DeltaT(astro.DecimalYear(ut)) * float64(time.Second)))
}

func angleDiff(a, b float64) float64 {
	d := math.Abs(math.Mod(a-b, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}

func TestGeocentric_MeeusExamples(t *testing.T) {
	ds := NewAnalyticDataset()
	tests := []struct {
		name    string
		body    Body
		jdTT    float64
		wantRA  float64
		wantDec float64
		tol     float64
	}{
		// Meeus example 25.a, 1992 Oct 13.0 TD.
		{"sun", Sun, 2448908.5, 198.38083, -7.78507, 0.01},
		// Meeus example 47.a, 1992 Apr 12.0 TD.
		{"moon", Moon, 2448724.5, 134.688470, 13.768368, 0.005},
		// Meeus example 33.a, 1992 Dec 20.0 TD.
		{"venus", Venus, 2448976.5, 316.172725, -18.888011, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(timeAtTT(tt.jdTT))
			if math.Abs(f.JDTT-tt.jdTT) > 1e-6 {
				t.Fatalf("frame JDTT = %v, want %v", f.JDTT, tt.jdTT)
			}
			p, err := Geocentric(ds, tt.body, f)
			if err != nil {
				t.Fatalf("Geocentric() error = %v", err)
			}
			if d := angleDiff(p.RAdeg, tt.wantRA); d > tt.tol {
				t.Errorf("RA = %.5f°, want %.5f° (±%v)", p.RAdeg, tt.wantRA, tt.tol)
			}
			if math.Abs(p.DecDeg-tt.wantDec) > tt.tol {
				t.Errorf("Dec = %.5f°, want %.5f° (±%v)", p.DecDeg, tt.wantDec, tt.tol)
			}
		})
	}
}

func TestGeocentric_MoonDistance(t *testing.T) {
	f := NewFrame(timeAtTT(2448724.5))
	p, err := Geocentric(NewAnalyticDataset(), Moon, f)
	if err != nil {
		t.Fatal(err)
	}
	// Light time shifts the geometric distance by at most ~40 km.
	if km := astro.AUToKm(p.DistAU); math.Abs(km-368409.7) > 50 {
		t.Errorf("Moon distance = %.1f km, want ~368409.7", km)
	}
}

func TestEclipticLongitude_Solstice(t *testing.T) {
	// June solstice 2024: 2024-06-20 20:51 UTC.
	f := NewFrame(time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC))
	lon, err := EclipticLongitude(NewAnalyticDataset(), Sun, f)
	if err != nil {
		t.Fatal(err)
	}
	if angleDiff(lon, 90) > 0.02 {
		t.Errorf("solar longitude = %.4f°, want ~90°", lon)
	}
}

func TestTopocentric_SunAtNoon(t *testing.T) {
	// Paris, local apparent noon near the June solstice: the Sun stands at
	// 90° - latitude + obliquity, due south.
	obs := astro.Observer{LatDeg: 48.8566, LonDeg: 2.3522}
	f := NewFrame(time.Date(2024, 6, 20, 11, 52, 0, 0, time.UTC))

	_, hz, err := Topocentric(NewAnalyticDataset(), Sun, obs, f)
	if err != nil {
		t.Fatal(err)
	}
	if want := 90 - 48.8566 + 23.436; math.Abs(hz.ElDeg-want) > 0.1 {
		t.Errorf("noon altitude = %.3f°, want ~%.3f°", hz.ElDeg, want)
	}
	if math.Abs(hz.AzDeg-180) > 3 {
		t.Errorf("noon azimuth = %.2f°, want ~180°", hz.AzDeg)
	}
}

func TestTopocentric_LunarParallax(t *testing.T) {
	ds := NewAnalyticDataset()
	obs := astro.Observer{LatDeg: 48.8566, LonDeg: 2.3522}

	for h := 0; h < 24; h += 3 {
		f := NewFrame(time.Date(2024, 6, 22, h, 0, 0, 0, time.UTC))
		geo, err := Geocentric(ds, Moon, f)
		if err != nil {
			t.Fatal(err)
		}
		_, topo, err := Topocentric(ds, Moon, obs, f)
		if err != nil {
			t.Fatal(err)
		}
		geoAlt := astro.Horizontal(geo.Vec, obs, f.LAST(obs.LonDeg)).ElDeg

		// Parallax lowers the Moon by up to about one degree.
		drop := geoAlt - topo.ElDeg
		if drop <= 0 || drop > 1.05 {
			t.Errorf("%02d:00 parallax = %.3f°, want (0, 1.05]", h, drop)
		}
	}
}

func TestAberrate(t *testing.T) {
	rel := astro.Vec3{X: 2}
	vel := astro.Vec3{Y: 0.0172} // ~29.8 km/s

	got := aberrate(rel, vel)
	if math.Abs(got.Norm()-2) > 1e-12 {
		t.Errorf("aberrate changed length to %v", got.Norm())
	}

	shift := math.Atan2(got.Y, got.X) * 180 / math.Pi * 3600
	if math.Abs(shift-20.5) > 0.3 {
		t.Errorf("aberration = %.2f″, want ~20.5″", shift)
	}

	if z := aberrate(astro.Vec3{}, vel); z.Norm() != 0 {
		t.Errorf("aberrate(zero) = %v", z)
	}
}

func TestFrame_SiderealTime(t *testing.T) {
	ts := time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC)
	f := NewFrame(ts)

	// The equation of the equinoxes never exceeds ~1.2 s of time.
	if d := angleDiff(f.GAST, astro.GreenwichMeanSiderealTime(ts)); d > 1.2*15/3600 {
		t.Errorf("GAST - GMST = %.6f°", d)
	}
	if got, want := f.LAST(90), astro.NormalizeAngle360(f.GAST+90); got != want {
		t.Errorf("LAST(90) = %v, want %v", got, want)
	}
}

// TestJPLDataset_AgreesWithAnalytic runs only when a DE file is available,
// e.g. LS_EPHEMERIS_DE440=files/linux_p1550p2650.440.
func TestJPLDataset_AgreesWithAnalytic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping dataset file test in short mode")
	}
	path := os.Getenv("LS_EPHEMERIS_DE440")
	if path == "" {
		t.Skip("LS_EPHEMERIS_DE440 not set")
	}

	jpl, err := OpenJPLDataset("de440", path)
	if err != nil {
		t.Fatalf("OpenJPLDataset() error = %v", err)
	}
	defer jpl.Close()

	f := NewFrame(time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC))
	for _, b := range []Body{Sun, Moon, Mars} {
		want, err := Geocentric(NewAnalyticDataset(), b, f)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Geocentric(jpl, b, f)
		if err != nil {
			t.Fatalf("Geocentric(%v) error = %v", b, err)
		}
		if d := angleDiff(got.RAdeg, want.RAdeg); d > 0.05 {
			t.Errorf("%v RA differs by %.4f°", b, d)
		}
		if d := math.Abs(got.DecDeg - want.DecDeg); d > 0.05 {
			t.Errorf("%v Dec differs by %.4f°", b, d)
		}
	}
}
