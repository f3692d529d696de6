package astro

import (
	"math"
	"testing"
)

func TestGeocentricPosition(t *testing.T) {
	tests := []struct {
		name   string
		obs    Observer
		lst    float64
		wantKm Vec3
		tol    float64
	}{
		{
			name:   "equator on the equinox meridian",
			obs:    Observer{LatDeg: 0, LonDeg: 0},
			lst:    0,
			wantKm: Vec3{X: 6378.137},
			tol:    1e-3,
		},
		{
			name:   "equator six sidereal hours later",
			obs:    Observer{LatDeg: 0, LonDeg: 0},
			lst:    90,
			wantKm: Vec3{Y: 6378.137},
			tol:    1e-3,
		},
		{
			name:   "north pole sits on the polar radius",
			obs:    Observer{LatDeg: 90, LonDeg: 0},
			lst:    17,
			wantKm: Vec3{Z: 6356.752},
			tol:    1e-2,
		},
		{
			name:   "altitude raises the equatorial radius",
			obs:    Observer{LatDeg: 0, LonDeg: 0, AltM: 1000},
			lst:    0,
			wantKm: Vec3{X: 6379.137},
			tol:    1e-3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GeocentricPosition(tt.obs, tt.lst)
			got := Vec3{AUToKm(p.X), AUToKm(p.Y), AUToKm(p.Z)}
			if !vecClose(got, tt.wantKm, tt.tol) {
				t.Errorf("GeocentricPosition() = %v km, want %v km", got, tt.wantKm)
			}
		})
	}
}

func TestHorizontal(t *testing.T) {
	obs := Observer{LatDeg: 48.8566, LonDeg: 2.3522}
	const lst = 75.0

	// A body on the local meridian at the observer's declination is overhead.
	v := FromSpherical(DegToRad(lst), DegToRad(obs.LatDeg), 2)
	got := Horizontal(v, obs, lst)
	if math.Abs(got.ElDeg-90) > 1e-4 {
		t.Errorf("ElDeg = %v, want 90", got.ElDeg)
	}
	if math.Abs(got.RangeKm-2*AU) > 1e-3 {
		t.Errorf("RangeKm = %v, want %v", got.RangeKm, 2*AU)
	}
	if math.Abs(got.RAdeg-lst) > 1e-9 || math.Abs(got.DecDeg-obs.LatDeg) > 1e-9 {
		t.Errorf("RA/Dec = (%v, %v), want (%v, %v)", got.RAdeg, got.DecDeg, lst, obs.LatDeg)
	}
}
