package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestGreenwichMeanSiderealTime(t *testing.T) {
	// At J2000 epoch (2000-01-01 12:00 UTC), GMST should be approximately 280.46°
	t2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	gmst := GreenwichMeanSiderealTime(t2000)

	if math.Abs(gmst-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}

	// Meeus example 12.a: 1987-04-10 0h UT, GMST = 13h10m46.3668s
	meeus := time.Date(1987, 4, 10, 0, 0, 0, 0, time.UTC)
	want := (13 + 10.0/60 + 46.3668/3600) * 15
	if got := GreenwichMeanSiderealTime(meeus); math.Abs(got-want) > 0.001 {
		t.Errorf("GMST(1987-04-10) = %.5f°, want %.5f°", got, want)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// At longitude 0 (Greenwich), LST should equal GMST
	gmst := GreenwichMeanSiderealTime(testTime)
	lst0 := LocalSiderealTime(testTime, 0)
	if math.Abs(lst0-gmst) > 0.001 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	// At longitude +90° (east), LST should be GMST + 90°
	lst90 := LocalSiderealTime(testTime, 90)
	expected90 := math.Mod(gmst+90, 360)
	if math.Abs(lst90-expected90) > 0.001 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, expected90)
	}

	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(testTime, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestEquatorialToHorizontal_Polaris(t *testing.T) {
	// Polaris sits within a degree of the celestial pole, so its elevation
	// tracks the observer latitude and its azimuth stays near north.
	polaris := SkyCoord{
		RAdeg:  37.95,
		DecDeg: 89.26,
	}
	observer := Observer{LatDeg: 35.0, LonDeg: -117.0}

	for lst := 0.0; lst < 360; lst += 45 {
		result := EquatorialToHorizontal(polaris, observer, lst)

		if math.Abs(result.ElDeg-observer.LatDeg) > 1 {
			t.Errorf("Polaris elevation at LST %v = %v°, expected ~%v°", lst, result.ElDeg, observer.LatDeg)
		}
		if result.AzDeg > 2 && result.AzDeg < 358 {
			t.Errorf("Polaris azimuth at LST %v = %v°, expected near 0°", lst, result.AzDeg)
		}
		if result.RAdeg != polaris.RAdeg || result.DecDeg != polaris.DecDeg {
			t.Error("RA/Dec should be preserved after transformation")
		}
	}
}

func TestEquatorialToHorizontal_ZenithStar(t *testing.T) {
	observer := Observer{LatDeg: 35.0, LonDeg: -117.0}

	// Star at zenith: Dec = lat, RA = LST
	const lst = 123.4
	zenithStar := SkyCoord{RAdeg: lst, DecDeg: observer.LatDeg}

	result := EquatorialToHorizontal(zenithStar, observer, lst)
	if math.Abs(result.ElDeg-90) > 1e-4 {
		t.Errorf("Zenith star elevation = %v°, expected 90°", result.ElDeg)
	}
}

func TestHourAngleToHorizontal_Cardinal(t *testing.T) {
	tests := []struct {
		name   string
		haDeg  float64
		decDeg float64
		latDeg float64
		wantAz float64
		wantEl float64
	}{
		{"equator star rising due east", -90, 0, 45, 90, 0},
		{"equator star setting due west", 90, 0, 45, 270, 0},
		{"meridian transit south of zenith", 0, 0, 45, 180, 45},
		{"meridian transit north of zenith", 0, 60, 30, 0, 60},
		{"lower culmination of circumpolar star", 180, 80, 50, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, el := HourAngleToHorizontal(tt.haDeg, tt.decDeg, tt.latDeg)
			if math.Abs(el-tt.wantEl) > 1e-6 {
				t.Errorf("el = %.6f°, want %.6f°", el, tt.wantEl)
			}
			dAz := math.Abs(az - tt.wantAz)
			if dAz > 180 {
				dAz = 360 - dAz
			}
			if dAz > 1e-6 {
				t.Errorf("az = %.6f°, want %.6f°", az, tt.wantAz)
			}
		})
	}
}

func TestEquatorialToHorizontal_SouthernStar(t *testing.T) {
	// Max elevation = 90 - lat + dec = 90 - 35 + (-60) = -5°
	southernStar := SkyCoord{RAdeg: 0, DecDeg: -60}
	observer := Observer{LatDeg: 35.0, LonDeg: -117.0}

	for lst := 0.0; lst < 360; lst += 15 {
		result := EquatorialToHorizontal(southernStar, observer, lst)
		if result.ElDeg > -5+1e-9 {
			t.Errorf("Star at Dec=-60° visible from 35°N at LST %v: El=%v°", lst, result.ElDeg)
		}
	}
}

func TestEquatorialToHorizontal_PreservesRange(t *testing.T) {
	star := SkyCoord{
		RAdeg:   100,
		DecDeg:  20,
		RangeKm: 1.5e8, // ~1 AU
	}
	observer := Observer{LatDeg: 35, LonDeg: -117}

	result := EquatorialToHorizontal(star, observer, 42)
	if result.RangeKm != star.RangeKm {
		t.Errorf("RangeKm not preserved: got %v, want %v", result.RangeKm, star.RangeKm)
	}
}

func TestEquatorialToHorizontal_AzimuthRange(t *testing.T) {
	observer := Observer{LatDeg: -35, LonDeg: 149}

	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -80.0; dec <= 80; dec += 20 {
			star := SkyCoord{RAdeg: ra, DecDeg: dec}
			result := EquatorialToHorizontal(star, observer, 200)

			if result.AzDeg < 0 || result.AzDeg >= 360 {
				t.Errorf("Azimuth out of range for RA=%v, Dec=%v: Az=%v",
					ra, dec, result.AzDeg)
			}
		}
	}
}

func TestObserverValidate(t *testing.T) {
	tests := []struct {
		name    string
		obs     Observer
		wantErr bool
	}{
		{"paris", Observer{LatDeg: 48.8566, LonDeg: 2.3522}, false},
		{"north pole", Observer{LatDeg: 90, LonDeg: 0}, false},
		{"date line", Observer{LatDeg: -10, LonDeg: -180}, false},
		{"latitude too large", Observer{LatDeg: 90.5, LonDeg: 0}, true},
		{"longitude too small", Observer{LatDeg: 0, LonDeg: -181}, true},
		{"NaN latitude", Observer{LatDeg: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidObserver) {
				t.Errorf("Validate() error = %v, want ErrInvalidObserver", err)
			}
		})
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{360, 2 * math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		got := DegToRad(tt.deg)
		if math.Abs(got-tt.rad) > 1e-10 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if back := RadToDeg(got); math.Abs(back-tt.deg) > 1e-10 {
			t.Errorf("RadToDeg(%v) = %v, want %v", got, back, tt.deg)
		}
	}
}
