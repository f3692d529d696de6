package almanac

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/moonphase"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// phaseDiff returns the signed difference a-b folded into (-180, 180].
func phaseDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

func TestMoonPhase_Dates(t *testing.T) {
	loc := mustLoad(t, "Europe/Paris")
	ctx := context.Background()

	tests := []struct {
		date Date
		want float64
	}{
		{NewDate(2024, time.June, 22), 180},
		{NewDate(2024, time.June, 6), 0},
		{NewDate(2024, time.May, 15), 90},
		{NewDate(2024, time.May, 30), 270},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			got, err := MoonPhase(ctx, analytic, LocalNoon(tt.date, loc))
			if err != nil {
				t.Fatalf("MoonPhase() error = %v", err)
			}
			if got < 0 || got >= 360 {
				t.Errorf("MoonPhase() = %v, out of [0, 360)", got)
			}
			if d := phaseDiff(got, tt.want); math.Abs(d) > 10 {
				t.Errorf("MoonPhase() = %.2f°, want %.0f° ±10", got, tt.want)
			}
		})
	}
}

func TestMoonPhase_AgreesWithMeeus(t *testing.T) {
	ctx := context.Background()
	year := astro.DecimalYear(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		jde  float64
		want float64
	}{
		{"new", moonphase.New(year), 0},
		{"first quarter", moonphase.First(year), 90},
		{"full", moonphase.Full(year), 180},
		{"last quarter", moonphase.Last(year), 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoonPhase(ctx, analytic, timeFromJDE(tt.jde))
			if err != nil {
				t.Fatalf("MoonPhase() error = %v", err)
			}
			if d := phaseDiff(got, tt.want); math.Abs(d) > 0.5 {
				t.Errorf("MoonPhase() = %.3f°, want %.0f° ±0.5", got, tt.want)
			}
		})
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "new moon"},
		{359, "new moon"},
		{20, "new moon"},
		{30, "waxing crescent"},
		{90, "first quarter"},
		{150, "waxing gibbous"},
		{180, "full moon"},
		{200, "full moon"},
		{225, "waning gibbous"},
		{270, "last quarter"},
		{320, "waning crescent"},
		{-90, "last quarter"},
	}

	for _, tt := range tests {
		if got := PhaseName(tt.deg); got != tt.want {
			t.Errorf("PhaseName(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestIllumination(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{90, 0.5},
		{180, 1},
		{270, 0.5},
	}

	for _, tt := range tests {
		if got := Illumination(tt.deg); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Illumination(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}
