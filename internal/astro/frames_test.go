package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit y", Vec3{0, 1, 0}, 1},
		{"unit z", Vec3{0, 0, 1}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{5, 0, 0}, Vec3{1, 0, 0}},
		{"unit y", Vec3{0, 3, 0}, Vec3{0, 1, 0}},
		{"diagonal", Vec3{1, 1, 0}, Vec3{1 / math.Sqrt(2), 1 / math.Sqrt(2), 0}},
		{"zero", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalized()
			if !vecClose(got, tt.want, 1e-10) {
				t.Errorf("Normalized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	tests := []struct {
		lonDeg, latDeg, r float64
	}{
		{0, 0, 1},
		{45, 30, 2.5},
		{200, -60, 0.01},
		{359.5, 89, 40},
	}

	for _, tt := range tests {
		v := FromSpherical(DegToRad(tt.lonDeg), DegToRad(tt.latDeg), tt.r)
		lon, lat, r := v.Spherical()
		if math.Abs(lon-tt.lonDeg) > 1e-9 || math.Abs(lat-tt.latDeg) > 1e-9 || math.Abs(r-tt.r) > 1e-12 {
			t.Errorf("Spherical(FromSpherical(%v, %v, %v)) = (%v, %v, %v)",
				tt.lonDeg, tt.latDeg, tt.r, lon, lat, r)
		}
	}
}

func TestRotationsAreOrthonormal(t *testing.T) {
	mats := map[string]Mat3{
		"RotX":       RotX(0.3),
		"RotY":       RotY(-1.1),
		"RotZ":       RotZ(2.0),
		"precession": PrecessionMatrix(J2000 + 36525*0.24),
		"nutation":   NutationMatrix(ObliquityJ2000, 8e-5, -4e-5),
	}

	for name, m := range mats {
		t.Run(name, func(t *testing.T) {
			id := m.Mul(m.Transpose())
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					want := 0.0
					if i == j {
						want = 1
					}
					if math.Abs(id[i][j]-want) > 1e-12 {
						t.Fatalf("M·Mᵀ[%d][%d] = %v, want %v", i, j, id[i][j], want)
					}
				}
			}
		})
	}
}

func TestPrecessionMatrix(t *testing.T) {
	// At J2000 the matrix is the identity.
	p := PrecessionMatrix(J2000)
	v := Vec3{0.3, -0.4, 0.866}
	if got := p.Apply(v); !vecClose(got, v, 1e-15) {
		t.Errorf("PrecessionMatrix(J2000)·v = %v, want %v", got, v)
	}

	// Meeus example 21.b: θ Persei, J2000 RA 41.054063° Dec 49.227750°
	// precessed to 2028 Nov 13.19 TD is RA 41.547214° Dec 49.348483°.
	// Proper motion is excluded here, so allow a few arcseconds.
	star := FromSpherical(DegToRad(41.054063), DegToRad(49.227750), 1)
	got := PrecessionMatrix(2462088.69).Apply(star)
	ra, dec, _ := got.Spherical()
	if math.Abs(ra-41.547214) > 0.01 || math.Abs(dec-49.348483) > 0.01 {
		t.Errorf("precessed θ Per = (%.6f, %.6f), want ~(41.547214, 49.348483)", ra, dec)
	}
}

func TestKmToAU(t *testing.T) {
	tests := []struct {
		km     float64
		wantAU float64
	}{
		{AU, 1},
		{AU * 5.2, 5.2},
		{AU * 30.07, 30.07},
	}

	for _, tt := range tests {
		got := KmToAU(tt.km)
		if math.Abs(got-tt.wantAU)/tt.wantAU > 1e-9 {
			t.Errorf("KmToAU(%.0f) = %.4f, want %.4f", tt.km, got, tt.wantAU)
		}
		if back := AUToKm(got); math.Abs(back-tt.km)/tt.km > 1e-9 {
			t.Errorf("AUToKm(%v) = %v, want %v", got, back, tt.km)
		}
	}
}

func TestEquatorialToEcliptic(t *testing.T) {
	// The north celestial pole sits at ecliptic latitude 90° - ε, on the
	// side of ecliptic longitude 90°.
	northPole := Vec3{0, 0, 1}
	ecl := EquatorialToEcliptic(northPole)

	expectedY := math.Sin(ObliquityJ2000)
	expectedZ := math.Cos(ObliquityJ2000)

	if math.Abs(ecl.X) > 1e-10 {
		t.Errorf("X should be 0, got %v", ecl.X)
	}
	if math.Abs(ecl.Y-expectedY) > 1e-6 {
		t.Errorf("Y = %v, want %v", ecl.Y, expectedY)
	}
	if math.Abs(ecl.Z-expectedZ) > 1e-6 {
		t.Errorf("Z = %v, want %v", ecl.Z, expectedZ)
	}
}

func TestEclipticToEquatorial(t *testing.T) {
	original := Vec3{1, 2, 3}
	ecl := EquatorialToEcliptic(original)
	back := EclipticToEquatorial(ecl)

	if !vecClose(back, original, 1e-10) {
		t.Errorf("Roundtrip failed: %v -> %v -> %v", original, ecl, back)
	}

	// The summer solstice point (λ=90°) maps to Dec = +ε.
	solstice := EclipticToEquatorialOf(Vec3{0, 1, 0}, ObliquityJ2000)
	_, dec, _ := solstice.Spherical()
	if want := RadToDeg(ObliquityJ2000); math.Abs(dec-want) > 1e-9 {
		t.Errorf("solstice Dec = %v°, want %v°", dec, want)
	}
}

func TestLightTimeDays(t *testing.T) {
	tests := []struct {
		au       float64
		wantSecs float64
		tolSecs  float64
	}{
		{1, 499.005, 0.01}, // 1 AU = ~8.3 minutes
		{0, 0, 0.01},
		{5.2, 5.2 * 499.005, 0.1},
	}

	for _, tt := range tests {
		got := LightTimeDays(tt.au) * 86400
		if math.Abs(got-tt.wantSecs) > tt.tolSecs {
			t.Errorf("LightTimeDays(%.1f) = %.3fs, want %.3fs", tt.au, got, tt.wantSecs)
		}
	}
}

func TestEclipticLatitude(t *testing.T) {
	tests := []struct {
		v       Vec3
		wantDeg float64
	}{
		{Vec3{1, 0, 0}, 0},
		{Vec3{0, 0, 1}, 90},
		{Vec3{0, 0, -1}, -90},
		{Vec3{1, 0, 1}, 45},
		{Vec3{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		got := EclipticLatitude(tt.v)
		if math.Abs(got-tt.wantDeg) > 0.01 {
			t.Errorf("EclipticLatitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantDeg)
		}
	}
}

func TestEclipticLongitude(t *testing.T) {
	tests := []struct {
		v       Vec3
		wantDeg float64
	}{
		{Vec3{1, 0, 0}, 0},
		{Vec3{0, 1, 0}, 90},
		{Vec3{-1, 0, 0}, 180},
		{Vec3{0, -1, 0}, 270},
		{Vec3{1, 1, 0}, 45},
	}

	for _, tt := range tests {
		got := EclipticLongitude(tt.v)
		if math.Abs(got-tt.wantDeg) > 0.01 {
			t.Errorf("EclipticLongitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantDeg)
		}
	}
}

func vecClose(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
