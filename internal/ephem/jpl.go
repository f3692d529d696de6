package ephem

import (
	"fmt"
	"sync"

	"github.com/mshafiee/jpleph"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// jplTargets maps bodies to JPL body numbers.
var jplTargets = map[Body]jpleph.Planet{
	Sun:     jpleph.Sun,
	Moon:    jpleph.Moon,
	Mercury: jpleph.Mercury,
	Venus:   jpleph.Venus,
	Mars:    jpleph.Mars,
	Jupiter: jpleph.Jupiter,
	Saturn:  jpleph.Saturn,
	Uranus:  jpleph.Uranus,
	Neptune: jpleph.Neptune,
	Pluto:   jpleph.Pluto,
}

// JPLDataset reads a JPL DE binary ephemeris. Positions are barycentric.
type JPLDataset struct {
	name       string
	path       string
	start, end float64

	// The reader keeps a per-file coefficient cache and is not safe for
	// concurrent use.
	mu  sync.Mutex
	eph *jpleph.Ephemeris
}

// OpenJPLDataset opens the DE file at path.
func OpenJPLDataset(name, path string) (*JPLDataset, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("open JPL ephemeris: %w", err)
	}
	return &JPLDataset{
		name:  name,
		path:  path,
		start: eph.GetEphemerisDouble(jpleph.EphemerisStartJD),
		end:   eph.GetEphemerisDouble(jpleph.EphemerisEndJD),
		eph:   eph,
	}, nil
}

// openJPLDataset adapts OpenJPLDataset to the Provider opener.
func openJPLDataset(name, path string) (Dataset, error) {
	ds, err := OpenJPLDataset(name, path)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Name implements Dataset.
func (d *JPLDataset) Name() string {
	return d.name
}

// Coverage implements Dataset.
func (d *JPLDataset) Coverage() (float64, float64) {
	return d.start, d.end
}

// Position implements Dataset.
func (d *JPLDataset) Position(b Body, jd float64) (astro.Vec3, error) {
	target, ok := jplTargets[b]
	if !ok {
		return astro.Vec3{}, fmt.Errorf("%w: %v", ErrInvalidBody, b)
	}
	return d.state(target, jd)
}

// EarthPosition implements Dataset.
func (d *JPLDataset) EarthPosition(jd float64) (astro.Vec3, error) {
	return d.state(jpleph.Earth, jd)
}

func (d *JPLDataset) state(target jpleph.Planet, jd float64) (astro.Vec3, error) {
	if jd < d.start || jd > d.end {
		return astro.Vec3{}, fmt.Errorf("%w: JD %.1f not in [%.1f, %.1f]", ErrOutOfRange, jd, d.start, d.end)
	}

	d.mu.Lock()
	if d.eph == nil {
		d.mu.Unlock()
		return astro.Vec3{}, fmt.Errorf("%s: dataset closed", d.name)
	}
	pos, _, err := d.eph.CalculatePV(jd, target, jpleph.CenterSolarSystemBarycenter, false)
	d.mu.Unlock()
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("%s position: %w", d.name, err)
	}
	return astro.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}, nil
}

// Close implements Dataset.
func (d *JPLDataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.eph == nil {
		return nil
	}
	d.eph.Close()
	d.eph = nil
	return nil
}
