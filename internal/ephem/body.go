package ephem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBody is returned for names or values that do not identify a
// supported body, or for a non-planet where a planet is required.
var ErrInvalidBody = errors.New("invalid body")

// Body identifies a solar-system body the engine can place in the sky.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// BodyInfo contains display and physical data for a body.
type BodyInfo struct {
	Name       string   // Canonical lowercase name
	Label      string   // Display name
	Color      string   // Hex plot color
	MarkerSize int      // Plot marker size in points
	RadiusKm   float64  // Mean radius, used for the apparent semi-diameter
	Aliases    []string // Alternative names accepted by ParseBody
}

// bodyTable is indexed by Body.
var bodyTable = [...]BodyInfo{
	Sun:     {Name: "sun", Label: "Sun", Color: "#ffd700", MarkerSize: 25, RadiusKm: 696340, Aliases: []string{"sol"}},
	Moon:    {Name: "moon", Label: "Moon", Color: "#d3d3d3", MarkerSize: 25, RadiusKm: 1737.1, Aliases: []string{"luna"}},
	Mercury: {Name: "mercury", Label: "Mercury", Color: "#b1adad", MarkerSize: 10, RadiusKm: 2439.7},
	Venus:   {Name: "venus", Label: "Venus", Color: "#efe8d8", MarkerSize: 15, RadiusKm: 6051.8},
	Mars:    {Name: "mars", Label: "Mars", Color: "#e27b58", MarkerSize: 10, RadiusKm: 3389.5},
	Jupiter: {Name: "jupiter", Label: "Jupiter", Color: "#d8ca9d", MarkerSize: 20, RadiusKm: 69911},
	Saturn:  {Name: "saturn", Label: "Saturn", Color: "#c3924f", MarkerSize: 20, RadiusKm: 58232},
	Uranus:  {Name: "uranus", Label: "Uranus", Color: "#c6d3e3", MarkerSize: 15, RadiusKm: 25362},
	Neptune: {Name: "neptune", Label: "Neptune", Color: "#274687", MarkerSize: 15, RadiusKm: 24622},
	Pluto:   {Name: "pluto", Label: "Pluto", Color: "#cd853f", MarkerSize: 5, RadiusKm: 1188.3},
}

// bodiesByName maps lowercase names and aliases to bodies.
var bodiesByName = func() map[string]Body {
	m := make(map[string]Body, len(bodyTable)*2)
	for i, info := range bodyTable {
		m[info.Name] = Body(i)
		for _, alias := range info.Aliases {
			m[alias] = Body(i)
		}
	}
	return m
}()

// ParseBody returns the body for a case-insensitive name or alias.
func ParseBody(name string) (Body, error) {
	b, ok := bodiesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBody, name)
	}
	return b, nil
}

// AllBodies returns every supported body in table order.
func AllBodies() []Body {
	out := make([]Body, len(bodyTable))
	for i := range bodyTable {
		out[i] = Body(i)
	}
	return out
}

// Planets returns Mercury through Pluto, excluding Earth.
func Planets() []Body {
	return []Body{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// Valid reports whether b is in the table.
func (b Body) Valid() bool {
	return b >= Sun && int(b) < len(bodyTable)
}

// IsPlanet reports whether b is one of Planets().
func (b Body) IsPlanet() bool {
	return b >= Mercury && b <= Pluto
}

// Info returns the table entry for b. Invalid bodies return a zero BodyInfo.
func (b Body) Info() BodyInfo {
	if !b.Valid() {
		return BodyInfo{}
	}
	return bodyTable[b]
}

// String returns the canonical lowercase name.
func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("body(%d)", int(b))
	}
	return bodyTable[b].Name
}

func (b Body) Label() string     { return b.Info().Label }
func (b Body) Color() string     { return b.Info().Color }
func (b Body) MarkerSize() int   { return b.Info().MarkerSize }
func (b Body) RadiusKm() float64 { return b.Info().RadiusKm }

// HasDisk reports whether rise and set are referred to the upper limb.
// Planets are treated as points.
func (b Body) HasDisk() bool {
	return b == Sun || b == Moon
}
