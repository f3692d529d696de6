// Package report converts almanac results into JSON exports and styled
// text tables for the command line and the HTTP API.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EventExport is an optional event instant. Time is omitted when the
// event does not occur.
type EventExport struct {
	Found bool       `json:"found"`
	Time  *time.Time `json:"time,omitempty"`
	Clock string     `json:"clock,omitempty"`
}

// NewEvent builds an EventExport from a finder result.
func NewEvent(t time.Time, found bool) EventExport {
	if !found {
		return EventExport{}
	}
	return EventExport{Found: true, Time: &t, Clock: almanac.ClockString(t)}
}

// String returns the clock time or a dash when absent.
func (e EventExport) String() string {
	if !e.Found {
		return "—"
	}
	return e.Clock
}

// RiseSetExport is one body's rise and set on a local date.
type RiseSetExport struct {
	Body  string      `json:"body"`
	Label string      `json:"label"`
	Date  string      `json:"date"`
	Rise  EventExport `json:"rise"`
	Set   EventExport `json:"set"`
}

// ExportRiseSet combines rise and set results.
func ExportRiseSet(b ephem.Body, d almanac.Date, rise time.Time, riseFound bool, set time.Time, setFound bool) RiseSetExport {
	return RiseSetExport{
		Body:  b.String(),
		Label: b.Label(),
		Date:  d.String(),
		Rise:  NewEvent(rise, riseFound),
		Set:   NewEvent(set, setFound),
	}
}

// PhaseExport describes the Moon's phase.
type PhaseExport struct {
	Date         string  `json:"date"`
	Degrees      float64 `json:"degrees"`
	Name         string  `json:"name"`
	Illumination float64 `json:"illumination"`
}

// ExportPhase names a phase angle.
func ExportPhase(d almanac.Date, deg float64) PhaseExport {
	return PhaseExport{
		Date:         d.String(),
		Degrees:      round(deg, 2),
		Name:         almanac.PhaseName(deg),
		Illumination: round(almanac.Illumination(deg), 3),
	}
}

// MoonExport is moonrise, moonset and phase for a date.
type MoonExport struct {
	RiseSetExport
	Phase PhaseExport `json:"phase"`
}

// TwilightEventExport is one twilight transition.
type TwilightEventExport struct {
	Time  time.Time `json:"time"`
	Clock string    `json:"clock"`
	Phase int       `json:"phase"`
	Name  string    `json:"name"`
}

// TwilightExport lists the transitions of one noon-to-noon window.
type TwilightExport struct {
	Date   string                `json:"date"`
	Events []TwilightEventExport `json:"events"`
}

// ExportTwilight converts transitions.
func ExportTwilight(d almanac.Date, events []almanac.Transition) TwilightExport {
	out := TwilightExport{Date: d.String(), Events: make([]TwilightEventExport, 0, len(events))}
	for _, ev := range events {
		out.Events = append(out.Events, TwilightEventExport{
			Time:  ev.Time,
			Clock: almanac.ClockString(ev.Time),
			Phase: int(ev.Phase),
			Name:  ev.Phase.String(),
		})
	}
	return out
}

// SeasonExport is the start of one season.
type SeasonExport struct {
	Name  string    `json:"name"`
	Time  time.Time `json:"time"`
	Date  string    `json:"date"`
	Clock string    `json:"clock"`
}

// SeasonsExport lists a year's season starts.
type SeasonsExport struct {
	Year    int            `json:"year"`
	Seasons []SeasonExport `json:"seasons"`
}

// ExportSeasons converts season starts.
func ExportSeasons(year int, seasons []almanac.Season) SeasonsExport {
	out := SeasonsExport{Year: year, Seasons: make([]SeasonExport, 0, len(seasons))}
	for _, s := range seasons {
		out.Seasons = append(out.Seasons, SeasonExport{
			Name:  s.Name,
			Time:  s.Time,
			Date:  s.Time.Format(time.DateOnly),
			Clock: almanac.ClockString(s.Time),
		})
	}
	return out
}

// PositionExport is a body's place in the sky.
type PositionExport struct {
	Body       string    `json:"body"`
	Label      string    `json:"label"`
	Time       time.Time `json:"time"`
	AltDeg     float64   `json:"altitude"`
	AzDeg      float64   `json:"azimuth"`
	Compass    string    `json:"compass"`
	RAdeg      float64   `json:"ra"`
	DecDeg     float64   `json:"dec"`
	DistanceKm float64   `json:"distance_km"`
	Distance   string    `json:"distance"`
	AboveHoriz bool      `json:"above_horizon"`
}

// ExportPosition converts a position, rounding angles to 0.01°.
func ExportPosition(p almanac.Position) PositionExport {
	return PositionExport{
		Body:       p.Body.String(),
		Label:      p.Body.Label(),
		Time:       p.Time,
		AltDeg:     round(p.AltDeg, 2),
		AzDeg:      round(p.AzDeg, 2),
		Compass:    astro.CompassPoint(p.AzDeg),
		RAdeg:      round(p.RAdeg, 4),
		DecDeg:     round(p.DecDeg, 4),
		DistanceKm: round(p.DistanceKm, 0),
		Distance:   FormatDistance(p.DistanceKm),
		AboveHoriz: p.AltDeg > 0,
	}
}

// PathPointExport is one point of a daily path.
type PathPointExport struct {
	Time   time.Time `json:"time"`
	Clock  string    `json:"clock"`
	AltDeg float64   `json:"altitude"`
	AzDeg  float64   `json:"azimuth"`
}

// PathExport is a daily path with its plot styling.
type PathExport struct {
	Body        string            `json:"body"`
	Label       string            `json:"label"`
	Color       string            `json:"color"`
	MarkerSize  int               `json:"marker_size"`
	StepMinutes float64           `json:"step_minutes"`
	Times       []time.Time       `json:"times"`
	Alt         []float64         `json:"altitude"`
	Az          []float64         `json:"azimuth"`
	Markers     []PathPointExport `json:"markers"`
	Actual      PathPointExport   `json:"actual"`
}

// ExportPath converts a daily path.
func ExportPath(p almanac.DailyPath) PathExport {
	out := PathExport{
		Body:        p.Body.String(),
		Label:       p.Body.Label(),
		Color:       p.Body.Color(),
		MarkerSize:  p.Body.MarkerSize(),
		StepMinutes: p.Step.Minutes(),
		Times:       make([]time.Time, len(p.Samples)),
		Alt:         p.Alt(),
		Az:          p.Az(),
		Markers:     make([]PathPointExport, len(p.Markers)),
		Actual:      exportPoint(p.Actual),
	}
	for i, s := range p.Samples {
		out.Times[i] = s.Time
	}
	for i, m := range p.Markers {
		out.Markers[i] = exportPoint(m)
	}
	return out
}

func exportPoint(s almanac.PathSample) PathPointExport {
	return PathPointExport{Time: s.Time, Clock: almanac.ClockString(s.Time), AltDeg: s.AltDeg, AzDeg: s.AzDeg}
}

// ObserverExport describes the observing site.
type ObserverExport struct {
	Name       string  `json:"name,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeM  float64 `json:"altitude_m"`
	Timezone   string  `json:"timezone"`
	Position   string  `json:"position"`
	GoogleMaps string  `json:"google_maps"`
	BingMaps   string  `json:"bing_maps"`
}

// ExportObserver describes obs in loc.
func ExportObserver(obs astro.Observer, loc *time.Location) ObserverExport {
	return ObserverExport{
		Name:       obs.Name,
		Latitude:   obs.LatDeg,
		Longitude:  obs.LonDeg,
		AltitudeM:  obs.AltM,
		Timezone:   loc.String(),
		Position:   astro.FormatLatLon(obs.LatDeg, obs.LonDeg),
		GoogleMaps: astro.GoogleMapsURL(obs.LatDeg, obs.LonDeg),
		BingMaps:   astro.BingMapsURL(obs.LatDeg, obs.LonDeg),
	}
}
