package almanac

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/solstice"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// SeasonKind identifies the start of an astronomical season. Names are
// relative to the Northern hemisphere.
type SeasonKind int

const (
	Spring SeasonKind = iota // March equinox, solar longitude 0°
	Summer                   // June solstice, 90°
	Autumn                   // September equinox, 180°
	Winter                   // December solstice, 270°
)

func (k SeasonKind) String() string {
	switch k {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	default:
		return "unknown"
	}
}

// Season is the instant a season starts.
type Season struct {
	Kind SeasonKind
	Name string
	Time time.Time
}

const (
	// seasonWindow is searched on each side of the series estimate.
	seasonWindow = 3 * 24 * time.Hour
	seasonStep   = time.Hour
)

// seasonEstimates are the mean-equinox series for each season, in JDE.
var seasonEstimates = [...]func(int) float64{
	Spring: solstice.March,
	Summer: solstice.June,
	Autumn: solstice.September,
	Winter: solstice.December,
}

// FindSeasons returns the four season starts of year in order spring,
// summer, autumn, winter.
func FindSeasons(ctx context.Context, ds ephem.Dataset, year int) ([]Season, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	out := make([]Season, 0, len(seasonEstimates))
	for k := range seasonEstimates {
		kind := SeasonKind(k)
		t, err := findSeason(ctx, ds, year, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, Season{Kind: kind, Name: kind.String(), Time: t})
	}
	return out, nil
}

// FindEquinoxes returns the March and September equinoxes of year.
func FindEquinoxes(ctx context.Context, ds ephem.Dataset, year int) (spring, autumn time.Time, err error) {
	if err := validateYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if spring, err = findSeason(ctx, ds, year, Spring); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if autumn, err = findSeason(ctx, ds, year, Autumn); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return spring, autumn, nil
}

// FindSolstices returns the June and December solstices of year.
func FindSolstices(ctx context.Context, ds ephem.Dataset, year int) (summer, winter time.Time, err error) {
	if err := validateYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if summer, err = findSeason(ctx, ds, year, Summer); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if winter, err = findSeason(ctx, ds, year, Winter); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return summer, winter, nil
}

// quadrantFunc classifies apparent solar longitude into 90° quadrants.
func quadrantFunc(ds ephem.Dataset) levelFunc {
	return func(t time.Time) (int, error) {
		lon, err := ephem.EclipticLongitude(ds, ephem.Sun, ephem.NewFrame(t))
		if err != nil {
			return 0, err
		}
		return int(math.Floor(lon/90)) % 4, nil
	}
}

// findSeason locates the instant the Sun enters the quadrant for kind,
// searching a window around the series estimate.
func findSeason(ctx context.Context, ds ephem.Dataset, year int, kind SeasonKind) (time.Time, error) {
	est := timeFromJDE(seasonEstimates[kind](year))
	iv := Interval{Start: est.Add(-seasonWindow), End: est.Add(seasonWindow)}

	changes, err := findDiscrete(ctx, quadrantFunc(ds), iv, seasonStep)
	if err != nil {
		return time.Time{}, err
	}
	for _, c := range changes {
		if c.Level == int(kind) {
			return c.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %d: solar longitude %d° not crossed near %s",
		kind, year, int(kind)*90, est.Format(time.DateOnly))
}

// timeFromJDE converts a Julian Ephemeris Day to UTC.
func timeFromJDE(jde float64) time.Time {
	ut := astro.TimeFromJulianDate(jde)
	return ut.Add(-time.Duration(astro.DeltaT(astro.DecimalYear(ut)) * float64(time.Second)))
}
