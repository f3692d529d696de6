package almanac

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/metrics"
)

// Query names used for metrics and logs.
const (
	QuerySunrise    = "sunrise"
	QuerySunset     = "sunset"
	QueryMoonrise   = "moonrise"
	QueryMoonset    = "moonset"
	QueryPlanetRise = "planet_rise"
	QueryPlanetSet  = "planet_set"
	QueryMoonPhase  = "moon_phase"
	QueryTwilight   = "twilight"
	QueryPosition   = "position"
	QueryDailyPath  = "daily_path"
	QuerySolstices  = "solstices"
	QueryEquinoxes  = "equinoxes"
	QuerySeasons    = "seasons"
)

// Ephemeris answers almanac queries for one observer. Dates are local
// to the observer's timezone and so are all returned times. It holds no
// mutable state and is safe for concurrent use.
type Ephemeris struct {
	obs    astro.Observer
	loc    *time.Location
	src    Source
	step   time.Duration
	logger *logging.Logger
}

// Option configures an Ephemeris.
type Option func(*Ephemeris)

// WithPathStep sets the daily path sampling interval.
func WithPathStep(d time.Duration) Option {
	return func(e *Ephemeris) {
		e.step = d
	}
}

// WithLogger sets the logger for query events.
func WithLogger(l *logging.Logger) Option {
	return func(e *Ephemeris) {
		e.logger = l
	}
}

// New binds obs, the IANA zone tz and a dataset source. An empty tz
// means UTC.
func New(obs astro.Observer, tz string, src Source, opts ...Option) (*Ephemeris, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("almanac: nil source")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}

	e := &Ephemeris{
		obs:    obs,
		loc:    loc,
		src:    src,
		step:   DefaultPathStep,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.step <= 0 {
		return nil, fmt.Errorf("path step must be positive, got %v", e.step)
	}
	return e, nil
}

// Observer returns the bound observer.
func (e *Ephemeris) Observer() astro.Observer {
	return e.obs
}

// Location returns the observer's timezone.
func (e *Ephemeris) Location() *time.Location {
	return e.loc
}

// GetSunriseTime returns the first sunrise on local date d.
func (e *Ephemeris) GetSunriseTime(ctx context.Context, d Date) (time.Time, bool, error) {
	return e.horizonEvent(ctx, QuerySunrise, d, ephem.Sun, true)
}

// GetSunsetTime returns the first sunset on local date d.
func (e *Ephemeris) GetSunsetTime(ctx context.Context, d Date) (time.Time, bool, error) {
	return e.horizonEvent(ctx, QuerySunset, d, ephem.Sun, false)
}

// GetMoonriseTime returns the first moonrise on local date d.
func (e *Ephemeris) GetMoonriseTime(ctx context.Context, d Date) (time.Time, bool, error) {
	return e.horizonEvent(ctx, QueryMoonrise, d, ephem.Moon, true)
}

// GetMoonsetTime returns the first moonset on local date d.
func (e *Ephemeris) GetMoonsetTime(ctx context.Context, d Date) (time.Time, bool, error) {
	return e.horizonEvent(ctx, QueryMoonset, d, ephem.Moon, false)
}

// GetPlanetRiseTime returns the first rise of planet on local date d.
// Pluto counts as a planet; the Sun and Moon do not.
func (e *Ephemeris) GetPlanetRiseTime(ctx context.Context, d Date, planet ephem.Body) (time.Time, bool, error) {
	if !planet.IsPlanet() {
		return time.Time{}, false, fmt.Errorf("%w: %v is not a planet", ephem.ErrInvalidBody, planet)
	}
	return e.horizonEvent(ctx, QueryPlanetRise, d, planet, true)
}

// GetPlanetSetTime returns the first set of planet on local date d.
func (e *Ephemeris) GetPlanetSetTime(ctx context.Context, d Date, planet ephem.Body) (time.Time, bool, error) {
	if !planet.IsPlanet() {
		return time.Time{}, false, fmt.Errorf("%w: %v is not a planet", ephem.ErrInvalidBody, planet)
	}
	return e.horizonEvent(ctx, QueryPlanetSet, d, planet, false)
}

func (e *Ephemeris) horizonEvent(ctx context.Context, query string, d Date, b ephem.Body, rising bool) (t time.Time, found bool, err error) {
	start := time.Now()
	defer func() { e.observe(query, d.String(), start, found, err) }()

	iv, err := FrameDay(d, e.loc)
	if err != nil {
		return time.Time{}, false, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	find := FindSetting
	if rising {
		find = FindRising
	}
	t, found, err = find(ctx, ds, e.obs, b, iv)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	return t.In(e.loc), true, nil
}

// GetMoonPhase returns the Moon's phase angle at local noon of d.
func (e *Ephemeris) GetMoonPhase(ctx context.Context, d Date) (deg float64, err error) {
	start := time.Now()
	defer func() { e.observe(QueryMoonPhase, d.String(), start, true, err) }()

	if err := d.Validate(); err != nil {
		return 0, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return 0, err
	}
	return MoonPhase(ctx, ds, LocalNoon(d, e.loc))
}

// GetTwilightTimesEvents returns the twilight transitions from local noon
// of d to local noon of the following day.
func (e *Ephemeris) GetTwilightTimesEvents(ctx context.Context, d Date) (out []Transition, err error) {
	start := time.Now()
	defer func() { e.observe(QueryTwilight, d.String(), start, len(out) > 0, err) }()

	iv, err := FrameNoon(d, e.loc)
	if err != nil {
		return nil, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err = FindTwilightTransitions(ctx, ds, e.obs, iv)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Time = out[i].Time.In(e.loc)
	}
	return out, nil
}

// GetTwilightTimes returns only the instants of GetTwilightTimesEvents.
func (e *Ephemeris) GetTwilightTimes(ctx context.Context, d Date) ([]time.Time, error) {
	events, err := e.GetTwilightTimesEvents(ctx, d)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(events))
	for i, ev := range events {
		times[i] = ev.Time
	}
	return times, nil
}

// ComputePosition returns b's position in the observer's sky at t.
func (e *Ephemeris) ComputePosition(ctx context.Context, t time.Time, b ephem.Body) (pos Position, err error) {
	start := time.Now()
	defer func() { e.observe(QueryPosition, b.String(), start, true, err) }()

	if err := e.checkInstant(t, b); err != nil {
		return Position{}, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return Position{}, err
	}
	return PositionAt(ctx, ds, e.obs, b, t.In(e.loc))
}

// ComputeDailyPath samples b across the local day containing t. The
// position at t is reported as the path's Actual point.
func (e *Ephemeris) ComputeDailyPath(ctx context.Context, t time.Time, b ephem.Body) (path DailyPath, err error) {
	start := time.Now()
	defer func() { e.observe(QueryDailyPath, b.String(), start, true, err) }()

	if err := e.checkInstant(t, b); err != nil {
		return DailyPath{}, err
	}
	iv, err := FrameDay(DateOf(t, e.loc), e.loc)
	if err != nil {
		return DailyPath{}, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return DailyPath{}, err
	}
	return SamplePath(ctx, ds, e.obs, b, iv, e.step, t.In(e.loc))
}

func (e *Ephemeris) checkInstant(t time.Time, b ephem.Body) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %v", ephem.ErrInvalidBody, b)
	}
	return validateYear(DateOf(t, e.loc).Year)
}

// GetSolstices returns the June and December solstices of year.
func (e *Ephemeris) GetSolstices(ctx context.Context, year int) (summer, winter time.Time, err error) {
	start := time.Now()
	defer func() { e.observe(QuerySolstices, fmt.Sprint(year), start, true, err) }()

	if err := validateYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	summer, winter, err = FindSolstices(ctx, ds, year)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return summer.In(e.loc), winter.In(e.loc), nil
}

// GetEquinoxes returns the March and September equinoxes of year.
func (e *Ephemeris) GetEquinoxes(ctx context.Context, year int) (spring, autumn time.Time, err error) {
	start := time.Now()
	defer func() { e.observe(QueryEquinoxes, fmt.Sprint(year), start, true, err) }()

	if err := validateYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	spring, autumn, err = FindEquinoxes(ctx, ds, year)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return spring.In(e.loc), autumn.In(e.loc), nil
}

// GetSeasons returns the four season starts of year, spring first.
func (e *Ephemeris) GetSeasons(ctx context.Context, year int) (out []Season, err error) {
	start := time.Now()
	defer func() { e.observe(QuerySeasons, fmt.Sprint(year), start, true, err) }()

	if err := validateYear(year); err != nil {
		return nil, err
	}
	ds, err := e.src.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err = FindSeasons(ctx, ds, year)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Time = out[i].Time.In(e.loc)
	}
	return out, nil
}

func (e *Ephemeris) observe(query, subject string, start time.Time, found bool, err error) {
	elapsed := time.Since(start)
	metrics.ObserveQuery(query, metrics.Outcome(found, err), elapsed)

	log := e.logger.Slog().With("query", query, "subject", subject, "observer", e.obs.Name)
	switch {
	case err != nil:
		log.Debug("query failed", "error", err)
	case !found:
		log.Debug("no event", "duration", elapsed)
	default:
		log.Debug("query done", "duration", elapsed)
	}
}
