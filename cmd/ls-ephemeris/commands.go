package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/report"
)

// cli runs one-shot commands against an ephemeris.
type cli struct {
	eph  *almanac.Ephemeris
	opts cliOptions
	out  io.Writer
	now  func() time.Time
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "sky":
		return c.sky(ctx)
	case "sun":
		return c.riseSet(ctx, "Sun", ephem.Sun)
	case "moon":
		return c.moon(ctx)
	case "planet":
		b, err := c.bodyArg(cmd, args)
		if err != nil {
			return err
		}
		if !b.IsPlanet() {
			return fmt.Errorf("%w: %v is not a planet", ephem.ErrInvalidBody, b)
		}
		return c.riseSet(ctx, b.Label(), b)
	case "planets":
		return c.riseSet(ctx, "Planets", ephem.Planets()...)
	case "phase":
		return c.phase(ctx)
	case "twilight":
		return c.twilight(ctx)
	case "seasons":
		return c.seasons(ctx, args)
	case "position":
		b, err := c.bodyArg(cmd, args)
		if err != nil {
			return err
		}
		return c.position(ctx, b)
	case "path":
		b, err := c.bodyArg(cmd, args)
		if err != nil {
			return err
		}
		return c.path(ctx, b)
	case "observer":
		o := report.ExportObserver(c.eph.Observer(), c.eph.Location())
		if c.opts.json {
			return report.WriteJSON(c.out, o)
		}
		report.WriteObserver(c.out, o)
		return nil
	case "check":
		return c.check(ctx)
	default:
		return fmt.Errorf("unknown command %q (see --help)", cmd)
	}
}

// date resolves --date, defaulting to today in the observer's zone.
func (c *cli) date() (almanac.Date, error) {
	if c.opts.date != "" {
		return almanac.ParseDate(c.opts.date)
	}
	return almanac.DateOf(c.now(), c.eph.Location()), nil
}

// instant resolves --time, defaulting to now.
func (c *cli) instant() (time.Time, error) {
	if c.opts.at == "" {
		return c.now(), nil
	}
	t, err := time.Parse(time.RFC3339, c.opts.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --time %q is not RFC 3339", almanac.ErrInvalidDate, c.opts.at)
	}
	return t, nil
}

func (c *cli) bodyArg(cmd string, args []string) (ephem.Body, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: ls-ephemeris %s <body>", cmd)
	}
	return ephem.ParseBody(args[0])
}

func (c *cli) riseSet(ctx context.Context, title string, bodies ...ephem.Body) error {
	d, err := c.date()
	if err != nil {
		return err
	}
	rows := make([]report.RiseSetExport, 0, len(bodies))
	for _, b := range bodies {
		rs, err := report.RiseSet(ctx, c.eph, b, d)
		if err != nil {
			return err
		}
		rows = append(rows, rs)
	}
	if c.opts.json {
		if len(rows) == 1 {
			return report.WriteJSON(c.out, rows[0])
		}
		return report.WriteJSON(c.out, rows)
	}
	report.WriteRiseSet(c.out, title+" · "+d.String(), rows)
	return nil
}

func (c *cli) moon(ctx context.Context) error {
	d, err := c.date()
	if err != nil {
		return err
	}
	rs, err := report.RiseSet(ctx, c.eph, ephem.Moon, d)
	if err != nil {
		return err
	}
	deg, err := c.eph.GetMoonPhase(ctx, d)
	if err != nil {
		return err
	}
	m := report.MoonExport{RiseSetExport: rs, Phase: report.ExportPhase(d, deg)}
	if c.opts.json {
		return report.WriteJSON(c.out, m)
	}
	report.WriteMoon(c.out, "Moon · "+d.String(), m)
	return nil
}

func (c *cli) phase(ctx context.Context) error {
	d, err := c.date()
	if err != nil {
		return err
	}
	deg, err := c.eph.GetMoonPhase(ctx, d)
	if err != nil {
		return err
	}
	p := report.ExportPhase(d, deg)
	if c.opts.json {
		return report.WriteJSON(c.out, p)
	}
	report.WritePhase(c.out, "Moon Phase · "+d.String(), p)
	return nil
}

func (c *cli) twilight(ctx context.Context) error {
	d, err := c.date()
	if err != nil {
		return err
	}
	events, err := c.eph.GetTwilightTimesEvents(ctx, d)
	if err != nil {
		return err
	}
	t := report.ExportTwilight(d, events)
	if c.opts.json {
		return report.WriteJSON(c.out, t)
	}
	report.WriteTwilight(c.out, "Twilight · "+d.String(), t)
	return nil
}

func (c *cli) seasons(ctx context.Context, args []string) error {
	year := almanac.DateOf(c.now(), c.eph.Location()).Year
	switch {
	case len(args) == 1:
		y, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: year %q is not a number", almanac.ErrInvalidDate, args[0])
		}
		year = y
	case len(args) > 1:
		return fmt.Errorf("usage: ls-ephemeris seasons [year]")
	case c.opts.date != "":
		d, err := c.date()
		if err != nil {
			return err
		}
		year = d.Year
	}

	seasons, err := c.eph.GetSeasons(ctx, year)
	if err != nil {
		return err
	}
	s := report.ExportSeasons(year, seasons)
	if c.opts.json {
		return report.WriteJSON(c.out, s)
	}
	report.WriteSeasons(c.out, fmt.Sprintf("Seasons · %d", year), s)
	return nil
}

func (c *cli) position(ctx context.Context, b ephem.Body) error {
	t, err := c.instant()
	if err != nil {
		return err
	}
	pos, err := c.eph.ComputePosition(ctx, t, b)
	if err != nil {
		return err
	}
	p := report.ExportPosition(pos)
	if c.opts.json {
		return report.WriteJSON(c.out, p)
	}
	report.WritePosition(c.out, b.Label()+" · "+almanac.ClockString(pos.Time), p)
	return nil
}

func (c *cli) path(ctx context.Context, b ephem.Body) error {
	t, err := c.instant()
	if err != nil {
		return err
	}
	if c.opts.at == "" && c.opts.date != "" {
		// A bare --date samples that day, referenced at local noon.
		d, err := c.date()
		if err != nil {
			return err
		}
		t = almanac.LocalNoon(d, c.eph.Location())
	}
	dp, err := c.eph.ComputeDailyPath(ctx, t, b)
	if err != nil {
		return err
	}
	p := report.ExportPath(dp)
	if c.opts.json {
		return report.WriteJSON(c.out, p)
	}
	report.WritePath(c.out, b.Label()+" path · "+almanac.DateOf(t, c.eph.Location()).String(), p)
	return nil
}

func (c *cli) sky(ctx context.Context) error {
	t, err := c.instant()
	if err != nil {
		return err
	}
	s, err := report.Sky(ctx, c.eph, t)
	if err != nil {
		return err
	}
	if c.opts.json {
		return report.WriteJSON(c.out, s)
	}
	report.WriteSky(c.out, s)
	return nil
}

func (c *cli) check(ctx context.Context) error {
	d, err := c.date()
	if err != nil {
		return err
	}
	chk, err := report.Check(ctx, c.eph, d)
	if err != nil {
		return err
	}
	if c.opts.json {
		return report.WriteJSON(c.out, chk)
	}
	report.WriteCheck(c.out, chk)
	return nil
}
