// Package almanac answers calendar questions about the sky for an
// observer: rise and set, twilight, seasons, moon phase and daily paths.
package almanac

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for dates that do not exist or fall outside
// the supported years.
var ErrInvalidDate = errors.New("invalid date")

// Supported calendar years, matching the coverage of the de440 file
// (JD 2287184.5 to 2688976.5). MaxYear is only partly covered: dates after
// 2650-01-25 pass Validate and then fail with ephem.ErrOutOfRange once the
// dataset is consulted, so no season of 2650 can be found.
const (
	MinYear = 1550
	MaxYear = 2650
)

// Date is a local calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date y-m-d. It is not validated.
func NewDate(y int, m time.Month, d int) Date {
	return Date{Year: y, Month: m, Day: d}
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date such as "2024-06-22".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d := DateOf(t, time.UTC)
	return d, d.Validate()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Validate rejects out-of-range fields and dates that do not exist, such
// as February 30. It never normalizes.
func (d Date) Validate() error {
	if err := validateYear(d.Year); err != nil {
		return err
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, int(d.Month))
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: day %d", ErrInvalidDate, d.Day)
	}
	y, m, day := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Date()
	if y != d.Year || m != d.Month || day != d.Day {
		return fmt.Errorf("%w: %s does not exist", ErrInvalidDate, d)
	}
	return nil
}

func validateYear(y int) error {
	if y < MinYear || y > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidDate, y, MinYear, MaxYear)
	}
	return nil
}

// Interval is a half-open span of absolute time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// FrameDay returns local midnight of d to local midnight of the next day.
// On daylight-saving transition days the interval is 23 or 25 hours long.
func FrameDay(d Date, loc *time.Location) (Interval, error) {
	return frame(d, loc, 0)
}

// FrameNoon returns local noon of d to local noon of the next day, so a
// whole night falls inside one interval.
func FrameNoon(d Date, loc *time.Location) (Interval, error) {
	return frame(d, loc, 12)
}

func frame(d Date, loc *time.Location, hour int) (Interval, error) {
	if err := d.Validate(); err != nil {
		return Interval{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return Interval{
		Start: time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc),
		End:   time.Date(d.Year, d.Month, d.Day+1, hour, 0, 0, 0, loc),
	}, nil
}

// LocalNoon returns 12:00 local time on d.
func LocalNoon(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

// ToLocal converts an instant to loc.
func ToLocal(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// ClockString formats t as HH:MM:SS. Fractional seconds are truncated.
func ClockString(t time.Time) string {
	return t.Format(time.TimeOnly)
}
