package almanac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

func TestFindSeasons_2024(t *testing.T) {
	got, err := FindSeasons(context.Background(), analytic, 2024)
	if err != nil {
		t.Fatalf("FindSeasons() error = %v", err)
	}

	want := []struct {
		kind SeasonKind
		name string
		at   time.Time
	}{
		{Spring, "spring", time.Date(2024, time.March, 20, 3, 6, 0, 0, time.UTC)},
		{Summer, "summer", time.Date(2024, time.June, 20, 20, 51, 0, 0, time.UTC)},
		{Autumn, "autumn", time.Date(2024, time.September, 22, 12, 44, 0, 0, time.UTC)},
		{Winter, "winter", time.Date(2024, time.December, 21, 9, 20, 0, 0, time.UTC)},
	}
	if len(got) != len(want) {
		t.Fatalf("FindSeasons() = %d seasons, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Name != w.name {
			t.Errorf("season %d = %v %q, want %v %q", i, got[i].Kind, got[i].Name, w.kind, w.name)
		}
		assertNear(t, w.name, got[i].Time, w.at, 15*time.Minute)
	}
}

func TestFindSolsticesAndEquinoxes(t *testing.T) {
	ctx := context.Background()

	summer, winter, err := FindSolstices(ctx, analytic, 2024)
	if err != nil {
		t.Fatalf("FindSolstices() error = %v", err)
	}
	spring, autumn, err := FindEquinoxes(ctx, analytic, 2024)
	if err != nil {
		t.Fatalf("FindEquinoxes() error = %v", err)
	}

	dates := []struct {
		name string
		got  time.Time
		want string
	}{
		{"spring", spring, "2024-03-20"},
		{"summer", summer, "2024-06-20"},
		{"autumn", autumn, "2024-09-22"},
		{"winter", winter, "2024-12-21"},
	}
	for _, d := range dates {
		if got := d.got.UTC().Format(time.DateOnly); got != d.want {
			t.Errorf("%s = %s, want %s", d.name, got, d.want)
		}
	}
}

func TestFindSeasons_AgreesWithMeeus(t *testing.T) {
	if testing.Short() {
		t.Skip("several years of season searches")
	}
	ctx := context.Background()

	for _, year := range []int{1700, 1900, 2000, 2100, 2400} {
		got, err := FindSeasons(ctx, analytic, year)
		if err != nil {
			t.Fatalf("FindSeasons(%d) error = %v", year, err)
		}
		for i, est := range []func(int) float64{solstice.March, solstice.June, solstice.September, solstice.December} {
			assertNear(t, got[i].Name, got[i].Time, timeFromJDE(est(year)), 20*time.Minute)
		}
	}
}

func TestFindSeasons_InvalidYear(t *testing.T) {
	ctx := context.Background()
	for _, year := range []int{MinYear - 1, MaxYear + 1} {
		if _, err := FindSeasons(ctx, analytic, year); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("FindSeasons(%d) error = %v, want ErrInvalidDate", year, err)
		}
		if _, _, err := FindSolstices(ctx, analytic, year); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("FindSolstices(%d) error = %v, want ErrInvalidDate", year, err)
		}
		if _, _, err := FindEquinoxes(ctx, analytic, year); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("FindEquinoxes(%d) error = %v, want ErrInvalidDate", year, err)
		}
	}
}
