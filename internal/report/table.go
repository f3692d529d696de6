package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
)

const ruleWidth = 72

func writeTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", ruleWidth)))
}

func writeHeader(w io.Writer, format string, cols ...any) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(format, cols...)))
}

// WriteRiseSet writes a rise/set table.
func WriteRiseSet(w io.Writer, title string, rows []RiseSetExport) {
	writeTitle(w, title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	writeHeader(w, "%-10s %-12s %-10s %-10s", "Body", "Date", "Rise", "Set")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s %-12s %-10s %-10s\n",
			truncateStr(r.Label, 10), r.Date, r.Rise, r.Set)
	}
}

// WriteMoon writes moonrise, moonset and phase.
func WriteMoon(w io.Writer, title string, m MoonExport) {
	WriteRiseSet(w, title, []RiseSetExport{m.RiseSetExport})
	fmt.Fprintln(w)
	writePhaseLine(w, m.Phase)
}

// WritePhase writes the Moon's phase.
func WritePhase(w io.Writer, title string, p PhaseExport) {
	writeTitle(w, title)
	writePhaseLine(w, p)
}

func writePhaseLine(w io.Writer, p PhaseExport) {
	fmt.Fprintf(w, "Phase %6.2f°  %s, %.0f%% illuminated\n", p.Degrees, p.Name, p.Illumination*100)
}

// WriteTwilight writes twilight transitions.
func WriteTwilight(w io.Writer, title string, t TwilightExport) {
	writeTitle(w, title)
	if len(t.Events) == 0 {
		fmt.Fprintln(w, "No twilight transitions (polar day or night)")
		return
	}

	writeHeader(w, "%-12s %-10s %-5s %s", "Date", "Time", "Phase", "Entering")
	for _, ev := range t.Events {
		fmt.Fprintf(w, "%-12s %-10s %-5d %s\n", ev.Time.Format(time.DateOnly), ev.Clock, ev.Phase, ev.Name)
	}
}

// WriteSeasons writes season starts.
func WriteSeasons(w io.Writer, title string, s SeasonsExport) {
	writeTitle(w, title)
	writeHeader(w, "%-8s %-12s %-10s", "Season", "Date", "Time")
	for _, season := range s.Seasons {
		fmt.Fprintf(w, "%-8s %-12s %-10s\n", season.Name, season.Date, season.Clock)
	}
}

// WritePosition writes a single body position.
func WritePosition(w io.Writer, title string, p PositionExport) {
	writeTitle(w, title)
	fmt.Fprintf(w, "%-10s %s\n", "Time", p.Time.Format(time.DateTime+" MST"))
	fmt.Fprintf(w, "%-10s %7.2f°\n", "Altitude", p.AltDeg)
	fmt.Fprintf(w, "%-10s %7.2f° (%s)\n", "Azimuth", p.AzDeg, p.Compass)
	fmt.Fprintf(w, "%-10s %9.4f°\n", "RA", p.RAdeg)
	fmt.Fprintf(w, "%-10s %9.4f°\n", "Dec", p.DecDeg)
	fmt.Fprintf(w, "%-10s %s\n", "Distance", p.Distance)
}

// WritePath writes the hourly markers of a daily path with an altitude
// bar for points above the horizon.
func WritePath(w io.Writer, title string, p PathExport) {
	writeTitle(w, title)
	writeHeader(w, "%-10s %8s %8s  %s", "Time", "Alt", "Az", "")
	for _, m := range p.Markers {
		fmt.Fprintf(w, "%-10s %7.2f° %7.2f°  %s\n", m.Clock, m.AltDeg, m.AzDeg, altitudeBar(m.AltDeg))
	}
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", ruleWidth)))
	fmt.Fprintf(w, "%-10s %7.2f° %7.2f°  now\n", p.Actual.Clock, p.Actual.AltDeg, p.Actual.AzDeg)
	fmt.Fprintf(w, "\n%d samples every %s\n", len(p.Alt), time.Duration(p.StepMinutes*float64(time.Minute)))
}

// altitudeBar draws one block per 3° of altitude.
func altitudeBar(alt float64) string {
	if alt <= 0 {
		return ""
	}
	return upStyle.Render(strings.Repeat("█", int(math.Ceil(alt/3))))
}

// WriteSky writes a sky snapshot.
func WriteSky(w io.Writer, s SkyExport) {
	site := s.Observer.Position
	if s.Observer.Name != "" {
		site = s.Observer.Name + " " + site
	}
	writeTitle(w, fmt.Sprintf("Sky @ %s  %s", s.Time.Format(time.DateTime+" MST"), site))

	writeHeader(w, "%-10s %8s %8s %-4s %-10s %-10s %s", "Body", "Alt", "Az", "Dir", "Rise", "Set", "Distance")
	for _, b := range s.Bodies {
		line := fmt.Sprintf("%-10s %7.2f° %7.2f° %-4s %-10s %-10s %s",
			truncateStr(b.Label, 10), b.AltDeg, b.AzDeg, b.Compass, b.Rise, b.Set, b.Distance)
		if b.AboveHoriz {
			line = upStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	writePhaseLine(w, s.Phase)
}

// WriteObserver writes the observing site.
func WriteObserver(w io.Writer, o ObserverExport) {
	title := "Observer"
	if o.Name != "" {
		title += " " + o.Name
	}
	writeTitle(w, title)
	fmt.Fprintf(w, "%-10s %s\n", "Position", o.Position)
	fmt.Fprintf(w, "%-10s %.0f m\n", "Altitude", o.AltitudeM)
	fmt.Fprintf(w, "%-10s %s\n", "Timezone", o.Timezone)
	fmt.Fprintf(w, "%-10s %s\n", "Google", o.GoogleMaps)
	fmt.Fprintf(w, "%-10s %s\n", "Bing", o.BingMaps)
}

// FormatDistance returns a human-readable distance string.
func FormatDistance(km float64) string {
	switch {
	case km <= 0:
		return "N/A"
	case km < 1e6:
		return formatWithUnit(km, "km")
	case km < 1e8:
		return formatWithUnit(km/1e6, "M km")
	default:
		return formatWithUnit(km/1.495978707e8, "AU")
	}
}

func formatWithUnit(value float64, unit string) string {
	if value < 10 {
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + unit
	} else if value < 100 {
		return strconv.FormatFloat(value, 'f', 1, 64) + " " + unit
	}
	return strconv.FormatFloat(value, 'f', 0, 64) + " " + unit
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func truncateStr(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
