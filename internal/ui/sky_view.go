package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/report"
)

// The sky window is an equirectangular patch of the dome centred on the
// camera pointing.
const (
	viewWidthDeg  = 120.0
	viewHeightDeg = 60.0

	slewDuration = 400 * time.Millisecond
	slewFrame    = 30 * time.Millisecond

	glyphSun      = '☉'
	glyphMoon     = '☾'
	glyphPlanet   = '●'
	glyphFocused  = '◆'
	glyphObserver = '▲'
	glyphHorizon  = '─'

	colorLabel        = "#d0c8ff"
	colorLabelFocused = "229"
	colorSkyBg        = "236"
	colorHorizon      = "60"
	colorCardinal     = "252"
	colorObserver     = "46"
)

// LabelMode selects which bodies get a name beside their glyph.
type LabelMode int

const (
	LabelNone LabelMode = iota
	LabelFocused
	LabelAll
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

// pointing is a horizontal direction in degrees.
type pointing struct {
	az, alt float64
}

// column maps az to a screen column of a w-wide window centred on p.
func (p pointing) column(az float64, w int) (int, bool) {
	d := wrap180(az - p.az)
	if math.Abs(d) > viewWidthDeg/2 {
		return 0, false
	}
	return int((d/viewWidthDeg + 0.5) * float64(w)), true
}

// project maps a direction to a cell. Rows 0..horizonRow-1 hold the sky,
// higher altitude nearer the top.
func (p pointing) project(az, alt float64, w, horizonRow int) (x, y int, ok bool) {
	x, ok = p.column(az, w)
	if !ok {
		return 0, 0, false
	}
	d := alt - p.alt
	if math.Abs(d) > viewHeightDeg/2 {
		return 0, 0, false
	}
	return x, int((0.5 - d/viewHeightDeg) * float64(horizonRow)), true
}

// slew eases the camera between two pointings.
type slew struct {
	from, to pointing
	start    time.Time
}

// at reports the camera pointing at now and whether the slew is over.
func (s slew) at(now time.Time) (pointing, bool) {
	f := float64(now.Sub(s.start)) / float64(slewDuration)
	if f >= 1 {
		return s.to, true
	}
	f = 1 - math.Pow(1-f, 3)
	return pointing{az: mixAngle(s.from.az, s.to.az, f), alt: mix(s.from.alt, s.to.alt, f)}, false
}

type slewTickMsg time.Time

func slewTick() tea.Cmd {
	return tea.Tick(slewFrame, func(t time.Time) tea.Msg { return slewTickMsg(t) })
}

// SkyViewModel draws the bodies above the horizon and lets the user step
// the camera between them.
type SkyViewModel struct {
	width, height int

	cam  pointing
	slew *slew // nil when the camera is still

	bodies []report.SkyBodyExport
	focus  int
	labels LabelMode
}

func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{cam: pointing{az: 180, alt: 30}, labels: LabelFocused}
}

func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width, m.height = width, height
	return m
}

// UpdateData replaces the visible bodies, keeping focus on the same body
// when it is still up.
func (m SkyViewModel) UpdateData(sky report.SkyExport) SkyViewModel {
	prev := ""
	if f, ok := m.focused(); ok {
		prev = f.Body
	}

	up := make([]report.SkyBodyExport, 0, len(sky.Bodies))
	for _, b := range sky.Bodies {
		if b.AboveHoriz {
			up = append(up, b)
		}
	}
	m.bodies = up
	m.focus = 0
	for i, b := range up {
		if b.Body == prev {
			m.focus = i
			break
		}
	}

	if f, ok := m.focused(); ok && m.slew == nil {
		m.cam = pointing{az: f.AzDeg, alt: f.AltDeg}
	}
	return m
}

func (m SkyViewModel) focused() (report.SkyBodyExport, bool) {
	if m.focus < 0 || m.focus >= len(m.bodies) {
		return report.SkyBodyExport{}, false
	}
	return m.bodies[m.focus], true
}

func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			return m.refocus(1)
		case "up", "k":
			return m.refocus(-1)
		case "l":
			m.labels = (m.labels + 1) % 3
		}
	case slewTickMsg:
		if m.slew == nil {
			return m, nil
		}
		cam, done := m.slew.at(time.Time(msg))
		m.cam = cam
		if done {
			m.slew = nil
			return m, nil
		}
		return m, slewTick()
	}
	return m, nil
}

// refocus moves focus by step, wrapping, and starts a slew to the new body.
func (m SkyViewModel) refocus(step int) (SkyViewModel, tea.Cmd) {
	n := len(m.bodies)
	if n == 0 {
		return m, nil
	}
	m.focus = ((m.focus+step)%n + n) % n
	b := m.bodies[m.focus]
	m.slew = &slew{from: m.cam, to: pointing{az: b.AzDeg, alt: b.AltDeg}, start: time.Now()}
	return m, slewTick()
}

func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	return strings.Join([]string{
		m.header(),
		m.drawSky(m.width, m.height-4).String(),
		m.status(),
	}, "\n")
}

func (m SkyViewModel) header() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHorizon))
	labels := dim
	if m.labels != LabelNone {
		labels = lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))
	}
	return strings.Join([]string{
		title.Render("Sky View"),
		dim.Render(fmt.Sprintf("%d above horizon", len(m.bodies))),
		labels.Render("Labels: " + m.labels.String()),
		dim.Render(fmt.Sprintf("Az:%.0f° Alt:%.0f°", m.cam.az, m.cam.alt)),
	}, " | ")
}

func (m SkyViewModel) status() string {
	b, ok := m.focused()
	if !ok {
		return "Nothing above the horizon"
	}
	line := fmt.Sprintf(">>> %s | Az:%.1f° (%s) Alt:%.1f° | %s | Rise %s Set %s",
		b.Label, b.AzDeg, b.Compass, b.AltDeg, b.Distance, b.Rise, b.Set)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabelFocused)).Render(line)
}

// skyMark is a body glyph placed on the canvas.
type skyMark struct {
	x, y    int
	label   string
	focused bool
}

func (m SkyViewModel) drawSky(w, h int) *skyCanvas {
	c := newSkyCanvas(w, h)
	horizonRow := h - 2

	for x := 0; x < w; x++ {
		c.set(x, horizonRow, glyphHorizon, colorHorizon)
	}
	for _, cp := range []struct {
		az float64
		r  rune
	}{{0, 'N'}, {90, 'E'}, {180, 'S'}, {270, 'W'}} {
		if x, ok := m.cam.column(cp.az, w); ok {
			c.set(x, horizonRow, cp.r, colorCardinal)
		}
	}

	var marks []skyMark
	for i, b := range m.bodies {
		x, y, ok := m.cam.project(b.AzDeg, b.AltDeg, w, horizonRow)
		if !ok || y >= horizonRow {
			continue
		}
		r, fg := bodyGlyph(b.Body)
		if i == m.focus {
			r, fg = glyphFocused, colorLabelFocused
		}
		if c.set(x, y, r, fg) {
			marks = append(marks, skyMark{x: x, y: y, label: b.Label, focused: i == m.focus})
		}
	}
	m.drawLabels(c, marks, horizonRow)

	c.set(w/2, h-1, glyphObserver, colorObserver)
	return c
}

// drawLabels writes names to the right of each glyph. The focused label is
// written first and never overwritten.
func (m SkyViewModel) drawLabels(c *skyCanvas, marks []skyMark, horizonRow int) {
	if m.labels == LabelNone {
		return
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].focused && !marks[j].focused })

	taken := make(map[[2]int]bool)
	for _, mk := range marks {
		if m.labels == LabelFocused && !mk.focused {
			continue
		}
		text, fg := mk.label, lipgloss.Color(colorLabel)
		if mk.focused {
			text, fg = "◄ "+mk.label, colorLabelFocused
		}
		for i, r := range []rune(text) {
			at := [2]int{mk.x + 2 + i, mk.y}
			if mk.y >= horizonRow || taken[at] {
				continue
			}
			if c.set(at[0], at[1], r, fg) {
				taken[at] = true
			}
		}
	}
}

func bodyGlyph(name string) (rune, lipgloss.Color) {
	b, err := ephem.ParseBody(name)
	if err != nil {
		return glyphPlanet, colorLabel
	}
	fg := lipgloss.Color(b.Color())
	switch b {
	case ephem.Sun:
		return glyphSun, fg
	case ephem.Moon:
		return glyphMoon, fg
	}
	return glyphPlanet, fg
}

type skyCell struct {
	r  rune
	fg lipgloss.Color
}

// skyCanvas is a fixed grid of coloured runes.
type skyCanvas struct {
	w, h  int
	cells []skyCell
}

func newSkyCanvas(w, h int) *skyCanvas {
	c := &skyCanvas{w: w, h: h, cells: make([]skyCell, w*h)}
	for i := range c.cells {
		c.cells[i] = skyCell{r: ' ', fg: colorSkyBg}
	}
	return c
}

// set writes one cell and reports whether (x, y) was on the canvas.
func (c *skyCanvas) set(x, y int, r rune, fg lipgloss.Color) bool {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return false
	}
	c.cells[y*c.w+x] = skyCell{r: r, fg: fg}
	return true
}

func (c *skyCanvas) at(x, y int) skyCell {
	return c.cells[y*c.w+x]
}

// String renders each row as runs of same-coloured cells.
func (c *skyCanvas) String() string {
	rows := make([]string, c.h)
	for y := range rows {
		var row, run strings.Builder
		var fg lipgloss.Color
		flush := func() {
			if run.Len() > 0 {
				row.WriteString(lipgloss.NewStyle().Foreground(fg).Render(run.String()))
				run.Reset()
			}
		}
		for x := 0; x < c.w; x++ {
			cell := c.at(x, y)
			if cell.fg != fg {
				flush()
				fg = cell.fg
			}
			run.WriteRune(cell.r)
		}
		flush()
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}

// wrap180 folds an angle into [-180, 180].
func wrap180(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a < -180:
		a += 360
	}
	return a
}

// mixAngle interpolates along the shorter arc.
func mixAngle(a, b, f float64) float64 {
	return a + wrap180(b-a)*f
}

func mix(a, b, f float64) float64 {
	return a + (b-a)*f
}
