// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewAlmanac ViewMode = iota
	ViewSky
)

const (
	refreshInterval = 5 * time.Second
	queryTimeout    = 10 * time.Second
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers a sky refresh.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// SkyUpdateMsg carries a freshly computed sky snapshot.
	SkyUpdateMsg struct {
		Sky      report.SkyExport
		Err      error
		Duration time.Duration
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	eph *almanac.Ephemeris
	now func() time.Time

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	// Sub-models
	almanacView AlmanacModel
	skyView     SkyViewModel

	// Last refresh
	sky        report.SkyExport
	lastErr    error
	lastUpdate time.Time
	duration   time.Duration
	updating   bool
}

// New creates a new root UI model for eph.
func New(eph *almanac.Ephemeris) Model {
	return Model{
		eph:         eph,
		now:         time.Now,
		viewMode:    ViewAlmanac,
		almanacView: NewAlmanacModel(),
		skyView:     NewSkyViewModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		animTickCmd(),
		refreshSky(m.eph, m.now()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "a":
			m.viewMode = ViewAlmanac
		case "2", "s":
			m.viewMode = ViewSky
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "r":
			if !m.updating {
				m.updating = true
				cmds = append(cmds, refreshSky(m.eph, m.now()))
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.almanacView = m.almanacView.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		if !m.updating {
			m.updating = true
			cmds = append(cmds, refreshSky(m.eph, time.Time(msg)))
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case SkyUpdateMsg:
		m.updating = false
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.sky = msg.Sky
			m.lastUpdate = msg.Sky.Time
			m.duration = msg.Duration
			m.almanacView = m.almanacView.UpdateData(m.sky)
			m.skyView = m.skyView.UpdateData(m.sky)
		}
		cmds = append(cmds, tickCmd(m.now))

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewAlmanac:
		m.almanacView, cmd = m.almanacView.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewAlmanac:
		content = m.almanacView.View()
	case ViewSky:
		content = m.skyView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderLogo() + m.renderTabs() + "\n" + content + "\n" + m.renderFooter()
}

var logoLines = []string{
	`  ██╗     ███████╗      ███████╗██████╗ ██╗  ██╗███████╗███╗   ███╗`,
	`  ██║     ██╔════╝      ██╔════╝██╔══██╗██║  ██║██╔════╝████╗ ████║`,
	`  ██║     ███████╗█████╗█████╗  ██████╔╝███████║█████╗  ██╔████╔██║`,
	`  ██║     ╚════██║╚════╝██╔══╝  ██╔═══╝ ██╔══██║██╔══╝  ██║╚██╔╝██║`,
	`  ███████╗███████║      ███████╗██║     ██║  ██║███████╗██║ ╚═╝ ██║`,
	`  ╚══════╝╚══════╝      ╚══════╝╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝`,
}

var (
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
)

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logoLines {
		runes := []rune(line)
		for col, r := range runes {
			b.WriteString(paint(gradientColor(col, row, len(runes), len(logoLines)), r))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("  " + m.tagline() + " | v" + version.Version))
	b.WriteString("\n\n")
	return b.String()
}

// tagline names the observer site under the logo.
func (m Model) tagline() string {
	if m.eph == nil {
		return "Sun · Moon · Planets"
	}
	obs := report.ExportObserver(m.eph.Observer(), m.eph.Location())
	parts := []string{obs.Position, obs.Timezone}
	if obs.Name != "" {
		parts = append([]string{obs.Name}, parts...)
	}
	return strings.Join(parts, " · ")
}

func paint(hex string, r rune) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(r))
}

type rgb struct{ r, g, b float64 }

func (c rgb) mix(d rgb, f float64) rgb {
	return rgb{c.r + (d.r-c.r)*f, c.g + (d.g-c.g)*f, c.b + (d.b-c.b)*f}
}

func (c rgb) hex(scale float64) string {
	return fmt.Sprintf("#%02X%02X%02X", clampByte(c.r*scale), clampByte(c.g*scale), clampByte(c.b*scale))
}

// Logo gradient stops: dawn blue, twilight violet, sun gold.
var logoStops = []rgb{{59, 130, 246}, {157, 78, 221}, {255, 215, 0}}

// gradientColor returns the logo colour at (col, row): evenly spaced
// stops across the width, dimming to half brightness at the bottom.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width) * float64(len(logoStops)-1)
	i := int(x)
	if i >= len(logoStops)-1 {
		i = len(logoStops) - 2
	}
	c := logoStops[i].mix(logoStops[i+1], x-float64(i))
	return c.hex(1 - 0.5*float64(row)/float64(height))
}

func clampByte(v float64) int {
	return int(math.Max(0, math.Min(255, v)))
}

func (m Model) renderTabs() string {
	tabs := [...]struct {
		mode  ViewMode
		label string
	}{{ViewAlmanac, "[1] Almanac"}, {ViewSky, "[2] Sky"}}

	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.mode == m.viewMode {
			parts[i] = activeStyle.Render("▶ " + t.label)
		} else {
			parts[i] = mutedStyle.Render("  " + t.label)
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	help := "↑↓: select | r: refresh | tab: switch view"
	if m.viewMode == ViewSky {
		help = "j/k: focus | l: labels | r: refresh | tab: switch view"
	}
	return "  " + m.renderStatus() + "  " + mutedStyle.Render("|") + "  " + mutedStyle.Render(help)
}

func (m Model) renderStatus() string {
	if m.lastErr != nil {
		return errorStyle.Render("ERROR: " + m.lastErr.Error())
	}
	spin := accentStyle.Render(string(spinnerFrames[m.animTick%len(spinnerFrames)]))
	if m.lastUpdate.IsZero() {
		return spin + " " + m.renderShimmerText("Computing sky...")
	}
	s := " " + almanac.ClockString(m.lastUpdate)
	if m.duration > 0 {
		s += " (" + m.duration.Round(time.Millisecond).String() + ")"
	}
	return spin + mutedStyle.Render(s)
}

// shimmerShades fade from the highlight outward, two cells per shade.
var shimmerShades = []string{"#B4A0DC", "#8C78B4", "#6E5A96"}

const shimmerBase = "#504678"

// renderShimmerText sweeps a highlight across text, one cell per frame.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	centre := m.animTick%(len(runes)+8) - 4

	var b strings.Builder
	for i, r := range runes {
		shade := shimmerBase
		if d := abs(i-centre) / 2; d < len(shimmerShades) {
			shade = shimmerShades[d]
		}
		b.WriteString(paint(shade, r))
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// tickCmd schedules the next refresh.
func tickCmd(now func() time.Time) tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return TickMsg(now())
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// refreshSky computes the sky at t off the UI goroutine.
func refreshSky(eph *almanac.Ephemeris, t time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		start := time.Now()
		sky, err := report.Sky(ctx, eph, t)
		return SkyUpdateMsg{Sky: sky, Err: err, Duration: time.Since(start)}
	}
}
