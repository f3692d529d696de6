package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/report"
)

// Altitude tier colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high altitude
	colorVisMedium = "#FFD700" // Gold - medium altitude
	colorVisLow    = "#FF6347" // Tomato - low altitude
	colorVisNone   = "#444444" // Dark gray - below horizon
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9D4EDD"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B2CBF"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))
)

// AlmanacModel lists every body with its current position and the
// day's rise and set.
type AlmanacModel struct {
	width  int
	height int
	cursor int
	sky    report.SkyExport
}

// NewAlmanacModel creates a new almanac table model.
func NewAlmanacModel() AlmanacModel {
	return AlmanacModel{}
}

// SetSize updates the viewport size.
func (m AlmanacModel) SetSize(width, height int) AlmanacModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the displayed snapshot.
func (m AlmanacModel) UpdateData(sky report.SkyExport) AlmanacModel {
	m.sky = sky
	if m.cursor >= len(sky.Bodies) {
		m.cursor = 0
	}
	return m
}

// Selected returns the highlighted body, if any.
func (m AlmanacModel) Selected() (report.SkyBodyExport, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sky.Bodies) {
		return report.SkyBodyExport{}, false
	}
	return m.sky.Bodies[m.cursor], true
}

// Update handles messages.
func (m AlmanacModel) Update(msg tea.Msg) (AlmanacModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := len(m.sky.Bodies)
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}
	return m, nil
}

// View renders the almanac table.
func (m AlmanacModel) View() string {
	if len(m.sky.Bodies) == 0 {
		return "Waiting for sky data...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sky at " + m.sky.Time.Format("2006-01-02 15:04:05 MST")))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-8s %8s %8s %-4s %-9s %-9s %-12s %s",
		"Body", "Alt", "Az", "Dir", "Rise", "Set", "Distance", "Alt")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, body := range m.sky.Bodies {
		line := fmt.Sprintf("  %-8s %7.2f° %7.2f° %-4s %-9s %-9s %-12s ",
			body.Label, body.AltDeg, body.AzDeg, body.Compass,
			body.Rise.String(), body.Set.String(), body.Distance)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString(renderTierBar(astro.GetElevationTier(body.AltDeg)))
		b.WriteString("\n")
	}

	p := m.sky.Phase
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Moon phase: %.1f° %s, %.0f%% lit", p.Degrees, p.Name, p.Illumination*100)))
	b.WriteString("\n")

	if sel, ok := m.Selected(); ok {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  RA %.3f°  Dec %+.3f°  %s",
			sel.Label, sel.RAdeg, sel.DecDeg, RenderAltitude(sel.AltDeg))))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTierBar renders an altitude tier as a 4-character bar.
func renderTierBar(tier astro.ElevationTier) string {
	return colorByTier(tier, tierToBar(tier))
}

// tierToBar converts an altitude tier to a 4-character bar representation.
func tierToBar(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return "████"
	case astro.ElevationMedium:
		return "██░░"
	case astro.ElevationLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

// tierToColor returns the color for an altitude tier.
func tierToColor(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return colorVisHigh
	case astro.ElevationMedium:
		return colorVisMedium
	case astro.ElevationLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier astro.ElevationTier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

// RenderAltitude renders the current altitude, colored by tier.
func RenderAltitude(altDeg float64) string {
	tier := astro.GetElevationTier(altDeg)
	if altDeg <= 0 {
		return colorByTier(tier, "Below horizon")
	}
	return colorByTier(tier, fmt.Sprintf("%.0f°", altDeg))
}
