package tui

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"hexmap/internal/overlay"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	subtleBg  = "#0B0F14"
	borderCol = lipgloss.Color("#243141")
	hoverFg   = "#FFA500"

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)

// fillColor is the hex fill as seen through its opacity over the map background.
func fillColor(st overlay.Style) string {
	bg, _ := colorful.Hex(subtleBg)
	return bg.BlendRgb(st.FillColor.Colorful(), st.Opacity).Clamped().Hex()
}

// legend renders the count scale from 0 to 255.
func legend() string {
	const steps = 8
	out := dimStyle.Render("0 ")
	for i := 0; i < steps; i++ {
		c := overlay.ColorForCount(uint8(i * overlay.MaxCount / (steps - 1)))
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█")
	}
	return out + dimStyle.Render(" 255")
}
