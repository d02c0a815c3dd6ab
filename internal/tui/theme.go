package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the wizard uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
)

const (
	colorBrand    = colorPink
	colorStep     = colorLavender
	colorReady    = colorGreen
	colorMuted    = colorOverlay1
	colorDisabled = colorSurface2
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	badgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorStep)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	readyStyle    = lipgloss.NewStyle().Foreground(colorReady)
	disabledStyle = lipgloss.NewStyle().Foreground(colorDisabled).Strikethrough(true)
	captionStyle  = lipgloss.NewStyle().Italic(true).Foreground(colorText)
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMauve).Padding(0, 1)
)
