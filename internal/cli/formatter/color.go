package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TilColor picks green for a surplus, red for a deficit and dim for an even day.
func TilColor(minutes int) lipgloss.Style {
	switch {
	case minutes > 0:
		return StyleGreen
	case minutes < 0:
		return StyleRed
	default:
		return StyleDim
	}
}

// FormatTil renders a signed TOIL balance such as "+1h 24m" or "-36m".
func FormatTil(minutes int) string {
	sign := "+"
	abs := minutes
	if minutes < 0 {
		sign = "-"
		abs = -minutes
	}
	if minutes == 0 {
		sign = ""
	}
	return TilColor(minutes).Render(sign + FormatMinutes(abs))
}

// SourcePill returns a colored indicator for how a session was recorded.
func SourcePill(source domain.SessionSource) string {
	switch source {
	case domain.SourceManual:
		return StyleBlue.Render("● Manual")
	case domain.SourceShortcut:
		return StylePurple.Render("⚡ Shortcut")
	case domain.SourceEdited:
		return StyleYellow.Render("✎ Edited")
	default:
		return StyleDim.Render(string(source))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
