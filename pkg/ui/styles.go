package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette follows Tokyo Night (dark) and Tokyo Night Day (light), the same
// colors the HTML gallery uses
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#2e7de9", Dark: "#7aa2f7"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#587539", Dark: "#9ece6a"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#f52a65", Dark: "#f7768e"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#8c6c3e", Dark: "#e0af68"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#007197", Dark: "#7dcfff"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#9854f1", Dark: "#bb9af7"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#848cb5", Dark: "#565f89"}
	ColorDefault = lipgloss.AdaptiveColor{Light: "#3760bf", Dark: "#c0caf5"}
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style

	StyleTitle  lipgloss.Style
	StyleHeader lipgloss.Style
	StyleSubtle lipgloss.Style
	StyleBold   lipgloss.Style

	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconRocket  = "🚀"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconImage   = "🖼"
	IconCopy    = "📋"
	IconLink    = "🔗"
)

func init() {
	SetTheme("auto")
}

// SetTheme picks the light or dark side of the palette ("auto", "dark", "light")
// and rebuilds every style
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	StyleSuccess = fg(ColorSuccess).Bold(true)
	StyleError = fg(ColorError).Bold(true)
	StylePrimary = fg(ColorPrimary).Bold(true)
	StyleInfo = fg(ColorInfo)
	StyleMuted = fg(ColorMuted)
	StyleWarning = fg(ColorWarning).Bold(true)
	StyleAccent = fg(ColorAccent)

	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary
	StyleSubtle = StyleMuted.Italic(true)
	StyleBold = lipgloss.NewStyle().Bold(true)

	StyleTableHeader = StylePrimary
	StyleTableRow = fg(ColorDefault)
	StyleTableRowAlt = fg(ColorDefault).Faint(true)
	StyleTableBorder = StyleMuted
}

func withIcon(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

// FormatSuccess returns a success message with icon
func FormatSuccess(msg string) string { return withIcon(StyleSuccess, IconSuccess, msg) }

// FormatError returns an error message with icon
func FormatError(msg string) string { return withIcon(StyleError, IconError, msg) }

// FormatInfo returns an info message with icon
func FormatInfo(msg string) string { return withIcon(StyleInfo, IconInfo, msg) }

// FormatWarning returns a warning message with icon
func FormatWarning(msg string) string { return withIcon(StyleWarning, IconWarning, msg) }

// FormatRocket marks the start of a network round trip or launch
func FormatRocket(msg string) string { return withIcon(StylePrimary, IconRocket, msg) }

// FormatCopied returns a clipboard confirmation message
func FormatCopied(msg string) string { return withIcon(StyleSuccess, IconCopy, msg) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }

func FormatMuted(text string) string { return StyleMuted.Render(text) }

// Truncate shortens s to at most width display cells, ending with "…"
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
