package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder  = "240"
	ColorHeader  = "252"
	ColorPath    = "81"
	ColorValue   = "252"
	ColorDebug   = "8"
	ColorInfo    = "10"
	ColorWarning = "11"
	ColorError   = "9"
	ColorAccent  = "214"
	ColorMuted   = "240"
	ColorHint    = "245"
)

// Shared styles
var (
	BorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	PathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPath))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorValue))
	DebugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDebug))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// Mask hides all but the last four characters of a secret value
func Mask(s string) string {
	n := len(s)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-4) + s[len(s)-4:]
}
