// Package ui renders terminal output for logctl.
package ui

import (
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
	ColorBorder   = "240"
	ColorHeader   = "252"
	ColorID       = "214"
	ColorTime     = "245"
	ColorMessage  = "252"
	ColorSource   = "81"
	ColorCritical = "196"
	ColorError    = "203"
	ColorWarning  = "214"
	ColorInfo     = "82"
	ColorMuted    = "240"
)

// Shared styles
var (
	BorderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	IDStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorID))
	TimeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTime))
	MessageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMessage))
	SourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSource))
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCritical))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	WarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	InfoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
)

// LevelStyle returns the style for a log level.
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case "CRITICAL":
		return CriticalStyle
	case "ERROR":
		return ErrorStyle
	case "WARNING":
		return WarningStyle
	case "INFO":
		return InfoStyle
	default:
		return MutedStyle
	}
}

// fitCell truncates or pads s to exactly width display columns.
func fitCell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
