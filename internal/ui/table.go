package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/narvanalabs/logsight/internal/analysis"
	"github.com/narvanalabs/logsight/internal/models"
)

var logHeaders = []string{"ID", "Timestamp", "Level", "Message", "Source IP", "Endpoint", "Details"}

// Column widths
var logColumnWidths = []int{6, 26, 8, 48, 15, 20, 28}

// PrintLogTable writes views in a styled box table followed by a per-level
// summary.
func PrintLogTable(w io.Writer, views []*models.LogView) {
	var sb strings.Builder

	writeRule(&sb, TopLeft, TopT, TopRight)

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range logHeaders {
		writeCell(&sb, HeaderStyle, h, logColumnWidths[i])
	}
	sb.WriteString("\n")

	writeRule(&sb, LeftT, Cross, RightT)

	for _, v := range views {
		sb.WriteString(BorderStyle.Render(Vertical))
		writeCell(&sb, IDStyle, fmt.Sprintf("%d", v.ID), logColumnWidths[0])
		writeCell(&sb, TimeStyle, analysis.FormatTime(v.Timestamp), logColumnWidths[1])
		writeCell(&sb, LevelStyle(v.Level), v.Level, logColumnWidths[2])
		writeCell(&sb, MessageStyle, v.Message, logColumnWidths[3])
		writeCell(&sb, SourceStyle, orDash(v.SourceIP), logColumnWidths[4])
		writeCell(&sb, SourceStyle, orDash(v.Endpoint), logColumnWidths[5])
		writeCell(&sb, MutedStyle, formatDetails(v.Details), logColumnWidths[6])
		sb.WriteString("\n")
	}

	writeRule(&sb, BottomLeft, BottomT, BottomRight)

	fmt.Fprint(w, sb.String())
	fmt.Fprintln(w, summary(views))
}

func writeRule(sb *strings.Builder, left, join, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, width := range logColumnWidths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, width+2)))
		if i < len(logColumnWidths)-1 {
			sb.WriteString(BorderStyle.Render(join))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

func writeCell(sb *strings.Builder, style lipgloss.Style, text string, width int) {
	sb.WriteString(style.Render(" " + fitCell(text, width) + " "))
	sb.WriteString(BorderStyle.Render(Vertical))
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// formatDetails renders details as sorted k=v pairs.
func formatDetails(d models.Details) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + d[k]
	}
	return strings.Join(pairs, ", ")
}

func summary(views []*models.LogView) string {
	counts := make(map[string]int)
	for _, v := range views {
		counts[v.Level]++
	}

	var parts []string
	for _, level := range []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG"} {
		if c := counts[level]; c > 0 {
			parts = append(parts, LevelStyle(level).Render(fmt.Sprintf("%d %s", c, strings.ToLower(level))))
		}
	}

	s := fmt.Sprintf("  %d entries", len(views))
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}
