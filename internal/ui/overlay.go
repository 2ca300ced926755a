// Package ui holds layout helpers shared by the app shell and the viewer.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out background content behind an overlay. Existing styling
// is stripped first because faint does not combine reliably with colors.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

func maxLineWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}

// compositeRow places fg over bg starting at column x. The visible parts of
// bg on either side are dimmed.
func compositeRow(bg, fg string, x, fgWidth, totalWidth int) string {
	plain := ansi.Strip(bg)
	bgWidth := ansi.StringWidth(plain)

	var sb strings.Builder
	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		sb.WriteString(DimStyle.Render(left))
		if lw := ansi.StringWidth(left); lw < x {
			sb.WriteString(strings.Repeat(" ", x-lw))
		}
	}
	sb.WriteString(fg)
	if end := x + fgWidth; end < totalWidth && bgWidth > end {
		sb.WriteString(DimStyle.Render(ansi.Cut(plain, end, bgWidth)))
	}
	return sb.String()
}

// Overlay centres modal over a dimmed copy of background and returns exactly
// height rows.
func Overlay(background, modal string, width, height int) string {
	if height <= 0 {
		return ""
	}
	bg := strings.Split(background, "\n")
	fg := strings.Split(modal, "\n")

	fgWidth := maxLineWidth(fg)
	x := max((width-fgWidth)/2, 0)
	y := max((height-len(fg))/2, 0)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		var line string
		if row < len(bg) {
			line = bg[row]
		}
		if i := row - y; i >= 0 && i < len(fg) {
			out[row] = compositeRow(line, fg[i], x, fgWidth, width)
		} else {
			out[row] = DimStyle.Render(ansi.Strip(line))
		}
	}
	return strings.Join(out, "\n")
}

// FitBlock cuts or pads a rendered block to exactly width columns and height
// rows. Styled text is cut on display columns, so escape sequences are never
// split. A non-positive size yields an empty block.
func FitBlock(block string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		if ansi.StringWidth(l) > width {
			l = ansi.Truncate(l, width, "")
		}
		if pad := width - ansi.StringWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}
