package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestMaxLineWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"wide", []string{"日本"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxLineWidth(tt.lines); got != tt.want {
				t.Errorf("maxLineWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompositeRow(t *testing.T) {
	tests := []struct {
		name   string
		bg     string
		fg     string
		x      int
		fgW    int
		totalW int
	}{
		{"centered", "background text here", "[MODAL]", 5, 7, 20},
		{"left edge", "background", "[M]", 0, 3, 10},
		{"short background", "hi", "[MODAL]", 10, 7, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compositeRow(tt.bg, tt.fg, tt.x, tt.fgW, tt.totalW)
			if !strings.Contains(got, tt.fg) {
				t.Errorf("compositeRow() missing foreground %q in %q", tt.fg, got)
			}
			if idx := strings.Index(ansi.Strip(got), tt.fg); idx != tt.x {
				t.Errorf("foreground at column %d, want %d", idx, tt.x)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	t.Run("centered", func(t *testing.T) {
		out := Overlay("line1\nline2\nline3\nline4\nline5", "[M]", 10, 5)
		lines := strings.Split(out, "\n")
		if len(lines) != 5 {
			t.Fatalf("expected 5 lines, got %d", len(lines))
		}
		if !strings.Contains(lines[2], "[M]") {
			t.Errorf("modal not on the middle line: %q", lines[2])
		}
	})

	t.Run("strips background styling", func(t *testing.T) {
		out := Overlay("\x1b[31mred\x1b[0m\n\x1b[32mgreen\x1b[0m", "X", 10, 3)
		if strings.Contains(out, "\x1b[31m") {
			t.Error("background color should be stripped")
		}
		if !strings.Contains(out, "X") {
			t.Error("modal should be present")
		}
	})

	t.Run("zero height", func(t *testing.T) {
		if out := Overlay("a", "b", 10, 0); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})
}

func TestFitBlock(t *testing.T) {
	out := FitBlock("short\nthis line is far too long\n\x1b[31m日本語テキスト\x1b[0m", 8, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 8 {
			t.Errorf("line %d width = %d, want 8: %q", i, w, l)
		}
	}
	if !strings.HasPrefix(lines[0], "short") {
		t.Errorf("short line changed: %q", lines[0])
	}

	if FitBlock("anything", 0, 3) != "" {
		t.Error("zero width should render nothing")
	}
}
