package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// TabWidth is the number of columns a tab occupies.
const TabWidth = 4

// Ellipsis marks truncated text. It is one column wide.
const Ellipsis = "…"

var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// RuneWidth returns the display width of r: 2 for East Asian wide and
// fullwidth characters, TabWidth for a tab and 1 for everything else.
func RuneWidth(r rune) int {
	if r == '\t' {
		return TabWidth
	}
	if widthCond.RuneWidth(r) == 2 {
		return 2
	}
	return 1
}

// Width returns the display width of s.
func Width(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// Truncate shortens s so that its display width is at most w columns. When
// text is cut, the result ends with Ellipsis, which is counted against w.
// Multi-byte characters are never split.
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if Width(s) <= w {
		return s
	}
	return Prefix(s, w-utf8.RuneCountInString(Ellipsis)) + Ellipsis
}

// Prefix returns the longest leading part of s whose display width is at
// most w. A wide character that does not fit is left out whole.
func Prefix(s string, w int) string {
	used := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if used+rw > w {
			return s[:i]
		}
		used += rw
	}
	return s
}

// Fit truncates s to w columns and pads it with spaces to exactly w.
func Fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = Truncate(s, w)
	if pad := w - Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// Skip drops the first n display columns of s. A wide character that would
// be cut in half is replaced by a space so column alignment is kept.
func Skip(s string, n int) string {
	if n <= 0 {
		return s
	}
	used := 0
	for i, r := range s {
		if used >= n {
			return s[i:]
		}
		rw := RuneWidth(r)
		if used+rw > n {
			rest := s[i:]
			_, size := utf8.DecodeRuneInString(rest)
			return strings.Repeat(" ", used+rw-n) + rest[size:]
		}
		used += rw
	}
	return ""
}

// ExpandTabs replaces tabs with TabWidth spaces so the terminal renders the
// same width Width reports.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
}
