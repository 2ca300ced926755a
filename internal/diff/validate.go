package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ValidatePatch checks that patch is a well-formed single-file text patch
// with at least one hunk. Line counts in hunk headers are not enforced: the
// patch is recounted before parsing, the same way `git apply --recount`
// treats it, so a hunk whose body is shorter than its header still passes.
func ValidatePatch(patch string) error {
	if strings.TrimSpace(patch) == "" {
		return ErrEmptyPatch
	}
	files, _, err := gitdiff.Parse(strings.NewReader(Recount(patch)))
	if err != nil {
		return fmt.Errorf("parse patch: %w", err)
	}
	if len(files) != 1 {
		return fmt.Errorf("patch describes %d files, want 1", len(files))
	}
	f := files[0]
	if f.IsBinary {
		return fmt.Errorf("patch for %s is binary", f.NewName)
	}
	if len(f.TextFragments) == 0 {
		return fmt.Errorf("patch for %s has no hunks", f.NewName)
	}
	for _, frag := range f.TextFragments {
		if err := frag.Validate(); err != nil {
			return fmt.Errorf("hunk %s: %w", strings.TrimSpace(frag.Header()), err)
		}
	}
	return nil
}

// Recount rewrites every hunk header of patch so its line counts match the
// body that follows it. Start lines and section text are kept.
func Recount(patch string) string {
	lines := strings.SplitAfter(patch, "\n")
	header := -1
	oldN, newN := 0, 0
	flush := func() {
		if header < 0 {
			return
		}
		lines[header] = recountHeader(lines[header], oldN, newN)
	}
	for i, l := range lines {
		if strings.HasPrefix(l, "@@") {
			flush()
			header, oldN, newN = i, 0, 0
			continue
		}
		if header < 0 {
			continue
		}
		switch {
		case strings.HasPrefix(l, " "):
			oldN++
			newN++
		case strings.HasPrefix(l, "-"):
			oldN++
		case strings.HasPrefix(l, "+"):
			newN++
		}
	}
	flush()
	return strings.Join(lines, "")
}

func recountHeader(line string, oldN, newN int) string {
	body := strings.TrimRight(line, "\r\n")
	m := hunkHeaderRe.FindStringSubmatch(body)
	if m == nil {
		return line
	}
	out := fmt.Sprintf("@@ -%s,%d +%s,%d @@", m[1], oldN, m[3], newN)
	if m[5] != "" {
		out += " " + m[5]
	}
	return out + line[len(body):]
}
