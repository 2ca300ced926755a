package diff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyPatch is returned when a hunk has no body to serialize.
var ErrEmptyPatch = errors.New("hunk has no lines")

// ExtractHunks splits f.Lines into Hunk records at each hunk marker and
// stores them on f.Hunks. Lines before the first marker (file headers) belong
// to no hunk. A header or binary line after a hunk ends it.
func ExtractHunks(f *File) {
	f.Hunks = f.Hunks[:0]
	var cur *Hunk
	for _, l := range f.Lines {
		switch l.Kind {
		case LineHunkMarker:
			f.Hunks = append(f.Hunks, newHunk(l.Text))
			cur = &f.Hunks[len(f.Hunks)-1]
		case LineHeader, LineBinary:
			cur = nil
		default:
			if cur == nil {
				continue
			}
			cur.Lines = append(cur.Lines, l)
			switch l.Kind {
			case LineAdded:
				cur.Additions++
			case LineRemoved:
				cur.Deletions++
			}
		}
	}
	if len(f.Hunks) == 0 {
		f.Hunks = nil
	}
}

func newHunk(header string) Hunk {
	h := Hunk{Header: header}
	if m := hunkHeaderRe.FindStringSubmatch(header); m != nil {
		h.OldStart, _ = strconv.Atoi(m[1])
		h.OldCount = atoiDefault(m[2], 1)
		h.NewStart, _ = strconv.Atoi(m[3])
		h.NewCount = atoiDefault(m[4], 1)
		h.Section = strings.TrimSpace(m[5])
	}
	return h
}

// ToPatch serializes the hunk as a standalone patch against path: a two-line
// file header followed by the hunk header and its body lines verbatim, each
// terminated by a newline.
func (h *Hunk) ToPatch(path string) string {
	return h.patch("a/"+path, "b/"+path)
}

func (h *Hunk) patch(oldName, newName string) string {
	var b strings.Builder
	b.WriteString("--- ")
	b.WriteString(oldName)
	b.WriteByte('\n')
	b.WriteString("+++ ")
	b.WriteString(newName)
	b.WriteByte('\n')
	b.WriteString(h.Header)
	b.WriteByte('\n')
	for _, l := range h.Lines {
		b.WriteString(l.Raw)
		b.WriteByte('\n')
	}
	return b.String()
}

// HunkPatch returns the patch for hunk i of f. Added and deleted files get a
// /dev/null side so the hunk creates or removes the file when applied.
func (f *File) HunkPatch(i int) (string, error) {
	if f.IsBinary {
		return "", fmt.Errorf("%s: binary files have no hunks", f.Path)
	}
	if i < 0 || i >= len(f.Hunks) {
		return "", fmt.Errorf("%s: hunk %d out of range (%d hunks)", f.Path, i, len(f.Hunks))
	}
	h := &f.Hunks[i]
	if len(h.Lines) == 0 {
		return "", ErrEmptyPatch
	}
	switch f.Status {
	case FileAdded:
		return h.patch("/dev/null", "b/"+f.Path), nil
	case FileDeleted:
		return h.patch("a/"+f.Path, "/dev/null"), nil
	default:
		return h.ToPatch(f.Path), nil
	}
}

// HunkAt returns the index of the hunk that contains the flat line index
// idx of f.Lines, or -1 if the line is outside every hunk.
func (f *File) HunkAt(idx int) int {
	h, inside := -1, false
	for i := 0; i <= idx && i < len(f.Lines); i++ {
		switch f.Lines[i].Kind {
		case LineHunkMarker:
			h++
			inside = true
		case LineHeader, LineBinary:
			inside = false
		}
	}
	if !inside {
		return -1
	}
	return h
}

// HunkLineIndex returns the index in f.Lines of the marker of hunk i, or -1.
func (f *File) HunkLineIndex(i int) int {
	n := -1
	for idx, l := range f.Lines {
		if l.Kind == LineHunkMarker {
			n++
			if n == i {
				return idx
			}
		}
	}
	return -1
}
