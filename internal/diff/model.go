// Package diff turns unified-diff text into a typed file/hunk/line model and
// provides the pieces the viewer builds on: hunk patch reconstruction,
// side-by-side alignment, display-width truncation and the file tree.
package diff

import (
	"path/filepath"
	"strings"
)

// LineKind classifies a single diff line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
	LineHeader
	LineHunkMarker
	LineBinary
)

// String returns a short name for the kind.
func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	case LineHeader:
		return "header"
	case LineHunkMarker:
		return "hunk"
	case LineBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Line is one row of a diff.
//
// Line numbers are 1-based; zero means the side does not exist for this line.
// Raw keeps the line exactly as it appeared in the source, including its
// +/-/space prefix, so hunks can be re-serialized byte for byte.
type Line struct {
	Kind      LineKind
	Text      string
	Raw       string
	OldLineNo int
	NewLineNo int
	NoNewline bool // "\ No newline at end of file" marker
}

// HasOld reports whether the line has an old-side line number.
func (l Line) HasOld() bool { return l.OldLineNo > 0 }

// HasNew reports whether the line has a new-side line number.
func (l Line) HasNew() bool { return l.NewLineNo > 0 }

// IsChange reports whether the line is an addition or removal.
func (l Line) IsChange() bool { return l.Kind == LineAdded || l.Kind == LineRemoved }

// Hunk is a contiguous change region within one file.
type Hunk struct {
	Header    string
	OldStart  int
	OldCount  int
	NewStart  int
	NewCount  int
	Section   string // text after the closing @@, usually a function name
	Lines     []Line // body lines, marker excluded
	Additions int
	Deletions int
}

// FileStatus describes what happened to a file as a whole.
type FileStatus int

const (
	FileModified FileStatus = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
)

// Letter returns the one-letter status code git uses for s.
func (s FileStatus) Letter() string {
	switch s {
	case FileAdded:
		return "A"
	case FileDeleted:
		return "D"
	case FileRenamed:
		return "R"
	case FileCopied:
		return "C"
	default:
		return "M"
	}
}

// File is one file's full change.
//
// A File is built once per diff load and is not mutated afterwards; a new
// load replaces the whole slice.
type File struct {
	Path      string
	OldPath   string
	Status    FileStatus
	IsBinary  bool
	IsImage   bool
	Additions int
	Deletions int
	Hunks     []Hunk
	Lines     []Line

	// Anomalies counts lines the parser had to recover from, such as a
	// malformed hunk header or a body line past the declared hunk size.
	Anomalies int
}

// DisplayPath returns "old → new" for renames and the path otherwise.
func (f *File) DisplayPath() string {
	if f.OldPath != "" && f.OldPath != f.Path {
		return f.OldPath + " → " + f.Path
	}
	return f.Path
}

// Ext returns the lower-cased extension without the dot.
func (f *File) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Path)), ".")
}

// ShowsPanel reports whether f is shown as an informational panel instead
// of diff lines. Images get the panel even when git produced a text diff
// for them.
func (f *File) ShowsPanel() bool { return f.IsBinary || f.IsImage }

// Kind returns a human label for the informational panel shown in place of
// binary content.
func (f *File) Kind() string {
	switch {
	case f.IsImage:
		return "image"
	case f.IsBinary:
		return "binary"
	default:
		return "text"
	}
}

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
	"webp": true, "ico": true, "tif": true, "tiff": true,
	"heic": true, "avif": true, "psd": true,
}

// IsImagePath reports whether path has a known image extension.
func IsImagePath(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return imageExts[ext]
}
