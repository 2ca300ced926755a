// Package git is the repository layer: it loads diffs and status and
// performs index mutations by shelling out to the git binary.
package git

import "context"

// Refs understood by LoadDiff besides ordinary commit-ish names.
const (
	RefWorktree = ""       // working tree against the index
	RefIndex    = ":index" // index against HEAD
)

// Provider is everything the viewer needs from a repository. Every call may
// block on a subprocess and takes a context.
type Provider interface {
	// LoadDiff returns raw unified-diff text for ref, limited to path when
	// path is not empty.
	LoadDiff(ctx context.Context, ref, path string) (string, error)
	GetStatus(ctx context.Context) (*Status, error)
	StageFile(ctx context.Context, path string) error
	UnstageFile(ctx context.Context, path string) error
	// ApplyPatchToIndex applies patch to the index only, in reverse when
	// reverse is set.
	ApplyPatchToIndex(ctx context.Context, patch string, reverse bool) error
	StageAll(ctx context.Context) error
	UnstageAll(ctx context.Context) error
}

// ChangeType is the kind of change recorded for a path.
type ChangeType int

const (
	ChangeModified ChangeType = iota
	ChangeAdded
	ChangeDeleted
	ChangeRenamed
	ChangeCopied
	ChangeUnmerged
	ChangeTypeChanged
	ChangeUntracked
)

// Letter returns the one-letter status code used in listings.
func (c ChangeType) Letter() string {
	switch c {
	case ChangeAdded:
		return "A"
	case ChangeDeleted:
		return "D"
	case ChangeRenamed:
		return "R"
	case ChangeCopied:
		return "C"
	case ChangeUnmerged:
		return "U"
	case ChangeTypeChanged:
		return "T"
	case ChangeUntracked:
		return "?"
	default:
		return "M"
	}
}

// String returns the lower-case name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	case ChangeCopied:
		return "copied"
	case ChangeUnmerged:
		return "unmerged"
	case ChangeTypeChanged:
		return "typechange"
	case ChangeUntracked:
		return "untracked"
	default:
		return "modified"
	}
}

// changeFromCode maps a porcelain status letter to a ChangeType.
func changeFromCode(c byte) ChangeType {
	switch c {
	case 'A':
		return ChangeAdded
	case 'D':
		return ChangeDeleted
	case 'R':
		return ChangeRenamed
	case 'C':
		return ChangeCopied
	case 'U':
		return ChangeUnmerged
	case 'T':
		return ChangeTypeChanged
	case '?':
		return ChangeUntracked
	default:
		return ChangeModified
	}
}

// FileStatus is one path in one section of the status.
type FileStatus struct {
	Path       string
	OldPath    string
	ChangeType ChangeType
	Additions  int
	Deletions  int
	Binary     bool // numstat reported "-" counts
}

// Status groups changed paths the way git status does. A path with both
// staged and unstaged changes appears in Staged and in Unstaged.
type Status struct {
	Staged    []FileStatus
	Unstaged  []FileStatus
	Untracked []FileStatus
}

// Total returns the number of entries across all sections.
func (s *Status) Total() int {
	return len(s.Staged) + len(s.Unstaged) + len(s.Untracked)
}
