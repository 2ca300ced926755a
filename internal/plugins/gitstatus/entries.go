package gitstatus

import (
	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/git"
)

// Section is the staging list group an entry belongs to.
type Section int

const (
	SectionStaged Section = iota
	SectionChanges
	SectionCommit // read-only commit viewer
)

// Title returns the section header label.
func (s Section) Title() string {
	switch s {
	case SectionStaged:
		return "Staged"
	case SectionChanges:
		return "Changes"
	default:
		return "Files"
	}
}

// StagingEntry is one file in the staging list. A path with both staged and
// unstaged changes has one entry per section, each carrying the diff of its
// own side.
type StagingEntry struct {
	Path       string
	OldPath    string
	ChangeType git.ChangeType
	Section    Section
	IsStaged   bool
	Expanded   bool
	Additions  int
	Deletions  int

	// Diff is nil until a diff has been loaded for the entry, which is
	// always the case for untracked files.
	Diff *diff.File
}

// Hunks returns the parsed hunks of the entry, or nil before its diff is
// loaded.
func (e *StagingEntry) Hunks() []diff.Hunk {
	if e.Diff == nil {
		return nil
	}
	return e.Diff.Hunks
}

// DisplayPath returns "old → new" for renames.
func (e *StagingEntry) DisplayPath() string {
	if e.OldPath != "" && e.OldPath != e.Path {
		return e.OldPath + " → " + e.Path
	}
	return e.Path
}

func (e *StagingEntry) key() entryKey {
	return entryKey{section: e.Section, path: e.Path}
}

type entryKey struct {
	section Section
	path    string
}

// buildEntries turns repository status and the two parsed diff sides into
// the staging list: staged entries first, then unstaged and untracked ones.
func buildEntries(st *git.Status, staged, unstaged []*diff.File) []*StagingEntry {
	if st == nil {
		return nil
	}
	stagedByPath := indexFiles(staged)
	unstagedByPath := indexFiles(unstaged)

	entries := make([]*StagingEntry, 0, st.Total())
	for _, fs := range st.Staged {
		entries = append(entries, newEntry(fs, SectionStaged, stagedByPath[fs.Path]))
	}
	for _, fs := range st.Unstaged {
		entries = append(entries, newEntry(fs, SectionChanges, unstagedByPath[fs.Path]))
	}
	for _, fs := range st.Untracked {
		entries = append(entries, newEntry(fs, SectionChanges, nil))
	}
	return entries
}

func newEntry(fs git.FileStatus, section Section, f *diff.File) *StagingEntry {
	e := &StagingEntry{
		Path:       fs.Path,
		OldPath:    fs.OldPath,
		ChangeType: fs.ChangeType,
		Section:    section,
		IsStaged:   section == SectionStaged,
		Additions:  fs.Additions,
		Deletions:  fs.Deletions,
		Diff:       f,
	}
	if f != nil && e.Additions == 0 && e.Deletions == 0 {
		e.Additions, e.Deletions = f.Additions, f.Deletions
	}
	return e
}

func indexFiles(files []*diff.File) map[string]*diff.File {
	m := make(map[string]*diff.File, len(files))
	for _, f := range files {
		m[f.Path] = f
	}
	return m
}

// commitEntries builds the read-only list shown for a single commit.
func commitEntries(files []*diff.File) []*StagingEntry {
	entries := make([]*StagingEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, &StagingEntry{
			Path:       f.Path,
			OldPath:    f.OldPath,
			ChangeType: changeTypeOf(f.Status),
			Section:    SectionCommit,
			Additions:  f.Additions,
			Deletions:  f.Deletions,
			Diff:       f,
		})
	}
	return entries
}

func changeTypeOf(s diff.FileStatus) git.ChangeType {
	switch s {
	case diff.FileAdded:
		return git.ChangeAdded
	case diff.FileDeleted:
		return git.ChangeDeleted
	case diff.FileRenamed:
		return git.ChangeRenamed
	case diff.FileCopied:
		return git.ChangeCopied
	default:
		return git.ChangeModified
	}
}

// carryExpanded copies expand flags from the previous list onto a rebuilt
// one, matching entries by section and path. Entries whose diff no longer
// has hunks come back collapsed.
func carryExpanded(prev, next []*StagingEntry) {
	open := make(map[entryKey]bool, len(prev))
	for _, e := range prev {
		if e.Expanded {
			open[e.key()] = true
		}
	}
	for _, e := range next {
		e.Expanded = open[e.key()] && len(e.Hunks()) > 0
	}
}
