package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func porcelain(records ...string) []byte {
	return []byte(strings.Join(records, "\x00") + "\x00")
}

func TestParseStatus(t *testing.T) {
	out := porcelain(
		"1 M. N... 100644 100644 100644 abc def src/staged.go",
		"1 .M N... 100644 100644 100644 abc def src/modified.go",
		"1 MM N... 100644 100644 100644 abc def both.go",
		"1 A. N... 000000 100644 100644 000 def added.go",
		"1 .D N... 100644 100644 000000 abc 000 removed.go",
		"2 R. N... 100644 100644 100644 abc def R100 new name.go", "old name.go",
		"u UU N... 100644 100644 100644 100644 a b c conflict.go",
		"? notes.txt",
		"! ignored.log",
	)

	st := parseStatus(out)

	require.Len(t, st.Staged, 4)
	assert.Equal(t, "added.go", st.Staged[0].Path)
	assert.Equal(t, ChangeAdded, st.Staged[0].ChangeType)
	assert.Equal(t, "both.go", st.Staged[1].Path)
	assert.Equal(t, "new name.go", st.Staged[2].Path)
	assert.Equal(t, ChangeRenamed, st.Staged[2].ChangeType)
	assert.Equal(t, "old name.go", st.Staged[2].OldPath)
	assert.Equal(t, "src/staged.go", st.Staged[3].Path)

	var unstaged []string
	for _, f := range st.Unstaged {
		unstaged = append(unstaged, f.Path+":"+f.ChangeType.Letter())
	}
	assert.Equal(t, []string{"both.go:M", "conflict.go:U", "removed.go:D", "src/modified.go:M"}, unstaged)

	require.Len(t, st.Untracked, 1)
	assert.Equal(t, "notes.txt", st.Untracked[0].Path)
	assert.Equal(t, ChangeUntracked, st.Untracked[0].ChangeType)
	assert.Equal(t, 9, st.Total())
}

func TestParseStatus_Empty(t *testing.T) {
	st := parseStatus(nil)
	assert.Equal(t, 0, st.Total())
}

func TestParseNumstat(t *testing.T) {
	out := []byte("3\t1\tmain.go\x00-\t-\tlogo.png\x002\t0\t\x00old.go\x00new.go\x00")

	stats := parseNumstat(out)

	assert.Equal(t, numstat{additions: 3, deletions: 1}, stats["main.go"])
	assert.True(t, stats["logo.png"].binary)
	assert.Equal(t, 2, stats["new.go"].additions)
	_, hasOld := stats["old.go"]
	assert.False(t, hasOld)
}

func TestApplyStats(t *testing.T) {
	entries := []FileStatus{{Path: "a"}, {Path: "b"}}
	applyStats(entries, map[string]numstat{"b": {additions: 4, deletions: 2}})

	assert.Zero(t, entries[0].Additions)
	assert.Equal(t, 4, entries[1].Additions)
	assert.Equal(t, 2, entries[1].Deletions)
}

func TestChangeType(t *testing.T) {
	tests := []struct {
		code   byte
		letter string
		name   string
	}{
		{'M', "M", "modified"},
		{'A', "A", "added"},
		{'D', "D", "deleted"},
		{'R', "R", "renamed"},
		{'C', "C", "copied"},
		{'U', "U", "unmerged"},
		{'T', "T", "typechange"},
		{'?', "?", "untracked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := changeFromCode(tt.code)
			assert.Equal(t, tt.letter, c.Letter())
			assert.Equal(t, tt.name, c.String())
		})
	}
}

func TestCommandError(t *testing.T) {
	err := &CommandError{Args: []string{"apply", "--cached"}, Stderr: "error: patch failed\n", Err: assert.AnError}
	assert.Equal(t, "git apply --cached: error: patch failed", err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	bare := &CommandError{Args: []string{"status"}, Err: assert.AnError}
	assert.Contains(t, bare.Error(), assert.AnError.Error())
}
