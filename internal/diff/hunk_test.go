package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyLines(raw ...string) []Line {
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		l := Line{Raw: r, Text: r[1:]}
		switch r[0] {
		case '+':
			l.Kind = LineAdded
		case '-':
			l.Kind = LineRemoved
		default:
			l.Kind = LineContext
		}
		lines = append(lines, l)
	}
	return lines
}

func TestHunkToPatch(t *testing.T) {
	h := Hunk{
		Header: "@@ -1,3 +1,4 @@",
		Lines:  bodyLines(" fn main() {", "+    x();", " }"),
	}

	got := h.ToPatch("src/main.rs")

	want := "--- a/src/main.rs\n" +
		"+++ b/src/main.rs\n" +
		"@@ -1,3 +1,4 @@\n" +
		" fn main() {\n" +
		"+    x();\n" +
		" }\n"
	assert.Equal(t, want, got)
}

func TestHunkToPatch_RoundTrip(t *testing.T) {
	for _, f := range Parse(multiFileDiff) {
		for i, h := range f.Hunks {
			patch := h.ToPatch(f.Path)

			back := ParseFile(patch)
			require.NotNil(t, back, "%s hunk %d", f.Path, i)
			require.Len(t, back.Hunks, 1, "%s hunk %d", f.Path, i)
			assert.Equal(t, f.Path, back.Path)
			assert.Equal(t, h.Header, back.Hunks[0].Header)
			assert.Equal(t, h.Additions, back.Hunks[0].Additions)
			assert.Equal(t, h.Deletions, back.Hunks[0].Deletions)
			assert.Equal(t, patch, back.Hunks[0].ToPatch(f.Path))
		}
	}
}

func TestHunkToPatch_KeepsNoNewlineMarker(t *testing.T) {
	files := Parse(multiFileDiff)
	readme := files[2]

	patch := readme.Hunks[0].ToPatch(readme.Path)

	assert.Contains(t, patch, "-hello\n\\ No newline at end of file\n+hello world\n\\ No newline at end of file\n")
}

func TestFileHunkPatch(t *testing.T) {
	added := &File{Path: "new.txt", Status: FileAdded, Hunks: []Hunk{{
		Header: "@@ -0,0 +1 @@",
		Lines:  bodyLines("+one"),
	}}}
	patch, err := added.HunkPatch(0)
	require.NoError(t, err)
	assert.Equal(t, "--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1 @@\n+one\n", patch)

	deleted := &File{Path: "old.txt", Status: FileDeleted, Hunks: []Hunk{{
		Header: "@@ -1 +0,0 @@",
		Lines:  bodyLines("-one"),
	}}}
	patch, err = deleted.HunkPatch(0)
	require.NoError(t, err)
	assert.Equal(t, "--- a/old.txt\n+++ /dev/null\n@@ -1 +0,0 @@\n-one\n", patch)

	_, err = deleted.HunkPatch(3)
	assert.Error(t, err)

	empty := &File{Path: "x", Hunks: []Hunk{{Header: "@@ -1 +1 @@"}}}
	_, err = empty.HunkPatch(0)
	assert.ErrorIs(t, err, ErrEmptyPatch)

	binary := &File{Path: "x.bin", IsBinary: true}
	_, err = binary.HunkPatch(0)
	assert.Error(t, err)
}

func TestHunkAtAndLineIndex(t *testing.T) {
	f := Parse(multiFileDiff)[0]

	// diff --git, index, ---, +++ precede the first marker.
	assert.Equal(t, -1, f.HunkAt(0))
	assert.Equal(t, 4, f.HunkLineIndex(0))
	assert.Equal(t, 0, f.HunkAt(4))
	assert.Equal(t, 0, f.HunkAt(5))

	second := f.HunkLineIndex(1)
	require.Positive(t, second)
	assert.Equal(t, 1, f.HunkAt(second))
	assert.Equal(t, 1, f.HunkAt(len(f.Lines)-1))
	assert.Equal(t, -1, f.HunkLineIndex(5))
}

func TestValidatePatch(t *testing.T) {
	f := Parse(multiFileDiff)[0]

	valid := f.Hunks[1].ToPatch(f.Path)
	assert.NoError(t, ValidatePatch(valid))

	// Header declares more lines than the body carries; git recounts.
	short := Hunk{
		Header: "@@ -1,3 +1,4 @@",
		Lines:  bodyLines(" fn main() {", "+    x();", " }"),
	}
	assert.NoError(t, ValidatePatch(short.ToPatch("src/main.rs")))

	noHunks := "--- a/x.go\n+++ b/x.go\n"
	assert.Error(t, ValidatePatch(noHunks))

	assert.ErrorIs(t, ValidatePatch("  \n"), ErrEmptyPatch)
}

func TestRecount(t *testing.T) {
	h := Hunk{
		Header: "@@ -1,3 +1,4 @@ fn main",
		Lines:  bodyLines(" fn main() {", "+    x();", " }"),
	}
	patch := h.ToPatch("src/main.rs")

	got := Recount(patch)
	assert.Contains(t, got, "@@ -1,2 +1,3 @@ fn main\n")
	assert.Contains(t, got, "--- a/src/main.rs\n+++ b/src/main.rs\n")
	assert.Contains(t, got, " fn main() {\n+    x();\n }\n")

	// Already consistent patches are left alone.
	assert.Equal(t, got, Recount(got))
}
