package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@+ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@+ ?(.*)$`)

// Parse converts raw unified-diff text into files.
//
// Parsing never fails: diff text is untrusted and comes in many dialects, so
// anything the parser cannot make sense of is kept as best-effort content and
// counted on File.Anomalies. Hunk bodies that appear without any file header
// are attached to a file with an empty path.
func Parse(raw string) []*File {
	p := &parser{}
	lines := strings.Split(raw, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		p.feed(line, next)
	}
	p.flush()
	return p.files
}

// ParseFile parses raw text that is expected to describe a single file and
// returns the first file, or nil if the text contains none.
func ParseFile(raw string) *File {
	files := Parse(raw)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

type parser struct {
	files []*File
	cur   *File

	oldPath string // from the "--- " header

	inHunk    bool
	unbounded bool // malformed header: body runs until the next marker
	remOld    int
	remNew    int
	oldLine   int
	newLine   int
	sawHunk   bool
	inBinData bool // inside a "GIT binary patch" payload
}

func (p *parser) open(path string) {
	p.flush()
	p.cur = &File{Path: path}
	p.oldPath = ""
	p.inHunk = false
	p.unbounded = false
	p.sawHunk = false
	p.inBinData = false
}

func (p *parser) ensureFile() {
	if p.cur == nil {
		p.open("")
	}
}

func (p *parser) flush() {
	f := p.cur
	if f == nil {
		return
	}
	p.cur = nil

	if p.inHunk && !p.unbounded {
		f.Anomalies++ // truncated mid-hunk
	}
	if p.oldPath != "" && f.Path == "" {
		f.Path = p.oldPath
	}
	if p.oldPath != "" && p.oldPath != f.Path && f.OldPath == "" && f.Status != FileAdded && f.Status != FileDeleted {
		f.OldPath = p.oldPath
		if f.Status == FileModified {
			f.Status = FileRenamed
		}
	}
	f.IsImage = IsImagePath(f.Path)
	for _, l := range f.Lines {
		switch l.Kind {
		case LineAdded:
			f.Additions++
		case LineRemoved:
			f.Deletions++
		}
	}
	if !f.IsBinary {
		ExtractHunks(f)
	}
	p.files = append(p.files, f)
}

func (p *parser) add(l Line) {
	p.cur.Lines = append(p.cur.Lines, l)
}

func (p *parser) feed(line, next string) {
	if strings.HasPrefix(line, "diff --git ") || strings.HasPrefix(line, "diff --cc ") {
		p.open(pathFromGitHeader(line))
		p.add(Line{Kind: LineHeader, Text: line, Raw: line})
		return
	}

	// Plain "diff -u" output has no separator line; a ---/+++ pair after a
	// hunk starts the next file.
	if p.sawHunk && !p.inHunk && strings.HasPrefix(line, "--- ") && strings.HasPrefix(next, "+++ ") {
		p.open("")
	}

	if p.inBinData {
		return
	}

	if strings.HasPrefix(line, `\`) {
		p.ensureFile()
		p.add(Line{Kind: LineContext, Text: line, Raw: line, NoNewline: true})
		return
	}

	if p.inHunk {
		if p.feedBody(line) {
			return
		}
		// Not a body line: the hunk ended early.
		if !p.unbounded {
			p.cur.Anomalies++
		}
		p.inHunk = false
		p.unbounded = false
	}

	if strings.HasPrefix(line, "@@") {
		p.ensureFile()
		p.startHunk(line)
		return
	}

	if isBinaryMarker(line) {
		p.ensureFile()
		p.cur.IsBinary = true
		if p.cur.Path == "" {
			p.cur.Path = pathFromBinaryMarker(line)
		}
		p.add(Line{Kind: LineBinary, Text: line, Raw: line})
		return
	}
	if line == "GIT binary patch" {
		p.ensureFile()
		p.cur.IsBinary = true
		p.inBinData = true
		p.add(Line{Kind: LineBinary, Text: "Binary patch", Raw: line})
		return
	}

	if p.cur == nil {
		// Preamble such as commit headers before the first file.
		if strings.HasPrefix(line, "--- ") && strings.HasPrefix(next, "+++ ") {
			p.open("")
		} else {
			return
		}
	}

	if p.sawHunk && isBodyPrefix(line) && !strings.HasPrefix(line, "--- ") {
		// Body lines past the declared hunk size.
		p.cur.Anomalies++
		p.inHunk = true
		p.unbounded = true
		p.feedBody(line)
		return
	}

	p.feedHeader(line)
}

func (p *parser) feedHeader(line string) {
	f := p.cur
	switch {
	case strings.HasPrefix(line, "--- "):
		if path := stripPrefixPath(line[4:]); path != "" {
			p.oldPath = path
		} else {
			f.Status = FileAdded
		}
	case strings.HasPrefix(line, "+++ "):
		if path := stripPrefixPath(line[4:]); path != "" {
			f.Path = path
		} else {
			f.Status = FileDeleted
			if f.Path == "" {
				f.Path = p.oldPath
			}
		}
	case strings.HasPrefix(line, "new file mode"):
		f.Status = FileAdded
	case strings.HasPrefix(line, "deleted file mode"):
		f.Status = FileDeleted
	case strings.HasPrefix(line, "rename from "):
		f.OldPath = unquote(strings.TrimPrefix(line, "rename from "))
		f.Status = FileRenamed
	case strings.HasPrefix(line, "rename to "):
		f.Path = unquote(strings.TrimPrefix(line, "rename to "))
		f.Status = FileRenamed
	case strings.HasPrefix(line, "copy from "):
		f.OldPath = unquote(strings.TrimPrefix(line, "copy from "))
		f.Status = FileCopied
	case strings.HasPrefix(line, "copy to "):
		f.Path = unquote(strings.TrimPrefix(line, "copy to "))
		f.Status = FileCopied
	}
	p.add(Line{Kind: LineHeader, Text: line, Raw: line})
}

func (p *parser) startHunk(line string) {
	p.sawHunk = true
	p.inHunk = true
	p.unbounded = false

	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		p.cur.Anomalies++
		p.unbounded = true
		p.oldLine, p.newLine = 1, 1
		p.add(Line{Kind: LineHunkMarker, Text: line, Raw: line})
		return
	}
	oldStart, _ := strconv.Atoi(m[1])
	oldCount := atoiDefault(m[2], 1)
	newStart, _ := strconv.Atoi(m[3])
	newCount := atoiDefault(m[4], 1)
	if oldStart == 0 && oldCount > 0 {
		oldStart = 1
		p.cur.Anomalies++
	}
	if newStart == 0 && newCount > 0 {
		newStart = 1
		p.cur.Anomalies++
	}

	p.oldLine, p.newLine = oldStart, newStart
	p.remOld, p.remNew = oldCount, newCount
	if p.remOld == 0 && p.remNew == 0 {
		p.inHunk = false
	}
	p.add(Line{Kind: LineHunkMarker, Text: line, Raw: line})
}

// feedBody classifies a hunk body line and advances the counters. It returns
// false when the line cannot belong to a hunk body.
func (p *parser) feedBody(raw string) bool {
	line := raw
	if line == "" {
		// Some tools strip the trailing space of empty context lines.
		if !p.unbounded && p.remOld == 0 && p.remNew == 0 {
			return false
		}
		line = " "
	}
	body := strings.TrimSuffix(line[1:], "\r")
	switch line[0] {
	case '+':
		p.add(Line{Kind: LineAdded, Text: body, Raw: raw, NewLineNo: p.newLine})
		p.newLine++
		p.remNew--
	case '-':
		p.add(Line{Kind: LineRemoved, Text: body, Raw: raw, OldLineNo: p.oldLine})
		p.oldLine++
		p.remOld--
	case ' ':
		p.add(Line{Kind: LineContext, Text: body, Raw: raw, OldLineNo: p.oldLine, NewLineNo: p.newLine})
		p.oldLine++
		p.newLine++
		p.remOld--
		p.remNew--
	default:
		return false
	}
	if !p.unbounded && p.remOld <= 0 && p.remNew <= 0 {
		p.inHunk = false
	}
	return true
}

func isBodyPrefix(line string) bool {
	return line != "" && (line[0] == '+' || line[0] == '-' || line[0] == ' ')
}

func isBinaryMarker(line string) bool {
	return (strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "Files ")) &&
		strings.HasSuffix(line, " differ")
}

// pathFromGitHeader extracts the trailing (new side) path of a
// "diff --git a/x b/y" line.
func pathFromGitHeader(line string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(line, "diff --git "), "diff --cc ")
	if strings.HasSuffix(rest, `"`) {
		if i := strings.LastIndex(rest[:len(rest)-1], `"`); i >= 0 {
			return stripPrefixPath(rest[i:])
		}
	}
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+3:]
	}
	if i := strings.LastIndex(rest, " "); i >= 0 {
		return rest[i+1:]
	}
	return rest
}

func pathFromBinaryMarker(line string) string {
	rest := strings.TrimSuffix(line, " differ")
	if i := strings.LastIndex(rest, " and "); i >= 0 {
		return stripPrefixPath(rest[i+5:])
	}
	return ""
}

// stripPrefixPath removes the a/ or b/ prefix and any trailing timestamp from
// a ---/+++ path. It returns "" for /dev/null.
func stripPrefixPath(s string) string {
	s = unquote(s)
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	if s == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
