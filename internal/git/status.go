package git

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// parseStatus parses `git status --porcelain=v2 -z` output.
//
//	1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
//	2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>\0<origPath>
//	u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
//	? <path>
func parseStatus(output []byte) *Status {
	st := &Status{}
	parts := bytes.Split(output, []byte{0})

	for i := 0; i < len(parts); i++ {
		line := string(parts[i])
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "1 "):
			fields := strings.SplitN(line, " ", 9)
			if len(fields) < 9 {
				continue
			}
			st.add(fields[1], fields[8], "")

		case strings.HasPrefix(line, "2 "):
			fields := strings.SplitN(line, " ", 10)
			if len(fields) < 10 {
				continue
			}
			var orig string
			if i+1 < len(parts) {
				i++
				orig = string(parts[i])
			}
			st.add(fields[1], fields[9], orig)

		case strings.HasPrefix(line, "u "):
			fields := strings.SplitN(line, " ", 11)
			if len(fields) < 11 {
				continue
			}
			st.Unstaged = append(st.Unstaged, FileStatus{Path: fields[10], ChangeType: ChangeUnmerged})

		case strings.HasPrefix(line, "? "):
			st.Untracked = append(st.Untracked, FileStatus{
				Path:       strings.TrimPrefix(line, "? "),
				ChangeType: ChangeUntracked,
			})
		}
	}

	byPath := func(s []FileStatus) func(i, j int) bool {
		return func(i, j int) bool { return s[i].Path < s[j].Path }
	}
	sort.Slice(st.Staged, byPath(st.Staged))
	sort.Slice(st.Unstaged, byPath(st.Unstaged))
	sort.Slice(st.Untracked, byPath(st.Untracked))
	return st
}

// add records an ordinary or renamed entry. X is the index status and Y the
// worktree status; '.' means unchanged.
func (s *Status) add(xy, path, orig string) {
	if len(xy) < 2 {
		return
	}
	x, y := xy[0], xy[1]
	if x != '.' {
		fs := FileStatus{Path: path, ChangeType: changeFromCode(x)}
		if orig != "" {
			fs.OldPath = orig
		}
		s.Staged = append(s.Staged, fs)
	}
	if y != '.' {
		s.Unstaged = append(s.Unstaged, FileStatus{Path: path, ChangeType: changeFromCode(y)})
	}
}

type numstat struct {
	additions int
	deletions int
	binary    bool
}

// parseNumstat parses `git diff --numstat -z` output, keyed by the new path.
//
//	<add>\t<del>\t<path>\0
//	<add>\t<del>\t\0<old>\0<new>\0
func parseNumstat(output []byte) map[string]numstat {
	stats := make(map[string]numstat)
	parts := bytes.Split(output, []byte{0})
	for i := 0; i < len(parts); i++ {
		fields := strings.SplitN(string(parts[i]), "\t", 3)
		if len(fields) != 3 {
			continue
		}
		path := fields[2]
		if path == "" {
			if i+2 >= len(parts) {
				break
			}
			path = string(parts[i+2])
			i += 2
		}
		var ns numstat
		if fields[0] == "-" || fields[1] == "-" {
			ns.binary = true
		} else {
			ns.additions, _ = strconv.Atoi(fields[0])
			ns.deletions, _ = strconv.Atoi(fields[1])
		}
		stats[path] = ns
	}
	return stats
}

func applyStats(entries []FileStatus, stats map[string]numstat) {
	for i := range entries {
		if ns, ok := stats[entries[i].Path]; ok {
			entries[i].Additions = ns.additions
			entries[i].Deletions = ns.deletions
			entries[i].Binary = ns.binary
		}
	}
}
