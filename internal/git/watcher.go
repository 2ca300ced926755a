package git

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// maxWatchedDirs caps how many work tree directories are watched.
const maxWatchedDirs = 512

// Watcher reports debounced changes to a repository's index, HEAD and work
// tree directories.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewWatcher starts watching the repository rooted at root.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	gitDir := filepath.Join(root, ".git")
	if err := fsw.Add(gitDir); err != nil {
		fsw.Close()
		return nil, err
	}
	addWorkTreeDirs(fsw, root)

	w := &Watcher{
		fsw:    fsw,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop(gitDir, debounce)
	return w, nil
}

func addWorkTreeDirs(fsw *fsnotify.Watcher, root string) {
	count := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if d.Name() == "node_modules" || d.Name() == "vendor" {
			return filepath.SkipDir
		}
		if count >= maxWatchedDirs {
			return filepath.SkipAll
		}
		if err := fsw.Add(path); err != nil {
			slog.Debug("watch dir failed", "path", path, "err", err)
			return nil
		}
		count++
		return nil
	})
}

// Events delivers one value per burst of changes. The channel is closed
// when the watcher stops.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop(gitDir string, debounce time.Duration) {
	defer close(w.events)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(gitDir, ev) {
				timer.Reset(debounce)
			}
		case <-timer.C:
			select {
			case w.events <- struct{}{}:
			default:
				// A notification is already pending.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Debug("watcher error", "err", err)
		}
	}
}

// relevant filters out lock files and git internals other than the index
// and HEAD.
func relevant(gitDir string, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	if filepath.Dir(ev.Name) == gitDir {
		return name == "index" || name == "HEAD"
	}
	return true
}
