package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNotRepository is returned by Open when the directory is not inside a
// git work tree.
var ErrNotRepository = errors.New("not a git repository")

// CommandError describes a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ShellProvider implements Provider with the git command line.
type ShellProvider struct {
	workDir      string
	binary       string
	timeout      time.Duration
	contextLines int
	log          *slog.Logger

	mu sync.Mutex // serialises index writes
}

// Option configures a ShellProvider.
type Option func(*ShellProvider)

// WithBinary sets the git executable.
func WithBinary(path string) Option {
	return func(p *ShellProvider) {
		if path != "" {
			p.binary = path
		}
	}
}

// WithTimeout bounds every git invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *ShellProvider) { p.timeout = d }
}

// WithContextLines sets the number of context lines in loaded diffs.
func WithContextLines(n int) Option {
	return func(p *ShellProvider) {
		if n >= 0 {
			p.contextLines = n
		}
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *slog.Logger) Option {
	return func(p *ShellProvider) {
		if l != nil {
			p.log = l
		}
	}
}

// NewShellProvider creates a provider rooted at workDir without checking
// that it is a repository.
func NewShellProvider(workDir string, opts ...Option) *ShellProvider {
	p := &ShellProvider{
		workDir:      workDir,
		binary:       "git",
		timeout:      10 * time.Second,
		contextLines: 3,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open resolves the top level of the work tree containing dir and returns a
// provider rooted there.
func Open(ctx context.Context, dir string, opts ...Option) (*ShellProvider, error) {
	p := NewShellProvider(dir, opts...)
	out, err := p.run(ctx, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) && strings.Contains(ce.Stderr, "not a git repository") {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return nil, err
	}
	p.workDir = strings.TrimSpace(string(out))
	return p, nil
}

// WorkDir returns the repository root.
func (p *ShellProvider) WorkDir() string { return p.workDir }

func (p *ShellProvider) run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	full := append([]string{"--no-optional-locks", "-C", p.workDir}, args...)
	cmd := exec.CommandContext(ctx, p.binary, full...)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	p.log.Debug("git", "args", args, "duration", time.Since(start), "err", err)
	if err != nil {
		return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

func (p *ShellProvider) diffFlags() []string {
	return []string{"--no-color", "--no-ext-diff", "-U" + strconv.Itoa(p.contextLines)}
}

// LoadDiff returns raw diff text. RefWorktree diffs the work tree against
// the index, RefIndex the index against HEAD, and anything else is shown as
// a commit.
func (p *ShellProvider) LoadDiff(ctx context.Context, ref, path string) (string, error) {
	var args []string
	switch ref {
	case RefWorktree:
		args = append([]string{"diff"}, p.diffFlags()...)
	case RefIndex:
		args = append([]string{"diff", "--cached"}, p.diffFlags()...)
	default:
		args = append([]string{"show", "--format=", "--patch"}, p.diffFlags()...)
		args = append(args, ref)
	}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := p.run(ctx, nil, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GetStatus runs status and both numstat queries concurrently and merges
// the counts into the entries.
func (p *ShellProvider) GetStatus(ctx context.Context) (*Status, error) {
	var (
		statusOut          []byte
		stagedNS, unstaged map[string]numstat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := p.run(gctx, nil, "status", "--porcelain=v2", "-z", "--untracked-files=all")
		statusOut = out
		return err
	})
	g.Go(func() error {
		out, err := p.run(gctx, nil, "diff", "--cached", "--numstat", "-z")
		if err != nil {
			// An unborn HEAD has nothing to compare against; counts stay zero.
			p.log.Debug("staged numstat failed", "err", err)
			return nil
		}
		stagedNS = parseNumstat(out)
		return nil
	})
	g.Go(func() error {
		out, err := p.run(gctx, nil, "diff", "--numstat", "-z")
		if err != nil {
			return err
		}
		unstaged = parseNumstat(out)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := parseStatus(statusOut)
	applyStats(st.Staged, stagedNS)
	applyStats(st.Unstaged, unstaged)
	return st, nil
}

// StageFile adds path to the index, including deletions.
func (p *ShellProvider) StageFile(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.run(ctx, nil, "add", "-A", "--", path)
	return err
}

// UnstageFile resets path in the index to HEAD. Repositories without a
// commit have no HEAD to restore from, so the path is removed from the
// index instead.
func (p *ShellProvider) UnstageFile(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasHead(ctx) {
		_, err := p.run(ctx, nil, "rm", "--cached", "--quiet", "--", path)
		return err
	}
	_, err := p.run(ctx, nil, "restore", "--staged", "--", path)
	return err
}

// ApplyPatchToIndex feeds patch to `git apply --cached`. Hunk header
// counts are recomputed from the body, so a hunk is applied exactly as it
// was read.
func (p *ShellProvider) ApplyPatchToIndex(ctx context.Context, patch string, reverse bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	args := []string{"apply", "--cached", "--recount", "--whitespace=nowarn"}
	if reverse {
		args = append(args, "--reverse")
	}
	args = append(args, "-")
	_, err := p.run(ctx, strings.NewReader(patch), args...)
	return err
}

// StageAll stages every change in the work tree, untracked files included.
func (p *ShellProvider) StageAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.run(ctx, nil, "add", "-A")
	return err
}

// UnstageAll empties the staged changes.
func (p *ShellProvider) UnstageAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasHead(ctx) {
		_, err := p.run(ctx, nil, "rm", "-r", "--cached", "--quiet", "--ignore-unmatch", ".")
		return err
	}
	_, err := p.run(ctx, nil, "reset", "--quiet")
	return err
}

func (p *ShellProvider) hasHead(ctx context.Context) bool {
	_, err := p.run(ctx, nil, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

var _ Provider = (*ShellProvider)(nil)
