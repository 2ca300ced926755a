package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/app"
	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/git"
	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/plugin"
	"github.com/marcus/stagehand/internal/plugins/gitstatus"
	"github.com/marcus/stagehand/internal/state"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	projectRoot  = flag.String("project", ".", "repository directory")
	refFlag      = flag.String("ref", "", "show a commit read-only instead of the working tree")
	logPath      = flag.String("log", "", "write logs to this file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	writeConfig  = flag.Bool("write-config", false, "print the effective config and exit")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("stagehand version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig {
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode config: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(append(data, '\n'))
		os.Exit(0)
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "stagehand: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic", "err", r, "stack", string(debug.Stack()))
			panic(r)
		}
	}()

	// State is optional; a failure only loses remembered preferences.
	if err := state.InitWithDir(config.StateDir()); err != nil {
		logger.Warn("state unavailable", "err", err)
	}

	dir, err := filepath.Abs(*projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider, err := git.Open(ctx, dir,
		git.WithBinary(cfg.Git.Binary),
		git.WithTimeout(cfg.Git.Timeout),
		git.WithContextLines(cfg.Diff.ContextLines),
		git.WithLogger(logger),
	)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return fmt.Errorf("%s is not inside a git repository", dir)
		}
		return err
	}

	km := keymap.New(cfg.Keymap.Overrides)
	viewer := gitstatus.New(provider, *refFlag)
	if err := viewer.Init(&plugin.Context{
		WorkDir: provider.WorkDir(),
		Config:  cfg,
		Keymap:  km,
		Logger:  logger,
	}); err != nil {
		return fmt.Errorf("init viewer: %w", err)
	}

	logger.Info("starting", "workdir", provider.WorkDir(), "ref", *refFlag, "version", effectiveVersion(Version))

	model := app.New(viewer, km, cfg, provider.WorkDir(), effectiveVersion(Version), logger)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// setupLogger picks the log destination. The TUI owns the terminal, so logs
// never go to stderr.
func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}

	path := *logPath
	if path == "" {
		path = config.ExpandPath(cfg.UI.LogFile)
	}
	if path == "" && *debugFlag {
		path = filepath.Join(config.StateDir(), "stagehand.log")
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stagehand [options]\n\n")
		fmt.Fprintf(os.Stderr, "Review and stage changes hunk by hunk.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
