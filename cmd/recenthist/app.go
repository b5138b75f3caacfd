package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/recenthist/browser"
	"github.com/hazyhaar/recenthist/history"
	"github.com/hazyhaar/recenthist/scan"
)

func app(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "recenthist",
		Usage:     "print recently visited URLs from running Chromium-family browsers",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, Commit),
		ArgsUsage: "[STORE...]",
		Description: "Each STORE is the path of a History database. Positional stores replace\n" +
			"the browser list unless --browser is also given.\n\n" +
			"Known browsers: " + knownBrowsers(),
		Flags:     flags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(c *cli.Context) error {
			return run(c, stdout, stderr)
		},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
			EnvVars: []string{"RECENTHIST_CONFIG"},
		},
		&cli.DurationFlag{
			Name:    "window",
			Aliases: []string{"w"},
			Usage:   "report visits at most this long before --at",
			EnvVars: []string{"RECENTHIST_WINDOW"},
			Value:   history.DefaultWindow,
		},
		&cli.StringFlag{
			Name:    "at",
			Usage:   "reference time, RFC 3339 (default: now)",
			EnvVars: []string{"RECENTHIST_AT"},
		},
		&cli.StringSliceFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "browser to check, repeatable (default: chrome, edge)",
			EnvVars: []string{"RECENTHIST_BROWSERS"},
		},
		&cli.StringFlag{
			Name:    "snapshot-dir",
			Usage:   "directory for temporary copies (default: system temp dir)",
			EnvVars: []string{"RECENTHIST_SNAPSHOT_DIR"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			EnvVars: []string{"RECENTHIST_LOG_LEVEL"},
		},
	}
}

func knownBrowsers() string {
	var ids []string
	for _, b := range browser.All() {
		ids = append(ids, b.ID)
	}
	return strings.Join(ids, ", ")
}

// loadConfig merges, lowest priority first: defaults, config file, env and
// flags (urfave/cli reports env-sourced flags as set). Defaults are filled
// before overrides, so an explicit --window 0s stays zero.
func loadConfig(c *cli.Context) (*scan.Config, error) {
	cfg := &scan.Config{}
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = scan.LoadConfigFile(path); err != nil {
			return nil, err
		}
	}
	cfg.Defaults()

	if c.IsSet("window") {
		cfg.Window = c.Duration("window")
	}
	if c.IsSet("snapshot-dir") {
		cfg.SnapshotDir = c.String("snapshot-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("browser") {
		cfg.Browsers = c.StringSlice("browser")
	} else if c.NArg() > 0 {
		cfg.Browsers = []string{}
	}
	for _, p := range c.Args().Slice() {
		cfg.Stores = append(cfg.Stores, scan.StoreConfig{Path: p})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func referenceTime(c *cli.Context) (time.Time, error) {
	s := c.String("at")
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func run(c *cli.Context, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.LogLevel)

	ref, err := referenceTime(c)
	if err != nil {
		return err
	}
	win, err := history.NewWindow(ref, cfg.Window)
	if err != nil {
		return err
	}

	targets, err := cfg.Targets(nil)
	if err != nil {
		// A browser without a resolvable profile is skipped, not fatal.
		logger.Warn("some browsers were skipped", "error", err)
	}
	if len(targets) == 0 {
		return fmt.Errorf("nothing to scan")
	}

	report := scan.New(stdout,
		scan.WithLogger(logger),
		scan.WithSnapshotDir(cfg.SnapshotDir),
	).Run(targets, win)

	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("some stores could not be read", "failed", len(failed), "total", len(report.Results))
	}
	logger.Debug("scan done", "entries", report.Entries(), "window", cfg.Window, "reference", ref.UTC())
	return nil
}
