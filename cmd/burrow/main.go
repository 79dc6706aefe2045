package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"burrow/internal/config"
)

var (
	configPath  = flag.String("config", "./burrow.toml", "Path to config file")
	file        = flag.String("file", "", "Document to peek from")
	line        = flag.Int("line", 1, "1-based line of the symbol to peek at")
	col         = flag.Int("col", 0, "0-based column of the symbol to peek at")
	metricsAddr = flag.String("metrics", "", "Serve prometheus metrics on this address")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("burrow v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	// The TUI owns stdout; logs go to a file.
	output := os.Stderr
	logPath := resolveLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
	} else {
		if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./burrow.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: burrow -file <path> [-line N] [-col N]")
		os.Exit(2)
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.InitialScan(); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if cfg.Watch.Enabled {
		if err := app.StartWatcher(); err != nil {
			slog.Warn("failed to start watcher", "error", err)
		}
	}

	if *metricsAddr != "" {
		startObservability(*metricsAddr, app)
	}

	if _, err := app.PeekAt(*file, *line, *col); err != nil {
		slog.Error("peek failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(newUIModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("ui failed", "error", err)
		os.Exit(1)
	}
}

func resolveLogPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "burrow", "burrow.log")
	}
	return filepath.Join(os.TempDir(), "burrow.log")
}
