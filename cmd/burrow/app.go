package main

import (
	"log/slog"
	"os"

	"burrow/internal/config"
	"burrow/internal/document"
	"burrow/internal/resolver"
	"burrow/internal/session"
	"burrow/internal/watcher"
)

// App wires the model to its collaborators and carries the operations the
// UI binds keys to.
type App struct {
	Config   *config.Config
	Pool     *document.Pool
	Resolver *resolver.TreeSitter
	Engine   *session.Engine
	Registry *session.Registry

	watcher *watcher.Watcher
	index   *resolver.Index
}

func NewApp(cfg *config.Config) (*App, error) {
	opts := []resolver.Option{
		resolver.WithExcludes(cfg.Exclude.Dirs, cfg.Exclude.Files),
	}

	var index *resolver.Index
	if cfg.Index.Path != "" {
		ix, err := resolver.OpenIndex(cfg.Index.Path)
		if err != nil {
			slog.Warn("failed to open symbol index, continuing without", "path", cfg.Index.Path, "error", err)
		} else {
			index = ix
			opts = append(opts, resolver.WithIndex(ix))
		}
	}

	r, err := resolver.NewTreeSitter(cfg.GrammarsPath, opts...)
	if err != nil {
		return nil, err
	}

	pool := document.NewPool()
	return &App{
		Config:   cfg,
		Pool:     pool,
		Resolver: r,
		Engine:   session.NewEngine(pool, cfg.Viewport.Height, cfg.Viewport.ListHeight),
		Registry: session.NewRegistry(),
		index:    index,
	}, nil
}

func (a *App) InitialScan() error {
	return a.Resolver.ScanRoots(a.Config.ScanRoots)
}

// StartWatcher reindexes changed files and invalidates their pooled
// documents so cached anchors recompute against fresh content.
func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, a.onFilesChanged)
	if err != nil {
		return err
	}
	if err := w.Watch(a.Config.ScanRoots); err != nil {
		w.Close()
		return err
	}
	a.watcher = w
	return nil
}

func (a *App) onFilesChanged(paths []string) {
	for _, path := range paths {
		a.Pool.Invalidate(path)
		if _, err := os.Stat(path); err != nil {
			a.Resolver.RemoveFile(path)
			continue
		}
		if err := a.Resolver.IndexFile(path); err != nil {
			slog.Debug("reindex failed", "path", path, "error", err)
		}
	}
}

// PeekAt starts a new session: resolve the symbol at the given position
// and browse its definitions, remembering where the user peeked from.
func (a *App) PeekAt(path string, line, col int) (*session.Session, error) {
	symbol, tags, err := a.Resolver.ResolveSymbolAt(path, line, col)
	if err != nil {
		return nil, err
	}

	s := a.Engine.NewSession(session.Tag{Path: path, Line: line, Name: "(origin)"})
	if err := a.Engine.PushBranch(s, symbol, tags); err != nil {
		return nil, err
	}
	a.Registry.SetRecent(s)
	return s, nil
}

// PeekThrough resolves a position inside displayed content and pushes the
// result as a new branch under the entry being browsed.
func (a *App) PeekThrough(s *session.Session, path string, line, col int) error {
	symbol, tags, err := a.Resolver.ResolveSymbolAt(path, line, col)
	if err != nil {
		return err
	}
	if err := a.Engine.PushBranch(s, symbol, tags); err != nil {
		return err
	}
	slog.Debug("peeked through", "symbol", symbol, "candidates", len(tags))
	return nil
}

func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.index != nil {
		a.index.Close()
	}
	a.Pool.CloseAll()
}
