package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ImportFunc receives the content of a file dropped into the inbox.
type ImportFunc func(ctx context.Context, path string, data []byte) error

// InboxConfig configures an Inbox watcher.
type InboxConfig struct {
	Dir          string
	Pattern      string        // doublestar pattern relative to Dir, default "*.json"
	Debounce     time.Duration // default 50ms
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Inbox watches a directory and hands every matching file to an ImportFunc.
// Files already present when Run starts are imported once up front.
type Inbox struct {
	config InboxConfig
	fn     ImportFunc
	ready  chan string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewInbox creates an inbox watcher.
func NewInbox(config InboxConfig, fn ImportFunc) *Inbox {
	if config.Pattern == "" {
		config.Pattern = "*.json"
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Inbox{
		config: config,
		fn:     fn,
		ready:  make(chan string, 16),
		timers: make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled.
func (w *Inbox) Run(ctx context.Context) (err error) {
	if !doublestar.ValidatePattern(w.config.Pattern) {
		return fmt.Errorf("invalid inbox pattern: %q", w.config.Pattern)
	}
	if err := os.MkdirAll(w.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Dir, err)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("inbox panic: %v", recovered)
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.config.Logger.Error("inbox panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.config.Logger.Error("inbox panic", "error", err)
			}
		}
	}()
	defer w.stopTimers()

	w.scanExisting(ctx)
	w.config.Logger.Debug("inbox watching", "dir", w.config.Dir, "pattern", w.config.Pattern)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if w.matches(event.Name) {
					w.schedule(ctx, event.Name)
				}
			}

		case path := <-w.ready:
			w.importFile(ctx, path)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}

func (w *Inbox) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.config.Dir)
	if err != nil {
		w.handleError(fmt.Errorf("failed to scan inbox: %w", err))
		return
	}
	for _, e := range entries {
		path := filepath.Join(w.config.Dir, e.Name())
		if !e.IsDir() && w.matches(path) {
			w.importFile(ctx, path)
		}
	}
}

func (w *Inbox) matches(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, TempFilePrefix) || strings.HasPrefix(name, ".") {
		return false
	}
	rel, err := filepath.Rel(w.config.Dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.config.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// schedule debounces bursts of write events on the same file into one import.
func (w *Inbox) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.config.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Inbox) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Inbox) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.handleError(fmt.Errorf("failed to read %s: %w", path, err))
		return
	}
	if err := w.fn(ctx, path, data); err != nil {
		w.handleError(fmt.Errorf("failed to import %s: %w", path, err))
		return
	}
	w.config.Logger.Debug("inbox file imported", "path", path)
}

func (w *Inbox) handleError(err error) {
	w.config.Logger.Error("inbox error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}
