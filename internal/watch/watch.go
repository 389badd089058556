// Package watch re-runs a callback when a book's sources change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one run.
const DefaultDebounce = 300 * time.Millisecond

// Func is called after a debounced change. Calls never overlap.
type Func func(ctx context.Context) error

// Watcher monitors book.toml and the Markdown files of a book.
type Watcher struct {
	root     string
	srcDir   string
	onChange Func
	logger   *slog.Logger
	debounce time.Duration

	watcher    *fsnotify.Watcher
	stopChan   chan struct{}
	changeChan chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher for the book at root whose sources live in srcDir.
func New(root, srcDir string, onChange Func, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve book root").
			WithContext("path", root).
			Build()
	}
	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve source directory").
			WithContext("path", srcDir).
			Build()
	}

	w := &Watcher{
		root:       absRoot,
		srcDir:     absSrc,
		onChange:   onChange,
		logger:     slog.Default(),
		debounce:   DefaultDebounce,
		watcher:    fw,
		stopChan:   make(chan struct{}),
		changeChan: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start adds the watches and begins processing events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.root); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch book root").
			WithContext("path", w.root).
			Build()
	}
	if err := w.addTree(w.srcDir); err != nil {
		return err
	}

	w.logger.Info("Watching book for changes", logfields.Path(w.root))

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.changeLoop(ctx)
	return nil
}

// Stop ends the background loops and releases the watches. It waits for a
// running callback to return.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// addTree watches dir and every directory below it. fsnotify does not recurse.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to scan source directory").
				WithContext("path", path).
				Build()
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", path).
				Build()
		}
		return nil
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Book watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.inSource(event.Name) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			w.trigger()
			return
		}
	}
	if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
		return
	}
	w.logger.Debug("Book change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
	w.trigger()
}

// relevant reports whether a change to path can alter the outline.
func (w *Watcher) relevant(path string) bool {
	if filepath.Dir(path) == w.root && filepath.Base(path) == config.BookFileName {
		return true
	}
	return w.inSource(path) && strings.EqualFold(filepath.Ext(path), ".md")
}

func (w *Watcher) inSource(path string) bool {
	rel, err := filepath.Rel(w.srcDir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) trigger() {
	select {
	case w.changeChan <- struct{}{}:
	default:
	}
}

func (w *Watcher) changeLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.changeChan:
			timer.Reset(w.debounce)
		case <-timer.C:
			w.run(ctx)
		}
	}
}

// run executes on the change loop, so a change arriving mid-run queues the
// next run instead of overlapping it.
func (w *Watcher) run(ctx context.Context) {
	if err := w.onChange(ctx); err != nil {
		w.logger.Error("Book change handler failed", logfields.Error(err))
	}
}
