package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/contract-data-extractor/internal/pdf"
)

// Watcher processes PDFs as they are created or rewritten under a root.
type Watcher struct {
	processor *Processor
	fsw       *fsnotify.Watcher
	root      string
	debounce  time.Duration
	logger    *zap.Logger
}

// NewWatcher registers root and every non-hidden directory below it. Events
// that happen after NewWatcher returns are picked up by Run.
func (p *Processor) NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		return nil, errors.New("debounce must be positive")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		processor: p,
		fsw:       fsw,
		root:      root,
		debounce:  debounce,
		logger:    p.logger.With(zap.String("root", root)),
	}
	if err := w.addTree(root, nil); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done. One goroutine turns filesystem events into
// debounced paths; another processes them in order. The underlying watcher
// is closed when Run returns, so a Watcher runs at most once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	g, gctx := errgroup.WithContext(ctx)
	paths := make(chan string)

	g.Go(func() error {
		defer close(paths)
		return w.collect(gctx, paths)
	})

	g.Go(func() error {
		for path := range paths {
			if _, err := w.processor.ProcessFile(path); err != nil {
				w.logger.Warn("skipped", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})

	w.logger.Info("watching for PDFs", zap.Duration("debounce", w.debounce))
	return g.Wait()
}

// collect gathers matching create/write/rename events and emits each
// changed path once the tree has been quiet for the debounce period.
func (w *Watcher) collect(ctx context.Context, out chan<- string) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && w.maybeAddDir(ev.Name, pending) {
				timer.Reset(w.debounce)
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !w.processor.Matches(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			for _, path := range drain(pending) {
				// A rename event reports the old name too.
				if _, err := os.Stat(path); err != nil {
					continue
				}
				select {
				case out <- path:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// maybeAddDir watches path if it is a directory that was created or moved
// in. PDFs it already holds produce no events of their own, so they are
// queued into pending. It reports whether anything was queued.
func (w *Watcher) maybeAddDir(path string, pending map[string]struct{}) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	before := len(pending)
	if err := w.addTree(path, pending); err != nil {
		w.logger.Warn("failed to watch new directory", zap.String("path", path), zap.Error(err))
	}
	return len(pending) > before
}

// addTree watches root and every non-hidden directory below it. With a
// non-nil pending map, matching PDFs found on the way are queued.
func (w *Watcher) addTree(root string, pending map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if pending != nil && w.processor.Matches(path) {
				pending[path] = struct{}{}
			}
			return nil
		}
		if pdf.IsHidden(d.Name()) && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func drain(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)
	return paths
}
