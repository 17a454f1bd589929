package project

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc receives the freshly loaded file map after a debounced batch of
// filesystem changes.
type ReloadFunc func(files map[string]string)

// Watcher re-loads the project whenever its files change, with a debounce
// window so rapid editor saves trigger a single re-analysis instead of one
// per keystroke.
type Watcher struct {
	loader   *Loader
	root     string
	debounce time.Duration
	onReload ReloadFunc
	log      *zap.Logger
}

// NewWatcher creates a watcher over a project root.
func NewWatcher(loader *Loader, root string, debounce time.Duration, onReload ReloadFunc, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		loader:   loader,
		root:     root,
		debounce: debounce,
		onReload: onReload,
		log:      logger.Named("watcher"),
	}
}

// Run watches until the context is cancelled. It blocks; run it on its own
// goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the root and every non-ignored subdirectory. fsnotify does not
	// recurse on its own.
	addAll := func() {
		_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if w.loader.ignored(d.Name()) {
					return filepath.SkipDir
				}
				_ = fsw.Add(path)
			}
			return nil
		})
	}
	addAll()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need explicit watches.
				addAll()
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", zap.Error(err))

		case <-timerC:
			timerC = nil
			files, err := w.loader.Load(w.root)
			if err != nil {
				w.log.Warn("Reload failed", zap.Error(err))
				continue
			}
			w.log.Debug("Project reloaded after change", zap.Int("files", len(files)))
			if w.onReload != nil {
				w.onReload(files)
			}
		}
	}
}
