package catalog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// LoadFunc produces a catalog from the dataset path.
type LoadFunc func(path string) (*Catalog, error)

// Watcher reloads the dataset into a Store whenever the file changes. A
// failed reload keeps the previous catalog.
type Watcher struct {
	path     string
	store    *Store
	load     LoadFunc
	logger   *logrus.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. load defaults to Load.
func NewWatcher(path string, store *Store, load LoadFunc, logger *logrus.Logger) *Watcher {
	if load == nil {
		load = Load
	}
	return &Watcher{
		path:     path,
		store:    store,
		load:     load,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
}

// Start begins watching the dataset's directory. Editors often replace files
// instead of writing them, so the directory is watched rather than the file.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	go w.watch(ctx)

	w.logger.WithField("data_path", w.path).Info("Catalog watcher started")
	return nil
}

// Stop closes the watcher (idempotent).
func (w *Watcher) Stop() {
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) watch(ctx context.Context) {
	defer w.watcher.Close()

	var pending <-chan time.Time
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(w.debounce)
			}

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Catalog watcher error")
		}
	}
}

// reload loads the dataset and publishes it on success.
func (w *Watcher) reload() bool {
	c, err := w.load(w.path)
	if err != nil {
		w.logger.WithError(err).WithField("data_path", w.path).Warn("Catalog reload failed, keeping previous catalog")
		return false
	}

	w.store.Replace(c)
	w.logger.WithFields(logrus.Fields{
		"songs":     c.Len(),
		"playlists": len(c.Playlists()),
	}).Info("Catalog reloaded")
	return true
}
