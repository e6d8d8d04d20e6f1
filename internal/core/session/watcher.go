package session

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/adminkit/adminctl/internal/util"
)

// Watcher reloads a FileStore whenever another process rewrites the
// session file, so a long-running command picks up tokens refreshed by a
// parallel invocation instead of refreshing again itself.
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *FileStore
	done    chan struct{}
}

// NewWatcher starts watching the store's session file. The parent
// directory is watched rather than the file itself so rewrites that
// replace the file are still seen.
func NewWatcher(store *FileStore) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: watcher,
		store:   store,
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	target := filepath.Clean(w.store.Path())
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			util.LogDebugf("Session file changed (%s), reloading tokens", event.Op)
			if err := w.store.Reload(); err != nil {
				util.LogWarnf("Failed to reload session file: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Log and keep watching
			util.LogError("Session file watch error: " + err.Error())

		case <-w.done:
			return
		}
	}
}

// Close stops watching the session file.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
