package storage

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invokes onChange whenever the file at path is written or replaced.
// The parent directory is watched, not the file itself: WriteGraphs replaces
// the file via rename, which would otherwise detach a file watch.
// Call the returned stop function to clean up.
func Watch(path string, onChange func()) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("store watcher add %s: %w", dir, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		watchLoop(w.Events, w.Errors, filepath.Base(path), onChange, done)
	}()

	return func() { close(done) }, nil
}

// watchLoop dispatches events for the named file until either channel closes
// or done is signalled. Watcher errors are ignored, but a closed Errors
// channel means the watcher is gone and the loop must exit rather than spin.
func watchLoop(events <-chan fsnotify.Event, errs <-chan error, name string, onChange func(), done <-chan struct{}) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				onChange()
			}
		case _, ok := <-errs:
			if !ok {
				return
			}
		case <-done:
			return
		}
	}
}
