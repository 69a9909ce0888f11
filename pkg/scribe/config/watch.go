package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watch on the loader's source file and calls
// onChange with the freshly reloaded Flags after every write. No debounce
// here: a flags file is small and human-edited, so coalescing bursts of
// writes is not worth the extra timer bookkeeping a recursive source-tree
// watch would need. The returned stop func closes the underlying watcher;
// call it to end the watch.
func (l *Loader) Watch(onChange func(Flags)) (stop func() error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: new watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", dir, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(l.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				flags, reloadErr := l.Reload()
				if reloadErr == nil && onChange != nil {
					onChange(flags)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() error {
		close(done)
		return w.Close()
	}, nil
}
