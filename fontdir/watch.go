package fontdir

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches bursts of filesystem events (a font package install
// touches many files) into one rescan.
const watchDebounce = 500 * time.Millisecond

type watcher struct {
	fs     *fsnotify.Watcher
	done   chan struct{}
	wg     sync.WaitGroup
	closed sync.Once
}

// Watch starts watching the configured font directories and calls onChange
// after the database has been rescanned because of a filesystem change.
// Only one watcher per database; Close stops it.
func (db *Database) Watch(onChange func()) error {
	db.mu.Lock()
	if db.watcher != nil {
		db.mu.Unlock()
		return fmt.Errorf("fontdir: already watching")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		db.mu.Unlock()
		return fmt.Errorf("fontdir: starting watcher: %w", err)
	}
	w := &watcher{fs: fs, done: make(chan struct{})}
	db.watcher = w
	dirs := db.dirs
	db.mu.Unlock()

	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			slog.Debug("not watching font dir", "dir", dir, "err", err)
		}
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		var pending *time.Timer
		var pendingC <-chan time.Time
		for {
			select {
			case <-w.done:
				return
			case ev, ok := <-fs.Events:
				if !ok {
					return
				}
				if !isFontFile(ev.Name) {
					continue
				}
				if pending == nil {
					pending = time.NewTimer(watchDebounce)
					pendingC = pending.C
				} else {
					pending.Reset(watchDebounce)
				}
			case err, ok := <-fs.Errors:
				if !ok {
					return
				}
				slog.Debug("font watcher error", "err", err)
			case <-pendingC:
				pending = nil
				pendingC = nil
				if err := db.Scan(); err != nil {
					slog.Debug("font rescan failed", "err", err)
					continue
				}
				onChange()
			}
		}
	}()
	return nil
}

// Close stops the watcher, if any.
func (db *Database) Close() {
	db.mu.Lock()
	w := db.watcher
	db.watcher = nil
	db.mu.Unlock()
	if w == nil {
		return
	}
	w.closed.Do(func() {
		close(w.done)
		w.fs.Close()
	})
	w.wg.Wait()
}
