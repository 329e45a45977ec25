package scanner

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceWindow coalesces bursts of filesystem events for the same
// path (editors that write-then-rename, multi-file copy jobs) per
// spec.md §4.9.
const debounceWindow = 500 * time.Millisecond

// ChangeHandler receives a batch of created/removed/updated paths once
// debounceWindow has elapsed since the first event of the batch; events
// on any path within that window join the same batch, and later events
// do not extend it.
type ChangeHandler func(added, removed, updated []string)

// Watcher recursively watches a set of roots for create/write/remove
// events and coalesces them before calling its handler.
type Watcher struct {
	fsw     *fsnotify.Watcher
	scanner *Scanner
	handler ChangeHandler
	log     zerolog.Logger

	pending map[string]fsnotify.Op
	reset   chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewWatcher creates a Watcher that recursively watches root and its
// subdirectories, running file events back through scanner for
// re-cataloging and deletions through store removal.
func NewWatcher(root string, scanner *Scanner, handler ChangeHandler, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		scanner: scanner,
		handler: handler,
		log:     log.With().Str("component", "watcher").Logger(),
		pending: make(map[string]fsnotify.Op),
		reset:   make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	active := false

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isAudioFile(ev.Name) {
				continue
			}
			w.pending[ev.Name] = ev.Op
			if !active {
				timer.Reset(debounceWindow)
				active = true
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			active = false
			w.flush()
		}
	}
}

func (w *Watcher) flush() {
	if len(w.pending) == 0 {
		return
	}
	var added, removed, updated []string
	for path, op := range w.pending {
		switch {
		case op&fsnotify.Remove != 0 || op&fsnotify.Rename != 0:
			if err := w.scanner.store.DeleteTrack(path); err != nil {
				w.log.Warn().Str("path", path).Err(err).Msg("delete on watch failed")
			}
			removed = append(removed, path)
		case op&fsnotify.Create != 0:
			w.scanner.scanOne(path)
			added = append(added, path)
		default:
			w.scanner.scanOne(path)
			updated = append(updated, path)
		}
	}
	w.pending = make(map[string]fsnotify.Op)
	if w.handler != nil {
		w.handler(added, removed, updated)
	}
}

// Close stops the watcher goroutine and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.stop)
	<-w.done
	return w.fsw.Close()
}
