package keywords

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"atsopt/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a catalog file into a Store when it changes on disk.
type Watcher struct {
	mu sync.Mutex

	path  string
	store *Store

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	lastDigest    []byte

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(error)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path. onReload, if set, is called after every
// reload attempt with its error (nil on success).
func NewWatcher(path string, store *Store, debounceDelay time.Duration, onReload func(error), logger *errors.Logger) *Watcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	return &Watcher{
		path:          filepath.Clean(path),
		store:         store,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching. The directory is watched rather than the file so that
// editors replacing the file through a rename are picked up.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("keyword watcher is already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.fsWatcher = fsw
	w.lastDigest, _ = fileDigest(w.path)

	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Keyword catalog watcher started",
			"file", w.path,
			"debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Failed to close keyword catalog watcher")
		}
		return err
	}
	if w.logger != nil {
		w.logger.Info("Keyword catalog watcher stopped")
	}
	return nil
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Keyword catalog watcher error")
			}

		case <-w.reloadChan:
			w.reloadIfChanged()

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) reloadIfChanged() {
	digest, err := fileDigest(w.path)
	if err != nil {
		// The file may be mid-rename; the Create event that follows retries.
		if w.logger != nil {
			w.logger.Debug("Keyword catalog not readable yet", "file", w.path, "error", err)
		}
		return
	}
	if bytes.Equal(digest, w.lastDigest) {
		return
	}

	err = w.Reload()
	if err == nil {
		w.lastDigest = digest
	}
}

// Reload loads the file now and swaps it into the store. On failure the
// previous catalog stays in effect.
func (w *Watcher) Reload() error {
	km, err := LoadFile(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Keyword catalog reload failed, keeping previous catalog", "file", w.path)
		}
	} else {
		w.store.Swap(km)
		if w.logger != nil {
			w.logger.Info("Keyword catalog reloaded",
				"file", w.path,
				"version", km.Version,
				"skills", km.Size())
		}
	}

	if w.onReload != nil {
		w.onReload(err)
	}
	return err
}

func fileDigest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
