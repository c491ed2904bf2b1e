package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"postdeck/internal/log"
)

// Watcher monitors the config file for changes using fsnotify and
// delivers freshly loaded configurations on its channel. Invalid
// edits are logged and dropped; the previous configuration stays in
// effect.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	changes   chan *Config
	stopChan  chan struct{}

	mutex   sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the given config file path. The
// parent directory is watched so editors that replace the file on
// save are still picked up.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:      path,
		fsWatcher: fsWatcher,
		changes:   make(chan *Config, 1),
		stopChan:  make(chan struct{}),
	}, nil
}

// Changes returns the channel that delivers reloaded configurations.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Start begins watching. It is a no-op if the watcher is already
// running.
func (w *Watcher) Start() {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return
	}
	w.running = true
	w.mutex.Unlock()

	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadConfigFile(w.path)
			if err != nil {
				log.LogWithError(err).Warn("config reload skipped")
				continue
			}
			log.LogWithFields(log.F("path", w.path)).Info("config reloaded")
			select {
			case w.changes <- cfg:
			default:
				// A pending reload is replaced by the newer one.
				select {
				case <-w.changes:
				default:
				}
				w.changes <- cfg
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Warn("config watcher error")
		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the watcher and releases its fsnotify resources.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)
	w.fsWatcher.Close()
}
