package api

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigChangeType indicates what happened to the config file.
type ConfigChangeType string

const (
	ConfigChangeWritten ConfigChangeType = "written"
	ConfigChangeRemoved ConfigChangeType = "removed"
)

// ConfigChange is a debounced notification about the config file.
type ConfigChange struct {
	Type ConfigChangeType `json:"type"`
	Path string           `json:"path"`
}

// ConfigWatcherSubscriber receives config change notifications.
type ConfigWatcherSubscriber interface {
	OnConfigChange(change ConfigChange)
}

// debounceDelay coalesces the bursts of events editors produce on save.
const debounceDelay = 100 * time.Millisecond

// ConfigWatcher watches the config file and notifies subscribers.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the original are
// still picked up.
type ConfigWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	mu          sync.RWMutex
	subscribers []ConfigWatcherSubscriber
	timer       *time.Timer
	timerMu     sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		watcher: watcher,
		path:    filepath.Clean(path),
		stopCh:  make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber to receive change notifications.
func (cw *ConfigWatcher) Subscribe(sub ConfigWatcherSubscriber) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.subscribers = append(cw.subscribers, sub)
}

// Start begins watching. The config directory must exist.
func (cw *ConfigWatcher) Start() error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	if cw.stopped {
		cw.mu.Unlock()
		return fmt.Errorf("config watcher cannot be restarted after stop")
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(cw.path), err)
	}

	go cw.run()
	return nil
}

// Stop stops watching for changes.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if !cw.running || cw.stopped {
		cw.mu.Unlock()
		return nil
	}
	cw.running = false
	cw.stopped = true
	cw.mu.Unlock()

	cw.timerMu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
		cw.timer = nil
	}
	cw.timerMu.Unlock()

	close(cw.stopCh)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)

		case <-cw.stopCh:
			return
		}
	}
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != cw.path {
		return
	}

	change := ConfigChange{Path: cw.path, Type: ConfigChangeWritten}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		change.Type = ConfigChangeRemoved
	} else if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// Only the last event of a burst is emitted
	cw.timerMu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(debounceDelay, func() {
		cw.emit(change)
	})
	cw.timerMu.Unlock()
}

func (cw *ConfigWatcher) emit(change ConfigChange) {
	// Debounce timer may fire after Stop
	cw.mu.RLock()
	if cw.stopped {
		cw.mu.RUnlock()
		return
	}
	subs := make([]ConfigWatcherSubscriber, len(cw.subscribers))
	copy(subs, cw.subscribers)
	cw.mu.RUnlock()

	for _, sub := range subs {
		sub.OnConfigChange(change)
	}
}
