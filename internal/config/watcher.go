package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/veneer-editor/veneer/internal/events"
)

const (
	debounceDelay = 100 * time.Millisecond
	pollInterval  = 2 * time.Second
)

// Watcher monitors the env file for changes and republishes fresh Config
// snapshots. Falls back to mtime polling when the directory cannot be watched.
type Watcher struct {
	envPath     string
	watcher     *fsnotify.Watcher
	changes     *events.Emitter[*Config]
	stopChan    chan struct{}
	stopOnce    sync.Once
	mu          sync.Mutex
	lastModTime time.Time
}

// NewWatcher prepares a watcher for the env file referenced by cfg.
func NewWatcher(cfg *Config) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		envPath:  cfg.EnvPath(),
		watcher:  watcher,
		changes:  events.New[*Config](),
		stopChan: make(chan struct{}),
	}
	if stat, err := os.Stat(w.envPath); err == nil {
		w.lastModTime = stat.ModTime()
	}
	return w, nil
}

// OnChange subscribes to reloaded configuration snapshots.
func (w *Watcher) OnChange(fn func(*Config)) events.Disposer {
	return w.changes.Subscribe(fn)
}

// Start begins watching the env file's directory.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.envPath)
	if err := w.watcher.Add(dir); err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("Failed to watch config directory, falling back to polling")
		go w.pollForChanges()
		return nil
	}

	go w.watchForChanges()
	log.Info().Str("env_path", w.envPath).Msg("Watching config file for changes")
	return nil
}

// Stop tears the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
	})
}

// Reload forces a reload, e.g. on SIGHUP.
func (w *Watcher) Reload() {
	w.reload()
}

func (w *Watcher) watchForChanges() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.envPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce, the write may still be in flight
				time.Sleep(debounceDelay)
				log.Info().Str("event", event.Op.String()).Msg("Detected config file change")
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Config watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) pollForChanges() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stat, err := os.Stat(w.envPath)
			if err != nil {
				continue
			}
			w.mu.Lock()
			changed := stat.ModTime().After(w.lastModTime)
			w.mu.Unlock()
			if changed {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load()
	if err != nil {
		log.Error().Err(err).Msg("Config reload failed, keeping previous configuration")
		return
	}

	if stat, err := os.Stat(w.envPath); err == nil {
		w.mu.Lock()
		w.lastModTime = stat.ModTime()
		w.mu.Unlock()
	}

	log.Info().
		Bool("decorations_enabled", cfg.DecorationsEnabled).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration reloaded")
	w.changes.Emit(cfg)
}
