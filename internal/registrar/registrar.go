// Package registrar owns the lifecycle of per-repository decoration bridges,
// keyed by the decorations.enabled setting and repository add/remove events.
package registrar

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/veneer-editor/veneer/internal/config"
	"github.com/veneer-editor/veneer/internal/decorations"
	"github.com/veneer-editor/veneer/internal/events"
	"github.com/veneer-editor/veneer/internal/scm"
)

type entry struct {
	bridge     *decorations.Bridge
	unregister events.Disposer
}

func (e entry) dispose() {
	e.unregister()
	e.bridge.Close()
}

// Registrar keeps exactly one bridge registered per known repository while
// enabled, and none while disabled.
type Registrar struct {
	registry *scm.Registry
	service  *decorations.Service

	mu           sync.Mutex
	enabled      bool
	closed       bool
	ignore       []string
	entries      map[scm.Handle]entry
	unhookAdd    events.Disposer
	unhookRemove events.Disposer
}

// New creates a registrar and applies the initial configuration.
func New(registry *scm.Registry, service *decorations.Service, cfg *config.Config) *Registrar {
	r := &Registrar{
		registry: registry,
		service:  service,
		entries:  make(map[scm.Handle]entry),
	}
	r.ApplyConfig(cfg)
	return r
}

// ApplyConfig transitions between enabled and disabled, and rebuilds bridges
// when the ignore patterns changed while enabled.
func (r *Registrar) ApplyConfig(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	patternsChanged := !slices.Equal(r.ignore, cfg.IgnorePatterns)
	r.ignore = slices.Clone(cfg.IgnorePatterns)

	switch {
	case cfg.DecorationsEnabled && !r.enabled:
		r.enableLocked()
	case !cfg.DecorationsEnabled && r.enabled:
		r.disableLocked()
	case r.enabled && patternsChanged:
		// Bridges capture the patterns at construction; cycle to rebuild.
		r.disableLocked()
		r.enableLocked()
	}
}

// Enabled reports the current state.
func (r *Registrar) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// EntryCount reports the number of live bridge registrations.
func (r *Registrar) EntryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close disposes all entries and subscriptions regardless of state.
func (r *Registrar) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.enabled {
		r.disableLocked()
	}
	return nil
}

func (r *Registrar) enableLocked() {
	r.enabled = true
	r.unhookAdd = r.registry.OnDidAdd(r.repositoryAdded)
	r.unhookRemove = r.registry.OnDidRemove(r.repositoryRemoved)

	for _, repo := range r.registry.List() {
		r.track(repo)
	}
	log.Info().Int("repositories", len(r.entries)).Msg("File decorations enabled")
}

func (r *Registrar) disableLocked() {
	r.enabled = false
	if r.unhookAdd != nil {
		r.unhookAdd()
		r.unhookAdd = nil
	}
	if r.unhookRemove != nil {
		r.unhookRemove()
		r.unhookRemove = nil
	}

	for handle, e := range r.entries {
		e.dispose()
		delete(r.entries, handle)
	}
	log.Info().Msg("File decorations disabled")
}

func (r *Registrar) repositoryAdded(repo *scm.Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled || r.closed {
		return
	}
	r.track(repo)
}

func (r *Registrar) repositoryRemoved(repo *scm.Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[repo.Handle]
	if !ok {
		return
	}
	delete(r.entries, repo.Handle)
	e.dispose()
}

// track creates and registers a bridge for repo. At most one entry may exist
// per handle; an existing entry is kept untouched.
func (r *Registrar) track(repo *scm.Repository) {
	if _, ok := r.entries[repo.Handle]; ok {
		return
	}

	bridge := decorations.NewBridge(repo.Provider, r.ignore)
	r.entries[repo.Handle] = entry{
		bridge:     bridge,
		unregister: r.service.RegisterProvider(bridge),
	}
}
