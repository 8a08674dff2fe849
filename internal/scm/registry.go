package scm

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/veneer-editor/veneer/internal/events"
)

// Handle identifies a registered repository for its whole lifetime.
type Handle string

// Repository pairs a handle with the provider feeding it.
type Repository struct {
	Handle   Handle
	Provider Provider
}

// Registry tracks the repositories known to the daemon and announces
// additions and removals.
type Registry struct {
	mu      sync.RWMutex
	repos   map[Handle]*Repository
	order   []Handle
	added   *events.Emitter[*Repository]
	removed *events.Emitter[*Repository]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		repos:   make(map[Handle]*Repository),
		added:   events.New[*Repository](),
		removed: events.New[*Repository](),
	}
}

// Add registers a provider under a fresh handle and announces it.
func (r *Registry) Add(provider Provider) *Repository {
	repo := &Repository{
		Handle:   Handle(ulid.Make().String()),
		Provider: provider,
	}

	r.mu.Lock()
	r.repos[repo.Handle] = repo
	r.order = append(r.order, repo.Handle)
	r.mu.Unlock()

	log.Debug().
		Str("handle", string(repo.Handle)).
		Str("label", provider.Label()).
		Msg("Repository registered")

	r.added.Emit(repo)
	return repo
}

// Remove unregisters the repository and announces the removal. Removing an
// unknown handle is a no-op and returns false.
func (r *Registry) Remove(handle Handle) bool {
	r.mu.Lock()
	repo, ok := r.repos[handle]
	if ok {
		delete(r.repos, handle)
		for i, h := range r.order {
			if h == handle {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	log.Debug().Str("handle", string(handle)).Msg("Repository removed")
	r.removed.Emit(repo)
	return true
}

// Get looks a repository up by handle.
func (r *Registry) Get(handle Handle) (*Repository, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	repo, ok := r.repos[handle]
	return repo, ok
}

// List returns the registered repositories in registration order.
func (r *Registry) List() []*Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	repos := make([]*Repository, 0, len(r.order))
	for _, h := range r.order {
		repos = append(repos, r.repos[h])
	}
	return repos
}

// OnDidAdd subscribes to repository additions.
func (r *Registry) OnDidAdd(fn func(*Repository)) events.Disposer {
	return r.added.Subscribe(fn)
}

// OnDidRemove subscribes to repository removals.
func (r *Registry) OnDidRemove(fn func(*Repository)) events.Disposer {
	return r.removed.Subscribe(fn)
}
