package scm

import (
	"sync"

	"github.com/veneer-editor/veneer/internal/events"
)

// Provider supplies a label, a snapshot of resource groups, and a
// resources-changed notification. Implementations must deliver a stable
// snapshot from Groups: callers may hold the returned slice across events.
type Provider interface {
	Label() string
	RootURI() string
	Groups() []ResourceGroup
	OnDidChangeResources(fn func()) events.Disposer
}

// SnapshotProvider is a Provider whose state is replaced wholesale by an
// external feeder (the SCM extension pushing through the API). Each SetGroups
// swaps the snapshot and fires the change event.
type SnapshotProvider struct {
	label string
	root  string

	mu      sync.RWMutex
	groups  []ResourceGroup
	changes *events.Emitter[struct{}]
}

// NewSnapshotProvider creates an empty provider with the given label and root.
func NewSnapshotProvider(label, rootURI string) *SnapshotProvider {
	return &SnapshotProvider{
		label:   label,
		root:    rootURI,
		changes: events.New[struct{}](),
	}
}

func (p *SnapshotProvider) Label() string   { return p.label }
func (p *SnapshotProvider) RootURI() string { return p.root }

// Groups returns the current snapshot. The slice is shared with the provider
// and must not be mutated; SetGroups replaces it rather than editing in place.
func (p *SnapshotProvider) Groups() []ResourceGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.groups
}

// SetGroups replaces the snapshot and notifies subscribers synchronously.
func (p *SnapshotProvider) SetGroups(groups []ResourceGroup) {
	copied := make([]ResourceGroup, len(groups))
	copy(copied, groups)

	p.mu.Lock()
	p.groups = copied
	p.mu.Unlock()

	p.changes.Emit(struct{}{})
}

// OnDidChangeResources subscribes to snapshot replacements.
func (p *SnapshotProvider) OnDidChangeResources(fn func()) events.Disposer {
	return p.changes.Subscribe(func(struct{}) { fn() })
}
