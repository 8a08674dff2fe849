package decorations

import (
	"sync"

	wildcard "github.com/IGLOU-EU/go-wildcard/v2"

	"github.com/veneer-editor/veneer/internal/events"
	"github.com/veneer-editor/veneer/internal/scm"
)

// Bridge adapts one SCM provider to the decoration service's Provider
// contract. It holds no resource state of its own: every change event and
// every query re-reads the provider's current snapshot.
type Bridge struct {
	provider scm.Provider
	ignore   []string

	changes  *events.Emitter[[]string]
	unhook   events.Disposer
	closedMu sync.Mutex
	closed   bool
}

// NewBridge subscribes to the provider and announces the initial resource set.
func NewBridge(provider scm.Provider, ignore []string) *Bridge {
	b := &Bridge{
		provider: provider,
		ignore:   ignore,
		changes:  events.New[[]string](),
	}
	b.unhook = provider.OnDidChangeResources(b.republish)
	b.republish()
	return b
}

// republish flattens the provider's groups into an ordered URI list and
// re-emits it as a single change event.
func (b *Bridge) republish() {
	b.changes.Emit(b.uris())
}

func (b *Bridge) uris() []string {
	var uris []string
	for _, group := range b.provider.Groups() {
		for _, res := range group.Resources {
			if b.ignored(res.URI) {
				continue
			}
			uris = append(uris, res.URI)
		}
	}
	return uris
}

func (b *Bridge) ignored(uri string) bool {
	for _, pattern := range b.ignore {
		if wildcard.Match(pattern, uri) {
			return true
		}
	}
	return false
}

// Provide scans the provider's current groups for the URI and returns the
// first match's decoration. A missing URI is an empty result, not an error.
func (b *Bridge) Provide(uri string) (Decoration, bool) {
	if b.ignored(uri) {
		return Decoration{}, false
	}
	for _, group := range b.provider.Groups() {
		for _, res := range group.Resources {
			if res.URI == uri {
				return ForResource(res, b.provider.Label()), true
			}
		}
	}
	return Decoration{}, false
}

// OnDidChange subscribes to republished URI lists.
func (b *Bridge) OnDidChange(fn func([]string)) events.Disposer {
	return b.changes.Subscribe(fn)
}

// Close unsubscribes from the provider. Safe to call more than once.
func (b *Bridge) Close() error {
	b.closedMu.Lock()
	defer b.closedMu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.unhook()
	return nil
}
