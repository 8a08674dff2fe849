package decorations

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veneer-editor/veneer/internal/events"
	"github.com/veneer-editor/veneer/internal/metrics"
)

// Provider answers decoration queries for URIs it knows about and announces
// the URIs whose decorations may have changed.
type Provider interface {
	Provide(uri string) (Decoration, bool)
	OnDidChange(fn func([]string)) events.Disposer
}

// ChangeEvent carries the URIs a provider wants re-decorated.
type ChangeEvent struct {
	ProviderID string   `json:"providerId"`
	URIs       []string `json:"uris"`
}

type registration struct {
	id       string
	provider Provider
	unhook   events.Disposer
}

// Service is the rendering side: it aggregates registered providers, serves
// per-URI queries, and re-emits each provider's change events tagged with the
// provider's registration id.
type Service struct {
	mu      sync.RWMutex
	regs    []*registration
	changes *events.Emitter[ChangeEvent]
}

// NewService creates an empty decoration service.
func NewService() *Service {
	return &Service{changes: events.New[ChangeEvent]()}
}

// RegisterProvider adds the provider and returns a disposer that removes it
// again. Providers are consulted in registration order.
func (s *Service) RegisterProvider(p Provider) events.Disposer {
	reg := &registration{
		id:       uuid.NewString(),
		provider: p,
	}
	reg.unhook = p.OnDidChange(func(uris []string) {
		metrics.ChangeEvents.Inc()
		s.changes.Emit(ChangeEvent{ProviderID: reg.id, URIs: uris})
	})

	s.mu.Lock()
	s.regs = append(s.regs, reg)
	s.mu.Unlock()

	metrics.RegisteredProviders.Inc()
	log.Debug().Str("provider", reg.id).Msg("Decoration provider registered")

	var once sync.Once
	return func() {
		once.Do(func() {
			reg.unhook()
			s.mu.Lock()
			for i, r := range s.regs {
				if r == reg {
					s.regs = append(s.regs[:i], s.regs[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
			metrics.RegisteredProviders.Dec()
			log.Debug().Str("provider", reg.id).Msg("Decoration provider unregistered")
		})
	}
}

// Query consults providers in registration order and returns the first
// decoration for the URI, or false when no provider claims it.
func (s *Service) Query(uri string) (Decoration, bool) {
	s.mu.RLock()
	regs := make([]*registration, len(s.regs))
	copy(regs, s.regs)
	s.mu.RUnlock()

	for _, reg := range regs {
		if deco, ok := reg.provider.Provide(uri); ok {
			metrics.DecorationQueries.WithLabelValues("hit").Inc()
			return deco, true
		}
	}
	metrics.DecorationQueries.WithLabelValues("miss").Inc()
	return Decoration{}, false
}

// ProviderCount reports the number of registered providers.
func (s *Service) ProviderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regs)
}

// OnDidChange subscribes to aggregated change events.
func (s *Service) OnDidChange(fn func(ChangeEvent)) events.Disposer {
	return s.changes.Subscribe(fn)
}
