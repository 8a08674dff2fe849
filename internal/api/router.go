// Package api exposes the daemon's HTTP surface: repository registration,
// provider state pushes, decoration queries, CLI open requests, and the
// WebSocket change stream.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/veneer-editor/veneer/internal/auth"
	"github.com/veneer-editor/veneer/internal/decorations"
	"github.com/veneer-editor/veneer/internal/scm"
	"github.com/veneer-editor/veneer/internal/websocket"
)

// Router handles HTTP routing for the daemon.
type Router struct {
	mux      *http.ServeMux
	registry *scm.Registry
	service  *decorations.Service
	hub      *websocket.Hub
	opens    *openStore

	// tokenHash returns the current bcrypt hash, tracking config reloads.
	// Empty means open access.
	tokenHash func() string
}

// NewRouter wires all routes and returns the ready handler.
func NewRouter(registry *scm.Registry, service *decorations.Service, hub *websocket.Hub, tokenHash func() string) http.Handler {
	r := &Router{
		mux:       http.NewServeMux(),
		registry:  registry,
		service:   service,
		hub:       hub,
		opens:     newOpenStore(),
		tokenHash: tokenHash,
	}
	r.setupRoutes()
	return r.requireAuth(r.mux)
}

func (r *Router) setupRoutes() {
	r.mux.HandleFunc("GET /api/health", r.handleHealth)
	r.mux.HandleFunc("POST /api/repositories", r.handleAddRepository)
	r.mux.HandleFunc("DELETE /api/repositories/{handle}", r.handleRemoveRepository)
	r.mux.HandleFunc("PUT /api/repositories/{handle}/groups", r.handlePushGroups)
	r.mux.HandleFunc("GET /api/repositories", r.handleListRepositories)
	r.mux.HandleFunc("GET /api/decorations", r.handleQueryDecoration)
	r.mux.HandleFunc("POST /api/open", r.handleCreateOpen)
	r.mux.HandleFunc("GET /api/open/pending", r.handlePendingOpens)
	r.mux.HandleFunc("GET /api/open/{id}", r.handleGetOpen)
	r.mux.HandleFunc("POST /api/open/{id}/done", r.handleOpenDone)
	r.mux.HandleFunc("GET /ws", r.hub.ServeWS)
}

// requireAuth enforces the bearer token on everything but the health check.
func (r *Router) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hash := r.tokenHash()
		if hash == "" || req.URL.Path == "/api/health" {
			next.ServeHTTP(w, req)
			return
		}

		token := bearerToken(req)
		if token == "" || !auth.CheckToken(token, hash) {
			log.Warn().Str("path", req.URL.Path).Msg("Rejected unauthenticated request")
			writeError(w, http.StatusUnauthorized, "invalid or missing API token")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// WebSocket clients cannot set headers from browsers; allow a query token.
	return req.URL.Query().Get("token")
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"repositories": len(r.registry.List()),
		"providers":    r.service.ProviderCount(),
	})
}

type addRepositoryRequest struct {
	Label string `json:"label"`
	Root  string `json:"root"`
}

func (r *Router) handleAddRepository(w http.ResponseWriter, req *http.Request) {
	var body addRepositoryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Label == "" || body.Root == "" {
		writeError(w, http.StatusBadRequest, "label and root are required")
		return
	}

	repo := r.registry.Add(scm.NewSnapshotProvider(body.Label, body.Root))
	writeJSON(w, http.StatusCreated, map[string]string{"handle": string(repo.Handle)})
}

func (r *Router) handleRemoveRepository(w http.ResponseWriter, req *http.Request) {
	// Removing an unknown repository is a no-op, not an error.
	r.registry.Remove(scm.Handle(req.PathValue("handle")))
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleListRepositories(w http.ResponseWriter, _ *http.Request) {
	type repoInfo struct {
		Handle string `json:"handle"`
		Label  string `json:"label"`
		Root   string `json:"root"`
	}
	repos := r.registry.List()
	out := make([]repoInfo, 0, len(repos))
	for _, repo := range repos {
		out = append(out, repoInfo{
			Handle: string(repo.Handle),
			Label:  repo.Provider.Label(),
			Root:   repo.Provider.RootURI(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (r *Router) handlePushGroups(w http.ResponseWriter, req *http.Request) {
	repo, ok := r.registry.Get(scm.Handle(req.PathValue("handle")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown repository handle")
		return
	}
	provider, ok := repo.Provider.(*scm.SnapshotProvider)
	if !ok {
		writeError(w, http.StatusConflict, "repository does not accept state pushes")
		return
	}

	var body []groupDTO
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	groups, err := toResourceGroups(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	provider.SetGroups(groups)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleQueryDecoration(w http.ResponseWriter, req *http.Request) {
	uri := req.URL.Query().Get("uri")
	if uri == "" {
		writeError(w, http.StatusBadRequest, "uri query parameter is required")
		return
	}

	deco, found := r.service.Query(uri)
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "decoration": deco})
}

func (r *Router) handleCreateOpen(w http.ResponseWriter, req *http.Request) {
	var body OpenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "at least one target is required")
		return
	}

	stored := r.opens.add(body)
	log.Info().Str("id", stored.ID).Int("targets", len(stored.Targets)).Msg("Open request queued")
	writeJSON(w, http.StatusCreated, stored)
}

func (r *Router) handleGetOpen(w http.ResponseWriter, req *http.Request) {
	stored, ok := r.opens.get(req.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown open request")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (r *Router) handleOpenDone(w http.ResponseWriter, req *http.Request) {
	r.opens.markDone(req.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handlePendingOpens(w http.ResponseWriter, _ *http.Request) {
	pending := r.opens.pending()
	if pending == nil {
		pending = []OpenRequest{}
	}
	writeJSON(w, http.StatusOK, pending)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
