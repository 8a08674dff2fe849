package api

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OpenTarget is one file the CLI asked the editor to open.
type OpenTarget struct {
	Path   string `json:"path"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// OpenRequest is a CLI open request awaiting pickup by a frontend.
type OpenRequest struct {
	ID          string       `json:"id"`
	Targets     []OpenTarget `json:"targets"`
	Diff        bool         `json:"diff,omitempty"`
	Wait        bool         `json:"wait,omitempty"`
	NewWindow   bool         `json:"newWindow,omitempty"`
	ReuseWindow bool         `json:"reuseWindow,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Done        bool         `json:"done"`
}

// openStore holds open requests in memory. Requests never survive a restart.
type openStore struct {
	mu       sync.Mutex
	requests map[string]*OpenRequest
}

func newOpenStore() *openStore {
	return &openStore{requests: make(map[string]*OpenRequest)}
}

func (s *openStore) add(req OpenRequest) *OpenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	stored := req
	s.requests[stored.ID] = &stored
	return &stored
}

func (s *openStore) get(id string) (OpenRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return OpenRequest{}, false
	}
	return *req, true
}

// markDone flags the request closed. Unknown ids and repeated calls are no-ops.
func (s *openStore) markDone(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req, ok := s.requests[id]; ok {
		req.Done = true
	}
}

// pending returns requests not yet marked done, oldest first.
func (s *openStore) pending() []OpenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []OpenRequest
	for _, req := range s.requests {
		if !req.Done {
			out = append(out, *req)
		}
	}
	slices.SortFunc(out, func(a, b OpenRequest) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}
