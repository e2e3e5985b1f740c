// Package gw2apitest provides an in-process fake of the v2 API for tests.
package gw2apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request received by the fake server.
type Request struct {
	Category string
	IDs      []uint64
	Lang     string
}

// Server serves catalog and batch endpoints from in-memory records.
// Records are keyed by category and must carry a numeric "id" field.
type Server struct {
	URL string

	srv     *httptest.Server
	records map[string][]map[string]any

	mu       sync.Mutex
	requests []Request
	reverse  bool
	fail     map[string]bool
	drop     map[uint64]bool
}

// NewServer starts a fake server and registers its shutdown with t.Cleanup.
func NewServer(t *testing.T, records map[string][]map[string]any) *Server {
	t.Helper()
	s := &Server{
		records: records,
		fail:    make(map[string]bool),
		drop:    make(map[uint64]bool),
	}

	r := chi.NewRouter()
	r.Get("/v2/{category}", s.handle)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL + "/v2"
	t.Cleanup(s.srv.Close)
	return s
}

// Requests returns a copy of the requests seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reverse makes batch responses list records in reverse request order.
func (s *Server) Reverse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reverse = true
}

// Fail makes every request to category answer 500.
func (s *Server) Fail(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[category] = true
}

// Drop makes batch responses silently omit the record with the given id.
func (s *Server) Drop(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop[id] = true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	req := Request{Category: category, Lang: r.URL.Query().Get("lang")}

	rawIDs := r.URL.Query().Get("ids")
	if rawIDs != "" {
		for _, part := range strings.Split(rawIDs, ",") {
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				http.Error(w, `{"text":"invalid id"}`, http.StatusBadRequest)
				return
			}
			req.IDs = append(req.IDs, id)
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	fail, reverse := s.fail[category], s.reverse
	drop := make(map[uint64]bool, len(s.drop))
	for id := range s.drop {
		drop[id] = true
	}
	s.mu.Unlock()

	if fail {
		http.Error(w, `{"text":"internal error"}`, http.StatusInternalServerError)
		return
	}

	recs, ok := s.records[category]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if rawIDs == "" {
		ids := make([]uint64, 0, len(recs))
		for _, rec := range recs {
			ids = append(ids, idOf(rec))
		}
		json.NewEncoder(w).Encode(ids)
		return
	}

	byID := make(map[uint64]map[string]any, len(recs))
	for _, rec := range recs {
		byID[idOf(rec)] = rec
	}
	out := make([]map[string]any, 0, len(req.IDs))
	for _, id := range req.IDs {
		if rec, ok := byID[id]; ok && !drop[id] {
			out = append(out, rec)
		}
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if len(out) < len(req.IDs) {
		w.WriteHeader(http.StatusPartialContent)
	}
	json.NewEncoder(w).Encode(out)
}

func idOf(rec map[string]any) uint64 {
	switch v := rec["id"].(type) {
	case int:
		return uint64(v)
	case uint64:
		return v
	case float64:
		return uint64(v)
	}
	return 0
}
