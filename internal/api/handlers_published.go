package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListBooks lists books published to pathstore.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	pub := s.orchestrator.Publisher()
	if pub == nil {
		jsonError(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	books, err := pub.List(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list books: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"books": books})
}

// handleDeleteBook removes a published book, its pages and its hash index
// entry.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	pub := s.orchestrator.Publisher()
	if pub == nil {
		jsonError(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}

	docID := chi.URLParam(r, "docID")
	existed, err := pub.Delete(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to delete book: "+err.Error(), http.StatusBadGateway)
		return
	}
	if !existed {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}

	s.log.Info("book deleted", "doc_id", docID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}
