package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"latency":        s.orchestrator.Stats().Snapshot(),
		"queue_depth":    s.orchestrator.QueueDepth(),
		"publishing":     s.orchestrator.Publisher() != nil,
		"words_per_page": s.cfg.WordsPerPage,
	})
}
