package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dgallion1/bookpager/internal/codec"
	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/dgallion1/bookpager/internal/pipeline"
	"github.com/dgallion1/bookpager/internal/segment"
)

// handleChapters splits a raw text body into sections.
func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, segment.Segment(text))
}

// handlePages paginates a JSON array of sections.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.pageConfig(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	sections, err := codec.DecodeSections(r.Body)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	result, err := pager.PaginateSections(sections, cfg)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBook segments and paginates a raw text body in one step.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.pageConfig(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	result, err := pipeline.Run(text, cfg)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return "", false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

// pageConfig returns the server default, overridden by ?words_per_page=N.
func (s *Server) pageConfig(r *http.Request) (pager.Config, error) {
	cfg := pager.Config{WordsPerPage: s.cfg.WordsPerPage}
	if v := r.URL.Query().Get("words_per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: words_per_page must be an integer, got %q", pager.ErrInvalidConfiguration, v)
		}
		cfg.WordsPerPage = n
	}
	return cfg, cfg.Validate()
}

func writeTransformError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, codec.ErrInvalidInputShape), errors.Is(err, pager.ErrInvalidConfiguration):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	codec.Encode(w, v)
}
