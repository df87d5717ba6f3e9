package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"roomstyler/internal/artifact"
	"roomstyler/internal/design"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// loadSource reads a stored upload back into a Source for generation.
func (s *Service) loadSource(ctx context.Context, name string) (*design.Source, error) {
	data, contentType, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &design.Source{Name: name, MIME: contentType, Data: data}, nil
}

// sourceOr404 resolves the named upload or writes the 404 itself.
func (s *Service) sourceOr404(w http.ResponseWriter, r *http.Request, name string) *design.Source {
	src, err := s.loadSource(r.Context(), name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image file not found")
		} else {
			log.Printf("open upload %q failed: %v", name, err)
			writeError(w, http.StatusInternalServerError, "failed to read image")
		}
		return nil
	}
	return src
}

// styleOr400 resolves a style id or writes the 400 itself.
func (s *Service) styleOr400(w http.ResponseWriter, id string) (design.Style, bool) {
	style, ok := s.catalog.Find(id)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid style id")
	}
	return style, ok
}
