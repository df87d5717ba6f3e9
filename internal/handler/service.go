// Package handler exposes the HTTP surface: upload, analysis, design
// guides, single-style generation and the all-styles batch.
package handler

import (
	"context"
	"net/http"

	"roomstyler/internal/artifact"
	"roomstyler/internal/config"
	"roomstyler/internal/design"
	"roomstyler/internal/gemini"
	"roomstyler/internal/record"
)

// DesignClient is the generation capability consumed by the handlers.
// *gemini.Client satisfies it; tests substitute fakes.
type DesignClient interface {
	GenerateGuide(ctx context.Context, src *design.Source, analysis *design.RoomAnalysis, style design.Style) (*design.DesignGuide, error)
	GenerateImage(ctx context.Context, style design.Style, src *design.Source) (*gemini.ImageResult, error)
}

// Service holds the collaborators every route needs.
type Service struct {
	catalog  *design.Catalog
	analyzer gemini.Analyzer
	client   DesignClient
	store    artifact.Store
	records  record.Store
	gen      config.GenerationConfig
	uploads  config.UploadConfig
}

func NewService(
	catalog *design.Catalog,
	analyzer gemini.Analyzer,
	client DesignClient,
	store artifact.Store,
	records record.Store,
	gen config.GenerationConfig,
	uploads config.UploadConfig,
) *Service {
	return &Service{
		catalog:  catalog,
		analyzer: analyzer,
		client:   client,
		store:    store,
		records:  records,
		gen:      gen,
		uploads:  uploads,
	}
}

// Register wires all routes onto the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/styles", s.handleStyles)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/design", s.handleDesign)
	mux.HandleFunc("POST /api/generate-image", s.handleGenerateImage)
	mux.HandleFunc("POST /api/generate-all", s.handleGenerateAll)
	mux.HandleFunc("GET /api/generate-all/ws", s.handleGenerateAllWS)
	mux.HandleFunc("GET /api/batches", s.handleBatches)
	mux.HandleFunc("GET /api/images/{filename}", s.handleImage)
}

func (s *Service) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Styles())
}
