package handler

import (
	"log"
	"net/http"

	"roomstyler/internal/design"
)

type analyzeRequest struct {
	ImageFilename string `json:"image_filename"`
}

type analyzeResponse struct {
	Success  bool                 `json:"success"`
	Analysis *design.RoomAnalysis `json:"analysis"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src := s.sourceOr404(w, r, req.ImageFilename)
	if src == nil {
		return
	}
	analysis, err := s.analyzer.AnalyzeRoom(r.Context(), src)
	if err != nil {
		log.Printf("analyze %q failed: %v", src.Name, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: analysis})
}

type designRequest struct {
	ImageFilename string `json:"image_filename"`
	StyleID       string `json:"style_id"`
}

type designResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Guide   *design.DesignGuide `json:"guide"`
}

func (s *Service) handleDesign(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src := s.sourceOr404(w, r, req.ImageFilename)
	if src == nil {
		return
	}
	style, ok := s.styleOr400(w, req.StyleID)
	if !ok {
		return
	}

	analysis, err := s.analyzer.AnalyzeRoom(r.Context(), src)
	if err != nil {
		log.Printf("analyze %q failed: %v", src.Name, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	guide, err := s.client.GenerateGuide(r.Context(), src, analysis, style)
	if err != nil {
		log.Printf("design guide for %q failed: %v", src.Name, err)
		writeError(w, http.StatusInternalServerError, "design guide generation failed")
		return
	}
	writeJSON(w, http.StatusOK, designResponse{
		Success: true,
		Message: "design guide generated",
		Guide:   guide,
	})
}
