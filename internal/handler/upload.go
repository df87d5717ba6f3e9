package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"roomstyler/internal/artifact"
)

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.uploads.MaxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.extAllowed(ext) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type; allowed: %s", strings.Join(s.uploads.AllowedExts, ", ")))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	name := uuid.NewString() + ext
	if err := s.store.Save(r.Context(), name, header.Header.Get("Content-Type"), content); err != nil {
		log.Printf("save upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Filename: name,
		Message:  "image uploaded",
	})
}

func (s *Service) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	data, contentType, err := s.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		log.Printf("open image %q failed: %v", name, err)
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		log.Printf("serve image %q failed: %v", name, err)
	}
}

func (s *Service) extAllowed(ext string) bool {
	for _, allowed := range s.uploads.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
