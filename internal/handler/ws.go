package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"roomstyler/internal/batch"
)

const batchWSWriteWait = 10 * time.Second

var batchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type batchWSEvent struct {
	Type    string         `json:"type"`
	Outcome *outcomeDTO    `json:"outcome,omitempty"`
	Result  *batchResponse `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
}

// handleGenerateAllWS runs the batch and streams outcomes to the client in
// completion order, then a final summary frame. The orchestrator invokes
// the observer from a single goroutine, so writes need no extra locking.
func (s *Service) handleGenerateAllWS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("image"))
	if name == "" {
		http.Error(w, "image is required", http.StatusBadRequest)
		return
	}
	src, err := s.loadSource(r.Context(), name)
	if err != nil {
		http.Error(w, "image file not found", http.StatusNotFound)
		return
	}

	conn, err := batchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	push := func(ev batchWSEvent) {
		if err := conn.SetWriteDeadline(time.Now().Add(batchWSWriteWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("batch ws write failed: %v", err)
		}
	}

	res, err := s.runBatch(r.Context(), src, func(out batch.Outcome) {
		dto := outcomeToDTO(out)
		push(batchWSEvent{Type: "outcome", Outcome: &dto})
	})
	if err != nil {
		push(batchWSEvent{Type: "error", Message: "batch generation failed to start"})
		return
	}
	resp := resultToResponse(res)
	push(batchWSEvent{Type: "done", Result: &resp})
}
