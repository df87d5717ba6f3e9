// Package record persists per-batch generation history.
package record

import (
	"context"
	"encoding/json"
	"time"
)

// BatchRecord is one row of batch history: what was generated from which
// upload, and how it went. Outcomes are stored as opaque JSON.
type BatchRecord struct {
	ID          string          `json:"id"`
	OriginalRef string          `json:"original_image"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Elapsed     time.Duration   `json:"elapsed"`
	Outcomes    json.RawMessage `json:"outcomes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store persists batch records.
type Store interface {
	Save(ctx context.Context, rec BatchRecord) error
	Recent(ctx context.Context, limit int) ([]BatchRecord, error)
}
