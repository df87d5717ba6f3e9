package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"roomstyler/internal/batch"
	"roomstyler/internal/design"
	"roomstyler/internal/record"
)

// storedGenerator adapts the gemini client to batch.Generator: it runs one
// generation call and persists the produced rendering, so the outcome ref
// is immediately servable via /api/images.
type storedGenerator struct {
	svc *Service
}

func (g *storedGenerator) Generate(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error) {
	res, err := g.svc.client.GenerateImage(ctx, style, src)
	if err != nil {
		return nil, err
	}
	name := "generated_" + uuid.NewString() + extForMIME(res.MIME)
	if err := g.svc.store.Save(ctx, name, res.MIME, res.Data); err != nil {
		return nil, err
	}
	return &design.Generation{Ref: name, Analysis: res.Analysis}, nil
}

func extForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

type generateImageRequest struct {
	ImageFilename string `json:"image_filename"`
	StyleID       string `json:"style_id"`
}

type generateImageResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	GeneratedImage string `json:"generated_image"`
	OriginalImage  string `json:"original_image"`
	Style          string `json:"style"`
	Analysis       string `json:"analysis,omitempty"`
}

func (s *Service) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
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

	gen := &storedGenerator{svc: s}
	out, err := gen.Generate(r.Context(), style, src)
	if err != nil {
		log.Printf("generate %s for %q failed: %v", style.ID, src.Name, err)
		writeError(w, http.StatusInternalServerError, "image generation failed")
		return
	}
	writeJSON(w, http.StatusOK, generateImageResponse{
		Success:        true,
		Message:        "interior image generated",
		GeneratedImage: out.Ref,
		OriginalImage:  src.Name,
		Style:          style.Name,
		Analysis:       out.Analysis,
	})
}

type outcomeDTO struct {
	StyleID        string  `json:"style_id"`
	StyleName      string  `json:"style_name"`
	Success        bool    `json:"success"`
	GeneratedImage string  `json:"generated_image,omitempty"`
	Analysis       string  `json:"analysis,omitempty"`
	Error          string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

type batchResponse struct {
	Success          bool         `json:"success"`
	OriginalImage    string       `json:"original_image"`
	Total            int          `json:"total"`
	Succeeded        int          `json:"succeeded"`
	Failed           int          `json:"failed"`
	ElapsedSeconds   float64      `json:"elapsed_seconds"`
	DeadlineExceeded bool         `json:"deadline_exceeded"`
	Outcomes         []outcomeDTO `json:"outcomes"`
}

func outcomeToDTO(out batch.Outcome) outcomeDTO {
	return outcomeDTO{
		StyleID:        out.StyleID,
		StyleName:      out.StyleName,
		Success:        out.Success,
		GeneratedImage: out.GeneratedRef,
		Analysis:       out.Analysis,
		Error:          out.Error,
		ElapsedSeconds: out.Elapsed.Seconds(),
	}
}

func resultToResponse(res *batch.Result) batchResponse {
	resp := batchResponse{
		Success:        res.Succeeded > 0,
		OriginalImage:  res.OriginalRef,
		Total:          res.Total,
		Succeeded:      res.Succeeded,
		Failed:         res.Failed,
		ElapsedSeconds: res.Elapsed.Seconds(),
	}
	resp.Outcomes = make([]outcomeDTO, 0, len(res.Outcomes))
	for _, out := range res.Outcomes {
		if out.Error == batch.DeadlineExceededMessage {
			resp.DeadlineExceeded = true
		}
		resp.Outcomes = append(resp.Outcomes, outcomeToDTO(out))
	}
	return resp
}

// runBatch runs the orchestrator over the full catalog and applies the
// post-batch policy: total failure deletes the upload, anything else is
// recorded in history.
func (s *Service) runBatch(ctx context.Context, src *design.Source, onOutcome func(batch.Outcome)) (*batch.Result, error) {
	var opts []batch.Option
	if onOutcome != nil {
		opts = append(opts, batch.WithObserver(onOutcome))
	}
	orch, err := batch.New(&storedGenerator{svc: s}, batch.Config{
		MaxConcurrent: s.gen.MaxConcurrent,
		MaxAttempts:   s.gen.MaxAttempts,
		Deadline:      s.gen.Deadline,
		BackoffBase:   s.gen.BackoffBase,
	}, opts...)
	if err != nil {
		return nil, err
	}
	res, err := orch.Run(ctx, src, s.catalog.Styles())
	if err != nil {
		return nil, err
	}

	if res.Succeeded == 0 {
		// Nothing usable came out of this upload; drop it so the uploads
		// dir does not accumulate dead files.
		if err := s.store.Delete(context.WithoutCancel(ctx), src.Name); err != nil {
			log.Printf("cleanup upload %q failed: %v", src.Name, err)
		}
		return res, nil
	}

	outcomes, err := json.Marshal(resultToResponse(res).Outcomes)
	if err != nil {
		outcomes = []byte("[]")
	}
	rec := record.BatchRecord{
		ID:          uuid.NewString(),
		OriginalRef: res.OriginalRef,
		Total:       res.Total,
		Succeeded:   res.Succeeded,
		Failed:      res.Failed,
		Elapsed:     res.Elapsed,
		Outcomes:    outcomes,
		CreatedAt:   time.Now(),
	}
	if err := s.records.Save(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("save batch record failed: %v", err)
	}
	return res, nil
}

func (s *Service) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src := s.sourceOr404(w, r, req.ImageFilename)
	if src == nil {
		return
	}
	res, err := s.runBatch(r.Context(), src, nil)
	if err != nil {
		if errors.Is(err, batch.ErrEmptyCatalog) {
			writeError(w, http.StatusBadRequest, "no styles configured")
			return
		}
		log.Printf("batch for %q failed to start: %v", src.Name, err)
		writeError(w, http.StatusInternalServerError, "batch generation failed to start")
		return
	}
	writeJSON(w, http.StatusOK, resultToResponse(res))
}

func (s *Service) handleBatches(w http.ResponseWriter, r *http.Request) {
	recs, err := s.records.Recent(r.Context(), 20)
	if err != nil {
		log.Printf("list batch records failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load batch history")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
