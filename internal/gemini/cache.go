package gemini

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"roomstyler/internal/design"
)

// Analyzer is the room-analysis capability consumed by the HTTP layer.
type Analyzer interface {
	AnalyzeRoom(ctx context.Context, src *design.Source) (*design.RoomAnalysis, error)
}

// CachedAnalyzer memoizes analyses per stored artifact name. Uploads are
// immutable once stored, so a name fully identifies the content.
type CachedAnalyzer struct {
	next  Analyzer
	cache *lru.Cache[string, *design.RoomAnalysis]
}

func NewCachedAnalyzer(next Analyzer, size int) (*CachedAnalyzer, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, *design.RoomAnalysis](size)
	if err != nil {
		return nil, err
	}
	return &CachedAnalyzer{next: next, cache: cache}, nil
}

func (a *CachedAnalyzer) AnalyzeRoom(ctx context.Context, src *design.Source) (*design.RoomAnalysis, error) {
	if hit, ok := a.cache.Get(src.Name); ok {
		return hit, nil
	}
	out, err := a.next.AnalyzeRoom(ctx, src)
	if err != nil {
		return nil, err
	}
	a.cache.Add(src.Name, out)
	return out, nil
}
