package record

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, BatchRecord{ID: fmt.Sprintf("rec-%d", i)}))
	}

	recs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "rec-4", recs[0].ID)
	require.Equal(t, "rec-2", recs[2].ID)
}

func TestMemoryStoreIgnoresDuplicateIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, BatchRecord{ID: "rec", Total: 1}))
	require.NoError(t, s.Save(ctx, BatchRecord{ID: "rec", Total: 99}))

	recs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, 1, recs[0].Total)
}

func TestMemoryStoreRequiresID(t *testing.T) {
	s := NewMemoryStore()
	require.Error(t, s.Save(context.Background(), BatchRecord{}))
}
