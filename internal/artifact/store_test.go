package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"disk":   NewDiskStore(t.TempDir()),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "room.png", "image/png", []byte("pngdata")))

			data, contentType, err := s.Open(ctx, "room.png")
			require.NoError(t, err)
			require.Equal(t, []byte("pngdata"), data)
			require.Equal(t, "image/png", contentType)

			names, err := s.List(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"room.png"}, names)

			require.NoError(t, s.Delete(ctx, "room.png"))
			_, _, err = s.Open(ctx, "room.png")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreMissingArtifact(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, _, err := s.Open(ctx, "missing.png")
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, s.Delete(ctx, "missing.png"), ErrNotFound)
		})
	}
}

func TestStoreRejectsBadNames(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, bad := range []string{"", "  ", "../escape.png", "a/b.png", "."} {
				require.Error(t, s.Save(ctx, bad, "", []byte("x")), "name %q", bad)
				_, _, err := s.Open(ctx, bad)
				require.Error(t, err, "name %q", bad)
			}
		})
	}
}

func TestMemoryStoreCopiesContent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	content := []byte("abc")
	require.NoError(t, s.Save(ctx, "a.png", "", content))
	content[0] = 'z'

	data, _, err := s.Open(ctx, "a.png")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), data)
}

func TestTypeByName(t *testing.T) {
	require.Equal(t, "image/png", typeByName("x.png"))
	require.Equal(t, "application/octet-stream", typeByName("x.unknownext"))
}
