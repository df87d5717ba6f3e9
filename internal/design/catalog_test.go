package design

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCatalogValidation(t *testing.T) {
	_, err := NewCatalog([]Style{{ID: "a"}, {ID: "a"}})
	require.Error(t, err, "duplicate ids must be rejected")

	_, err = NewCatalog([]Style{{Name: "no id"}})
	require.Error(t, err, "empty ids must be rejected")
}

func TestCatalogOrderAndLookup(t *testing.T) {
	c, err := NewCatalog([]Style{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}})
	require.NoError(t, err)

	styles := c.Styles()
	require.Equal(t, []string{"b", "a"}, []string{styles[0].ID, styles[1].ID},
		"catalog order must match input order")

	got, ok := c.Find("a")
	require.True(t, ok)
	require.Equal(t, "A", got.Name)

	_, ok = c.Find("missing")
	require.False(t, ok)
}

func TestCatalogStylesReturnsCopy(t *testing.T) {
	c, err := NewCatalog([]Style{{ID: "a", Name: "A"}})
	require.NoError(t, err)

	c.Styles()[0].Name = "mutated"
	got, _ := c.Find("a")
	require.Equal(t, "A", got.Name)
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 5, c.Len())
	for _, id := range []string{"minimalist", "scandinavian", "modern", "vintage", "industrial"} {
		_, ok := c.Find(id)
		require.True(t, ok, id)
	}
}
