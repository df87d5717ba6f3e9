package design

import "fmt"

// Catalog is a fixed, ordered set of styles. Order is meaningful: batch
// results are reported in catalog order.
type Catalog struct {
	styles []Style
	byID   map[string]int
}

// NewCatalog builds a catalog from the given styles. Style ids must be
// non-empty and unique.
func NewCatalog(styles []Style) (*Catalog, error) {
	byID := make(map[string]int, len(styles))
	for i, s := range styles {
		if s.ID == "" {
			return nil, fmt.Errorf("style at index %d has empty id", i)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate style id %q", s.ID)
		}
		byID[s.ID] = i
	}
	return &Catalog{styles: append([]Style(nil), styles...), byID: byID}, nil
}

// Styles returns the catalog entries in order. The returned slice is a copy.
func (c *Catalog) Styles() []Style {
	return append([]Style(nil), c.styles...)
}

// Len returns the number of styles in the catalog.
func (c *Catalog) Len() int { return len(c.styles) }

// Find returns the style with the given id.
func (c *Catalog) Find(id string) (Style, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Style{}, false
	}
	return c.styles[i], true
}

// DefaultCatalog returns the built-in interior style set.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Style{
		{
			ID:          "minimalist",
			Name:        "Minimalist",
			Description: "Clean and simple design. Only essential furniture, with an emphasis on open space.",
		},
		{
			ID:          "scandinavian",
			Name:        "Scandinavian",
			Description: "Bright, natural Nordic style. Warm spaces built around white and wood tones.",
		},
		{
			ID:          "modern",
			Name:        "Modern",
			Description: "Contemporary and refined. Simple, functional furniture in neutral colors.",
		},
		{
			ID:          "vintage",
			Name:        "Vintage",
			Description: "Warm retro atmosphere. Antique furniture and soft, muted colors.",
		},
		{
			ID:          "industrial",
			Name:        "Industrial",
			Description: "Urban and raw. Exposed ceilings, brick, and metal materials.",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
