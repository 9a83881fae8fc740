package model

import "strings"

// Category tiers, broadest first.
const (
	TierBroad  = "broad"
	TierMid    = "mid"
	TierNarrow = "narrow"
)

// Uncategorized labels occupants with no usable category.
const Uncategorized = "Uncategorized"

// Occupant is a tenant trading within a property.
type Occupant struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	CategoryID *int64 `json:"category_id,omitempty"`
	IsAnchor   bool   `json:"is_anchor"`
}

// Category is one node of the three-tier category hierarchy. ParentID is a
// lookup key into the same table, not an owned reference.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Tier     string `json:"tier"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// Taxonomy indexes categories by ID for roll-up lookups.
type Taxonomy struct {
	byID map[int64]Category
}

// NewTaxonomy creates a Taxonomy from a flat category list.
func NewTaxonomy(categories []Category) *Taxonomy {
	t := &Taxonomy{byID: make(map[int64]Category, len(categories))}
	for _, c := range categories {
		t.byID[c.ID] = c
	}
	return t
}

// Get returns the category with the given ID.
func (t *Taxonomy) Get(id int64) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	c, ok := t.byID[id]
	return c, ok
}

// Canonical returns the mid-tier label an occupant aggregates under.
//   - narrow tier: the parent's name (own name if the parent is unknown)
//   - mid or broad tier: own name
//   - no reference, or an unknown ID: the raw category string, or Uncategorized
func (t *Taxonomy) Canonical(o Occupant) string {
	if o.CategoryID != nil {
		if c, ok := t.Get(*o.CategoryID); ok {
			if c.Tier == TierNarrow && c.ParentID != nil {
				if parent, ok := t.Get(*c.ParentID); ok {
					return parent.Name
				}
			}
			return c.Name
		}
	}
	if raw := strings.TrimSpace(o.Category); raw != "" {
		return raw
	}
	return Uncategorized
}
