package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTaxonomy() *Taxonomy {
	return NewTaxonomy([]Category{
		{ID: 1, Name: "Retail", Tier: TierBroad},
		{ID: 10, Name: "Clothing", Tier: TierMid, ParentID: Ptr(int64(1))},
		{ID: 100, Name: "Womenswear", Tier: TierNarrow, ParentID: Ptr(int64(10))},
		{ID: 101, Name: "Orphaned", Tier: TierNarrow, ParentID: Ptr(int64(999))},
	})
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tax := testTaxonomy()
	tests := []struct {
		name string
		occ  Occupant
		want string
	}{
		{"narrow rolls up to mid", Occupant{CategoryID: Ptr(int64(100)), Category: "Ladies fashion"}, "Clothing"},
		{"mid keeps own name", Occupant{CategoryID: Ptr(int64(10))}, "Clothing"},
		{"broad keeps own name", Occupant{CategoryID: Ptr(int64(1))}, "Retail"},
		{"narrow with unknown parent", Occupant{CategoryID: Ptr(int64(101))}, "Orphaned"},
		{"unknown id falls back to raw", Occupant{CategoryID: Ptr(int64(5)), Category: "Coffee"}, "Coffee"},
		{"raw string is trimmed", Occupant{Category: "  Food  "}, "Food"},
		{"blank defaults", Occupant{Category: "   "}, Uncategorized},
		{"nothing defaults", Occupant{}, Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tax.Canonical(tt.occ))
		})
	}
}

func TestCanonical_NilTaxonomy(t *testing.T) {
	t.Parallel()

	var tax *Taxonomy
	assert.Equal(t, "Food", tax.Canonical(Occupant{CategoryID: Ptr(int64(1)), Category: "Food"}))
}
