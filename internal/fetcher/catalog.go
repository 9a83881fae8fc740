package fetcher

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// rowParser converts one table row, keeping the first conversion error.
type rowParser struct {
	t    *Table
	row  []string
	line int
	err  error
}

func (p *rowParser) fail(col, v, want string) {
	if p.err == nil {
		p.err = eris.Errorf("fetcher: line %d: %s %q is not %s", p.line, col, v, want)
	}
}

func (p *rowParser) required(col string) string {
	v := p.t.Value(p.row, col)
	if v == "" && p.err == nil {
		p.err = eris.Errorf("fetcher: line %d: %s is required", p.line, col)
	}
	return v
}

func (p *rowParser) id(col string) int64 {
	v := p.required(col)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(col, v, "an integer")
	}
	return n
}

func (p *rowParser) str(col string) *string {
	if v := p.t.Value(p.row, col); v != "" {
		return &v
	}
	return nil
}

func (p *rowParser) int64Ptr(col string) *int64 {
	v := p.t.Value(p.row, col)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(col, v, "an integer")
		return nil
	}
	return &n
}

func (p *rowParser) intPtr(col string) *int {
	// Spreadsheets often store counts as 120.0.
	f := p.floatPtr(col)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func (p *rowParser) floatPtr(col string) *float64 {
	v := strings.ReplaceAll(p.t.Value(p.row, col), ",", "")
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, v, "a number")
		return nil
	}
	return &f
}

func (p *rowParser) boolean(col string) bool {
	switch strings.ToLower(p.t.Value(p.row, col)) {
	case "", "0", "false", "no", "n":
		return false
	case "1", "true", "yes", "y":
		return true
	default:
		p.fail(col, p.t.Value(p.row, col), "a boolean")
		return false
	}
}

func (t *Table) parse(fn func(p *rowParser)) error {
	for i, r := range t.Rows {
		p := &rowParser{t: t, row: r, line: t.Line(i)}
		fn(p)
		if p.err != nil {
			return p.err
		}
	}
	return nil
}

// ParseProperties converts a property table. Columns are named as in the
// store schema; id and name are required.
func ParseProperties(t *Table) ([]model.Property, error) {
	out := make([]model.Property, 0, len(t.Rows))
	err := t.parse(func(p *rowParser) {
		prop := model.Property{
			ID:           p.id("id"),
			Name:         p.required("name"),
			PropertyType: p.t.Value(p.row, "property_type"),

			Address:  p.str("address"),
			City:     p.str("city"),
			County:   p.str("county"),
			Postcode: p.str("postcode"),

			Latitude:  p.floatPtr("latitude"),
			Longitude: p.floatPtr("longitude"),

			NumberOfStores:   p.intPtr("number_of_stores"),
			TotalFloorArea:   p.floatPtr("total_floor_area"),
			CarParkingSpaces: p.intPtr("car_parking_spaces"),
			OpeningYear:      p.intPtr("opening_year"),
			AnnualFootfall:   p.floatPtr("annual_footfall"),
			Owner:            p.str("owner"),
			AnchorTenants:    p.intPtr("anchor_tenants"),

			VacancyRate:      p.floatPtr("vacancy_rate"),
			HealthIndex:      p.floatPtr("health_index"),
			DominantCategory: p.str("dominant_category"),

			Website:           p.str("website"),
			Phone:             p.str("phone"),
			Instagram:         p.str("instagram"),
			Facebook:          p.str("facebook"),
			Twitter:           p.str("twitter"),
			TikTok:            p.str("tiktok"),
			GoogleRating:      p.floatPtr("google_rating"),
			GoogleReviewCount: p.intPtr("google_review_count"),

			Population:   p.intPtr("population"),
			MedianIncome: p.floatPtr("median_income"),
			MedianAge:    p.floatPtr("median_age"),
		}
		if prop.PropertyType == "" {
			prop.PropertyType = model.TypeOther
		}
		out = append(out, prop)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseOccupants converts an occupant table. id, property_id and name are
// required.
func ParseOccupants(t *Table) ([]model.Occupant, error) {
	out := make([]model.Occupant, 0, len(t.Rows))
	err := t.parse(func(p *rowParser) {
		out = append(out, model.Occupant{
			ID:         p.id("id"),
			PropertyID: p.id("property_id"),
			Name:       p.required("name"),
			Category:   p.t.Value(p.row, "category"),
			CategoryID: p.int64Ptr("category_id"),
			IsAnchor:   p.boolean("is_anchor"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseCategories converts a category table. id, name and tier are required.
func ParseCategories(t *Table) ([]model.Category, error) {
	out := make([]model.Category, 0, len(t.Rows))
	err := t.parse(func(p *rowParser) {
		c := model.Category{
			ID:       p.id("id"),
			Name:     p.required("name"),
			Tier:     strings.ToLower(p.required("tier")),
			ParentID: p.int64Ptr("parent_id"),
		}
		switch c.Tier {
		case model.TierBroad, model.TierMid, model.TierNarrow, "":
		default:
			p.fail("tier", c.Tier, "broad, mid or narrow")
		}
		out = append(out, c)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
