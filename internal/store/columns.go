package store

import (
	"strings"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// propertyColumns is the column order shared by both backends.
var propertyColumns = []string{
	"id", "name", "property_type",
	"address", "city", "county", "postcode",
	"latitude", "longitude",
	"number_of_stores", "total_floor_area", "car_parking_spaces", "opening_year",
	"annual_footfall", "owner", "anchor_tenants",
	"vacancy_rate", "health_index", "dominant_category",
	"website", "phone", "instagram", "facebook", "twitter", "tiktok",
	"google_rating", "google_review_count",
	"population", "median_income", "median_age",
}

var occupantColumns = []string{"id", "property_id", "name", "category", "category_id", "is_anchor"}

var categoryColumns = []string{"id", "name", "tier", "parent_id"}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}

type scannable interface {
	Scan(dest ...any) error
}

// propertyFields returns pointers to p's fields in propertyColumns order.
func propertyFields(p *model.Property) []any {
	return []any{
		&p.ID, &p.Name, &p.PropertyType,
		&p.Address, &p.City, &p.County, &p.Postcode,
		&p.Latitude, &p.Longitude,
		&p.NumberOfStores, &p.TotalFloorArea, &p.CarParkingSpaces, &p.OpeningYear,
		&p.AnnualFootfall, &p.Owner, &p.AnchorTenants,
		&p.VacancyRate, &p.HealthIndex, &p.DominantCategory,
		&p.Website, &p.Phone, &p.Instagram, &p.Facebook, &p.Twitter, &p.TikTok,
		&p.GoogleRating, &p.GoogleReviewCount,
		&p.Population, &p.MedianIncome, &p.MedianAge,
	}
}

// propertyValues returns p's values in propertyColumns order.
func propertyValues(p model.Property) []any {
	return []any{
		p.ID, p.Name, p.PropertyType,
		p.Address, p.City, p.County, p.Postcode,
		p.Latitude, p.Longitude,
		p.NumberOfStores, p.TotalFloorArea, p.CarParkingSpaces, p.OpeningYear,
		p.AnnualFootfall, p.Owner, p.AnchorTenants,
		p.VacancyRate, p.HealthIndex, p.DominantCategory,
		p.Website, p.Phone, p.Instagram, p.Facebook, p.Twitter, p.TikTok,
		p.GoogleRating, p.GoogleReviewCount,
		p.Population, p.MedianIncome, p.MedianAge,
	}
}

func scanProperty(row scannable) (model.Property, error) {
	var p model.Property
	err := row.Scan(propertyFields(&p)...)
	return p, err
}

func scanOccupant(row scannable) (model.Occupant, error) {
	var o model.Occupant
	err := row.Scan(&o.ID, &o.PropertyID, &o.Name, &o.Category, &o.CategoryID, &o.IsAnchor)
	return o, err
}

func occupantValues(o model.Occupant) []any {
	return []any{o.ID, o.PropertyID, o.Name, o.Category, o.CategoryID, o.IsAnchor}
}

func scanCategory(row scannable) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Tier, &c.ParentID)
	return c, err
}

func categoryValues(c model.Category) []any {
	return []any{c.ID, c.Name, c.Tier, c.ParentID}
}
