// Package model defines the retail portfolio records shared by the analysis
// packages and the stores.
package model

import (
	"strings"

	"github.com/twpayne/go-geom"
)

// Property types.
const (
	TypeShoppingCentre = "shopping_centre"
	TypeRetailPark     = "retail_park"
	TypeOutletCentre   = "outlet_centre"
	TypeHighStreet     = "high_street"
	TypeOther          = "other"
)

// Property is a retail location. Optional attributes are nil when unknown.
type Property struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PropertyType string `json:"property_type"`

	// Core identity.
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	County   *string `json:"county,omitempty"`
	Postcode *string `json:"postcode,omitempty"`

	// Geographic. 0,0 means the location was never geocoded.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Operational.
	NumberOfStores   *int     `json:"number_of_stores,omitempty"`
	TotalFloorArea   *float64 `json:"total_floor_area,omitempty"`
	CarParkingSpaces *int     `json:"car_parking_spaces,omitempty"`
	OpeningYear      *int     `json:"opening_year,omitempty"`
	AnnualFootfall   *float64 `json:"annual_footfall,omitempty"`
	Owner            *string  `json:"owner,omitempty"`
	AnchorTenants    *int     `json:"anchor_tenants,omitempty"`

	// Commercial.
	VacancyRate      *float64 `json:"vacancy_rate,omitempty"`
	HealthIndex      *float64 `json:"health_index,omitempty"`
	DominantCategory *string  `json:"dominant_category,omitempty"`

	// Digital.
	Website           *string  `json:"website,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	Instagram         *string  `json:"instagram,omitempty"`
	Facebook          *string  `json:"facebook,omitempty"`
	Twitter           *string  `json:"twitter,omitempty"`
	TikTok            *string  `json:"tiktok,omitempty"`
	GoogleRating      *float64 `json:"google_rating,omitempty"`
	GoogleReviewCount *int     `json:"google_review_count,omitempty"`

	// Demographic (catchment).
	Population   *int     `json:"population,omitempty"`
	MedianIncome *float64 `json:"median_income,omitempty"`
	MedianAge    *float64 `json:"median_age,omitempty"`
}

// HasWebsite reports whether the property has a non-blank website.
func (p *Property) HasWebsite() bool {
	return !BlankString(p.Website)
}

// HasCoordinates reports whether both coordinates are set and are not the
// 0,0 sentinel.
func (p *Property) HasCoordinates() bool {
	if p.Latitude == nil || p.Longitude == nil {
		return false
	}
	return *p.Latitude != 0 || *p.Longitude != 0
}

// IsDestination reports whether the property is a shopping centre or retail park.
func (p *Property) IsDestination() bool {
	return p.PropertyType == TypeShoppingCentre || p.PropertyType == TypeRetailPark
}

// Location returns the property as an XY point (lon, lat), or nil without coordinates.
func (p *Property) Location() *geom.Point {
	if !p.HasCoordinates() {
		return nil
	}
	return geom.NewPointFlat(geom.XY, []float64{*p.Longitude, *p.Latitude}).SetSRID(4326)
}

// CityName returns the city or "".
func (p *Property) CityName() string {
	if p.City == nil {
		return ""
	}
	return *p.City
}

// CountyName returns the county or "".
func (p *Property) CountyName() string {
	if p.County == nil {
		return ""
	}
	return *p.County
}

// BlankString reports whether s is nil or only whitespace.
func BlankString(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// PropertyRef is a lightweight reference to a property.
type PropertyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref returns the property's reference.
func (p *Property) Ref() PropertyRef {
	return PropertyRef{ID: p.ID, Name: p.Name}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
