package portfolio

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/store"
)

// --- Reader Mock ---

type mockReader struct {
	mock.Mock
}

func (m *mockReader) ListProperties(ctx context.Context, f store.PropertyFilter) ([]model.Property, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *mockReader) ListOccupants(ctx context.Context, propertyIDs []int64) ([]model.Occupant, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Occupant), args.Error(1)
}

func (m *mockReader) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func property(id int64, name, city string, lat, lon float64) model.Property {
	p := model.Property{ID: id, Name: name, PropertyType: model.TypeShoppingCentre}
	if city != "" {
		p.City = model.Ptr(city)
	}
	if lat != 0 || lon != 0 {
		p.Latitude = model.Ptr(lat)
		p.Longitude = model.Ptr(lon)
	}
	return p
}

func catalog() []model.Property {
	return []model.Property{
		property(1, "Target Centre", "Manchester", 53.4668, -2.3476),
		property(2, "North Mall", "Manchester", 53.4831, -2.2411),
		property(3, "East Park", "Stockport", 53.4140, -2.1560),
		property(4, "West Plaza", "Leeds", 53.8008, -1.5491),
		property(5, "Central Mall", "Leeds", 0, 0),
		property(6, "Central Mall", "York", 0, 0),
	}
}

func occupants() []model.Occupant {
	return []model.Occupant{
		{ID: 1, PropertyID: 1, Name: "Zara", Category: "Clothing"},
		{ID: 2, PropertyID: 1, Name: "Greggs", Category: "Food"},
		{ID: 3, PropertyID: 2, Name: "Zara", Category: "Clothing"},
		{ID: 4, PropertyID: 2, Name: "Greggs", Category: "Food"},
		{ID: 5, PropertyID: 2, Name: "Boots", Category: "Health"},
		{ID: 6, PropertyID: 3, Name: "Zara", Category: "Clothing"},
		{ID: 7, PropertyID: 3, Name: "Boots", Category: "Health"},
		{ID: 8, PropertyID: 4, Name: "Zara", Category: "Clothing"},
		{ID: 9, PropertyID: 4, Name: "Primark", Category: "Clothing", IsAnchor: true},
	}
}

func subset(props []model.Property, ids ...int64) []model.Property {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Property
	for _, p := range props {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
