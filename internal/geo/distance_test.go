package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/portfolio-cli/internal/model"
)

func prop(id int64, lat, lon float64) model.Property {
	return model.Property{ID: id, Name: "P", Latitude: model.Ptr(lat), Longitude: model.Ptr(lon)}
}

func TestDistanceKM(t *testing.T) {
	manchester := PointOf(prop(1, 53.4808, -2.2426))
	leeds := PointOf(prop(2, 53.8008, -1.5491))
	require.NotNil(t, manchester)

	// Roughly 58km as the crow flies.
	assert.InDelta(t, 58, DistanceKM(manchester, leeds), 2)
	assert.InDelta(t, 0, DistanceKM(manchester, manchester), 0.001)
	assert.InDelta(t, DistanceKM(manchester, leeds), DistanceKM(leeds, manchester), 1e-9)
}

func TestDistanceKM_NilPoint(t *testing.T) {
	a := PointOf(prop(1, 51.5, -0.1))
	assert.True(t, math.IsInf(DistanceKM(a, nil), 1))
	assert.True(t, math.IsInf(DistanceKM(nil, a), 1))
}

func TestPointOf_Sentinel(t *testing.T) {
	assert.Nil(t, PointOf(prop(1, 0, 0)))
	assert.Nil(t, PointOf(model.Property{ID: 1}))

	pt := PointOf(prop(1, 51.5, -0.1))
	require.NotNil(t, pt)
	assert.Equal(t, -0.1, pt.X())
	assert.Equal(t, 51.5, pt.Y())
	assert.Equal(t, 4326, pt.SRID())
}
