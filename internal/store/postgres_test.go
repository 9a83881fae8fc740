package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func sampleProperty() model.Property {
	return model.Property{
		ID:            7,
		Name:          "The Trafford Centre",
		PropertyType:  model.TypeShoppingCentre,
		City:          model.Ptr("Manchester"),
		Latitude:      model.Ptr(53.4668),
		Longitude:     model.Ptr(-2.3476),
		Website:       model.Ptr("https://traffordcentre.co.uk"),
		AnchorTenants: model.Ptr(4),
	}
}

func TestPostgresStore_ListProperties_AllRows(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	p := sampleProperty()

	mock.ExpectQuery(`SELECT id, name, property_type, .* FROM properties ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(propertyColumns).AddRow(propertyValues(p)...))

	got, err := s.ListProperties(context.Background(), PropertyFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0])
	assert.Nil(t, got[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProperties_Filtered(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM properties WHERE id = ANY\(\$1\) AND property_type = ANY\(\$2\) ORDER BY id`).
		WithArgs([]int64{1, 2}, []string{model.TypeRetailPark}).
		WillReturnRows(pgxmock.NewRows(propertyColumns))

	got, err := s.ListProperties(context.Background(), PropertyFilter{
		IDs:   []int64{1, 2},
		Types: []string{model.TypeRetailPark},
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProperties_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM properties`).WillReturnError(errors.New("connection refused"))

	_, err := s.ListProperties(context.Background(), PropertyFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: list properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListOccupants(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM occupants WHERE property_id = ANY\(\$1\) ORDER BY property_id, id`).
		WithArgs([]int64{7}).
		WillReturnRows(pgxmock.NewRows(occupantColumns).
			AddRow(int64(1), int64(7), "Zara", "Clothing", model.Ptr(int64(10)), false).
			AddRow(int64(2), int64(7), "Selfridges", "Department Store", (*int64)(nil), true))

	got, err := s.ListOccupants(context.Background(), []int64{7})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Zara", got[0].Name)
	require.NotNil(t, got[0].CategoryID)
	assert.Equal(t, int64(10), *got[0].CategoryID)
	assert.True(t, got[1].IsAnchor)
	assert.Nil(t, got[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListOccupants_AllProperties(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM occupants ORDER BY property_id, id`).
		WillReturnRows(pgxmock.NewRows(occupantColumns))

	got, err := s.ListOccupants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCategories(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, tier, parent_id FROM categories ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(int64(1), "Retail", model.TierBroad, (*int64)(nil)).
			AddRow(int64(10), "Clothing", model.TierMid, model.Ptr(int64(1))))

	got, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ParentID)
	assert.Equal(t, int64(1), *got[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertProperties_UsesCopy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, propertyColumns).
		WillReturnResult(1)

	n, err := s.InsertProperties(context.Background(), []model.Property{sampleProperty()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertOccupants_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.InsertOccupants(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertCategories_DefersConstraints(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SET CONSTRAINTS ALL DEFERRED`).WillReturnResult(pgxmock.NewResult("SET", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"categories"}, categoryColumns).WillReturnResult(2)
	mock.ExpectCommit()

	n, err := s.InsertCategories(context.Background(), []model.Category{
		{ID: 10, Name: "Clothing", Tier: model.TierMid, ParentID: model.Ptr(int64(1))},
		{ID: 1, Name: "Retail", Tier: model.TierBroad},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertCategories_CopyError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SET CONSTRAINTS ALL DEFERRED`).WillReturnResult(pgxmock.NewResult("SET", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"categories"}, categoryColumns).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, err := s.InsertCategories(context.Background(), []model.Category{{ID: 1, Name: "Retail", Tier: model.TierBroad}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO categories")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS categories`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CloseWithoutOwnedPool(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	assert.NoError(t, s.Close())
}
