package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "occupants", []string{"id", "name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"occupants"}, []string{"id", "name"}).WillReturnResult(2)

	rows := [][]any{{int64(1), "Zara"}, {int64(2), "Greggs"}}
	n, err := CopyFrom(context.Background(), mock, "occupants", []string{"id", "name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_SchemaQualified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"portfolio", "properties"}, []string{"id"}).WillReturnResult(1)

	n, err := CopyFrom(context.Background(), mock, "portfolio.properties", []string{"id"}, [][]any{{int64(7)}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"occupants"}, []string{"id"}).WillReturnError(fmt.Errorf("permission denied"))

	_, err = CopyFrom(context.Background(), mock, "occupants", []string{"id"}, [][]any{{int64(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO occupants")
	assert.NoError(t, mock.ExpectationsWereMet())
}
