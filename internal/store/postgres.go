package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/portfolio-cli/internal/db"
	"github.com/sells-group/portfolio-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller owns its lifecycle.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id        BIGINT PRIMARY KEY,
	name      TEXT NOT NULL,
	tier      TEXT NOT NULL CHECK (tier IN ('broad', 'mid', 'narrow')),
	parent_id BIGINT REFERENCES categories(id) DEFERRABLE INITIALLY IMMEDIATE
);

CREATE TABLE IF NOT EXISTS properties (
	id                  BIGINT PRIMARY KEY,
	name                TEXT NOT NULL,
	property_type       TEXT NOT NULL DEFAULT 'other',
	address             TEXT,
	city                TEXT,
	county              TEXT,
	postcode            TEXT,
	latitude            DOUBLE PRECISION,
	longitude           DOUBLE PRECISION,
	number_of_stores    INTEGER,
	total_floor_area    DOUBLE PRECISION,
	car_parking_spaces  INTEGER,
	opening_year        INTEGER,
	annual_footfall     DOUBLE PRECISION,
	owner               TEXT,
	anchor_tenants      INTEGER,
	vacancy_rate        DOUBLE PRECISION,
	health_index        DOUBLE PRECISION,
	dominant_category   TEXT,
	website             TEXT,
	phone               TEXT,
	instagram           TEXT,
	facebook            TEXT,
	twitter             TEXT,
	tiktok              TEXT,
	google_rating       DOUBLE PRECISION,
	google_review_count INTEGER,
	population          INTEGER,
	median_income       DOUBLE PRECISION,
	median_age          DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS occupants (
	id          BIGINT PRIMARY KEY,
	property_id BIGINT NOT NULL REFERENCES properties(id),
	name        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	category_id BIGINT REFERENCES categories(id),
	is_anchor   BOOLEAN NOT NULL DEFAULT false
);

CREATE INDEX IF NOT EXISTS idx_properties_type ON properties(property_type);
CREATE INDEX IF NOT EXISTS idx_occupants_property_id ON occupants(property_id);
CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListProperties(ctx context.Context, f PropertyFilter) ([]model.Property, error) {
	query := "SELECT " + columnList(propertyColumns) + " FROM properties"

	var where []string
	var args []any
	if len(f.IDs) > 0 {
		args = append(args, f.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(f.Types) > 0 {
		args = append(args, f.Types)
		where = append(where, fmt.Sprintf("property_type = ANY($%d)", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list properties")
	}
	defer rows.Close()

	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan property")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate properties")
}

func (s *PostgresStore) ListOccupants(ctx context.Context, propertyIDs []int64) ([]model.Occupant, error) {
	query := "SELECT " + columnList(occupantColumns) + " FROM occupants"
	var args []any
	if len(propertyIDs) > 0 {
		query += " WHERE property_id = ANY($1)"
		args = append(args, propertyIDs)
	}
	query += " ORDER BY property_id, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list occupants")
	}
	defer rows.Close()

	out := []model.Occupant{}
	for rows.Next() {
		o, err := scanOccupant(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan occupant")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate occupants")
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+columnList(categoryColumns)+" FROM categories ORDER BY id")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list categories")
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan category")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate categories")
}

func (s *PostgresStore) InsertCategories(ctx context.Context, categories []model.Category) (int64, error) {
	rows := make([][]any, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, categoryValues(c))
	}
	return s.copyInTx(ctx, "categories", categoryColumns, rows)
}

func (s *PostgresStore) InsertProperties(ctx context.Context, properties []model.Property) (int64, error) {
	rows := make([][]any, 0, len(properties))
	for _, p := range properties {
		rows = append(rows, propertyValues(p))
	}
	return db.CopyFrom(ctx, s.pool, "properties", propertyColumns, rows)
}

func (s *PostgresStore) InsertOccupants(ctx context.Context, occupants []model.Occupant) (int64, error) {
	rows := make([][]any, 0, len(occupants))
	for _, o := range occupants {
		rows = append(rows, occupantValues(o))
	}
	return db.CopyFrom(ctx, s.pool, "occupants", occupantColumns, rows)
}

// copyInTx loads self-referencing rows with the foreign key check deferred
// to commit, so children may precede their parents in the input.
func (s *PostgresStore) copyInTx(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: begin %s load", table)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "SET CONSTRAINTS ALL DEFERRED"); err != nil {
		return 0, eris.Wrap(err, "postgres: defer constraints")
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: COPY INTO %s", table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "postgres: commit %s load", table)
	}
	return n, nil
}
