package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	tier      TEXT NOT NULL CHECK (tier IN ('broad', 'mid', 'narrow')),
	parent_id INTEGER REFERENCES categories(id) DEFERRABLE INITIALLY DEFERRED
);

CREATE TABLE IF NOT EXISTS properties (
	id                  INTEGER PRIMARY KEY,
	name                TEXT NOT NULL,
	property_type       TEXT NOT NULL DEFAULT 'other',
	address             TEXT,
	city                TEXT,
	county              TEXT,
	postcode            TEXT,
	latitude            REAL,
	longitude           REAL,
	number_of_stores    INTEGER,
	total_floor_area    REAL,
	car_parking_spaces  INTEGER,
	opening_year        INTEGER,
	annual_footfall     REAL,
	owner               TEXT,
	anchor_tenants      INTEGER,
	vacancy_rate        REAL,
	health_index        REAL,
	dominant_category   TEXT,
	website             TEXT,
	phone               TEXT,
	instagram           TEXT,
	facebook            TEXT,
	twitter             TEXT,
	tiktok              TEXT,
	google_rating       REAL,
	google_review_count INTEGER,
	population          INTEGER,
	median_income       REAL,
	median_age          REAL
);

CREATE TABLE IF NOT EXISTS occupants (
	id          INTEGER PRIMARY KEY,
	property_id INTEGER NOT NULL REFERENCES properties(id),
	name        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	category_id INTEGER REFERENCES categories(id),
	is_anchor   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_properties_type ON properties(property_type);
CREATE INDEX IF NOT EXISTS idx_occupants_property_id ON occupants(property_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListProperties(ctx context.Context, f PropertyFilter) ([]model.Property, error) {
	query := "SELECT " + columnList(propertyColumns) + " FROM properties"

	var where []string
	var args []any
	if len(f.IDs) > 0 {
		where = append(where, "id IN ("+placeholders(len(f.IDs))+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if len(f.Types) > 0 {
		where = append(where, "property_type IN ("+placeholders(len(f.Types))+")")
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list properties")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan property")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate properties")
}

func (s *SQLiteStore) ListOccupants(ctx context.Context, propertyIDs []int64) ([]model.Occupant, error) {
	query := "SELECT " + columnList(occupantColumns) + " FROM occupants"
	var args []any
	if len(propertyIDs) > 0 {
		query += " WHERE property_id IN (" + placeholders(len(propertyIDs)) + ")"
		for _, id := range propertyIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY property_id, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list occupants")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Occupant{}
	for rows.Next() {
		o, err := scanOccupant(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan occupant")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate occupants")
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columnList(categoryColumns)+" FROM categories ORDER BY id")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list categories")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan category")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate categories")
}

func (s *SQLiteStore) InsertCategories(ctx context.Context, categories []model.Category) (int64, error) {
	rows := make([][]any, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, categoryValues(c))
	}
	return s.insert(ctx, "categories", categoryColumns, rows)
}

func (s *SQLiteStore) InsertProperties(ctx context.Context, properties []model.Property) (int64, error) {
	rows := make([][]any, 0, len(properties))
	for _, p := range properties {
		rows = append(rows, propertyValues(p))
	}
	return s.insert(ctx, "properties", propertyColumns, rows)
}

func (s *SQLiteStore) InsertOccupants(ctx context.Context, occupants []model.Occupant) (int64, error) {
	rows := make([][]any, 0, len(occupants))
	for _, o := range occupants {
		rows = append(rows, occupantValues(o))
	}
	return s.insert(ctx, "occupants", occupantColumns, rows)
}

// insert writes rows in a single transaction with one prepared statement.
func (s *SQLiteStore) insert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: begin %s load", table)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" ("+columnList(columns)+") VALUES ("+placeholders(len(columns))+")")
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare %s insert", table)
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert into %s", table)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrapf(err, "sqlite: commit %s load", table)
	}
	return n, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
