// Package store reads and loads the property catalog.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/portfolio-cli/internal/config"
	"github.com/sells-group/portfolio-cli/internal/model"
)

// PropertyFilter narrows ListProperties. Empty fields match everything.
type PropertyFilter struct {
	IDs   []int64  `json:"ids,omitempty"`
	Types []string `json:"types,omitempty"`
}

// Reader is the read-only catalog used by the analysis service.
type Reader interface {
	ListProperties(ctx context.Context, f PropertyFilter) ([]model.Property, error)
	// ListOccupants returns the occupants of the given properties, or of
	// every property when propertyIDs is empty.
	ListOccupants(ctx context.Context, propertyIDs []int64) ([]model.Occupant, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Writer loads catalog records. Each call returns the number of rows written.
type Writer interface {
	InsertCategories(ctx context.Context, categories []model.Category) (int64, error)
	InsertProperties(ctx context.Context, properties []model.Property) (int64, error)
	InsertOccupants(ctx context.Context, occupants []model.Occupant) (int64, error)
}

// Store is a catalog backend.
type Store interface {
	Reader
	Writer

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns})
	case DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
