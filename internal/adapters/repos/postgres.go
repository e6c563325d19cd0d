// Package repos holds the persistence adapters for the registry aggregates:
// a postgres backend for real deployments and a map-backed store for the
// worker's in-memory mode and for tests. Aggregates are persisted as
// snapshots with a handful of indexed columns for the read paths.
package repos

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	productTeamsTable  = "epr_product_teams"
	productsTable      = "epr_products"
	referenceDataTable = "device_reference_data"
	devicesTable       = "devices"
	deviceKeysTable    = "device_keys"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// snapshotRow carries the serialized aggregate snapshot column.
	snapshotRow struct {
		Data []byte `db:"data"`
	}
)

func buildQuery(builder sq.Sqlizer) (string, []any, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}

	return query, args, nil
}
