package repos

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// PostgresProductRepository persists Product snapshots, indexed by product
// team and party key.
type PostgresProductRepository struct {
	pool    PoolOps
	scanner Scanner
	logger  logger.Logger
}

func NewPostgresProductRepository(pool PoolOps, scanner Scanner, log logger.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *PostgresProductRepository) Read(ctx context.Context, productTeamID model.ProductTeamID, partyKey string) (*model.Product, error) {
	query, args, err := buildQuery(psql.Select("data").
		From(productsTable).
		Where(sq.Eq{
			"product_team_id": productTeamID.String(),
			"party_key":       partyKey,
		}).
		Limit(1))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var row snapshotRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.ErrProductNotFound
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	var product model.Product
	if err := json.Unmarshal(row.Data, &product); err != nil {
		return nil, fmt.Errorf("decoding product snapshot: %w", err)
	}

	return &product, nil
}

func (r *PostgresProductRepository) Write(ctx context.Context, product *model.Product) error {
	if len(product.PendingEvents()) == 0 {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encoding product snapshot: %w", err)
	}

	query, args, err := buildQuery(psql.Insert(productsTable).
		Columns("id", "product_team_id", "party_key", "name", "ods_code", "status", "data", "created_on", "updated_on").
		Values(
			product.ID.String(),
			product.ProductTeamID.String(),
			product.PartyKey(),
			product.Name,
			product.OdsCode,
			string(product.Status),
			data,
			product.CreatedOn,
			product.UpdatedOn,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			data = EXCLUDED.data,
			updated_on = EXCLUDED.updated_on`))
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	product.ClearPendingEvents()

	return nil
}
