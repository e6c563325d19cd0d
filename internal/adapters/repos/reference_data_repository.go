package repos

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// PostgresDeviceReferenceDataRepository persists DeviceReferenceData
// snapshots, scoped by product team, product and environment.
type PostgresDeviceReferenceDataRepository struct {
	pool    PoolOps
	scanner Scanner
	logger  logger.Logger
}

func NewPostgresDeviceReferenceDataRepository(pool PoolOps, scanner Scanner, log logger.Logger) *PostgresDeviceReferenceDataRepository {
	return &PostgresDeviceReferenceDataRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *PostgresDeviceReferenceDataRepository) Read(
	ctx context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	id model.DeviceReferenceDataID,
	env model.Environment,
) (*model.DeviceReferenceData, error) {
	query, args, err := buildQuery(psql.Select("data").
		From(referenceDataTable).
		Where(sq.Eq{
			"id":              id.String(),
			"product_team_id": productTeamID.String(),
			"product_id":      productID.String(),
			"environment":     string(env),
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
			return nil, model.ErrDeviceReferenceDataNotFound
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return decodeReferenceData(row.Data)
}

func (r *PostgresDeviceReferenceDataRepository) Search(
	ctx context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	env model.Environment,
) ([]*model.DeviceReferenceData, error) {
	query, args, err := buildQuery(psql.Select("data").
		From(referenceDataTable).
		Where(sq.Eq{
			"product_team_id": productTeamID.String(),
			"product_id":      productID.String(),
			"environment":     string(env),
		}).
		OrderBy("name"))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var snapshotRows []snapshotRow
	if err := r.scanner.ScanAll(&snapshotRows, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	results := make([]*model.DeviceReferenceData, 0, len(snapshotRows))
	for _, row := range snapshotRows {
		drd, err := decodeReferenceData(row.Data)
		if err != nil {
			return nil, err
		}
		results = append(results, drd)
	}

	return results, nil
}

func (r *PostgresDeviceReferenceDataRepository) Write(ctx context.Context, drd *model.DeviceReferenceData) error {
	if len(drd.PendingEvents()) == 0 {
		return nil
	}

	data, err := json.Marshal(drd)
	if err != nil {
		return fmt.Errorf("encoding device reference data snapshot: %w", err)
	}

	query, args, err := buildQuery(psql.Insert(referenceDataTable).
		Columns("id", "product_team_id", "product_id", "environment", "name", "ods_code", "status", "data", "created_on", "updated_on").
		Values(
			drd.ID.String(),
			drd.ProductTeamID.String(),
			drd.ProductID.String(),
			string(drd.Environment),
			drd.Name,
			drd.OdsCode,
			string(drd.Status),
			data,
			drd.CreatedOn,
			drd.UpdatedOn,
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
	drd.ClearPendingEvents()

	return nil
}

func decodeReferenceData(data []byte) (*model.DeviceReferenceData, error) {
	var drd model.DeviceReferenceData
	if err := json.Unmarshal(data, &drd); err != nil {
		return nil, fmt.Errorf("decoding device reference data snapshot: %w", err)
	}

	return &drd, nil
}
