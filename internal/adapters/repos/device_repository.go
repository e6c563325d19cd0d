package repos

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// PostgresDeviceRepository persists Device snapshots together with a key
// index table that backs lookups by CPA ID or ASID. Hard-deleted devices are
// removed outright.
type PostgresDeviceRepository struct {
	pool    PoolOps
	scanner Scanner
	logger  logger.Logger
}

func NewPostgresDeviceRepository(pool PoolOps, scanner Scanner, log logger.Logger) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *PostgresDeviceRepository) ReadByKey(ctx context.Context, keyValue string) (*model.Device, error) {
	query, args, err := buildQuery(psql.Select("d.data").
		From(devicesTable + " d").
		Join(deviceKeysTable + " k ON k.device_id = d.id").
		Where(sq.Eq{"k.key_value": keyValue}).
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
			return nil, model.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return decodeDevice(row.Data)
}

func (r *PostgresDeviceRepository) Search(
	ctx context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	env model.Environment,
) ([]*model.Device, error) {
	query, args, err := buildQuery(psql.Select("data").
		From(devicesTable).
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

	devices := make([]*model.Device, 0, len(snapshotRows))
	for _, row := range snapshotRows {
		device, err := decodeDevice(row.Data)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, nil
}

func (r *PostgresDeviceRepository) Write(ctx context.Context, device *model.Device) error {
	if len(device.PendingEvents()) == 0 {
		return nil
	}

	if err := r.deleteKeyIndex(ctx, device.ID); err != nil {
		return err
	}

	if device.IsDeleted() {
		query, args, err := buildQuery(psql.Delete(devicesTable).
			Where(sq.Eq{"id": device.ID.String()}))
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
		}
		r.logger.Debug().Str("device", device.Name).Msg("hard deleted device")
		device.ClearPendingEvents()

		return nil
	}

	data, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("encoding device snapshot: %w", err)
	}

	query, args, err := buildQuery(psql.Insert(devicesTable).
		Columns("id", "product_team_id", "product_id", "environment", "name", "ods_code", "status", "data", "created_on", "updated_on").
		Values(
			device.ID.String(),
			device.ProductTeamID.String(),
			device.ProductID.String(),
			string(device.Environment),
			device.Name,
			device.OdsCode,
			string(device.Status),
			data,
			device.CreatedOn,
			device.UpdatedOn,
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

	if err := r.insertKeyIndex(ctx, device); err != nil {
		return err
	}
	device.ClearPendingEvents()

	return nil
}

func (r *PostgresDeviceRepository) deleteKeyIndex(ctx context.Context, id model.DeviceID) error {
	query, args, err := buildQuery(psql.Delete(deviceKeysTable).
		Where(sq.Eq{"device_id": id.String()}))
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func (r *PostgresDeviceRepository) insertKeyIndex(ctx context.Context, device *model.Device) error {
	if len(device.Keys) == 0 {
		return nil
	}

	builder := psql.Insert(deviceKeysTable).Columns("key_value", "key_type", "device_id")
	for _, key := range device.Keys {
		builder = builder.Values(key.Value, string(key.Type), device.ID.String())
	}

	query, args, err := buildQuery(builder)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func decodeDevice(data []byte) (*model.Device, error) {
	var device model.Device
	if err := json.Unmarshal(data, &device); err != nil {
		return nil, fmt.Errorf("decoding device snapshot: %w", err)
	}

	return &device, nil
}
