package repos

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// PostgresProductTeamRepository persists ProductTeam snapshots, indexed by
// their epr_id key.
type PostgresProductTeamRepository struct {
	pool    PoolOps
	scanner Scanner
	logger  logger.Logger
}

func NewPostgresProductTeamRepository(pool PoolOps, scanner Scanner, log logger.Logger) *PostgresProductTeamRepository {
	return &PostgresProductTeamRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *PostgresProductTeamRepository) Read(ctx context.Context, eprID string) (*model.ProductTeam, error) {
	query, args, err := buildQuery(psql.Select("data").
		From(productTeamsTable).
		Where(sq.Eq{"epr_id": eprID}).
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
			return nil, model.ErrProductTeamNotFound
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	var team model.ProductTeam
	if err := json.Unmarshal(row.Data, &team); err != nil {
		return nil, fmt.Errorf("decoding product team snapshot: %w", err)
	}

	return &team, nil
}

func (r *PostgresProductTeamRepository) Write(ctx context.Context, team *model.ProductTeam) error {
	if len(team.PendingEvents()) == 0 {
		return nil
	}

	data, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encoding product team snapshot: %w", err)
	}

	query, args, err := buildQuery(psql.Insert(productTeamsTable).
		Columns("id", "epr_id", "name", "ods_code", "status", "data", "created_on", "updated_on").
		Values(
			team.ID.String(),
			eprKeyValue(team),
			team.Name,
			team.OdsCode,
			string(team.Status),
			data,
			team.CreatedOn,
			team.UpdatedOn,
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
	team.ClearPendingEvents()

	return nil
}

func eprKeyValue(team *model.ProductTeam) string {
	for _, key := range team.Keys {
		if key.Type == model.KeyTypeEprID {
			return key.Value
		}
	}

	return ""
}
