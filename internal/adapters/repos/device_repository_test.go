package repos_test

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/adapters/repos"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func testLog() logger.Logger {
	return logger.NewTestLogger()
}

func runDeviceRepoTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.PostgresDeviceRepository),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	repo := repos.NewPostgresDeviceRepository(mock, repos.NewPgxScanner(), testLog())
	testFn(t, repo)

	require.NoError(t, mock.ExpectationsWereMet())
}

func newStoredDevice(t *testing.T, keyValues ...string) *model.Device {
	t.Helper()

	device := model.NewDevice(
		"F5X1R-821088 - Message Handling System",
		"F5X1R",
		model.EnvironmentProd,
		model.NewProductID(),
		model.NewProductTeamID(),
	)
	for _, value := range keyValues {
		require.NoError(t, device.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: value}))
	}

	return device
}

func TestPostgresDeviceRepository_ReadByKey(t *testing.T) {
	t.Parallel()

	readQuery := regexp.QuoteMeta(
		`SELECT d.data FROM devices d JOIN device_keys k ON k.device_id = d.id WHERE k.key_value = $1 LIMIT 1`,
	)

	cases := []struct {
		name        string
		setupMock   func(mock pgxmock.PgxPoolIface, data []byte)
		expectedErr error
	}{
		{
			name: "returns the decoded snapshot",
			setupMock: func(mock pgxmock.PgxPoolIface, data []byte) {
				mock.ExpectQuery(readQuery).
					WithArgs("cpa-1").
					WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))
			},
		},
		{
			name: "no rows maps to ErrDeviceNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface, _ []byte) {
				mock.ExpectQuery(readQuery).
					WithArgs("cpa-1").
					WillReturnRows(pgxmock.NewRows([]string{"data"}))
			},
			expectedErr: model.ErrDeviceNotFound,
		},
		{
			name: "database error returns wrapped ErrDatabaseQuery",
			setupMock: func(mock pgxmock.PgxPoolIface, _ []byte) {
				mock.ExpectQuery(readQuery).
					WithArgs("cpa-1").
					WillReturnError(errors.New("connection refused"))
			},
			expectedErr: model.ErrDatabaseQuery,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			device := newStoredDevice(t, "cpa-1")
			data, err := json.Marshal(device)
			require.NoError(t, err)

			runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				tc.setupMock(mock, data)
			}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
				got, err := repo.ReadByKey(t.Context(), "cpa-1")

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}
				require.NoError(t, err)
				require.Equal(t, device.ID, got.ID)
				require.True(t, got.HasKey("cpa-1"))
			})
		})
	}
}

func TestPostgresDeviceRepository_Search(t *testing.T) {
	t.Parallel()

	searchQuery := regexp.QuoteMeta(
		`SELECT data FROM devices WHERE environment = $1 AND product_id = $2 AND product_team_id = $3 ORDER BY name`,
	)

	t.Run("returns all matching snapshots", func(t *testing.T) {
		device := newStoredDevice(t, "cpa-1")
		data, err := json.Marshal(device)
		require.NoError(t, err)

		runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(searchQuery).
				WithArgs(
					string(device.Environment),
					device.ProductID.String(),
					device.ProductTeamID.String(),
				).
				WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))
		}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			results, err := repo.Search(t.Context(), device.ProductTeamID, device.ProductID, device.Environment)
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.Equal(t, device.ID, results[0].ID)
		})
	})

	t.Run("no rows yields an empty result", func(t *testing.T) {
		device := newStoredDevice(t)

		runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(searchQuery).
				WithArgs(
					string(device.Environment),
					device.ProductID.String(),
					device.ProductTeamID.String(),
				).
				WillReturnRows(pgxmock.NewRows([]string{"data"}))
		}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			results, err := repo.Search(t.Context(), device.ProductTeamID, device.ProductID, device.Environment)
			require.NoError(t, err)
			require.Empty(t, results)
		})
	})
}

func TestPostgresDeviceRepository_Write(t *testing.T) {
	t.Parallel()

	deleteKeysQuery := regexp.QuoteMeta(`DELETE FROM device_keys WHERE device_id = $1`)
	insertDeviceQuery := regexp.QuoteMeta(
		`INSERT INTO devices (id,product_team_id,product_id,environment,name,ods_code,status,data,created_on,updated_on) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
	)
	insertKeysQuery := regexp.QuoteMeta(
		`INSERT INTO device_keys (key_value,key_type,device_id) VALUES ($1,$2,$3),($4,$5,$6)`,
	)

	t.Run("rebuilds the key index around the upsert", func(t *testing.T) {
		device := newStoredDevice(t, "cpa-1", "cpa-2")
		data, err := json.Marshal(device)
		require.NoError(t, err)

		runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(deleteKeysQuery).
				WithArgs(device.ID.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
			mock.ExpectExec(insertDeviceQuery).
				WithArgs(
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
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			mock.ExpectExec(insertKeysQuery).
				WithArgs(
					"cpa-1", string(model.KeyTypeCpaID), device.ID.String(),
					"cpa-2", string(model.KeyTypeCpaID), device.ID.String(),
				).
				WillReturnResult(pgxmock.NewResult("INSERT", 2))
		}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			require.NoError(t, repo.Write(t.Context(), device))
			require.Empty(t, device.PendingEvents())
		})
	})

	t.Run("deleted device is removed outright", func(t *testing.T) {
		device := newStoredDevice(t, "cpa-1")
		device.Delete()

		runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(deleteKeysQuery).
				WithArgs(device.ID.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM devices WHERE id = $1`)).
				WithArgs(device.ID.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
		}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			require.NoError(t, repo.Write(t.Context(), device))
		})
	})

	t.Run("skips devices without pending events", func(t *testing.T) {
		device := newStoredDevice(t, "cpa-1")
		device.ClearPendingEvents()

		runDeviceRepoTest(t, func(pgxmock.PgxPoolIface) {}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			require.NoError(t, repo.Write(t.Context(), device))
		})
	})

	t.Run("key index failure aborts the write", func(t *testing.T) {
		device := newStoredDevice(t, "cpa-1")

		runDeviceRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(deleteKeysQuery).
				WithArgs(device.ID.String()).
				WillReturnError(errors.New("connection refused"))
		}, func(t *testing.T, repo *repos.PostgresDeviceRepository) {
			require.ErrorIs(t, repo.Write(t.Context(), device), model.ErrDatabaseQuery)
			require.NotEmpty(t, device.PendingEvents())
		})
	})
}
