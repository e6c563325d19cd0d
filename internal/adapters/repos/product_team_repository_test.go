package repos_test

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/adapters/repos"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func runTeamRepoTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.PostgresProductTeamRepository),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	repo := repos.NewPostgresProductTeamRepository(mock, repos.NewPgxScanner(), testLog())
	testFn(t, repo)

	require.NoError(t, mock.ExpectationsWereMet())
}

func newStoredTeam() *model.ProductTeam {
	return model.NewProductTeam("F5X1R (EPR)", "F5X1R", []model.ProductTeamKey{
		{Type: model.KeyTypeEprID, Value: "EPR-F5X1R"},
	})
}

func TestPostgresProductTeamRepository_Read(t *testing.T) {
	t.Parallel()

	readQuery := regexp.QuoteMeta(
		`SELECT data FROM epr_product_teams WHERE epr_id = $1 LIMIT 1`,
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
					WithArgs("EPR-F5X1R").
					WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))
			},
		},
		{
			name: "no rows maps to ErrProductTeamNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface, _ []byte) {
				mock.ExpectQuery(readQuery).
					WithArgs("EPR-F5X1R").
					WillReturnRows(pgxmock.NewRows([]string{"data"}))
			},
			expectedErr: model.ErrProductTeamNotFound,
		},
		{
			name: "database error returns wrapped ErrDatabaseQuery",
			setupMock: func(mock pgxmock.PgxPoolIface, _ []byte) {
				mock.ExpectQuery(readQuery).
					WithArgs("EPR-F5X1R").
					WillReturnError(errors.New("connection refused"))
			},
			expectedErr: model.ErrDatabaseQuery,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			team := newStoredTeam()
			data, err := json.Marshal(team)
			require.NoError(t, err)

			runTeamRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				tc.setupMock(mock, data)
			}, func(t *testing.T, repo *repos.PostgresProductTeamRepository) {
				got, err := repo.Read(t.Context(), "EPR-F5X1R")

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}
				require.NoError(t, err)
				require.Equal(t, team.ID, got.ID)
				require.Equal(t, team.Name, got.Name)
			})
		})
	}
}

func TestPostgresProductTeamRepository_Write(t *testing.T) {
	t.Parallel()

	insertQuery := regexp.QuoteMeta(
		`INSERT INTO epr_product_teams (id,epr_id,name,ods_code,status,data,created_on,updated_on) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
	)

	t.Run("upserts the snapshot and clears pending events", func(t *testing.T) {
		team := newStoredTeam()
		data, err := json.Marshal(team)
		require.NoError(t, err)

		runTeamRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(insertQuery).
				WithArgs(
					team.ID.String(),
					"EPR-F5X1R",
					team.Name,
					team.OdsCode,
					string(team.Status),
					data,
					team.CreatedOn,
					team.UpdatedOn,
				).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}, func(t *testing.T, repo *repos.PostgresProductTeamRepository) {
			require.NoError(t, repo.Write(t.Context(), team))
			require.Empty(t, team.PendingEvents())
		})
	})

	t.Run("skips aggregates without pending events", func(t *testing.T) {
		team := newStoredTeam()
		team.ClearPendingEvents()

		runTeamRepoTest(t, func(pgxmock.PgxPoolIface) {}, func(t *testing.T, repo *repos.PostgresProductTeamRepository) {
			require.NoError(t, repo.Write(t.Context(), team))
		})
	})

	t.Run("database error returns wrapped ErrDatabaseQuery", func(t *testing.T) {
		team := newStoredTeam()

		runTeamRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(insertQuery).
				WithArgs(
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				).
				WillReturnError(errors.New("connection refused"))
		}, func(t *testing.T, repo *repos.PostgresProductTeamRepository) {
			require.ErrorIs(t, repo.Write(t.Context(), team), model.ErrDatabaseQuery)
		})
	})
}
