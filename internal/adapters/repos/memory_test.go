package repos_test

import (
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/adapters/repos"
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductTeamRepository(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryProductTeamRepository(store)

	_, err := repo.Read(t.Context(), "EPR-F5X1R")
	require.ErrorIs(t, err, model.ErrProductTeamNotFound)

	team := model.NewProductTeam("F5X1R (EPR)", "F5X1R", []model.ProductTeamKey{
		{Type: model.KeyTypeEprID, Value: "EPR-F5X1R"},
	})
	require.NoError(t, repo.Write(t.Context(), team))
	require.Empty(t, team.PendingEvents())

	got, err := repo.Read(t.Context(), "EPR-F5X1R")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
	require.Equal(t, "F5X1R (EPR)", got.Name)
}

func TestMemoryWriteSkipsAggregatesWithoutEvents(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryProductTeamRepository(store)

	team := model.NewProductTeam("F5X1R (EPR)", "F5X1R", []model.ProductTeamKey{
		{Type: model.KeyTypeEprID, Value: "EPR-F5X1R"},
	})
	team.ClearPendingEvents()

	require.NoError(t, repo.Write(t.Context(), team))
	_, err := repo.Read(t.Context(), "EPR-F5X1R")
	require.ErrorIs(t, err, model.ErrProductTeamNotFound)
}

func TestMemoryStoredStateDoesNotAliasCallerState(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryProductTeamRepository(store)

	team := model.NewProductTeam("F5X1R (EPR)", "F5X1R", []model.ProductTeamKey{
		{Type: model.KeyTypeEprID, Value: "EPR-F5X1R"},
	})
	require.NoError(t, repo.Write(t.Context(), team))

	team.Name = "mutated"

	got, err := repo.Read(t.Context(), "EPR-F5X1R")
	require.NoError(t, err)
	require.Equal(t, "F5X1R (EPR)", got.Name)

	got.Name = "also mutated"
	again, err := repo.Read(t.Context(), "EPR-F5X1R")
	require.NoError(t, err)
	require.Equal(t, "F5X1R (EPR)", again.Name)
}

func TestMemoryProductRepository(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryProductRepository(store)
	teamID := model.NewProductTeamID()

	_, err := repo.Read(t.Context(), teamID, "F5X1R-821088")
	require.ErrorIs(t, err, model.ErrProductNotFound)

	product := model.NewProduct("F5X1R-821088 - EPR", "F5X1R", teamID, []model.ProductKey{
		{Type: model.KeyTypePartyKey, Value: "F5X1R-821088"},
	})
	require.NoError(t, repo.Write(t.Context(), product))

	got, err := repo.Read(t.Context(), teamID, "F5X1R-821088")
	require.NoError(t, err)
	require.Equal(t, product.ID, got.ID)

	// A different team never sees the product.
	_, err = repo.Read(t.Context(), model.NewProductTeamID(), "F5X1R-821088")
	require.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestMemoryDeviceReferenceDataRepository(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryDeviceReferenceDataRepository(store)
	teamID := model.NewProductTeamID()
	productID := model.NewProductID()

	first := model.NewDeviceReferenceData(
		"F5X1R-821088 - MHS Message Sets", "F5X1R", model.EnvironmentProd, productID, teamID)
	second := model.NewDeviceReferenceData(
		"F5X1R-821088 - AS Additional Interactions", "F5X1R", model.EnvironmentProd, productID, teamID)
	other := model.NewDeviceReferenceData(
		"B9Z88-900000 - MHS Message Sets", "B9Z88", model.EnvironmentProd, model.NewProductID(), teamID)

	for _, drd := range []*model.DeviceReferenceData{first, second, other} {
		require.NoError(t, repo.Write(t.Context(), drd))
	}

	got, err := repo.Read(t.Context(), teamID, productID, first.ID, model.EnvironmentProd)
	require.NoError(t, err)
	require.Equal(t, first.Name, got.Name)

	_, err = repo.Read(t.Context(), teamID, productID, other.ID, model.EnvironmentProd)
	require.ErrorIs(t, err, model.ErrDeviceReferenceDataNotFound)

	results, err := repo.Search(t.Context(), teamID, productID, model.EnvironmentProd)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Search results come back sorted by name.
	require.Equal(t, second.Name, results[0].Name)
	require.Equal(t, first.Name, results[1].Name)
}

func TestMemoryDeviceRepositoryKeyIndex(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryDeviceRepository(store)

	device := model.NewDevice(
		"F5X1R-821088 - Message Handling System",
		"F5X1R",
		model.EnvironmentProd,
		model.NewProductID(),
		model.NewProductTeamID(),
	)
	require.NoError(t, device.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: "cpa-1"}))
	require.NoError(t, device.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: "cpa-2"}))
	require.NoError(t, repo.Write(t.Context(), device))

	byFirst, err := repo.ReadByKey(t.Context(), "cpa-1")
	require.NoError(t, err)
	bySecond, err := repo.ReadByKey(t.Context(), "cpa-2")
	require.NoError(t, err)
	require.Equal(t, byFirst.ID, bySecond.ID)

	// Removing a key drops its index entry on the next write.
	require.NoError(t, byFirst.RemoveKey("cpa-1"))
	require.NoError(t, repo.Write(t.Context(), byFirst))

	_, err = repo.ReadByKey(t.Context(), "cpa-1")
	require.ErrorIs(t, err, model.ErrDeviceNotFound)
	_, err = repo.ReadByKey(t.Context(), "cpa-2")
	require.NoError(t, err)
}

func TestMemoryDeviceRepositoryHardDeletes(t *testing.T) {
	t.Parallel()

	store := repos.NewMemoryStore()
	repo := repos.NewMemoryDeviceRepository(store)

	device := model.NewDevice(
		"F5X1R-821088 - Message Handling System",
		"F5X1R",
		model.EnvironmentProd,
		model.NewProductID(),
		model.NewProductTeamID(),
	)
	require.NoError(t, device.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: "cpa-1"}))
	require.NoError(t, repo.Write(t.Context(), device))

	stored, err := repo.ReadByKey(t.Context(), "cpa-1")
	require.NoError(t, err)
	stored.Delete()
	require.NoError(t, repo.Write(t.Context(), stored))

	_, err = repo.ReadByKey(t.Context(), "cpa-1")
	require.ErrorIs(t, err, model.ErrDeviceNotFound)

	results, err := repo.Search(t.Context(), device.ProductTeamID, device.ProductID, model.EnvironmentProd)
	require.NoError(t, err)
	require.Empty(t, results)
}
