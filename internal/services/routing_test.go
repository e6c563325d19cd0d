package services_test

import (
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/stretchr/testify/require"
)

func TestProcessChangeRequestSkipsDeniedIdentifiers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for uniqueIdentifier := range spine.BadUniqueIdentifiers {
		record := mhsRecord(uniqueIdentifier, "F5X1R-821088", "F5X1R", "urn:a")

		aggregates, err := f.svc.ProcessChangeRequest(t.Context(), record)
		require.NoError(t, err)
		require.Nil(t, aggregates)
	}

	_, err := f.teams.Read(t.Context(), spine.ProductTeamKey("F5X1R"))
	require.ErrorIs(t, err, model.ErrProductTeamNotFound)
}

func TestProcessChangeRequestObjectClassIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	record := mhsRecord("cpa-1", "F5X1R-821088", "F5X1R", "urn:a")
	record.ObjectClass = "NhsMHS"

	aggregates := f.process(t, record)
	require.Len(t, aggregates, 4)
}

func TestProcessChangeRequestSkipsUnknownDevice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	aggregates, err := f.svc.ProcessChangeRequest(t.Context(), deleteRecord("never-seen"))
	require.NoError(t, err)
	require.Nil(t, aggregates)

	aggregates, err = f.svc.ProcessChangeRequest(t.Context(), modifyRecord("never-seen",
		spine.Modification{Type: spine.ModificationAdd, Field: "nhs_mhs_service_description", Values: []string{"v"}}))
	require.NoError(t, err)
	require.Nil(t, aggregates)
}

func TestProcessChangeRequestRejectsUnknownObjectClass(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.process(t, mhsRecord("cpa-1", "F5X1R-821088", "F5X1R", "urn:a"))

	record := spine.ChangeRecord{UniqueIdentifier: "cpa-1", ObjectClass: "nhsContact"}

	_, err := f.svc.ProcessChangeRequest(t.Context(), record)
	require.Error(t, err)

	var validationErr model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, err.Error(), "nhscontact")
}

func TestProcessChangeRequestRejectsUnknownModificationType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.process(t, mhsRecord("cpa-1", "F5X1R-821088", "F5X1R", "urn:a"))

	_, err := f.svc.ProcessChangeRequest(t.Context(), modifyRecord("cpa-1",
		spine.Modification{Type: "increment", Field: "nhs_mhs_in", Values: []string{"v"}}))
	require.Error(t, err)

	var modErr model.UnexpectedModificationError
	require.ErrorAs(t, err, &modErr)
	require.Contains(t, err.Error(), "increment")
}

func TestProcessChangeRequestFullLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.process(t, mhsRecord("cpa-1", "F5X1R-821088", "F5X1R", "urn:a"))
	f.process(t, asRecord("200000000123", "F5X1R-821088", "F5X1R", []string{"urn:a", "urn:b"}))
	f.process(t, modifyRecord("cpa-1",
		spine.Modification{Type: spine.ModificationReplace, Field: "nhs_mhs_in", Values: []string{"NEW_IN"}}))
	f.process(t, modifyRecord("200000000123",
		spine.Modification{Type: spine.ModificationAdd, Field: "nhs_as_svc_ia", Values: []string{"urn:c"}}))
	f.process(t, deleteRecord("200000000123"))
	f.process(t, deleteRecord("cpa-1"))

	_, err := f.devices.ReadByKey(t.Context(), "cpa-1")
	require.ErrorIs(t, err, model.ErrDeviceNotFound)
	_, err = f.devices.ReadByKey(t.Context(), "200000000123")
	require.ErrorIs(t, err, model.ErrDeviceNotFound)

	_, product := f.readProduct(t, "F5X1R", "F5X1R-821088")
	messageSets, additionalInteractions := f.readDrds(t, product)
	require.Empty(t, messageSets.Responses)
	require.Empty(t, additionalInteractions.Responses)
	require.Empty(t, f.searchDevices(t, product))
}
