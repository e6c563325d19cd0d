package services_test

import (
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/nhsdigital/cpm-registry/internal/services"
	"github.com/stretchr/testify/require"
)

func TestCreateEprProductTeam(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		odsCode     string
		expectError bool
	}{
		{name: "plain alphanumeric ODS code", odsCode: "F5X1R"},
		{name: "exceptional code bypasses the shape check", odsCode: "TMSAsync1"},
		{name: "empty ODS code is rejected", odsCode: "", expectError: true},
		{name: "lowercase ODS code is rejected", odsCode: "f5x1r", expectError: true},
		{name: "overlong ODS code is rejected", odsCode: "ABCDEFGHIJ", expectError: true},
		{name: "punctuation is rejected", odsCode: "F5-X1R", expectError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			team, err := services.CreateEprProductTeam(tc.odsCode)

			if tc.expectError {
				require.Error(t, err)
				var validationErr model.ValidationError
				require.ErrorAs(t, err, &validationErr)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.odsCode+" (EPR)", team.Name)
			require.Equal(t, tc.odsCode, team.OdsCode)
			require.Len(t, team.Keys, 1)
			require.Equal(t, model.KeyTypeEprID, team.Keys[0].Type)
			require.Equal(t, "EPR-"+tc.odsCode, team.Keys[0].Value)
		})
	}
}

func TestCreateEprProduct(t *testing.T) {
	t.Parallel()

	team, err := services.CreateEprProductTeam("F5X1R")
	require.NoError(t, err)

	product := services.CreateEprProduct(team, "EPR Product", "F5X1R-821088")
	require.Equal(t, "EPR Product", product.Name)
	require.Equal(t, team.OdsCode, product.OdsCode)
	require.Equal(t, team.ID, product.ProductTeamID)
	require.Equal(t, "F5X1R-821088", product.PartyKey())
}

func TestCreateMhsDevice(t *testing.T) {
	t.Parallel()

	team, err := services.CreateEprProductTeam("F5X1R")
	require.NoError(t, err)
	product := services.CreateEprProduct(team, "EPR Product", "F5X1R-821088")
	messageSets := services.CreateMessageSets(product, "F5X1R-821088", nil)
	require.Equal(t, "F5X1R-821088 - MHS Message Sets", messageSets.Name)

	catalog, err := spine.NewCatalog()
	require.NoError(t, err)
	questionnaire, err := catalog.Read(spine.QuestionnaireMhs)
	require.NoError(t, err)
	response, err := questionnaire.Validate(model.ResponseData{
		"Address":                       "https://endpoint.example.nhs.uk/svc",
		"MHS FQDN":                      "endpoint.example.nhs.uk",
		"MHS Party Key":                 "F5X1R-821088",
		"MHS Manufacturer Organisation": "F5X1R",
		"ODS Code":                      "F5X1R",
		"Approver URP":                  "approver",
		"DNS Approver":                  "dns-approver",
		"Requestor URP":                 "requestor",
		"Date Approved":                 "2024-01-10",
		"Date Requested":                "2024-01-09",
	})
	require.NoError(t, err)

	device, err := services.CreateMhsDevice(product, "F5X1R-821088", response, []string{"cpa-1", "cpa-2"}, messageSets.ID)
	require.NoError(t, err)
	require.Equal(t, "F5X1R-821088 - Message Handling System", device.Name)
	require.True(t, services.IsMhsDevice(device))
	require.True(t, device.HasKey("cpa-1"))
	require.True(t, device.HasKey("cpa-2"))
	require.Equal(t, []string{spine.PathAll}, device.ReferenceData[messageSets.ID])
}

func TestInteractionTags(t *testing.T) {
	t.Parallel()

	tags := services.InteractionTags("urn:Service:Interaction", "F5X1R", "F5X1R-821088")
	require.Len(t, tags, 2)

	values := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		values[tag.Value()] = struct{}{}
	}
	require.Contains(t, values, "nhs_as_svc_ia=urn%3Aservice%3Ainteraction&nhs_id_code=f5x1r")
	require.Contains(t, values,
		"nhs_as_svc_ia=urn%3Aservice%3Ainteraction&nhs_id_code=f5x1r&nhs_mhs_party_key=f5x1r-821088")
}

func TestAccreditedSystemTags(t *testing.T) {
	t.Parallel()

	record := spine.ChangeRecord{
		UniqueIdentifier: "200000000123",
		ObjectClass:      "nhsAs",
		Fields: model.ResponseData{
			"unique_identifier": "200000000123",
			"nhs_id_code":       "F5X1R",
			"nhs_mhs_party_key": "F5X1R-821088",
			"nhs_as_svc_ia":     []string{"urn:a", "urn:b"},
		},
	}

	tags := services.AccreditedSystemTags(record)

	// Two combinations fanned out over two interactions, plus the
	// unique-identifier tag.
	require.Len(t, tags, 5)

	values := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		values[tag.Value()] = struct{}{}
	}
	require.Contains(t, values, "unique_identifier=200000000123")
	require.Contains(t, values, "nhs_as_svc_ia=urn%3Aa&nhs_id_code=f5x1r")
	require.Contains(t, values, "nhs_as_svc_ia=urn%3Ab&nhs_id_code=f5x1r")
	require.Contains(t, values, "nhs_as_svc_ia=urn%3Aa&nhs_id_code=f5x1r&nhs_mhs_party_key=f5x1r-821088")
	require.Contains(t, values, "nhs_as_svc_ia=urn%3Ab&nhs_id_code=f5x1r&nhs_mhs_party_key=f5x1r-821088")
}

func TestAccreditedSystemTagsSkipsCombinationsWithMissingFields(t *testing.T) {
	t.Parallel()

	record := spine.ChangeRecord{
		UniqueIdentifier: "200000000123",
		ObjectClass:      "nhsAs",
		Fields: model.ResponseData{
			"unique_identifier": "200000000123",
			"nhs_id_code":       "F5X1R",
		},
	}

	tags := services.AccreditedSystemTags(record)
	require.Len(t, tags, 1)
	require.Equal(t, "unique_identifier=200000000123", tags[0].Value())
}
