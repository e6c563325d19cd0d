package spine_test

import (
	"encoding/json"
	"testing"

	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/stretchr/testify/require"
)

func TestChangeRecordUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("flat record", func(t *testing.T) {
		t.Parallel()

		raw := `{
			"object_class": "nhsMhs",
			"unique_identifier": "cpa-1",
			"nhs_mhs_party_key": "F5X1R-821088",
			"nhs_as_svc_ia": ["urn:a", "urn:b"]
		}`

		var record spine.ChangeRecord
		require.NoError(t, json.Unmarshal([]byte(raw), &record))

		require.Equal(t, "cpa-1", record.UniqueIdentifier)
		require.Equal(t, "nhsMhs", record.ObjectClass)
		require.Equal(t, "F5X1R-821088", record.String("nhs_mhs_party_key"))
		require.Equal(t, []string{"urn:a", "urn:b"}, record.Strings("nhs_as_svc_ia"))
		require.Empty(t, record.Modifications)
	})

	t.Run("modification request", func(t *testing.T) {
		t.Parallel()

		raw := `{
			"object_class": "modify",
			"unique_identifier": "cpa-1",
			"modifications": [
				{"type": "replace", "field": "nhs_mhs_in", "values": ["NEW_IN"]},
				{"type": "delete", "field": "nhs_product_version"}
			]
		}`

		var record spine.ChangeRecord
		require.NoError(t, json.Unmarshal([]byte(raw), &record))

		require.Equal(t, "modify", record.ObjectClass)
		require.Len(t, record.Modifications, 2)
		require.Equal(t, spine.ModificationReplace, record.Modifications[0].Type)
		require.Equal(t, "nhs_mhs_in", record.Modifications[0].Field)
		require.Equal(t, []string{"NEW_IN"}, record.Modifications[0].Values)
		require.Equal(t, spine.ModificationDelete, record.Modifications[1].Type)
		require.Empty(t, record.Modifications[1].Values)
	})

	t.Run("non-string field value is rejected", func(t *testing.T) {
		t.Parallel()

		var record spine.ChangeRecord
		require.Error(t, json.Unmarshal([]byte(`{"nhs_mhs_retries": 3}`), &record))
	})

	t.Run("malformed modifications are rejected", func(t *testing.T) {
		t.Parallel()

		var record spine.ChangeRecord
		require.Error(t, json.Unmarshal([]byte(`{"modifications": "nope"}`), &record))
	})
}

func TestChangeRecordStringAccessors(t *testing.T) {
	t.Parallel()

	record := spine.ChangeRecord{
		Fields: map[string]any{
			"single": "value",
			"list":   []string{"a"},
		},
	}

	require.Equal(t, "value", record.String("single"))
	require.Empty(t, record.String("list"))
	require.Empty(t, record.String("absent"))
	require.Equal(t, []string{"value"}, record.Strings("single"))
	require.Equal(t, []string{"a"}, record.Strings("list"))
	require.Nil(t, record.Strings("absent"))
}

func TestImputeManufacturerOrg(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name            string
		manufacturerOrg any
		idCode          string
		expected        string
	}{
		{
			name:            "plain alphanumeric org is kept",
			manufacturerOrg: "F5X1R",
			idCode:          "B9Z88",
			expected:        "F5X1R",
		},
		{
			name:            "free text org falls back to the ODS code",
			manufacturerOrg: "Acme Health Ltd.",
			idCode:          "B9Z88",
			expected:        "B9Z88",
		},
		{
			name:            "missing org falls back to the ODS code",
			manufacturerOrg: nil,
			idCode:          "B9Z88",
			expected:        "B9Z88",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fields := map[string]any{"nhs_id_code": tc.idCode}
			if tc.manufacturerOrg != nil {
				fields["nhs_mhs_manufacturer_org"] = tc.manufacturerOrg
			}
			record := spine.ChangeRecord{Fields: fields}

			imputed := record.ImputeManufacturerOrg()
			require.Equal(t, tc.expected, imputed.String("nhs_mhs_manufacturer_org"))
		})
	}
}

func TestImputeManufacturerOrgDoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	record := spine.ChangeRecord{Fields: map[string]any{
		"nhs_mhs_manufacturer_org": "Acme Health Ltd.",
		"nhs_id_code":              "B9Z88",
	}}

	_ = record.ImputeManufacturerOrg()
	require.Equal(t, "Acme Health Ltd.", record.String("nhs_mhs_manufacturer_org"))
}
