// Package spine holds the static SDS reference data consumed by the change
// request pipeline: object classes, field names, questionnaire instances and
// their field mappings, naming templates and search parameter combinations.
package spine

import "fmt"

// LDAP object classes carried by change records.
const (
	ObjectClassMhs                 = "nhsmhs"
	ObjectClassAccreditedSystem    = "nhsas"
	ObjectClassDeletionRequest     = "delete"
	ObjectClassModificationRequest = "modify"
)

// ModificationType is one entry kind of a modification request.
type ModificationType string

const (
	ModificationAdd     ModificationType = "add"
	ModificationReplace ModificationType = "replace"
	ModificationDelete  ModificationType = "delete"
)

// External (LDIF) field names referenced directly by the pipeline.
const (
	FieldCpaID            = "nhs_mhs_cpa_id"
	FieldProductName      = "nhs_product_name"
	FieldPartyKey         = "nhs_mhs_party_key"
	FieldManufacturerOrg  = "nhs_mhs_manufacturer_org"
	FieldMhsInteraction   = "nhs_mhs_svc_ia"
	FieldAsInteractions   = "nhs_as_svc_ia"
	FieldIDCode           = "nhs_id_code"
	FieldUniqueIdentifier = "unique_identifier"
	FieldObjectClass      = "object_class"
)

// Internal question names shared across questionnaire instances.
const (
	FieldNameInteractionID    = "Interaction ID"
	FieldNameCpaID            = "MHS CPA ID"
	FieldNameUniqueIdentifier = "Unique Identifier"
	FieldNamePartyKey         = "MHS Party Key"
	FieldNameManufacturerOrg  = "MHS Manufacturer Organisation"
	FieldNameAsid             = "ASID"
	FieldNameMhsFqdn          = "MHS FQDN"
	FieldNameAddress          = "Address"
	FieldNameOdsCode          = "ODS Code"
)

// Immutable question names in the EPR context. The guard runs against the
// translated (internal) field name before any routing decision.
var (
	MhsImmutableFields = map[string]struct{}{
		FieldNameManufacturerOrg:  {},
		FieldNamePartyKey:         {},
		FieldNameCpaID:            {},
		FieldNameUniqueIdentifier: {},
	}

	AccreditedSystemImmutableFields = map[string]struct{}{
		FieldNameManufacturerOrg: {},
		FieldNamePartyKey:        {},
		FieldNameAsid:            {},
	}
)

// Aggregate name suffixes, used as type discriminators for devices and
// device reference data belonging to one product.
const (
	MessageSetsSuffix            = " - MHS Message Sets"
	AdditionalInteractionsSuffix = " - AS Additional Interactions"
	MhsDeviceSuffix              = " - Message Handling System"
	AsDeviceSuffix               = " - Accredited System"
)

// Path selectors scoping which parts of a DeviceReferenceData a Device
// consumes.
const (
	PathAll               = "*"
	PathAllInteractionIDs = "*.Interaction ID"
)

// ProductTeamName is the deterministic EPR product team name for an ODS code.
func ProductTeamName(odsCode string) string {
	return fmt.Sprintf("%s (EPR)", odsCode)
}

// ProductTeamKey is the deterministic epr_id key value for an ODS code.
func ProductTeamKey(odsCode string) string {
	return fmt.Sprintf("EPR-%s", odsCode)
}

func MessageSetsName(partyKey string) string {
	return partyKey + MessageSetsSuffix
}

func AdditionalInteractionsName(partyKey string) string {
	return partyKey + AdditionalInteractionsSuffix
}

func MhsDeviceName(partyKey string) string {
	return partyKey + MhsDeviceSuffix
}

func AsDeviceName(partyKey, asid string) string {
	return fmt.Sprintf("%s/%s%s", partyKey, asid, AsDeviceSuffix)
}

// ExceptionalOdsCodes are organisation codes whose product teams are created
// detached from a real ODS organisation.
var ExceptionalOdsCodes = map[string]struct{}{
	"696B001":   {},
	"TESTEBS1":  {},
	"TESTLSP0":  {},
	"TESTLSP1":  {},
	"TESTLSP3":  {},
	"TMSAsync1": {},
	"TMSAsync2": {},
	"TMSAsync3": {},
	"TMSAsync4": {},
	"TMSAsync5": {},
	"TMSAsync6": {},
	"TMSEbs2":   {},
}

// BadUniqueIdentifiers is a deny list of upstream identifiers whose change
// records are skipped outright.
var BadUniqueIdentifiers = map[string]struct{}{
	"31af51067f47f1244d38": {},
	"a83e1431f26461894465": {},
	"S2202584A2577603":     {},
	"S100049A300185":       {},
}
