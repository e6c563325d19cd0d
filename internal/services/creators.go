package services

import (
	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// CreateEprProductTeam builds the EPR product team for an ODS code with its
// deterministic name and epr_id key. A handful of exceptional upstream codes
// bypass the ODS code shape check.
func CreateEprProductTeam(odsCode string) (*model.ProductTeam, error) {
	if _, exceptional := spine.ExceptionalOdsCodes[odsCode]; !exceptional {
		if !isValidOdsCode(odsCode) {
			return nil, model.NewValidationError("invalid ODS code '%s'", odsCode)
		}
	}

	return model.NewProductTeam(
		spine.ProductTeamName(odsCode),
		odsCode,
		[]model.ProductTeamKey{{Type: model.KeyTypeEprID, Value: spine.ProductTeamKey(odsCode)}},
	), nil
}

// CreateEprProduct builds a product under the team, keyed by party key.
func CreateEprProduct(team *model.ProductTeam, productName, partyKey string) *model.Product {
	return model.NewProduct(
		productName,
		team.OdsCode,
		team.ID,
		[]model.ProductKey{{Type: model.KeyTypePartyKey, Value: partyKey}},
	)
}

// CreateMessageSets builds the product's MessageSets DRD.
func CreateMessageSets(product *model.Product, partyKey string, messageSetData []model.QuestionnaireResponse) *model.DeviceReferenceData {
	messageSets := model.NewDeviceReferenceData(
		spine.MessageSetsName(partyKey),
		product.OdsCode,
		model.EnvironmentProd,
		product.ID,
		product.ProductTeamID,
	)
	for _, messageSet := range messageSetData {
		messageSets.AddResponse(messageSet)
	}

	return messageSets
}

// CreateAdditionalInteractions builds the product's AdditionalInteractions
// DRD.
func CreateAdditionalInteractions(product *model.Product, partyKey string, additionalInteractionsData []model.QuestionnaireResponse) *model.DeviceReferenceData {
	additionalInteractions := model.NewDeviceReferenceData(
		spine.AdditionalInteractionsName(partyKey),
		product.OdsCode,
		model.EnvironmentProd,
		product.ID,
		product.ProductTeamID,
	)
	for _, interaction := range additionalInteractionsData {
		additionalInteractions.AddResponse(interaction)
	}

	return additionalInteractions
}

// CreateMhsDevice builds the product's MHS device, keyed by CPA IDs and
// linked to the MessageSets DRD.
func CreateMhsDevice(
	product *model.Product,
	partyKey string,
	mhsDeviceData model.QuestionnaireResponse,
	cpaIDs []string,
	messageSetsID model.DeviceReferenceDataID,
) (*model.Device, error) {
	mhsDevice := model.NewDevice(
		spine.MhsDeviceName(partyKey),
		product.OdsCode,
		model.EnvironmentProd,
		product.ID,
		product.ProductTeamID,
	)
	mhsDevice.AddResponse(mhsDeviceData)
	for _, cpaID := range cpaIDs {
		if err := mhsDevice.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: cpaID}); err != nil {
			return nil, err
		}
	}
	mhsDevice.LinkReferenceData(messageSetsID, []string{spine.PathAll})

	return mhsDevice, nil
}

// CreateAsDevice builds the product's AS device for one ASID, tagged and
// linked to both DRDs. The MessageSets DRD is always linked first.
func CreateAsDevice(
	product *model.Product,
	partyKey, asid string,
	asDeviceData model.QuestionnaireResponse,
	messageSetsID, additionalInteractionsID model.DeviceReferenceDataID,
	asTags []model.DeviceTag,
) (*model.Device, error) {
	asDevice := model.NewDevice(
		spine.AsDeviceName(partyKey, asid),
		product.OdsCode,
		model.EnvironmentProd,
		product.ID,
		product.ProductTeamID,
	)
	if err := asDevice.AddKey(model.DeviceKey{Type: model.KeyTypeAccreditedSystemID, Value: asid}); err != nil {
		return nil, err
	}
	asDevice.AddResponse(asDeviceData)
	asDevice.AddTags(asTags)
	asDevice.LinkReferenceData(messageSetsID, []string{spine.PathAllInteractionIDs})
	asDevice.LinkReferenceData(additionalInteractionsID, []string{spine.PathAllInteractionIDs})

	return asDevice, nil
}

func isValidOdsCode(odsCode string) bool {
	if odsCode == "" || len(odsCode) > 9 {
		return false
	}
	for _, c := range odsCode {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}
