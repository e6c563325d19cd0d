package services

import (
	"context"
	"errors"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// ReadOrCreateEprProductTeam resolves the product team for an ODS code by
// its epr_id key, creating it when absent. Repeated calls with the same ODS
// code converge on the same team.
func (s *ChangeRequestService) ReadOrCreateEprProductTeam(ctx context.Context, odsCode string) (*model.ProductTeam, error) {
	team, err := s.productTeams.Read(ctx, spine.ProductTeamKey(odsCode))
	if errors.Is(err, model.ErrProductTeamNotFound) {
		return CreateEprProductTeam(odsCode)
	}
	if err != nil {
		return nil, err
	}

	return team, nil
}

// ReadOrCreateEprProduct resolves the product for a (team, party key) pair,
// creating it when absent.
func (s *ChangeRequestService) ReadOrCreateEprProduct(ctx context.Context, team *model.ProductTeam, productName, partyKey string) (*model.Product, error) {
	product, err := s.products.Read(ctx, team.ID, partyKey)
	if errors.Is(err, model.ErrProductNotFound) {
		return CreateEprProduct(team, productName, partyKey), nil
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ReadAdditionalInteractionsIfExists returns the product's
// AdditionalInteractions DRD, or nil when none exists.
func (s *ChangeRequestService) ReadAdditionalInteractionsIfExists(ctx context.Context, productTeamID model.ProductTeamID, productID model.ProductID) (*model.DeviceReferenceData, error) {
	referenceData, err := s.referenceData.Search(ctx, productTeamID, productID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}

	var additionalInteractions *model.DeviceReferenceData
	for _, drd := range referenceData {
		if !IsAdditionalInteractions(drd) {
			continue
		}
		if additionalInteractions != nil {
			return nil, model.NewValidationError(
				"more than one AdditionalInteractions Device Reference Data resource was found for product '%s'",
				productID)
		}
		additionalInteractions = drd
	}

	return additionalInteractions, nil
}

// ReadOrCreateEmptyMessageSets resolves the product's MessageSets DRD,
// creating an empty one when absent. A product holds exactly one; finding
// several is a hard consistency error.
func (s *ChangeRequestService) ReadOrCreateEmptyMessageSets(ctx context.Context, product *model.Product, partyKey string) (*model.DeviceReferenceData, error) {
	referenceData, err := s.referenceData.Search(ctx, product.ProductTeamID, product.ID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}

	var messageSets *model.DeviceReferenceData
	for _, drd := range referenceData {
		if !IsMessageSets(drd) {
			continue
		}
		if messageSets != nil {
			return nil, model.NewValidationError(
				"more than one MessageSet Device Reference Data resource was found for product '%s'",
				product.ID)
		}
		messageSets = drd
	}
	if messageSets == nil {
		messageSets = CreateMessageSets(product, partyKey, nil)
	}

	return messageSets, nil
}

// ReadOrCreateEmptyAdditionalInteractions resolves the product's
// AdditionalInteractions DRD, creating an empty one when absent.
func (s *ChangeRequestService) ReadOrCreateEmptyAdditionalInteractions(ctx context.Context, product *model.Product, partyKey string) (*model.DeviceReferenceData, error) {
	additionalInteractions, err := s.ReadAdditionalInteractionsIfExists(ctx, product.ProductTeamID, product.ID)
	if err != nil {
		return nil, err
	}
	if additionalInteractions == nil {
		additionalInteractions = CreateAdditionalInteractions(product, partyKey, nil)
	}

	return additionalInteractions, nil
}

// ReadOrCreateMhsDevice resolves the product's MHS device, creating one
// keyed by the CPA ID when absent.
func (s *ChangeRequestService) ReadOrCreateMhsDevice(
	ctx context.Context,
	cpaID, partyKey string,
	product *model.Product,
	messageSets *model.DeviceReferenceData,
	mhsDeviceData model.QuestionnaireResponse,
) (*model.Device, error) {
	devices, err := s.devices.Search(ctx, product.ProductTeamID, product.ID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}

	var mhsDevice *model.Device
	for _, device := range devices {
		if !IsMhsDevice(device) {
			continue
		}
		if mhsDevice != nil {
			return nil, model.NewValidationError(
				"more than one Message Handling System device was found for product '%s'", product.ID)
		}
		mhsDevice = device
	}
	if mhsDevice == nil {
		return CreateMhsDevice(product, partyKey, mhsDeviceData, []string{cpaID}, messageSets.ID)
	}

	return mhsDevice, nil
}

// ReadOrCreateAsDevice resolves the AS device for one ASID, creating it when
// absent.
func (s *ChangeRequestService) ReadOrCreateAsDevice(
	ctx context.Context,
	asid, partyKey string,
	product *model.Product,
	messageSets, additionalInteractions *model.DeviceReferenceData,
	asDeviceData model.QuestionnaireResponse,
	asTags []model.DeviceTag,
) (*model.Device, error) {
	devices, err := s.devices.Search(ctx, product.ProductTeamID, product.ID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}

	for _, device := range devices {
		if IsAsDevice(device) && device.HasKey(asid) {
			return device, nil
		}
	}

	return CreateAsDevice(product, partyKey, asid, asDeviceData, messageSets.ID, additionalInteractions.ID, asTags)
}

// ReadMessageSetsFromMhsDevice follows the MHS device's single reference
// data link to its MessageSets DRD.
func (s *ChangeRequestService) ReadMessageSetsFromMhsDevice(ctx context.Context, mhsDevice *model.Device) (*model.DeviceReferenceData, error) {
	if len(mhsDevice.ReferenceData) != 1 {
		return nil, model.NewValidationError(
			"MHS device '%s' links %d Device Reference Data resources, expected exactly one",
			mhsDevice.Name, len(mhsDevice.ReferenceData))
	}

	for id := range mhsDevice.ReferenceData {
		return s.referenceData.Read(ctx, mhsDevice.ProductTeamID, mhsDevice.ProductID, id, model.EnvironmentProd)
	}

	return nil, model.ErrDeviceReferenceDataNotFound
}

// ReadDrdsFromAsDevice follows the AS device's two reference data links,
// returning the MessageSets then AdditionalInteractions DRDs.
func (s *ChangeRequestService) ReadDrdsFromAsDevice(ctx context.Context, asDevice *model.Device) (*model.DeviceReferenceData, *model.DeviceReferenceData, error) {
	if len(asDevice.ReferenceData) != 2 {
		return nil, nil, model.NewValidationError(
			"AS device '%s' links %d Device Reference Data resources, expected exactly two",
			asDevice.Name, len(asDevice.ReferenceData))
	}

	var messageSets, additionalInteractions *model.DeviceReferenceData
	for id := range asDevice.ReferenceData {
		drd, err := s.referenceData.Read(ctx, asDevice.ProductTeamID, asDevice.ProductID, id, model.EnvironmentProd)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case IsMessageSets(drd):
			messageSets = drd
		case IsAdditionalInteractions(drd):
			additionalInteractions = drd
		}
	}
	if messageSets == nil || additionalInteractions == nil {
		return nil, nil, model.NewValidationError(
			"AS device '%s' must link one MessageSets and one AdditionalInteractions Device Reference Data resource",
			asDevice.Name)
	}

	return messageSets, additionalInteractions, nil
}
