// Package services implements the incremental update engine that applies
// parsed SDS change records to the product team, product, device reference
// data and device aggregates. Processors never persist: they return the full
// set of touched aggregates and leave persistence to the caller.
package services

import (
	"context"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/nhsdigital/cpm-registry/internal/ports"
)

// questionnaireContext pairs a questionnaire instance with the external field
// mapping that routes record fields into it.
type questionnaireContext struct {
	questionnaire model.Questionnaire
	mapping       model.FieldMapping
}

// ChangeRequestService applies change records against the aggregate graph.
// Questionnaire instances and field mappings are resolved once at
// construction.
type ChangeRequestService struct {
	productTeams  ports.ProductTeamRepository
	products      ports.ProductRepository
	referenceData ports.DeviceReferenceDataRepository
	devices       ports.DeviceRepository

	mhsDevice              questionnaireContext
	messageSets            questionnaireContext
	accreditedSystem       questionnaireContext
	additionalInteractions questionnaireContext
}

// NewChangeRequestService builds the service, resolving every questionnaire
// instance and field mapping from the catalog up front.
func NewChangeRequestService(
	productTeams ports.ProductTeamRepository,
	products ports.ProductRepository,
	referenceData ports.DeviceReferenceDataRepository,
	devices ports.DeviceRepository,
	catalog ports.QuestionnaireCatalog,
) (*ChangeRequestService, error) {
	service := &ChangeRequestService{
		productTeams:  productTeams,
		products:      products,
		referenceData: referenceData,
		devices:       devices,
	}

	for name, target := range map[string]*questionnaireContext{
		spine.QuestionnaireMhs:                   &service.mhsDevice,
		spine.QuestionnaireMhsMessageSets:        &service.messageSets,
		spine.QuestionnaireAs:                    &service.accreditedSystem,
		spine.QuestionnaireAsAdditionalInteracts: &service.additionalInteractions,
	} {
		questionnaire, err := catalog.Read(name)
		if err != nil {
			return nil, err
		}
		mapping, err := catalog.ReadFieldMapping(name)
		if err != nil {
			return nil, err
		}
		*target = questionnaireContext{questionnaire: questionnaire, mapping: mapping}
	}

	return service, nil
}

// AddMhs applies an incoming MHS record: read-or-create the team, product and
// MessageSets DRD, upsert the record's message set, fix up any additional
// interactions now covered by the message sets, and read-or-create the MHS
// device with the record's CPA ID as a key.
func (s *ChangeRequestService) AddMhs(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error) {
	record = record.ImputeManufacturerOrg()

	cpaID := record.String(spine.FieldCpaID)
	productName := record.String(spine.FieldProductName)
	if productName == "" {
		productName = cpaID
	}
	partyKey := record.String(spine.FieldPartyKey)
	odsCode := record.String(spine.FieldManufacturerOrg)

	team, err := s.ReadOrCreateEprProductTeam(ctx, odsCode)
	if err != nil {
		return nil, err
	}
	product, err := s.ReadOrCreateEprProduct(ctx, team, productName, partyKey)
	if err != nil {
		return nil, err
	}

	messageSetData, err := MessageSetData(record, s.messageSets.questionnaire, s.messageSets.mapping)
	if err != nil {
		return nil, err
	}
	messageSets, err := s.ReadOrCreateEmptyMessageSets(ctx, product, partyKey)
	if err != nil {
		return nil, err
	}
	if err := UpdateMessageSets(messageSets, []model.QuestionnaireResponse{messageSetData}); err != nil {
		return nil, err
	}

	mhsDeviceData, err := MhsDeviceData(record, s.mhsDevice.questionnaire, s.mhsDevice.mapping)
	if err != nil {
		return nil, err
	}

	additionalInteractions, err := s.ReadAdditionalInteractionsIfExists(ctx, product.ProductTeamID, product.ID)
	if err != nil {
		return nil, err
	}
	if additionalInteractions != nil {
		if err := RemoveErroneousAdditionalInteractions(messageSets, additionalInteractions); err != nil {
			return nil, err
		}
	}

	mhsDevice, err := s.ReadOrCreateMhsDevice(ctx, cpaID, partyKey, product, messageSets, mhsDeviceData)
	if err != nil {
		return nil, err
	}

	if !mhsDevice.HasKey(cpaID) {
		if err := mhsDevice.AddKey(model.DeviceKey{Type: model.KeyTypeCpaID, Value: cpaID}); err != nil {
			return nil, err
		}
	}
	if _, linked := mhsDevice.ReferenceData[messageSets.ID]; !linked {
		mhsDevice.LinkReferenceData(messageSets.ID, []string{spine.PathAll})
	}

	aggregates := []model.Aggregate{team, product, messageSets}
	if additionalInteractions != nil {
		aggregates = append(aggregates, additionalInteractions)
	}

	return append(aggregates, mhsDevice), nil
}

// AddAccreditedSystem applies an incoming AS record: read-or-create the team,
// product and both DRDs, record any genuinely new additional interactions,
// fan the matching tags out to every existing AS device under the product,
// and read-or-create the AS device keyed by ASID.
func (s *ChangeRequestService) AddAccreditedSystem(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error) {
	record = record.ImputeManufacturerOrg()

	asid := record.UniqueIdentifier
	productName := record.String(spine.FieldProductName)
	if productName == "" {
		productName = asid
	}
	partyKey := record.String(spine.FieldPartyKey)
	odsCode := record.String(spine.FieldManufacturerOrg)

	team, err := s.ReadOrCreateEprProductTeam(ctx, odsCode)
	if err != nil {
		return nil, err
	}
	product, err := s.ReadOrCreateEprProduct(ctx, team, productName, partyKey)
	if err != nil {
		return nil, err
	}

	messageSets, err := s.ReadOrCreateEmptyMessageSets(ctx, product, partyKey)
	if err != nil {
		return nil, err
	}
	additionalInteractions, err := s.ReadOrCreateEmptyAdditionalInteractions(ctx, product, partyKey)
	if err != nil {
		return nil, err
	}

	newInteractionIDs, err := UpdateNewAdditionalInteractions(
		additionalInteractions,
		messageSets,
		record.Strings(spine.FieldAsInteractions),
		s.additionalInteractions.questionnaire,
	)
	if err != nil {
		return nil, err
	}

	var updatedAsDevices []*model.Device
	if len(newInteractionIDs) > 0 {
		devices, err := s.devices.Search(ctx, product.ProductTeamID, product.ID, model.EnvironmentProd)
		if err != nil {
			return nil, err
		}

		var newTags []model.DeviceTag
		for _, interactionID := range newInteractionIDs {
			newTags = append(newTags, InteractionTags(interactionID, odsCode, partyKey)...)
		}
		for _, device := range devices {
			if !IsAsDevice(device) {
				continue
			}
			device.AddTags(newTags)
			updatedAsDevices = append(updatedAsDevices, device)
		}
	}

	asDeviceData, err := AccreditedSystemDeviceData(record, s.accreditedSystem.questionnaire, s.accreditedSystem.mapping)
	if err != nil {
		return nil, err
	}
	asTags := AccreditedSystemTags(record)

	asDevice, err := s.ReadOrCreateAsDevice(ctx, asid, partyKey, product, messageSets, additionalInteractions, asDeviceData, asTags)
	if err != nil {
		return nil, err
	}

	if !asDevice.HasKey(asid) {
		if err := asDevice.AddKey(model.DeviceKey{Type: model.KeyTypeAccreditedSystemID, Value: asid}); err != nil {
			return nil, err
		}
	}
	if _, linked := asDevice.ReferenceData[messageSets.ID]; !linked {
		asDevice.LinkReferenceData(messageSets.ID, []string{spine.PathAllInteractionIDs})
	}
	if _, linked := asDevice.ReferenceData[additionalInteractions.ID]; !linked {
		asDevice.LinkReferenceData(additionalInteractions.ID, []string{spine.PathAllInteractionIDs})
	}

	aggregates := []model.Aggregate{team, product, messageSets, additionalInteractions, asDevice}
	for _, device := range updatedAsDevices {
		if device != asDevice {
			aggregates = append(aggregates, device)
		}
	}

	return aggregates, nil
}

// DeleteMhs removes one CPA ID from an MHS device together with the matching
// message set response, hard-deleting the device once it holds no keys.
func (s *ChangeRequestService) DeleteMhs(ctx context.Context, device *model.Device, cpaID string) ([]model.Aggregate, error) {
	if err := device.RemoveKey(cpaID); err != nil {
		return nil, err
	}

	messageSets, err := s.ReadMessageSetsFromMhsDevice(ctx, device)
	if err != nil {
		return nil, err
	}
	messageSet, err := FilterMessageSetByCpaID(messageSets, cpaID)
	if err != nil {
		return nil, err
	}
	if err := messageSets.RemoveResponse(messageSet.QuestionnaireID(), messageSet.ID); err != nil {
		return nil, err
	}

	if len(device.Keys) == 0 {
		device.Delete()
	}

	return []model.Aggregate{device, messageSets}, nil
}

// DeleteAccreditedSystem hard-deletes an AS device. When no sibling AS device
// remains under the product, the AdditionalInteractions DRD is emptied too.
func (s *ChangeRequestService) DeleteAccreditedSystem(ctx context.Context, device *model.Device) ([]model.Aggregate, error) {
	device.Delete()

	devices, err := s.devices.Search(ctx, device.ProductTeamID, device.ProductID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}
	additionalInteractions, err := s.ReadAdditionalInteractionsIfExists(ctx, device.ProductTeamID, device.ProductID)
	if err != nil {
		return nil, err
	}

	siblingRemains := false
	for _, sibling := range devices {
		if IsAsDevice(sibling) && sibling.ID != device.ID {
			siblingRemains = true

			break
		}
	}
	if !siblingRemains && additionalInteractions != nil {
		questionnaireIDs := make([]string, 0, len(additionalInteractions.Responses))
		for questionnaireID := range additionalInteractions.Responses {
			questionnaireIDs = append(questionnaireIDs, questionnaireID)
		}
		for _, questionnaireID := range questionnaireIDs {
			additionalInteractions.ClearResponses(questionnaireID)
		}
	}

	aggregates := []model.Aggregate{device}
	if additionalInteractions != nil {
		aggregates = append(aggregates, additionalInteractions)
	}

	return aggregates, nil
}

// AddToMhs merges values into one field of the MHS document identified by
// CPA ID.
func (s *ChangeRequestService) AddToMhs(ctx context.Context, device *model.Device, cpaID, field string, values []string) ([]model.Aggregate, error) {
	return s.modifyMhs(ctx, device, cpaID, field, func(questionnaire model.Questionnaire, data model.ResponseData, internal string) (model.QuestionnaireResponse, error) {
		return AddToField(questionnaire, data, internal, values)
	})
}

// ReplaceInMhs overwrites one field of the MHS document identified by CPA ID,
// then re-runs the additional interactions fix-up against the updated
// message sets.
func (s *ChangeRequestService) ReplaceInMhs(ctx context.Context, device *model.Device, cpaID, field string, values []string) ([]model.Aggregate, error) {
	aggregates, err := s.modifyMhs(ctx, device, cpaID, field, func(questionnaire model.Questionnaire, data model.ResponseData, internal string) (model.QuestionnaireResponse, error) {
		return ReplaceField(questionnaire, data, internal, values)
	})
	if err != nil {
		return nil, err
	}

	messageSets := aggregates[1].(*model.DeviceReferenceData)
	additionalInteractions, err := s.ReadAdditionalInteractionsIfExists(ctx, device.ProductTeamID, device.ProductID)
	if err != nil {
		return nil, err
	}
	if additionalInteractions != nil {
		if err := RemoveErroneousAdditionalInteractions(messageSets, additionalInteractions); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, additionalInteractions)
	}

	return aggregates, nil
}

// DeleteFromMhs clears one optional field of the MHS document identified by
// CPA ID.
func (s *ChangeRequestService) DeleteFromMhs(ctx context.Context, device *model.Device, cpaID, field string) ([]model.Aggregate, error) {
	return s.modifyMhs(ctx, device, cpaID, field, func(questionnaire model.Questionnaire, data model.ResponseData, internal string) (model.QuestionnaireResponse, error) {
		return RemoveField(questionnaire, data, internal)
	})
}

// modifyMhs routes one field modification to either the MHS device document
// or the message set holding the CPA ID. The immutability guard runs against
// the translated field before any routing decision.
func (s *ChangeRequestService) modifyMhs(
	ctx context.Context,
	device *model.Device,
	cpaID, field string,
	mutate func(model.Questionnaire, model.ResponseData, string) (model.QuestionnaireResponse, error),
) ([]model.Aggregate, error) {
	messageSetField, inMessageSet := s.messageSets.mapping.Translate(field)
	deviceField, inDevice := s.mhsDevice.mapping.Translate(field)

	translated := messageSetField
	if translated == "" {
		translated = deviceField
	}
	if _, immutable := spine.MhsImmutableFields[translated]; immutable {
		return nil, model.ImmutableFieldError{Field: field}
	}

	deviceResponse, ok := device.ResponseFor(spine.QuestionnaireMhsID)
	if !ok {
		return nil, model.NewValidationError(
			"MHS device '%s' holds no '%s' questionnaire response", device.Name, spine.QuestionnaireMhsID)
	}
	messageSets, err := s.ReadMessageSetsFromMhsDevice(ctx, device)
	if err != nil {
		return nil, err
	}
	messageSet, err := FilterMessageSetByCpaID(messageSets, cpaID)
	if err != nil {
		return nil, err
	}

	switch {
	case inMessageSet && !inDevice:
		updated, err := mutate(s.messageSets.questionnaire, messageSet.Data, messageSetField)
		if err != nil {
			return nil, err
		}
		if err := messageSets.RemoveResponse(messageSet.QuestionnaireID(), messageSet.ID); err != nil {
			return nil, err
		}
		messageSets.AddResponse(updated)
	case inDevice && !inMessageSet:
		updated, err := mutate(s.mhsDevice.questionnaire, deviceResponse.Data, deviceField)
		if err != nil {
			return nil, err
		}
		if err := device.RemoveResponse(deviceResponse.QuestionnaireID(), deviceResponse.ID); err != nil {
			return nil, err
		}
		device.AddResponse(updated)
	default:
		return nil, model.NewUnexpectedModification(
			"no strategy implemented for field '%s' on an MHS device", field)
	}

	return []model.Aggregate{device, messageSets}, nil
}

// AddToAccreditedSystem merges values into one field of the AS document. New
// interaction IDs are recorded as additional interactions and their tags
// fanned out to every AS device under the product.
func (s *ChangeRequestService) AddToAccreditedSystem(ctx context.Context, device *model.Device, field string, values []string) ([]model.Aggregate, error) {
	return s.modifyAs(ctx, spine.ModificationAdd, device, field, values)
}

// ReplaceInAccreditedSystem overwrites one field of the AS document. For the
// interaction field the additional interactions and the tags of every AS
// device under the product are rebuilt from scratch.
func (s *ChangeRequestService) ReplaceInAccreditedSystem(ctx context.Context, device *model.Device, field string, values []string) ([]model.Aggregate, error) {
	return s.modifyAs(ctx, spine.ModificationReplace, device, field, values)
}

// DeleteFromAccreditedSystem clears one optional field of the AS document.
func (s *ChangeRequestService) DeleteFromAccreditedSystem(ctx context.Context, device *model.Device, field string) ([]model.Aggregate, error) {
	return s.modifyAs(ctx, spine.ModificationDelete, device, field, nil)
}

// modifyAs routes one field modification to either the AS device document or
// the product's AdditionalInteractions DRD.
func (s *ChangeRequestService) modifyAs(
	ctx context.Context,
	modificationType spine.ModificationType,
	device *model.Device,
	field string,
	values []string,
) ([]model.Aggregate, error) {
	interactionField, inInteractions := s.additionalInteractions.mapping.Translate(field)
	deviceField, inDevice := s.accreditedSystem.mapping.Translate(field)

	translated := interactionField
	if translated == "" {
		translated = deviceField
	}
	if _, immutable := spine.AccreditedSystemImmutableFields[translated]; immutable {
		return nil, model.ImmutableFieldError{Field: field}
	}

	deviceResponse, ok := device.ResponseFor(spine.QuestionnaireAsID)
	if !ok {
		return nil, model.NewValidationError(
			"AS device '%s' holds no '%s' questionnaire response", device.Name, spine.QuestionnaireAsID)
	}
	messageSets, additionalInteractions, err := s.ReadDrdsFromAsDevice(ctx, device)
	if err != nil {
		return nil, err
	}

	switch {
	case inInteractions && !inDevice:
		return s.modifyAsInteractions(ctx, modificationType, device, deviceResponse, messageSets, additionalInteractions, field, values)
	case inDevice && !inInteractions:
		var updated model.QuestionnaireResponse
		switch modificationType {
		case spine.ModificationAdd:
			updated, err = AddToField(s.accreditedSystem.questionnaire, deviceResponse.Data, deviceField, values)
		case spine.ModificationReplace:
			updated, err = ReplaceField(s.accreditedSystem.questionnaire, deviceResponse.Data, deviceField, values)
		case spine.ModificationDelete:
			updated, err = RemoveField(s.accreditedSystem.questionnaire, deviceResponse.Data, deviceField)
		}
		if err != nil {
			return nil, err
		}
		if err := device.RemoveResponse(deviceResponse.QuestionnaireID(), deviceResponse.ID); err != nil {
			return nil, err
		}
		device.AddResponse(updated)

		return []model.Aggregate{device, additionalInteractions}, nil
	default:
		return nil, model.NewUnexpectedModification(
			"no strategy implemented for field '%s' on an Accredited System device", field)
	}
}

// modifyAsInteractions applies an add or replace of the AS interaction field.
// Interactions already covered by the message sets never gain an additional
// interactions response, but replace still re-tags them.
func (s *ChangeRequestService) modifyAsInteractions(
	ctx context.Context,
	modificationType spine.ModificationType,
	device *model.Device,
	deviceResponse model.QuestionnaireResponse,
	messageSets, additionalInteractions *model.DeviceReferenceData,
	field string,
	values []string,
) ([]model.Aggregate, error) {
	if modificationType == spine.ModificationDelete {
		return nil, model.NewUnexpectedModification("Cannot remove required field '%s'", field)
	}

	partyKey, _ := deviceResponse.Data[spine.FieldNamePartyKey].(string)

	devices, err := s.devices.Search(ctx, device.ProductTeamID, device.ProductID, model.EnvironmentProd)
	if err != nil {
		return nil, err
	}
	var asDevices []*model.Device
	for _, candidate := range devices {
		if IsAsDevice(candidate) {
			asDevices = append(asDevices, candidate)
		}
	}

	recordedInteractionIDs := InteractionIDs(additionalInteractions)
	messageSetInteractionIDs := InteractionIDs(messageSets)

	var newTags []model.DeviceTag
	addInteraction := func(interactionID string) error {
		response, err := s.additionalInteractions.questionnaire.Validate(
			model.ResponseData{spine.FieldNameInteractionID: interactionID})
		if err != nil {
			return err
		}
		additionalInteractions.AddResponse(response)

		return nil
	}

	switch modificationType {
	case spine.ModificationAdd:
		for _, interactionID := range values {
			if _, recorded := recordedInteractionIDs[interactionID]; recorded {
				continue
			}
			if _, covered := messageSetInteractionIDs[interactionID]; covered {
				continue
			}
			if err := addInteraction(interactionID); err != nil {
				return nil, err
			}
			newTags = append(newTags, InteractionTags(interactionID, device.OdsCode, partyKey)...)
		}
	case spine.ModificationReplace:
		questionnaireIDs := make([]string, 0, len(additionalInteractions.Responses))
		for questionnaireID := range additionalInteractions.Responses {
			questionnaireIDs = append(questionnaireIDs, questionnaireID)
		}
		for _, questionnaireID := range questionnaireIDs {
			additionalInteractions.ClearResponses(questionnaireID)
		}
		for _, asDevice := range asDevices {
			asDevice.ClearTags()
		}

		for _, interactionID := range values {
			newTags = append(newTags, InteractionTags(interactionID, device.OdsCode, partyKey)...)
			if _, covered := messageSetInteractionIDs[interactionID]; covered {
				continue
			}
			if err := addInteraction(interactionID); err != nil {
				return nil, err
			}
		}
	}

	aggregates := []model.Aggregate{additionalInteractions}
	if modificationType == spine.ModificationReplace || len(newTags) > 0 {
		for _, asDevice := range asDevices {
			asDevice.AddTags(newTags)
			aggregates = append(aggregates, asDevice)
		}
	}

	return aggregates, nil
}
