package services

import (
	"sort"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// responseFromFieldMappingSubset validates the subset of record fields that
// route into the given field mapping, translated to internal question names.
// List values are sorted on ingestion.
func responseFromFieldMappingSubset(
	fields model.ResponseData,
	questionnaire model.Questionnaire,
	mapping model.FieldMapping,
) (model.QuestionnaireResponse, error) {
	translated := make(model.ResponseData)
	for field, value := range fields {
		internal, ok := mapping.Translate(field)
		if !ok || value == nil {
			continue
		}

		if list, isList := value.([]string); isList {
			sortedList := append([]string(nil), list...)
			sort.Strings(sortedList)
			translated[internal] = sortedList

			continue
		}
		translated[internal] = value
	}

	return questionnaire.Validate(translated)
}

// MhsDeviceData builds the MHS device questionnaire response from a record.
func MhsDeviceData(record spine.ChangeRecord, questionnaire model.Questionnaire, mapping model.FieldMapping) (model.QuestionnaireResponse, error) {
	return responseFromFieldMappingSubset(record.Fields, questionnaire, mapping)
}

// MessageSetData builds the message set questionnaire response from a record.
func MessageSetData(record spine.ChangeRecord, questionnaire model.Questionnaire, mapping model.FieldMapping) (model.QuestionnaireResponse, error) {
	return responseFromFieldMappingSubset(record.Fields, questionnaire, mapping)
}

// AccreditedSystemDeviceData builds the AS device questionnaire response
// from a record.
func AccreditedSystemDeviceData(record spine.ChangeRecord, questionnaire model.Questionnaire, mapping model.FieldMapping) (model.QuestionnaireResponse, error) {
	return responseFromFieldMappingSubset(record.Fields, questionnaire, mapping)
}

// AccreditedSystemTags projects the searchable tags for an AS record.
func AccreditedSystemTags(record spine.ChangeRecord) []model.DeviceTag {
	return model.ProjectTags(record.Fields, spine.DeviceQueryFieldCombinations(), spine.FieldUniqueIdentifier)
}

// InteractionTags projects the tags for a single interaction ID under a
// product, the shape fanned out to sibling AS devices.
func InteractionTags(interactionID, odsCode, partyKey string) []model.DeviceTag {
	data := model.ResponseData{
		spine.FieldAsInteractions: interactionID,
		spine.FieldIDCode:         odsCode,
		spine.FieldPartyKey:       partyKey,
	}

	return model.ProjectTags(data, spine.DeviceQueryFieldCombinations(), spine.FieldUniqueIdentifier)
}
