package services

import (
	"strings"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

func IsMessageSets(drd *model.DeviceReferenceData) bool {
	return strings.HasSuffix(drd.Name, spine.MessageSetsSuffix)
}

func IsAdditionalInteractions(drd *model.DeviceReferenceData) bool {
	return strings.HasSuffix(drd.Name, spine.AdditionalInteractionsSuffix)
}

func IsMhsDevice(device *model.Device) bool {
	return strings.HasSuffix(device.Name, spine.MhsDeviceSuffix)
}

func IsAsDevice(device *model.Device) bool {
	return strings.HasSuffix(device.Name, spine.AsDeviceSuffix)
}

// InteractionIDs collects the set of interaction ID values present across
// all responses of a message sets or additional interactions DRD.
func InteractionIDs(drd *model.DeviceReferenceData) map[string]struct{} {
	interactionIDs := make(map[string]struct{})
	for _, responses := range drd.Responses {
		for _, response := range responses {
			if id, ok := response.Data[spine.FieldNameInteractionID].(string); ok {
				interactionIDs[id] = struct{}{}
			}
		}
	}

	return interactionIDs
}

// FilterMessageSetByCpaID finds the message set response holding the given
// CPA ID. A CPA ID identifies exactly one response; zero or several matches
// indicate corrupted reference data.
func FilterMessageSetByCpaID(messageSets *model.DeviceReferenceData, cpaID string) (model.QuestionnaireResponse, error) {
	var matches []model.QuestionnaireResponse
	for _, responses := range messageSets.Responses {
		for _, response := range responses {
			if response.Data[spine.FieldNameCpaID] == cpaID {
				matches = append(matches, response)
			}
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.QuestionnaireResponse{}, model.NewValidationError(
			"no message set found for CPA ID '%s' on '%s'", cpaID, messageSets.Name)
	default:
		return model.QuestionnaireResponse{}, model.NewValidationError(
			"%d message sets found for CPA ID '%s' on '%s', expected exactly one",
			len(matches), cpaID, messageSets.Name)
	}
}
