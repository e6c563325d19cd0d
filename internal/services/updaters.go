package services

import (
	"sort"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// AddToField merges newValues into one field of a questionnaire response's
// data and returns a freshly validated response.
//
// Multi answer fields take the union of current and new values. A single
// answer field may only be set when currently empty and exactly one value is
// supplied; anything else is an unexpected modification.
func AddToField(questionnaire model.Questionnaire, data model.ResponseData, field string, newValues []string) (model.QuestionnaireResponse, error) {
	question, ok := questionnaire.Questions[field]
	if !ok {
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"field '%s' is not part of questionnaire '%s'", field, questionnaire.ID())
	}

	current := data.Values(field)

	updated := data.Copy()
	switch {
	case question.Multiple:
		updated[field] = unionValues(current, newValues)
	case len(current) == 0 && len(newValues) == 1:
		updated[field] = newValues[0]
	default:
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"no strategy implemented for field '%s' with values %v, given current value %v",
			field, newValues, current)
	}

	return questionnaire.Validate(updated)
}

// ReplaceField overwrites one field of a questionnaire response's data and
// returns a freshly validated response.
func ReplaceField(questionnaire model.Questionnaire, data model.ResponseData, field string, newValues []string) (model.QuestionnaireResponse, error) {
	question, ok := questionnaire.Questions[field]
	if !ok {
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"field '%s' is not part of questionnaire '%s'", field, questionnaire.ID())
	}

	updated := data.Copy()
	switch {
	case question.Multiple:
		updated[field] = append([]string(nil), newValues...)
	case len(newValues) == 1:
		updated[field] = newValues[0]
	default:
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"no strategy implemented for field '%s' with values %v", field, newValues)
	}

	return questionnaire.Validate(updated)
}

// RemoveField clears one field of a questionnaire response's data, removing
// the key entirely, and returns a freshly validated response. Removing a
// mandatory field is an unexpected modification.
func RemoveField(questionnaire model.Questionnaire, data model.ResponseData, field string) (model.QuestionnaireResponse, error) {
	question, ok := questionnaire.Questions[field]
	if !ok {
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"field '%s' is not part of questionnaire '%s'", field, questionnaire.ID())
	}
	if question.Mandatory {
		return model.QuestionnaireResponse{}, model.NewUnexpectedModification(
			"Cannot remove required field '%s'", field)
	}

	updated := data.Copy()
	delete(updated, field)

	return questionnaire.Validate(updated)
}

// UpdateMessageSets upserts message set responses into the MessageSets DRD,
// replacing any existing response holding the same interaction ID.
func UpdateMessageSets(messageSets *model.DeviceReferenceData, messageSetData []model.QuestionnaireResponse) error {
	type responseRef struct {
		questionnaireID string
		responseID      string
	}

	byInteractionID := make(map[string]responseRef)
	for questionnaireID, responses := range messageSets.Responses {
		for _, response := range responses {
			if id, ok := response.Data[spine.FieldNameInteractionID].(string); ok {
				byInteractionID[id] = responseRef{questionnaireID: questionnaireID, responseID: response.ID}
			}
		}
	}

	for _, messageSet := range messageSetData {
		interactionID, _ := messageSet.Data[spine.FieldNameInteractionID].(string)
		if existing, ok := byInteractionID[interactionID]; ok {
			if err := messageSets.RemoveResponse(existing.questionnaireID, existing.responseID); err != nil {
				return err
			}
		}
		messageSets.AddResponse(messageSet)
	}

	return nil
}

// UpdateNewAdditionalInteractions merges incoming interaction IDs into the
// AdditionalInteractions DRD, skipping any already covered by the message
// sets or already recorded. Returns the genuinely new interaction IDs, used
// to fan tags out to existing AS devices.
func UpdateNewAdditionalInteractions(
	additionalInteractions *model.DeviceReferenceData,
	messageSets *model.DeviceReferenceData,
	incomingInteractionIDs []string,
	questionnaire model.Questionnaire,
) ([]string, error) {
	existing := InteractionIDs(messageSets)
	for id := range InteractionIDs(additionalInteractions) {
		existing[id] = struct{}{}
	}

	var newInteractionIDs []string
	seen := make(map[string]struct{})
	for _, id := range incomingInteractionIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		newInteractionIDs = append(newInteractionIDs, id)
	}
	sort.Strings(newInteractionIDs)

	for _, id := range newInteractionIDs {
		response, err := questionnaire.Validate(model.ResponseData{spine.FieldNameInteractionID: id})
		if err != nil {
			return nil, err
		}
		additionalInteractions.AddResponse(response)
	}

	return newInteractionIDs, nil
}

// RemoveErroneousAdditionalInteractions drops every additional interactions
// response whose interaction ID is covered by the message sets, keeping the
// two DRDs of a product disjoint.
func RemoveErroneousAdditionalInteractions(messageSets, additionalInteractions *model.DeviceReferenceData) error {
	mhsInteractionIDs := InteractionIDs(messageSets)

	type responseRef struct {
		questionnaireID string
		responseID      string
	}

	var toRemove []responseRef
	for questionnaireID, responses := range additionalInteractions.Responses {
		for _, response := range responses {
			id, ok := response.Data[spine.FieldNameInteractionID].(string)
			if !ok {
				continue
			}
			if _, covered := mhsInteractionIDs[id]; covered {
				toRemove = append(toRemove, responseRef{questionnaireID: questionnaireID, responseID: response.ID})
			}
		}
	}

	for _, ref := range toRemove {
		if err := additionalInteractions.RemoveResponse(ref.questionnaireID, ref.responseID); err != nil {
			return err
		}
	}

	return nil
}

func unionValues(current, newValues []string) []string {
	seen := make(map[string]struct{}, len(current))
	union := append([]string(nil), current...)
	for _, value := range current {
		seen[value] = struct{}{}
	}
	for _, value := range newValues {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		union = append(union, value)
	}

	return union
}
