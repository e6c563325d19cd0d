package model

import "time"

// DeviceReferenceData is a named bag of questionnaire responses scoped to a
// Product, linked by reference from one or more Devices. Responses are
// grouped by questionnaire instance ID.
type DeviceReferenceData struct {
	ID            DeviceReferenceDataID
	Name          string
	OdsCode       string
	Environment   Environment
	ProductID     ProductID
	ProductTeamID ProductTeamID
	Responses     map[string][]QuestionnaireResponse
	Status        Status
	CreatedOn     time.Time
	UpdatedOn     time.Time

	pendingEvents []Event
}

func NewDeviceReferenceData(name, odsCode string, env Environment, productID ProductID, productTeamID ProductTeamID) *DeviceReferenceData {
	now := time.Now().UTC()

	drd := &DeviceReferenceData{
		ID:            NewDeviceReferenceDataID(),
		Name:          name,
		OdsCode:       odsCode,
		Environment:   env,
		ProductID:     productID,
		ProductTeamID: productTeamID,
		Responses:     make(map[string][]QuestionnaireResponse),
		Status:        StatusActive,
		CreatedOn:     now,
		UpdatedOn:     now,
	}
	drd.AddEvent(DeviceReferenceDataCreated{ID: drd.ID, ProductID: productID})

	return drd
}

// AddResponse appends a validated response under its questionnaire instance.
func (d *DeviceReferenceData) AddResponse(response QuestionnaireResponse) {
	questionnaireID := response.QuestionnaireID()
	d.Responses[questionnaireID] = append(d.Responses[questionnaireID], response)
	d.touch()
	d.AddEvent(QuestionnaireResponseAdded{
		DeviceReferenceDataID: d.ID,
		QuestionnaireID:       questionnaireID,
		ResponseID:            response.ID,
	})
}

// RemoveResponse removes the response with the given ID.
func (d *DeviceReferenceData) RemoveResponse(questionnaireID, responseID string) error {
	responses := d.Responses[questionnaireID]
	for i, response := range responses {
		if response.ID != responseID {
			continue
		}

		d.Responses[questionnaireID] = append(responses[:i:i], responses[i+1:]...)
		if len(d.Responses[questionnaireID]) == 0 {
			delete(d.Responses, questionnaireID)
		}
		d.touch()
		d.AddEvent(QuestionnaireResponseRemoved{
			DeviceReferenceDataID: d.ID,
			QuestionnaireID:       questionnaireID,
			ResponseID:            responseID,
		})

		return nil
	}

	return NewValidationError(
		"questionnaire response '%s' not found on device reference data '%s'", responseID, d.Name)
}

// ClearResponses drops every response for the questionnaire instance.
func (d *DeviceReferenceData) ClearResponses(questionnaireID string) {
	if _, ok := d.Responses[questionnaireID]; !ok {
		return
	}

	delete(d.Responses, questionnaireID)
	d.touch()
	d.AddEvent(QuestionnaireResponsesCleared{
		DeviceReferenceDataID: d.ID,
		QuestionnaireID:       questionnaireID,
	})
}

// ResponsesFor returns the responses recorded for a questionnaire instance.
func (d *DeviceReferenceData) ResponsesFor(questionnaireID string) []QuestionnaireResponse {
	return d.Responses[questionnaireID]
}

func (d *DeviceReferenceData) touch() {
	d.UpdatedOn = time.Now().UTC()
}

func (d *DeviceReferenceData) AddEvent(event Event) {
	d.pendingEvents = append(d.pendingEvents, event)
}

func (d *DeviceReferenceData) PendingEvents() []Event {
	return d.pendingEvents
}

func (d *DeviceReferenceData) ClearPendingEvents() {
	d.pendingEvents = nil
}
