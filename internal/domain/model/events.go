package model

type (
	// Event is the closed set of domain events emitted by aggregate
	// mutations. Persistence adapters apply events through an exhaustive
	// type switch.
	Event interface {
		isEvent()
	}

	ProductTeamCreated struct {
		ID ProductTeamID
	}

	ProductCreated struct {
		ID            ProductID
		ProductTeamID ProductTeamID
	}

	DeviceReferenceDataCreated struct {
		ID        DeviceReferenceDataID
		ProductID ProductID
	}

	QuestionnaireResponseAdded struct {
		DeviceReferenceDataID DeviceReferenceDataID
		QuestionnaireID       string
		ResponseID            string
	}

	QuestionnaireResponseRemoved struct {
		DeviceReferenceDataID DeviceReferenceDataID
		QuestionnaireID       string
		ResponseID            string
	}

	QuestionnaireResponsesCleared struct {
		DeviceReferenceDataID DeviceReferenceDataID
		QuestionnaireID       string
	}

	DeviceCreated struct {
		ID        DeviceID
		ProductID ProductID
	}

	DeviceKeyAdded struct {
		DeviceID DeviceID
		Key      DeviceKey
	}

	DeviceKeyRemoved struct {
		DeviceID DeviceID
		Key      DeviceKey
	}

	DeviceTagsAdded struct {
		DeviceID DeviceID
		Tags     []DeviceTag
	}

	DeviceTagsCleared struct {
		DeviceID DeviceID
	}

	DeviceResponseAdded struct {
		DeviceID        DeviceID
		QuestionnaireID string
		ResponseID      string
	}

	DeviceResponseRemoved struct {
		DeviceID        DeviceID
		QuestionnaireID string
		ResponseID      string
	}

	DeviceReferenceDataLinked struct {
		DeviceID              DeviceID
		DeviceReferenceDataID DeviceReferenceDataID
	}

	DeviceDeleted struct {
		ID DeviceID
	}
)

func (ProductTeamCreated) isEvent()            {}
func (ProductCreated) isEvent()                {}
func (DeviceReferenceDataCreated) isEvent()    {}
func (QuestionnaireResponseAdded) isEvent()    {}
func (QuestionnaireResponseRemoved) isEvent()  {}
func (QuestionnaireResponsesCleared) isEvent() {}
func (DeviceCreated) isEvent()                 {}
func (DeviceKeyAdded) isEvent()                {}
func (DeviceKeyRemoved) isEvent()              {}
func (DeviceTagsAdded) isEvent()               {}
func (DeviceTagsCleared) isEvent()             {}
func (DeviceResponseAdded) isEvent()           {}
func (DeviceResponseRemoved) isEvent()         {}
func (DeviceReferenceDataLinked) isEvent()     {}
func (DeviceDeleted) isEvent()                 {}
