package model

import "time"

// Device is a registered Spine endpoint: either a Message Handling System
// keyed by CPA ID or an Accredited System keyed by ASID. Devices link the
// DeviceReferenceData they consume by ID with path selectors.
type Device struct {
	ID            DeviceID
	Name          string
	OdsCode       string
	Environment   Environment
	ProductID     ProductID
	ProductTeamID ProductTeamID
	Keys          []DeviceKey
	Tags          []DeviceTag
	Responses     map[string][]QuestionnaireResponse
	ReferenceData map[DeviceReferenceDataID][]string
	Status        Status
	CreatedOn     time.Time
	UpdatedOn     time.Time
	DeletedOn     time.Time

	pendingEvents []Event
}

func NewDevice(name, odsCode string, env Environment, productID ProductID, productTeamID ProductTeamID) *Device {
	now := time.Now().UTC()

	device := &Device{
		ID:            NewDeviceID(),
		Name:          name,
		OdsCode:       odsCode,
		Environment:   env,
		ProductID:     productID,
		ProductTeamID: productTeamID,
		Responses:     make(map[string][]QuestionnaireResponse),
		ReferenceData: make(map[DeviceReferenceDataID][]string),
		Status:        StatusActive,
		CreatedOn:     now,
		UpdatedOn:     now,
	}
	device.AddEvent(DeviceCreated{ID: device.ID, ProductID: productID})

	return device
}

// AddKey attaches a natural key. Key values are unique within a device.
func (d *Device) AddKey(key DeviceKey) error {
	if d.HasKey(key.Value) {
		return ErrDuplicateKey
	}

	d.Keys = append(d.Keys, key)
	d.touch()
	d.AddEvent(DeviceKeyAdded{DeviceID: d.ID, Key: key})

	return nil
}

func (d *Device) HasKey(value string) bool {
	for _, key := range d.Keys {
		if key.Value == value {
			return true
		}
	}

	return false
}

func (d *Device) RemoveKey(value string) error {
	for i, key := range d.Keys {
		if key.Value != value {
			continue
		}

		d.Keys = append(d.Keys[:i:i], d.Keys[i+1:]...)
		d.touch()
		d.AddEvent(DeviceKeyRemoved{DeviceID: d.ID, Key: key})

		return nil
	}

	return NewValidationError("device key '%s' not found on device '%s'", value, d.Name)
}

// AddTags attaches searchable tags, skipping any the device already has.
// Returns the tags that were genuinely added.
func (d *Device) AddTags(tags []DeviceTag) []DeviceTag {
	existing := make(map[string]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		existing[tag.Value()] = struct{}{}
	}

	var added []DeviceTag
	for _, tag := range tags {
		value := tag.Value()
		if _, ok := existing[value]; ok {
			continue
		}
		existing[value] = struct{}{}
		added = append(added, tag)
	}

	if len(added) == 0 {
		return nil
	}

	d.Tags = append(d.Tags, added...)
	d.touch()
	d.AddEvent(DeviceTagsAdded{DeviceID: d.ID, Tags: added})

	return added
}

func (d *Device) HasTag(tag DeviceTag) bool {
	value := tag.Value()
	for _, existing := range d.Tags {
		if existing.Value() == value {
			return true
		}
	}

	return false
}

func (d *Device) ClearTags() {
	if len(d.Tags) == 0 {
		return
	}

	d.Tags = nil
	d.touch()
	d.AddEvent(DeviceTagsCleared{DeviceID: d.ID})
}

// AddResponse appends a validated response under its questionnaire
// instance. MHS and AS root questionnaires carry at most one response.
func (d *Device) AddResponse(response QuestionnaireResponse) {
	questionnaireID := response.QuestionnaireID()
	d.Responses[questionnaireID] = append(d.Responses[questionnaireID], response)
	d.touch()
	d.AddEvent(DeviceResponseAdded{
		DeviceID:        d.ID,
		QuestionnaireID: questionnaireID,
		ResponseID:      response.ID,
	})
}

func (d *Device) RemoveResponse(questionnaireID, responseID string) error {
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
		d.AddEvent(DeviceResponseRemoved{
			DeviceID:        d.ID,
			QuestionnaireID: questionnaireID,
			ResponseID:      responseID,
		})

		return nil
	}

	return NewValidationError(
		"questionnaire response '%s' not found on device '%s'", responseID, d.Name)
}

// ResponseFor returns the single response recorded for a questionnaire
// instance, false when absent.
func (d *Device) ResponseFor(questionnaireID string) (QuestionnaireResponse, bool) {
	responses := d.Responses[questionnaireID]
	if len(responses) == 0 {
		return QuestionnaireResponse{}, false
	}

	return responses[0], true
}

// LinkReferenceData records that this device consumes a DeviceReferenceData,
// with path selectors scoping which responses apply. Re-linking the same
// DRD is a no-op.
func (d *Device) LinkReferenceData(id DeviceReferenceDataID, paths []string) {
	if _, ok := d.ReferenceData[id]; ok {
		return
	}

	d.ReferenceData[id] = paths
	d.touch()
	d.AddEvent(DeviceReferenceDataLinked{DeviceID: d.ID, DeviceReferenceDataID: id})
}

// Delete hard-deletes the device: keys and tags are purged so the device is
// unreachable by any lookup, and the deletion is flagged on the snapshot.
func (d *Device) Delete() {
	d.Keys = nil
	d.Tags = nil
	d.Status = StatusInactive
	d.DeletedOn = time.Now().UTC()
	d.touch()
	d.AddEvent(DeviceDeleted{ID: d.ID})
}

func (d *Device) IsDeleted() bool {
	return !d.DeletedOn.IsZero()
}

func (d *Device) touch() {
	d.UpdatedOn = time.Now().UTC()
}

func (d *Device) AddEvent(event Event) {
	d.pendingEvents = append(d.pendingEvents, event)
}

func (d *Device) PendingEvents() []Event {
	return d.pendingEvents
}

func (d *Device) ClearPendingEvents() {
	d.pendingEvents = nil
}
