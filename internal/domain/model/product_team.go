package model

import "time"

// ProductTeam owns the Products registered under one ODS organisation code.
type ProductTeam struct {
	ID        ProductTeamID
	Name      string
	OdsCode   string
	Keys      []ProductTeamKey
	Status    Status
	CreatedOn time.Time
	UpdatedOn time.Time

	pendingEvents []Event
}

func NewProductTeam(name, odsCode string, keys []ProductTeamKey) *ProductTeam {
	now := time.Now().UTC()

	team := &ProductTeam{
		ID:        NewProductTeamID(),
		Name:      name,
		OdsCode:   odsCode,
		Keys:      keys,
		Status:    StatusActive,
		CreatedOn: now,
		UpdatedOn: now,
	}
	team.AddEvent(ProductTeamCreated{ID: team.ID})

	return team
}

func (t *ProductTeam) AddEvent(event Event) {
	t.pendingEvents = append(t.pendingEvents, event)
}

func (t *ProductTeam) PendingEvents() []Event {
	return t.pendingEvents
}

func (t *ProductTeam) ClearPendingEvents() {
	t.pendingEvents = nil
}
