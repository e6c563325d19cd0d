package model

// Aggregate is implemented by every event-sourced entity: mutations append
// pending events which persistence adapters apply and then clear.
type Aggregate interface {
	AddEvent(event Event)
	PendingEvents() []Event
	ClearPendingEvents()
}
