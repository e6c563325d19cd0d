package model

import "time"

// Product is one deployed software product under a ProductTeam, scoped by a
// party key.
type Product struct {
	ID            ProductID
	Name          string
	OdsCode       string
	ProductTeamID ProductTeamID
	Keys          []ProductKey
	Status        Status
	CreatedOn     time.Time
	UpdatedOn     time.Time

	pendingEvents []Event
}

func NewProduct(name, odsCode string, productTeamID ProductTeamID, keys []ProductKey) *Product {
	now := time.Now().UTC()

	product := &Product{
		ID:            NewProductID(),
		Name:          name,
		OdsCode:       odsCode,
		ProductTeamID: productTeamID,
		Keys:          keys,
		Status:        StatusActive,
		CreatedOn:     now,
		UpdatedOn:     now,
	}
	product.AddEvent(ProductCreated{ID: product.ID, ProductTeamID: productTeamID})

	return product
}

// PartyKey returns the product's party key, empty when none is attached.
func (p *Product) PartyKey() string {
	for _, key := range p.Keys {
		if key.Type == KeyTypePartyKey {
			return key.Value
		}
	}

	return ""
}

func (p *Product) AddEvent(event Event) {
	p.pendingEvents = append(p.pendingEvents, event)
}

func (p *Product) PendingEvents() []Event {
	return p.pendingEvents
}

func (p *Product) ClearPendingEvents() {
	p.pendingEvents = nil
}
